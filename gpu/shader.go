// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"fmt"
	"os"
	"path/filepath"

	"gioui.org/shader"
)

// ShaderProvider supplies compiled shaders by name. The DXBC field of the
// returned sources holds the bytecode passed to the device; its contents
// are opaque to this package.
type ShaderProvider interface {
	Shader(name string) (shader.Sources, error)
}

// DirShaders loads precompiled shader blobs from files in a directory.
type DirShaders string

func (d DirShaders) Shader(name string) (shader.Sources, error) {
	code, err := os.ReadFile(filepath.Join(string(d), name))
	if err != nil {
		return shader.Sources{}, err
	}
	return shader.Sources{Name: name, DXBC: string(code)}, nil
}

// StaticShaders serves shaders from memory.
type StaticShaders map[string]shader.Sources

func (s StaticShaders) Shader(name string) (shader.Sources, error) {
	src, ok := s[name]
	if !ok {
		return shader.Sources{}, fmt.Errorf("gpu: no shader %q", name)
	}
	if src.Name == "" {
		src.Name = name
	}
	return src, nil
}

func loadBytecode(p ShaderProvider, name string) ([]byte, error) {
	src, err := p.Shader(name)
	if err != nil {
		return nil, err
	}
	if len(src.DXBC) == 0 {
		return nil, fmt.Errorf("shader %q has no bytecode", name)
	}
	return []byte(src.DXBC), nil
}
