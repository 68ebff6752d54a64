// SPDX-License-Identifier: Unlicense OR MIT

// Package d3dcompile compiles HLSL to DXBC bytecode at run time.
package d3dcompile

import (
	"errors"
	"fmt"

	"gioui.org/shader"
)

// compiler is D3DCompile where d3dcompiler_47.dll is available.
var compiler func(src []byte, entryPoint, target string) ([]byte, error)

var ErrUnsupported = errors.New("d3dcompile: HLSL compilation is not supported on this platform")

// Entry selects an entry point of the source and its target profile.
type Entry struct {
	EntryPoint string
	Target     string
}

// Provider compiles shaders from a single HLSL source on first request
// and serves the cached bytecode afterwards. It implements
// gpu.ShaderProvider.
type Provider struct {
	src     []byte
	entries map[string]Entry
	compile func(src []byte, entryPoint, target string) ([]byte, error)
	cache   map[string]shader.Sources
}

// NewProvider returns a Provider for src. The vertex shader vsName is
// compiled from VSMain with the vs_4_0 profile, the pixel shader psName
// from PSMain with ps_4_0.
func NewProvider(src []byte, vsName, psName string) *Provider {
	return newProvider(src, map[string]Entry{
		vsName: {EntryPoint: "VSMain", Target: "vs_4_0"},
		psName: {EntryPoint: "PSMain", Target: "ps_4_0"},
	}, compiler)
}

func newProvider(src []byte, entries map[string]Entry, compile func([]byte, string, string) ([]byte, error)) *Provider {
	return &Provider{
		src:     src,
		entries: entries,
		compile: compile,
		cache:   make(map[string]shader.Sources),
	}
}

func (p *Provider) Shader(name string) (shader.Sources, error) {
	if src, ok := p.cache[name]; ok {
		return src, nil
	}
	e, ok := p.entries[name]
	if !ok {
		return shader.Sources{}, fmt.Errorf("d3dcompile: no entry point for shader %q", name)
	}
	if p.compile == nil {
		return shader.Sources{}, ErrUnsupported
	}
	code, err := p.compile(p.src, e.EntryPoint, e.Target)
	if err != nil {
		return shader.Sources{}, err
	}
	src := shader.Sources{Name: name, DXBC: string(code)}
	p.cache[name] = src
	return src, nil
}
