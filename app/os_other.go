// SPDX-License-Identifier: Unlicense OR MIT

//go:build !windows
// +build !windows

package app

import (
	"helloengine.org/gpu"
)

// NewWindow returns ErrUnsupported; native windows exist only on
// Windows. Use NewHeadless for offscreen rendering.
func NewWindow(backend gpu.Backend, shaders gpu.ShaderProvider, options ...Option) (*Window, error) {
	return nil, ErrUnsupported
}
