// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// Config holds the fixed parameters of the resources and frames.
type Config struct {
	// Width and Height are the swap chain and viewport size in pixels.
	Width, Height int
	ClearColor    gputypes.Color
	Geometry      [3]Vertex
	// FeatureLevels is the request list, most preferred first.
	FeatureLevels []FeatureLevel
	// VertexShader and PixelShader name the blobs loaded from the
	// ShaderProvider.
	VertexShader string
	PixelShader  string
	SampleCount  int
}

// DefaultConfig returns a 960x480 configuration drawing Triangle over a
// dark blue background.
func DefaultConfig() Config {
	return Config{
		Width:         960,
		Height:        480,
		ClearColor:    gputypes.Color{R: 0.0, G: 0.2, B: 0.4, A: 1.0},
		Geometry:      Triangle,
		FeatureLevels: append([]FeatureLevel(nil), DefaultFeatureLevels...),
		VertexShader:  "copy.vso",
		PixelShader:   "copy.pso",
		SampleCount:   4,
	}
}

// Validate reports the first invalid field of c.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("gpu: invalid size %dx%d", c.Width, c.Height)
	case len(c.FeatureLevels) == 0:
		return errNoFeatureLevels
	case c.VertexShader == "" || c.PixelShader == "":
		return errors.New("gpu: missing shader name")
	case c.SampleCount < 1:
		return fmt.Errorf("gpu: invalid sample count %d", c.SampleCount)
	}
	return nil
}

func (c Config) swapChainDesc() SwapChainDesc {
	return SwapChainDesc{
		Width:              c.Width,
		Height:             c.Height,
		Format:             gputypes.TextureFormatRGBA8Unorm,
		BufferCount:        1,
		RefreshNumerator:   60,
		RefreshDenominator: 1,
		SampleCount:        c.SampleCount,
		Windowed:           true,
		AllowModeSwitch:    true,
	}
}

func (c Config) viewport() Viewport {
	return Viewport{
		Width:    float32(c.Width),
		Height:   float32(c.Height),
		MaxDepth: 1,
	}
}
