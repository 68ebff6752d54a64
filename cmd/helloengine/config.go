// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/gogpu/gputypes"
	"github.com/pelletier/go-toml/v2"

	"helloengine.org/gpu"
)

// fileConfig is the TOML configuration file. Absent keys keep their
// defaults.
type fileConfig struct {
	Width         int       `toml:"width"`
	Height        int       `toml:"height"`
	ClearColor    []float64 `toml:"clear_color"`
	FeatureLevels []string  `toml:"feature_levels"`
	VertexShader  string    `toml:"vertex_shader"`
	PixelShader   string    `toml:"pixel_shader"`
	ShaderDir     string    `toml:"shader_dir"`
}

type options struct {
	cfg       gpu.Config
	shaderDir string
	hlsl      bool
	headless  bool
	frames    int
	out       string
	debug     bool
}

func parseOptions(fs *flag.FlagSet, args []string) (options, error) {
	opts := options{cfg: gpu.DefaultConfig(), shaderDir: "."}
	var (
		width      = fs.Int("width", opts.cfg.Width, "window width in pixels")
		height     = fs.Int("height", opts.cfg.Height, "window height in pixels")
		shaderDir  = fs.String("shaders", opts.shaderDir, "directory of compiled shader blobs")
		vs         = fs.String("vs", opts.cfg.VertexShader, "vertex shader blob name")
		ps         = fs.String("ps", opts.cfg.PixelShader, "pixel shader blob name")
		configFile = fs.String("config", "", "TOML configuration `file`")
	)
	fs.BoolVar(&opts.hlsl, "hlsl", false, "compile the built-in HLSL shaders at startup (Windows)")
	fs.BoolVar(&opts.headless, "headless", false, "render offscreen with the software device")
	fs.IntVar(&opts.frames, "frames", 1, "number of frames to render in headless mode")
	fs.StringVar(&opts.out, "o", "", "write the last headless frame to this PNG `file`")
	fs.BoolVar(&opts.debug, "debug", false, "enable debug logging and the D3D11 debug layer")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if *configFile != "" {
		if err := loadConfig(*configFile, &opts); err != nil {
			return options{}, err
		}
	}
	// Flags given on the command line override the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			opts.cfg.Width = *width
		case "height":
			opts.cfg.Height = *height
		case "shaders":
			opts.shaderDir = *shaderDir
		case "vs":
			opts.cfg.VertexShader = *vs
		case "ps":
			opts.cfg.PixelShader = *ps
		}
	})
	if opts.frames < 1 {
		return options{}, fmt.Errorf("invalid -frames %d", opts.frames)
	}
	if opts.out != "" && !opts.headless {
		return options{}, errors.New("-o requires -headless")
	}
	if err := opts.cfg.Validate(); err != nil {
		return options{}, err
	}
	return opts, nil
}

func loadConfig(path string, opts *options) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var fc fileConfig
	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&fc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := fc.apply(opts); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (fc fileConfig) apply(opts *options) error {
	cfg := &opts.cfg
	if fc.Width != 0 {
		cfg.Width = fc.Width
	}
	if fc.Height != 0 {
		cfg.Height = fc.Height
	}
	if fc.ClearColor != nil {
		if len(fc.ClearColor) != 4 {
			return fmt.Errorf("clear_color: want 4 components, got %d", len(fc.ClearColor))
		}
		cfg.ClearColor = gputypes.Color{R: fc.ClearColor[0], G: fc.ClearColor[1], B: fc.ClearColor[2], A: fc.ClearColor[3]}
	}
	if fc.FeatureLevels != nil {
		levels := make([]gpu.FeatureLevel, len(fc.FeatureLevels))
		for i, s := range fc.FeatureLevels {
			l, err := gpu.ParseFeatureLevel(s)
			if err != nil {
				return fmt.Errorf("feature_levels: %w", err)
			}
			levels[i] = l
		}
		cfg.FeatureLevels = levels
	}
	if fc.VertexShader != "" {
		cfg.VertexShader = fc.VertexShader
	}
	if fc.PixelShader != "" {
		cfg.PixelShader = fc.PixelShader
	}
	if fc.ShaderDir != "" {
		opts.shaderDir = fc.ShaderDir
	}
	return nil
}
