// SPDX-License-Identifier: Unlicense OR MIT

// Command helloengine opens a window and draws a colored triangle with
// Direct3D 11. With -headless it renders with the software device
// instead and can save the result as a PNG image.
package main

import (
	_ "embed"
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"

	"helloengine.org/app"
	"helloengine.org/gpu"
	"helloengine.org/gpu/headless"
	"helloengine.org/internal/d3dcompile"
	"helloengine.org/io/system"
)

//go:embed shaders/copy.hlsl
var copyHLSL []byte

func main() {
	opts, err := parseOptions(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "helloengine: %v\n", err)
		os.Exit(2)
	}
	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	gpu.SetLogger(slog.New(app.NewLogHandler(level)))
	if err := run(opts); err != nil {
		gpu.Logger().Error("helloengine failed", "err", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	var shaders gpu.ShaderProvider = gpu.DirShaders(opts.shaderDir)
	if opts.hlsl {
		shaders = d3dcompile.NewProvider(copyHLSL, opts.cfg.VertexShader, opts.cfg.PixelShader)
	}
	if opts.headless {
		return runHeadless(opts, shaders)
	}
	w, err := app.NewWindow(nativeBackend(opts.debug), shaders, app.Config(opts.cfg), app.Title("Hello, Engine!"))
	if err != nil {
		return err
	}
	return w.Run()
}

func runHeadless(opts options, shaders gpu.ShaderProvider) error {
	b := headless.New(headless.Options{})
	w, err := app.NewHeadless(b, shaders, app.Config(opts.cfg))
	if err != nil {
		return err
	}
	for i := 0; i < opts.frames; i++ {
		w.Invalidate()
	}
	if err := w.Run(); err != nil {
		return err
	}
	gpu.Logger().Info("rendered", "frames", opts.frames, "feature_level", w.Resources().FeatureLevel())
	if opts.out != "" {
		if err := saveFrame(b, w.Surface(), opts.out); err != nil {
			return err
		}
	}
	return w.Event(system.DestroyEvent{})
}

func saveFrame(b *headless.Backend, s gpu.Surface, name string) error {
	img, err := b.Screenshot(s)
	if err != nil {
		return err
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
