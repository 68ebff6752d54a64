// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"flag"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helloengine.org/gpu"
)

func parse(t *testing.T, args ...string) (options, error) {
	t.Helper()
	fs := flag.NewFlagSet("helloengine", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return parseOptions(fs, args)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	opts, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, gpu.DefaultConfig(), opts.cfg)
	assert.Equal(t, ".", opts.shaderDir)
	assert.Equal(t, 1, opts.frames)
	assert.False(t, opts.headless)
}

func TestConfigFile(t *testing.T) {
	path := writeFile(t, "helloengine.toml", `
width = 640
height = 360
clear_color = [1.0, 0.5, 0.25, 1.0]
feature_levels = ["10_1", "D3D_FEATURE_LEVEL_9_3"]
vertex_shader = "tri.vso"
shader_dir = "blobs"
`)
	opts, err := parse(t, "-config", path)
	require.NoError(t, err)
	assert.Equal(t, 640, opts.cfg.Width)
	assert.Equal(t, 360, opts.cfg.Height)
	assert.Equal(t, gputypes.Color{R: 1, G: 0.5, B: 0.25, A: 1}, opts.cfg.ClearColor)
	assert.Equal(t, []gpu.FeatureLevel{gpu.FeatureLevel10_1, gpu.FeatureLevel9_3}, opts.cfg.FeatureLevels)
	assert.Equal(t, "tri.vso", opts.cfg.VertexShader)
	assert.Equal(t, "copy.pso", opts.cfg.PixelShader)
	assert.Equal(t, "blobs", opts.shaderDir)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "helloengine.toml", "width = 640\nshader_dir = \"blobs\"\n")
	opts, err := parse(t, "-config", path, "-width", "800", "-shaders", "other")
	require.NoError(t, err)
	assert.Equal(t, 800, opts.cfg.Width)
	assert.Equal(t, "other", opts.shaderDir)
}

func TestConfigErrors(t *testing.T) {
	for name, content := range map[string]string{
		"level":   `feature_levels = ["12_0"]`,
		"color":   `clear_color = [1.0, 0.0]`,
		"unknown": `fullscreen = true`,
		"syntax":  `width = `,
		"size":    `width = -1`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parse(t, "-config", writeFile(t, "bad.toml", content))
			assert.Error(t, err)
		})
	}
	_, err := parse(t, "-config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestFlagErrors(t *testing.T) {
	_, err := parse(t, "-frames", "0", "-headless")
	assert.Error(t, err)
	_, err = parse(t, "-o", "out.png")
	assert.Error(t, err)
	_, err = parse(t, "-height", "0")
	assert.Error(t, err)
}

func TestRunHeadless(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "copy.vso"), []byte("vs"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "copy.pso"), []byte("ps"), 0o644))
	out := filepath.Join(dir, "frame.png")

	opts, err := parse(t, "-headless", "-frames", "3", "-width", "96", "-height", "48", "-shaders", dir, "-o", out)
	require.NoError(t, err)
	require.NoError(t, run(opts))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 96, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestRunHeadlessMissingShaders(t *testing.T) {
	opts, err := parse(t, "-headless", "-shaders", t.TempDir())
	require.NoError(t, err)
	var cerr *gpu.CreationError
	assert.ErrorAs(t, run(opts), &cerr)
}
