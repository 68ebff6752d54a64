// SPDX-License-Identifier: Unlicense OR MIT

package headless

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helloengine.org/gpu"
)

var dumpImages = flag.Bool("saveimages", false, "save test images")

const surface gpu.Surface = 1

var shaders = gpu.StaticShaders{
	"copy.vso": {DXBC: "vs"},
	"copy.pso": {DXBC: "ps"},
}

func newTestRenderer(t *testing.T, b *Backend) (*gpu.ResourceManager, *gpu.Renderer) {
	t.Helper()
	m, err := gpu.NewResourceManager(b, shaders, gpu.DefaultConfig())
	require.NoError(t, err)
	return m, gpu.NewRenderer(m)
}

func saveImage(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func TestTriangle(t *testing.T) {
	b := New(Options{})
	m, r := newTestRenderer(t, b)
	require.NoError(t, m.EnsureCreated(surface))
	require.NoError(t, r.RenderFrame())

	img, err := b.Screenshot(surface)
	require.NoError(t, err)
	if *dumpImages {
		require.NoError(t, saveImage("triangle.png", img))
	}
	assert.Equal(t, image.Rect(0, 0, 960, 480), img.Bounds())

	bg := color.RGBA{R: 0, G: 51, B: 102, A: 255}
	for _, p := range []image.Point{{0, 0}, {959, 0}, {0, 479}, {959, 479}, {480, 100}} {
		assert.Equal(t, bg, img.RGBAAt(p.X, p.Y), "background at %v", p)
	}

	dominant := []struct {
		x, y int
		ch   int
	}{
		{480, 240, 0},
		{480, 130, 0},
		{690, 355, 1},
		{270, 355, 2},
	}
	for _, d := range dominant {
		c := img.RGBAAt(d.x, d.y)
		ch := [3]uint8{c.R, c.G, c.B}
		for i := range ch {
			if i != d.ch {
				assert.Greater(t, ch[d.ch], ch[i], "(%d,%d): %v", d.x, d.y, c)
			}
		}
		assert.Equal(t, uint8(0xff), c.A)
	}
}

func TestClearColor(t *testing.T) {
	b := New(Options{})
	cfg := gpu.DefaultConfig()
	cfg.Width, cfg.Height = 64, 32
	cfg.ClearColor = gputypes.Color{R: 1, G: 0.5, B: 0, A: 1}
	m, err := gpu.NewResourceManager(b, shaders, cfg)
	require.NoError(t, err)
	require.NoError(t, m.EnsureCreated(surface))
	require.NoError(t, gpu.NewRenderer(m).RenderFrame())

	img, err := b.Screenshot(surface)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 32), img.Bounds())
	assert.Equal(t, color.RGBA{R: 255, G: 128, B: 0, A: 255}, img.RGBAAt(0, 0))
}

func TestFeatureLevelRetry(t *testing.T) {
	b := New(Options{MaxFeatureLevel: gpu.FeatureLevel10_1, MaxKnownLevel: gpu.FeatureLevel11_0})
	m, _ := newTestRenderer(t, b)

	require.NoError(t, m.EnsureCreated(surface))
	assert.Equal(t, gpu.FeatureLevel10_1, m.FeatureLevel())
}

func TestFeatureLevelHighestSupported(t *testing.T) {
	b := New(Options{MaxFeatureLevel: gpu.FeatureLevel9_3})
	m, _ := newTestRenderer(t, b)

	require.NoError(t, m.EnsureCreated(surface))
	assert.Equal(t, gpu.FeatureLevel9_3, m.FeatureLevel())
}

func TestDeviceLost(t *testing.T) {
	b := New(Options{})
	m, r := newTestRenderer(t, b)
	require.NoError(t, m.EnsureCreated(surface))
	require.NoError(t, r.RenderFrame())

	b.Lose()
	err := r.RenderFrame()
	var perr *gpu.PresentError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, gpu.ErrDeviceLost)

	m.DiscardAll()
	assert.Zero(t, b.Live())
	require.NoError(t, m.EnsureCreated(surface))
	assert.NoError(t, r.RenderFrame())
}

func TestNoLeaks(t *testing.T) {
	b := New(Options{})
	m, r := newTestRenderer(t, b)
	for i := 0; i < 3; i++ {
		require.NoError(t, m.EnsureCreated(surface))
		require.NoError(t, r.RenderFrame())
		assert.Equal(t, 8, b.Live())
		m.DiscardAll()
		assert.Zero(t, b.Live())
	}
}

func TestScreenshotBeforePresent(t *testing.T) {
	b := New(Options{})
	_, err := b.Screenshot(surface)
	assert.Error(t, err)
}

func TestInvalidSurface(t *testing.T) {
	b := New(Options{})
	m, _ := newTestRenderer(t, b)
	var cerr *gpu.CreationError
	assert.ErrorAs(t, m.EnsureCreated(0), &cerr)
	assert.Zero(t, b.Live())
}
