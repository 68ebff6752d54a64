// SPDX-License-Identifier: Unlicense OR MIT

package gpu_test

import (
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helloengine.org/gpu"
	"helloengine.org/internal/gputest"
)

func TestRenderFrameNotReady(t *testing.T) {
	b := new(gputest.Backend)
	r := gpu.NewRenderer(newTestManager(t, b))

	assert.ErrorIs(t, r.RenderFrame(), gpu.ErrNotReady)
	assert.Empty(t, b.Calls)
}

func TestRenderFrame(t *testing.T) {
	b := new(gputest.Backend)
	m := newTestManager(t, b)
	r := gpu.NewRenderer(m)
	require.NoError(t, m.EnsureCreated(testSurface))
	b.Calls = nil

	require.NoError(t, r.RenderFrame())
	assert.Equal(t, []string{
		"Clear",
		"BindVertexBuffer",
		"SetPrimitiveTopology",
		"Draw",
		"Present",
	}, b.Calls)
	assert.Equal(t, gputypes.Color{R: 0, G: 0.2, B: 0.4, A: 1}, b.ClearColor)
	assert.Equal(t, gpu.VertexSize, b.Stride)
	assert.Zero(t, b.Offset)
	assert.Equal(t, gputypes.PrimitiveTopologyTriangleList, b.Topology)
	assert.Equal(t, 3, b.Drawn)
	assert.Equal(t, []int{0}, b.Presents)
	assert.Empty(t, b.Problems)
}

func TestRenderFrameCustomClearColor(t *testing.T) {
	b := new(gputest.Backend)
	cfg := gpu.DefaultConfig()
	cfg.ClearColor = gputypes.Color{R: 1, G: 1, B: 1, A: 1}
	m, err := gpu.NewResourceManager(b, testShaders, cfg)
	require.NoError(t, err)
	require.NoError(t, m.EnsureCreated(testSurface))

	require.NoError(t, gpu.NewRenderer(m).RenderFrame())
	assert.Equal(t, cfg.ClearColor, b.ClearColor)
}

func TestRenderFramePresentFailure(t *testing.T) {
	b := &gputest.Backend{
		Fail: map[string]error{"Present": fmt.Errorf("DXGI_ERROR_DEVICE_REMOVED: %w", gpu.ErrDeviceLost)},
	}
	m := newTestManager(t, b)
	r := gpu.NewRenderer(m)
	require.NoError(t, m.EnsureCreated(testSurface))

	err := r.RenderFrame()
	var perr *gpu.PresentError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, gpu.ErrDeviceLost)
	// Not retried, and the resources are left to the caller.
	assert.Empty(t, b.Presents)
	assert.True(t, m.Ready())

	delete(b.Fail, "Present")
	m.DiscardAll()
	require.NoError(t, m.EnsureCreated(testSurface))
	require.NoError(t, r.RenderFrame())
	assert.Equal(t, []int{0}, b.Presents)
	assert.Empty(t, b.Problems)
}
