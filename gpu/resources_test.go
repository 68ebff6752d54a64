// SPDX-License-Identifier: Unlicense OR MIT

package gpu_test

import (
	"errors"
	"strings"
	"testing"

	"gioui.org/shader"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helloengine.org/gpu"
	"helloengine.org/internal/gputest"
)

const testSurface gpu.Surface = 0x1234

var testShaders = gpu.StaticShaders{
	"copy.vso": {DXBC: "DXBC-vertex"},
	"copy.pso": {DXBC: "DXBC-pixel"},
}

func newTestManager(t *testing.T, b gpu.Backend) *gpu.ResourceManager {
	t.Helper()
	m, err := gpu.NewResourceManager(b, testShaders, gpu.DefaultConfig())
	require.NoError(t, err)
	return m
}

func releases(calls []string) []string {
	var r []string
	for _, c := range calls {
		if strings.HasPrefix(c, "Release ") {
			r = append(r, strings.TrimPrefix(c, "Release "))
		}
	}
	return r
}

func TestEnsureCreated(t *testing.T) {
	b := new(gputest.Backend)
	m := newTestManager(t, b)
	assert.False(t, m.Ready())
	assert.True(t, m.Context().Empty())

	require.NoError(t, m.EnsureCreated(testSurface))
	assert.True(t, m.Ready())
	assert.True(t, m.Context().Complete())
	assert.Equal(t, gpu.FeatureLevel11_1, m.FeatureLevel())
	assert.Equal(t, 8, b.Live())
	assert.Empty(t, b.Problems)

	assert.Equal(t, gpu.SwapChainDesc{
		Width:              960,
		Height:             480,
		Format:             gputypes.TextureFormatRGBA8Unorm,
		BufferCount:        1,
		RefreshNumerator:   60,
		RefreshDenominator: 1,
		SampleCount:        4,
		Windowed:           true,
		AllowModeSwitch:    true,
	}, b.Desc)
	assert.Equal(t, gpu.Viewport{Width: 960, Height: 480, MaxDepth: 1}, b.Viewport)
	assert.Equal(t, []string{
		"CreateDeviceAndSwapChain",
		"CreateRenderTargetView",
		"BindRenderTarget",
		"SetViewport",
		"CreateVertexShader",
		"CreatePixelShader",
		"BindVertexShader",
		"BindPixelShader",
		"CreateInputLayout",
		"BindInputLayout",
		"CreateBuffer",
		"Map",
		"Unmap",
	}, b.Calls)

	require.Len(t, b.Vertices, 3*gpu.VertexSize)
	for i, want := range gpu.Triangle {
		assert.Equal(t, want, gpu.DecodeVertex(b.Vertices, i), "vertex %d", i)
	}
}

func TestEnsureCreatedIdempotent(t *testing.T) {
	b := new(gputest.Backend)
	m := newTestManager(t, b)
	require.NoError(t, m.EnsureCreated(testSurface))
	before := *m.Context()
	created := b.Created()

	require.NoError(t, m.EnsureCreated(testSurface))
	assert.Equal(t, created, b.Created(), "second call allocated")
	assert.Equal(t, before, *m.Context())
	assert.Len(t, b.Requests, 1)
}

func TestEnsureCreatedRollback(t *testing.T) {
	steps := []struct {
		op   string
		step string
	}{
		{"CreateDeviceAndSwapChain", "create device"},
		{"CreateRenderTargetView", "create render target"},
		{"CreateVertexShader", "create vertex shader"},
		{"CreatePixelShader", "create pixel shader"},
		{"CreateInputLayout", "create input layout"},
		{"CreateBuffer", "create vertex buffer"},
		{"Map", "create vertex buffer"},
	}
	for _, s := range steps {
		t.Run(s.op, func(t *testing.T) {
			b := &gputest.Backend{Fail: map[string]error{s.op: nil}}
			m := newTestManager(t, b)

			err := m.EnsureCreated(testSurface)
			var cerr *gpu.CreationError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, s.step, cerr.Step)
			assert.ErrorIs(t, err, gputest.ErrInjected)

			assert.False(t, m.Ready())
			assert.True(t, m.Context().Empty())
			assert.Zero(t, b.Live(), "leaked objects")
			assert.Empty(t, b.Problems)

			// A later attempt starts from scratch.
			delete(b.Fail, s.op)
			require.NoError(t, m.EnsureCreated(testSurface))
			assert.True(t, m.Context().Complete())
			assert.Empty(t, b.Problems)
		})
	}
}

func TestEnsureCreatedMissingShader(t *testing.T) {
	b := new(gputest.Backend)
	shaders := gpu.StaticShaders{
		"copy.vso": {DXBC: "DXBC-vertex"},
		"copy.pso": {},
	}
	m, err := gpu.NewResourceManager(b, shaders, gpu.DefaultConfig())
	require.NoError(t, err)

	err = m.EnsureCreated(testSurface)
	var cerr *gpu.CreationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "load shaders", cerr.Step)
	assert.True(t, m.Context().Empty())
	assert.Zero(t, b.Live())
}

func TestDiscardAll(t *testing.T) {
	b := new(gputest.Backend)
	m := newTestManager(t, b)

	// Discarding nothing is harmless.
	m.DiscardAll()
	assert.Empty(t, b.Calls)

	require.NoError(t, m.EnsureCreated(testSurface))
	old := *m.Context()
	m.DiscardAll()
	assert.False(t, m.Ready())
	assert.True(t, m.Context().Empty())
	assert.Zero(t, b.Live())
	assert.Equal(t, []string{
		"inputlayout",
		"vertexshader",
		"pixelshader",
		"buffer",
		"rendertarget",
		"swapchain",
		"context",
		"device",
	}, releases(b.Calls))

	m.DiscardAll()
	assert.Empty(t, b.Problems)

	require.NoError(t, m.EnsureCreated(testSurface))
	assert.True(t, m.Context().Complete())
	assert.NotSame(t, old.Device, m.Context().Device)
	assert.NotSame(t, old.VertexBuffer, m.Context().VertexBuffer)
	assert.Equal(t, 16, b.Created())
	assert.Equal(t, 8, b.Live())
	assert.Empty(t, b.Problems)
}

func TestFeatureLevelFallback(t *testing.T) {
	b := &gputest.Backend{Supported: gpu.FeatureLevel10_1}
	m := newTestManager(t, b)

	require.NoError(t, m.EnsureCreated(testSurface))
	assert.Equal(t, gpu.FeatureLevel10_1, m.FeatureLevel())
	assert.Equal(t, gpu.FeatureLevel10_1, m.Context().FeatureLevel)
	require.Len(t, b.Requests, 2)
	assert.Equal(t, gpu.DefaultFeatureLevels, b.Requests[0])
	assert.Equal(t, []gpu.FeatureLevel{gpu.FeatureLevel10_1}, b.Requests[1])
}

// rejectAll rejects every level list.
type rejectAll struct {
	requests int
}

func (r *rejectAll) CreateDeviceAndSwapChain(s gpu.Surface, desc gpu.SwapChainDesc, levels []gpu.FeatureLevel) (gpu.Device, gpu.DeviceContext, gpu.SwapChain, gpu.FeatureLevel, error) {
	r.requests++
	return nil, nil, nil, 0, &gpu.FeatureLevelError{Requested: levels, Supported: gpu.FeatureLevel9_1}
}

func TestFeatureLevelFallbackOnce(t *testing.T) {
	b := new(rejectAll)
	m := newTestManager(t, b)

	err := m.EnsureCreated(testSurface)
	var cerr *gpu.CreationError
	require.ErrorAs(t, err, &cerr)
	var flerr *gpu.FeatureLevelError
	require.ErrorAs(t, err, &flerr)
	assert.Equal(t, []gpu.FeatureLevel{gpu.FeatureLevel9_1}, flerr.Requested)
	assert.Equal(t, 2, b.requests)
	assert.False(t, m.Ready())
}

func TestCreateDeviceErrorNotRetried(t *testing.T) {
	deviceErr := errors.New("no adapter")
	b := &gputest.Backend{Fail: map[string]error{"CreateDeviceAndSwapChain": deviceErr}}
	m := newTestManager(t, b)

	err := m.EnsureCreated(testSurface)
	assert.ErrorIs(t, err, deviceErr)
	assert.Len(t, b.Requests, 1)
}

func TestNewResourceManagerInvalidConfig(t *testing.T) {
	cfg := gpu.DefaultConfig()
	cfg.FeatureLevels = nil
	_, err := gpu.NewResourceManager(new(gputest.Backend), testShaders, cfg)
	assert.Error(t, err)
}

func TestStaticShaders(t *testing.T) {
	src, err := testShaders.Shader("copy.vso")
	require.NoError(t, err)
	assert.Equal(t, shader.Sources{Name: "copy.vso", DXBC: "DXBC-vertex"}, src)

	_, err = testShaders.Shader("missing.vso")
	assert.Error(t, err)
}
