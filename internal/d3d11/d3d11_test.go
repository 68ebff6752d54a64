// SPDX-License-Identifier: Unlicense OR MIT

package d3d11

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helloengine.org/gpu"
)

func TestDeviceLostCodes(t *testing.T) {
	for _, code := range []uint32{DXGI_ERROR_DEVICE_REMOVED, DXGI_ERROR_DEVICE_RESET, DXGI_ERROR_DEVICE_HUNG, D3DDDIERR_DEVICEREMOVED} {
		err := presentResult(uintptr(code))
		assert.ErrorIs(t, err, gpu.ErrDeviceLost, "%#x", code)
	}
	assert.NotErrorIs(t, presentResult(E_INVALIDARG), gpu.ErrDeviceLost)
}

func TestPresentOccluded(t *testing.T) {
	assert.NoError(t, presentResult(DXGI_STATUS_OCCLUDED))
	assert.NoError(t, presentResult(0))
}

func TestCreateResult(t *testing.T) {
	levels := gpu.DefaultFeatureLevels
	require.NoError(t, createResult(0, levels, gpu.FeatureLevel11_1))

	var ferr *gpu.FeatureLevelError
	require.ErrorAs(t, createResult(E_INVALIDARG, levels, 0), &ferr)
	assert.Equal(t, gpu.FeatureLevel11_0, ferr.Supported)
	assert.Equal(t, levels, ferr.Requested)

	require.ErrorAs(t, createResult(E_INVALIDARG, levels, gpu.FeatureLevel10_0), &ferr)
	assert.Equal(t, gpu.FeatureLevel10_0, ferr.Supported)

	err := createResult(0x80004005, levels, 0)
	var code ErrorCode
	require.True(t, errors.As(err, &code))
	assert.Equal(t, uint32(0x80004005), code.Code)
	assert.False(t, errors.As(err, &ferr))
}

func TestInputElements(t *testing.T) {
	elems, err := inputElements(gpu.TriangleLayout)
	require.NoError(t, err)
	assert.Equal(t, []inputElement{
		{Semantic: "POSITION", Format: _DXGI_FORMAT_R32G32B32_FLOAT, Offset: 0},
		{Semantic: "COLOR", Format: _DXGI_FORMAT_R32G32B32A32_FLOAT, Offset: 12},
	}, elems)

	bad := gpu.TriangleLayout
	bad.Semantics = bad.Semantics[:1]
	_, err = inputElements(bad)
	assert.Error(t, err)
}

func TestFormats(t *testing.T) {
	f, err := textureFormat(gputypes.TextureFormatRGBA8Unorm)
	require.NoError(t, err)
	assert.Equal(t, uint32(_DXGI_FORMAT_R8G8B8A8_UNORM), f)

	assert.Equal(t, uint32(_D3D11_PRIMITIVE_TOPOLOGY_TRIANGLELIST), primitiveTopology(gputypes.PrimitiveTopologyTriangleList))
}

func TestBufferFlags(t *testing.T) {
	usage, bind, cpu := bufferFlags(gpu.BufferDesc{Size: 84, Usage: gpu.BufferUsageDynamic, Binding: gpu.BufferBindingVertices})
	assert.Equal(t, uint32(_D3D11_USAGE_DYNAMIC), usage)
	assert.Equal(t, uint32(_D3D11_BIND_VERTEX_BUFFER), bind)
	assert.Equal(t, uint32(_D3D11_CPU_ACCESS_WRITE), cpu)

	usage, _, cpu = bufferFlags(gpu.BufferDesc{Size: 84, Usage: gpu.BufferUsageImmutable})
	assert.Equal(t, uint32(_D3D11_USAGE_IMMUTABLE), usage)
	assert.Zero(t, cpu)
}
