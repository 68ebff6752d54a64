// SPDX-License-Identifier: Unlicense OR MIT

package d3d11

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"helloengine.org/gpu"
)

const (
	_DXGI_FORMAT_UNKNOWN            = 0
	_DXGI_FORMAT_R32G32B32A32_FLOAT = 2
	_DXGI_FORMAT_R32G32B32_FLOAT    = 6
	_DXGI_FORMAT_R32G32_FLOAT       = 16
	_DXGI_FORMAT_R8G8B8A8_UNORM     = 28
	_DXGI_FORMAT_R32_FLOAT          = 41
	_DXGI_FORMAT_B8G8R8A8_UNORM     = 87

	_D3D11_PRIMITIVE_TOPOLOGY_UNDEFINED    = 0
	_D3D11_PRIMITIVE_TOPOLOGY_TRIANGLELIST = 4

	_D3D11_USAGE_DEFAULT   = 0
	_D3D11_USAGE_IMMUTABLE = 1
	_D3D11_USAGE_DYNAMIC   = 2

	_D3D11_BIND_VERTEX_BUFFER = 0x1
	_D3D11_CPU_ACCESS_WRITE   = 0x10000
)

func textureFormat(f gputypes.TextureFormat) (uint32, error) {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm:
		return _DXGI_FORMAT_R8G8B8A8_UNORM, nil
	case gputypes.TextureFormatBGRA8Unorm:
		return _DXGI_FORMAT_B8G8R8A8_UNORM, nil
	}
	return _DXGI_FORMAT_UNKNOWN, fmt.Errorf("d3d11: unsupported texture format %v", f)
}

func vertexFormat(f gputypes.VertexFormat) (uint32, error) {
	switch f {
	case gputypes.VertexFormatFloat32:
		return _DXGI_FORMAT_R32_FLOAT, nil
	case gputypes.VertexFormatFloat32x2:
		return _DXGI_FORMAT_R32G32_FLOAT, nil
	case gputypes.VertexFormatFloat32x3:
		return _DXGI_FORMAT_R32G32B32_FLOAT, nil
	case gputypes.VertexFormatFloat32x4:
		return _DXGI_FORMAT_R32G32B32A32_FLOAT, nil
	}
	return _DXGI_FORMAT_UNKNOWN, fmt.Errorf("d3d11: unsupported vertex format %v", f)
}

func primitiveTopology(t gputypes.PrimitiveTopology) uint32 {
	switch t {
	case gputypes.PrimitiveTopologyTriangleList:
		return _D3D11_PRIMITIVE_TOPOLOGY_TRIANGLELIST
	}
	return _D3D11_PRIMITIVE_TOPOLOGY_UNDEFINED
}

// bufferFlags returns the D3D11_BUFFER_DESC usage, bind and CPU access
// flags for desc.
func bufferFlags(desc gpu.BufferDesc) (usage, bind, cpuAccess uint32) {
	if desc.Binding&gpu.BufferBindingVertices != 0 {
		bind |= _D3D11_BIND_VERTEX_BUFFER
	}
	switch desc.Usage {
	case gpu.BufferUsageDynamic:
		usage, cpuAccess = _D3D11_USAGE_DYNAMIC, _D3D11_CPU_ACCESS_WRITE
	case gpu.BufferUsageImmutable:
		usage = _D3D11_USAGE_IMMUTABLE
	default:
		usage = _D3D11_USAGE_DEFAULT
	}
	return usage, bind, cpuAccess
}

// inputElement is a platform independent D3D11_INPUT_ELEMENT_DESC.
type inputElement struct {
	Semantic string
	Format   uint32
	Offset   uint32
}

func inputElements(l gpu.VertexLayout) ([]inputElement, error) {
	if len(l.Semantics) != len(l.Buffer.Attributes) {
		return nil, fmt.Errorf("d3d11: %d semantics for %d attributes", len(l.Semantics), len(l.Buffer.Attributes))
	}
	elems := make([]inputElement, len(l.Buffer.Attributes))
	for i, a := range l.Buffer.Attributes {
		f, err := vertexFormat(a.Format)
		if err != nil {
			return nil, err
		}
		elems[i] = inputElement{Semantic: l.Semantics[i], Format: f, Offset: uint32(a.Offset)}
	}
	return elems, nil
}
