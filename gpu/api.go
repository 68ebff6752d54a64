// SPDX-License-Identifier: Unlicense OR MIT

/*
Package gpu manages the graphics resources behind a window surface and
renders frames with them.

A ResourceManager lazily creates the device, swap chain and pipeline
objects for a surface and releases all of them at once. A Renderer draws
one frame with the resources of a ready ResourceManager. Both are driven
from the goroutine that owns the window and are not safe for concurrent
use.
*/
package gpu

import (
	"github.com/gogpu/gputypes"
)

// Surface is an opaque native window handle, such as a Windows HWND.
type Surface uintptr

// Backend creates devices. It is implemented by the Direct3D 11 driver
// and by the software device in package headless.
type Backend interface {
	// CreateDeviceAndSwapChain creates a device, its immediate context
	// and a swap chain presenting to surface. The first acceptable level
	// in levels is granted and returned. A backend that rejects the level
	// list as a whole returns a *FeatureLevelError.
	CreateDeviceAndSwapChain(surface Surface, desc SwapChainDesc, levels []FeatureLevel) (Device, DeviceContext, SwapChain, FeatureLevel, error)
}

// Device creates pipeline objects and buffers.
type Device interface {
	// CreateRenderTargetView creates a view of the swap chain's back buffer.
	CreateRenderTargetView(sc SwapChain) (RenderTargetView, error)
	CreateVertexShader(bytecode []byte) (VertexShader, error)
	CreatePixelShader(bytecode []byte) (PixelShader, error)
	// CreateInputLayout validates layout against the vertex shader
	// bytecode it is used with.
	CreateInputLayout(layout VertexLayout, vsBytecode []byte) (InputLayout, error)
	CreateBuffer(desc BufferDesc) (Buffer, error)
	Release()
}

// DeviceContext records and submits commands. The immediate context
// executes them as they are issued.
type DeviceContext interface {
	BindRenderTarget(rtv RenderTargetView)
	SetViewport(vp Viewport)
	BindVertexShader(vs VertexShader)
	BindPixelShader(ps PixelShader)
	BindInputLayout(l InputLayout)
	// Map returns CPU-writable memory for buf. The previous contents are
	// discarded. The memory is valid until Unmap.
	Map(buf Buffer) ([]byte, error)
	Unmap(buf Buffer)
	Clear(rtv RenderTargetView, color gputypes.Color)
	BindVertexBuffer(buf Buffer, stride, offset int)
	SetPrimitiveTopology(t gputypes.PrimitiveTopology)
	Draw(vertexCount, startVertex int)
	Release()
}

// SwapChain presents the back buffer to its surface.
type SwapChain interface {
	// Present displays the back buffer. A syncInterval of 0 presents
	// immediately without waiting for vertical blank.
	Present(syncInterval int) error
	Release()
}

type RenderTargetView interface {
	Release()
}

type VertexShader interface {
	Release()
}

type PixelShader interface {
	Release()
}

type InputLayout interface {
	Release()
}

type Buffer interface {
	Release()
}

// SwapChainDesc describes the swap chain created with a device.
type SwapChainDesc struct {
	Width, Height int
	Format        gputypes.TextureFormat
	BufferCount   int
	// RefreshRate is Numerator/Denominator Hz.
	RefreshNumerator   int
	RefreshDenominator int
	SampleCount        int
	Windowed           bool
	// AllowModeSwitch permits switching to full screen.
	AllowModeSwitch bool
}

// VertexLayout maps vertex buffer bytes to shader inputs. Semantics[i]
// names the shader input of Buffer.Attributes[i].
type VertexLayout struct {
	Buffer    gputypes.VertexBufferLayout
	Semantics []string
}

// BufferUsage tells the driver how a buffer is accessed.
type BufferUsage uint8

const (
	// BufferUsageDynamic buffers are read by the GPU and written by the
	// CPU through Map.
	BufferUsageDynamic BufferUsage = iota
	BufferUsageImmutable
)

type BufferBinding uint8

const (
	BufferBindingVertices BufferBinding = 1 << iota
)

type BufferDesc struct {
	Size    int
	Usage   BufferUsage
	Binding BufferBinding
}

// Viewport maps clip space to render target pixels.
type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}
