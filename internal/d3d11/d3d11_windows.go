// SPDX-License-Identifier: Unlicense OR MIT

package d3d11

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

type _DXGI_SWAP_CHAIN_DESC struct {
	BufferDesc   _DXGI_MODE_DESC
	SampleDesc   _DXGI_SAMPLE_DESC
	BufferUsage  uint32
	BufferCount  uint32
	OutputWindow windows.Handle
	Windowed     uint32
	SwapEffect   uint32
	Flags        uint32
}

type _DXGI_MODE_DESC struct {
	Width            uint32
	Height           uint32
	RefreshRate      _DXGI_RATIONAL
	Format           uint32
	ScanlineOrdering uint32
	Scaling          uint32
}

type _DXGI_RATIONAL struct {
	Numerator   uint32
	Denominator uint32
}

type _DXGI_SAMPLE_DESC struct {
	Count   uint32
	Quality uint32
}

type _D3D11_BUFFER_DESC struct {
	ByteWidth           uint32
	Usage               uint32
	BindFlags           uint32
	CPUAccessFlags      uint32
	MiscFlags           uint32
	StructureByteStride uint32
}

type _D3D11_INPUT_ELEMENT_DESC struct {
	SemanticName         *byte
	SemanticIndex        uint32
	Format               uint32
	InputSlot            uint32
	AlignedByteOffset    uint32
	InputSlotClass       uint32
	InstanceDataStepRate uint32
}

type _D3D11_MAPPED_SUBRESOURCE struct {
	pData      unsafe.Pointer
	RowPitch   uint32
	DepthPitch uint32
}

type _D3D11_VIEWPORT struct {
	TopLeftX float32
	TopLeftY float32
	Width    float32
	Height   float32
	MinDepth float32
	MaxDepth float32
}

type _IUnknownVTbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
}

type _ID3D11DeviceChildVTbl struct {
	_IUnknownVTbl
	GetDevice               uintptr
	GetPrivateData          uintptr
	SetPrivateData          uintptr
	SetPrivateDataInterface uintptr
}

type _IDXGIObjectVTbl struct {
	_IUnknownVTbl
	SetPrivateData          uintptr
	SetPrivateDataInterface uintptr
	GetPrivateData          uintptr
	GetParent               uintptr
}

type _ID3D11Device struct {
	vtbl *struct {
		_IUnknownVTbl
		CreateBuffer                         uintptr
		CreateTexture1D                      uintptr
		CreateTexture2D                      uintptr
		CreateTexture3D                      uintptr
		CreateShaderResourceView             uintptr
		CreateUnorderedAccessView            uintptr
		CreateRenderTargetView               uintptr
		CreateDepthStencilView               uintptr
		CreateInputLayout                    uintptr
		CreateVertexShader                   uintptr
		CreateGeometryShader                 uintptr
		CreateGeometryShaderWithStreamOutput uintptr
		CreatePixelShader                    uintptr
		CreateHullShader                     uintptr
		CreateDomainShader                   uintptr
		CreateComputeShader                  uintptr
		CreateClassLinkage                   uintptr
		CreateBlendState                     uintptr
		CreateDepthStencilState              uintptr
		CreateRasterizerState                uintptr
		CreateSamplerState                   uintptr
		CreateQuery                          uintptr
		CreatePredicate                      uintptr
		CreateCounter                        uintptr
		CreateDeferredContext                uintptr
		OpenSharedResource                   uintptr
		CheckFormatSupport                   uintptr
		CheckMultisampleQualityLevels        uintptr
		CheckCounterInfo                     uintptr
		CheckCounter                         uintptr
		CheckFeatureSupport                  uintptr
		GetPrivateData                       uintptr
		SetPrivateData                       uintptr
		SetPrivateDataInterface              uintptr
		GetFeatureLevel                      uintptr
		GetCreationFlags                     uintptr
		GetDeviceRemovedReason               uintptr
		GetImmediateContext                  uintptr
		SetExceptionMode                     uintptr
		GetExceptionMode                     uintptr
	}
}

// _ID3D11DeviceContext lists the vtable up to the last method in use.
type _ID3D11DeviceContext struct {
	vtbl *struct {
		_ID3D11DeviceChildVTbl
		VSSetConstantBuffers                      uintptr
		PSSetShaderResources                      uintptr
		PSSetShader                               uintptr
		PSSetSamplers                             uintptr
		VSSetShader                               uintptr
		DrawIndexed                               uintptr
		Draw                                      uintptr
		Map                                       uintptr
		Unmap                                     uintptr
		PSSetConstantBuffers                      uintptr
		IASetInputLayout                          uintptr
		IASetVertexBuffers                        uintptr
		IASetIndexBuffer                          uintptr
		DrawIndexedInstanced                      uintptr
		DrawInstanced                             uintptr
		GSSetConstantBuffers                      uintptr
		GSSetShader                               uintptr
		IASetPrimitiveTopology                    uintptr
		VSSetShaderResources                      uintptr
		VSSetSamplers                             uintptr
		Begin                                     uintptr
		End                                       uintptr
		GetData                                   uintptr
		SetPredication                            uintptr
		GSSetShaderResources                      uintptr
		GSSetSamplers                             uintptr
		OMSetRenderTargets                        uintptr
		OMSetRenderTargetsAndUnorderedAccessViews uintptr
		OMSetBlendState                           uintptr
		OMSetDepthStencilState                    uintptr
		SOSetTargets                              uintptr
		DrawAuto                                  uintptr
		DrawIndexedInstancedIndirect              uintptr
		DrawInstancedIndirect                     uintptr
		Dispatch                                  uintptr
		DispatchIndirect                          uintptr
		RSSetState                                uintptr
		RSSetViewports                            uintptr
		RSSetScissorRects                         uintptr
		CopySubresourceRegion                     uintptr
		CopyResource                              uintptr
		UpdateSubresource                         uintptr
		CopyStructureCount                        uintptr
		ClearRenderTargetView                     uintptr
	}
}

type _IDXGISwapChain struct {
	vtbl *struct {
		_IDXGIObjectVTbl
		GetDevice           uintptr
		Present             uintptr
		GetBuffer           uintptr
		SetFullscreenState  uintptr
		GetFullscreenState  uintptr
		GetDesc             uintptr
		ResizeBuffers       uintptr
		ResizeTarget        uintptr
		GetContainingOutput uintptr
		GetFrameStatistics  uintptr
		GetLastPresentCount uintptr
	}
}

type _ID3D11Resource struct {
	vtbl *struct {
		_ID3D11DeviceChildVTbl
		GetType             uintptr
		SetEvictionPriority uintptr
		GetEvictionPriority uintptr
	}
}

type _ID3D11Texture2D struct {
	vtbl *struct {
		_ID3D11DeviceChildVTbl
		GetType             uintptr
		SetEvictionPriority uintptr
		GetEvictionPriority uintptr
		GetDesc             uintptr
	}
}

type _ID3D11Buffer struct {
	vtbl *struct {
		_ID3D11DeviceChildVTbl
		GetType             uintptr
		SetEvictionPriority uintptr
		GetEvictionPriority uintptr
		GetDesc             uintptr
	}
}

type _ID3D11RenderTargetView struct {
	vtbl *struct {
		_ID3D11DeviceChildVTbl
		GetResource uintptr
		GetDesc     uintptr
	}
}

type _ID3D11VertexShader struct {
	vtbl *struct {
		_ID3D11DeviceChildVTbl
	}
}

type _ID3D11PixelShader struct {
	vtbl *struct {
		_ID3D11DeviceChildVTbl
	}
}

type _ID3D11InputLayout struct {
	vtbl *struct {
		_ID3D11DeviceChildVTbl
	}
}

var (
	_IID_ID3D11Texture2D = windows.GUID{Data1: 0x6f15aaf2, Data2: 0xd208, Data3: 0x4e89, Data4: [8]uint8{0x9a, 0xb4, 0x48, 0x95, 0x35, 0xd3, 0x4f, 0x9c}}
)

var (
	d3d11 = windows.NewLazySystemDLL("d3d11.dll")

	__D3D11CreateDeviceAndSwapChain = d3d11.NewProc("D3D11CreateDeviceAndSwapChain")
)

const (
	_D3D11_SDK_VERSION        = 7
	_D3D_DRIVER_TYPE_HARDWARE = 1

	_D3D11_CREATE_DEVICE_DEBUG = 0x2

	_DXGI_USAGE_RENDER_TARGET_OUTPUT = 1 << (1 + 4)

	_DXGI_SWAP_EFFECT_DISCARD = 0

	_DXGI_SWAP_CHAIN_FLAG_ALLOW_MODE_SWITCH = 0x2

	_D3D11_INPUT_PER_VERTEX_DATA = 0

	_D3D11_MAP_WRITE_DISCARD = 4
)

func _D3D11CreateDeviceAndSwapChain(driverType, flags uint32, levels []uint32, desc *_DXGI_SWAP_CHAIN_DESC) (*_ID3D11Device, *_ID3D11DeviceContext, *_IDXGISwapChain, uint32, uintptr) {
	var (
		dev     *_ID3D11Device
		ctx     *_ID3D11DeviceContext
		swchain *_IDXGISwapChain
		featLvl uint32
	)
	var plevels uintptr
	if len(levels) > 0 {
		plevels = uintptr(unsafe.Pointer(&levels[0]))
	}
	r, _, _ := __D3D11CreateDeviceAndSwapChain.Call(
		0, // pAdapter
		uintptr(driverType),
		0, // Software
		uintptr(flags),
		plevels,
		uintptr(len(levels)),
		_D3D11_SDK_VERSION,
		uintptr(unsafe.Pointer(desc)),
		uintptr(unsafe.Pointer(&swchain)),
		uintptr(unsafe.Pointer(&dev)),
		uintptr(unsafe.Pointer(&featLvl)),
		uintptr(unsafe.Pointer(&ctx)),
	)
	return dev, ctx, swchain, featLvl, r
}

func (d *_ID3D11Device) CreateBuffer(desc *_D3D11_BUFFER_DESC) (*_ID3D11Buffer, error) {
	var buf *_ID3D11Buffer
	r, _, _ := syscall.SyscallN(
		d.vtbl.CreateBuffer,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(desc)),
		0, // pInitialData
		uintptr(unsafe.Pointer(&buf)),
	)
	if failed(r) {
		return nil, ErrorCode{Name: "ID3D11DeviceCreateBuffer", Code: uint32(r)}
	}
	return buf, nil
}

func (d *_ID3D11Device) CreateRenderTargetView(res *_ID3D11Resource) (*_ID3D11RenderTargetView, error) {
	var target *_ID3D11RenderTargetView
	r, _, _ := syscall.SyscallN(
		d.vtbl.CreateRenderTargetView,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(res)),
		0, // pDesc
		uintptr(unsafe.Pointer(&target)),
	)
	if failed(r) {
		return nil, ErrorCode{Name: "ID3D11DeviceCreateRenderTargetView", Code: uint32(r)}
	}
	return target, nil
}

func (d *_ID3D11Device) CreateInputLayout(descs []_D3D11_INPUT_ELEMENT_DESC, bytecode []byte) (*_ID3D11InputLayout, error) {
	var layout *_ID3D11InputLayout
	r, _, _ := syscall.SyscallN(
		d.vtbl.CreateInputLayout,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(&descs[0])),
		uintptr(len(descs)),
		uintptr(unsafe.Pointer(&bytecode[0])),
		uintptr(len(bytecode)),
		uintptr(unsafe.Pointer(&layout)),
	)
	if failed(r) {
		return nil, ErrorCode{Name: "ID3D11DeviceCreateInputLayout", Code: uint32(r)}
	}
	return layout, nil
}

func (d *_ID3D11Device) CreateVertexShader(bytecode []byte) (*_ID3D11VertexShader, error) {
	var shader *_ID3D11VertexShader
	r, _, _ := syscall.SyscallN(
		d.vtbl.CreateVertexShader,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(&bytecode[0])),
		uintptr(len(bytecode)),
		0, // pClassLinkage
		uintptr(unsafe.Pointer(&shader)),
	)
	if failed(r) {
		return nil, ErrorCode{Name: "ID3D11DeviceCreateVertexShader", Code: uint32(r)}
	}
	return shader, nil
}

func (d *_ID3D11Device) CreatePixelShader(bytecode []byte) (*_ID3D11PixelShader, error) {
	var shader *_ID3D11PixelShader
	r, _, _ := syscall.SyscallN(
		d.vtbl.CreatePixelShader,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(&bytecode[0])),
		uintptr(len(bytecode)),
		0, // pClassLinkage
		uintptr(unsafe.Pointer(&shader)),
	)
	if failed(r) {
		return nil, ErrorCode{Name: "ID3D11DeviceCreatePixelShader", Code: uint32(r)}
	}
	return shader, nil
}

func (c *_ID3D11DeviceContext) OMSetRenderTargets(target *_ID3D11RenderTargetView) {
	syscall.SyscallN(
		c.vtbl.OMSetRenderTargets,
		uintptr(unsafe.Pointer(c)),
		1, // NumViews
		uintptr(unsafe.Pointer(&target)),
		0, // pDepthStencilView
	)
}

func (c *_ID3D11DeviceContext) RSSetViewports(viewport *_D3D11_VIEWPORT) {
	syscall.SyscallN(
		c.vtbl.RSSetViewports,
		uintptr(unsafe.Pointer(c)),
		1, // NumViewports
		uintptr(unsafe.Pointer(viewport)),
	)
}

func (c *_ID3D11DeviceContext) VSSetShader(s *_ID3D11VertexShader) {
	syscall.SyscallN(
		c.vtbl.VSSetShader,
		uintptr(unsafe.Pointer(c)),
		uintptr(unsafe.Pointer(s)),
		0, // ppClassInstances
		0, // NumClassInstances
	)
}

func (c *_ID3D11DeviceContext) PSSetShader(s *_ID3D11PixelShader) {
	syscall.SyscallN(
		c.vtbl.PSSetShader,
		uintptr(unsafe.Pointer(c)),
		uintptr(unsafe.Pointer(s)),
		0, // ppClassInstances
		0, // NumClassInstances
	)
}

func (c *_ID3D11DeviceContext) IASetInputLayout(layout *_ID3D11InputLayout) {
	syscall.SyscallN(
		c.vtbl.IASetInputLayout,
		uintptr(unsafe.Pointer(c)),
		uintptr(unsafe.Pointer(layout)),
	)
}

func (c *_ID3D11DeviceContext) IASetVertexBuffers(buf *_ID3D11Buffer, stride, offset uint32) {
	syscall.SyscallN(
		c.vtbl.IASetVertexBuffers,
		uintptr(unsafe.Pointer(c)),
		0, // StartSlot
		1, // NumBuffers
		uintptr(unsafe.Pointer(&buf)),
		uintptr(unsafe.Pointer(&stride)),
		uintptr(unsafe.Pointer(&offset)),
	)
}

func (c *_ID3D11DeviceContext) IASetPrimitiveTopology(topology uint32) {
	syscall.SyscallN(
		c.vtbl.IASetPrimitiveTopology,
		uintptr(unsafe.Pointer(c)),
		uintptr(topology),
	)
}

func (c *_ID3D11DeviceContext) Map(res *_ID3D11Resource, subResource, mapType, mapFlags uint32) (_D3D11_MAPPED_SUBRESOURCE, error) {
	var resMap _D3D11_MAPPED_SUBRESOURCE
	r, _, _ := syscall.SyscallN(
		c.vtbl.Map,
		uintptr(unsafe.Pointer(c)),
		uintptr(unsafe.Pointer(res)),
		uintptr(subResource),
		uintptr(mapType),
		uintptr(mapFlags),
		uintptr(unsafe.Pointer(&resMap)),
	)
	if failed(r) {
		return resMap, ErrorCode{Name: "ID3D11DeviceContextMap", Code: uint32(r)}
	}
	return resMap, nil
}

func (c *_ID3D11DeviceContext) Unmap(res *_ID3D11Resource, subResource uint32) {
	syscall.SyscallN(
		c.vtbl.Unmap,
		uintptr(unsafe.Pointer(c)),
		uintptr(unsafe.Pointer(res)),
		uintptr(subResource),
	)
}

func (c *_ID3D11DeviceContext) ClearRenderTargetView(target *_ID3D11RenderTargetView, color *[4]float32) {
	syscall.SyscallN(
		c.vtbl.ClearRenderTargetView,
		uintptr(unsafe.Pointer(c)),
		uintptr(unsafe.Pointer(target)),
		uintptr(unsafe.Pointer(color)),
	)
}

func (c *_ID3D11DeviceContext) Draw(count, start uint32) {
	syscall.SyscallN(
		c.vtbl.Draw,
		uintptr(unsafe.Pointer(c)),
		uintptr(count),
		uintptr(start),
	)
}

func (s *_IDXGISwapChain) Present(sync int, flags uint32) uintptr {
	r, _, _ := syscall.SyscallN(
		s.vtbl.Present,
		uintptr(unsafe.Pointer(s)),
		uintptr(sync),
		uintptr(flags),
	)
	return r
}

func (s *_IDXGISwapChain) GetBuffer(index int, riid *windows.GUID) (*_ID3D11Texture2D, error) {
	var buf *_ID3D11Texture2D
	r, _, _ := syscall.SyscallN(
		s.vtbl.GetBuffer,
		uintptr(unsafe.Pointer(s)),
		uintptr(index),
		uintptr(unsafe.Pointer(riid)),
		uintptr(unsafe.Pointer(&buf)),
	)
	if failed(r) {
		return nil, ErrorCode{Name: "IDXGISwapChainGetBuffer", Code: uint32(r)}
	}
	return buf, nil
}

func _IUnknownRelease(obj unsafe.Pointer, releaseMethod uintptr) {
	syscall.SyscallN(
		releaseMethod,
		uintptr(obj),
	)
}
