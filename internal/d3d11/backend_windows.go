// SPDX-License-Identifier: Unlicense OR MIT

package d3d11

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
	"golang.org/x/sys/windows"

	"helloengine.org/gpu"
)

// Backend creates hardware Direct3D 11 devices.
type Backend struct {
	// Debug enables the D3D11 debug layer.
	Debug bool
}

type device struct {
	dev *_ID3D11Device
}

type context struct {
	ctx *_ID3D11DeviceContext
	// Storage passed by pointer to the driver.
	clearColor [4]float32
	viewport   _D3D11_VIEWPORT
}

type swapChain struct {
	swchain *_IDXGISwapChain
}

type renderTarget struct {
	view *_ID3D11RenderTargetView
}

type vertexShader struct {
	shader *_ID3D11VertexShader
}

type pixelShader struct {
	shader *_ID3D11PixelShader
}

type inputLayout struct {
	layout *_ID3D11InputLayout
}

type buffer struct {
	buf  *_ID3D11Buffer
	size int
}

var errReleased = errors.New("d3d11: use of released object")

func (b *Backend) CreateDeviceAndSwapChain(surface gpu.Surface, desc gpu.SwapChainDesc, levels []gpu.FeatureLevel) (gpu.Device, gpu.DeviceContext, gpu.SwapChain, gpu.FeatureLevel, error) {
	format, err := textureFormat(desc.Format)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	scd := _DXGI_SWAP_CHAIN_DESC{
		BufferDesc: _DXGI_MODE_DESC{
			Width:  uint32(desc.Width),
			Height: uint32(desc.Height),
			RefreshRate: _DXGI_RATIONAL{
				Numerator:   uint32(desc.RefreshNumerator),
				Denominator: uint32(desc.RefreshDenominator),
			},
			Format: format,
		},
		SampleDesc:   _DXGI_SAMPLE_DESC{Count: uint32(desc.SampleCount)},
		BufferUsage:  _DXGI_USAGE_RENDER_TARGET_OUTPUT,
		BufferCount:  uint32(desc.BufferCount),
		OutputWindow: windows.Handle(surface),
		SwapEffect:   _DXGI_SWAP_EFFECT_DISCARD,
	}
	if desc.Windowed {
		scd.Windowed = 1
	}
	if desc.AllowModeSwitch {
		scd.Flags |= _DXGI_SWAP_CHAIN_FLAG_ALLOW_MODE_SWITCH
	}
	var flags uint32
	if b.Debug {
		flags |= _D3D11_CREATE_DEVICE_DEBUG
	}
	lvls := make([]uint32, len(levels))
	for i, l := range levels {
		lvls[i] = uint32(l)
	}
	dev, ctx, swchain, featLvl, hr := _D3D11CreateDeviceAndSwapChain(_D3D_DRIVER_TYPE_HARDWARE, flags, lvls, &scd)
	if err := createResult(hr, levels, gpu.FeatureLevel(featLvl)); err != nil {
		return nil, nil, nil, 0, err
	}
	return &device{dev: dev}, &context{ctx: ctx}, &swapChain{swchain: swchain}, gpu.FeatureLevel(featLvl), nil
}

func (d *device) CreateRenderTargetView(sc gpu.SwapChain) (gpu.RenderTargetView, error) {
	s, ok := sc.(*swapChain)
	if !ok || s.swchain == nil {
		return nil, errReleased
	}
	backBuffer, err := s.swchain.GetBuffer(0, &_IID_ID3D11Texture2D)
	if err != nil {
		return nil, err
	}
	view, err := d.dev.CreateRenderTargetView((*_ID3D11Resource)(unsafe.Pointer(backBuffer)))
	_IUnknownRelease(unsafe.Pointer(backBuffer), backBuffer.vtbl.Release)
	if err != nil {
		return nil, err
	}
	return &renderTarget{view: view}, nil
}

func (d *device) CreateVertexShader(bytecode []byte) (gpu.VertexShader, error) {
	if len(bytecode) == 0 {
		return nil, errors.New("d3d11: empty vertex shader")
	}
	s, err := d.dev.CreateVertexShader(bytecode)
	if err != nil {
		return nil, err
	}
	return &vertexShader{shader: s}, nil
}

func (d *device) CreatePixelShader(bytecode []byte) (gpu.PixelShader, error) {
	if len(bytecode) == 0 {
		return nil, errors.New("d3d11: empty pixel shader")
	}
	s, err := d.dev.CreatePixelShader(bytecode)
	if err != nil {
		return nil, err
	}
	return &pixelShader{shader: s}, nil
}

func (d *device) CreateInputLayout(layout gpu.VertexLayout, vsBytecode []byte) (gpu.InputLayout, error) {
	elems, err := inputElements(layout)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 || len(vsBytecode) == 0 {
		return nil, errors.New("d3d11: empty input layout")
	}
	descs := make([]_D3D11_INPUT_ELEMENT_DESC, len(elems))
	for i, e := range elems {
		name, err := windows.BytePtrFromString(e.Semantic)
		if err != nil {
			return nil, fmt.Errorf("d3d11: semantic %q: %w", e.Semantic, err)
		}
		descs[i] = _D3D11_INPUT_ELEMENT_DESC{
			SemanticName:      name,
			Format:            e.Format,
			AlignedByteOffset: e.Offset,
			InputSlotClass:    _D3D11_INPUT_PER_VERTEX_DATA,
		}
	}
	l, err := d.dev.CreateInputLayout(descs, vsBytecode)
	if err != nil {
		return nil, err
	}
	return &inputLayout{layout: l}, nil
}

func (d *device) CreateBuffer(desc gpu.BufferDesc) (gpu.Buffer, error) {
	if desc.Size <= 0 {
		return nil, fmt.Errorf("d3d11: invalid buffer size %d", desc.Size)
	}
	usage, bind, cpuAccess := bufferFlags(desc)
	buf, err := d.dev.CreateBuffer(&_D3D11_BUFFER_DESC{
		ByteWidth:      uint32(desc.Size),
		Usage:          usage,
		BindFlags:      bind,
		CPUAccessFlags: cpuAccess,
	})
	if err != nil {
		return nil, err
	}
	return &buffer{buf: buf, size: desc.Size}, nil
}

func (d *device) Release() {
	if d.dev != nil {
		_IUnknownRelease(unsafe.Pointer(d.dev), d.dev.vtbl.Release)
		d.dev = nil
	}
}

func (c *context) BindRenderTarget(rtv gpu.RenderTargetView) {
	c.ctx.OMSetRenderTargets(rtv.(*renderTarget).view)
}

func (c *context) SetViewport(vp gpu.Viewport) {
	c.viewport = _D3D11_VIEWPORT{
		TopLeftX: vp.X,
		TopLeftY: vp.Y,
		Width:    vp.Width,
		Height:   vp.Height,
		MinDepth: vp.MinDepth,
		MaxDepth: vp.MaxDepth,
	}
	c.ctx.RSSetViewports(&c.viewport)
}

func (c *context) BindVertexShader(vs gpu.VertexShader) {
	c.ctx.VSSetShader(vs.(*vertexShader).shader)
}

func (c *context) BindPixelShader(ps gpu.PixelShader) {
	c.ctx.PSSetShader(ps.(*pixelShader).shader)
}

func (c *context) BindInputLayout(l gpu.InputLayout) {
	c.ctx.IASetInputLayout(l.(*inputLayout).layout)
}

func (c *context) Map(buf gpu.Buffer) ([]byte, error) {
	b, ok := buf.(*buffer)
	if !ok || b.buf == nil {
		return nil, errReleased
	}
	res := (*_ID3D11Resource)(unsafe.Pointer(b.buf))
	m, err := c.ctx.Map(res, 0, _D3D11_MAP_WRITE_DISCARD, 0)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(m.pData), b.size), nil
}

func (c *context) Unmap(buf gpu.Buffer) {
	c.ctx.Unmap((*_ID3D11Resource)(unsafe.Pointer(buf.(*buffer).buf)), 0)
}

func (c *context) Clear(rtv gpu.RenderTargetView, col gputypes.Color) {
	c.clearColor = [4]float32{float32(col.R), float32(col.G), float32(col.B), float32(col.A)}
	c.ctx.ClearRenderTargetView(rtv.(*renderTarget).view, &c.clearColor)
}

func (c *context) BindVertexBuffer(buf gpu.Buffer, stride, offset int) {
	c.ctx.IASetVertexBuffers(buf.(*buffer).buf, uint32(stride), uint32(offset))
}

func (c *context) SetPrimitiveTopology(t gputypes.PrimitiveTopology) {
	c.ctx.IASetPrimitiveTopology(primitiveTopology(t))
}

func (c *context) Draw(vertexCount, startVertex int) {
	c.ctx.Draw(uint32(vertexCount), uint32(startVertex))
}

func (c *context) Release() {
	if c.ctx != nil {
		_IUnknownRelease(unsafe.Pointer(c.ctx), c.ctx.vtbl.Release)
		c.ctx = nil
	}
}

func (s *swapChain) Present(syncInterval int) error {
	if s.swchain == nil {
		return errReleased
	}
	return presentResult(s.swchain.Present(syncInterval, 0))
}

func (s *swapChain) Release() {
	if s.swchain != nil {
		_IUnknownRelease(unsafe.Pointer(s.swchain), s.swchain.vtbl.Release)
		s.swchain = nil
	}
}

func (r *renderTarget) Release() {
	if r.view != nil {
		_IUnknownRelease(unsafe.Pointer(r.view), r.view.vtbl.Release)
		r.view = nil
	}
}

func (s *vertexShader) Release() {
	if s.shader != nil {
		_IUnknownRelease(unsafe.Pointer(s.shader), s.shader.vtbl.Release)
		s.shader = nil
	}
}

func (s *pixelShader) Release() {
	if s.shader != nil {
		_IUnknownRelease(unsafe.Pointer(s.shader), s.shader.vtbl.Release)
		s.shader = nil
	}
}

func (l *inputLayout) Release() {
	if l.layout != nil {
		_IUnknownRelease(unsafe.Pointer(l.layout), l.layout.vtbl.Release)
		l.layout = nil
	}
}

func (b *buffer) Release() {
	if b.buf != nil {
		_IUnknownRelease(unsafe.Pointer(b.buf), b.buf.vtbl.Release)
		b.buf = nil
	}
}
