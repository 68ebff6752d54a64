// SPDX-License-Identifier: Unlicense OR MIT

// Package gputest provides an instrumented gpu.Backend that records
// calls, counts live objects and fails on demand.
package gputest

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"helloengine.org/gpu"
)

// ErrInjected is the default error returned by failing operations.
var ErrInjected = errors.New("gputest: injected failure")

// Backend implements gpu.Backend. The zero value grants the first
// requested feature level.
type Backend struct {
	// Fail maps operation names, such as "CreateBuffer" or "Present", to
	// the error they return.
	Fail map[string]error
	// Supported, if set, makes the backend reject level lists longer than
	// one with a *gpu.FeatureLevelError naming Supported.
	Supported gpu.FeatureLevel

	// Calls lists the operations in the order they were issued.
	Calls []string
	// Requests lists the level lists passed to CreateDeviceAndSwapChain.
	Requests [][]gpu.FeatureLevel
	// Desc is the last swap chain description.
	Desc gpu.SwapChainDesc

	Viewport   gpu.Viewport
	ClearColor gputypes.Color
	Topology   gputypes.PrimitiveTopology
	Stride     int
	Offset     int
	Drawn      int
	Presents   []int
	// Vertices holds the contents of the last written vertex buffer.
	Vertices []byte

	live    map[*object]bool
	created int
	// Problems lists contract violations, such as double releases.
	Problems []string
}

type object struct {
	b        *Backend
	kind     string
	released bool
	mem      []byte
}

func (b *Backend) fail(op string) error {
	b.Calls = append(b.Calls, op)
	if err, ok := b.Fail[op]; ok {
		if err == nil {
			err = ErrInjected
		}
		return err
	}
	return nil
}

func (b *Backend) newObject(kind string) *object {
	if b.live == nil {
		b.live = make(map[*object]bool)
	}
	o := &object{b: b, kind: kind}
	b.live[o] = true
	b.created++
	return o
}

// Live returns the number of created objects that are not released.
func (b *Backend) Live() int {
	return len(b.live)
}

// Created returns the number of objects created so far.
func (b *Backend) Created() int {
	return b.created
}

func (b *Backend) CreateDeviceAndSwapChain(s gpu.Surface, desc gpu.SwapChainDesc, levels []gpu.FeatureLevel) (gpu.Device, gpu.DeviceContext, gpu.SwapChain, gpu.FeatureLevel, error) {
	b.Requests = append(b.Requests, append([]gpu.FeatureLevel(nil), levels...))
	b.Desc = desc
	if err := b.fail("CreateDeviceAndSwapChain"); err != nil {
		return nil, nil, nil, 0, err
	}
	if b.Supported != 0 && len(levels) > 1 {
		return nil, nil, nil, 0, &gpu.FeatureLevelError{Requested: levels, Supported: b.Supported}
	}
	if s == 0 {
		return nil, nil, nil, 0, errors.New("gputest: nil surface")
	}
	dev := &device{b.newObject("device")}
	ctx := &context{b.newObject("context")}
	sc := &swapChain{b.newObject("swapchain")}
	return dev, ctx, sc, levels[0], nil
}

type device struct{ *object }

type context struct{ *object }

type swapChain struct{ *object }

func (o *object) Release() {
	if o.released {
		o.b.Problems = append(o.b.Problems, fmt.Sprintf("%s released twice", o.kind))
		return
	}
	o.released = true
	delete(o.b.live, o)
	o.b.Calls = append(o.b.Calls, "Release "+o.kind)
}

func (o *object) check(arg interface{}, kind string) {
	a, ok := arg.(interface{ owner() *object })
	if !ok {
		o.b.Problems = append(o.b.Problems, fmt.Sprintf("foreign %s %T", kind, arg))
		return
	}
	if obj := a.owner(); obj.released || obj.kind != kind {
		o.b.Problems = append(o.b.Problems, fmt.Sprintf("stale or mistyped %s", kind))
	}
}

func (o *object) owner() *object { return o }

func (d *device) CreateRenderTargetView(sc gpu.SwapChain) (gpu.RenderTargetView, error) {
	d.check(sc, "swapchain")
	if err := d.b.fail("CreateRenderTargetView"); err != nil {
		return nil, err
	}
	return d.b.newObject("rendertarget"), nil
}

func (d *device) CreateVertexShader(code []byte) (gpu.VertexShader, error) {
	if err := d.b.fail("CreateVertexShader"); err != nil {
		return nil, err
	}
	return d.b.newObject("vertexshader"), nil
}

func (d *device) CreatePixelShader(code []byte) (gpu.PixelShader, error) {
	if err := d.b.fail("CreatePixelShader"); err != nil {
		return nil, err
	}
	return d.b.newObject("pixelshader"), nil
}

func (d *device) CreateInputLayout(l gpu.VertexLayout, vsCode []byte) (gpu.InputLayout, error) {
	if err := d.b.fail("CreateInputLayout"); err != nil {
		return nil, err
	}
	if len(l.Semantics) != len(l.Buffer.Attributes) {
		return nil, errors.New("gputest: semantics don't match attributes")
	}
	return d.b.newObject("inputlayout"), nil
}

func (d *device) CreateBuffer(desc gpu.BufferDesc) (gpu.Buffer, error) {
	if err := d.b.fail("CreateBuffer"); err != nil {
		return nil, err
	}
	o := d.b.newObject("buffer")
	o.mem = make([]byte, desc.Size)
	return o, nil
}

func (c *context) BindRenderTarget(rtv gpu.RenderTargetView) {
	c.check(rtv, "rendertarget")
	c.b.Calls = append(c.b.Calls, "BindRenderTarget")
}

func (c *context) SetViewport(vp gpu.Viewport) {
	c.b.Calls = append(c.b.Calls, "SetViewport")
	c.b.Viewport = vp
}

func (c *context) BindVertexShader(vs gpu.VertexShader) {
	c.check(vs, "vertexshader")
	c.b.Calls = append(c.b.Calls, "BindVertexShader")
}

func (c *context) BindPixelShader(ps gpu.PixelShader) {
	c.check(ps, "pixelshader")
	c.b.Calls = append(c.b.Calls, "BindPixelShader")
}

func (c *context) BindInputLayout(l gpu.InputLayout) {
	c.check(l, "inputlayout")
	c.b.Calls = append(c.b.Calls, "BindInputLayout")
}

func (c *context) Map(buf gpu.Buffer) ([]byte, error) {
	c.check(buf, "buffer")
	if err := c.b.fail("Map"); err != nil {
		return nil, err
	}
	return buf.(*object).mem, nil
}

func (c *context) Unmap(buf gpu.Buffer) {
	c.b.Calls = append(c.b.Calls, "Unmap")
	c.b.Vertices = append([]byte(nil), buf.(*object).mem...)
}

func (c *context) Clear(rtv gpu.RenderTargetView, col gputypes.Color) {
	c.check(rtv, "rendertarget")
	c.b.Calls = append(c.b.Calls, "Clear")
	c.b.ClearColor = col
}

func (c *context) BindVertexBuffer(buf gpu.Buffer, stride, offset int) {
	c.check(buf, "buffer")
	c.b.Calls = append(c.b.Calls, "BindVertexBuffer")
	c.b.Stride, c.b.Offset = stride, offset
}

func (c *context) SetPrimitiveTopology(t gputypes.PrimitiveTopology) {
	c.b.Calls = append(c.b.Calls, "SetPrimitiveTopology")
	c.b.Topology = t
}

func (c *context) Draw(count, start int) {
	c.b.Calls = append(c.b.Calls, "Draw")
	c.b.Drawn += count
}

func (s *swapChain) Present(syncInterval int) error {
	if s.released {
		s.b.Problems = append(s.b.Problems, "present on released swapchain")
	}
	if err := s.b.fail("Present"); err != nil {
		return err
	}
	s.b.Presents = append(s.b.Presents, syncInterval)
	return nil
}
