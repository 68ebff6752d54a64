// SPDX-License-Identifier: Unlicense OR MIT

// Package headless implements a software gpu.Backend that renders into
// memory. It is used for offscreen rendering and tests.
//
// Shaders are not executed: vertex positions are taken as clip space
// coordinates and colors are interpolated across each triangle, which is
// what the pass-through shaders of this module do.
package headless

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"

	"helloengine.org/gpu"
)

// Options configure the emulated device and runtime.
type Options struct {
	// MaxFeatureLevel is the highest level the device supports. The
	// default is 11_0.
	MaxFeatureLevel gpu.FeatureLevel
	// MaxKnownLevel is the highest level the emulated runtime recognizes.
	// A request naming a higher level is rejected as a whole with a
	// *gpu.FeatureLevelError. The default is 11_1.
	MaxKnownLevel gpu.FeatureLevel
}

// Backend implements gpu.Backend.
type Backend struct {
	opts Options
	// front holds the last presented image per surface. It outlives the
	// swap chains, like the contents of a window.
	front   map[gpu.Surface]*image.RGBA
	devices map[*device]bool
	live    int
}

func New(opts Options) *Backend {
	if opts.MaxFeatureLevel == 0 {
		opts.MaxFeatureLevel = gpu.FeatureLevel11_0
	}
	if opts.MaxKnownLevel == 0 {
		opts.MaxKnownLevel = gpu.FeatureLevel11_1
	}
	return &Backend{
		opts:    opts,
		front:   make(map[gpu.Surface]*image.RGBA),
		devices: make(map[*device]bool),
	}
}

// Live returns the number of objects that are not released.
func (b *Backend) Live() int {
	return b.live
}

// Lose marks every existing device as removed. Subsequent presents on
// their swap chains fail with an error wrapping gpu.ErrDeviceLost.
func (b *Backend) Lose() {
	for d := range b.devices {
		d.lost = true
	}
}

// Screenshot returns a copy of the image last presented to s.
func (b *Backend) Screenshot(s gpu.Surface) (*image.RGBA, error) {
	img, ok := b.front[s]
	if !ok {
		return nil, fmt.Errorf("headless: nothing presented to surface %#x", uintptr(s))
	}
	cp := image.NewRGBA(img.Bounds())
	copy(cp.Pix, img.Pix)
	return cp, nil
}

func (b *Backend) negotiate(levels []gpu.FeatureLevel) (gpu.FeatureLevel, error) {
	for _, l := range levels {
		if l > b.opts.MaxKnownLevel {
			return 0, &gpu.FeatureLevelError{
				Requested: append([]gpu.FeatureLevel(nil), levels...),
				Supported: b.opts.MaxFeatureLevel,
			}
		}
	}
	for _, l := range levels {
		if l <= b.opts.MaxFeatureLevel {
			return l, nil
		}
	}
	return 0, fmt.Errorf("headless: none of %v supported", levels)
}

func (b *Backend) CreateDeviceAndSwapChain(s gpu.Surface, desc gpu.SwapChainDesc, levels []gpu.FeatureLevel) (gpu.Device, gpu.DeviceContext, gpu.SwapChain, gpu.FeatureLevel, error) {
	if s == 0 {
		return nil, nil, nil, 0, errors.New("headless: invalid surface")
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, nil, nil, 0, fmt.Errorf("headless: invalid swap chain size %dx%d", desc.Width, desc.Height)
	}
	if desc.Format != gputypes.TextureFormatRGBA8Unorm {
		return nil, nil, nil, 0, fmt.Errorf("headless: unsupported back buffer format %v", desc.Format)
	}
	lvl, err := b.negotiate(levels)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	dev := &device{b: b}
	b.devices[dev] = true
	sc := &swapChain{
		dev:     dev,
		surface: s,
		back:    image.NewRGBA(image.Rect(0, 0, desc.Width, desc.Height)),
	}
	ctx := &context{dev: dev}
	b.live += 3
	return dev, ctx, sc, lvl, nil
}

type device struct {
	b        *Backend
	lost     bool
	released bool
}

type swapChain struct {
	dev      *device
	surface  gpu.Surface
	back     *image.RGBA
	released bool
}

type renderTarget struct {
	dev      *device
	img      *image.RGBA
	released bool
}

type shader struct {
	dev      *device
	code     []byte
	released bool
}

type inputLayout struct {
	dev      *device
	layout   gpu.VertexLayout
	released bool
}

type buffer struct {
	dev      *device
	data     []byte
	mapped   bool
	released bool
}

func (d *device) release(released *bool) {
	if *released {
		panic("headless: object released twice")
	}
	*released = true
	d.b.live--
}

func (d *device) Release() {
	d.release(&d.released)
	delete(d.b.devices, d)
}

func (s *swapChain) Release()    { s.dev.release(&s.released) }
func (r *renderTarget) Release() { r.dev.release(&r.released) }
func (s *shader) Release()       { s.dev.release(&s.released) }
func (l *inputLayout) Release()  { l.dev.release(&l.released) }
func (b *buffer) Release()       { b.dev.release(&b.released) }

func (d *device) CreateRenderTargetView(sc gpu.SwapChain) (gpu.RenderTargetView, error) {
	s, ok := sc.(*swapChain)
	if !ok || s.dev != d || s.released {
		return nil, errors.New("headless: invalid swap chain")
	}
	d.b.live++
	return &renderTarget{dev: d, img: s.back}, nil
}

func (d *device) newShader(code []byte) (*shader, error) {
	if len(code) == 0 {
		return nil, errors.New("headless: empty shader bytecode")
	}
	d.b.live++
	return &shader{dev: d, code: append([]byte(nil), code...)}, nil
}

func (d *device) CreateVertexShader(code []byte) (gpu.VertexShader, error) {
	return d.newShader(code)
}

func (d *device) CreatePixelShader(code []byte) (gpu.PixelShader, error) {
	return d.newShader(code)
}

func (d *device) CreateInputLayout(l gpu.VertexLayout, vsCode []byte) (gpu.InputLayout, error) {
	if len(vsCode) == 0 {
		return nil, errors.New("headless: empty vertex shader bytecode")
	}
	if len(l.Semantics) != len(l.Buffer.Attributes) {
		return nil, fmt.Errorf("headless: %d semantics for %d attributes", len(l.Semantics), len(l.Buffer.Attributes))
	}
	for _, a := range l.Buffer.Attributes {
		if componentCount(a.Format) == 0 {
			return nil, fmt.Errorf("headless: unsupported vertex format %v", a.Format)
		}
	}
	d.b.live++
	return &inputLayout{dev: d, layout: l}, nil
}

func (d *device) CreateBuffer(desc gpu.BufferDesc) (gpu.Buffer, error) {
	if desc.Size <= 0 {
		return nil, fmt.Errorf("headless: invalid buffer size %d", desc.Size)
	}
	if desc.Binding&gpu.BufferBindingVertices == 0 {
		return nil, errors.New("headless: unsupported buffer binding")
	}
	d.b.live++
	return &buffer{dev: d, data: make([]byte, desc.Size)}, nil
}

func (s *swapChain) Present(syncInterval int) error {
	switch {
	case s.released:
		return errors.New("headless: present on released swap chain")
	case s.dev.lost:
		return fmt.Errorf("headless: device removed: %w", gpu.ErrDeviceLost)
	}
	front, ok := s.dev.b.front[s.surface]
	if !ok || front.Bounds() != s.back.Bounds() {
		front = image.NewRGBA(s.back.Bounds())
		s.dev.b.front[s.surface] = front
	}
	present(front, s.back)
	return nil
}
