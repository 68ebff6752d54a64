// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"fmt"
)

// GraphicsContext is the set of device objects owned by a
// ResourceManager. Either every handle is set or none is.
type GraphicsContext struct {
	Device       Device
	Immediate    DeviceContext
	SwapChain    SwapChain
	RenderTarget RenderTargetView
	InputLayout  InputLayout
	VertexShader VertexShader
	PixelShader  PixelShader
	VertexBuffer Buffer
	// FeatureLevel is the level granted by the backend.
	FeatureLevel FeatureLevel
}

// Complete reports whether every handle is set.
func (c *GraphicsContext) Complete() bool {
	return c.Device != nil && c.Immediate != nil && c.SwapChain != nil &&
		c.RenderTarget != nil && c.InputLayout != nil &&
		c.VertexShader != nil && c.PixelShader != nil && c.VertexBuffer != nil
}

// Empty reports whether no handle is set.
func (c *GraphicsContext) Empty() bool {
	return c.Device == nil && c.Immediate == nil && c.SwapChain == nil &&
		c.RenderTarget == nil && c.InputLayout == nil &&
		c.VertexShader == nil && c.PixelShader == nil && c.VertexBuffer == nil &&
		c.FeatureLevel == 0
}

// release releases the set handles, dependents before the objects they
// were created from, and clears c.
func (c *GraphicsContext) release() {
	if c.InputLayout != nil {
		c.InputLayout.Release()
	}
	if c.VertexShader != nil {
		c.VertexShader.Release()
	}
	if c.PixelShader != nil {
		c.PixelShader.Release()
	}
	if c.VertexBuffer != nil {
		c.VertexBuffer.Release()
	}
	// The view references the swap chain's back buffer.
	if c.RenderTarget != nil {
		c.RenderTarget.Release()
	}
	if c.SwapChain != nil {
		c.SwapChain.Release()
	}
	if c.Immediate != nil {
		c.Immediate.Release()
	}
	if c.Device != nil {
		c.Device.Release()
	}
	*c = GraphicsContext{}
}

// ResourceManager creates and discards the GraphicsContext of a surface.
type ResourceManager struct {
	backend Backend
	shaders ShaderProvider
	cfg     Config
	ctx     GraphicsContext
}

func NewResourceManager(b Backend, shaders ShaderProvider, cfg Config) (*ResourceManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.FeatureLevels = append([]FeatureLevel(nil), cfg.FeatureLevels...)
	return &ResourceManager{backend: b, shaders: shaders, cfg: cfg}, nil
}

// Ready reports whether the resources exist.
func (m *ResourceManager) Ready() bool {
	return m.ctx.Device != nil
}

// Context returns the owned resources. The handles must not be released
// or retained by the caller.
func (m *ResourceManager) Context() *GraphicsContext {
	return &m.ctx
}

// Config returns a copy of the configuration.
func (m *ResourceManager) Config() Config {
	cfg := m.cfg
	cfg.FeatureLevels = append([]FeatureLevel(nil), cfg.FeatureLevels...)
	return cfg
}

// FeatureLevel returns the granted feature level, or 0 if the resources
// don't exist.
func (m *ResourceManager) FeatureLevel() FeatureLevel {
	return m.ctx.FeatureLevel
}

// EnsureCreated creates the resources for surface s unless they exist.
// On failure every resource created so far is released and a
// *CreationError is returned.
func (m *ResourceManager) EnsureCreated(s Surface) (err error) {
	if m.Ready() {
		return nil
	}
	var gc GraphicsContext
	defer func() {
		if err != nil {
			gc.release()
		}
	}()

	d, err := createDevice(m.backend, s, m.cfg.swapChainDesc(), m.cfg.FeatureLevels)
	if err != nil {
		return &CreationError{Step: "create device", Err: err}
	}
	gc.Device, gc.Immediate, gc.SwapChain, gc.FeatureLevel = d.dev, d.ctx, d.sc, d.level

	if gc.RenderTarget, err = gc.Device.CreateRenderTargetView(gc.SwapChain); err != nil {
		return &CreationError{Step: "create render target", Err: err}
	}
	gc.Immediate.BindRenderTarget(gc.RenderTarget)
	gc.Immediate.SetViewport(m.cfg.viewport())

	vsCode, err := loadBytecode(m.shaders, m.cfg.VertexShader)
	if err != nil {
		return &CreationError{Step: "load shaders", Err: err}
	}
	psCode, err := loadBytecode(m.shaders, m.cfg.PixelShader)
	if err != nil {
		return &CreationError{Step: "load shaders", Err: err}
	}
	if gc.VertexShader, err = gc.Device.CreateVertexShader(vsCode); err != nil {
		return &CreationError{Step: "create vertex shader", Err: err}
	}
	if gc.PixelShader, err = gc.Device.CreatePixelShader(psCode); err != nil {
		return &CreationError{Step: "create pixel shader", Err: err}
	}
	gc.Immediate.BindVertexShader(gc.VertexShader)
	gc.Immediate.BindPixelShader(gc.PixelShader)

	if gc.InputLayout, err = gc.Device.CreateInputLayout(TriangleLayout, vsCode); err != nil {
		return &CreationError{Step: "create input layout", Err: err}
	}
	gc.Immediate.BindInputLayout(gc.InputLayout)

	if gc.VertexBuffer, err = m.uploadGeometry(gc.Device, gc.Immediate); err != nil {
		return &CreationError{Step: "create vertex buffer", Err: err}
	}

	m.ctx = gc
	Logger().Debug("graphics resources created",
		"surface", fmt.Sprintf("%#x", uintptr(s)), "featureLevel", gc.FeatureLevel)
	return nil
}

// uploadGeometry creates a CPU-writable vertex buffer holding the
// configured triangle.
func (m *ResourceManager) uploadGeometry(dev Device, ctx DeviceContext) (Buffer, error) {
	buf, err := dev.CreateBuffer(BufferDesc{
		Size:    len(m.cfg.Geometry) * VertexSize,
		Usage:   BufferUsageDynamic,
		Binding: BufferBindingVertices,
	})
	if err != nil {
		return nil, err
	}
	if err := writeVertices(ctx, buf, m.cfg.Geometry[:]); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}

func writeVertices(ctx DeviceContext, buf Buffer, vs []Vertex) error {
	mem, err := ctx.Map(buf)
	if err != nil {
		return err
	}
	defer ctx.Unmap(buf)
	if size := len(vs) * VertexSize; len(mem) < size {
		return fmt.Errorf("mapped %d bytes, need %d", len(mem), size)
	}
	EncodeVertices(mem, vs)
	return nil
}

// DiscardAll releases every resource. It does nothing if the resources
// don't exist.
func (m *ResourceManager) DiscardAll() {
	if m.ctx.Empty() {
		return
	}
	m.ctx.release()
	Logger().Debug("graphics resources discarded")
}
