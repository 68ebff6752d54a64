// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"github.com/gogpu/gputypes"
)

// Renderer draws frames with the resources of a ResourceManager.
type Renderer struct {
	res *ResourceManager
}

func NewRenderer(res *ResourceManager) *Renderer {
	return &Renderer{res: res}
}

// RenderFrame clears the render target, draws the triangle and presents
// without waiting for vertical blank. It returns ErrNotReady if the
// resources don't exist and a *PresentError if presenting fails.
func (r *Renderer) RenderFrame() error {
	if !r.res.Ready() {
		return ErrNotReady
	}
	gc := r.res.Context()
	ctx := gc.Immediate
	ctx.Clear(gc.RenderTarget, r.res.cfg.ClearColor)
	ctx.BindVertexBuffer(gc.VertexBuffer, VertexSize, 0)
	ctx.SetPrimitiveTopology(gputypes.PrimitiveTopologyTriangleList)
	ctx.Draw(len(r.res.cfg.Geometry), 0)
	if err := gc.SwapChain.Present(0); err != nil {
		return &PresentError{Err: err}
	}
	return nil
}
