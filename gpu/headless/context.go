// SPDX-License-Identifier: Unlicense OR MIT

package headless

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/gogpu/gputypes"

	"helloengine.org/gpu"
)

// context is the immediate context of a device. Draw calls with
// incomplete pipeline state are dropped, as a GPU would.
type context struct {
	dev      *device
	rtv      *renderTarget
	viewport gpu.Viewport
	vs       *shader
	ps       *shader
	layout   *inputLayout
	vbuf     *buffer
	stride   int
	offset   int
	topology gputypes.PrimitiveTopology
	released bool
}

func (c *context) Release() { c.dev.release(&c.released) }

func (c *context) BindRenderTarget(rtv gpu.RenderTargetView) {
	c.rtv, _ = rtv.(*renderTarget)
}

func (c *context) SetViewport(vp gpu.Viewport) {
	c.viewport = vp
}

func (c *context) BindVertexShader(vs gpu.VertexShader) {
	c.vs, _ = vs.(*shader)
}

func (c *context) BindPixelShader(ps gpu.PixelShader) {
	c.ps, _ = ps.(*shader)
}

func (c *context) BindInputLayout(l gpu.InputLayout) {
	c.layout, _ = l.(*inputLayout)
}

func (c *context) Map(buf gpu.Buffer) ([]byte, error) {
	b, ok := buf.(*buffer)
	if !ok || b.released {
		return nil, errors.New("headless: invalid buffer")
	}
	if b.mapped {
		return nil, errors.New("headless: buffer already mapped")
	}
	b.mapped = true
	// Write-discard: the caller gets fresh memory.
	for i := range b.data {
		b.data[i] = 0
	}
	return b.data, nil
}

func (c *context) Unmap(buf gpu.Buffer) {
	if b, ok := buf.(*buffer); ok {
		b.mapped = false
	}
}

func (c *context) Clear(rtv gpu.RenderTargetView, col gputypes.Color) {
	r, ok := rtv.(*renderTarget)
	if !ok || r.released {
		return
	}
	fill(r.img, toRGBA([4]float32{float32(col.R), float32(col.G), float32(col.B), float32(col.A)}))
}

func (c *context) BindVertexBuffer(buf gpu.Buffer, stride, offset int) {
	c.vbuf, _ = buf.(*buffer)
	c.stride, c.offset = stride, offset
}

func (c *context) SetPrimitiveTopology(t gputypes.PrimitiveTopology) {
	c.topology = t
}

func (c *context) Draw(vertexCount, startVertex int) {
	if c.rtv == nil || c.rtv.released || c.vs == nil || c.ps == nil || c.layout == nil || c.vbuf == nil || c.vbuf.mapped {
		return
	}
	if c.topology != gputypes.PrimitiveTopologyTriangleList {
		return
	}
	verts := make([]vertex, 0, vertexCount)
	for i := startVertex; i < startVertex+vertexCount; i++ {
		v, ok := c.fetch(i)
		if !ok {
			return
		}
		verts = append(verts, v)
	}
	for i := 0; i+3 <= len(verts); i += 3 {
		var tri [3]vertex
		copy(tri[:], verts[i:i+3])
		for j := range tri {
			tri[j].x, tri[j].y = c.toPixels(tri[j].x, tri[j].y)
		}
		rasterize(c.rtv.img, tri)
	}
}

// vertex is a fetched vertex: clip space position, later pixel position,
// and color.
type vertex struct {
	x, y  float32
	color [4]float32
}

// fetch reads vertex i through the bound input layout.
func (c *context) fetch(i int) (vertex, bool) {
	v := vertex{color: [4]float32{0, 0, 0, 1}}
	base := c.offset + i*c.stride
	l := c.layout.layout
	for j, a := range l.Buffer.Attributes {
		n := componentCount(a.Format)
		off := base + int(a.Offset)
		if off < 0 || off+4*n > len(c.vbuf.data) {
			return vertex{}, false
		}
		var comps [4]float32
		for k := 0; k < n; k++ {
			comps[k] = math.Float32frombits(binary.LittleEndian.Uint32(c.vbuf.data[off+4*k:]))
		}
		switch l.Semantics[j] {
		case "POSITION":
			v.x, v.y = comps[0], comps[1]
		case "COLOR":
			copy(v.color[:n], comps[:n])
		}
	}
	return v, true
}

func (c *context) toPixels(x, y float32) (float32, float32) {
	vp := c.viewport
	return vp.X + (x+1)/2*vp.Width, vp.Y + (1-y)/2*vp.Height
}

func componentCount(f gputypes.VertexFormat) int {
	switch f {
	case gputypes.VertexFormatFloat32:
		return 1
	case gputypes.VertexFormatFloat32x2:
		return 2
	case gputypes.VertexFormatFloat32x3:
		return 3
	case gputypes.VertexFormatFloat32x4:
		return 4
	}
	return 0
}
