// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// Vertex is the layout of one vertex in the vertex buffer.
type Vertex struct {
	Position [3]float32
	Color    [4]float32
}

// VertexSize is the encoded size of a Vertex in bytes.
const VertexSize = 4 * (3 + 4)

// Triangle is the default geometry: red top, green bottom right and blue
// bottom left, in clip space.
var Triangle = [3]Vertex{
	{Position: [3]float32{0.0, 0.5, 0.0}, Color: [4]float32{1.0, 0.0, 0.0, 1.0}},
	{Position: [3]float32{0.45, -0.5, 0.0}, Color: [4]float32{0.0, 1.0, 0.0, 1.0}},
	{Position: [3]float32{-0.45, -0.5, 0.0}, Color: [4]float32{0.0, 0.0, 1.0, 1.0}},
}

// TriangleLayout is the input layout of Vertex: a POSITION and a COLOR
// attribute at shader locations 0 and 1.
var TriangleLayout = VertexLayout{
	Buffer: gputypes.VertexBufferLayout{
		ArrayStride: VertexSize,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
		},
	},
	Semantics: []string{"POSITION", "COLOR"},
}

// EncodeVertices writes vs into dst in buffer layout and returns the
// number of bytes written. dst must hold len(vs)*VertexSize bytes.
func EncodeVertices(dst []byte, vs []Vertex) int {
	n := 0
	put := func(f float32) {
		binary.LittleEndian.PutUint32(dst[n:], math.Float32bits(f))
		n += 4
	}
	for _, v := range vs {
		for _, f := range v.Position {
			put(f)
		}
		for _, f := range v.Color {
			put(f)
		}
	}
	return n
}

// DecodeVertex reads the vertex at index i of a vertex buffer.
func DecodeVertex(src []byte, i int) Vertex {
	var v Vertex
	off := i * VertexSize
	get := func() float32 {
		f := math.Float32frombits(binary.LittleEndian.Uint32(src[off:]))
		off += 4
		return f
	}
	for j := range v.Position {
		v.Position[j] = get()
	}
	for j := range v.Color {
		v.Color[j] = get()
	}
	return v
}
