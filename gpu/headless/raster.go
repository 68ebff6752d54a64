// SPDX-License-Identifier: Unlicense OR MIT

package headless

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

func fill(img *image.RGBA, c color.RGBA) {
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func present(front, back *image.RGBA) {
	draw.Copy(front, image.Point{}, back, back.Bounds(), draw.Src, nil)
}

func toRGBA(c [4]float32) color.RGBA {
	conv := func(f float32) uint8 {
		switch {
		case f <= 0:
			return 0
		case f >= 1:
			return 0xff
		}
		return uint8(f*0xff + .5)
	}
	return color.RGBA{R: conv(c[0]), G: conv(c[1]), B: conv(c[2]), A: conv(c[3])}
}

// rasterize draws a triangle given in pixel coordinates. Coverage comes
// from the vector rasterizer; colors are interpolated barycentrically at
// pixel centers and blended by coverage.
func rasterize(dst *image.RGBA, tri [3]vertex) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Src
	z.MoveTo(tri[0].x-float32(b.Min.X), tri[0].y-float32(b.Min.Y))
	z.LineTo(tri[1].x-float32(b.Min.X), tri[1].y-float32(b.Min.Y))
	z.LineTo(tri[2].x-float32(b.Min.X), tri[2].y-float32(b.Min.Y))
	z.ClosePath()
	mask := image.NewAlpha(image.Rect(0, 0, b.Dx(), b.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	area := edge(tri[0], tri[1], tri[2].x, tri[2].y)
	if area == 0 {
		return
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			cov := mask.AlphaAt(x, y).A
			if cov == 0 {
				continue
			}
			px, py := float32(b.Min.X+x)+.5, float32(b.Min.Y+y)+.5
			w := [3]float32{
				edge(tri[1], tri[2], px, py) / area,
				edge(tri[2], tri[0], px, py) / area,
				edge(tri[0], tri[1], px, py) / area,
			}
			// Edge pixels may have their centers outside the triangle.
			var sum float32
			for i := range w {
				if w[i] < 0 {
					w[i] = 0
				}
				sum += w[i]
			}
			if sum == 0 {
				continue
			}
			var src [4]float32
			for i := range src {
				src[i] = (w[0]*tri[0].color[i] + w[1]*tri[1].color[i] + w[2]*tri[2].color[i]) / sum
			}
			blend(dst, b.Min.X+x, b.Min.Y+y, toRGBA(src), cov)
		}
	}
}

// edge returns twice the signed area of the triangle (a, b, p).
func edge(a, b vertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

func blend(dst *image.RGBA, x, y int, src color.RGBA, cov uint8) {
	if cov == 0xff {
		dst.SetRGBA(x, y, src)
		return
	}
	d := dst.RGBAAt(x, y)
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*uint32(cov) + uint32(d)*uint32(0xff-cov) + 0x7f) / 0xff)
	}
	dst.SetRGBA(x, y, color.RGBA{R: mix(src.R, d.R), G: mix(src.G, d.G), B: mix(src.B, d.B), A: mix(src.A, d.A)})
}
