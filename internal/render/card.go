package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// kappa places cubic control points so that a quarter curve approximates a circle.
const kappa = 0.5522847498

var cardColor = color.NRGBA{R: 15, G: 52, B: 96, A: 160}

// drawRoundedRect composites an anti-aliased rounded rectangle onto dst.
func drawRoundedRect(dst draw.Image, r image.Rectangle, radius float32, c color.Color) {
	b := dst.Bounds()
	if r.Empty() {
		return
	}
	if limit := float32(min(r.Dx(), r.Dy())) / 2; radius > limit {
		radius = limit
	}

	ox, oy := float32(b.Min.X), float32(b.Min.Y)
	x0, y0 := float32(r.Min.X)-ox, float32(r.Min.Y)-oy
	x1, y1 := float32(r.Max.X)-ox, float32(r.Max.Y)-oy
	k := radius * (1 - kappa)

	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(x0+radius, y0)
	z.LineTo(x1-radius, y0)
	z.CubeTo(x1-k, y0, x1, y0+k, x1, y0+radius)
	z.LineTo(x1, y1-radius)
	z.CubeTo(x1, y1-k, x1-k, y1, x1-radius, y1)
	z.LineTo(x0+radius, y1)
	z.CubeTo(x0+k, y1, x0, y1-k, x0, y1-radius)
	z.LineTo(x0, y0+radius)
	z.CubeTo(x0, y0+k, x0+k, y0, x0+radius, y0)
	z.ClosePath()

	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}
