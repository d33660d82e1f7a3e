package render

import (
	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Face is a font at one pixel size. Text is shaped with HarfBuzz before it
// is measured or drawn, so vowel signs are reordered and ligatures applied.
type Face struct {
	name   string
	font   *gotext.Face
	size   float64
	shaper *shaping.HarfbuzzShaper
}

func (f *Face) shape(s string) shaping.Output {
	text := []rune(s)
	return f.shaper.Shape(shaping.Input{
		Text:      text,
		RunStart:  0,
		RunEnd:    len(text),
		Direction: di.DirectionLTR,
		Face:      f.font,
		Size:      fixed.Int26_6(f.size * 64),
		Script:    scriptOf(text),
	})
}

// advance is the shaped width of s in whole pixels.
func (f *Face) advance(s string) int {
	if s == "" {
		return 0
	}
	return f.shape(s).Advance.Ceil()
}

// ascent is the distance from the top of a line to its baseline.
func (f *Face) ascent() float64 {
	out := f.shape("H")
	if a := fixedToFloat(out.LineBounds.Ascent); a > 0 {
		return float64(a)
	}
	return f.size * 0.8
}

// outline adds the glyph outlines of out to z with the pen at (x, baseline).
func (f *Face) outline(z *vector.Rasterizer, out shaping.Output, x, baseline float32) {
	scale := float32(f.size) / float32(f.font.Upem())

	for _, g := range out.Glyphs {
		gx := x + fixedToFloat(g.XOffset)
		gy := baseline - fixedToFloat(g.YOffset)
		x += fixedToFloat(g.XAdvance)

		glyph, ok := f.font.GlyphData(g.GlyphID).(gotext.GlyphOutline)
		if !ok {
			continue
		}

		open := false
		for _, s := range glyph.Segments {
			a := s.Args
			switch s.Op {
			case ot.SegmentOpMoveTo:
				if open {
					z.ClosePath()
				}
				z.MoveTo(gx+a[0].X*scale, gy-a[0].Y*scale)
				open = true
			case ot.SegmentOpLineTo:
				z.LineTo(gx+a[0].X*scale, gy-a[0].Y*scale)
			case ot.SegmentOpQuadTo:
				z.QuadTo(gx+a[0].X*scale, gy-a[0].Y*scale,
					gx+a[1].X*scale, gy-a[1].Y*scale)
			case ot.SegmentOpCubeTo:
				z.CubeTo(gx+a[0].X*scale, gy-a[0].Y*scale,
					gx+a[1].X*scale, gy-a[1].Y*scale,
					gx+a[2].X*scale, gy-a[2].Y*scale)
			}
		}
		if open {
			z.ClosePath()
		}
	}
}

// scriptOf returns the script of the first rune that has one.
func scriptOf(text []rune) language.Script {
	for _, r := range text {
		switch s := language.LookupScript(r); s {
		case language.Common, language.Inherited, language.Unknown:
		default:
			return s
		}
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
