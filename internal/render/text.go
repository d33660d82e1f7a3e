package render

import (
	"image"
	"image/color"
	"strings"
	"unicode"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

const (
	lineSpacing = 1.3
	ellipsis    = "…"
)

// textBlock is a run of wrapped lines drawn with one face.
type textBlock struct {
	lines []string
	face  *Face
	size  float64
	color color.Color
}

func (b textBlock) lineHeight() float64 {
	return b.size * lineSpacing
}

func (b textBlock) height() float64 {
	return float64(len(b.lines)) * b.lineHeight()
}

// draw centers the block horizontally on dst and vertically on centerY.
func (b textBlock) draw(dst draw.Image, centerY float64) {
	if len(b.lines) == 0 {
		return
	}
	bounds := dst.Bounds()
	ascent := b.face.ascent()
	top := centerY - b.height()/2

	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	z.DrawOp = draw.Over
	for i, line := range b.lines {
		if line == "" {
			continue
		}
		out := b.face.shape(line)
		w := out.Advance.Ceil()
		x := (bounds.Dx() - w) / 2
		baseline := top + float64(i)*b.lineHeight() + ascent - float64(bounds.Min.Y)
		b.face.outline(z, out, float32(x), float32(baseline))
	}
	z.Draw(dst, bounds, image.NewUniform(b.color), image.Point{})
}

func measure(face *Face, s string) int {
	return face.advance(s)
}

// wrap splits text into lines no wider than maxWidth, breaking at spaces.
// Words wider than maxWidth are broken between clusters.
func wrap(face *Face, text string, maxWidth int) []string {
	var (
		lines []string
		cur   []string
	)
	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, strings.Join(cur, " "))
			cur = nil
		}
	}

	for _, word := range strings.Fields(text) {
		if measure(face, word) > maxWidth {
			flush()
			parts := breakWord(face, word, maxWidth)
			lines = append(lines, parts[:len(parts)-1]...)
			cur = []string{parts[len(parts)-1]}
			continue
		}

		if len(cur) == 0 {
			cur = []string{word}
			continue
		}
		candidate := strings.Join(cur, " ") + " " + word
		if measure(face, candidate) <= maxWidth {
			cur = append(cur, word)
			continue
		}
		flush()
		cur = []string{word}
	}
	flush()

	return lines
}

// breakWord splits a single word into pieces that fit maxWidth. A piece
// always holds at least one cluster, even if that cluster alone is wider.
func breakWord(face *Face, word string, maxWidth int) []string {
	var (
		parts []string
		cur   string
	)
	for _, c := range clusters(word) {
		if cur != "" && measure(face, cur+c) > maxWidth {
			parts = append(parts, cur)
			cur = ""
		}
		cur += c
	}
	if cur != "" || len(parts) == 0 {
		parts = append(parts, cur)
	}
	return parts
}

// clusters groups each base rune with the marks and joiners that follow it,
// so that a break never separates a vowel sign from its consonant.
func clusters(s string) []string {
	var out []string
	for _, r := range s {
		if len(out) > 0 && extends(r) {
			out[len(out)-1] += string(r)
			continue
		}
		out = append(out, string(r))
	}
	return out
}

func extends(r rune) bool {
	return unicode.In(r, unicode.Mn, unicode.Mc, unicode.Me) || r == '\u200c' || r == '\u200d'
}

// truncate keeps at most maxLines lines and marks the cut with an ellipsis
// on the last kept line.
func truncate(face *Face, lines []string, maxLines, maxWidth int) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	if len(lines) <= maxLines {
		return lines
	}

	out := append([]string(nil), lines[:maxLines]...)
	last := out[maxLines-1]
	for {
		candidate := last + ellipsis
		if measure(face, candidate) <= maxWidth {
			out[maxLines-1] = candidate
			return out
		}
		i := strings.LastIndex(last, " ")
		if i <= 0 {
			out[maxLines-1] = ellipsis
			return out
		}
		last = last[:i]
	}
}
