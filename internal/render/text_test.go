package render

import (
	"image"
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testFace(t *testing.T, size float64) *Face {
	t.Helper()
	fs, err := LoadFontSet(nil, zap.NewNop())
	require.NoError(t, err)
	face, err := fs.Face("Go", size)
	require.NoError(t, err)
	return face
}

func TestWrap(t *testing.T) {
	face := testFace(t, 24)
	text := "Water will flow from a well in the sand in proportion to the depth to which it is dug"

	for _, maxWidth := range []int{200, 300, 600, 5000} {
		lines := wrap(face, text, maxWidth)
		require.NotEmpty(t, lines)

		for _, l := range lines {
			assert.LessOrEqual(t, measure(face, l), maxWidth, "line %q", l)
		}
		// Wrapping only moves line breaks.
		assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(lines, " ")))
	}

	assert.Len(t, wrap(face, text, 5000), 1)
	assert.Empty(t, wrap(face, "   ", 100))
}

func TestWrap_BreaksOverlongWord(t *testing.T) {
	face := testFace(t, 24)
	word := strings.Repeat("m", 40)

	lines := wrap(face, "a "+word+" b", 100)
	require.Greater(t, len(lines), 2)
	assert.Equal(t, "a", lines[0])
	assert.Equal(t, "a"+word+"b", strings.ReplaceAll(strings.Join(lines, ""), " ", ""))
	for _, l := range lines {
		assert.LessOrEqual(t, measure(face, l), 100)
	}
}

func TestClusters_KeepMarksWithBase(t *testing.T) {
	word := "எழுத்தெல்லாம்"

	cs := clusters(word)
	assert.Equal(t, word, strings.Join(cs, ""))
	for _, c := range cs {
		r, _ := utf8.DecodeRuneInString(c)
		assert.False(t, unicode.In(r, unicode.Mn, unicode.Mc), "cluster %q starts with a mark", c)
	}
	assert.Less(t, len(cs), utf8.RuneCountInString(word))
}

func TestBreakWord_NarrowBox(t *testing.T) {
	face := testFace(t, 24)

	parts := breakWord(face, "abc", 1)
	assert.Equal(t, []string{"a", "b", "c"}, parts)
}

func TestTruncate(t *testing.T) {
	face := testFace(t, 24)
	lines := []string{"one two", "three four", "five six"}

	assert.Equal(t, lines, truncate(face, lines, 3, 500))

	out := truncate(face, lines, 2, 500)
	assert.Equal(t, []string{"one two", "three four…"}, out)

	out = truncate(face, lines, 0, 500)
	assert.Equal(t, []string{"one two…"}, out)

	// Words are dropped until the ellipsis fits.
	narrow := measure(face, "three…") + 1
	out = truncate(face, lines, 2, narrow)
	assert.Equal(t, "three…", out[1])
}

func TestFace_AdvanceMatchesShapedRun(t *testing.T) {
	face := testFace(t, 24)

	assert.Zero(t, face.advance(""))
	assert.Greater(t, face.advance("mm"), face.advance("m"))
	assert.Equal(t, face.shape("Learning").Advance.Ceil(), face.advance("Learning"))
	assert.InDelta(t, 24*0.9, face.ascent(), 24*0.3)
}

func TestTextBlock_DrawsInsideItsLines(t *testing.T) {
	face := testFace(t, 40)
	block := textBlock{lines: []string{"HHHH"}, face: face, size: 40, color: image.White}

	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	block.draw(img, 100)

	var left, right, outside int
	for y := 0; y < 200; y++ {
		for x := 0; x < 400; x++ {
			if img.RGBAAt(x, y).A == 0 {
				continue
			}
			if x < 200 {
				left++
			} else {
				right++
			}
			if float64(y) < 100-block.height()/2 || float64(y) > 100+block.height()/2 {
				outside++
			}
		}
	}
	assert.Positive(t, left)
	assert.Positive(t, right)
	assert.Zero(t, outside)
}
