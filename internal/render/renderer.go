// Package render draws verses onto wallpaper images.
//
// The layout is a translucent rounded card centered on a background image
// (or a dark gradient when no background is available) holding four
// centered text blocks: a header with the verse number and chapter, the
// English explanation, the original couplet and the author signature.
// Rendering is deterministic: the same verse, canvas and fonts always give
// the same pixels.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/aliskhannn/kural-wallpaper/internal/domain/entities"
)

// MaxTextRunes bounds the amount of verse text a single wallpaper can hold.
const MaxTextRunes = 2000

// Reference canvas the layout constants are expressed in.
const (
	refWidth  = 1920
	refHeight = 1080
)

var (
	ErrNilVerse     = errors.New("verse is nil")
	ErrTextTooLong  = errors.New("verse text is too long")
	ErrInvalidSize  = errors.New("invalid canvas size")
	errNoFontsGiven = errors.New("font set is nil")
)

var (
	headerColor  = color.RGBA{R: 244, G: 162, B: 97, A: 255}
	titleColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	coupletColor = color.NRGBA{R: 168, G: 218, B: 220, A: 200}
	footerColor  = color.RGBA{R: 233, G: 69, B: 96, A: 255}
)

// Options describes the canvas and the fixed captions.
type Options struct {
	Width          int
	Height         int
	BackgroundPath string // optional; the gradient is used when empty or unreadable
	Title          string // header prefix, e.g. THIRUKKURAL
	Author         string // footer signature
}

// Renderer composites verses onto wallpaper images.
type Renderer struct {
	opts   Options
	fonts  *FontSet
	layout layout
	logger *zap.Logger
}

// NewRenderer creates a new Renderer.
func NewRenderer(opts Options, fonts *FontSet, logger *zap.Logger) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, opts.Width, opts.Height)
	}
	if fonts == nil {
		return nil, errNoFontsGiven
	}

	return &Renderer{
		opts:   opts,
		fonts:  fonts,
		layout: newLayout(opts.Width, opts.Height),
		logger: logger,
	}, nil
}

// layout holds pixel constants scaled to the canvas.
type layout struct {
	scale          float64
	margin         int
	radius         float32
	headerSize     float64
	titleSize      float64
	minTitleSize   float64
	coupletSize    float64
	minCoupletSize float64
	footerSize     float64
}

func newLayout(w, h int) layout {
	s := math.Min(float64(w)/refWidth, float64(h)/refHeight)
	size := func(v float64) float64 {
		return math.Max(1, math.Round(v*s))
	}
	return layout{
		scale:          s,
		margin:         int(math.Round(150 * s)),
		radius:         float32(30 * s),
		headerSize:     size(24),
		titleSize:      size(42),
		minTitleSize:   size(24),
		coupletSize:    size(28),
		minCoupletSize: size(18),
		footerSize:     size(18),
	}
}

func (l layout) px(v float64) float64 {
	return v * l.scale
}

// FileName returns the wallpaper file name for date.
func FileName(date time.Time) string {
	return "wallpaper_" + date.Format(time.DateOnly) + ".png"
}

// Render draws v onto a new canvas.
func (r *Renderer) Render(v *entities.Verse) (*image.RGBA, error) {
	if v == nil {
		return nil, ErrNilVerse
	}
	if n := textLength(v); n > MaxTextRunes {
		return nil, fmt.Errorf("%w: kural %d has %d runes, limit %d", ErrTextTooLong, v.Number, n, MaxTextRunes)
	}

	w, h := r.opts.Width, r.opts.Height
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	r.paintBackground(img)
	drawOverlay(img)
	m := r.layout.margin
	drawRoundedRect(img, image.Rect(m, m, w-m, h-m), r.layout.radius, cardColor)

	blocks, err := r.arrange(v)
	if err != nil {
		return nil, err
	}
	for _, b := range blocks {
		b.draw(img, b.centerY)
	}

	return img, nil
}

// placedBlock is a text block with the vertical center it is drawn at.
type placedBlock struct {
	textBlock
	centerY float64
}

func (p placedBlock) top() float64    { return p.centerY - p.height()/2 }
func (p placedBlock) bottom() float64 { return p.centerY + p.height()/2 }

// arrange lays out header, explanation, couplet and footer from top to
// bottom. The couplet is fitted first so that the explanation always keeps
// room for at least one line between the header and the couplet.
func (r *Renderer) arrange(v *entities.Verse) ([]placedBlock, error) {
	w, h := float64(r.opts.Width), float64(r.opts.Height)
	l := r.layout
	m := l.margin

	header, err := r.newBlock(r.headerText(v), l.headerSize, headerColor, r.opts.Width-(2*m+int(l.px(100))))
	if err != nil {
		return nil, err
	}
	footer, err := r.newBlock(r.footerText(), l.footerSize, footerColor, r.opts.Width-2*m)
	if err != nil {
		return nil, err
	}

	headerY := float64(m) + l.px(60)
	footerY := h - float64(m) - l.px(80)
	titleY := h/2 - l.px(40)
	gap := l.px(20)
	headerBottom := headerY + header.height()/2
	footerTop := footerY - footer.height()/2
	minTitle := l.minTitleSize * lineSpacing

	// The couplet sits below the explanation, either at its usual anchor or
	// right under the explanation, whichever is lower.
	maxCouplet := math.Min(
		2*(footerTop-gap-h/2-l.px(50)-minTitle/2),
		footerTop-2*gap-titleY-minTitle/2,
	)
	couplet, err := r.fitCouplet(v.Lines(), int(w)-(2*m+int(l.px(200))), math.Max(0, maxCouplet))
	if err != nil {
		return nil, err
	}

	maxTitle := math.Min(
		2*(titleY-headerBottom-gap),
		math.Min(
			2*(footerTop-gap-h/2-l.px(50)-couplet.height()/2),
			2*(footerTop-2*gap-couplet.height()-titleY),
		),
	)
	title, err := r.fitTitle(v.Explanation, int(w)-(2*m+int(l.px(150))), math.Max(0, maxTitle))
	if err != nil {
		return nil, err
	}

	coupletY := math.Max(
		h/2+title.height()/2+l.px(50),
		titleY+title.height()/2+gap+couplet.height()/2,
	)

	return []placedBlock{
		{header, headerY},
		{title, titleY},
		{couplet, coupletY},
		{footer, footerY},
	}, nil
}

func (r *Renderer) paintBackground(img *image.RGBA) {
	if r.opts.BackgroundPath == "" {
		drawGradient(img)
		return
	}

	bg, err := loadBackground(r.opts.BackgroundPath)
	if err != nil {
		r.logger.Warn("background unavailable, using gradient",
			zap.String("path", r.opts.BackgroundPath), zap.Error(err))
		drawGradient(img)
		return
	}
	drawCover(img, bg)
}

func (r *Renderer) headerText(v *entities.Verse) string {
	parts := make([]string, 0, 2)
	if t := strings.TrimSpace(r.opts.Title + " " + strconv.Itoa(v.Number)); t != "" {
		parts = append(parts, t)
	}
	if ch := strings.TrimSpace(v.Chapter); ch != "" {
		parts = append(parts, strings.ToUpper(ch))
	}
	return strings.Join(parts, " • ")
}

func (r *Renderer) footerText() string {
	if r.opts.Author == "" {
		return ""
	}
	return "~ " + r.opts.Author + " ~"
}

func (r *Renderer) newBlock(text string, size float64, c color.Color, maxWidth int) (textBlock, error) {
	face, err := r.fonts.Face(text, size)
	if err != nil {
		return textBlock{}, err
	}
	return textBlock{
		lines: wrap(face, text, maxWidth),
		face:  face,
		size:  size,
		color: c,
	}, nil
}

// coupletBlock wraps each original line on its own so the couplet keeps
// its line break.
func (r *Renderer) coupletBlock(lines []string, size float64, maxWidth int) (textBlock, error) {
	face, err := r.fonts.Face(strings.Join(lines, " "), size)
	if err != nil {
		return textBlock{}, err
	}

	var wrapped []string
	for _, line := range lines {
		wrapped = append(wrapped, wrap(face, line, maxWidth)...)
	}
	return textBlock{lines: wrapped, face: face, size: size, color: coupletColor}, nil
}

// fitTitle shrinks the explanation font until it fits maxHeight. At the
// minimum size the surplus lines are cut.
func (r *Renderer) fitTitle(text string, maxWidth int, maxHeight float64) (textBlock, error) {
	l := r.layout
	return r.fit(l.titleSize, l.minTitleSize, maxWidth, maxHeight, func(size float64) (textBlock, error) {
		return r.newBlock(text, size, titleColor, maxWidth)
	})
}

// fitCouplet does the same for the couplet.
func (r *Renderer) fitCouplet(lines []string, maxWidth int, maxHeight float64) (textBlock, error) {
	l := r.layout
	return r.fit(l.coupletSize, l.minCoupletSize, maxWidth, maxHeight, func(size float64) (textBlock, error) {
		return r.coupletBlock(lines, size, maxWidth)
	})
}

func (r *Renderer) fit(
	size, minSize float64,
	maxWidth int,
	maxHeight float64,
	build func(size float64) (textBlock, error),
) (textBlock, error) {
	step := math.Max(1, math.Round(r.layout.px(2)))

	var (
		block textBlock
		err   error
	)
	for ; size >= minSize; size -= step {
		block, err = build(size)
		if err != nil {
			return textBlock{}, err
		}
		if block.height() <= maxHeight {
			return block, nil
		}
	}
	if block.face == nil {
		// minSize above size: build once at the minimum.
		if block, err = build(minSize); err != nil {
			return textBlock{}, err
		}
	}

	maxLines := int(maxHeight / block.lineHeight())
	block.lines = truncate(block.face, block.lines, maxLines, maxWidth)
	r.logger.Debug("text truncated", zap.Int("lines", len(block.lines)), zap.Float64("size", block.size))
	return block, nil
}

func textLength(v *entities.Verse) int {
	n := utf8.RuneCountInString(v.Explanation) + utf8.RuneCountInString(v.Chapter)
	for _, l := range v.Lines() {
		n += utf8.RuneCountInString(l)
	}
	return n
}

// Save writes img as a PNG named after date inside dir and returns the
// absolute path. The file is written next to its destination and renamed
// into place so an interrupted run never leaves a partial wallpaper.
func (r *Renderer) Save(img image.Image, dir string, date time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	dst, err := filepath.Abs(filepath.Join(dir, FileName(date)))
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".wallpaper-*.png")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := png.Encode(tmp, img); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("encode png: %w", err)
	}
	// CreateTemp uses 0600; wallpapers are ordinary readable files.
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("write %s: %w", dst, err)
	}

	return dst, nil
}

// Generate renders v and saves it for date inside dir.
func (r *Renderer) Generate(v *entities.Verse, dir string, date time.Time) (*entities.Wallpaper, error) {
	img, err := r.Render(v)
	if err != nil {
		return nil, fmt.Errorf("render kural %d: %w", verseNumber(v), err)
	}

	path, err := r.Save(img, dir, date)
	if err != nil {
		return nil, err
	}

	r.logger.Info("wallpaper written", zap.Int("kural_no", v.Number), zap.String("path", path))

	return &entities.Wallpaper{
		Verse:  v,
		Path:   path,
		Date:   date,
		Width:  r.opts.Width,
		Height: r.opts.Height,
	}, nil
}

func verseNumber(v *entities.Verse) int {
	if v == nil {
		return 0
	}
	return v.Number
}
