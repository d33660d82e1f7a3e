package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"unicode"

	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"
)

// fallbackName identifies the embedded font in logs.
const fallbackName = "embedded:goregular"

// DefaultFontPaths returns Tamil-capable fonts commonly installed on the host.
func DefaultFontPaths() []string {
	if runtime.GOOS == "windows" {
		dir := filepath.Join(os.Getenv("WINDIR"), "Fonts")
		if os.Getenv("WINDIR") == "" {
			dir = `C:\Windows\Fonts`
		}
		return []string{
			filepath.Join(dir, "Nirmala.ttc"), // Nirmala UI collection (Windows 10/11)
			filepath.Join(dir, "Nirmala.ttf"),
			filepath.Join(dir, "Latha.ttf"), // legacy Tamil font
			filepath.Join(dir, "Vijaya.ttf"),
		}
	}

	return []string{
		"/usr/share/fonts/truetype/noto/NotoSansTamil-Regular.ttf",
		"/usr/share/fonts/noto/NotoSansTamil-Regular.ttf",
		"/usr/share/fonts/google-noto/NotoSansTamil-Regular.ttf",
		"/usr/share/fonts/truetype/lohit-tamil/Lohit-Tamil.ttf",
		"/System/Library/Fonts/Supplemental/Tamil Sangam MN.ttc",
	}
}

type fontSource struct {
	name string
	face *gotext.Face
}

type faceKey struct {
	name string
	size float64
}

// FontSet resolves a face for a piece of text from an ordered list of fonts.
// A font is preferred when it has glyphs for every rune of the text.
type FontSet struct {
	sources  []*fontSource
	fallback *fontSource
	faces    map[faceKey]*Face
	shaper   *shaping.HarfbuzzShaper
	logger   *zap.Logger
}

// LoadFontSet parses the fonts at paths, skipping the ones that cannot be
// read or parsed. The embedded Go font is always available as a last resort.
func LoadFontSet(paths []string, logger *zap.Logger) (*FontSet, error) {
	fallback, err := parseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}

	fs := &FontSet{
		fallback: &fontSource{name: fallbackName, face: fallback},
		faces:    make(map[faceKey]*Face),
		shaper:   &shaping.HarfbuzzShaper{},
		logger:   logger,
	}

	for _, p := range paths {
		f, err := parseFontFile(p)
		if err != nil {
			logger.Debug("font skipped", zap.String("path", p), zap.Error(err))
			continue
		}
		fs.sources = append(fs.sources, &fontSource{name: p, face: f})
	}

	if len(fs.sources) == 0 {
		logger.Warn("no font candidates could be loaded, using embedded font",
			zap.Strings("candidates", paths))
	}

	return fs, nil
}

func parseFontFile(path string) (*gotext.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseFont(data)
}

// parseFont reads a single font or the first font of a collection.
func parseFont(data []byte) (*gotext.Face, error) {
	faces, err := gotext.ParseTTC(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("font collection is empty")
	}
	return faces[0], nil
}

// Face returns a face of the given pixel size suitable for text.
func (fs *FontSet) Face(text string, size float64) (*Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %.2f", size)
	}
	src := fs.pick(text)

	key := faceKey{name: src.name, size: size}
	if face, ok := fs.faces[key]; ok {
		return face, nil
	}

	face := &Face{
		name:   src.name,
		font:   src.face,
		size:   size,
		shaper: fs.shaper,
	}
	fs.faces[key] = face
	return face, nil
}

func (fs *FontSet) pick(text string) *fontSource {
	for _, s := range fs.sources {
		if covers(s.face, text) {
			return s
		}
	}
	if covers(fs.fallback.face, text) {
		return fs.fallback
	}

	fs.logger.Warn("no font covers all glyphs", zap.String("text", text))
	if len(fs.sources) > 0 {
		return fs.sources[0]
	}
	return fs.fallback
}

// covers reports whether f has a glyph for every visible rune of text.
func covers(f *gotext.Face, text string) bool {
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.Is(unicode.Cf, r) {
			continue
		}
		if gid, ok := f.NominalGlyph(r); !ok || gid == 0 {
			return false
		}
	}
	return true
}

// Close drops the cached faces.
func (fs *FontSet) Close() error {
	clear(fs.faces)
	return nil
}
