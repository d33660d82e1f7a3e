package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var (
	gradientTop    = color.RGBA{R: 26, G: 26, B: 46, A: 255}
	gradientBottom = color.RGBA{R: 15, G: 33, B: 62, A: 255}
	overlayColor   = color.NRGBA{R: 15, G: 52, B: 96, A: 77}
)

func loadBackground(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode background %s: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("background %s is empty", path)
	}
	return img, nil
}

// drawCover scales src to fill dst, cropping the longer side around the center.
// The crop keeps at least one source pixel, so very thin images still fill dst.
func drawCover(dst *image.RGBA, src image.Image) {
	db, sb := dst.Bounds(), src.Bounds()

	sr := sb
	// Compare aspect ratios without floating point: sw/sh vs dw/dh.
	if sb.Dx()*db.Dy() > db.Dx()*sb.Dy() {
		w := max(1, sb.Dy()*db.Dx()/db.Dy())
		x := sb.Min.X + (sb.Dx()-w)/2
		sr = image.Rect(x, sb.Min.Y, x+w, sb.Max.Y)
	} else {
		h := max(1, sb.Dx()*db.Dy()/db.Dx())
		y := sb.Min.Y + (sb.Dy()-h)/2
		sr = image.Rect(sb.Min.X, y, sb.Max.X, y+h)
	}

	draw.CatmullRom.Scale(dst, db, src, sr, draw.Src, nil)
}

// drawGradient fills dst with the vertical default gradient.
func drawGradient(dst *image.RGBA) {
	b := dst.Bounds()
	h := b.Dy()
	for y := 0; y < h; y++ {
		ratio := float64(y) / float64(h)
		c := color.RGBA{
			R: lerp(gradientTop.R, gradientBottom.R, ratio),
			G: lerp(gradientTop.G, gradientBottom.G, ratio),
			B: lerp(gradientTop.B, gradientBottom.B, ratio),
			A: 255,
		}
		row := image.Rect(b.Min.X, b.Min.Y+y, b.Max.X, b.Min.Y+y+1)
		draw.Draw(dst, row, image.NewUniform(c), image.Point{}, draw.Src)
	}
}

func lerp(from, to uint8, ratio float64) uint8 {
	return uint8(int(float64(from) + (float64(to)-float64(from))*ratio))
}

func drawOverlay(dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(overlayColor), image.Point{}, draw.Over)
}
