package icons

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Thumbnail scales img into a width x height RGBA image, preserving the aspect
// ratio and centering it on a transparent canvas.
func Thumbnail(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	if img == nil || width <= 0 || height <= 0 {
		return dst
	}
	src := img.Bounds()
	if src.Dx() == 0 || src.Dy() == 0 {
		return dst
	}

	w, h := width, src.Dy()*width/src.Dx()
	if h > height {
		w, h = src.Dx()*height/src.Dy(), height
	}
	w, h = max(w, 1), max(h, 1)

	x0 := (width - w) / 2
	y0 := (height - h) / 2
	target := image.Rect(x0, y0, x0+w, y0+h)
	draw.ApproxBiLinear.Scale(dst, target, img, src, draw.Over, nil)
	return dst
}

// Opaque reports whether a pixel is visible enough to draw.
func Opaque(c color.Color) bool {
	_, _, _, a := c.RGBA()
	return a >= 0x8000
}
