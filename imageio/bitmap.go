package imageio

import (
	"image"
	"image/draw"
)

// Bitmap is a decoded image identified by the URL it was loaded from.
// A Bitmap is immutable once created and may be shared between textures.
type Bitmap struct {
	URL   string
	Image *image.RGBA
}

// NewBitmap converts img to premultiplied RGBA anchored at the origin.
func NewBitmap(url string, img image.Image) *Bitmap {
	return &Bitmap{URL: url, Image: toRGBA(img)}
}

// Width returns the pixel width.
func (b *Bitmap) Width() int {
	return b.Image.Rect.Dx()
}

// Height returns the pixel height.
func (b *Bitmap) Height() int {
	return b.Image.Rect.Dy()
}

// AspectRatio returns width/height, or 0 for an empty bitmap.
func (b *Bitmap) AspectRatio() float64 {
	if b == nil || b.Height() == 0 {
		return 0
	}
	return float64(b.Width()) / float64(b.Height())
}

// toRGBA converts any image to RGBA with bounds starting at (0, 0).
func toRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	if r, ok := src.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return r
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	return dst
}
