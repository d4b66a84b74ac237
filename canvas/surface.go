package canvas

import (
	"image"
	"image/color"
)

// Surface is a premultiplied RGBA pixel buffer that a Context draws into.
type Surface struct {
	img *image.RGBA
}

// NewSurface creates a transparent surface with the given dimensions.
func NewSurface(width, height int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))}
}

// SurfaceFromImage copies img into a new surface.
func SurfaceFromImage(img image.Image) *Surface {
	b := img.Bounds()
	s := NewSurface(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			s.img.Set(x-b.Min.X, y-b.Min.Y, img.At(x, y))
		}
	}
	return s
}

// Width returns the width of the surface.
func (s *Surface) Width() int {
	return s.img.Rect.Dx()
}

// Height returns the height of the surface.
func (s *Surface) Height() int {
	return s.img.Rect.Dy()
}

// Bounds returns the pixel bounds, always anchored at the origin.
func (s *Surface) Bounds() image.Rectangle {
	return s.img.Rect
}

// Image returns the backing image. Drawing into it bypasses the Context.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Clear makes every pixel transparent.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// Fill sets every pixel to c.
func (s *Surface) Fill(c color.Color) {
	p := premul(c)
	pix := s.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = p.R
		pix[i+1] = p.G
		pix[i+2] = p.B
		pix[i+3] = p.A
	}
}

// RGBAAt returns the premultiplied color of one pixel.
func (s *Surface) RGBAAt(x, y int) color.RGBA {
	return s.img.RGBAAt(x, y)
}
