package canvas

import (
	"image"

	"golang.org/x/image/draw"
)

func (i Interpolation) interpolator() draw.Interpolator {
	switch i {
	case InterpNearest:
		return draw.NearestNeighbor
	case InterpBicubic:
		return draw.CatmullRom
	default:
		return draw.BiLinear
	}
}

// DrawImage draws img scaled into the user-space rectangle (x, y, w, h)
// under the current transform and composite operator.
func (c *Context) DrawImage(img image.Image, x, y, w, h float64) {
	if img == nil || !(w > 0) || !(h > 0) {
		return
	}
	sr := img.Bounds()
	if sr.Empty() {
		return
	}
	s2d := c.state.matrix.
		Multiply(Translate(x, y)).
		Multiply(Scale(w/float64(sr.Dx()), h/float64(sr.Dy()))).
		Multiply(Translate(-float64(sr.Min.X), -float64(sr.Min.Y)))

	dst := c.surface.img
	interp := c.state.interp.interpolator()
	if c.state.op == OpSourceOver {
		interp.Transform(dst, s2d.aff3(), img, sr, draw.Over, nil)
		return
	}

	area := deviceRect(s2d.TransformRect(Rect{
		Min: Pt(float64(sr.Min.X), float64(sr.Min.Y)),
		Max: Pt(float64(sr.Max.X), float64(sr.Max.Y)),
	})).Intersect(dst.Rect)
	if c.state.op == OpDestinationIn {
		area = dst.Rect
	}
	if area.Empty() {
		return
	}
	scratch := image.NewRGBA(area)
	interp.Transform(scratch, s2d.aff3(), img, sr, draw.Src, nil)
	compositeImage(dst, area, scratch, area.Min, c.state.op)
}

// DrawSurface copies src onto this context with its top-left corner at the
// device pixel (x, y). The transform is ignored. A visible shadow is cast
// from the alpha of src before src itself is composited.
func (c *Context) DrawSurface(src *Surface, x, y int, sh Shadow) {
	if src == nil || src.img.Rect.Empty() {
		return
	}
	dst := c.surface.img
	at := src.img.Rect.Add(image.Pt(x, y))
	if sh.Visible() {
		alpha := image.NewAlpha(at)
		draw.Draw(alpha, at, src.img, image.Point{}, draw.Src)
		sm := shadowMask(alpha, at, sh)
		compositeUniform(dst, sm.Rect, premul(sh.Color), sm, OpSourceOver)
	}
	compositeImage(dst, at, src.img, image.Point{}, c.state.op)
}
