package canvas

import (
	"image"
	"image/color"
)

// CompositeOp is a Porter-Duff operator applied when painting onto a surface.
// All operators work on premultiplied alpha.
type CompositeOp uint8

const (
	// OpSourceOver paints source over destination: S + D*(1-Sa).
	OpSourceOver CompositeOp = iota
	// OpSourceAtop paints only where the destination is opaque and keeps the
	// destination alpha: S*Da + D*(1-Sa).
	OpSourceAtop
	// OpDestinationIn keeps destination where the source is opaque: D*Sa.
	OpDestinationIn
	// OpDestinationOut erases destination where the source is opaque: D*(1-Sa).
	OpDestinationOut
)

// String returns the canvas name of the operator.
func (op CompositeOp) String() string {
	switch op {
	case OpSourceAtop:
		return "source-atop"
	case OpDestinationIn:
		return "destination-in"
	case OpDestinationOut:
		return "destination-out"
	default:
		return "source-over"
	}
}

// compositeFunc blends one premultiplied source pixel onto a destination pixel.
type compositeFunc func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

func (op CompositeOp) fn() compositeFunc {
	switch op {
	case OpSourceAtop:
		return compSourceAtop
	case OpDestinationIn:
		return compDestinationIn
	case OpDestinationOut:
		return compDestinationOut
	default:
		return compSourceOver
	}
}

func compSourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return addDiv255(sr, mulDiv255(dr, invSa)),
		addDiv255(sg, mulDiv255(dg, invSa)),
		addDiv255(sb, mulDiv255(db, invSa)),
		addDiv255(sa, mulDiv255(da, invSa))
}

func compSourceAtop(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return addDiv255(mulDiv255(sr, da), mulDiv255(dr, invSa)),
		addDiv255(mulDiv255(sg, da), mulDiv255(dg, invSa)),
		addDiv255(mulDiv255(sb, da), mulDiv255(db, invSa)),
		da
}

func compDestinationIn(_, _, _, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return mulDiv255(dr, sa), mulDiv255(dg, sa), mulDiv255(db, sa), mulDiv255(da, sa)
}

func compDestinationOut(_, _, _, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return mulDiv255(dr, invSa), mulDiv255(dg, invSa), mulDiv255(db, invSa), mulDiv255(da, invSa)
}

// mulDiv255 computes (a * b) / 255 with rounding.
func mulDiv255(a, b byte) byte {
	v := uint16(a)*uint16(b) + 128
	return byte((v + v>>8) >> 8)
}

// addDiv255 adds two bytes, clamping to 255.
func addDiv255(a, b byte) byte {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return byte(s)
}

// compositeUniform paints color c through mask onto dst inside r.
// The mask may have any bounds; pixels outside it are untouched.
func compositeUniform(dst *image.RGBA, r image.Rectangle, c color.RGBA, mask *image.Alpha, op CompositeOp) {
	r = r.Intersect(dst.Rect).Intersect(mask.Rect)
	if r.Empty() {
		return
	}
	f := op.fn()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		mi := mask.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x, di, mi = x+1, di+4, mi+1 {
			m := mask.Pix[mi]
			if m == 0 && op != OpDestinationIn {
				continue
			}
			d := dst.Pix[di : di+4 : di+4]
			d[0], d[1], d[2], d[3] = f(
				mulDiv255(c.R, m), mulDiv255(c.G, m), mulDiv255(c.B, m), mulDiv255(c.A, m),
				d[0], d[1], d[2], d[3])
		}
	}
}

// compositeImage blends src onto dst inside r, with sp the src point that
// lines up with r.Min.
func compositeImage(dst *image.RGBA, r image.Rectangle, src *image.RGBA, sp image.Point, op CompositeOp) {
	orig := r.Min
	r = r.Intersect(dst.Rect)
	r = r.Intersect(src.Rect.Add(orig.Sub(sp)))
	if r.Empty() {
		return
	}
	sp = sp.Add(r.Min.Sub(orig))
	f := op.fn()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		si := src.PixOffset(sp.X, sp.Y+y-r.Min.Y)
		for x := r.Min.X; x < r.Max.X; x, di, si = x+1, di+4, si+4 {
			s := src.Pix[si : si+4 : si+4]
			if s[3] == 0 && op != OpDestinationIn {
				continue
			}
			d := dst.Pix[di : di+4 : di+4]
			d[0], d[1], d[2], d[3] = f(s[0], s[1], s[2], s[3], d[0], d[1], d[2], d[3])
		}
	}
}
