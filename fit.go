package texfill

import (
	"errors"
	"math"

	"github.com/gogpu/texfill/canvas"
)

// ErrDegenerateGeometry is returned by ComputeFit when the target box or the
// fitted texture has no area. Callers draw the shape flat instead.
var ErrDegenerateGeometry = errors.New("texfill: degenerate fit geometry")

// OpKind identifies a transform step of a fit.
type OpKind uint8

const (
	OpTranslate OpKind = iota
	OpScale
	OpRotate
)

// Op is one transform step. X and Y hold the translation or scale factors;
// Angle is in radians.
type Op struct {
	Kind  OpKind
	X, Y  float64
	Angle float64
}

// matrix returns the op as an affine matrix.
func (o Op) matrix() canvas.Matrix {
	switch o.Kind {
	case OpScale:
		return canvas.Scale(o.X, o.Y)
	case OpRotate:
		return canvas.Rotate(o.Angle)
	default:
		return canvas.Translate(o.X, o.Y)
	}
}

// Fit is the texture placement inside a target box. The bitmap is drawn at
// (0, 0, DrawW, DrawH) after applying Ops in order.
type Fit struct {
	DrawW, DrawH     float64
	OffsetX, OffsetY float64
	Ops              []Op
}

// Matrix folds Ops into one matrix, the first op applied last to points.
func (f Fit) Matrix() canvas.Matrix {
	m := canvas.Identity()
	for _, op := range f.Ops {
		m = m.Multiply(op.matrix())
	}
	return m
}

// ComputeFit places a bitmap with aspect ratio ratio (width/height) into a
// w×h target box. With nil settings the defaults apply.
//
// The baseline fit covers the box: the texture is scaled to the box width
// and, if that leaves it shorter than the box, to the box height instead.
// Explicit TextWidth/TextHeight replace the box with the same cover rule.
// ComputeFit is a pure function.
func ComputeFit(w, h, ratio float64, s *Settings) (Fit, error) {
	if s == nil {
		d := DefaultSettings()
		s = &d
	}
	if !(w > 0) || !(h > 0) || !(ratio > 0) || math.IsInf(ratio, 0) {
		return Fit{}, ErrDegenerateGeometry
	}

	drawW, drawH := w, w/ratio
	if drawH < h {
		drawH, drawW = h, h*ratio
	}
	if s.TextWidth != 0 {
		drawW, drawH = s.TextWidth, s.TextWidth/ratio
		if s.TextHeight != 0 && drawH < s.TextHeight {
			drawH, drawW = s.TextHeight, s.TextHeight*ratio
		}
	}

	offsetX, offsetY := -s.OffsetLeft, -s.OffsetTop
	if s.SyncRatio {
		drawW *= s.scaling()
		drawH *= s.scaling()
	} else {
		drawW *= s.scalingX()
		drawH *= s.scalingY()
	}
	offsetX += s.LeftPosition
	offsetY -= s.TopPosition

	if !(drawW > 0) || !(drawH > 0) || math.IsInf(drawW, 0) || math.IsInf(drawH, 0) ||
		math.IsNaN(offsetX) || math.IsNaN(offsetY) {
		return Fit{}, ErrDegenerateGeometry
	}

	ops := make([]Op, 0, 8)
	ops = append(ops, Op{Kind: OpTranslate, X: offsetX, Y: offsetY})
	if s.HorizontalFlip {
		ops = append(ops,
			Op{Kind: OpTranslate, X: drawW},
			Op{Kind: OpScale, X: -1, Y: 1})
	}
	if s.VerticalFlip {
		ops = append(ops,
			Op{Kind: OpTranslate, Y: drawH},
			Op{Kind: OpScale, X: 1, Y: -1})
	}
	if s.Rotation != 0 && !math.IsNaN(s.Rotation) {
		ops = append(ops,
			Op{Kind: OpTranslate, X: drawW / 2, Y: drawH / 2},
			Op{Kind: OpRotate, Angle: s.Rotation * math.Pi / 180},
			Op{Kind: OpTranslate, X: -drawW / 2, Y: -drawH / 2})
	}

	return Fit{
		DrawW:   drawW,
		DrawH:   drawH,
		OffsetX: offsetX,
		OffsetY: offsetY,
		Ops:     ops,
	}, nil
}
