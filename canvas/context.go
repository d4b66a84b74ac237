package canvas

import (
	"image"
	"image/color"
	"math"
)

// Interpolation selects the resampling filter used by DrawImage.
type Interpolation uint8

const (
	InterpBilinear Interpolation = iota
	InterpNearest
	InterpBicubic
)

// state is the part of the Context saved and restored by Save/Restore.
type state struct {
	matrix Matrix
	op     CompositeOp
	interp Interpolation
}

// Context draws paths and images onto a Surface.
// It maintains a current transform, composite operator and a save stack.
// A Context is not safe for concurrent use.
type Context struct {
	surface *Surface
	state   state
	stack   []state
	cov     *coverage
}

// NewContext creates a context with a new transparent surface.
func NewContext(width, height int) *Context {
	return NewContextForSurface(NewSurface(width, height))
}

// NewContextForSurface creates a context drawing onto s.
func NewContextForSurface(s *Surface) *Context {
	return &Context{
		surface: s,
		state:   state{matrix: Identity()},
	}
}

// Surface returns the surface being drawn on.
func (c *Context) Surface() *Surface {
	return c.surface
}

// Width returns the width of the surface.
func (c *Context) Width() int {
	return c.surface.Width()
}

// Height returns the height of the surface.
func (c *Context) Height() int {
	return c.surface.Height()
}

// Image returns the surface pixels.
func (c *Context) Image() *image.RGBA {
	return c.surface.img
}

// Clear makes the whole surface transparent.
func (c *Context) Clear() {
	c.surface.Clear()
}

// ClearWithColor fills the whole surface with col, ignoring the transform
// and composite operator.
func (c *Context) ClearWithColor(col color.Color) {
	c.surface.Fill(col)
}

// Save pushes the current transform, operator and interpolation.
func (c *Context) Save() {
	c.stack = append(c.stack, c.state)
}

// Restore pops the state pushed by the matching Save.
// Restore without a matching Save is a no-op.
func (c *Context) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

// Matrix returns the current transform.
func (c *Context) Matrix() Matrix {
	return c.state.matrix
}

// SetMatrix replaces the current transform.
func (c *Context) SetMatrix(m Matrix) {
	c.state.matrix = m
}

// Transform applies m before the current transform.
func (c *Context) Transform(m Matrix) {
	c.state.matrix = c.state.matrix.Multiply(m)
}

// Translate applies a translation.
func (c *Context) Translate(x, y float64) {
	c.Transform(Translate(x, y))
}

// Scale applies a scale.
func (c *Context) Scale(x, y float64) {
	c.Transform(Scale(x, y))
}

// Rotate applies a rotation in radians.
func (c *Context) Rotate(angle float64) {
	c.Transform(Rotate(angle))
}

// CompositeOp returns the current composite operator.
func (c *Context) CompositeOp() CompositeOp {
	return c.state.op
}

// SetCompositeOp sets the operator used by subsequent drawing.
func (c *Context) SetCompositeOp(op CompositeOp) {
	c.state.op = op
}

// SetInterpolation sets the filter used by DrawImage.
func (c *Context) SetInterpolation(i Interpolation) {
	c.state.interp = i
}

func (c *Context) coverage() *coverage {
	w, h := c.surface.Width(), c.surface.Height()
	if c.cov == nil || c.cov.mask.Rect.Dx() != w || c.cov.mask.Rect.Dy() != h {
		c.cov = newCoverage(w, h)
	}
	return c.cov
}

// FillPath fills p with the style's fill paint and rule under the current
// transform. The style's shadow is painted first.
func (c *Context) FillPath(p *Path, st Style) {
	if p.IsEmpty() || !st.HasFill() || c.surface.img.Rect.Empty() {
		return
	}
	cov := c.coverage()
	dirty := cov.fill(p, c.state.matrix, st.FillRule)
	c.paintCoverage(cov, dirty, st.Fill, st.Shadow)
}

// StrokePath strokes p with the style's stroke paint. Stroke width is in
// user space and scales with the transform.
func (c *Context) StrokePath(p *Path, st Style) {
	if p.IsEmpty() || !st.HasStroke() || c.surface.img.Rect.Empty() {
		return
	}
	cov := c.coverage()
	dirty := cov.stroke(p, c.state.matrix, st)
	c.paintCoverage(cov, dirty, st.Stroke, st.Shadow)
}

// DrawPath fills then strokes p, as a styled shape is normally painted.
// The shadow is cast once, by the fill when there is one.
func (c *Context) DrawPath(p *Path, st Style) {
	if !st.HasFill() {
		c.StrokePath(p, st)
		return
	}
	c.FillPath(p, st)
	c.StrokePath(p, st.WithoutShadow())
}

func (c *Context) paintCoverage(cov *coverage, dirty image.Rectangle, paint color.Color, sh Shadow) {
	defer cov.reset()
	dst := c.surface.img
	op := c.state.op
	area := dirty
	if op == OpDestinationIn {
		area = dst.Rect
	}
	if sh.Visible() && !dirty.Empty() {
		sm := shadowMask(cov.mask, dirty, sh)
		compositeUniform(dst, sm.Rect, premul(sh.Color), sm, OpSourceOver)
	}
	if area.Empty() {
		return
	}
	compositeUniform(dst, area, premul(paint), cov.mask, op)
}

// deviceRect converts float device bounds to covering pixel bounds.
func deviceRect(r Rect) image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(r.Min.X)), int(math.Floor(r.Min.Y)),
		int(math.Ceil(r.Max.X)), int(math.Ceil(r.Max.Y)),
	)
}
