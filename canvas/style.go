package canvas

import "image/color"

// FillRule selects how overlapping subpaths decide what is inside.
type FillRule uint8

const (
	// FillRuleNonZero fills any point with a non-zero winding number.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd fills points crossed an odd number of times.
	FillRuleEvenOdd
)

// String returns the SVG name of the rule.
func (r FillRule) String() string {
	if r == FillRuleEvenOdd {
		return "evenodd"
	}
	return "nonzero"
}

// LineCap is the shape at the open ends of stroked subpaths.
type LineCap uint8

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

// LineJoin is the shape where stroked segments meet.
type LineJoin uint8

const (
	LineJoinRound LineJoin = iota
	LineJoinBevel
)

// Shadow is a drop shadow cast by fills and strokes. Offsets and blur are in
// device pixels and are not affected by the current transform.
type Shadow struct {
	Color   color.Color
	OffsetX float64
	OffsetY float64
	Blur    float64
}

// Visible reports whether the shadow would paint anything.
func (s Shadow) Visible() bool {
	if s.Color == nil {
		return false
	}
	_, _, _, a := s.Color.RGBA()
	return a > 0
}

// Style is a snapshot of the paint state used to draw one item.
type Style struct {
	// Fill is the fill paint. nil disables filling.
	Fill     color.Color
	FillRule FillRule

	// Stroke is the outline paint. nil or a non-positive width disables
	// stroking.
	Stroke      color.Color
	StrokeWidth float64
	LineCap     LineCap
	LineJoin    LineJoin

	Shadow Shadow
}

// HasFill reports whether the style fills.
func (s Style) HasFill() bool {
	return visible(s.Fill)
}

// HasStroke reports whether the style strokes.
func (s Style) HasStroke() bool {
	return s.StrokeWidth > 0 && visible(s.Stroke)
}

// WithoutShadow returns a copy of the style with the shadow removed.
func (s Style) WithoutShadow() Style {
	s.Shadow = Shadow{}
	return s
}

func visible(c color.Color) bool {
	if c == nil {
		return false
	}
	_, _, _, a := c.RGBA()
	return a > 0
}

// premul converts any color to 8-bit premultiplied RGBA.
func premul(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{}
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}
