package texfill

import (
	"image/color"

	"github.com/gogpu/texfill/canvas"
	"github.com/gogpu/texfill/text"
)

// DefaultFontSize is the size used when a PointText has no face.
const DefaultFontSize = 12

// Justification aligns each line of point text against its anchor.
type Justification uint8

const (
	JustifyLeft Justification = iota
	JustifyCenter
	JustifyRight
)

// offset returns the x shift of a line with the given advance.
func (j Justification) offset(advance float64) float64 {
	switch j {
	case JustifyCenter:
		return -advance / 2
	case JustifyRight:
		return -advance
	default:
		return 0
	}
}

// PointText is multi-line text anchored at the baseline of its first line.
// Each line is justified on its own and textured in its own pass, so a
// centered texture follows every line.
type PointText struct {
	content       string
	point         canvas.Point
	face          *text.Face
	justification Justification
	leading       float64
	style         canvas.Style
	texture       *Texture
}

// NewPointText creates point text anchored at p. A nil face uses the
// default font at DefaultFontSize.
func NewPointText(content string, p canvas.Point, face *text.Face) *PointText {
	return &PointText{
		content: content,
		point:   p,
		face:    face,
		style:   canvas.Style{Fill: color.Black},
		texture: NewTexture(),
	}
}

// Content returns the text.
func (t *PointText) Content() string { return t.content }

// SetContent replaces the text.
func (t *PointText) SetContent(s string) { t.content = s }

// Point returns the anchor.
func (t *PointText) Point() canvas.Point { return t.point }

// SetPoint moves the anchor.
func (t *PointText) SetPoint(p canvas.Point) { t.point = p }

// Face returns the face used for layout.
func (t *PointText) Face() *text.Face {
	if t.face == nil {
		return text.DefaultFont().Face(DefaultFontSize)
	}
	return t.face
}

// SetFace replaces the face.
func (t *PointText) SetFace(f *text.Face) { t.face = f }

// Justification returns the line alignment.
func (t *PointText) Justification() Justification { return t.justification }

// SetJustification sets the line alignment.
func (t *PointText) SetJustification(j Justification) { t.justification = j }

// Leading returns the baseline-to-baseline distance. Zero means the face's
// line height.
func (t *PointText) Leading() float64 { return t.leading }

// SetLeading sets the baseline-to-baseline distance.
func (t *PointText) SetLeading(l float64) { t.leading = l }

// Style returns the paint style.
func (t *PointText) Style() canvas.Style { return t.style }

// SetStyle replaces the paint style.
func (t *PointText) SetStyle(st canvas.Style) { t.style = st }

// Texture returns the texture state.
func (t *PointText) Texture() *Texture { return t.texture }

// Lines lays out the text and returns one path per line, positioned in the
// item's coordinate space.
func (t *PointText) Lines() []*canvas.Path {
	face := t.Face()
	leading := t.leading
	if leading == 0 {
		leading = face.LineHeight()
	}
	lines := face.Layout(t.content)
	paths := make([]*canvas.Path, len(lines))
	for i, l := range lines {
		m := canvas.Translate(
			t.point.X+t.justification.offset(l.Advance),
			t.point.Y+float64(i)*leading,
		)
		paths[i] = l.Path.Transform(m)
	}
	return paths
}

// Draw paints the text line by line.
func (t *PointText) Draw(dc *canvas.Context, comp *Compositor) {
	for _, p := range t.Lines() {
		paintShape(dc, comp, p, t.style, t.texture)
	}
}
