package text

import (
	"fmt"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Face is a font at a pixel size. Face is safe for concurrent use.
type Face struct {
	font    *Font
	size    float64
	ppem    fixed.Int26_6
	ascent  float64
	descent float64
	height  float64
}

// NewFace creates a face of f at size pixels per em.
func NewFace(f *Font, size float64) (*Face, error) {
	if !(size > 0) {
		return nil, ErrInvalidSize
	}
	ppem := fixed.Int26_6(size * 64)
	var buf sfnt.Buffer
	m, err := f.outl.Metrics(&buf, ppem, xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("text: metrics: %w", err)
	}
	return &Face{
		font:    f,
		size:    size,
		ppem:    ppem,
		ascent:  fixedToFloat(m.Ascent),
		descent: fixedToFloat(m.Descent),
		height:  fixedToFloat(m.Height),
	}, nil
}

// Face returns the font at size. It panics on a non-positive size; use
// NewFace to handle that as an error.
func (f *Font) Face(size float64) *Face {
	face, err := NewFace(f, size)
	if err != nil {
		panic(err)
	}
	return face
}

// Font returns the underlying font.
func (f *Face) Font() *Font {
	return f.font
}

// Size returns the size in pixels per em.
func (f *Face) Size() float64 {
	return f.size
}

// Ascent returns the distance from the baseline to the top of the line.
func (f *Face) Ascent() float64 {
	return f.ascent
}

// Descent returns the distance from the baseline to the bottom of the line.
func (f *Face) Descent() float64 {
	return f.descent
}

// LineHeight is the default leading: the recommended baseline-to-baseline
// distance.
func (f *Face) LineHeight() float64 {
	if f.height > 0 {
		return f.height
	}
	return f.ascent + f.descent
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
