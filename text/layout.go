package text

import (
	"strings"

	"github.com/gogpu/texfill/canvas"
	"golang.org/x/image/font/sfnt"
)

// Line is one laid-out line of point text.
type Line struct {
	Text string
	// Path holds the glyph outlines with the baseline start at (0, 0).
	Path *canvas.Path
	// Advance is the pen advance of the whole line.
	Advance float64
}

// Bounds returns the tight bounds of the line's glyph outlines.
func (l Line) Bounds() canvas.Rect {
	return l.Path.Bounds()
}

// SplitLines splits content on line feeds, accepting CRLF.
func SplitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(content, "\n")
}

// Layout splits content into lines and builds a glyph path for each.
// An empty line yields a Line with an empty path.
func (f *Face) Layout(content string) []Line {
	parts := SplitLines(content)
	lines := make([]Line, len(parts))
	for i, s := range parts {
		lines[i] = f.LayoutLine(s)
	}
	return lines
}

// LayoutLine shapes a single line.
func (f *Face) LayoutLine(s string) Line {
	glyphs := f.Shape(s)
	line := Line{Text: s, Path: canvas.NewPath()}
	var buf sfnt.Buffer
	for _, g := range glyphs {
		f.appendGlyph(line.Path, &buf, g)
		line.Advance += g.Advance
	}
	return line
}

// Measure returns the advance of a single line.
func (f *Face) Measure(s string) float64 {
	var w float64
	for _, g := range f.Shape(s) {
		w += g.Advance
	}
	return w
}

func (f *Face) appendGlyph(p *canvas.Path, buf *sfnt.Buffer, g Glyph) {
	segs, err := f.font.outl.LoadGlyph(buf, sfnt.GlyphIndex(g.ID), f.ppem, nil)
	if err != nil || len(segs) == 0 {
		return
	}
	pt := func(i int, s sfnt.Segment) (float64, float64) {
		return g.X + fixedToFloat(s.Args[i].X), g.Y + fixedToFloat(s.Args[i].Y)
	}
	open := false
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				p.Close()
			}
			p.MoveTo(pt(0, s))
			open = true
		case sfnt.SegmentOpLineTo:
			p.LineTo(pt(0, s))
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(0, s)
			x, y := pt(1, s)
			p.QuadraticTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := pt(0, s)
			c2x, c2y := pt(1, s)
			x, y := pt(2, s)
			p.CubicTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	if open {
		p.Close()
	}
}
