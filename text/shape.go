package text

import (
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/text/unicode/bidi"
)

// Glyph is a shaped glyph positioned relative to the start of its line.
// Y grows downwards.
type Glyph struct {
	ID      uint16
	X, Y    float64
	Advance float64
	// Cluster is the rune index in the line that produced the glyph.
	Cluster int
}

// HarfbuzzShaper keeps internal buffers and is not safe for concurrent use.
var shaperPool = sync.Pool{
	New: func() any {
		return &shaping.HarfbuzzShaper{}
	},
}

// run is a maximal substring with one resolved direction.
type run struct {
	runes []rune
	start int
	rtl   bool
}

// visualRuns splits a line into directional runs in visual order.
func visualRuns(line string) []run {
	runes := []rune(line)
	var p bidi.Paragraph
	if _, err := p.SetString(line, bidi.DefaultDirection(bidi.LeftToRight)); err != nil {
		return []run{{runes: runes}}
	}
	ord, err := p.Order()
	if err != nil || ord.NumRuns() == 0 {
		return []run{{runes: runes}}
	}
	runs := make([]run, 0, ord.NumRuns())
	for i := 0; i < ord.NumRuns(); i++ {
		r := ord.Run(i)
		start, end := r.Pos()
		if start < 0 || end >= len(runes) || start > end {
			continue
		}
		runs = append(runs, run{
			runes: runes[start : end+1],
			start: start,
			rtl:   r.Direction() == bidi.RightToLeft,
		})
	}
	if len(runs) == 0 {
		return []run{{runes: runes}}
	}
	return runs
}

// Shape shapes one line of text. Glyphs are returned in visual order.
func (f *Face) Shape(line string) []Glyph {
	if line == "" {
		return nil
	}
	face := font.NewFace(f.font.shaper)
	hb := shaperPool.Get().(*shaping.HarfbuzzShaper)
	defer shaperPool.Put(hb)

	var glyphs []Glyph
	var pen float64
	for _, r := range visualRuns(line) {
		dir := di.DirectionLTR
		if r.rtl {
			dir = di.DirectionRTL
		}
		out := hb.Shape(shaping.Input{
			Text:      r.runes,
			RunStart:  0,
			RunEnd:    len(r.runes),
			Direction: dir,
			Face:      face,
			Size:      f.ppem,
			Script:    detectScript(r.runes),
			Language:  language.NewLanguage("en"),
		})
		for _, g := range out.Glyphs {
			adv := fixedToFloat(g.Advance)
			glyphs = append(glyphs, Glyph{
				ID:      uint16(g.GlyphID), //nolint:gosec // glyph ids fit in 16 bits
				X:       pen + fixedToFloat(g.XOffset),
				Y:       -fixedToFloat(g.YOffset),
				Advance: adv,
				Cluster: r.start + g.TextIndex(),
			})
			pen += adv
		}
	}
	return glyphs
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
