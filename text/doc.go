// Package text lays out point text as vector glyph paths.
//
// A [Font] is a parsed, shareable font resource. A [Face] is a font at a
// specific pixel size and carries the line metrics used for leading.
// [Face.Layout] splits content into lines, shapes each line with HarfBuzz
// (github.com/go-text/typesetting) in the direction resolved by the Unicode
// bidi algorithm, and converts the shaped glyphs to a [canvas.Path] whose
// origin is the start of the baseline.
//
//	face := text.DefaultFont().Face(32)
//	for _, line := range face.Layout("Hello\nWorld") {
//	    dc.FillPath(line.Path, style)
//	}
package text
