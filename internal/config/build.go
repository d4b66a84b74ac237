package config

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/texfill"
	"github.com/gogpu/texfill/canvas"
	"github.com/gogpu/texfill/text"
)

// ErrBadColor is returned for color strings that are not #rgb, #rgba,
// #rrggbb, #rrggbbaa or "none".
var ErrBadColor = errors.New("config: bad color")

// ParseColor parses a hex color. Empty and "none" yield nil.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	if len(hex) == 3 || len(hex) == 4 {
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return nil, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Canvas converts the style to its drawing form.
func (st Style) Canvas() (canvas.Style, error) {
	var (
		out canvas.Style
		err error
	)
	if out.Fill, err = ParseColor(st.Fill); err != nil {
		return out, err
	}
	if out.Stroke, err = ParseColor(st.Stroke); err != nil {
		return out, err
	}
	if out.Shadow.Color, err = ParseColor(st.Shadow.Color); err != nil {
		return out, err
	}
	out.StrokeWidth = st.StrokeWidth
	out.Shadow.OffsetX = st.Shadow.OffsetX
	out.Shadow.OffsetY = st.Shadow.OffsetY
	out.Shadow.Blur = st.Shadow.Blur
	if st.FillRule == "evenodd" {
		out.FillRule = canvas.FillRuleEvenOdd
	}
	switch st.LineCap {
	case "round":
		out.LineCap = canvas.LineCapRound
	case "square":
		out.LineCap = canvas.LineCapSquare
	}
	if st.LineJoin == "bevel" {
		out.LineJoin = canvas.LineJoinBevel
	}
	return out, nil
}

// appendTo adds the shape as a subpath of b.
func (sh Shape) appendTo(b *canvas.PathBuilder) error {
	switch sh.Type {
	case "rect":
		b.Rect(sh.X, sh.Y, sh.W, sh.H)
	case "roundrect":
		b.RoundRect(sh.X, sh.Y, sh.W, sh.H, sh.R)
	case "circle":
		b.Circle(sh.CX, sh.CY, sh.Radius)
	case "ellipse":
		b.Ellipse(sh.CX, sh.CY, sh.RX, sh.RY)
	case "polygon":
		b.Polygon(sh.CX, sh.CY, sh.Radius, sh.Sides)
	case "star":
		b.Star(sh.CX, sh.CY, sh.Radius, sh.Inner, sh.Sides)
	case "points":
		pts := make([]canvas.Point, len(sh.Points))
		for i, p := range sh.Points {
			pts[i] = canvas.Pt(p[0], p[1])
		}
		b.Points(pts)
	default:
		return fmt.Errorf("config: unknown shape type %q", sh.Type)
	}
	return nil
}

// Build creates the scene items. Each texture has its URL recorded but not
// requested; texfill.Renderer.Bind starts the loads.
func (s *Scene) Build() ([]texfill.Drawable, error) {
	fonts := make(map[string]*text.Font)
	items := make([]texfill.Drawable, 0, len(s.Items))
	for i, it := range s.Items {
		d, err := s.buildItem(it, fonts)
		if err != nil {
			return nil, fmt.Errorf("config: item %d: %w", i, err)
		}
		items = append(items, d)
	}
	return items, nil
}

func (s *Scene) buildItem(it Item, fonts map[string]*text.Font) (texfill.Drawable, error) {
	st, err := it.Style.Canvas()
	if err != nil {
		return nil, err
	}
	settings, err := texfill.ParseSettings(it.Texture.Settings)
	if err != nil {
		return nil, err
	}

	var (
		d   texfill.Drawable
		tex *texfill.Texture
	)
	switch it.Kind {
	case "region":
		b := canvas.BuildPath()
		for _, sh := range it.Shapes {
			if err := sh.appendTo(b); err != nil {
				return nil, err
			}
		}
		r := texfill.NewRegion(b.Build(), st)
		d, tex = r, r.Texture()
	case "text":
		face, err := s.face(it, fonts)
		if err != nil {
			return nil, err
		}
		pt := texfill.NewPointText(it.Content, canvas.Pt(it.X, it.Y), face)
		if it.Style != (Style{}) {
			pt.SetStyle(st)
		}
		pt.SetLeading(it.Leading)
		switch it.Justify {
		case "center":
			pt.SetJustification(texfill.JustifyCenter)
		case "right":
			pt.SetJustification(texfill.JustifyRight)
		}
		d, tex = pt, pt.Texture()
	default:
		return nil, fmt.Errorf("unknown item kind %q", it.Kind)
	}

	tex.SetSettings(settings)
	tex.SetURL(s.resolve(it.Texture.URL))
	return d, nil
}

func (s *Scene) face(it Item, fonts map[string]*text.Font) (*text.Face, error) {
	size := it.Size
	if size == 0 {
		size = texfill.DefaultFontSize
	}
	if it.Font == "" {
		return text.NewFace(text.DefaultFont(), size)
	}
	path := s.resolve(it.Font)
	f, ok := fonts[path]
	if !ok {
		var err error
		if f, err = text.LoadFont(path); err != nil {
			return nil, err
		}
		fonts[path] = f
	}
	return text.NewFace(f, size)
}

// resolve makes a relative local path absolute against the base directory.
// URLs with a scheme are returned unchanged.
func (s *Scene) resolve(ref string) string {
	if ref == "" || s.Render.BaseDir == "" || filepath.IsAbs(ref) || strings.Contains(ref, ":") {
		return ref
	}
	return filepath.Join(s.Render.BaseDir, ref)
}
