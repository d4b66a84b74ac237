package texfill

import "github.com/gogpu/texfill/canvas"

// Region is a filled shape made of one or more subpaths. All subpaths are
// filled together under the style's fill rule, then textured in one pass.
type Region struct {
	path    *canvas.Path
	style   canvas.Style
	texture *Texture
}

// NewRegion creates a region for path.
func NewRegion(path *canvas.Path, style canvas.Style) *Region {
	return &Region{path: path, style: style, texture: NewTexture()}
}

// Path returns the region geometry.
func (r *Region) Path() *canvas.Path { return r.path }

// SetPath replaces the region geometry.
func (r *Region) SetPath(p *canvas.Path) { r.path = p }

// Style returns the paint style.
func (r *Region) Style() canvas.Style { return r.style }

// SetStyle replaces the paint style.
func (r *Region) SetStyle(st canvas.Style) { r.style = st }

// Texture returns the texture state.
func (r *Region) Texture() *Texture { return r.texture }

// Draw paints the region.
func (r *Region) Draw(dc *canvas.Context, comp *Compositor) {
	paintShape(dc, comp, r.path, r.style, r.texture)
}
