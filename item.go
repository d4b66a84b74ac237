package texfill

import "github.com/gogpu/texfill/canvas"

// Drawable is an item that paints itself, textured when comp is non-nil and
// its texture is bound.
type Drawable interface {
	Draw(dc *canvas.Context, comp *Compositor)
}

// Styled is an item with a paint style.
type Styled interface {
	Style() canvas.Style
}

// Texturable is an item with texture state.
type Texturable interface {
	Texture() *Texture
}

// paintShape paints path textured, or flat when it cannot be.
func paintShape(dc *canvas.Context, comp *Compositor, path *canvas.Path, st canvas.Style, tex *Texture) {
	if path.IsEmpty() {
		return
	}
	if comp != nil && paintTextured(dc, comp, path, st, tex) {
		return
	}
	dc.DrawPath(path, st)
}

func paintTextured(dc *canvas.Context, comp *Compositor, path *canvas.Path, st canvas.Style, tex *Texture) bool {
	bmp := tex.Bitmap()
	if bmp == nil {
		return false
	}
	b := path.Bounds()
	s := tex.Settings()
	fit, err := ComputeFit(b.Width(), b.Height(), bmp.AspectRatio(), &s)
	if err != nil {
		Logger().Debug("texfill: drawing flat", "url", shortURL(bmp.URL), "err", err)
		return false
	}
	return comp.Composite(dc, path, bmp, fit, st)
}
