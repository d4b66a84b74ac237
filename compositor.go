package texfill

import (
	"image/color"
	"math"

	"github.com/gogpu/texfill/canvas"
	"github.com/gogpu/texfill/imageio"
)

// MinMargin is the headroom in device pixels added around every offscreen
// silhouette so antialiased edges are not clipped.
const MinMargin = 2

// Compositor paints a bitmap clipped to a silhouette through a pooled
// offscreen surface:
//
//  1. fill the silhouette on a transparent surface (shadow suppressed)
//  2. draw the fitted bitmap with source-atop so only covered pixels change
//  3. stroke the silhouette again so the outline stays on top
//  4. blit the surface back at the silhouette's device position
type Compositor struct {
	pool *canvas.SurfacePool
}

// NewCompositor creates a compositor drawing through pool. A nil pool gets a
// default one.
func NewCompositor(pool *canvas.SurfacePool) *Compositor {
	if pool == nil {
		pool = canvas.NewSurfacePool(0, 0)
	}
	return &Compositor{pool: pool}
}

// Pool returns the offscreen surface pool.
func (c *Compositor) Pool() *canvas.SurfacePool {
	return c.pool
}

// margin returns the device-space inflation for a style under m.
func margin(st canvas.Style, m canvas.Matrix) int {
	w := 0.0
	if st.HasStroke() {
		w = st.StrokeWidth * m.MaxScale()
	}
	return int(math.Ceil(w)) + MinMargin
}

// Composite paints silhouette, given in dst's user space, filled with bmp
// placed by fit, and styled by st. fit is relative to the top-left corner of
// the silhouette's bounds. Composite reports false without drawing anything
// when no offscreen surface could be acquired; the caller then paints the
// shape flat.
func (c *Compositor) Composite(dst *canvas.Context, silhouette *canvas.Path, bmp *imageio.Bitmap, fit Fit, st canvas.Style) bool {
	if silhouette.IsEmpty() || bmp == nil {
		return false
	}
	ctm := dst.Matrix()
	local := silhouette.Bounds()
	dev := silhouette.Transform(ctm).Bounds()
	pad := float64(margin(st, ctm))

	x0 := int(math.Floor(dev.Min.X - pad))
	y0 := int(math.Floor(dev.Min.Y - pad))
	x1 := int(math.Ceil(dev.Max.X + pad))
	y1 := int(math.Ceil(dev.Max.Y + pad))

	surf, err := c.pool.Acquire(x1-x0, y1-y0)
	if err != nil {
		Logger().Warn("texfill: offscreen surface unavailable, drawing flat",
			"width", x1-x0, "height", y1-y0, "err", err)
		return false
	}
	defer c.pool.Release(surf)

	off := canvas.NewContextForSurface(surf)
	off.SetMatrix(canvas.Translate(float64(-x0), float64(-y0)).Multiply(ctm))

	silStyle := st.WithoutShadow()
	unfilled := !silStyle.HasFill()
	if unfilled {
		silStyle.Fill = color.Black
	}
	off.FillPath(silhouette, silStyle)

	off.Save()
	off.SetCompositeOp(canvas.OpSourceAtop)
	off.Translate(local.Min.X, local.Min.Y)
	off.Transform(fit.Matrix())
	off.DrawImage(bmp.Image, 0, 0, fit.DrawW, fit.DrawH)
	if unfilled {
		// the stand-in black must not show where the bitmap is clear or absent
		off.SetCompositeOp(canvas.OpDestinationIn)
		off.DrawImage(bmp.Image, 0, 0, fit.DrawW, fit.DrawH)
	}
	off.Restore()

	if st.HasStroke() {
		off.StrokePath(silhouette, st.WithoutShadow())
	}

	dst.DrawSurface(surf, x0, y0, st.Shadow)
	return true
}
