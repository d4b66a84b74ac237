// Package canvas is the software drawing context used by texfill.
//
// # Overview
//
// A Context draws into a Surface (a premultiplied *image.RGBA) through a
// current transformation matrix, a composite operator and an image
// interpolation mode. It exposes the handful of primitives the texture
// compositor needs:
//
//	dc := canvas.NewContext(canvas.NewSurface(256, 256))
//	dc.Translate(16, 16)
//	dc.FillPath(canvas.BuildPath().Circle(64, 64, 48).Build(), canvas.Style{
//		Fill: color.NRGBA{R: 200, A: 255},
//	})
//	dc.DrawImage(img, 0, 0, 128, 128)
//
// Paths are filled and stroked with the scanline rasterizer from
// github.com/golang/freetype/raster; images are resampled with
// golang.org/x/image/draw.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Angles in radians, positive angles rotate clockwise on screen
//
// # Offscreen Surfaces
//
// SurfacePool hands out scratch surfaces bucketed by size and refuses
// allocations above a pixel limit, so callers can fall back instead of
// exhausting memory.
package canvas
