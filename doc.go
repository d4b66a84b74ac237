// Package texfill fills vector shapes with bitmaps.
//
// A textured item (a [Region] of subpaths or multi-line [PointText]) owns a
// [Texture]: the URL of its bitmap, the fit [Settings] and load listeners.
// A [Renderer] resolves texture URLs through a shared LRU cache and an
// asynchronous [Loader], then paints each item through a [Compositor] that
// clips the fitted bitmap to the item's silhouette on a pooled offscreen
// surface.
//
// # Fitting
//
// [ComputeFit] scales the bitmap to cover the item's bounding box without
// letterboxing, then applies offsets, scaling, flips and rotation from the
// settings. Geometry with no area yields [ErrDegenerateGeometry] and the
// item is painted with its flat style instead.
//
// # Loading
//
// Requests are non-blocking. Cache hits bind before Request returns; misses
// are fetched on worker goroutines and applied when the render loop calls
// [Loader.Dispatch] or [Loader.Wait]. A newer request for the same texture
// supersedes an older one, and failures are reported once through
// [Texture.OnError] as a [*LoadError] while the previous bitmap stays bound.
//
// # Example
//
//	r := texfill.NewRenderer()
//	defer r.Close()
//
//	region := texfill.NewRegion(canvas.BuildPath().Circle(100, 100, 80).Build(), style)
//	r.Request(region, "wood.png")
//	_ = r.Wait(ctx)
//
//	dc := canvas.NewContext(200, 200)
//	r.Render(dc, region)
//
// # Logging
//
// texfill is silent by default. Use [SetLogger] to receive load failures and
// fallback diagnostics through log/slog.
package texfill
