package texfill

import "github.com/gogpu/texfill/canvas"

// Option configures a Renderer during creation.
// Use functional options to customize Renderer behavior.
//
// Example:
//
//	// Defaults: 10-entry cache, file/data/http decoder, 4 workers
//	r := texfill.NewRenderer()
//
//	// Shared cache and a custom decoder (dependency injection)
//	r := texfill.NewRenderer(texfill.WithCache(c), texfill.WithDecoder(d))
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	cache    *BitmapCache
	capacity int
	decoder  Decoder
	workers  int
	pool     *canvas.SurfacePool
}

// WithCache shares an existing bitmap cache. It takes precedence over
// WithCacheCapacity.
func WithCache(c *BitmapCache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// WithCacheCapacity sets the capacity of the renderer's own cache.
func WithCacheCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithDecoder replaces the default imageio decoder.
func WithDecoder(d Decoder) Option {
	return func(o *options) {
		o.decoder = d
	}
}

// WithWorkers bounds the number of concurrent fetches.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithSurfacePool shares an offscreen surface pool.
func WithSurfacePool(p *canvas.SurfacePool) Option {
	return func(o *options) {
		o.pool = p
	}
}
