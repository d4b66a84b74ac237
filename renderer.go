package texfill

import (
	"context"

	"github.com/gogpu/texfill/canvas"
	"github.com/gogpu/texfill/imageio"
)

// Renderer ties a bitmap cache, a Loader and a Compositor together and
// paints items onto a drawing context.
//
// A Renderer is meant to be driven from one goroutine: Bind, Request,
// Render and Wait all touch texture state.
type Renderer struct {
	cache  *BitmapCache
	loader *Loader
	comp   *Compositor
}

// NewRenderer creates a renderer.
func NewRenderer(opts ...Option) *Renderer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	c := o.cache
	if c == nil {
		c = NewBitmapCache(o.capacity)
	}
	c.OnEvict(func(url string, _ *imageio.Bitmap) {
		Logger().Debug("texfill: evicted bitmap", "url", shortURL(url))
	})
	return &Renderer{
		cache:  c,
		loader: NewLoader(c, o.decoder, o.workers),
		comp:   NewCompositor(o.pool),
	}
}

// Cache returns the bitmap cache.
func (r *Renderer) Cache() *BitmapCache { return r.cache }

// Loader returns the texture loader.
func (r *Renderer) Loader() *Loader { return r.loader }

// Compositor returns the offscreen compositor.
func (r *Renderer) Compositor() *Compositor { return r.comp }

// Request loads url into the item's texture.
func (r *Renderer) Request(item Texturable, url string) {
	r.loader.Request(item.Texture(), url)
}

// Bind requests the URL recorded on each texturable item's texture.
// Items without texture state are skipped.
func (r *Renderer) Bind(items ...any) {
	for _, it := range items {
		t, ok := it.(Texturable)
		if !ok || t.Texture() == nil {
			continue
		}
		r.loader.Request(t.Texture(), t.Texture().URL())
	}
}

// Wait blocks until every pending texture load has been applied.
func (r *Renderer) Wait(ctx context.Context) error {
	return r.loader.Wait(ctx)
}

// Render applies completed loads, then draws items in order.
func (r *Renderer) Render(dc *canvas.Context, items ...Drawable) {
	r.loader.Dispatch()
	for _, it := range items {
		it.Draw(dc, r.comp)
	}
}

// Close stops the loader.
func (r *Renderer) Close() error {
	return r.loader.Close()
}
