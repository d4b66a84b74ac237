package texfill

import (
	"slices"
	"sync"

	"github.com/gogpu/texfill/imageio"
)

// Texture is the texture state of one drawable item: the desired URL, the
// bound bitmap, the fit settings and the listeners notified when any of it
// changes.
//
// The bitmap is a shared reference into the renderer cache. While a new URL
// is loading the previous bitmap stays bound, so the item keeps drawing with
// it until the load settles.
//
// Listeners run synchronously on the goroutine that caused the change:
// Request for empty URLs and cache hits, Dispatch/Wait for async results.
type Texture struct {
	mu       sync.Mutex
	url      string
	bitmap   *imageio.Bitmap
	loaded   bool
	settings Settings
	gen      uint64
	detached bool

	onLoad  []func()
	onError []func(*LoadError)
	onStyle []func()
}

// NewTexture returns an unbound texture with default settings.
func NewTexture() *Texture {
	return &Texture{loaded: true, settings: DefaultSettings()}
}

// URL returns the most recently requested URL.
func (t *Texture) URL() string {
	if t == nil {
		return ""
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.url
}

// SetURL records the URL to load without starting a load. Renderer.Bind
// requests it.
func (t *Texture) SetURL(url string) {
	t.mu.Lock()
	t.url = url
	t.mu.Unlock()
}

// Bitmap returns the bound bitmap, or nil.
func (t *Texture) Bitmap() *imageio.Bitmap {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bitmap
}

// Loaded reports whether the latest request has settled, successfully or not.
func (t *Texture) Loaded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loaded
}

// Settings returns a copy of the fit settings.
func (t *Texture) Settings() Settings {
	if t == nil {
		return DefaultSettings()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings
}

// SetSettings replaces the fit settings and signals a style change.
func (t *Texture) SetSettings(s Settings) {
	t.mu.Lock()
	t.settings = s
	t.mu.Unlock()
	t.styleChanged()
}

// Attach marks the texture as shown in an active view. Textures start
// attached.
func (t *Texture) Attach() {
	t.mu.Lock()
	t.detached = false
	t.mu.Unlock()
}

// Detach marks the texture as not shown. Async results still bind but no
// listeners are called.
func (t *Texture) Detach() {
	t.mu.Lock()
	t.detached = true
	t.mu.Unlock()
}

// Attached reports whether listeners are called for async results.
func (t *Texture) Attached() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.detached
}

// OnLoad registers fn to run when a bitmap is bound.
func (t *Texture) OnLoad(fn func()) {
	t.mu.Lock()
	t.onLoad = append(t.onLoad, fn)
	t.mu.Unlock()
}

// OnError registers fn to run once per failed request.
func (t *Texture) OnError(fn func(*LoadError)) {
	t.mu.Lock()
	t.onError = append(t.onError, fn)
	t.mu.Unlock()
}

// OnStyleChanged registers fn to run after any change that affects how the
// item paints.
func (t *Texture) OnStyleChanged(fn func()) {
	t.mu.Lock()
	t.onStyle = append(t.onStyle, fn)
	t.mu.Unlock()
}

// begin starts a new request for url and returns its generation.
func (t *Texture) begin(url string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.url = url
	t.gen++
	return t.gen
}

// current reports whether gen is still the latest request.
func (t *Texture) current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen == gen
}

func (t *Texture) pending() {
	t.mu.Lock()
	t.loaded = false
	t.mu.Unlock()
}

// unbind clears the bitmap for an empty URL.
func (t *Texture) unbind() {
	t.mu.Lock()
	t.bitmap = nil
	t.loaded = true
	t.mu.Unlock()
	t.styleChanged()
}

// bind attaches bmp and notifies. Async deliveries to a detached texture
// bind silently.
func (t *Texture) bind(bmp *imageio.Bitmap, async bool) {
	t.mu.Lock()
	t.bitmap = bmp
	t.loaded = true
	notify := !async || !t.detached
	t.mu.Unlock()
	if !notify {
		return
	}
	t.styleChanged()
	for _, fn := range t.snapshotLoad() {
		fn()
	}
}

// fail settles the request without touching the bound bitmap.
func (t *Texture) fail(err *LoadError) {
	t.mu.Lock()
	t.loaded = true
	notify := !t.detached
	fns := slices.Clone(t.onError)
	t.mu.Unlock()
	if !notify {
		return
	}
	for _, fn := range fns {
		fn(err)
	}
}

func (t *Texture) styleChanged() {
	t.mu.Lock()
	fns := slices.Clone(t.onStyle)
	t.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (t *Texture) snapshotLoad() []func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.onLoad)
}
