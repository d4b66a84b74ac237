package texfill

import (
	"context"
	"errors"
	"sync"

	"github.com/gogpu/texfill/cache"
	"github.com/gogpu/texfill/imageio"
)

// DefaultWorkers is the number of concurrent fetches a Loader runs.
const DefaultWorkers = 4

// ErrLoaderClosed is the cause reported for requests that could not complete
// because the loader was closed.
var ErrLoaderClosed = errors.New("texfill: loader closed")

// Decoder fetches and decodes the bitmap behind a URL.
// *imageio.Decoder is the default implementation.
type Decoder interface {
	Decode(ctx context.Context, url string) (*imageio.Bitmap, error)
}

// BitmapCache is the cache type shared by loaders and renderers.
type BitmapCache = cache.LRU[string, *imageio.Bitmap]

// NewBitmapCache creates a bitmap cache. capacity < 1 selects
// cache.DefaultCapacity.
func NewBitmapCache(capacity int) *BitmapCache {
	return cache.New[string, *imageio.Bitmap](capacity)
}

type waiter struct {
	tex *Texture
	gen uint64
}

type result struct {
	url string
	bmp *imageio.Bitmap
	err error
}

// Loader resolves texture URLs into bitmaps.
//
// Fetching and decoding run on worker goroutines, at most workers at once,
// with textures waiting on the same URL sharing one fetch. Results are only
// applied to the cache and to textures inside Dispatch or Wait, so the
// goroutine that renders is the only one that mutates texture state.
type Loader struct {
	cache   *BitmapCache
	decoder Decoder

	ctx    context.Context
	cancel context.CancelFunc
	sem    chan struct{}
	done   chan result
	wg     sync.WaitGroup

	mu       sync.Mutex
	inflight map[string][]waiter
}

// NewLoader creates a loader filling c through d.
func NewLoader(c *BitmapCache, d Decoder, workers int) *Loader {
	if c == nil {
		c = NewBitmapCache(0)
	}
	if d == nil {
		d = &imageio.Decoder{}
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		cache:    c,
		decoder:  d,
		ctx:      ctx,
		cancel:   cancel,
		sem:      make(chan struct{}, workers),
		done:     make(chan result, workers),
		inflight: make(map[string][]waiter),
	}
}

// Cache returns the bitmap cache.
func (l *Loader) Cache() *BitmapCache {
	return l.cache
}

// Request makes url the texture's desired bitmap. It never blocks.
//
// An empty url unbinds the texture. A cached url binds synchronously and
// fires the texture's listeners before Request returns. Otherwise the
// texture is marked not loaded, keeps its previous bitmap and is resolved by
// a later Dispatch or Wait. A newer Request supersedes any older one still
// in flight.
func (l *Loader) Request(tex *Texture, url string) {
	gen := tex.begin(url)
	if url == "" {
		tex.unbind()
		return
	}
	if bmp, ok := l.cache.Get(url); ok {
		tex.bind(bmp, false)
		return
	}
	if l.ctx.Err() != nil {
		tex.fail(&LoadError{URL: url, Err: ErrLoaderClosed})
		return
	}

	tex.pending()
	l.mu.Lock()
	ws, running := l.inflight[url]
	l.inflight[url] = append(ws, waiter{tex: tex, gen: gen})
	l.mu.Unlock()
	if !running {
		l.wg.Add(1)
		go l.fetch(url)
	}
}

func (l *Loader) fetch(url string) {
	defer l.wg.Done()
	select {
	case l.sem <- struct{}{}:
	case <-l.ctx.Done():
		return
	}
	bmp, err := l.decoder.Decode(l.ctx, url)
	<-l.sem
	if err == nil && bmp == nil {
		err = errors.New("decoder returned no bitmap")
	}
	select {
	case l.done <- result{url: url, bmp: bmp, err: err}:
	case <-l.ctx.Done():
	}
}

// Pending returns the number of URLs still being fetched or awaiting
// dispatch.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.inflight)
}

// Dispatch applies all completed loads without blocking and returns how
// many URLs it resolved.
func (l *Loader) Dispatch() int {
	n := 0
	for {
		select {
		case r := <-l.done:
			l.complete(r)
			n++
		default:
			return n
		}
	}
}

// Wait applies completed loads until none are pending or ctx is done.
func (l *Loader) Wait(ctx context.Context) error {
	for l.Pending() > 0 {
		select {
		case r := <-l.done:
			l.complete(r)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close stops the workers. Requests that had not completed settle with an
// error wrapping ErrLoaderClosed.
func (l *Loader) Close() error {
	l.cancel()
	l.wg.Wait()
	l.Dispatch()

	l.mu.Lock()
	left := l.inflight
	l.inflight = make(map[string][]waiter)
	l.mu.Unlock()
	for url, ws := range left {
		l.settle(url, ws, nil, ErrLoaderClosed)
	}
	return nil
}

func (l *Loader) complete(r result) {
	l.mu.Lock()
	ws := l.inflight[r.url]
	delete(l.inflight, r.url)
	l.mu.Unlock()

	if r.err == nil {
		l.cache.Put(r.url, r.bmp)
	} else {
		Logger().Warn("texfill: texture load failed", "url", shortURL(r.url), "err", r.err)
	}
	l.settle(r.url, ws, r.bmp, r.err)
}

func (l *Loader) settle(url string, ws []waiter, bmp *imageio.Bitmap, err error) {
	for _, w := range ws {
		if !w.tex.current(w.gen) {
			Logger().Debug("texfill: discarding superseded texture load", "url", shortURL(url))
			continue
		}
		if err != nil {
			w.tex.fail(&LoadError{URL: url, Err: err})
			continue
		}
		w.tex.bind(bmp, true)
	}
}
