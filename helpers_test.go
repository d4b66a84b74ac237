package texfill

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/texfill/imageio"
)

var errNotFound = errors.New("not found")

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	none  = color.RGBA{}
)

// solidBitmap returns a w×h bitmap of one color.
func solidBitmap(url string, c color.Color, w, h int) *imageio.Bitmap {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Rect, image.NewUniform(c), image.Point{}, draw.Src)
	return imageio.NewBitmap(url, img)
}

// fakeDecoder serves bitmaps from a map. A gated URL blocks until its gate
// channel is closed.
type fakeDecoder struct {
	mu      sync.Mutex
	bitmaps map[string]*imageio.Bitmap
	gates   map[string]chan struct{}
	calls   map[string]int
}

func newFakeDecoder() *fakeDecoder {
	return &fakeDecoder{
		bitmaps: make(map[string]*imageio.Bitmap),
		gates:   make(map[string]chan struct{}),
		calls:   make(map[string]int),
	}
}

func (d *fakeDecoder) add(bmp *imageio.Bitmap) *imageio.Bitmap {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bitmaps[bmp.URL] = bmp
	return bmp
}

func (d *fakeDecoder) gate(url string) chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch := make(chan struct{})
	d.gates[url] = ch
	return ch
}

func (d *fakeDecoder) callCount(url string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[url]
}

func (d *fakeDecoder) Decode(ctx context.Context, url string) (*imageio.Bitmap, error) {
	d.mu.Lock()
	d.calls[url]++
	gate := d.gates[url]
	bmp, ok := d.bitmaps[url]
	d.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if !ok {
		return nil, errNotFound
	}
	return bmp, nil
}

// recorder counts texture notifications.
type recorder struct {
	loads  int
	styles int
	errs   []*LoadError
}

func record(tex *Texture) *recorder {
	r := &recorder{}
	tex.OnLoad(func() { r.loads++ })
	tex.OnStyleChanged(func() { r.styles++ })
	tex.OnError(func(err *LoadError) { r.errs = append(r.errs, err) })
	return r
}

func waitLoader(t *testing.T, l *Loader) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

// dispatchUntil dispatches completions until cond holds.
func dispatchUntil(t *testing.T, l *Loader, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		l.Dispatch()
		time.Sleep(time.Millisecond)
	}
}
