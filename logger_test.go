package texfill

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/gogpu/texfill/canvas"
)

// captureLogs routes texfill logging into a buffer at debug level for the
// duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func TestLoggerSilentByDefault(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	tests := []struct {
		name  string
		setup func()
	}{
		{"initial", func() {}},
		{"reset with nil", func() {
			SetLogger(slog.Default())
			SetLogger(nil)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			l := Logger()
			if l == nil {
				t.Fatal("Logger() returned nil")
			}
			for _, level := range []slog.Level{slog.LevelDebug, slog.LevelWarn, slog.LevelError} {
				if l.Enabled(context.Background(), level) {
					t.Errorf("logger enabled for %v", level)
				}
			}
		})
	}
}

func TestLogSupersededLoadDiscarded(t *testing.T) {
	logs := captureLogs(t)

	dec := newFakeDecoder()
	a := dec.add(solidBitmap("a.png", red, 2, 2))
	b := dec.add(solidBitmap("b.png", blue, 2, 2))
	gateA := dec.gate(a.URL)
	l := newTestLoader(t, dec)

	tex := NewTexture()
	l.Request(tex, a.URL)
	l.Request(tex, b.URL)
	dispatchUntil(t, l, func() bool { return tex.Bitmap() == b })
	close(gateA)
	waitLoader(t, l)

	out := logs.String()
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "discarding superseded texture load") {
		t.Errorf("no debug record for superseded load: %q", out)
	}
	if !strings.Contains(out, "url=a.png") {
		t.Errorf("superseded record does not name a.png: %q", out)
	}
}

func TestLogSurfaceUnavailable(t *testing.T) {
	logs := captureLogs(t)

	comp := NewCompositor(canvas.NewSurfacePool(100, 1))
	dc := canvas.NewContext(40, 40)
	r := texturedRegion(canvas.BuildPath().Rect(10, 10, 20, 20).Build(),
		canvas.Style{Fill: red}, solidBitmap("blue", blue, 8, 8))
	r.Draw(dc, comp)

	out := logs.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "offscreen surface unavailable") {
		t.Errorf("no warn record for surface failure: %q", out)
	}
}

func TestLogDegenerateFitDrawsFlat(t *testing.T) {
	logs := captureLogs(t)

	r := texturedRegion(canvas.BuildPath().Rect(10, 10, 20, 20).Build(),
		canvas.Style{Fill: red}, solidBitmap("blue", blue, 8, 8))
	s := DefaultSettings()
	s.ScalingX = -1
	r.Texture().SetSettings(s)
	r.Draw(canvas.NewContext(40, 40), NewCompositor(nil))

	if out := logs.String(); !strings.Contains(out, "drawing flat") || !strings.Contains(out, "url=blue") {
		t.Errorf("no debug record for flat fallback: %q", out)
	}
}

func TestLogEviction(t *testing.T) {
	logs := captureLogs(t)

	r := NewRenderer(WithCacheCapacity(1), WithDecoder(newFakeDecoder()))
	t.Cleanup(func() { _ = r.Close() })
	r.Cache().Put("first.png", solidBitmap("first.png", red, 1, 1))
	r.Cache().Put("second.png", solidBitmap("second.png", red, 1, 1))

	if out := logs.String(); !strings.Contains(out, "evicted bitmap") || !strings.Contains(out, "url=first.png") {
		t.Errorf("no debug record for eviction: %q", out)
	}
}

func TestShortURLKeepsRunes(t *testing.T) {
	long := strings.Repeat("x", 79) + strings.Repeat("ü", 4)
	tests := []struct {
		in   string
		want string
	}{
		{"a.png", "a.png"},
		{long, strings.Repeat("x", 79) + "..."},
	}
	for _, tt := range tests {
		got := shortURL(tt.in)
		if !utf8.ValidString(got) {
			t.Errorf("shortURL() = %q, not valid UTF-8", got)
		}
		if got != tt.want {
			t.Errorf("shortURL() = %q, want %q", got, tt.want)
		}
	}
}

func TestSetLoggerRace(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Logger().Debug("texfill: concurrent read")
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
			SetLogger(nil)
		}()
	}
	wg.Wait()
}
