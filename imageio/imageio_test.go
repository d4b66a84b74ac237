package imageio

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 60), G: uint8(y * 200), B: 40, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage()); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func checkBitmap(t *testing.T, b *Bitmap) {
	t.Helper()
	if b.Width() != 4 || b.Height() != 2 {
		t.Fatalf("size = %dx%d, want 4x2", b.Width(), b.Height())
	}
	if got := b.AspectRatio(); got != 2 {
		t.Errorf("AspectRatio() = %v, want 2", got)
	}
	want := color.RGBA{R: 180, G: 200, B: 40, A: 255}
	if got := b.Image.RGBAAt(3, 1); got != want {
		t.Errorf("pixel (3, 1) = %v, want %v", got, want)
	}
}

func TestDecodeDataURL(t *testing.T) {
	raw := pngBytes(t)
	tests := []struct {
		name string
		url  string
	}{
		{"base64", "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)},
		{"base64 unpadded", "data:image/png;base64," + base64.RawStdEncoding.EncodeToString(raw)},
		{"percent", "data:image/png," + url.PathEscape(string(raw))},
	}
	var d Decoder
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := d.Decode(context.Background(), tt.url)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			checkBitmap(t, b)
			if b.URL != tt.url {
				t.Error("bitmap URL not recorded")
			}
		})
	}
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tex.png")
	if err := os.WriteFile(path, pngBytes(t), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, testImage()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tex.bmp"), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		dec  Decoder
		url  string
	}{
		{"absolute path", Decoder{}, path},
		{"file scheme", Decoder{}, "file://" + filepath.ToSlash(path)},
		{"relative to base", Decoder{BaseDir: dir}, "tex.png"},
		{"bmp", Decoder{BaseDir: dir}, "tex.bmp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := tt.dec.Decode(context.Background(), tt.url)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			checkBitmap(t, b)
		})
	}
}

func TestDecodeHTTP(t *testing.T) {
	raw := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tex.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(raw)
	}))
	t.Cleanup(srv.Close)

	d := Decoder{Client: srv.Client()}
	b, err := d.Decode(context.Background(), srv.URL+"/tex.png")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	checkBitmap(t, b)

	if _, err := d.Decode(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestDecodeErrors(t *testing.T) {
	raw := pngBytes(t)
	tests := []struct {
		name string
		dec  Decoder
		url  string
		want error
	}{
		{"unsupported scheme", Decoder{}, "ftp://example.com/a.png", ErrUnsupportedScheme},
		{"malformed data", Decoder{}, "data:image/png;base64", ErrMalformedDataURL},
		{"too large", Decoder{MaxBytes: 10}, "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw), ErrTooLarge},
		{"missing file", Decoder{}, filepath.Join(t.TempDir(), "nope.png"), os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.dec.Decode(context.Background(), tt.url)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	var d Decoder
	_, err := d.Decode(context.Background(), "data:,not-an-image")
	if !errors.Is(err, image.ErrFormat) {
		t.Errorf("Decode() error = %v, want image.ErrFormat", err)
	}
}

func TestNewBitmapPremultiplies(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 6, 6))
	src.SetNRGBA(5, 5, color.NRGBA{R: 255, A: 128})
	b := NewBitmap("x", src)
	if b.Image.Rect.Min != (image.Point{}) {
		t.Errorf("bounds = %v, want origin", b.Image.Rect)
	}
	if got := b.Image.RGBAAt(0, 0); got.R != 128 || got.A != 128 {
		t.Errorf("pixel = %v, want premultiplied", got)
	}
}

func TestEncode(t *testing.T) {
	src := testImage()
	tests := []struct {
		name   string
		format Format
		decode func(*bytes.Reader) (image.Image, error)
	}{
		{"png", FormatPNG, func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) }},
		{"webp", FormatWebP, func(r *bytes.Reader) (image.Image, error) { return webp.Decode(r) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, tt.format); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			img, err := tt.decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			r1, g1, b1, a1 := img.At(3, 1).RGBA()
			r2, g2, b2, a2 := src.At(3, 1).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				t.Errorf("pixel mismatch after %s round trip", tt.name)
			}
		})
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out/a.png", "out/b.webp", "out/c.tga"} {
		path := filepath.Join(dir, name)
		if err := Save(path, testImage()); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		var d Decoder
		b, err := d.Decode(context.Background(), path)
		if err != nil {
			t.Fatalf("Decode(%s): %v", name, err)
		}
		checkBitmap(t, b)
	}

	if err := Save(filepath.Join(dir, "c.gif"), testImage()); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Save(.gif) error = %v, want ErrUnknownFormat", err)
	}
}

func encodeWith(t *testing.T, enc func(io.Writer, image.Image) error, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := enc(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		format string
		enc    func(io.Writer, image.Image) error
		exact  bool
	}{
		{"png", png.Encode, true},
		{"jpeg", func(w io.Writer, m image.Image) error { return jpeg.Encode(w, m, nil) }, false},
		{"gif", func(w io.Writer, m image.Image) error { return gif.Encode(w, m, nil) }, false},
		{"bmp", bmp.Encode, true},
		{"tiff", func(w io.Writer, m image.Image) error { return tiff.Encode(w, m, nil) }, true},
		{"webp", func(w io.Writer, m image.Image) error { return nativewebp.Encode(w, m, nil) }, true},
		{"tga", tga.Encode, true},
	}
	var d Decoder
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			raw := encodeWith(t, tt.enc, testImage())

			cfg, name, err := DecodeConfig(raw)
			if err != nil {
				t.Fatalf("DecodeConfig: %v", err)
			}
			if name != tt.format {
				t.Errorf("format = %q, want %q", name, tt.format)
			}
			if cfg.Width != 4 || cfg.Height != 2 {
				t.Errorf("config = %dx%d, want 4x2", cfg.Width, cfg.Height)
			}

			u := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(raw)
			b, err := d.Decode(context.Background(), u)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if tt.exact {
				checkBitmap(t, b)
			} else if b.Width() != 4 || b.Height() != 2 {
				t.Errorf("size = %dx%d, want 4x2", b.Width(), b.Height())
			}
		})
	}
}

// forgedPNG returns a 1x1 PNG whose header claims w x h.
func forgedPNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	raw := encodeWith(t, png.Encode, image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc after 13 data bytes
	binary.BigEndian.PutUint32(raw[16:], w)
	binary.BigEndian.PutUint32(raw[20:], h)
	binary.BigEndian.PutUint32(raw[29:], crc32.ChecksumIEEE(raw[12:29]))
	return raw
}

// forgedTGA returns a 1x1 TGA whose header claims w x h.
func forgedTGA(t *testing.T, w, h uint16) []byte {
	t.Helper()
	raw := encodeWith(t, tga.Encode, image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	binary.LittleEndian.PutUint16(raw[12:], w)
	binary.LittleEndian.PutUint16(raw[14:], h)
	return raw
}

func TestDecodePixelLimit(t *testing.T) {
	tests := []struct {
		name string
		dec  Decoder
		data []byte
	}{
		{"forged png header", Decoder{}, forgedPNG(t, 65535, 65535)},
		{"forged tga header", Decoder{}, forgedTGA(t, 65535, 65535)},
		{"explicit limit", Decoder{MaxPixels: 4}, pngBytes(t)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := "data:;base64," + base64.StdEncoding.EncodeToString(tt.data)
			_, err := tt.dec.Decode(context.Background(), u)
			if !errors.Is(err, ErrTooManyPixels) {
				t.Errorf("Decode() error = %v, want ErrTooManyPixels", err)
			}
		})
	}
}

func TestShortenKeepsRunes(t *testing.T) {
	s := strings.Repeat("a", 63) + "ééé"
	got := shorten(s)
	if !utf8.ValidString(got) {
		t.Errorf("shorten() = %q, not valid UTF-8", got)
	}
	if want := strings.Repeat("a", 63) + "..."; got != want {
		t.Errorf("shorten() = %q, want %q", got, want)
	}
	if got := shorten("short"); got != "short" {
		t.Errorf("shorten(short) = %q", got)
	}
}
