package imageio

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gogpu/texfill/canvas"
)

const (
	// DefaultTimeout bounds a single HTTP fetch.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBytes bounds the encoded size of a fetched image.
	DefaultMaxBytes = 64 << 20
)

var (
	// ErrUnsupportedScheme is returned for URL schemes the decoder cannot fetch.
	ErrUnsupportedScheme = errors.New("imageio: unsupported URL scheme")

	// ErrTooLarge is returned when the encoded image exceeds the size limit.
	ErrTooLarge = errors.New("imageio: image exceeds size limit")

	// ErrMalformedDataURL is returned for a data: URL without a payload.
	ErrMalformedDataURL = errors.New("imageio: malformed data URL")

	// ErrTooManyPixels is returned when the decoded dimensions exceed the
	// pixel limit.
	ErrTooManyPixels = errors.New("imageio: image dimensions exceed pixel limit")
)

// Decoder fetches and decodes bitmaps. The zero value is ready to use.
// Decoder is safe for concurrent use.
type Decoder struct {
	// Client performs HTTP fetches. nil uses http.DefaultClient.
	Client *http.Client
	// Timeout bounds each HTTP fetch. Zero means DefaultTimeout.
	Timeout time.Duration
	// MaxBytes bounds the encoded size. Zero means DefaultMaxBytes.
	MaxBytes int64
	// MaxPixels bounds width*height, checked from the header before any
	// pixel memory is allocated. Zero means canvas.DefaultMaxPixels.
	MaxPixels int
	// BaseDir resolves relative local paths. Empty means the working directory.
	BaseDir string
}

// Decode fetches rawURL and decodes it.
func (d *Decoder) Decode(ctx context.Context, rawURL string) (*Bitmap, error) {
	data, err := d.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	c := sniff(data)
	cfg, err := c.config(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", shorten(rawURL), formatError(c, err))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("imageio: decode %s: empty image", shorten(rawURL))
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(d.maxPixels()) {
		return nil, fmt.Errorf("%w: %s is %dx%d", ErrTooManyPixels, shorten(rawURL), cfg.Width, cfg.Height)
	}
	img, err := c.decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s %s: %w", c.name, shorten(rawURL), err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("imageio: decode %s: empty image", shorten(rawURL))
	}
	return NewBitmap(rawURL, img), nil
}

func (d *Decoder) maxBytes() int64 {
	if d.MaxBytes > 0 {
		return d.MaxBytes
	}
	return DefaultMaxBytes
}

func (d *Decoder) maxPixels() int {
	if d.MaxPixels > 0 {
		return d.MaxPixels
	}
	return canvas.DefaultMaxPixels
}

func (d *Decoder) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	scheme, rest, ok := strings.Cut(rawURL, ":")
	if !ok || len(scheme) == 1 {
		// no scheme, or a Windows drive letter
		return d.readFile(rawURL)
	}
	switch strings.ToLower(scheme) {
	case "data":
		return d.decodeData(rest)
	case "file":
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("imageio: parse %s: %w", rawURL, err)
		}
		return d.readFile(u.Path)
	case "http", "https":
		return d.get(ctx, rawURL)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
}

func (d *Decoder) readFile(path string) ([]byte, error) {
	if !filepath.IsAbs(path) && d.BaseDir != "" {
		path = filepath.Join(d.BaseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: read %s: %w", path, err)
	}
	defer f.Close()
	return d.readLimited(f)
}

func (d *Decoder) readLimited(r io.Reader) ([]byte, error) {
	limit := d.maxBytes()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("imageio: read: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}

// decodeData handles the part of a data URL after "data:".
func (d *Decoder) decodeData(rest string) ([]byte, error) {
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, ErrMalformedDataURL
	}
	var data []byte
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		// tolerate whitespace and missing padding
		payload = strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
				return -1
			}
			return r
		}, payload)
		var err error
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		if err != nil {
			return nil, fmt.Errorf("imageio: data URL: %w", err)
		}
	} else {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("imageio: data URL: %w", err)
		}
		data = []byte(s)
	}
	if int64(len(data)) > d.maxBytes() {
		return nil, ErrTooLarge
	}
	return data, nil
}

func (d *Decoder) get(ctx context.Context, rawURL string) ([]byte, error) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("imageio: request %s: %w", rawURL, err)
	}
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imageio: get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imageio: get %s: %s", rawURL, resp.Status)
	}
	if resp.ContentLength > d.maxBytes() {
		return nil, ErrTooLarge
	}
	return d.readLimited(resp.Body)
}

// shorten keeps error messages readable for long data URLs.
func shorten(s string) string {
	const limit = 64
	if len(s) <= limit {
		return s
	}
	i := limit
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[:i] + "..."
}
