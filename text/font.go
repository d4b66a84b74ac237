package text

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// Font is a parsed TrueType or OpenType font.
// Font is safe for concurrent use; create Faces from it for each size.
type Font struct {
	name   string
	outl   *sfnt.Font
	shaper *font.Font
}

// ParseFont parses TTF or OTF data. The data must not be modified afterwards.
func ParseFont(data []byte) (*Font, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	outl, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: parse font for shaping: %w", err)
	}

	var buf sfnt.Buffer
	name, err := outl.Name(&buf, sfnt.NameIDFull)
	if err != nil {
		name = ""
	}
	return &Font{name: name, outl: outl, shaper: face.Font}, nil
}

// LoadFont reads and parses a font file.
func LoadFont(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: read font: %w", err)
	}
	return ParseFont(data)
}

var (
	defaultOnce sync.Once
	defaultFont *Font
)

// DefaultFont returns the embedded Go Regular font.
func DefaultFont() *Font {
	defaultOnce.Do(func() {
		f, err := ParseFont(goregular.TTF)
		if err != nil {
			panic(err)
		}
		defaultFont = f
	})
	return defaultFont
}

// Name returns the full font name, or "" if the font has none.
func (f *Font) Name() string {
	return f.name
}
