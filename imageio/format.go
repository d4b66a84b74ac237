package imageio

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// codec decodes one input format. A '?' in magic matches any byte.
type codec struct {
	name   string
	magic  string
	decode func(io.Reader) (image.Image, error)
	config func(io.Reader) (image.Config, error)
}

// codecs are matched by magic in order. The image package registry is not
// used because TGA registers with an empty magic that matches any input.
var codecs = []codec{
	{"png", "\x89PNG\r\n\x1a\n", png.Decode, png.DecodeConfig},
	{"jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig},
	{"gif", "GIF8?a", gif.Decode, gif.DecodeConfig},
	{"bmp", "BM????\x00\x00\x00\x00", bmp.Decode, bmp.DecodeConfig},
	{"tiff", "II*\x00", tiff.Decode, tiff.DecodeConfig},
	{"tiff", "MM\x00*", tiff.Decode, tiff.DecodeConfig},
	{"webp", "RIFF????WEBPVP8", webp.Decode, webp.DecodeConfig},
}

// tgaCodec has no magic and is tried when nothing else matches.
var tgaCodec = codec{name: "tga", decode: tga.Decode, config: tga.DecodeConfig}

func match(magic string, b []byte) bool {
	if len(b) < len(magic) {
		return false
	}
	for i := 0; i < len(magic); i++ {
		if magic[i] != '?' && magic[i] != b[i] {
			return false
		}
	}
	return true
}

// sniff picks the codec for data, falling back to TGA.
func sniff(data []byte) codec {
	for _, c := range codecs {
		if match(c.magic, data) {
			return c
		}
	}
	return tgaCodec
}

// DecodeConfig reports the format name and dimensions of encoded data
// without decoding the pixels.
func DecodeConfig(data []byte) (image.Config, string, error) {
	c := sniff(data)
	cfg, err := c.config(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, c.name, formatError(c, err)
	}
	return cfg, c.name, nil
}

// formatError maps a failed TGA fallback to image.ErrFormat, since the input
// matched no known magic.
func formatError(c codec, err error) error {
	if c.magic == "" {
		return &unknownFormatError{err: err}
	}
	return err
}

type unknownFormatError struct {
	err error
}

func (e *unknownFormatError) Error() string {
	return image.ErrFormat.Error() + " (" + e.err.Error() + ")"
}

func (e *unknownFormatError) Unwrap() []error {
	return []error{image.ErrFormat, e.err}
}
