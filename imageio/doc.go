// Package imageio loads texture bitmaps and writes rendered images.
//
// A [Decoder] fetches a URL (local path, file://, data: or http(s)://) and
// decodes it into a [Bitmap] holding premultiplied RGBA pixels. Supported
// input formats are PNG, JPEG, GIF, BMP, TIFF, WebP and TGA. [Encode] and
// [Save] write PNG, WebP or TGA. Dimensions are checked against
// [Decoder.MaxPixels] before pixels are decoded.
package imageio
