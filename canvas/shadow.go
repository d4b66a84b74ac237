package canvas

import (
	"image"
	"math"
)

// gaussianKernel returns a normalized 1D kernel for sigma. The kernel spans
// three standard deviations on each side.
func gaussianKernel(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1}
	}
	half := int(math.Ceil(sigma * 3))
	k := make([]float32, 2*half+1)
	twoSigmaSq := 2 * sigma * sigma
	var sum float64
	for i := range k {
		x := float64(i - half)
		v := math.Exp(-(x * x) / twoSigmaSq)
		k[i] = float32(v)
		sum += v
	}
	inv := float32(1 / sum)
	for i := range k {
		k[i] *= inv
	}
	return k
}

// shadowMask builds the shadow coverage for the painted area r of mask.
// The result is positioned in device space, already offset and blurred.
// Blur follows the canvas convention where sigma is half the blur value.
func shadowMask(mask *image.Alpha, r image.Rectangle, sh Shadow) *image.Alpha {
	kernel := gaussianKernel(sh.Blur / 2)
	half := len(kernel) / 2
	dx := int(math.Round(sh.OffsetX))
	dy := int(math.Round(sh.OffsetY))

	out := r.Add(image.Pt(dx, dy)).Inset(-half)
	w, h := out.Dx(), out.Dy()
	src := make([]float32, w*h)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		mi := mask.PixOffset(r.Min.X, y)
		row := (y + dy - out.Min.Y) * w
		for x := r.Min.X; x < r.Max.X; x, mi = x+1, mi+1 {
			src[row+x+dx-out.Min.X] = float32(mask.Pix[mi]) / 255
		}
	}

	if half > 0 {
		tmp := make([]float32, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				var sum float32
				for k, kv := range kernel {
					if kx := x + k - half; kx >= 0 && kx < w {
						sum += src[y*w+kx] * kv
					}
				}
				tmp[y*w+x] = sum
			}
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				var sum float32
				for k, kv := range kernel {
					if ky := y + k - half; ky >= 0 && ky < h {
						sum += tmp[ky*w+x] * kv
					}
				}
				src[y*w+x] = sum
			}
		}
	}

	dst := image.NewAlpha(out)
	for i, v := range src {
		dst.Pix[i] = uint8(min(max(v*255+0.5, 0), 255))
	}
	return dst
}
