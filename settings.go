package texfill

import (
	"fmt"
	"strconv"
	"strings"
)

// Settings controls how a texture is fitted into a shape.
//
// Settings is a value type: replace it wholesale with Texture.SetSettings
// rather than mutating a shared copy. Zero scaling values mean 1 and zero
// text extents mean "not given", so the zero Settings is the default fit.
type Settings struct {
	// Scaling multiplies both dimensions when SyncRatio is set.
	Scaling float64
	// ScalingX and ScalingY are used independently when SyncRatio is unset.
	ScalingX float64
	ScalingY float64
	// SyncRatio keeps the bitmap aspect ratio by applying Scaling to both axes.
	SyncRatio bool

	// OffsetLeft and OffsetTop move the texture left and up, in shape units.
	OffsetLeft float64
	OffsetTop  float64
	// LeftPosition moves the texture right; TopPosition moves it up.
	LeftPosition float64
	TopPosition  float64

	HorizontalFlip bool
	VerticalFlip   bool
	// Rotation is in degrees, clockwise in a y-down space, about the center
	// of the fitted texture.
	Rotation float64

	// TextWidth and TextHeight, when non-zero, replace the cover fit with an
	// explicit extent.
	TextWidth  float64
	TextHeight float64
}

// DefaultSettings returns the settings of an unconfigured texture.
func DefaultSettings() Settings {
	return Settings{Scaling: 1, ScalingX: 1, ScalingY: 1}
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func (s *Settings) scaling() float64  { return orOne(s.Scaling) }
func (s *Settings) scalingX() float64 { return orOne(s.ScalingX) }
func (s *Settings) scalingY() float64 { return orOne(s.ScalingY) }

// ParseSettings builds Settings from loosely typed values such as those
// decoded from YAML or JSON. Numbers may be ints, floats or numeric strings;
// booleans may be bools or "true"/"false". Unknown keys are ignored.
func ParseSettings(m map[string]any) (Settings, error) {
	s := DefaultSettings()
	nums := map[string]*float64{
		"scaling":      &s.Scaling,
		"scalingx":     &s.ScalingX,
		"scalingy":     &s.ScalingY,
		"offsetleft":   &s.OffsetLeft,
		"offsettop":    &s.OffsetTop,
		"leftposition": &s.LeftPosition,
		"topposition":  &s.TopPosition,
		"rotation":     &s.Rotation,
		"textwidth":    &s.TextWidth,
		"textheight":   &s.TextHeight,
	}
	bools := map[string]*bool{
		"syncratio":      &s.SyncRatio,
		"horizontalflip": &s.HorizontalFlip,
		"verticalflip":   &s.VerticalFlip,
	}
	for k, v := range m {
		key := strings.ToLower(k)
		if p, ok := nums[key]; ok {
			f, err := toFloat(v)
			if err != nil {
				return Settings{}, fmt.Errorf("texfill: setting %s: %w", k, err)
			}
			*p = f
			continue
		}
		if p, ok := bools[key]; ok {
			b, err := toBool(v)
			if err != nil {
				return Settings{}, fmt.Errorf("texfill: setting %s: %w", k, err)
			}
			*p = b
		}
	}
	return s, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n)
		}
		return f, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		p, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, fmt.Errorf("not a boolean: %q", b)
		}
		return p, nil
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %v", v)
	}
}
