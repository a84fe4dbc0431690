package figure

import (
	"math"

	"github.com/go-viper/mapstructure/v2"
)

// Defaults for a figure whose container size isn't known yet.
var (
	DefaultWidth  = 640
	DefaultHeight = 480
	DefaultDPI    = 100.0
)

// Limits on what a client can ask for.
var (
	MaxPixels = 4096
	MaxDPI    = 600.0
)

// Rect is a client element's size in CSS pixels.
type Rect struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

// Size is what a size observer reports about a figure's container:
//
//	{"size": {"width": 800, "height": 600}, "dpi": 96, "pixelRatio": 2}
type Size struct {
	Size       Rect    `mapstructure:"size"`
	DPI        float64 `mapstructure:"dpi"`
	PixelRatio float64 `mapstructure:"pixelRatio"`
}

// DecodeSize reads a Size from a state value (usually a
// map[string]interface{}).  A nil value gives a nil Size.
func DecodeSize(x interface{}) (*Size, error) {
	if x == nil {
		return nil, nil
	}
	var s Size
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return nil, err
	}
	if err := d.Decode(x); err != nil {
		return nil, err
	}
	return &s, nil
}

// ratio returns the device pixel ratio, which is 1 or 2.
func (s *Size) ratio() float64 {
	if 1 < s.PixelRatio {
		return 2
	}
	return 1
}

// Pixels returns the figure's width and height in pixels and its DPI.
//
// A figure is w/(ratio*dpi) inches wide at dpi, which is w/ratio
// pixels.  A nil or degenerate Size gives the defaults.  Each
// dimension is at most MaxPixels, and the DPI at most MaxDPI.
func (s *Size) Pixels() (int, int, float64) {
	if s == nil || !positive(s.Size.Width) || !positive(s.Size.Height) {
		return DefaultWidth, DefaultHeight, DefaultDPI
	}
	dpi := s.DPI
	if !positive(dpi) {
		dpi = DefaultDPI
	}
	dpi = math.Min(dpi, MaxDPI)
	r := s.ratio()
	return pixels(s.Size.Width / r), pixels(s.Size.Height / r), dpi
}

func positive(x float64) bool {
	return 0 < x && !math.IsInf(x, 1)
}

func pixels(x float64) int {
	n := int(math.Round(math.Min(x, float64(MaxPixels))))
	if n < 1 {
		return 1
	}
	return n
}
