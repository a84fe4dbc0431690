package scene

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Preset names a lookup table configuration.
type Preset int

const (
	Rainbow Preset = iota
	InvRainbow
	Greyscale
	InvGreyscale
)

// Presets lists the presets with their display titles.
var Presets = []struct {
	Title string `json:"title"`
	Value Preset `json:"value"`
}{
	{"Rainbow", Rainbow},
	{"Inv Rainbow", InvRainbow},
	{"Greyscale", Greyscale},
	{"Inv Greyscale", InvGreyscale},
}

// DefaultTableSize is the number of colors in a built table.
const DefaultTableSize = 256

// LookupTable maps scalars to colors by interpolating hue,
// saturation, and value (each in [0,1]) across Range.
type LookupTable struct {
	HueRange        [2]float64
	SaturationRange [2]float64
	ValueRange      [2]float64
	Range           [2]float64
	Size            int

	table []colorful.Color
}

// NewLookupTable makes a Rainbow table over [0,1].
func NewLookupTable() *LookupTable {
	lut := &LookupTable{
		Range: [2]float64{0, 1},
		Size:  DefaultTableSize,
	}
	lut.Apply(Rainbow)
	return lut
}

// Apply configures (and rebuilds) the table for the preset.  Unknown
// presets are ignored.
func (l *LookupTable) Apply(p Preset) {
	switch p {
	case Rainbow:
		l.HueRange = [2]float64{0.666, 0}
		l.SaturationRange = [2]float64{1, 1}
		l.ValueRange = [2]float64{1, 1}
	case InvRainbow:
		l.HueRange = [2]float64{0, 0.666}
		l.SaturationRange = [2]float64{1, 1}
		l.ValueRange = [2]float64{1, 1}
	case Greyscale:
		l.HueRange = [2]float64{0, 0}
		l.SaturationRange = [2]float64{0, 0}
		l.ValueRange = [2]float64{0, 1}
	case InvGreyscale:
		l.HueRange = [2]float64{0, 0}
		l.SaturationRange = [2]float64{0, 0}
		l.ValueRange = [2]float64{1, 0}
	default:
		return
	}
	l.Build()
}

// Build computes the table.
func (l *LookupTable) Build() {
	n := l.Size
	if n < 2 {
		n = DefaultTableSize
	}
	l.table = make([]colorful.Color, n)
	for i := range l.table {
		t := float64(i) / float64(n-1)
		h := lerp(l.HueRange, t)
		s := lerp(l.SaturationRange, t)
		v := lerp(l.ValueRange, t)
		l.table[i] = colorful.Hsv(math.Mod(h*360, 360), s, v)
	}
}

func lerp(r [2]float64, t float64) float64 {
	return r[0] + t*(r[1]-r[0])
}

// Map returns the color for the scalar.  Values outside Range are
// clamped.
func (l *LookupTable) Map(x float64) colorful.Color {
	if l.table == nil {
		l.Build()
	}
	n := len(l.table)
	lo, hi := l.Range[0], l.Range[1]
	var i int
	switch {
	case math.IsNaN(x) || x <= lo:
		i = 0
	case hi <= x:
		i = n - 1
	default:
		i = int((x - lo) / (hi - lo) * float64(n))
		if n <= i {
			i = n - 1
		}
	}
	return l.table[i]
}

// RGB255 maps the scalar to 8-bit RGB.
func (l *LookupTable) RGB255(x float64) (uint8, uint8, uint8) {
	return l.Map(x).Clamped().RGB255()
}
