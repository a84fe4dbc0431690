package scene

import (
	"math"
	"sync"
)

// PolySource produces polygonal data.
type PolySource interface {
	PolyData() (*PolyData, error)
}

// VolumeSource produces a volume.
type VolumeSource interface {
	Volume() (*ImageData, error)
}

// ConeSource makes a (capped) cone.
//
// The cone's axis points along Direction.  A Resolution outside
// [MinConeResolution, MaxConeResolution] is clamped.
type ConeSource struct {
	Resolution int
	Height     float64
	Radius     float64
	Center     Vec3
	Direction  Vec3
	Capping    bool
}

// DefaultConeResolution is the default number of facets.
const DefaultConeResolution = 6

// A cone has between MinConeResolution and MaxConeResolution facets.
const (
	MinConeResolution = 3
	MaxConeResolution = 60
)

// ClampResolution returns n limited to the cone's facet range and
// whether n was already in range.
func ClampResolution(n int) (int, bool) {
	switch {
	case n < MinConeResolution:
		return MinConeResolution, false
	case MaxConeResolution < n:
		return MaxConeResolution, false
	}
	return n, true
}

func NewConeSource() *ConeSource {
	return &ConeSource{
		Resolution: DefaultConeResolution,
		Height:     1,
		Radius:     0.5,
		Direction:  Vec3{1, 0, 0},
		Capping:    true,
	}
}

func (c *ConeSource) PolyData() (*PolyData, error) {
	res, _ := ClampResolution(c.Resolution)
	h := c.Height / 2

	pd := NewPolyData()
	pd.Points = make([]Vec3, 0, res+1)
	pd.Points = append(pd.Points, Vec3{h, 0, 0})
	for i := 0; i < res; i++ {
		a := 2 * math.Pi * float64(i) / float64(res)
		pd.Points = append(pd.Points, Vec3{-h, c.Radius * math.Cos(a), c.Radius * math.Sin(a)})
	}

	for i := 0; i < res; i++ {
		pd.Polys = append(pd.Polys, []int{0, 1 + i, 1 + (i+1)%res})
	}
	if c.Capping {
		base := make([]int, res)
		for i := range base {
			base[i] = res - i
		}
		pd.Polys = append(pd.Polys, base)
	}

	rot := rotation(Vec3{1, 0, 0}, c.Direction)
	for i, p := range pd.Points {
		pd.Points[i] = rot(p).Add(c.Center)
	}
	return pd, nil
}

// rotation returns a function that rotates from to to (both
// directions, which needn't be unit vectors).
func rotation(from, to Vec3) func(Vec3) Vec3 {
	f, t := from.Unit(), to.Unit()
	if t == (Vec3{}) {
		return func(p Vec3) Vec3 { return p }
	}
	cos := f.Dot(t)
	axis := f.Cross(t)
	sin := axis.Norm()
	if sin < 1e-12 {
		if 0 < cos {
			return func(p Vec3) Vec3 { return p }
		}
		// Half turn about any axis perpendicular to from.
		perp := f.Cross(Vec3{0, 0, 1})
		if perp.Norm() < 1e-12 {
			perp = f.Cross(Vec3{0, 1, 0})
		}
		axis, sin, cos = perp.Unit(), 0, -1
	} else {
		axis = axis.Scale(1 / sin)
	}
	// Rodrigues
	return func(p Vec3) Vec3 {
		return p.Scale(cos).
			Add(axis.Cross(p).Scale(sin)).
			Add(axis.Scale(axis.Dot(p) * (1 - cos)))
	}
}

// WaveletSource makes a volume with a point array "RTData" (a
// Gaussian plus sinusoids), a point array "Radius" (distance from the
// center), and a cell array "Octant".
type WaveletSource struct {
	// Extent is the half-width in points (so the volume has
	// 2*Extent+1 points along each axis).
	Extent int

	Center            Vec3
	Maximum           float64
	Frequency         Vec3
	Magnitude         Vec3
	StandardDeviation float64

	once sync.Once
	vol  *ImageData
}

func NewWaveletSource() *WaveletSource {
	return &WaveletSource{
		Extent:            10,
		Maximum:           255,
		Frequency:         Vec3{60, 30, 40},
		Magnitude:         Vec3{10, 18, 5},
		StandardDeviation: 0.5,
	}
}

// Volume computes the volume once.  Later changes to the source's
// parameters aren't observed.
func (w *WaveletSource) Volume() (*ImageData, error) {
	w.once.Do(func() {
		w.vol = w.compute()
	})
	return w.vol, nil
}

func (w *WaveletSource) compute() *ImageData {
	n := 2*w.Extent + 1
	e := float64(w.Extent)
	im := NewImageData([3]int{n, n, n}, Vec3{-e, -e, -e}, Vec3{1, 1, 1})

	scale := 1.0
	if 0 < w.Extent {
		scale = 1 / (2 * e)
	}
	denom := 2 * w.StandardDeviation * w.StandardDeviation

	rt := make([]float64, im.NumPoints())
	radius := make([]float64, im.NumPoints())
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				p := im.Point(i, j, k)
				d := w.Center.Sub(p).Scale(scale)
				sum := d.Dot(d)
				idx := im.Index(i, j, k)
				rt[idx] = w.Maximum*math.Exp(-sum/denom) +
					w.Magnitude[0]*math.Sin(w.Frequency[0]*d[0]) +
					w.Magnitude[1]*math.Sin(w.Frequency[1]*d[1]) +
					w.Magnitude[2]*math.Cos(w.Frequency[2]*d[2])
				radius[idx] = p.Sub(w.Center).Norm()
			}
		}
	}
	im.PointData["RTData"] = rt
	im.PointData["Radius"] = radius

	octant := make([]float64, im.NumCells())
	for k := 0; k < n-1; k++ {
		for j := 0; j < n-1; j++ {
			for i := 0; i < n-1; i++ {
				c := im.Point(i, j, k).Add(im.Spacing.Scale(0.5)).Sub(w.Center)
				o := 0
				for axis := 0; axis < 3; axis++ {
					if 0 < c[axis] {
						o |= 1 << uint(axis)
					}
				}
				octant[im.CellIndex(i, j, k)] = float64(o)
			}
		}
	}
	im.CellData["Octant"] = octant

	return im
}
