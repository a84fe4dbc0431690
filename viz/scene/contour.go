package scene

import (
	"errors"
)

// ErrNoInput occurs when a filter has no input.
var ErrNoInput = errors.New("no input")

// cube corners as i, j, k offsets.
var corners = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// tets split a voxel into six tetrahedra around the 0-6 diagonal.
// Neighboring voxels split their shared faces the same way, so
// surfaces have no cracks.
var tets = [6][4]int{
	{0, 1, 2, 6},
	{0, 2, 3, 6},
	{0, 3, 7, 6},
	{0, 7, 4, 6},
	{0, 4, 5, 6},
	{0, 5, 1, 6},
}

// ContourFilter extracts iso-surfaces of a point array.
//
// Other point arrays are interpolated onto the surface.  The iso
// value's array is included, too, if ComputeScalars.
type ContourFilter struct {
	Input          VolumeSource
	Array          string
	Values         []float64
	ComputeScalars bool
}

// NewContourFilter contours the array at one value.
func NewContourFilter(input VolumeSource, array string, value float64) *ContourFilter {
	return &ContourFilter{
		Input:          input,
		Array:          array,
		Values:         []float64{value},
		ComputeScalars: true,
	}
}

// SetValue sets the i-th iso value, growing Values if necessary.
func (c *ContourFilter) SetValue(i int, v float64) {
	for len(c.Values) <= i {
		c.Values = append(c.Values, v)
	}
	c.Values[i] = v
}

func (c *ContourFilter) PolyData() (*PolyData, error) {
	if c.Input == nil {
		return nil, ErrNoInput
	}
	im, err := c.Input.Volume()
	if err != nil {
		return nil, err
	}
	scalars, have := im.PointData[c.Array]
	if !have {
		return nil, &UnknownArray{
			Name:        c.Array,
			Association: Points,
		}
	}

	pd := NewPolyData()
	for name := range im.PointData {
		if name == c.Array && !c.ComputeScalars {
			continue
		}
		pd.PointData[name] = nil
	}

	for _, iso := range c.Values {
		c.contour(im, scalars, iso, pd)
	}
	return pd, nil
}

// contour adds the surface at one value to pd.
func (c *ContourFilter) contour(im *ImageData, scalars []float64, iso float64, pd *PolyData) {
	// Intersection points are shared by the edges' endpoints.
	edges := make(map[[2]int]int, 1024)

	vertex := func(a, b int) int {
		if b < a {
			a, b = b, a
		}
		key := [2]int{a, b}
		if i, have := edges[key]; have {
			return i
		}
		sa, sb := scalars[a], scalars[b]
		t := 0.5
		if sa != sb {
			t = (iso - sa) / (sb - sa)
		}
		pa := im.Point(unindex(im, a))
		pb := im.Point(unindex(im, b))
		i := len(pd.Points)
		pd.Points = append(pd.Points, pa.Lerp(pb, t))
		for name := range pd.PointData {
			xs := im.PointData[name]
			pd.PointData[name] = append(pd.PointData[name], xs[a]+t*(xs[b]-xs[a]))
		}
		edges[key] = i
		return i
	}

	nx, ny, nz := im.Dims[0], im.Dims[1], im.Dims[2]
	var ids [8]int
	for k := 0; k < nz-1; k++ {
		for j := 0; j < ny-1; j++ {
			for i := 0; i < nx-1; i++ {
				above, below := 0, 0
				for n, o := range corners {
					ids[n] = im.Index(i+o[0], j+o[1], k+o[2])
					if iso <= scalars[ids[n]] {
						above++
					} else {
						below++
					}
				}
				if above == 0 || below == 0 {
					continue
				}
				for _, tet := range tets {
					c.tet(scalars, iso, [4]int{ids[tet[0]], ids[tet[1]], ids[tet[2]], ids[tet[3]]}, vertex, pd)
				}
			}
		}
	}
}

// tet adds the surface crossing one tetrahedron.
func (c *ContourFilter) tet(scalars []float64, iso float64, v [4]int, vertex func(a, b int) int, pd *PolyData) {
	var in, out []int
	for _, p := range v {
		if iso <= scalars[p] {
			in = append(in, p)
		} else {
			out = append(out, p)
		}
	}
	switch len(in) {
	case 1:
		pd.Polys = append(pd.Polys, []int{
			vertex(in[0], out[0]),
			vertex(in[0], out[1]),
			vertex(in[0], out[2]),
		})
	case 3:
		pd.Polys = append(pd.Polys, []int{
			vertex(out[0], in[0]),
			vertex(out[0], in[2]),
			vertex(out[0], in[1]),
		})
	case 2:
		a := vertex(in[0], out[0])
		b := vertex(in[0], out[1])
		d := vertex(in[1], out[0])
		e := vertex(in[1], out[1])
		pd.Polys = append(pd.Polys, []int{a, b, e}, []int{a, e, d})
	}
}

func unindex(im *ImageData, idx int) (int, int, int) {
	i := idx % im.Dims[0]
	idx /= im.Dims[0]
	j := idx % im.Dims[1]
	k := idx / im.Dims[1]
	return i, j, k
}
