package scene

// SurfaceFilter extracts a volume's boundary as quads.
//
// Boundary points keep their point array values, and each quad gets
// the cell array values of the voxel it bounds.
type SurfaceFilter struct {
	Input VolumeSource
}

func NewSurfaceFilter(input VolumeSource) *SurfaceFilter {
	return &SurfaceFilter{
		Input: input,
	}
}

func (s *SurfaceFilter) PolyData() (*PolyData, error) {
	if s.Input == nil {
		return nil, ErrNoInput
	}
	im, err := s.Input.Volume()
	if err != nil {
		return nil, err
	}
	pd := NewPolyData()
	if im.NumCells() == 0 {
		return pd, nil
	}

	ids := make(map[int]int, 6*im.Dims[0]*im.Dims[1])
	point := func(i, j, k int) int {
		idx := im.Index(i, j, k)
		if n, have := ids[idx]; have {
			return n
		}
		n := len(pd.Points)
		ids[idx] = n
		pd.Points = append(pd.Points, im.Point(i, j, k))
		for name, xs := range im.PointData {
			pd.PointData[name] = append(pd.PointData[name], xs[idx])
		}
		return n
	}
	quad := func(cell int, a, b, c, d [3]int) {
		pd.Polys = append(pd.Polys, []int{
			point(a[0], a[1], a[2]),
			point(b[0], b[1], b[2]),
			point(c[0], c[1], c[2]),
			point(d[0], d[1], d[2]),
		})
		for name, xs := range im.CellData {
			pd.CellData[name] = append(pd.CellData[name], xs[cell])
		}
	}

	nx, ny, nz := im.Dims[0]-1, im.Dims[1]-1, im.Dims[2]-1

	// Faces normal to x.
	for _, i := range []int{0, nx} {
		ci := i
		if i == nx {
			ci = nx - 1
		}
		for k := 0; k < nz; k++ {
			for j := 0; j < ny; j++ {
				quad(im.CellIndex(ci, j, k),
					[3]int{i, j, k}, [3]int{i, j + 1, k}, [3]int{i, j + 1, k + 1}, [3]int{i, j, k + 1})
			}
		}
	}
	// Faces normal to y.
	for _, j := range []int{0, ny} {
		cj := j
		if j == ny {
			cj = ny - 1
		}
		for k := 0; k < nz; k++ {
			for i := 0; i < nx; i++ {
				quad(im.CellIndex(i, cj, k),
					[3]int{i, j, k}, [3]int{i, j, k + 1}, [3]int{i + 1, j, k + 1}, [3]int{i + 1, j, k})
			}
		}
	}
	// Faces normal to z.
	for _, k := range []int{0, nz} {
		ck := k
		if k == nz {
			ck = nz - 1
		}
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				quad(im.CellIndex(i, j, ck),
					[3]int{i, j, k}, [3]int{i + 1, j, k}, [3]int{i + 1, j + 1, k}, [3]int{i, j + 1, k})
			}
		}
	}

	return pd, nil
}
