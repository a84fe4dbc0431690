package scene

// ExtractPoints keeps the listed points of a volume as vertices
// without polygons.  Ids that aren't points of the volume are skipped.
type ExtractPoints struct {
	Input VolumeSource
	IDs   []int
}

func NewExtractPoints(input VolumeSource) *ExtractPoints {
	return &ExtractPoints{
		Input: input,
	}
}

func (e *ExtractPoints) PolyData() (*PolyData, error) {
	if e.Input == nil {
		return nil, ErrNoInput
	}
	im, err := e.Input.Volume()
	if err != nil {
		return nil, err
	}
	pd := NewPolyData()
	nx, ny := im.Dims[0], im.Dims[1]
	for _, id := range e.IDs {
		if id < 0 || im.NumPoints() <= id {
			continue
		}
		i, j, k := id%nx, (id/nx)%ny, id/(nx*ny)
		pd.Points = append(pd.Points, im.Point(i, j, k))
		for name, xs := range im.PointData {
			pd.PointData[name] = append(pd.PointData[name], xs[id])
		}
	}
	return pd, nil
}

// FacingPoints returns, in id order, the ids of the boundary points
// that lie on a face of the volume turned toward the eye.
func FacingPoints(im *ImageData, eye Vec3) []int {
	nx, ny, nz := im.Dims[0], im.Dims[1], im.Dims[2]
	last := [3]int{nx - 1, ny - 1, nz - 1}
	var acc []int
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				ijk := [3]int{i, j, k}
				p := im.Point(i, j, k)
				for axis := 0; axis < 3; axis++ {
					var n Vec3
					switch ijk[axis] {
					case 0:
						n[axis] = -1
					case last[axis]:
						n[axis] = 1
					default:
						continue
					}
					if 0 < eye.Sub(p).Dot(n) {
						acc = append(acc, im.Index(i, j, k))
						break
					}
				}
			}
		}
	}
	return acc
}
