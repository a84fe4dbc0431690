package scene

import (
	"sort"
)

// ImageData is a structured grid of points with point arrays and
// (voxel) cell arrays.
type ImageData struct {
	Dims    [3]int
	Origin  Vec3
	Spacing Vec3

	PointData map[string][]float64
	CellData  map[string][]float64
}

// NewImageData makes an empty volume.
func NewImageData(dims [3]int, origin, spacing Vec3) *ImageData {
	return &ImageData{
		Dims:      dims,
		Origin:    origin,
		Spacing:   spacing,
		PointData: make(map[string][]float64, 2),
		CellData:  make(map[string][]float64, 2),
	}
}

func (im *ImageData) NumPoints() int {
	return im.Dims[0] * im.Dims[1] * im.Dims[2]
}

// NumCells is the number of voxels.
func (im *ImageData) NumCells() int {
	n := 1
	for _, d := range im.Dims {
		if d < 2 {
			return 0
		}
		n *= d - 1
	}
	return n
}

// Index is the point index for i, j, k.
func (im *ImageData) Index(i, j, k int) int {
	return i + im.Dims[0]*(j+im.Dims[1]*k)
}

// CellIndex is the voxel index for the voxel whose lowest corner is
// at i, j, k.
func (im *ImageData) CellIndex(i, j, k int) int {
	return i + (im.Dims[0]-1)*(j+(im.Dims[1]-1)*k)
}

// Point is the position of i, j, k.
func (im *ImageData) Point(i, j, k int) Vec3 {
	return Vec3{
		im.Origin[0] + float64(i)*im.Spacing[0],
		im.Origin[1] + float64(j)*im.Spacing[1],
		im.Origin[2] + float64(k)*im.Spacing[2],
	}
}

func (im *ImageData) Bounds() Bounds {
	return EmptyBounds().
		Include(im.Point(0, 0, 0)).
		Include(im.Point(im.Dims[0]-1, im.Dims[1]-1, im.Dims[2]-1))
}

// Arrays describes the point arrays followed by the cell arrays, each
// sorted by name.
func (im *ImageData) Arrays() []ArrayInfo {
	return arrays(im.PointData, im.CellData)
}

func arrays(points, cells map[string][]float64) []ArrayInfo {
	acc := make([]ArrayInfo, 0, len(points)+len(cells))
	for _, data := range []struct {
		m map[string][]float64
		a Association
	}{
		{points, Points},
		{cells, Cells},
	} {
		names := make([]string, 0, len(data.m))
		for name := range data.m {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			acc = append(acc, ArrayInfo{
				Name:        name,
				Association: data.a,
				Range:       Range(data.m[name]),
			})
		}
	}
	return acc
}
