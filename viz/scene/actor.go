package scene

import (
	"fmt"
)

// Representation is how an actor's polygons are drawn.
type Representation int

const (
	AsPoints Representation = iota
	AsWireframe
	AsSurface

	// AsSurfaceWithEdges isn't a Property representation.  See
	// Property.SetMode.
	AsSurfaceWithEdges
)

// Representations lists the modes with their display titles.
var Representations = []struct {
	Title string         `json:"title"`
	Value Representation `json:"value"`
}{
	{"Points", AsPoints},
	{"Wireframe", AsWireframe},
	{"Surface", AsSurface},
	{"Surface With Edges", AsSurfaceWithEdges},
}

// Property is an actor's appearance.
type Property struct {
	Representation Representation `json:"representation"`
	Opacity        float64        `json:"opacity"`
	PointSize      float64        `json:"pointSize"`
	LineWidth      float64        `json:"lineWidth"`
	EdgeVisibility bool           `json:"edgeVisibility"`
	Color          Vec3           `json:"color"`
	EdgeColor      Vec3           `json:"edgeColor"`
}

func NewProperty() *Property {
	return &Property{
		Representation: AsSurface,
		Opacity:        1,
		PointSize:      1,
		LineWidth:      1,
		Color:          Vec3{1, 1, 1},
	}
}

// SetMode applies a mode including AsSurfaceWithEdges.
func (p *Property) SetMode(mode Representation) {
	p.PointSize = 1
	p.EdgeVisibility = false
	switch mode {
	case AsPoints:
		p.Representation = AsPoints
		p.PointSize = 5
	case AsWireframe:
		p.Representation = AsWireframe
	case AsSurfaceWithEdges:
		p.Representation = AsSurface
		p.EdgeVisibility = true
	default:
		p.Representation = AsSurface
	}
}

// ScalarMode says which array colors a mapper's output.
type ScalarMode int

const (
	// ScalarModeDefault colors by the named point array if any.
	ScalarModeDefault ScalarMode = iota
	UsePointFieldData
	UseCellFieldData
)

// Mapper turns a source's output into colored geometry.
type Mapper struct {
	Input PolySource

	ColorBy          string
	ScalarMode       ScalarMode
	ScalarVisibility bool
	LookupTable      *LookupTable
}

func NewMapper(input PolySource) *Mapper {
	return &Mapper{
		Input:       input,
		LookupTable: NewLookupTable(),
	}
}

// ColorByArray selects the array and sets the table's range.
func (m *Mapper) ColorByArray(info ArrayInfo) {
	m.ColorBy = info.Name
	if info.Association == Cells {
		m.ScalarMode = UseCellFieldData
	} else {
		m.ScalarMode = UsePointFieldData
	}
	m.ScalarVisibility = true
	m.LookupTable.Range = info.Range
}

// Geometry is a mapper's output ready for drawing.
//
// Points are flattened x, y, z.  Polys are flattened as (count,
// indexes...) per polygon.  Colors, if present, are flattened 8-bit
// RGB per point or per cell (see ColorMode).
type Geometry struct {
	Points    []float32 `json:"points"`
	Polys     []int     `json:"polys"`
	Colors    []int     `json:"colors,omitempty"`
	ColorMode string    `json:"colorMode,omitempty"`
	Bounds    Bounds    `json:"bounds"`
}

// Geometry computes the mapper's output.
func (m *Mapper) Geometry() (*Geometry, *PolyData, error) {
	if m.Input == nil {
		return nil, nil, ErrNoInput
	}
	pd, err := m.Input.PolyData()
	if err != nil {
		return nil, nil, err
	}

	g := &Geometry{
		Points: make([]float32, 0, 3*len(pd.Points)),
		Polys:  make([]int, 0, 4*len(pd.Polys)),
	}
	if b := pd.Bounds(); b.Valid() {
		g.Bounds = b
	}
	for _, p := range pd.Points {
		g.Points = append(g.Points, float32(p[0]), float32(p[1]), float32(p[2]))
	}
	for _, poly := range pd.Polys {
		g.Polys = append(g.Polys, len(poly))
		g.Polys = append(g.Polys, poly...)
	}

	if m.ScalarVisibility && m.ColorBy != "" {
		assoc := Points
		if m.ScalarMode == UseCellFieldData {
			assoc = Cells
		}
		xs, have := pd.Array(m.ColorBy, assoc)
		if !have {
			return nil, nil, &UnknownArray{
				Name:        m.ColorBy,
				Association: assoc,
			}
		}
		g.ColorMode = assoc.String()
		g.Colors = make([]int, 0, 3*len(xs))
		for _, x := range xs {
			r, gr, b := m.LookupTable.RGB255(x)
			g.Colors = append(g.Colors, int(r), int(gr), int(b))
		}
	}
	return g, pd, nil
}

// Actor places a mapper's output in a scene.
type Actor struct {
	Name       string
	Mapper     *Mapper
	Property   *Property
	Visibility bool
}

func NewActor(name string, m *Mapper) *Actor {
	return &Actor{
		Name:       name,
		Mapper:     m,
		Property:   NewProperty(),
		Visibility: true,
	}
}

// Bounds are the bounds of the actor's geometry.
func (a *Actor) Bounds() (Bounds, error) {
	if a.Mapper == nil || a.Mapper.Input == nil {
		return EmptyBounds(), nil
	}
	pd, err := a.Mapper.Input.PolyData()
	if err != nil {
		return EmptyBounds(), err
	}
	return pd.Bounds(), nil
}

// CubeAxes draws labeled axes around bounds.
type CubeAxes struct {
	Bounds      Bounds
	Visibility  bool
	LabelFormat string
	Ticks       int
}

func NewCubeAxes(b Bounds) *CubeAxes {
	return &CubeAxes{
		Bounds:      b,
		Visibility:  true,
		LabelFormat: "%6.1f",
		Ticks:       5,
	}
}

// Axis is one axis's tick values and labels.
type Axis struct {
	Title  string    `json:"title"`
	Values []float64 `json:"values"`
	Labels []string  `json:"labels"`
}

// Axes computes the three axes' ticks.
func (c *CubeAxes) Axes() []Axis {
	n := c.Ticks
	if n < 2 {
		n = 2
	}
	acc := make([]Axis, 3)
	for i, title := range []string{"X Axis", "Y Axis", "Z Axis"} {
		lo, hi := c.Bounds[2*i], c.Bounds[2*i+1]
		ax := Axis{
			Title:  title,
			Values: make([]float64, n),
			Labels: make([]string, n),
		}
		for t := 0; t < n; t++ {
			v := lo + float64(t)*(hi-lo)/float64(n-1)
			ax.Values[t] = v
			ax.Labels[t] = fmt.Sprintf(c.LabelFormat, v)
		}
		acc[i] = ax
	}
	return acc
}
