// Package plotly builds plotly.js figures.
package plotly

import (
	"github.com/Comcast/vizcrew/dataset"
	"github.com/Comcast/vizcrew/widget"
)

// Trace is one plotly.js trace.
type Trace map[string]interface{}

// Figure is data plus layout.
type Figure struct {
	Data   []Trace                `json:"data"`
	Layout map[string]interface{} `json:"layout"`
}

func NewFigure(traces ...Trace) *Figure {
	if traces == nil {
		traces = []Trace{}
	}
	return &Figure{
		Data:   traces,
		Layout: make(map[string]interface{}, 4),
	}
}

// Titled sets layout.title.text.
func (f *Figure) Titled(title string) *Figure {
	f.Layout["title"] = map[string]interface{}{
		"text": title,
	}
	return f
}

// Set sets a layout property.
func (f *Figure) Set(prop string, val interface{}) *Figure {
	f.Layout[prop] = val
	return f
}

// Margin sets the layout's margins.
func (f *Figure) Margin(l, r, t, b int) *Figure {
	return f.Set("margin", map[string]int{"l": l, "r": r, "t": t, "b": b})
}

// Add appends traces.
func (f *Figure) Add(ts ...Trace) *Figure {
	f.Data = append(f.Data, ts...)
	return f
}

// Artifact wraps the figure for a View.
func (f *Figure) Artifact() *widget.Artifact {
	return widget.NewArtifact(widget.KindPlotly, f)
}

// Contour is a contour trace over a grid of z values.
func Contour(z [][]float64) Trace {
	return Trace{
		"type": "contour",
		"z":    z,
	}
}

func Bar(x, y interface{}) Trace {
	return Trace{
		"type": "bar",
		"x":    x,
		"y":    y,
	}
}

// Lines is a scatter trace drawn with lines.
func Lines(name string, x, y interface{}) Trace {
	return Trace{
		"type": "scatter",
		"mode": "lines",
		"name": name,
		"x":    x,
		"y":    y,
	}
}

// Polar is a scatterpolar trace drawn with lines.
func Polar(name string, r, theta interface{}, color string) Trace {
	return Trace{
		"type":  "scatterpolar",
		"mode":  "lines",
		"name":  name,
		"r":     r,
		"theta": theta,
		"line":  map[string]interface{}{"color": color},
	}
}

// Symbols are the marker symbols assigned to groups in order.
var Symbols = []string{"circle", "diamond", "square", "x", "cross"}

// Colors are the discrete colors assigned to groups in order.
var Colors = []string{"#636efa", "#EF553B", "#00cc96", "#ab63fa", "#FFA15A", "#19d3f3"}

// Scatter3D makes one 3-D scatter trace per value of the symbol
// column.  Marker color follows the (numeric) color column.
func Scatter3D(f *dataset.Frame, x, y, z, color, symbol string) *Figure {
	fig := NewFigure()
	lo, hi, _ := f.Extent(color)
	for i, g := range f.GroupCount(symbol) {
		sub := f.Filter(func(r dataset.Row) bool {
			return r[symbol] == g.Value
		})
		fig.Add(Trace{
			"type":        "scatter3d",
			"mode":        "markers",
			"name":        g.Value,
			"legendgroup": g.Value,
			"x":           sub.Floats(x),
			"y":           sub.Floats(y),
			"z":           sub.Floats(z),
			"marker": map[string]interface{}{
				"symbol":    Symbols[i%len(Symbols)],
				"color":     sub.Floats(color),
				"coloraxis": "coloraxis",
			},
		})
	}
	fig.Set("coloraxis", map[string]interface{}{
		"cmin":     lo,
		"cmax":     hi,
		"colorbar": map[string]interface{}{"title": map[string]string{"text": color}},
	})
	fig.Set("scene", map[string]interface{}{
		"xaxis": map[string]string{"title": x},
		"yaxis": map[string]string{"title": y},
		"zaxis": map[string]string{"title": z},
	})
	return fig
}

// ScatterMatrix makes one splom trace per value of the color column.
func ScatterMatrix(f *dataset.Frame, dims []string, color string) *Figure {
	fig := NewFigure()
	for i, g := range f.GroupCount(color) {
		sub := f.Filter(func(r dataset.Row) bool {
			return r[color] == g.Value
		})
		ds := make([]map[string]interface{}, len(dims))
		for j, d := range dims {
			ds[j] = map[string]interface{}{
				"label":  d,
				"values": sub.Floats(d),
			}
		}
		fig.Add(Trace{
			"type":        "splom",
			"name":        g.Value,
			"legendgroup": g.Value,
			"dimensions":  ds,
			"diagonal":    map[string]bool{"visible": false},
			"marker": map[string]interface{}{
				"color": Colors[i%len(Colors)],
			},
		})
	}
	fig.Set("dragmode", "select")
	return fig
}

// Ternary is a filled scatterternary outline.  The outline is closed
// by repeating its first point.
func Ternary(name string, a, b, c []float64, fill string) Trace {
	if 0 < len(a) && 0 < len(b) && 0 < len(c) {
		a = append(a[:len(a):len(a)], a[0])
		b = append(b[:len(b):len(b)], b[0])
		c = append(c[:len(c):len(c)], c[0])
	}
	return Trace{
		"type":      "scatterternary",
		"mode":      "lines",
		"text":      name,
		"a":         a,
		"b":         b,
		"c":         c,
		"line":      map[string]interface{}{"color": "#444", "shape": "spline"},
		"fill":      "toself",
		"fillcolor": fill,
	}
}

// Selectable is a marker scatter whose selected points are red and
// whose other points are faded.
func Selectable(x, y []float64, selected []int) Trace {
	if selected == nil {
		selected = []int{}
	}
	return Trace{
		"type":           "scatter",
		"mode":           "markers",
		"x":              x,
		"y":              y,
		"selectedpoints": selected,
		"selected":       map[string]interface{}{"marker": map[string]string{"color": "red"}},
		"unselected":     map[string]interface{}{"marker": map[string]float64{"opacity": 0.5}},
	}
}
