// Package figures renders a few classic line and scatter charts as
// server-side images sized to their container.
package figures

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/viz/figure"
	"github.com/Comcast/vizcrew/widget"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	FigureKey  = "active_figure"
	SizeKey    = "figure_size"
	FigureView = "figure"
)

// Method is a selector value naming a plotting method.
type Method string

const (
	FirstDemoMethod           Method = "FirstDemo"
	SubplotsMethod            Method = "Subplots"
	MultiLinesMethod          Method = "MultiLines"
	DotsAndPointsMethod       Method = "DotsAndPoints"
	MovingWindowAverageMethod Method = "MovingWindowAverage"
)

// Option is a selectable figure.
type Option struct {
	Title string `json:"title"`
	Value Method `json:"value"`
}

var Options = []Option{
	{"First Demo", FirstDemoMethod},
	{"Subplots", SubplotsMethod},
	{"Multi Lines", MultiLinesMethod},
	{"Dots and Points", DotsAndPointsMethod},
	{"Moving Window Average", MovingWindowAverageMethod},
}

// Figures maps selector values to figure builders.
var Figures = map[Method]func(*figure.Size) *figure.Figure{
	FirstDemoMethod:           FirstDemo,
	SubplotsMethod:            Subplots,
	MultiLinesMethod:          MultiLines,
	DotsAndPointsMethod:       DotsAndPoints,
	MovingWindowAverageMethod: MovingWindowAverage,
}

// cycle is the default line color cycle.
var cycle = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b", "#e377c2"}

func normals(r *rand.Rand, n int, scale float64) []float64 {
	acc := make([]float64, n)
	for i := range acc {
		acc[i] = scale * r.NormFloat64()
	}
	return acc
}

func uniforms(r *rand.Rand, n int) []float64 {
	acc := make([]float64, n)
	for i := range acc {
		acc[i] = r.Float64()
	}
	return acc
}

func FirstDemo(size *figure.Size) *figure.Figure {
	r := rand.New(rand.NewSource(0))
	f := figure.New(size)
	p := f.Plot()
	p.Add(
		figure.Dots("red", normals(r, 100, 1), normals(r, 100, 1), figure.Hex("#ff0000", 0.3), 5),
		figure.Dots("blue", normals(r, 100, 1), normals(r, 100, 1), figure.Hex("#0000ff", 0.1), 10),
	)
	p.XLabel = "this is x"
	p.YLabel = "this is y"
	p.Title = "A Plot Rendered on the Server"
	p.Grid = true
	return f
}

func MultiLines(size *figure.Size) *figure.Figure {
	f := figure.New(size)
	p := f.Plot()
	xs := figure.Linspace(0, 10, 1000)
	for i, offset := range figure.Linspace(0, 3, 7) {
		ys := make([]float64, len(xs))
		for j, x := range xs {
			ys[j] = 0.9 * math.Sin(x-offset)
		}
		p.Add(figure.Line("", xs, ys, figure.Hex(cycle[i%len(cycle)], 0.4), 5))
	}
	p.YRange = figure.Range(-1.2, 1.0)
	p.Text(5, -1.1, "Here are some curves", 18)
	p.Grid = true
	return f
}

func DotsAndPoints(size *figure.Size) *figure.Figure {
	r := rand.New(rand.NewSource(0))
	f := figure.New(size)
	p := f.Plot()
	p.Add(figure.LineDots("", figure.Indexes(20), uniforms(r, 20),
		figure.Hex("#000000", 0.5), 5,
		figure.Hex("#008000", 0.5), 10))
	p.Grid = true
	p.GridColor = figure.Hex("#EEEEEE", 1)
	p.XRange = figure.Range(-2, 22)
	p.YRange = figure.Range(-0.1, 1.1)
	return f
}

// Window is the moving average's period.
const Window = 25

func MovingWindowAverage(size *figure.Size) *figure.Figure {
	r := rand.New(rand.NewSource(0))
	ts := figure.Linspace(0, 10, 300)
	xs := make([]float64, len(ts))
	noisy := make([]float64, len(ts))
	dx := normals(r, len(ts), 0.3)
	for i, t := range ts {
		xs[i] = math.Sin(t)
		noisy[i] = xs[i] + dx[i]
	}

	f := figure.New(size)
	points := figure.Dots("noisy", ts, noisy, figure.Hex("#000000", 0.3), 1.5)
	f.Plot().Add(
		points,
		figure.MovingAverage("smooth", points, Window, figure.Hex("#000000", 1), 3),
		figure.Dashed("sin", ts, xs, figure.Hex("#0000ff", 1), 3),
	)
	return f
}

func Subplots(size *figure.Size) *figure.Figure {
	r := rand.New(rand.NewSource(0))
	f := figure.New(size)
	for _, p := range f.Subplots(2, 2) {
		c := colorful.Color{R: r.Float64(), G: r.Float64(), B: r.Float64()}
		p.Add(figure.Line("", figure.Indexes(30), uniforms(r, 30), figure.Color(c, 1), 2))
		p.Title = fmt.Sprintf("RGB = (%.2f, %.2f, %.2f)", c.R, c.G, c.B)
		p.Grid = true
	}
	return f
}

// UnknownFigure reports a selection that isn't in Figures.
type UnknownFigure struct {
	Name Method
}

func (e *UnknownFigure) Error() string {
	return fmt.Sprintf("plotting method %q not found", string(e.Name))
}

// Render builds and renders the method's figure at the size.
func Render(m Method, size *figure.Size) (*widget.Artifact, error) {
	mk, have := Figures[m]
	if !have {
		return nil, &UnknownFigure{
			Name: m,
		}
	}
	return mk(size).Artifact()
}

// New has nothing to load.
func New(env *sio.Env) (sio.Factory, error) {
	return func() sio.App {
		return &App{}
	}, nil
}

type App struct {
	view *widget.View
}

func (a *App) Build(ctx context.Context, s *sio.Session) (*widget.Node, error) {
	st := s.Store
	st.Init(core.Bindings{
		"figures": Options,
		FigureKey: string(Options[0].Value),
		SizeKey:   nil,
	})
	a.view = s.View(FigureView, widget.KindImage)

	page := widget.SinglePage("Chart Viewer")
	page.Toolbar.Add(
		widget.Spacer(),
		widget.SelectFrom(FigureKey, "Figure", "figures").Propm(
			"itemTitle", "title",
			"itemValue", "value",
		),
	)
	// The client reports the view's container size to SizeKey.
	a.view.Node().Prop("sizeKey", SizeKey)
	page.Content.Add(widget.Container(a.view.Node()))

	if _, err := st.WatchNow(ctx, "update_chart", []string{FigureKey, SizeKey}, a.update); err != nil {
		return nil, err
	}
	return page.Node(), nil
}

func (a *App) update(ctx context.Context, st *core.Store, bs core.Bindings) error {
	name, _ := bs.String(FigureKey)
	if name == "" {
		return nil
	}
	size, err := figure.DecodeSize(bs[SizeKey])
	if err != nil {
		return err
	}
	art, err := Render(Method(name), size)
	if err != nil {
		if _, is := err.(*UnknownFigure); is {
			if err := a.view.Update(widget.Empty(widget.KindImage)); err != nil {
				return err
			}
		}
		return err
	}
	return a.view.Update(art)
}
