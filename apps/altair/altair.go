// Package altair switches among a few Vega-Lite gallery charts.
package altair

import (
	"context"
	"fmt"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/viz/vega"
	"github.com/Comcast/vizcrew/widget"

	"github.com/hashicorp/go-hclog"
)

const (
	ChartKey  = "active_chart"
	ChartView = "altair_figure"
)

// Chart is a selector value.
type Chart string

const (
	ScatterMatrixChart           Chart = "ScatterMatrix"
	USIncomeByStateChart         Chart = "USIncomeByState"
	StackedDensityEstimatesChart Chart = "StackedDensityEstimates"
	StreamGraphChart             Chart = "StreamGraph"
)

// Option is a selectable chart.
type Option struct {
	Title string `json:"title"`
	Value Chart  `json:"value"`
}

// Options are offered in this order.  The first is the default.
var Options = []Option{
	{"Scatter Matrix", ScatterMatrixChart},
	{"US Income By State", USIncomeByStateChart},
	{"Stacked Density Estimates", StackedDensityEstimatesChart},
	{"StreamGraph", StreamGraphChart},
}

// UnknownChart reports a selection that isn't in Charts.
type UnknownChart struct {
	Name Chart
}

func (e *UnknownChart) Error() string {
	return fmt.Sprintf("chart %q not found", string(e.Name))
}

// Charts maps selector values to chart builders.
var Charts = map[Chart]func() *vega.Chart{
	ScatterMatrixChart:           ScatterMatrix,
	USIncomeByStateChart:         USIncomeByState,
	StackedDensityEstimatesChart: StackedDensityEstimates,
	StreamGraphChart:             StreamGraph,
}

func ScatterMatrix() *vega.Chart {
	return vega.New().
		URL(vega.Dataset("cars.json")).
		MarkType("circle").
		Encode("x", vega.Repeated("column", "quantitative")).
		Encode("y", vega.Repeated("row", "quantitative")).
		Encode("color", vega.F("Origin:N")).
		Size(200, 200).
		Interactive().
		Repeated(&vega.Repeat{
			Row:    []string{"Horsepower", "Acceleration", "Miles_per_Gallon"},
			Column: []string{"Miles_per_Gallon", "Acceleration", "Horsepower"},
		})
}

func USIncomeByState() *vega.Chart {
	states := &vega.Data{
		URL: vega.Dataset("us-10m.json"),
		Format: map[string]interface{}{
			"type":    "topojson",
			"feature": "states",
		},
	}
	c := vega.New().
		URL(vega.Dataset("income.json")).
		MarkType("geoshape").
		Encode("shape", vega.F("geo:G")).
		Encode("color", vega.F("pct:Q")).
		Encode("tooltip", []*vega.Channel{vega.F("name:N"), vega.F("pct:Q")}).
		Lookup("id", states, "id", "geo").
		Size(300, 175)
	c.Projection = map[string]interface{}{"type": "albersUsa"}
	return c.Faceted(vega.F("group:N"), 3)
}

func StackedDensityEstimates() *vega.Chart {
	y := vega.F("density:Q")
	y.Stack = "zero"
	return vega.New().
		URL(vega.Dataset("iris.json")).
		Fold([]string{"petalWidth", "petalLength", "sepalWidth", "sepalLength"}, "Measurement_type", "value").
		Transformed(map[string]interface{}{
			"density":   "value",
			"bandwidth": 0.3,
			"groupby":   []string{"Measurement_type"},
			"extent":    []float64{0, 8},
			"counts":    true,
			"steps":     200,
		}).
		MarkType("area").
		Encode("x", vega.F("value:Q")).
		Encode("y", y).
		Encode("color", vega.F("Measurement_type:N")).
		Size("container", "container")
}

func StreamGraph() *vega.Chart {
	x := vega.F("yearmonth(date):T")
	x.Axis = map[string]interface{}{
		"format":   "%Y",
		"domain":   false,
		"tickSize": 0,
	}
	color := vega.F("series:N")
	color.Scale = map[string]interface{}{"scheme": "category20b"}

	return vega.New().
		URL(vega.Dataset("unemployment-across-industries.json")).
		MarkType("area").
		Encode("x", x).
		// axis: null hides the axis, which a *Channel can't express.
		Encode("y", map[string]interface{}{
			"field":     "count",
			"aggregate": "sum",
			"type":      "quantitative",
			"stack":     "center",
			"axis":      nil,
		}).
		Encode("color", color).
		Size("container", "container").
		Interactive()
}

// Build makes the chart.
func (c Chart) Build() (*vega.Chart, error) {
	f, have := Charts[c]
	if !have {
		return nil, &UnknownChart{
			Name: c,
		}
	}
	return f(), nil
}

// New needs nothing loaded: the charts reference their data by URL.
func New(env *sio.Env) (sio.Factory, error) {
	logger := env.Log("altair")
	return func() sio.App {
		return &App{
			logger: logger,
		}
	}, nil
}

type App struct {
	logger hclog.Logger
	view   *widget.View
}

func (a *App) Build(ctx context.Context, s *sio.Session) (*widget.Node, error) {
	st := s.Store
	st.Init(core.Bindings{
		"chart_options": Options,
		ChartKey:        string(Options[0].Value),
	})
	a.view = s.View(ChartView, widget.KindVega)

	page := widget.SinglePage("Altair Charts")
	page.Toolbar.Add(
		widget.Spacer(),
		widget.SelectFrom(ChartKey, "Chart", "chart_options").Propm(
			"itemTitle", "title",
			"itemValue", "value",
		),
	)
	page.Content.Add(widget.Container(a.view.Node()))

	if _, err := st.WatchNow(ctx, "update_chart", []string{ChartKey}, a.update); err != nil {
		return nil, err
	}
	return page.Node(), nil
}

func (a *App) update(ctx context.Context, st *core.Store, bs core.Bindings) error {
	name, _ := bs.String(ChartKey)
	c, err := Chart(name).Build()
	if err != nil {
		if err := a.view.Update(vega.Empty()); err != nil {
			return err
		}
		return err
	}
	a.logger.Debug("chart", "name", name)
	return a.view.Update(c.Artifact())
}
