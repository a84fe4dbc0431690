/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package plotly selects among prebuilt plotly figures.
package plotly

import (
	"context"
	"fmt"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/dataset"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/viz/plotly"
	"github.com/Comcast/vizcrew/viz/vega"
	"github.com/Comcast/vizcrew/widget"
)

const (
	PlotKey  = "active_plot_name"
	PlotView = "plotly_display"
)

// Chart is a selector value.
type Chart string

const (
	ContourChart       Chart = "Contour"
	Scatter3DChart     Chart = "Scatter3D"
	ScatterMatrixChart Chart = "ScatterMatrix"
	BarChart           Chart = "BarChart"
)

// Charts are the plots in menu order.  The first is the default.
var Charts = []Chart{ContourChart, Scatter3DChart, ScatterMatrixChart, BarChart}

// IrisURL is the iris measurements.
var IrisURL = vega.Dataset("iris.json")

var irisColumns = []string{"sepalLength", "sepalWidth", "petalLength", "petalWidth", "species"}

// Plots builds every figure from the iris data.
func Plots(iris *dataset.Frame) map[Chart]*plotly.Figure {
	contour := plotly.NewFigure(plotly.Contour([][]float64{
		{10, 10.625, 12.5, 15.625, 20},
		{5.625, 6.25, 8.125, 11.25, 15.625},
		{2.5, 3.125, 5.0, 8.125, 12.5},
		{0.625, 1.25, 3.125, 6.25, 10.625},
		{0, 0.625, 2.5, 5.625, 10},
	})).Titled("Contour Plot")

	return map[Chart]*plotly.Figure{
		ContourChart:       contour,
		Scatter3DChart:     plotly.Scatter3D(iris, "sepalLength", "sepalWidth", "petalWidth", "petalLength", "species"),
		ScatterMatrixChart: plotly.ScatterMatrix(iris, []string{"sepalWidth", "sepalLength", "petalWidth", "petalLength"}, "species"),
		BarChart:           plotly.NewFigure(plotly.Bar([]int{1, 2, 3}, []int{1, 3, 2})).Titled("A Bar Chart"),
	}
}

// UnknownPlot reports a selection without a figure.
type UnknownPlot struct {
	Name Chart
}

func (e *UnknownPlot) Error() string {
	return fmt.Sprintf("no plot named %q", string(e.Name))
}

// New loads the iris data and prebuilds the figures, which sessions
// then share.
func New(env *sio.Env) (sio.Factory, error) {
	return NewFrom(env, IrisURL)
}

func NewFrom(env *sio.Env, src string) (sio.Factory, error) {
	l := env.Loader
	f, err := l.LoadJSON(context.Background(), src, irisColumns...)
	plots := Plots(l.Fallback(src, f, err, irisColumns...))
	return func() sio.App {
		return &App{
			Plots: plots,
		}
	}, nil
}

type App struct {
	Plots map[Chart]*plotly.Figure

	view *widget.View
}

func (a *App) Build(ctx context.Context, s *sio.Session) (*widget.Node, error) {
	st := s.Store
	names := make([]string, len(Charts))
	for i, c := range Charts {
		names[i] = string(c)
	}
	st.Init(core.Bindings{
		"plots": names,
		PlotKey: names[0],
	})
	a.view = s.View(PlotView, widget.KindPlotly)
	a.view.Node().Propm(
		"displayLogo", false,
		"displayModeBar", true,
	)

	page := widget.SinglePage("Plotly Charts").HideIcon()
	page.Toolbar.Add(
		widget.Spacer(),
		widget.SelectFrom(PlotKey, "Plot", "plots"),
	)
	page.Content.Add(a.view.Node())

	_, err := st.WatchNow(ctx, "update_plot_figure", []string{PlotKey}, func(ctx context.Context, st *core.Store, bs core.Bindings) error {
		name, _ := bs.String(PlotKey)
		return a.Show(Chart(name))
	})
	if err != nil {
		return nil, err
	}
	return page.Node(), nil
}

// Show displays the chart's figure.  An unknown chart leaves the
// display alone.
func (a *App) Show(c Chart) error {
	fig, have := a.Plots[c]
	if !have {
		return &UnknownPlot{
			Name: c,
		}
	}
	return a.view.Update(fig.Artifact())
}
