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

// Package resizable shows a polar chart and a ternary chart side by
// side.  Both charts follow the size of their columns.
package resizable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/Comcast/vizcrew/dataset"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/viz/plotly"
	"github.com/Comcast/vizcrew/widget"
)

const (
	PolarView   = "polar"
	TernaryView = "ternary"
)

var (
	PolarURL   = "https://raw.githubusercontent.com/plotly/datasets/master/polar_dataset.csv"
	TernaryURL = "https://raw.githubusercontent.com/plotly/datasets/master/contour_data.json"
)

// Curves are the polar traces: the radius column, name, and color.
var Curves = []struct {
	Column, Name, Color string
}{
	{"x1", "Figure 8", "peru"},
	{"x2", "Cardioid", "darkviolet"},
	{"x3", "Hypercardioid", "deepskyblue"},
}

var polarColumns = []string{"x1", "x2", "x3", "y"}

// Fills are the ternary regions' colors, used in turn.
var Fills = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3",
	"#fdb462", "#b3de69", "#fccde5", "#d9d9d9", "#bc80bd",
}

// Region is one closed outline in ternary coordinates.
type Region struct {
	Name    string
	A, B, C []float64
}

// ReadRegions reads ternary regions from JSON like
//
//	{"Data": [{"region": ["0.1 0.2 0.7", ...]}, ...]}
//
// Regions with the same key keep their order in the input.
func ReadRegions(r io.Reader) ([]Region, error) {
	var doc struct {
		Data []map[string][]string `json:"Data"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	acc := make([]Region, 0, len(doc.Data))
	for i, m := range doc.Data {
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			reg := Region{
				Name: name,
			}
			for _, p := range m[name] {
				fs := strings.Fields(p)
				if len(fs) != 3 {
					return nil, &dataset.BadRow{
						Line: i,
						Err:  fmt.Errorf("%s: expected 3 coordinates in %q", name, p),
					}
				}
				var abc [3]float64
				for j, f := range fs {
					x, err := strconv.ParseFloat(f, 64)
					if err != nil {
						return nil, &dataset.BadRow{
							Line: i,
							Err:  err,
						}
					}
					abc[j] = x
				}
				reg.A = append(reg.A, abc[0])
				reg.B = append(reg.B, abc[1])
				reg.C = append(reg.C, abc[2])
			}
			acc = append(acc, reg)
		}
	}
	return acc, nil
}

// PolarFigure draws each of the Curves against the "y" column.
func PolarFigure(f *dataset.Frame) *plotly.Figure {
	fig := plotly.NewFigure()
	theta := f.Floats("y")
	for _, c := range Curves {
		fig.Add(plotly.Polar(c.Name, f.Floats(c.Column), theta, c.Color))
	}
	return fig.
		Titled("Polar Chart").
		Set("showlegend", false).
		Margin(20, 20, 20, 20)
}

// TernaryFigure fills each region.
func TernaryFigure(rs []Region) *plotly.Figure {
	fig := plotly.NewFigure()
	for i, r := range rs {
		fig.Add(plotly.Ternary(r.Name, r.A, r.B, r.C, Fills[i%len(Fills)]))
	}
	return fig.
		Titled("Ternary Chart").
		Set("showlegend", false).
		Margin(50, 50, 50, 50)
}

func New(env *sio.Env) (sio.Factory, error) {
	return NewFrom(env, PolarURL, TernaryURL)
}

// NewFrom builds both figures once.  A source that can't be loaded
// gives an empty chart.
func NewFrom(env *sio.Env, polarSrc, ternarySrc string) (sio.Factory, error) {
	ctx := context.Background()
	l := env.Loader

	f, err := l.LoadCSV(ctx, polarSrc, nil)
	polar := PolarFigure(l.Fallback(polarSrc, f, err, polarColumns...))

	var regions []Region
	bs, err := l.Fetch(ctx, ternarySrc)
	if err == nil {
		regions, err = ReadRegions(bytes.NewReader(bs))
	}
	if err != nil {
		env.Log("resizable").Warn("no ternary regions", "src", ternarySrc, "error", err)
	}
	ternary := TernaryFigure(regions)

	return func() sio.App {
		return &App{
			Polar:   polar,
			Ternary: ternary,
		}
	}, nil
}

type App struct {
	Polar, Ternary *plotly.Figure
}

func (a *App) Build(ctx context.Context, s *sio.Session) (*widget.Node, error) {
	row := widget.Row()
	for _, v := range []struct {
		id  string
		fig *plotly.Figure
	}{
		{PolarView, a.Polar},
		{TernaryView, a.Ternary},
	} {
		view := s.View(v.id, widget.KindPlotly)
		view.Node().Propm(
			"displayModeBar", false,
			"responsive", true,
		)
		if err := view.Update(v.fig.Artifact()); err != nil {
			return nil, err
		}
		row.Add(widget.Col(6, view.Node()))
	}

	page := widget.SinglePage("Resizable Plotly Charts").HideIcon()
	page.Content.Add(widget.Container(row).Prop("fluid", true))
	return page.Node(), nil
}
