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

package plotly

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/util/testutil"

	"github.com/spf13/afero"
)

const iris = `[
 {"sepalLength": 5.1, "sepalWidth": 3.5, "petalLength": 1.4, "petalWidth": 0.2, "species": "setosa"},
 {"sepalLength": 7.0, "sepalWidth": 3.2, "petalLength": 4.7, "petalWidth": 1.4, "species": "versicolor"},
 {"sepalLength": 6.3, "sepalWidth": 3.3, "petalLength": 6.0, "petalWidth": 2.5, "species": "virginica"}
]`

func start(t *testing.T) (*testutil.Harness, *App) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "iris.json", []byte(iris), 0644)
	f, err := NewFrom(testutil.Env(t, fs), "iris.json")
	if err != nil {
		t.Fatal(err)
	}
	var app *App
	h := testutil.Start(t, func() sio.App {
		app = f().(*App)
		return app
	}, nil)
	h.NoErrors(h.Initial)
	return h, app
}

func TestDefaultIsContour(t *testing.T) {
	h, _ := start(t)
	data := h.Spec(PlotView)["data"].([]interface{})
	if typ := data[0].(map[string]interface{})["type"]; typ != "contour" {
		t.Fatal(typ)
	}
}

func TestBarChartUnchanged(t *testing.T) {
	h, app := start(t)
	want, err := json.Marshal(app.Plots[BarChart])
	if err != nil {
		t.Fatal(err)
	}

	r := h.Set(core.Bindings{PlotKey: "BarChart"})
	h.NoErrors(r)
	if len(r.Updates) != 1 {
		t.Fatal(testutil.JS(r.Updates))
	}
	got, err := json.Marshal(r.Updates[0].Artifact.Spec)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(want) {
		t.Fatalf("%s\n!=\n%s", got, want)
	}

	// Selecting it again pushes nothing.
	h.Set(core.Bindings{PlotKey: "Contour"})
	r = h.Set(core.Bindings{PlotKey: "BarChart"})
	if len(r.Updates) != 1 {
		t.Fatal(testutil.JS(r.Updates))
	}
	r = h.Set(core.Bindings{PlotKey: "BarChart"})
	if len(r.Updates) != 0 {
		t.Fatal(testutil.JS(r.Updates))
	}
}

func TestIrisFigures(t *testing.T) {
	h, app := start(t)
	if n := len(app.Plots[Scatter3DChart].Data); n != 3 {
		t.Fatal(n)
	}
	h.NoErrors(h.Set(core.Bindings{PlotKey: "ScatterMatrix"}))
	data := h.Spec(PlotView)["data"].([]interface{})
	if typ := data[0].(map[string]interface{})["type"]; typ != "splom" {
		t.Fatal(typ)
	}
}

func TestUnknownPlot(t *testing.T) {
	h, _ := start(t)
	r := h.Set(core.Bindings{PlotKey: "Pie"})
	if len(r.Errors) != 1 || len(r.Updates) != 0 {
		t.Fatal(testutil.JS(r))
	}
	var up *UnknownPlot
	err := (&App{}).Show("Pie")
	if !errors.As(err, &up) || up.Name != "Pie" {
		t.Fatal(err)
	}
}

func TestEveryChartHasAFigure(t *testing.T) {
	_, app := start(t)
	if len(app.Plots) != len(Charts) {
		t.Fatal(len(app.Plots))
	}
	for _, c := range Charts {
		if _, have := app.Plots[c]; !have {
			t.Fatal(c)
		}
	}
}
