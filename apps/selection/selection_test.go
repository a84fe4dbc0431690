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

package selection

import (
	"strings"
	"testing"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/util/testutil"

	"github.com/google/go-cmp/cmp"
)

func start(t *testing.T) (*testutil.Harness, *App) {
	f, err := New(testutil.Env(t, nil))
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

// selection returns the selection actor and its number of points.
func selection(t *testing.T, h *testutil.Harness) (map[string]interface{}, int) {
	actors := h.Spec(ViewID)["actors"].([]interface{})
	if len(actors) != 2 {
		t.Fatal(testutil.JS(actors))
	}
	a := actors[1].(map[string]interface{})
	g, have := a["geometry"].(map[string]interface{})
	if !have {
		return a, 0
	}
	return a, len(g["points"].([]interface{})) / 3
}

func selected(t *testing.T, h *testutil.Harness) []interface{} {
	data := h.Spec(ChartID)["data"].([]interface{})
	return data[0].(map[string]interface{})["selectedpoints"].([]interface{})
}

func TestColumns(t *testing.T) {
	_, app := start(t)
	want := []string{"RTData", "Radius", "Points_0", "Points_1", "Points_2"}
	if diff := cmp.Diff(want, app.Names); diff != "" {
		t.Fatal(diff)
	}
	if xs := app.Columns["Points_2"]; len(xs) != 9261 || xs[0] != -10 || xs[9260] != 10 {
		t.Fatal(len(xs))
	}
}

func TestChartSelection(t *testing.T) {
	h, _ := start(t)
	if a, n := selection(t, h); a["visible"] != false || n != 0 {
		t.Fatal(testutil.JS(a))
	}

	r := h.Trigger(ChartSelection, []interface{}{0.0, 5.0, 9260.0})
	h.NoErrors(r)
	if !testutil.Updated(r, ViewID) {
		t.Fatal(testutil.JS(r.Updates))
	}
	if got, _ := Indices(r.State[SelectedKey]); !cmp.Equal(got, []int{0, 5, 9260}) {
		t.Fatal(r.State)
	}
	if a, n := selection(t, h); a["visible"] != true || n != 3 {
		t.Fatal(testutil.JS(a))
	}

	// A new axis keeps the selection.
	r = h.Set(core.Bindings{XKey: "Points_0"})
	h.NoErrors(r)
	if !testutil.Updated(r, ChartID) {
		t.Fatal(testutil.JS(r.Updates))
	}
	if sel := selected(t, h); len(sel) != 3 {
		t.Fatal(sel)
	}

	r = h.Trigger(ChartSelection, []interface{}{})
	h.NoErrors(r)
	if a, n := selection(t, h); a["visible"] != false || n != 0 {
		t.Fatal(testutil.JS(a))
	}

	r = h.Trigger(ChartSelection, []interface{}{"first"})
	if len(r.Errors) != 1 {
		t.Fatal(r.Errors)
	}
}

func TestUnknownField(t *testing.T) {
	h, _ := start(t)
	r := h.Set(core.Bindings{YKey: "Pressure"})
	if len(r.Errors) != 1 || !strings.Contains(r.Errors[0], "Pressure") {
		t.Fatal(r.Errors)
	}
}

func TestBoxSelection(t *testing.T) {
	tests := []struct {
		name  string
		event map[string]interface{}
		want  int
	}{
		{
			// The server's camera looks down the z axis at the
			// center of the top face.
			name: "center",
			event: map[string]interface{}{
				"mode":      "remote",
				"size":      []interface{}{400.0, 400.0},
				"selection": []interface{}{190.0, 210.0, 190.0, 210.0},
			},
			want: 1,
		},
		{
			name: "side",
			event: map[string]interface{}{
				"mode": "local",
				"camera": map[string]interface{}{
					"position":   []interface{}{100.0, 0.0, 0.0},
					"focalPoint": []interface{}{0.0, 0.0, 0.0},
					"viewUp":     []interface{}{0.0, 0.0, 1.0},
					"viewAngle":  30.0,
				},
				"size":      []interface{}{400.0, 400.0},
				"selection": []interface{}{0.0, 400.0, 400.0, 0.0},
			},
			want: 21 * 21,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := start(t)
			h.NoErrors(h.Set(core.Bindings{BoxKey: true}))

			r := h.Trigger(BoxSelection, tc.event)
			h.NoErrors(r)
			if h.Session.Store.GetBool(BoxKey) {
				t.Fatal("still selecting")
			}
			if !testutil.Updated(r, ChartID) || !testutil.Updated(r, ViewID) {
				t.Fatal(testutil.JS(r.Updates))
			}
			if sel := selected(t, h); len(sel) != tc.want {
				t.Fatal(len(sel))
			}
			if _, n := selection(t, h); n != tc.want {
				t.Fatal(n)
			}
		})
	}
}

func TestBoxSelectionCenter(t *testing.T) {
	h, _ := start(t)
	r := h.Trigger(BoxSelection, map[string]interface{}{
		"size":      []interface{}{400.0, 400.0},
		"selection": []interface{}{190.0, 210.0, 190.0, 210.0},
	})
	h.NoErrors(r)
	// Point (10, 10, 20) of the 21^3 grid.
	if sel := selected(t, h); len(sel) != 1 || sel[0] != 9040.0 {
		t.Fatal(sel)
	}
}

func TestBadBoxSelection(t *testing.T) {
	h, _ := start(t)
	for _, event := range []interface{}{
		map[string]interface{}{"selection": []interface{}{0.0, 1.0, 0.0, 1.0}},
		map[string]interface{}{"size": []interface{}{400.0, 400.0}},
		map[string]interface{}{
			"size":      []interface{}{400.0, 400.0},
			"selection": []interface{}{0.0, 1.0, 0.0, 1.0},
			"camera":    map[string]interface{}{"position": []interface{}{1.0}},
		},
		"box",
	} {
		h.NoErrors(h.Set(core.Bindings{BoxKey: true}))
		r := h.Trigger(BoxSelection, event)
		if len(r.Errors) != 1 || !strings.Contains(r.Errors[0], "bad box selection") {
			t.Fatal(event, r.Errors)
		}
		if h.Session.Store.GetBool(BoxKey) {
			t.Fatal("still selecting")
		}
	}
}
