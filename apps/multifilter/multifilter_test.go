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

package multifilter

import (
	"strings"
	"testing"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/util/testutil"
	"github.com/Comcast/vizcrew/viz/scene"

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

// actor returns the named actor from the displayed scene.
func actor(t *testing.T, h *testutil.Harness, name string) map[string]interface{} {
	for _, x := range h.Spec(ViewID)["actors"].([]interface{}) {
		a := x.(map[string]interface{})
		if a["name"] == name {
			return a
		}
	}
	t.Fatalf("no actor %s", name)
	return nil
}

func TestDataset(t *testing.T) {
	d, err := NewDataset()
	if err != nil {
		t.Fatal(err)
	}
	var values []string
	for _, o := range d.Arrays {
		values = append(values, o.Value)
	}
	if diff := cmp.Diff([]string{"0_RTData", "0_Radius", "1_Octant"}, values); diff != "" {
		t.Fatal(diff)
	}
	if n := len(d.PointArrays); n != 2 {
		t.Fatal(n)
	}
	if r := d.Arrays[2].Range; r != [2]float64{0, 7} {
		t.Fatal(r)
	}
}

func TestInitial(t *testing.T) {
	h, app := start(t)
	st := h.Session.Store

	def := app.Dataset.PointArrays[0]
	if got := st.GetFloat(ContourValue); got != mid(def.Range) {
		t.Fatal(got)
	}
	if got := st.GetFloat("contour_step"); got != (def.Range[1]-def.Range[0])/100 {
		t.Fatal(got)
	}

	mesh := actor(t, h, Mesh)
	g := mesh["geometry"].(map[string]interface{})
	if g["colorMode"] != "points" {
		t.Fatal(g["colorMode"])
	}
	if _, have := h.Spec(ViewID)["axes"]; !have {
		t.Fatal("no axes")
	}
	if s := st.GetString(ActiveUI); s != Mesh {
		t.Fatal(s)
	}
}

func TestRepresentation(t *testing.T) {
	h, app := start(t)

	h.NoErrors(h.Set(core.Bindings{Key(Mesh, "representation"): 3}))
	p := app.Pipelines[0].Actor.Property
	if p.Representation != scene.AsSurface || !p.EdgeVisibility {
		t.Fatal(p)
	}
	prop := actor(t, h, Mesh)["property"].(map[string]interface{})
	if prop["edgeVisibility"] != true {
		t.Fatal(prop)
	}

	h.NoErrors(h.Set(core.Bindings{Key(Contour, "representation"): 0}))
	p = app.Pipelines[1].Actor.Property
	if p.Representation != scene.AsPoints || p.PointSize != 5 {
		t.Fatal(p)
	}

	r := h.Set(core.Bindings{Key(Mesh, "representation"): 9})
	if len(r.Errors) == 0 {
		t.Fatal("expected an error")
	}
}

func TestColoring(t *testing.T) {
	h, app := start(t)

	h.NoErrors(h.Set(core.Bindings{Key(Mesh, "color_array_value"): "1_Octant"}))
	g := actor(t, h, Mesh)["geometry"].(map[string]interface{})
	if g["colorMode"] != "cells" {
		t.Fatal(g["colorMode"])
	}
	m := app.Pipelines[0].Actor.Mapper
	if m.ColorBy != "Octant" || m.LookupTable.Range != [2]float64{0, 7} {
		t.Fatal(m.ColorBy, m.LookupTable.Range)
	}

	// The contour has no cell arrays.
	r := h.Set(core.Bindings{Key(Contour, "color_array_value"): "1_Octant"})
	if len(r.Errors) == 0 {
		t.Fatal("expected an error")
	}

	h.NoErrors(h.Set(core.Bindings{Key(Mesh, "color_preset"): int(scene.Greyscale)}))
	lut := m.LookupTable
	if r, g, b := lut.RGB255(lut.Range[0]); r != 0 || g != 0 || b != 0 {
		t.Fatal(r, g, b)
	}
	if r, g, b := lut.RGB255(lut.Range[1]); r != 255 || g != 255 || b != 255 {
		t.Fatal(r, g, b)
	}

	h.NoErrors(h.Set(core.Bindings{Key(Mesh, "opacity"): 0.25}))
	prop := actor(t, h, Mesh)["property"].(map[string]interface{})
	if prop["opacity"] != 0.25 {
		t.Fatal(prop)
	}
}

func TestContourBy(t *testing.T) {
	h, app := start(t)
	st := h.Session.Store

	radius := app.Dataset.PointArrays[1]
	if radius.Info.Name != "Radius" {
		t.Fatal(radius.Info.Name)
	}
	r := h.Set(core.Bindings{ContourBy: radius.Value})
	h.NoErrors(r)
	if !testutil.Updated(r, ViewID) {
		t.Fatal("no update")
	}
	if app.Filter.Array != "Radius" {
		t.Fatal(app.Filter.Array)
	}
	if got := st.GetFloat(ContourValue); got != mid(radius.Range) {
		t.Fatal(got)
	}
	if got := app.Filter.Values[0]; got != mid(radius.Range) {
		t.Fatal(got)
	}
	if got := st.GetFloat("contour_max"); got != radius.Range[1] {
		t.Fatal(got)
	}

	h.NoErrors(h.Set(core.Bindings{ContourValue: 3.5}))
	if got := app.Filter.Values[0]; got != 3.5 {
		t.Fatal(got)
	}

	r = h.Set(core.Bindings{ContourBy: "1_Octant"})
	if len(r.Errors) != 1 || !strings.Contains(r.Errors[0], `unknown array "1_Octant"`) {
		t.Fatal(r.Errors)
	}
	if app.Filter.Array != "Radius" {
		t.Fatal(app.Filter.Array)
	}
}

func TestVisibility(t *testing.T) {
	h, app := start(t)
	st := h.Session.Store

	h.NoErrors(h.Trigger("visibility_change", map[string]interface{}{"id": "2", "visible": false}))
	if app.Pipelines[1].Actor.Visibility {
		t.Fatal("still visible")
	}
	if st.GetBool(Key(Contour, "visible")) {
		t.Fatal("state still visible")
	}
	items, _ := st.Get(ItemsKey)
	want := []map[string]interface{}{
		{"id": "1", "parent": "0", "name": "Mesh", "visible": true},
		{"id": "2", "parent": "1", "name": "Contour", "visible": false},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Fatal(diff)
	}
	if g := actor(t, h, Contour)["geometry"]; g != nil {
		t.Fatal("invisible actor has geometry")
	}

	h.NoErrors(h.Set(core.Bindings{CubeAxesKey: false}))
	if _, have := h.Spec(ViewID)["axes"]; have {
		t.Fatal("axes still shown")
	}

	h.NoErrors(h.Trigger("actives_change", []interface{}{"2"}))
	if s := st.GetString(ActiveUI); s != Contour {
		t.Fatal(s)
	}

	r := h.Trigger("visibility_change", "3", true)
	if len(r.Errors) == 0 {
		t.Fatal("expected an error")
	}
}
