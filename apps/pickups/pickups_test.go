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

package pickups

import (
	"context"
	"testing"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/util/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

const sample = `Date/Time,Lat,Lon,Base
9/1/2014 10:01:00,40.7,-74.0,B02512
9/1/2014 10:01:30,40.8,-73.9,B02512
9/1/2014 10:59:00,40.6,-73.8,B02598
9/1/2014 11:00:00,40.9,-73.7,B02598
9/2/2014 3:15:00,40.5,-74.1,B02617
`

func sampleFs(t *testing.T) afero.Fs {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "pickups.csv", []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestLoadAndFilter(t *testing.T) {
	env := testutil.Env(t, sampleFs(t))
	data := Load(context.Background(), env.Loader, "pickups.csv")

	if n := data.Frame.Len(); n != 5 {
		t.Fatal(n)
	}
	if lat := data.Maps[0].Lat; lat < 40.69 || 40.71 < lat {
		t.Fatal(lat)
	}

	ten := ForHour(data.Frame, 10)
	if n := ten.Len(); n != 3 {
		t.Fatal(n)
	}
	for _, r := range ten.Rows {
		if tm, _ := r.Time(DateTime); tm.Hour() != 10 {
			t.Fatal(tm)
		}
	}

	counts := Minutes(ten)
	if len(counts) != 60 || counts[1] != 2 || counts[59] != 1 || counts[0] != 0 {
		t.Fatal(counts)
	}
}

func TestLoadFallback(t *testing.T) {
	env := testutil.Env(t, nil)
	data := Load(context.Background(), env.Loader, "missing.csv.gz")
	if n := data.Frame.Len(); n != 0 {
		t.Fatal(n)
	}
	if !data.Frame.HasColumn(DateTime) {
		t.Fatal(data.Frame.Columns)
	}
	if m := data.Maps[0]; m.Lat != FallbackLat || m.Lon != FallbackLon {
		t.Fatal(m)
	}
}

func TestTitles(t *testing.T) {
	if s := ChartTitle(7); s != "Pickups per minute for 07:00 - 07:59" {
		t.Fatal(s)
	}
}

func TestSession(t *testing.T) {
	env := testutil.Env(t, sampleFs(t))
	f, err := NewFrom(env, "pickups.csv")
	if err != nil {
		t.Fatal(err)
	}
	h := testutil.Start(t, f, nil)
	h.NoErrors(h.Initial)

	st := h.Session.Store
	if s := st.GetString("nycTitle"); s != "New York City - Pickups (10:00 - 10:59)" {
		t.Fatal(s)
	}
	if s := st.GetString("jfkTitle"); s != "JFK Airport" {
		t.Fatal(s)
	}
	if st.GetBool("loading") {
		t.Fatal("still loading")
	}
	if !st.GetBool("noKey") {
		t.Fatal("expected noKey")
	}

	chart := h.Spec(ChartView)
	if chart["title"] != "Pickups per minute for 10:00 - 10:59" {
		t.Fatal(chart["title"])
	}

	nyc := h.Spec("deck_nyc")
	layers := nyc["layers"].([]interface{})
	layer := layers[0].(map[string]interface{})
	if n := len(layer["data"].([]interface{})); n != 3 {
		t.Fatal(n)
	}
	if _, have := nyc["mapStyle"]; have {
		t.Fatal("style without a key")
	}
	want := map[string]interface{}{
		"html":  "<b>Pickups:</b> {elevationValue}",
		"style": map[string]interface{}{"color": "white", "backgroundColor": "rgba(0,0,0,0.7)"},
	}
	if diff := cmp.Diff(want, nyc["tooltip"]); diff != "" {
		t.Fatal(diff)
	}

	r := h.Set(core.Bindings{HourKey: 11})
	h.NoErrors(r)
	if !testutil.Updated(r, "deck_jfk") || !testutil.Updated(r, ChartView) {
		t.Fatal(testutil.JS(r.Updates))
	}
	layer = h.Spec("deck_lga")["layers"].([]interface{})[0].(map[string]interface{})
	if n := len(layer["data"].([]interface{})); n != 1 {
		t.Fatal(n)
	}
	if s := st.GetString("nycTitle"); s != "New York City - Pickups (11:00 - 11:59)" {
		t.Fatal(s)
	}

	// An hour without pickups clears the layers.
	h.Set(core.Bindings{HourKey: 23})
	layer = h.Spec("deck_nwk")["layers"].([]interface{})[0].(map[string]interface{})
	if n := len(layer["data"].([]interface{})); n != 0 {
		t.Fatal(n)
	}
}

func TestSessionWithKey(t *testing.T) {
	env := testutil.Env(t, sampleFs(t))
	env.Conf.MapboxAPIKey = "pk.test"
	f, err := NewFrom(env, "pickups.csv")
	if err != nil {
		t.Fatal(err)
	}
	h := testutil.Start(t, f, core.Bindings{HourKey: 3})
	nyc := h.Spec("deck_nyc")
	if nyc["mapStyle"] != "mapbox://styles/mapbox/light-v9" {
		t.Fatal(nyc["mapStyle"])
	}
	if h.Session.Store.GetBool("noKey") {
		t.Fatal("noKey")
	}
	vs := nyc["initialViewState"].(map[string]interface{})
	if vs["pitch"] != float64(50) {
		t.Fatal(vs)
	}
}
