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

package resizable

import (
	"errors"
	"strings"
	"testing"

	"github.com/Comcast/vizcrew/dataset"
	"github.com/Comcast/vizcrew/util/testutil"
	"github.com/Comcast/vizcrew/widget"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

const polarCSV = `x1,x2,x3,y
0,1,0.5,0
0.5,1.5,1,90
1,2,1.5,180
`

const regionsJSON = `{"Data": [
 {"Bravo": ["0.1 0.2 0.7", "0.2 0.2 0.6", "0.2 0.1 0.7"]},
 {"Alpha": ["0.5 0.25 0.25", "0.6 0.2 0.2"]}
]}`

func TestReadRegions(t *testing.T) {
	rs, err := ReadRegions(strings.NewReader(regionsJSON))
	if err != nil {
		t.Fatal(err)
	}
	want := []Region{
		{Name: "Bravo", A: []float64{0.1, 0.2, 0.2}, B: []float64{0.2, 0.2, 0.1}, C: []float64{0.7, 0.6, 0.7}},
		{Name: "Alpha", A: []float64{0.5, 0.6}, B: []float64{0.25, 0.2}, C: []float64{0.25, 0.2}},
	}
	if diff := cmp.Diff(want, rs); diff != "" {
		t.Fatal(diff)
	}
}

func TestReadRegionsBad(t *testing.T) {
	for _, js := range []string{
		`{"Data": [{"x": ["0.1 0.2"]}]}`,
		`{"Data": [{"x": ["0.1 0.2 zero"]}]}`,
	} {
		_, err := ReadRegions(strings.NewReader(js))
		var bad *dataset.BadRow
		if !errors.As(err, &bad) {
			t.Fatal(js, err)
		}
	}
	if _, err := ReadRegions(strings.NewReader(`[`)); err == nil {
		t.Fatal("expected an error")
	}
}

func start(t *testing.T, fs afero.Fs) *testutil.Harness {
	f, err := NewFrom(testutil.Env(t, fs), "polar.csv", "regions.json")
	if err != nil {
		t.Fatal(err)
	}
	h := testutil.Start(t, f, nil)
	h.NoErrors(h.Initial)
	return h
}

func TestCharts(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "polar.csv", []byte(polarCSV), 0644)
	afero.WriteFile(fs, "regions.json", []byte(regionsJSON), 0644)
	h := start(t, fs)

	polar := h.Spec(PolarView)["data"].([]interface{})
	if len(polar) != len(Curves) {
		t.Fatal(testutil.JS(polar))
	}
	hyper := polar[2].(map[string]interface{})
	if hyper["name"] != "Hypercardioid" || len(hyper["r"].([]interface{})) != 3 {
		t.Fatal(testutil.JS(hyper))
	}

	ternary := h.Spec(TernaryView)
	data := ternary["data"].([]interface{})
	if len(data) != 2 {
		t.Fatal(testutil.JS(data))
	}
	alpha := data[1].(map[string]interface{})
	if alpha["fillcolor"] != Fills[1] || len(alpha["a"].([]interface{})) != 3 {
		t.Fatal(testutil.JS(alpha))
	}
	title := ternary["layout"].(map[string]interface{})["title"].(map[string]interface{})
	if title["text"] != "Ternary Chart" {
		t.Fatal(title)
	}

	// Side by side in half-width columns.
	cols := 0
	h.Session.Tree.Walk(func(n *widget.Node) bool {
		if n.Type == "col" && n.Props["cols"] == 6 {
			cols++
		}
		return true
	})
	if cols != 2 {
		t.Fatal(cols)
	}
}

// TestMissingData starts with neither source available.
func TestMissingData(t *testing.T) {
	h := start(t, afero.NewMemMapFs())
	polar := h.Spec(PolarView)["data"].([]interface{})
	if len(polar) != len(Curves) {
		t.Fatal(testutil.JS(polar))
	}
	if r := polar[0].(map[string]interface{})["r"]; r != nil && len(r.([]interface{})) != 0 {
		t.Fatal(r)
	}
	if data := h.Spec(TernaryView)["data"].([]interface{}); len(data) != 0 {
		t.Fatal(testutil.JS(data))
	}
}
