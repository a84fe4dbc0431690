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

package multiview

import (
	"testing"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/util/testutil"
)

func TestViews(t *testing.T) {
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

	if n := len(app.Renderers); n != 12 {
		t.Fatal(n)
	}
	for _, name := range []string{UpdateViews, ResetCamera} {
		if !h.Session.Ctrl.Has(name) {
			t.Fatal(name)
		}
	}

	points := func(i int) int {
		spec := h.Spec(ViewID(i))
		actor := spec["actors"].([]interface{})[0].(map[string]interface{})
		return len(actor["geometry"].(map[string]interface{})["points"].([]interface{})) / 3
	}
	for i := 0; i < 12; i++ {
		if n := points(i); n != 7 {
			t.Fatal(i, n)
		}
	}

	bg := h.Spec(ViewID(7))["background"].([]interface{})
	if bg[0] != 0.0 || bg[1] != 0.5 || bg[2] != 0.0 {
		t.Fatal(bg)
	}

	r := h.Set(core.Bindings{ResolutionKey: 12})
	h.NoErrors(r)
	for i := 0; i < 12; i++ {
		if !testutil.Updated(r, ViewID(i)) {
			t.Fatal(i)
		}
		if n := points(i); n != 13 {
			t.Fatal(i, n)
		}
	}
}

func TestResetCamera(t *testing.T) {
	f, err := New(testutil.Env(t, nil))
	if err != nil {
		t.Fatal(err)
	}
	var app *App
	h := testutil.Start(t, func() sio.App {
		app = f().(*App)
		return app
	}, nil)

	for _, r := range app.Renderers {
		r.Camera.Position = r.Camera.Position.Scale(10)
	}
	r := h.Trigger(ResetCamera)
	h.NoErrors(r)
	for i, rr := range app.Renderers {
		if !testutil.Updated(r, ViewID(i)) {
			t.Fatal(i)
		}
		if d := rr.Camera.Position.Sub(rr.Camera.FocalPoint).Norm(); 10 < d {
			t.Fatal(i, d)
		}
	}
}
