/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
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

package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/widget"

	"github.com/google/go-cmp/cmp"
)

func testWiring(t *testing.T) *Wiring {
	st := core.NewStore(nil, nil)
	st.Init(core.Bindings{"resolution": 6, "title": "Cone"})
	nop := func(context.Context, *core.Store, core.Bindings) error { return nil }
	if _, err := st.Watch("update_cone", []string{"resolution"}, nop); err != nil {
		t.Fatal(err)
	}

	ctrl := widget.NewController()
	ctrl.Add("reset_resolution", func(context.Context, []interface{}) error { return nil })

	tree := widget.Div(
		widget.Slider("resolution", 3, 60, 1).WithID("slider"),
		widget.IconButton("mdi-undo", "reset_resolution").WithID("reset"),
	)
	return NewWiring(st, ctrl, tree)
}

func TestWiring(t *testing.T) {
	w := testWiring(t)
	if diff := cmp.Diff([]string{"title"}, w.Unwatched()); diff != "" {
		t.Fatal(diff)
	}
	if len(w.Bindings) != 1 || w.Bindings[0].Key != "resolution" {
		t.Fatal(w.Bindings)
	}
	want := []Event{{Widget: "reset", Type: "button", Event: "click", Trigger: "reset_resolution"}}
	if diff := cmp.Diff(want, w.Events); diff != "" {
		t.Fatal(diff)
	}
}

func TestMermaid(t *testing.T) {
	var b strings.Builder
	if err := Mermaid(testWiring(t), &b, nil); err != nil {
		t.Fatal(err)
	}
	s := b.String()
	for _, want := range []string{
		"graph LR\n",
		`(("resolution"))`,
		`["update_cone"]`,
		`{{"reset_resolution"}}`,
		`(("title"))`,
		`-. "click" .->`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %s in\n%s", want, s)
		}
	}
}

func TestDot(t *testing.T) {
	var b strings.Builder
	if err := Dot(testWiring(t), &b, "resolution"); err != nil {
		t.Fatal(err)
	}
	s := b.String()
	if !strings.HasPrefix(s, "digraph G {") || !strings.HasSuffix(s, "}\n") {
		t.Fatal(s)
	}
	if !strings.Contains(s, `"key:resolution" -> "handler:update_cone" [color="red"]`) {
		t.Fatal(s)
	}
}
