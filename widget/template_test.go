package widget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Comcast/vizcrew/core"

	"github.com/google/go-cmp/cmp"
)

func TestTemplateRender(t *testing.T) {
	ctx := context.Background()
	bs := core.Bindings{
		"title":      "Pickups",
		"resolution": 6,
		"with-dash":  "ignored as a global",
	}

	tests := []struct {
		src  string
		want string
	}{
		{"plain", "plain"},
		{"{{ title }}", "Pickups"},
		{"Resolution: {{ resolution * 2 }}!", "Resolution: 12!"},
		{"{{ _.bindings['with-dash'] }}", "ignored as a global"},
		{"{{ null }}x", "x"},
		{"{{ _.esc('a b') }}", "a+b"},
	}
	for _, tc := range tests {
		tmpl, err := ParseTemplate(tc.src)
		if err != nil {
			t.Fatal(err)
		}
		got, err := tmpl.Render(ctx, bs)
		if err != nil {
			t.Fatalf("%s: %s", tc.src, err)
		}
		if got != tc.want {
			t.Fatalf("%s: %q", tc.src, got)
		}
	}
}

func TestTemplateBad(t *testing.T) {
	for _, src := range []string{"{{ unterminated", "{{ }}", "{{ ( }}"} {
		_, err := ParseTemplate(src)
		var bt *BadTemplate
		if !errors.As(err, &bt) {
			t.Fatalf("%s: %v", src, err)
		}
	}
}

func TestTemplateInterrupted(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	tmpl, err := ParseTemplate("{{ (function(){ while (true) {} })() }}")
	if err != nil {
		t.Fatal(err)
	}
	if _, err = tmpl.Render(ctx, core.NewBindings()); err != Interrupted {
		t.Fatal(err)
	}
}

func TestPatches(t *testing.T) {
	ctx := context.Background()
	root := Div(
		Text("{{ n }} pickups").WithID("a"),
		New("card-title").WithID("b").Prop("subtitle", "at {{ hour }}:00").Prop("static", "x"),
		Text("{{ nope }}").WithID("c"),
	).WithID("root")

	e := NewTemplateEngine()
	ps, err := e.Patches(ctx, root, core.Bindings{"n": 3, "hour": 10})
	if err == nil {
		t.Fatal("expected an error for an undefined name")
	}
	want := []Patch{
		{ID: "a", Prop: "text", Value: "3 pickups"},
		{ID: "b", Prop: "subtitle", Value: "at 10:00"},
		{ID: "c", Prop: "text", Value: ""},
	}
	if diff := cmp.Diff(want, ps); diff != "" {
		t.Fatal(diff)
	}
}
