package widget

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
)

type pushes struct {
	got []string
}

func (p *pushes) Push(id string, a *Artifact) {
	js, err := json.Marshal(a)
	if err != nil {
		panic(err)
	}
	p.got = append(p.got, id+" "+string(js))
}

func TestViewUpdateIdempotent(t *testing.T) {
	p := &pushes{}
	v := NewView("chart", KindPlotly, p)

	bar := NewArtifact(KindPlotly, map[string]interface{}{"data": []int{1, 3, 2}})

	if err := v.Update(bar); err != nil {
		t.Fatal(err)
	}
	if err := v.Update(bar); err != nil {
		t.Fatal(err)
	}
	if len(p.got) != 1 {
		t.Fatal(p.got)
	}

	want := `chart {"kind":"plotly","spec":{"data":[1,3,2]}}`
	if p.got[0] != want {
		t.Fatal(p.got[0])
	}

	v.Reset()
	v.Update(bar)
	if len(p.got) != 2 {
		t.Fatal(p.got)
	}
}

func TestViewMutationNeedsUpdate(t *testing.T) {
	p := &pushes{}
	v := NewView("scene", KindScene, p)

	spec := map[string]interface{}{"resolution": 6}
	v.Update(NewArtifact(KindScene, spec))

	spec["resolution"] = 12
	if len(p.got) != 1 {
		t.Fatal(p.got)
	}
	v.Update(NewArtifact(KindScene, spec))
	if len(p.got) != 2 {
		t.Fatal(p.got)
	}
	if p.got[0] == p.got[1] {
		t.Fatal("mutation leaked into the first push")
	}
}

func TestViewNil(t *testing.T) {
	p := &pushes{}
	v := NewView("chart", KindVega, p)
	if err := v.Update(nil); err != nil {
		t.Fatal(err)
	}
	if want := `chart {"kind":"vega","spec":{}}`; p.got[0] != want {
		t.Fatal(p.got[0])
	}

	orphan := NewView("orphan", KindVega, nil)
	if err := orphan.Update(nil); err != ErrNoPusher {
		t.Fatal(err)
	}
}

func TestController(t *testing.T) {
	ctx := context.Background()
	c := NewController()

	var calls []string
	c.Add("update_views", func(ctx context.Context, args []interface{}) error {
		calls = append(calls, "a")
		return nil
	})
	c.Add("update_views", func(ctx context.Context, args []interface{}) error {
		calls = append(calls, "b")
		return errors.New("b failed")
	})
	c.Add("update_views", func(ctx context.Context, args []interface{}) error {
		calls = append(calls, "c")
		return nil
	})

	err := c.Trigger(ctx, "update_views", nil)
	if diff := cmp.Diff([]string{"a", "b", "c"}, calls); diff != "" {
		t.Fatal(diff)
	}
	var me *multierror.Error
	if !errors.As(err, &me) || len(me.Errors) != 1 {
		t.Fatal(err)
	}

	var ut *UnknownTrigger
	if err := c.Trigger(ctx, "nope", nil); !errors.As(err, &ut) {
		t.Fatal(err)
	}

	readies := 0
	c.OnReady(func(context.Context) error {
		readies++
		return nil
	})
	c.Ready(ctx)
	c.Ready(ctx)
	if readies != 1 {
		t.Fatal(readies)
	}
}

func TestRoutes(t *testing.T) {
	rs := &Routes{}
	rs.Add("/", "home").Add("/foo", "foo").Add("/bar/:id", "bar")

	tests := []struct {
		path   string
		name   string
		params map[string]string
		ok     bool
	}{
		{"/", "home", map[string]string{}, true},
		{"", "home", map[string]string{}, true},
		{"/foo", "foo", map[string]string{}, true},
		{"/bar/2", "bar", map[string]string{"id": "2"}, true},
		{"/bar/3?x=1", "bar", map[string]string{"id": "3"}, true},
		{"/bar", "", nil, false},
		{"/baz/1", "", nil, false},
	}
	for _, tc := range tests {
		name, params, ok := rs.Resolve(tc.path)
		if name != tc.name || ok != tc.ok {
			t.Fatalf("%s: %s %v", tc.path, name, ok)
		}
		if diff := cmp.Diff(tc.params, params); diff != "" {
			t.Fatalf("%s: %s", tc.path, diff)
		}
	}
}

func TestNodeHelpers(t *testing.T) {
	l := SinglePage("Cone")
	l.Toolbar.Add(Spacer(), Slider("resolution", 3, 60, 1), IconButton("mdi-undo", "reset"))
	l.Content.Add(Text("Resolution {{ resolution }}").WithID("label"))
	root := l.Node()
	root.AssignIDs()

	if diff := cmp.Diff([]string{"resolution"}, root.BoundKeys()); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff([]string{"reset"}, root.Triggers()); diff != "" {
		t.Fatal(diff)
	}
	if n := root.Find("label"); n == nil || n.Content != "Resolution {{ resolution }}" {
		t.Fatal(n)
	}
	root.Walk(func(n *Node) bool {
		if n.ID == "" {
			t.Fatal("missing id")
		}
		return true
	})
}
