package sio

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/widget"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

// counter displays a count in a view.
type counter struct {
	view *widget.View
}

func (c *counter) Build(ctx context.Context, s *Session) (*widget.Node, error) {
	st := s.Store
	st.Init(core.Bindings{
		"n":     0,
		"label": "count",
	})
	c.view = s.View("counter", widget.KindVega)

	st.WatchNow(ctx, "show", []string{"n"}, func(ctx context.Context, st *core.Store, bs core.Bindings) error {
		n, _ := bs.Int("n")
		return c.view.Update(widget.NewArtifact(widget.KindVega, map[string]interface{}{
			"n": n,
		}))
	})
	st.Watch("explode", []string{"n"}, func(ctx context.Context, st *core.Store, bs core.Bindings) error {
		if n, _ := bs.Int("n"); n == 13 {
			return errors.New("unlucky")
		}
		return nil
	})

	s.Ctrl.Add("inc", func(ctx context.Context, args []interface{}) error {
		return st.Set(ctx, "n", st.GetInt("n")+1)
	})

	return widget.Div(
		widget.Text("{{label}}: {{n}}"),
		widget.Slider("n", 0, 20, 1),
		widget.Button("+", "inc"),
		c.view.Node(),
	), nil
}

func newTestSession(t *testing.T) (*Session, *Chans) {
	cs := NewChans(8)
	s, err := NewSession(context.Background(), nil, &counter{}, cs, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s, cs
}

func spec(t *testing.T, a *widget.Artifact) string {
	js, err := json.Marshal(a.Spec)
	if err != nil {
		t.Fatal(err)
	}
	return string(js)
}

func TestSessionStart(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)

	r, err := s.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if r.Tree == nil {
		t.Fatal("no tree")
	}
	if r.Tree.Find("counter") == nil {
		t.Fatal("no view node")
	}
	if diff := cmp.Diff(core.Bindings{"n": 0, "label": "count"}, r.State); diff != "" {
		t.Fatal(diff)
	}
	if len(r.Updates) != 1 || r.Updates[0].ID != "counter" {
		t.Fatal(JS(r.Updates))
	}
	if got := spec(t, r.Updates[0].Artifact); got != `{"n":0}` {
		t.Fatal(got)
	}
	if len(r.Patches) != 1 || r.Patches[0].Value != "count: 0" {
		t.Fatal(r.Patches)
	}

	if _, err := s.Start(ctx); err == nil {
		t.Fatal("started twice")
	}
}

func TestSessionSetAndTrigger(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)
	if _, err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}

	r, err := s.ProcessMsg(ctx, map[string]interface{}{
		"op":    "set",
		"state": map[string]interface{}{"n": 5},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Updates) != 1 || spec(t, r.Updates[0].Artifact) != `{"n":5}` {
		t.Fatal(JS(r))
	}
	if len(r.Patches) != 1 || r.Patches[0].Value != "count: 5" {
		t.Fatal(r.Patches)
	}

	r, err = s.ProcessMsg(ctx, map[string]interface{}{
		"op":   "trigger",
		"name": "inc",
	})
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := core.AsInt(r.State["n"]); n != 6 {
		t.Fatal(JS(r.State))
	}
	a, have := s.Displayed("counter")
	if !have || spec(t, a) != `{"n":6}` {
		t.Fatal(a)
	}
}

func TestSessionSameValue(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)
	s.Start(ctx)

	set := map[string]interface{}{
		"op":    "set",
		"state": map[string]interface{}{"n": 0},
	}
	r, err := s.ProcessMsg(ctx, set)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Empty() {
		t.Fatal(JS(r))
	}
}

func TestSessionHandlerError(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)
	s.Start(ctx)

	r, err := s.ProcessMsg(ctx, map[string]interface{}{
		"op":    "set",
		"state": map[string]interface{}{"n": 13},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Errors) != 1 || !strings.Contains(r.Errors[0], "unlucky") {
		t.Fatal(r.Errors)
	}
	// The other handler still ran.
	if len(r.Updates) != 1 {
		t.Fatal(JS(r))
	}
}

func TestSessionTriggerPanic(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)
	var m map[string]int
	s.Ctrl.Add("boom", func(ctx context.Context, args []interface{}) error {
		m["x"] = 1
		return nil
	})
	s.Ctrl.Add("boom", func(ctx context.Context, args []interface{}) error {
		return s.Store.Set(ctx, "n", 7)
	})
	s.Ctrl.OnReady(func(ctx context.Context) error {
		panic("not ready")
	})
	s.Start(ctx)

	r, err := s.Ready(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Errors) != 1 || !strings.Contains(r.Errors[0], "not ready") {
		t.Fatal(r.Errors)
	}

	r, err = s.ProcessMsg(ctx, map[string]interface{}{"op": "trigger", "name": "boom"})
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Errors) != 1 || !strings.Contains(r.Errors[0], "panicked") {
		t.Fatal(r.Errors)
	}
	// The second trigger still ran.
	if n := s.Store.GetInt("n"); n != 7 {
		t.Fatal(n)
	}

	// The session keeps going.
	r, err = s.ProcessMsg(ctx, map[string]interface{}{"op": "trigger", "name": "inc"})
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Errors) != 0 || s.Store.GetInt("n") != 8 {
		t.Fatal(r.Errors)
	}
}

func TestSessionBadOps(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)
	s.Start(ctx)

	for _, msg := range []interface{}{
		map[string]interface{}{"op": "dance"},
		map[string]interface{}{"op": "trigger", "name": "nope"},
		"tacos",
	} {
		r, err := s.ProcessMsg(ctx, msg)
		if err != nil {
			t.Fatal(err)
		}
		if len(r.Errors) != 1 {
			t.Fatal(JS(msg), r.Errors)
		}
	}
}

func TestSessionHelloAndPing(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)
	s.Start(ctx)

	r, err := s.ProcessMsg(ctx, map[string]interface{}{"op": "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Tree == nil || len(r.State) != 2 || len(r.Updates) != 1 || len(r.Patches) != 1 {
		t.Fatal(JS(r))
	}

	if r, err = s.ProcessMsg(ctx, map[string]interface{}{"op": "ping"}); err != nil {
		t.Fatal(err)
	}
	if !r.Pong {
		t.Fatal(JS(r))
	}
}

func TestSessionInitialState(t *testing.T) {
	ctx := context.Background()
	cs := NewChans(8)
	cs.Initial = core.Bindings{"n": 7}
	s, err := NewSession(ctx, nil, &counter{}, cs, nil)
	if err != nil {
		t.Fatal(err)
	}
	r, err := s.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := core.AsInt(r.State["n"]); n != 7 {
		t.Fatal(JS(r.State))
	}
	if a, _ := s.Displayed("counter"); spec(t, a) != `{"n":7}` {
		t.Fatal(a)
	}
}

func TestSessionIsolation(t *testing.T) {
	ctx := context.Background()
	factory := Factory(func() App { return &counter{} })

	a, _ := NewSession(ctx, nil, factory(), NewChans(1), nil)
	b, _ := NewSession(ctx, nil, factory(), NewChans(1), nil)
	a.Start(ctx)
	b.Start(ctx)

	a.ProcessMsg(ctx, map[string]interface{}{
		"op":    "set",
		"state": map[string]interface{}{"n": 3},
	})
	if n := b.Store.GetInt("n"); n != 0 {
		t.Fatal(n)
	}
	if art, _ := b.Displayed("counter"); spec(t, art) != `{"n":0}` {
		t.Fatal(art)
	}
}

func TestSessionLoop(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, cs := newTestSession(t)
	s.Conf.HaltOnInputEOF = true

	done := make(chan error)
	go func() {
		done <- s.Loop(ctx)
	}()

	// Start and Ready (which has nothing to say).
	r := <-cs.Out
	if r.Tree == nil {
		t.Fatal(JS(r))
	}

	cs.In <- map[string]interface{}{"op": "trigger", "name": "inc"}
	r = <-cs.Out
	if n, _ := core.AsInt(r.State["n"]); n != 1 {
		t.Fatal(JS(r))
	}

	cs.Stop(ctx)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestStdio(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "state.json", []byte(`{"n":2}`), 0644)

	var out strings.Builder
	std := &Stdio{
		In: strings.NewReader(`# comment
{"op":"set","state":{"n":4}}

{"op":"ping"}
`),
		Out:                &out,
		Tags:               true,
		Fs:                 fs,
		StateInputFilename: "state.json",
	}

	s, err := NewSession(ctx, &SessionConf{HaltOnInputEOF: true}, &counter{}, std, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Loop(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	std.Stop(ctx)

	got := out.String()
	for _, want := range []string{
		`state {"label":"count","n":2}`,
		`state {"n":4}`,
		`patch {"id":`,
		"pong",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in\n%s", want, got)
		}
	}
}
