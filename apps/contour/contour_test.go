package contour

import (
	"math"
	"testing"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/util/testutil"
	"github.com/Comcast/vizcrew/viz/scene"
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

func TestVolume(t *testing.T) {
	vol, err := NewVolume()
	if err != nil {
		t.Fatal(err)
	}
	if !(vol.Range[0] < vol.Default() && vol.Default() < vol.Range[1]) {
		t.Fatal(vol.Range, vol.Default())
	}
	if got, want := vol.Step(), (vol.Range[1]-vol.Range[0])/100; got != want {
		t.Fatal(got, want)
	}
}

func TestInteractive(t *testing.T) {
	h, app := start(t)
	vol := app.Volume

	st := h.Session.Store
	if got := st.GetFloat(ValueKey); got != vol.Default() {
		t.Fatal(got)
	}
	actor := h.Spec(ViewID)["actors"].([]interface{})[0].(map[string]interface{})
	g := actor["geometry"].(map[string]interface{})
	if len(g["points"].([]interface{})) == 0 {
		t.Fatal("empty contour")
	}

	x := vol.Range[0] + 0.3*(vol.Range[1]-vol.Range[0])
	r := h.Set(core.Bindings{ValueKey: x})
	h.NoErrors(r)
	if !testutil.Updated(r, ViewID) {
		t.Fatal("no update")
	}
	if got := app.Filter.Values[0]; got != x {
		t.Fatal(got)
	}
}

func TestCommitOnRelease(t *testing.T) {
	h, app := start(t)
	vol := app.Volume

	h.NoErrors(h.Set(core.Bindings{InteractiveKey: false}))

	x := vol.Range[0] + 0.7*(vol.Range[1]-vol.Range[0])
	r := h.Set(core.Bindings{ValueKey: x})
	h.NoErrors(r)
	if testutil.Updated(r, ViewID) {
		t.Fatal("updated while dragging")
	}
	if got := app.Filter.Values[0]; got != vol.Default() {
		t.Fatal(got)
	}

	y := vol.Range[0] + 0.6*(vol.Range[1]-vol.Range[0])
	r = h.Trigger("commit_changes", y)
	h.NoErrors(r)
	if !testutil.Updated(r, ViewID) {
		t.Fatal("no update on commit")
	}
	if got := app.Filter.Values[0]; got != y {
		t.Fatal(got)
	}
	if got := h.Session.Store.GetFloat(ValueKey); got != y {
		t.Fatal(got)
	}
}

func TestReset(t *testing.T) {
	h, app := start(t)
	vol := app.Volume

	h.Set(core.Bindings{ValueKey: vol.Range[0] + vol.Step()})
	cam := app.Renderer.Camera
	cam.Position = cam.Position.Scale(10)

	r := h.Trigger("reset")
	h.NoErrors(r)
	if got := h.Session.Store.GetFloat(ValueKey); got != vol.Default() {
		t.Fatal(got)
	}
	if got := app.Filter.Values[0]; got != vol.Default() {
		t.Fatal(got)
	}
	if !testutil.Updated(r, ViewID) {
		t.Fatal("no update")
	}
	// Fitting the whole volume is the farthest a reset camera can be.
	im, _ := vol.Source.Volume()
	far := im.Bounds().Diagonal() / 2 / math.Sin(scene.DefaultViewAngle*math.Pi/360)
	if d := cam.Position.Sub(cam.FocalPoint).Norm(); far < d {
		t.Fatal(d)
	}
}
