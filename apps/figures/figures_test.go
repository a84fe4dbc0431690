package figures

import (
	"errors"
	"testing"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/util/testutil"
	"github.com/Comcast/vizcrew/viz/figure"
)

func TestEveryFigureRenders(t *testing.T) {
	size := &figure.Size{
		Size: figure.Rect{Width: 400, Height: 300},
		DPI:  96,
	}
	if len(Options) != len(Figures) {
		t.Fatal(len(Options), len(Figures))
	}
	for _, o := range Options {
		t.Run(string(o.Value), func(t *testing.T) {
			a, err := Render(o.Value, size)
			if err != nil {
				t.Fatal(err)
			}
			img := a.Spec.(*figure.Image)
			if img.Width != 400 || img.Height != 300 {
				t.Fatal(img.Width, img.Height)
			}
		})
	}

	var uf *UnknownFigure
	if _, err := Render("Pie", nil); !errors.As(err, &uf) {
		t.Fatal(err)
	}
}

func TestSubplotTitles(t *testing.T) {
	f := Subplots(nil)
	if len(f.Plots) != 4 {
		t.Fatal(len(f.Plots))
	}
	for _, p := range f.Plots {
		if len(p.Title) != len("RGB = (0.00, 0.00, 0.00)") {
			t.Fatal(p.Title)
		}
	}
	// Seeded, so the same every time.
	if a, b := Subplots(nil).Plots[2].Title, f.Plots[2].Title; a != b {
		t.Fatal(a, b)
	}
}

func TestSession(t *testing.T) {
	f, err := New(testutil.Env(t, nil))
	if err != nil {
		t.Fatal(err)
	}
	h := testutil.Start(t, f, nil)
	h.NoErrors(h.Initial)

	spec := h.Spec(FigureView)
	if spec["width"] != float64(figure.DefaultWidth) {
		t.Fatal(spec["width"])
	}

	r := h.Set(core.Bindings{
		SizeKey: map[string]interface{}{
			"size":       map[string]interface{}{"width": 800, "height": 600},
			"dpi":        96,
			"pixelRatio": 2,
		},
	})
	h.NoErrors(r)
	if spec := h.Spec(FigureView); spec["width"] != float64(400) || spec["height"] != float64(300) {
		t.Fatal(spec["width"], spec["height"])
	}

	h.NoErrors(h.Set(core.Bindings{FigureKey: "MultiLines"}))
	if !testutil.Updated(h.Set(core.Bindings{FigureKey: "Subplots"}), FigureView) {
		t.Fatal("no update")
	}

	r = h.Set(core.Bindings{FigureKey: "Nope"})
	if len(r.Errors) != 1 {
		t.Fatal(r.Errors)
	}
	if spec := h.Spec(FigureView); len(spec) != 0 {
		t.Fatal("not cleared")
	}
}
