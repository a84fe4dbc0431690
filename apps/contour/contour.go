// Package contour shows an iso-surface of a wavelet volume.
//
// With interactive updates on, the surface follows the slider.
// Otherwise the new value is applied when the slider is released (the
// "commit_changes" trigger).
package contour

import (
	"context"
	"fmt"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/viz/scene"
	"github.com/Comcast/vizcrew/widget"

	"github.com/hashicorp/go-hclog"
)

const (
	ValueKey       = "contour_value"
	InteractiveKey = "interactive_update"
	ViewID         = "view"

	// Array is the contoured point array.
	Array = "RTData"
)

// Volume is the shared, read-only input.
type Volume struct {
	Source *scene.WaveletSource
	Range  [2]float64
}

// Default is the middle of the range.
func (v *Volume) Default() float64 {
	return (v.Range[0] + v.Range[1]) / 2
}

// Step is one percent of the range.
func (v *Volume) Step() float64 {
	return (v.Range[1] - v.Range[0]) / 100
}

// NewVolume computes the wavelet and its range.
func NewVolume() (*Volume, error) {
	src := scene.NewWaveletSource()
	im, err := src.Volume()
	if err != nil {
		return nil, err
	}
	xs, have := im.PointData[Array]
	if !have {
		return nil, &scene.UnknownArray{
			Name:        Array,
			Association: scene.Points,
		}
	}
	return &Volume{
		Source: src,
		Range:  scene.Range(xs),
	}, nil
}

func New(env *sio.Env) (sio.Factory, error) {
	vol, err := NewVolume()
	if err != nil {
		return nil, err
	}
	logger := env.Log("contour")
	logger.Debug("volume", "range", vol.Range)
	return func() sio.App {
		return &App{
			Volume: vol,
			logger: logger,
		}
	}, nil
}

// App is one session's contour pipeline.
type App struct {
	Volume   *Volume
	Filter   *scene.ContourFilter
	Renderer *scene.Renderer

	logger hclog.Logger
	view   *widget.View
}

func (a *App) Build(ctx context.Context, s *sio.Session) (*widget.Node, error) {
	vol := a.Volume
	a.Filter = scene.NewContourFilter(vol.Source, Array, vol.Default())
	a.Renderer = scene.NewRenderer().Add(scene.NewActor("contour", scene.NewMapper(a.Filter)))
	if err := a.Renderer.ResetCamera(); err != nil {
		return nil, err
	}

	st := s.Store
	st.Init(core.Bindings{
		ValueKey:       vol.Default(),
		InteractiveKey: true,
		"data_range":   []float64{vol.Range[0], vol.Range[1]},
	})
	a.view = s.View(ViewID, widget.KindScene)

	s.Ctrl.Set("commit_changes", func(ctx context.Context, args []interface{}) error {
		if 0 < len(args) {
			if x, ok := core.AsFloat(args[0]); ok {
				if err := st.Set(ctx, ValueKey, x); err != nil {
					return err
				}
			}
		}
		return a.apply(st.GetFloat(ValueKey))
	})
	s.Ctrl.Set("reset", func(ctx context.Context, _ []interface{}) error {
		if err := st.Set(ctx, ValueKey, vol.Default()); err != nil {
			return err
		}
		a.Filter.SetValue(0, vol.Default())
		if err := a.Renderer.ResetCamera(); err != nil {
			return err
		}
		return a.push()
	})
	s.Ctrl.Set("reset_camera", func(ctx context.Context, _ []interface{}) error {
		if err := a.Renderer.ResetCamera(); err != nil {
			return err
		}
		return a.push()
	})

	page := widget.SinglePage("Contour Application")
	page.Icon.Prop("icon", "mdi-crop-free").On("click", "reset_camera")
	page.Toolbar.Add(
		widget.Spacer(),
		widget.Switch(InteractiveKey, "Interactive"),
		widget.Slider(ValueKey, vol.Range[0], vol.Range[1], vol.Step()).
			Prop("thumbLabel", true).
			On("end", "commit_changes"),
		widget.IconButton("mdi-restore", "reset"),
	)
	page.Content.Add(widget.Container(a.view.Node()))

	if _, err := st.WatchNow(ctx, "update_contour", []string{ValueKey, InteractiveKey}, a.update); err != nil {
		return nil, err
	}
	return page.Node(), nil
}

func (a *App) update(ctx context.Context, st *core.Store, bs core.Bindings) error {
	x, ok := bs.Float(ValueKey)
	if !ok {
		return fmt.Errorf("bad %s: %v", ValueKey, bs[ValueKey])
	}
	if live, _ := bs.Bool(InteractiveKey); !live {
		a.logger.Trace("deferring", "value", x)
		return nil
	}
	return a.apply(x)
}

func (a *App) apply(x float64) error {
	if x < a.Volume.Range[0] || a.Volume.Range[1] < x {
		a.logger.Warn("contour value out of range", "value", x, "range", a.Volume.Range)
	}
	a.Filter.SetValue(0, x)
	return a.push()
}

func (a *App) push() error {
	art, err := a.Renderer.Artifact()
	if err != nil {
		return err
	}
	return a.view.Update(art)
}
