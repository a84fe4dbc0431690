// Package cone renders a cone whose resolution follows a slider.
package cone

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
	ResolutionKey = "resolution"
	ViewID        = "view"

	MinResolution = scene.MinConeResolution
	MaxResolution = scene.MaxConeResolution
)

func New(env *sio.Env) (sio.Factory, error) {
	logger := env.Log("cone")
	return func() sio.App {
		return &App{
			logger: logger,
		}
	}, nil
}

// App is one session's cone pipeline.
type App struct {
	Source   *scene.ConeSource
	Renderer *scene.Renderer

	logger hclog.Logger
	view   *widget.View
}

func (a *App) Build(ctx context.Context, s *sio.Session) (*widget.Node, error) {
	a.Source = scene.NewConeSource()
	a.Renderer = scene.NewRenderer().Add(scene.NewActor("cone", scene.NewMapper(a.Source)))
	if err := a.Renderer.ResetCamera(); err != nil {
		return nil, err
	}

	st := s.Store
	st.Init(core.Bindings{
		ResolutionKey: scene.DefaultConeResolution,
	})
	a.view = s.View(ViewID, widget.KindScene)

	s.Ctrl.Set("reset_resolution", func(ctx context.Context, _ []interface{}) error {
		return st.Set(ctx, ResolutionKey, scene.DefaultConeResolution)
	})
	s.Ctrl.Set("reset_camera", func(ctx context.Context, _ []interface{}) error {
		if err := a.Renderer.ResetCamera(); err != nil {
			return err
		}
		return a.push()
	})

	page := widget.SinglePage("Cone Application").HideIcon()
	page.Toolbar.Add(
		widget.Spacer(),
		widget.Slider(ResolutionKey, MinResolution, MaxResolution, 1).Prop("thumbLabel", true),
		widget.IconButton("mdi-undo", "reset_resolution"),
		widget.IconButton("mdi-camera", "reset_camera"),
	)
	page.Content.Add(widget.Container(a.view.Node()).Prop("fluid", true))

	if _, err := st.WatchNow(ctx, "update_resolution", []string{ResolutionKey}, a.update); err != nil {
		return nil, err
	}
	return page.Node(), nil
}

func (a *App) update(ctx context.Context, st *core.Store, bs core.Bindings) error {
	res, ok := bs.Int(ResolutionKey)
	if !ok {
		return fmt.Errorf("bad %s: %v", ResolutionKey, bs[ResolutionKey])
	}
	if clamped, ok := scene.ClampResolution(res); !ok {
		a.logger.Warn("resolution out of range", "resolution", res, "using", clamped)
		return st.Set(ctx, ResolutionKey, clamped)
	}
	a.Source.Resolution = res
	return a.push()
}

func (a *App) push() error {
	art, err := a.Renderer.Artifact()
	if err != nil {
		return err
	}
	return a.view.Update(art)
}
