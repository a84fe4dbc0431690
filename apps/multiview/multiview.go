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

// Package multiview shows one cone in a dozen views.
//
// Every view's actor shares a single mapper, so changing the
// resolution changes every view.  The controller's "update_views" and
// "reset_camera" triggers fan out to all of the views.
package multiview

import (
	"context"
	"fmt"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/viz/scene"
	"github.com/Comcast/vizcrew/widget"
)

const (
	ResolutionKey = "resolution"

	// Columns is the number of views per row.
	Columns = 4

	UpdateViews = "update_views"
	ResetCamera = "reset_camera"
)

// Palette gives the backgrounds, used twice over.
var Palette = []scene.Vec3{
	{0.5, 0, 0}, {0, 0.5, 0}, {0, 0, 0.5},
	{0.5, 0, 0.5}, {0.5, 0.5, 0}, {0, 0.5, 0.5},
}

// Backgrounds has one color per view.
func Backgrounds() []scene.Vec3 {
	return append(append([]scene.Vec3(nil), Palette...), Palette...)
}

// ViewID names the i-th view.
func ViewID(i int) string {
	return fmt.Sprintf("view%d", i)
}

func New(env *sio.Env) (sio.Factory, error) {
	return func() sio.App {
		return &App{}
	}, nil
}

// App is one session's views.
type App struct {
	Source    *scene.ConeSource
	Mapper    *scene.Mapper
	Renderers []*scene.Renderer
}

func (a *App) Build(ctx context.Context, s *sio.Session) (*widget.Node, error) {
	a.Source = scene.NewConeSource()
	a.Mapper = scene.NewMapper(a.Source)

	st := s.Store
	st.Init(core.Bindings{
		ResolutionKey: scene.DefaultConeResolution,
	})

	grid := widget.Container().Propm("fluid", true, "class", "fill-height")
	var row *widget.Node
	for i, bg := range Backgrounds() {
		r := scene.NewRenderer().Add(scene.NewActor("cone", a.Mapper))
		r.Background = bg
		if err := r.ResetCamera(); err != nil {
			return nil, err
		}
		a.Renderers = append(a.Renderers, r)

		v := s.View(ViewID(i), widget.KindScene)
		s.Ctrl.Add(UpdateViews, func(ctx context.Context, _ []interface{}) error {
			return push(r, v)
		})
		s.Ctrl.Add(ResetCamera, func(ctx context.Context, _ []interface{}) error {
			if err := r.ResetCamera(); err != nil {
				return err
			}
			return push(r, v)
		})

		if i%Columns == 0 {
			row = widget.Row()
			grid.Add(row)
		}
		row.Add(widget.Col(12/Columns, v.Node()))
	}

	s.Ctrl.Set("reset_resolution", func(ctx context.Context, _ []interface{}) error {
		return st.Set(ctx, ResolutionKey, scene.DefaultConeResolution)
	})

	page := widget.SinglePage("Multi-View Cone")
	page.Icon.Prop("icon", "mdi-crop-free").On("click", ResetCamera)
	page.Toolbar.Add(
		widget.Spacer(),
		widget.Slider(ResolutionKey, scene.MinConeResolution, scene.MaxConeResolution, 1).Prop("thumbLabel", true),
		widget.IconButton("mdi-undo-variant", "reset_resolution"),
	)
	page.Content.Add(grid)

	if _, err := st.WatchNow(ctx, "update_resolution", []string{ResolutionKey}, func(ctx context.Context, st *core.Store, bs core.Bindings) error {
		res, ok := bs.Int(ResolutionKey)
		if !ok {
			return fmt.Errorf("bad %s: %v", ResolutionKey, bs[ResolutionKey])
		}
		if clamped, ok := scene.ClampResolution(res); !ok {
			return st.Set(ctx, ResolutionKey, clamped)
		}
		a.Source.Resolution = res
		return s.Ctrl.Trigger(ctx, UpdateViews, nil)
	}); err != nil {
		return nil, err
	}
	return page.Node(), nil
}

func push(r *scene.Renderer, v *widget.View) error {
	art, err := r.Artifact()
	if err != nil {
		return err
	}
	return v.Update(art)
}
