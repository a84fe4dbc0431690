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

// Package selection links a volume's points to a scatter chart of
// their values.
//
// Selecting points in the chart highlights them in the 3-D view.  A
// box drawn over the 3-D view selects the points it covers in the
// chart.
package selection

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/viz/plotly"
	"github.com/Comcast/vizcrew/viz/scene"
	"github.com/Comcast/vizcrew/widget"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

const (
	XKey        = "scatter_x"
	YKey        = "scatter_y"
	FieldsKey   = "field_names"
	SelectedKey = "selected_indices"
	BoxKey      = "vtk_selection"

	ViewID  = "view"
	ChartID = "chart"

	ChartSelection = "on_chart_selection"
	BoxSelection   = "on_box_selection"
	ResetCamera    = "reset_camera"
)

// Columns gives each point array, and each point coordinate as
// "Points_0" etc., one value per point of the volume.  The names come
// back sorted with the arrays first.
func Columns(im *scene.ImageData) ([]string, map[string][]float64) {
	cols := make(map[string][]float64, len(im.PointData)+3)
	names := make([]string, 0, len(im.PointData)+3)
	for name, xs := range im.PointData {
		cols[name] = xs
		names = append(names, name)
	}
	sort.Strings(names)

	n := im.NumPoints()
	for axis := 0; axis < 3; axis++ {
		cols[coord(axis)] = make([]float64, n)
		names = append(names, coord(axis))
	}
	for k := 0; k < im.Dims[2]; k++ {
		for j := 0; j < im.Dims[1]; j++ {
			for i := 0; i < im.Dims[0]; i++ {
				p := im.Point(i, j, k)
				idx := im.Index(i, j, k)
				for axis := 0; axis < 3; axis++ {
					cols[coord(axis)][idx] = p[axis]
				}
			}
		}
	}
	return names, cols
}

func coord(axis int) string {
	return fmt.Sprintf("Points_%d", axis)
}

// Indices converts a list of point indexes from the client.
func Indices(x interface{}) ([]int, bool) {
	switch vv := x.(type) {
	case nil:
		return []int{}, true
	case []int:
		return vv, true
	case []interface{}:
		acc := make([]int, 0, len(vv))
		for _, y := range vv {
			n, ok := core.AsInt(y)
			if !ok {
				return nil, false
			}
			acc = append(acc, n)
		}
		return acc, true
	}
	return nil, false
}

// BadSelection reports a box selection event that can't be used.
type BadSelection struct {
	Reason string
}

func (e *BadSelection) Error() string {
	return "bad box selection: " + e.Reason
}

// CameraState is the client's camera.
type CameraState struct {
	Position   []float64 `mapstructure:"position"`
	FocalPoint []float64 `mapstructure:"focalPoint"`
	ViewUp     []float64 `mapstructure:"viewUp"`
	ViewAngle  float64   `mapstructure:"viewAngle"`
}

// Box is a box selection event:
//
//	{"mode": "local", "camera": {...}, "size": [w, h], "selection": [x0, x1, y0, y1]}
//
// Without a camera, the server's camera is used.
type Box struct {
	Mode      string       `mapstructure:"mode"`
	Camera    *CameraState `mapstructure:"camera"`
	Size      []float64    `mapstructure:"size"`
	Selection []float64    `mapstructure:"selection"`
}

// DecodeBox reads a Box from a trigger argument.
func DecodeBox(x interface{}) (*Box, error) {
	var b Box
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &b,
	})
	if err != nil {
		return nil, err
	}
	if err := d.Decode(x); err != nil {
		return nil, &BadSelection{
			Reason: err.Error(),
		}
	}
	if len(b.Size) != 2 {
		return nil, &BadSelection{
			Reason: fmt.Sprintf("size %v", b.Size),
		}
	}
	if len(b.Selection) != 4 {
		return nil, &BadSelection{
			Reason: fmt.Sprintf("selection %v", b.Selection),
		}
	}
	if c := b.Camera; c != nil && (len(c.Position) != 3 || len(c.FocalPoint) != 3 || len(c.ViewUp) != 3) {
		return nil, &BadSelection{
			Reason: "camera needs position, focalPoint, and viewUp",
		}
	}
	return &b, nil
}

func vec(xs []float64) scene.Vec3 {
	return scene.Vec3{xs[0], xs[1], xs[2]}
}

// Select returns the ids of the points of the volume visible from the
// camera that fall in the box.
func (b *Box) Select(im *scene.ImageData, cam *scene.Camera) []int {
	if c := b.Camera; c != nil {
		cam = &scene.Camera{
			Position:   vec(c.Position),
			FocalPoint: vec(c.FocalPoint),
			ViewUp:     vec(c.ViewUp),
			ViewAngle:  c.ViewAngle,
		}
	}
	x0, x1 := math.Min(b.Selection[0], b.Selection[1]), math.Max(b.Selection[0], b.Selection[1])
	y0, y1 := math.Min(b.Selection[2], b.Selection[3]), math.Max(b.Selection[2], b.Selection[3])

	acc := []int{}
	nx, ny := im.Dims[0], im.Dims[1]
	for _, id := range scene.FacingPoints(im, cam.Position) {
		p := im.Point(id%nx, (id/nx)%ny, id/(nx*ny))
		x, y, ok := cam.Project(p, b.Size[0], b.Size[1])
		if ok && x0 <= x && x <= x1 && y0 <= y && y <= y1 {
			acc = append(acc, id)
		}
	}
	return acc
}

// New computes the volume and its columns, which sessions share.
func New(env *sio.Env) (sio.Factory, error) {
	src := scene.NewWaveletSource()
	im, err := src.Volume()
	if err != nil {
		return nil, err
	}
	names, cols := Columns(im)
	logger := env.Log("selection")
	return func() sio.App {
		return &App{
			Source:  src,
			Names:   names,
			Columns: cols,
			logger:  logger,
		}
	}, nil
}

type App struct {
	Source  *scene.WaveletSource
	Names   []string
	Columns map[string][]float64

	Renderer  *scene.Renderer
	Surface   *scene.Actor
	Extract   *scene.ExtractPoints
	Selection *scene.Actor

	view, chart *widget.View
	logger      hclog.Logger
}

func (a *App) Build(ctx context.Context, s *sio.Session) (*widget.Node, error) {
	a.Surface = scene.NewActor("surface", scene.NewMapper(scene.NewSurfaceFilter(a.Source)))
	a.Surface.Property.Opacity = 0.5

	a.Extract = scene.NewExtractPoints(a.Source)
	a.Selection = scene.NewActor("selection", scene.NewMapper(a.Extract))
	a.Selection.Property.SetMode(scene.AsPoints)
	a.Selection.Property.Color = scene.Vec3{1, 0, 1}
	a.Selection.Visibility = false

	a.Renderer = scene.NewRenderer().Add(a.Surface, a.Selection)
	a.Renderer.Background = scene.Vec3{1, 1, 1}
	if err := a.Renderer.ResetCamera(); err != nil {
		return nil, err
	}

	st := s.Store
	st.Init(core.Bindings{
		XKey:        a.Names[0],
		YKey:        a.Names[1],
		FieldsKey:   a.Names,
		SelectedKey: []int{},
		BoxKey:      false,
	})

	a.view = s.View(ViewID, widget.KindScene)
	a.view.Node().
		Bind("boxSelection", BoxKey).
		On("boxSelectionChange", BoxSelection)
	a.chart = s.View(ChartID, widget.KindPlotly)
	a.chart.Node().
		Propm("displayModeBar", true).
		On("selected", ChartSelection)

	s.Ctrl.Set(ResetCamera, func(ctx context.Context, _ []interface{}) error {
		if err := a.Renderer.ResetCamera(); err != nil {
			return err
		}
		return a.push()
	})
	s.Ctrl.Set(ChartSelection, func(ctx context.Context, args []interface{}) error {
		var x interface{}
		if 0 < len(args) {
			x = args[0]
		}
		ids, ok := Indices(x)
		if !ok {
			return fmt.Errorf("bad point indexes: %v", x)
		}
		return st.Set(ctx, SelectedKey, ids)
	})
	s.Ctrl.Set(BoxSelection, func(ctx context.Context, args []interface{}) error {
		// Selection mode ends with each box.
		err := a.boxSelect(ctx, st, args)
		return multierror.Append(err, st.Set(ctx, BoxKey, false)).ErrorOrNil()
	})

	page := widget.SinglePage("Volume & Chart Cross-Selection")
	page.Icon.On("click", ResetCamera)
	page.Toolbar.Add(
		widget.Spacer(),
		widget.SelectFrom(YKey, "Y axis", FieldsKey),
		widget.SelectFrom(XKey, "X axis", FieldsKey),
		widget.Checkbox(BoxKey, "Box selection").Propm(
			"onIcon", "mdi-selection-drag",
			"offIcon", "mdi-rotate-3d",
		),
	)
	page.Content.Add(widget.Container(
		widget.Row(
			widget.Col(6, a.view.Node()),
			widget.Col(6, a.chart.Node()),
		).Prop("class", "fill-height"),
	))

	if _, err := st.WatchNow(ctx, "update_figure", []string{XKey, YKey}, func(ctx context.Context, st *core.Store, bs core.Bindings) error {
		x, _ := bs.String(XKey)
		y, _ := bs.String(YKey)
		sel, _ := st.Get(SelectedKey)
		ids, _ := Indices(sel)
		return a.plot(x, y, ids)
	}); err != nil {
		return nil, err
	}
	if _, err := st.WatchNow(ctx, "update_selection", []string{SelectedKey}, func(ctx context.Context, st *core.Store, bs core.Bindings) error {
		ids, ok := Indices(bs[SelectedKey])
		if !ok {
			return fmt.Errorf("bad %s: %v", SelectedKey, bs[SelectedKey])
		}
		a.Extract.IDs = ids
		a.Selection.Visibility = 0 < len(ids)
		return a.push()
	}); err != nil {
		return nil, err
	}
	return page.Node(), nil
}

func (a *App) boxSelect(ctx context.Context, st *core.Store, args []interface{}) error {
	if len(args) == 0 {
		return &BadSelection{
			Reason: "no event",
		}
	}
	b, err := DecodeBox(args[0])
	if err != nil {
		return err
	}
	im, err := a.Source.Volume()
	if err != nil {
		return err
	}
	ids := b.Select(im, a.Renderer.Camera)
	a.logger.Debug("box selection", "mode", b.Mode, "points", len(ids))
	if err := st.Set(ctx, SelectedKey, ids); err != nil {
		return err
	}
	return a.plot(st.GetString(XKey), st.GetString(YKey), ids)
}

// UnknownField reports a chart axis that isn't a column.
type UnknownField struct {
	Name string
}

func (e *UnknownField) Error() string {
	return fmt.Sprintf("no field named %q", e.Name)
}

func (a *App) plot(x, y string, selected []int) error {
	xs, have := a.Columns[x]
	if !have {
		return &UnknownField{
			Name: x,
		}
	}
	ys, have := a.Columns[y]
	if !have {
		return &UnknownField{
			Name: y,
		}
	}
	fig := plotly.NewFigure(plotly.Selectable(xs, ys, selected)).
		Set("xaxis", map[string]interface{}{"title": map[string]string{"text": x}}).
		Set("yaxis", map[string]interface{}{"title": map[string]string{"text": y}}).
		Set("dragmode", "select").
		Margin(40, 10, 10, 40)
	return a.chart.Update(fig.Artifact())
}

func (a *App) push() error {
	art, err := a.Renderer.Artifact()
	if err != nil {
		return err
	}
	return a.view.Update(art)
}
