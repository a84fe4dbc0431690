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

// Package multifilter shows a volume's surface and a contour of it,
// each with its own representation, coloring, and opacity.
package multifilter

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
	Title  = "VTK Multi-Filter Application"
	ViewID = "view"

	Mesh    = "mesh"
	Contour = "contour"

	ActiveUI     = "active_ui"
	CubeAxesKey  = "cube_axes_visibility"
	ContourBy    = "contour_by_array_value"
	ContourValue = "contour_value"
	ItemsKey     = "pipeline_items"
)

// Settings are each pipeline's own settings.
var Settings = []string{"representation", "color_array_value", "color_preset", "opacity", "visible"}

// Key is the state key for a pipeline's setting.
func Key(pipeline, setting string) string {
	return pipeline + "_" + setting
}

// ArrayOption is an array as offered for selection.
type ArrayOption struct {
	Title string            `json:"title"`
	Value string            `json:"value"`
	Range [2]float64        `json:"range"`
	Type  scene.Association `json:"type"`

	Info scene.ArrayInfo `json:"-"`
}

func options(infos []scene.ArrayInfo) []ArrayOption {
	acc := make([]ArrayOption, 0, len(infos))
	for _, info := range infos {
		acc = append(acc, ArrayOption{
			Title: info.Name,
			Value: info.Key(),
			Range: info.Range,
			Type:  info.Association,
			Info:  info,
		})
	}
	return acc
}

// Dataset is the shared, read-only input.
type Dataset struct {
	Source *scene.WaveletSource

	// Arrays are every array.  PointArrays are the ones a contour
	// can be computed from (and colored by).
	Arrays      []ArrayOption
	PointArrays []ArrayOption
}

func NewDataset() (*Dataset, error) {
	src := scene.NewWaveletSource()
	im, err := src.Volume()
	if err != nil {
		return nil, err
	}
	d := &Dataset{
		Source: src,
		Arrays: options(im.Arrays()),
	}
	for _, o := range d.Arrays {
		if o.Type == scene.Points {
			d.PointArrays = append(d.PointArrays, o)
		}
	}
	if len(d.PointArrays) == 0 {
		return nil, fmt.Errorf("no point arrays")
	}
	return d, nil
}

// UnknownOption occurs when a selected array isn't offered.
type UnknownOption struct {
	Value string
}

func (e *UnknownOption) Error() string {
	return fmt.Sprintf("unknown array %q", e.Value)
}

func find(opts []ArrayOption, x interface{}) (ArrayOption, error) {
	v, _ := x.(string)
	for _, o := range opts {
		if o.Value == v {
			return o, nil
		}
	}
	return ArrayOption{}, &UnknownOption{
		Value: fmt.Sprintf("%v", x),
	}
}

func New(env *sio.Env) (sio.Factory, error) {
	d, err := NewDataset()
	if err != nil {
		return nil, err
	}
	logger := env.Log("multifilter")
	return func() sio.App {
		return &App{
			Dataset: d,
			logger:  logger,
		}
	}, nil
}

// Pipeline is one of the displayed actors.
type Pipeline struct {
	ID     string
	Name   string
	Prefix string
	Actor  *scene.Actor

	// Arrays that can color this pipeline.
	Arrays []ArrayOption
}

// App is one session's pipelines.
type App struct {
	Dataset *Dataset

	Filter    *scene.ContourFilter
	Renderer  *scene.Renderer
	Pipelines []*Pipeline

	logger hclog.Logger
	view   *widget.View
}

type setter func(ctx context.Context, st *core.Store, x interface{}) error

func (a *App) Build(ctx context.Context, s *sio.Session) (*widget.Node, error) {
	d := a.Dataset
	im, err := d.Source.Volume()
	if err != nil {
		return nil, err
	}

	def := d.PointArrays[0]
	a.Filter = scene.NewContourFilter(d.Source, def.Info.Name, mid(def.Range))
	mesh := &Pipeline{
		ID:     "1",
		Name:   "Mesh",
		Prefix: Mesh,
		Actor:  scene.NewActor(Mesh, scene.NewMapper(scene.NewSurfaceFilter(d.Source))),
		Arrays: d.Arrays,
	}
	contour := &Pipeline{
		ID:     "2",
		Name:   "Contour",
		Prefix: Contour,
		Actor:  scene.NewActor(Contour, scene.NewMapper(a.Filter)),
		Arrays: d.PointArrays,
	}
	a.Pipelines = []*Pipeline{mesh, contour}

	a.Renderer = scene.NewRenderer().Add(mesh.Actor, contour.Actor)
	a.Renderer.Axes = scene.NewCubeAxes(im.Bounds())
	if err := a.Renderer.ResetCamera(); err != nil {
		return nil, err
	}

	init := core.Bindings{
		ActiveUI:          Mesh,
		CubeAxesKey:       true,
		"drawer":          true,
		"dataset_arrays":  d.Arrays,
		"contour_arrays":  d.PointArrays,
		"representations": scene.Representations,
		"lut_options":     scene.Presets,
		"active_ui_options": []map[string]string{
			{"title": "Mesh", "value": Mesh},
			{"title": "Contour", "value": Contour},
		},
		ContourBy:      def.Value,
		ContourValue:   mid(def.Range),
		"contour_min":  def.Range[0],
		"contour_max":  def.Range[1],
		"contour_step": step(def.Range),
	}
	for _, p := range a.Pipelines {
		init[Key(p.Prefix, "representation")] = int(scene.AsSurface)
		init[Key(p.Prefix, "color_array_value")] = def.Value
		init[Key(p.Prefix, "color_preset")] = int(scene.Rainbow)
		init[Key(p.Prefix, "opacity")] = 1.0
		init[Key(p.Prefix, "visible")] = true
	}
	init[ItemsKey] = a.items(init)

	st := s.Store
	st.Init(init)
	a.view = s.View(ViewID, widget.KindScene)

	// Settings in the order they're first applied.
	keys := []string{CubeAxesKey}
	setters := map[string]setter{
		CubeAxesKey: a.setCubeAxes,
		ContourBy:   a.setContourBy,
		ContourValue: func(ctx context.Context, st *core.Store, x interface{}) error {
			v, ok := core.AsFloat(x)
			if !ok {
				return fmt.Errorf("bad %s: %v", ContourValue, x)
			}
			a.Filter.SetValue(0, v)
			return nil
		},
	}
	for _, p := range a.Pipelines {
		fs := a.pipelineSetters(p)
		for _, setting := range Settings {
			k := Key(p.Prefix, setting)
			keys = append(keys, k)
			setters[k] = fs[setting]
		}
	}
	keys = append(keys, ContourBy, ContourValue)

	for _, k := range keys {
		x, _ := st.Get(k)
		if err := setters[k](ctx, st, x); err != nil {
			return nil, err
		}
	}
	for _, k := range keys {
		f := setters[k]
		if _, err := st.Watch("on_"+k, []string{k}, func(ctx context.Context, st *core.Store, bs core.Bindings) error {
			if err := f(ctx, st, bs[k]); err != nil {
				return err
			}
			return a.push()
		}); err != nil {
			return nil, err
		}
	}

	s.Ctrl.Set("reset_camera", func(ctx context.Context, _ []interface{}) error {
		if err := a.Renderer.ResetCamera(); err != nil {
			return err
		}
		return a.push()
	})
	s.Ctrl.Set("visibility_change", func(ctx context.Context, args []interface{}) error {
		id, visible, err := visibilityEvent(args)
		if err != nil {
			return err
		}
		p := a.pipeline(id)
		if p == nil {
			return fmt.Errorf("unknown pipeline %q", id)
		}
		return st.Set(ctx, Key(p.Prefix, "visible"), visible)
	})
	s.Ctrl.Set("actives_change", func(ctx context.Context, args []interface{}) error {
		if len(args) == 0 {
			return nil
		}
		ids, _ := core.AsStrings(args[0])
		if id, is := args[0].(string); is {
			ids = []string{id}
		}
		if len(ids) == 0 {
			return nil
		}
		if p := a.pipeline(ids[0]); p != nil {
			return st.Set(ctx, ActiveUI, p.Prefix)
		}
		return st.Set(ctx, ActiveUI, nil)
	})

	if err := a.push(); err != nil {
		return nil, err
	}
	return a.page(), nil
}

func (a *App) pipelineSetters(p *Pipeline) map[string]setter {
	actor := p.Actor
	return map[string]setter{
		"representation": func(ctx context.Context, st *core.Store, x interface{}) error {
			mode, ok := core.AsInt(x)
			if !ok || mode < int(scene.AsPoints) || int(scene.AsSurfaceWithEdges) < mode {
				return fmt.Errorf("bad representation: %v", x)
			}
			actor.Property.SetMode(scene.Representation(mode))
			return nil
		},
		"color_array_value": func(ctx context.Context, st *core.Store, x interface{}) error {
			o, err := find(p.Arrays, x)
			if err != nil {
				return err
			}
			actor.Mapper.ColorByArray(o.Info)
			return nil
		},
		"color_preset": func(ctx context.Context, st *core.Store, x interface{}) error {
			preset, ok := core.AsInt(x)
			if !ok || preset < int(scene.Rainbow) || int(scene.InvGreyscale) < preset {
				return fmt.Errorf("bad preset: %v", x)
			}
			actor.Mapper.LookupTable.Apply(scene.Preset(preset))
			return nil
		},
		"opacity": func(ctx context.Context, st *core.Store, x interface{}) error {
			v, ok := core.AsFloat(x)
			if !ok {
				return fmt.Errorf("bad opacity: %v", x)
			}
			actor.Property.Opacity = v
			return nil
		},
		"visible": func(ctx context.Context, st *core.Store, x interface{}) error {
			v, ok := x.(bool)
			if !ok {
				return fmt.Errorf("bad visibility: %v", x)
			}
			actor.Visibility = v
			return st.Set(ctx, ItemsKey, a.items(st.Snapshot()))
		},
	}
}

// setContourBy contours by the selected array starting at the middle
// of its range.
func (a *App) setContourBy(ctx context.Context, st *core.Store, x interface{}) error {
	o, err := find(a.Dataset.PointArrays, x)
	if err != nil {
		return err
	}
	a.Filter.Array = o.Info.Name
	a.Filter.SetValue(0, mid(o.Range))
	a.logger.Debug("contour by", "array", o.Info.Name, "range", o.Range)
	return st.Update(ctx, core.Bindings{
		"contour_min":  o.Range[0],
		"contour_max":  o.Range[1],
		"contour_step": step(o.Range),
		ContourValue:   mid(o.Range),
	})
}

func (a *App) setCubeAxes(ctx context.Context, st *core.Store, x interface{}) error {
	v, ok := x.(bool)
	if !ok {
		return fmt.Errorf("bad %s: %v", CubeAxesKey, x)
	}
	a.Renderer.Axes.Visibility = v
	return nil
}

func (a *App) pipeline(id string) *Pipeline {
	for _, p := range a.Pipelines {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// items describes the pipelines for display.
func (a *App) items(bs core.Bindings) []map[string]interface{} {
	acc := make([]map[string]interface{}, 0, len(a.Pipelines))
	parent := "0"
	for _, p := range a.Pipelines {
		visible, _ := bs.Bool(Key(p.Prefix, "visible"))
		acc = append(acc, map[string]interface{}{
			"id":      p.ID,
			"parent":  parent,
			"name":    p.Name,
			"visible": visible,
		})
		parent = p.ID
	}
	return acc
}

// visibilityEvent accepts either {id, visible} or id and visible.
func visibilityEvent(args []interface{}) (string, bool, error) {
	switch len(args) {
	case 1:
		m, ok := args[0].(map[string]interface{})
		if !ok {
			break
		}
		id, _ := m["id"].(string)
		visible, ok := m["visible"].(bool)
		if id == "" || !ok {
			break
		}
		return id, visible, nil
	case 2:
		id, _ := args[0].(string)
		visible, ok := args[1].(bool)
		if id == "" || !ok {
			break
		}
		return id, visible, nil
	}
	return "", false, fmt.Errorf("bad visibility event: %v", args)
}

func mid(r [2]float64) float64 {
	return (r[0] + r[1]) / 2
}

func step(r [2]float64) float64 {
	if d := r[1] - r[0]; 0 < d {
		return d / 100
	}
	return 0.01
}

func (a *App) push() error {
	art, err := a.Renderer.Artifact()
	if err != nil {
		return err
	}
	return a.view.Update(art)
}

func (a *App) page() *widget.Node {
	page := widget.SinglePageWithDrawer(Title, "drawer")
	page.Toolbar.Add(
		widget.Spacer(),
		widget.New("button").Prop("icon", "mdi-cube-outline").Bind("toggle", CubeAxesKey),
		widget.IconButton("mdi-crop-free", "reset_camera"),
	)

	controls := func(p *Pipeline) []*widget.Node {
		arrays := "dataset_arrays"
		if p.Prefix == Contour {
			arrays = "contour_arrays"
		}
		return []*widget.Node{
			widget.SelectFrom(Key(p.Prefix, "representation"), "Representation", "representations"),
			widget.SelectFrom(Key(p.Prefix, "color_array_value"), "Color by", arrays),
			widget.SelectFrom(Key(p.Prefix, "color_preset"), "Lookup table", "lut_options"),
			widget.Slider(Key(p.Prefix, "opacity"), 0, 1, 0.01).Prop("label", "Opacity"),
		}
	}

	for _, p := range a.Pipelines {
		page.Drawer.Add(widget.Switch(Key(p.Prefix, "visible"), p.Name))
	}
	page.Drawer.Add(
		widget.SelectFrom(ActiveUI, "Settings", "active_ui_options"),
		widget.RouterView(ActiveUI,
			widget.RouteTarget(Mesh, controls(a.Pipelines[0])...),
			widget.RouteTarget(Contour, append(controls(a.Pipelines[1]),
				widget.SelectFrom(ContourBy, "Contour by", "contour_arrays"),
				widget.Slider(ContourValue, 0, 1, 0.01).
					Bind("min", "contour_min").
					Bind("max", "contour_max").
					Bind("step", "contour_step"),
			)...),
		),
	)
	page.Content.Add(widget.Container(a.view.Node()))
	return page.Node()
}
