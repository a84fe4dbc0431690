// Package mapping shows San Francisco bike and BART data as
// selectable deck.gl layers.
package mapping

import (
	"context"
	"fmt"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/dataset"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/viz/deck"
	"github.com/Comcast/vizcrew/widget"

	"github.com/hashicorp/go-hclog"
)

const (
	ActiveKey = "activeLayers"
	MapView   = "deck"

	BikeRentals = "Bike Rentals"
	BartExits   = "Bart Stop Exits"
	BartNames   = "Bart Stop Names"
	Outbound    = "Outbound Flow"
)

// DataURL is where the data files live.
var DataURL = "https://raw.githubusercontent.com/streamlit/example-data/master/hello/v1/"

// LayerNames are the layers in display order.  All are active by
// default.
var LayerNames = []string{BikeRentals, BartExits, BartNames, Outbound}

// InitialView looks at San Francisco.
var InitialView = deck.ViewState{
	Latitude:  37.76,
	Longitude: -122.4,
	Zoom:      11,
	Pitch:     50,
}

var red = []int{200, 30, 0, 160}

// Layers fetches the data files and makes every layer.
//
// A file that can't be loaded gives a layer without data.
func Layers(ctx context.Context, l *dataset.Loader, base string) map[string]*deck.Layer {
	load := func(name string, columns ...string) []map[string]interface{} {
		src := base + name
		f, err := l.LoadJSON(ctx, src, columns...)
		return l.Fallback(src, f, err, columns...).Records()
	}
	bikes := load("bike_rental_stats.json", "lat", "lon")
	stops := load("bart_stop_stats.json", "name", "lat", "lon", "exits")
	paths := load("bart_path_stats.json", "lat", "lon", "lat2", "lon2", "outbound")

	position := deck.Accessor("lon", "lat")
	return map[string]*deck.Layer{
		BikeRentals: deck.HexagonLayer("bike-rentals", bikes, position).Setm(
			"radius", 200,
			"elevationScale", 4,
			"elevationRange", []int{0, 1000},
		),
		BartExits: deck.ScatterplotLayer("bart-stop-exits", stops, position).Setm(
			"getFillColor", red,
			"getRadius", deck.Accessor("exits"),
			"radiusScale", 0.05,
		),
		BartNames: deck.TextLayer("bart-stop-names", stops, position, deck.Accessor("name")).Setm(
			"getColor", []int{0, 0, 0, 200},
			"getSize", 15,
			"getAlignmentBaseline", "bottom",
		),
		Outbound: deck.ArcLayer("outbound-flow", paths, position, deck.Accessor("lon2", "lat2")).Setm(
			"getSourceColor", red,
			"getTargetColor", red,
			"autoHighlight", true,
			"widthScale", 0.0001,
			"getWidth", deck.Accessor("outbound"),
			"widthMinPixels", 3,
			"widthMaxPixels", 30,
		),
	}
}

// New loads the layers' data.
func New(env *sio.Env) (sio.Factory, error) {
	return NewFrom(env, DataURL)
}

// NewFrom loads the data files relative to base.
func NewFrom(env *sio.Env, base string) (sio.Factory, error) {
	layers := Layers(context.Background(), env.Loader, base)
	apiKey := env.Conf.MapboxAPIKey
	logger := env.Log("mapping")
	return func() sio.App {
		return &App{
			Layers: layers,
			APIKey: apiKey,
			logger: logger,
		}
	}, nil
}

// App is one session's map.
type App struct {
	Layers map[string]*deck.Layer
	APIKey string

	logger hclog.Logger
	view   *widget.View
}

// Deck makes the map with the named layers (in display order).
// Unknown names are ignored.
func (a *App) Deck(active []string) *deck.Deck {
	vs := InitialView
	d := deck.New(&vs, deck.StyleLight, a.APIKey, nil)
	want := make(map[string]bool, len(active))
	for _, name := range active {
		want[name] = true
	}
	for _, name := range LayerNames {
		if want[name] {
			d.Add(a.Layers[name])
		}
	}
	return d
}

func (a *App) Build(ctx context.Context, s *sio.Session) (*widget.Node, error) {
	st := s.Store
	st.Init(core.Bindings{
		ActiveKey:          append([]string(nil), LayerNames...),
		"available_layers": LayerNames,
	})
	a.view = s.View(MapView, widget.KindDeck)

	page := widget.SinglePage("Deck.gl Mapping Demo").HideIcon()
	page.Toolbar.Add(
		widget.Spacer(),
		widget.SelectFrom(ActiveKey, "Select Layers", "available_layers").Propm(
			"multiple", true,
			"chips", true,
		),
	)
	page.Content.Add(a.view.Node())

	if _, err := st.WatchNow(ctx, "update_map", []string{ActiveKey}, a.update); err != nil {
		return nil, err
	}
	return page.Node(), nil
}

func (a *App) update(ctx context.Context, st *core.Store, bs core.Bindings) error {
	active, ok := bs.Strings(ActiveKey)
	if !ok {
		return fmt.Errorf("bad %s: %v", ActiveKey, bs[ActiveKey])
	}
	d := a.Deck(active)
	if len(d.Layers) == 0 {
		a.logger.Info("No layers selected. Map cleared.")
	}
	return a.view.Update(d.Artifact())
}
