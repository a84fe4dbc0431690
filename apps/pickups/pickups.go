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

// Package pickups explores NYC Uber pickups by hour with four
// hexagon maps and a per-minute histogram.
package pickups

import (
	"context"
	"fmt"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/dataset"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/viz/deck"
	"github.com/Comcast/vizcrew/viz/vega"
	"github.com/Comcast/vizcrew/widget"

	"github.com/hashicorp/go-hclog"
)

const (
	DateTime    = "date/time"
	DefaultHour = 10
	NRows       = 100000

	// HourKey holds the selected hour.
	HourKey = "pickup_hour"

	ChartView = "hour_histogram"

	NoKeyMessage = "MAPBOX_API_KEY is not set. Maps will not render. Please set the environment variable and restart."
)

// DataURL is the September 2014 pickups.
var DataURL = "http://s3-us-west-2.amazonaws.com/streamlit-demo-data/uber-raw-data-sep14.csv.gz"

// Fallback center when the data didn't load.
var (
	FallbackLat = 40.730610
	FallbackLon = -73.935242
)

// Map is one of the displayed maps.
type Map struct {
	ID       string
	TitleKey string
	Title    string
	Lat, Lon float64
	Zoom     float64

	// Hourly maps include the hour in their title.
	Hourly bool
}

// View is the map's view id.
func (m *Map) View() string {
	return "deck_" + m.ID
}

// Maps returns the map definitions with NYC centered at the given
// location.
func Maps(lat, lon float64) []*Map {
	return []*Map{
		{ID: "nyc", TitleKey: "nycTitle", Title: "New York City - Pickups", Lat: lat, Lon: lon, Zoom: 10, Hourly: true},
		{ID: "jfk", TitleKey: "jfkTitle", Title: "JFK Airport", Lat: 40.6413, Lon: -73.7781, Zoom: 11},
		{ID: "lga", TitleKey: "lgaTitle", Title: "LaGuardia Airport", Lat: 40.7769, Lon: -73.8740, Zoom: 12},
		{ID: "nwk", TitleKey: "nwkTitle", Title: "Newark Airport", Lat: 40.6895, Lon: -74.1745, Zoom: 11},
	}
}

// Data is what every session shares.
type Data struct {
	Frame *dataset.Frame
	Maps  []*Map
}

// Load reads the pickups and computes the NYC center.
func Load(ctx context.Context, l *dataset.Loader, src string) *Data {
	f, err := l.LoadCSV(ctx, src, &dataset.CSVOpts{
		NRows:       NRows,
		Lower:       true,
		TimeColumns: []string{DateTime},
	})
	f = l.Fallback(src, f, err, "lat", "lon", DateTime)

	lat, ok := f.Mean("lat")
	if !ok {
		lat = FallbackLat
	}
	lon, ok := f.Mean("lon")
	if !ok {
		lon = FallbackLon
	}
	return &Data{
		Frame: f,
		Maps:  Maps(lat, lon),
	}
}

// ForHour keeps the rows whose pickup time is in the hour.
func ForHour(f *dataset.Frame, hour int) *dataset.Frame {
	return f.Filter(func(r dataset.Row) bool {
		t, ok := r.Time(DateTime)
		return ok && t.Hour() == hour
	})
}

// Minutes counts pickups by minute of the hour.
func Minutes(f *dataset.Frame) []int {
	return f.Histogram(60, func(r dataset.Row) int {
		t, ok := r.Time(DateTime)
		if !ok {
			return -1
		}
		return t.Minute()
	})
}

// Span renders an hour as "HH:00 - HH:59".
func Span(hour int) string {
	return fmt.Sprintf("%02d:00 - %02d:59", hour, hour)
}

// ChartTitle is the histogram's title.
func ChartTitle(hour int) string {
	return "Pickups per minute for " + Span(hour)
}

// Histogram is the per-minute area chart.
func Histogram(title string, counts []int) *vega.Chart {
	values := make([]map[string]interface{}, len(counts))
	for i, n := range counts {
		values[i] = map[string]interface{}{
			"minute":  i,
			"pickups": n,
		}
	}
	x := vega.F("minute:Q").Titled("Minute of the Hour")
	x.Scale = map[string]interface{}{"nice": false}

	return vega.New().
		Values(values).
		MarkType("area",
			"interpolate", "step-after",
			"color", "#1E88E5",
			"line", true).
		Encode("x", x).
		Encode("y", vega.F("pickups:Q").Titled("Number of Pickups")).
		Encode("tooltip", []*vega.Channel{
			vega.F("minute:Q").Titled("Minute"),
			vega.F("pickups:Q").Titled("Pickups"),
		}).
		Titled(title).
		Size("container", 150).
		Configure("axis", "grid", false).
		Configure("view", "strokeWidth", 0).
		Configure("title", "fontSize", 14, "anchor", "middle")
}

// Deck is the hexagon map for the given pickups.
func (m *Map) Deck(pickups *dataset.Frame, apiKey string, logger hclog.Logger) *deck.Deck {
	vs := &deck.ViewState{
		Latitude:  m.Lat,
		Longitude: m.Lon,
		Zoom:      m.Zoom,
		Pitch:     50,
	}
	d := deck.New(vs, deck.StyleLight, apiKey, logger)
	d.Tooltip = &deck.Tooltip{
		HTML: "<b>Pickups:</b> {elevationValue}",
		Style: map[string]string{
			"color":           "white",
			"backgroundColor": "rgba(0,0,0,0.7)",
		},
	}
	layer := deck.HexagonLayer("hexagons", pickups.Select("lon", "lat").Records(), deck.Accessor("lon", "lat")).Setm(
		"radius", 100,
		"elevationScale", 4,
		"elevationRange", []int{0, 1000},
	)
	return d.Add(layer)
}

// New loads the pickups from DataURL.
func New(env *sio.Env) (sio.Factory, error) {
	return NewFrom(env, DataURL)
}

// NewFrom loads the pickups from the given source.
func NewFrom(env *sio.Env, src string) (sio.Factory, error) {
	data := Load(context.Background(), env.Loader, src)
	logger := env.Log("pickups")
	if data.Frame.Len() == 0 {
		logger.Warn("no pickups loaded", "src", src)
	}
	apiKey := env.Conf.MapboxAPIKey
	if apiKey == "" {
		logger.Warn("MAPBOX_API_KEY not set; maps may not render correctly")
	}
	return func() sio.App {
		return &App{
			Data:   data,
			APIKey: apiKey,
			logger: logger,
		}
	}, nil
}

// App is one session's explorer.
type App struct {
	Data   *Data
	APIKey string

	logger hclog.Logger
	maps   []*widget.View
	chart  *widget.View
}

func (a *App) Build(ctx context.Context, s *sio.Session) (*widget.Node, error) {
	st := s.Store
	init := core.Bindings{
		HourKey:      DefaultHour,
		"loading":    true,
		"chartTitle": "",
		"noKey":      a.APIKey == "",
	}
	for _, m := range a.Data.Maps {
		init[m.TitleKey] = m.Title
	}
	st.Init(init)

	a.maps = make([]*widget.View, len(a.Data.Maps))
	for i, m := range a.Data.Maps {
		a.maps[i] = s.View(m.View(), widget.KindDeck)
	}
	a.chart = s.View(ChartView, widget.KindVega)

	page := widget.SinglePage("NYC Uber Pickups Explorer")
	page.Toolbar.Add(
		widget.ProgressBar("loading"),
		widget.Spacer(),
		widget.Text("Hour: {{ String(pickup_hour).padStart(2, '0') }}:00"),
	)

	card := func(i int) *widget.Node {
		return widget.Card(
			widget.CardTitle("{{ "+a.Data.Maps[i].TitleKey+" }}"),
			a.maps[i].Node(),
		)
	}
	airports := widget.Col(6,
		widget.Row(widget.Col(12, card(1))),
		widget.Row(widget.Col(12, card(3))),
		widget.Row(widget.Col(12, card(2))),
	)
	page.Content.Add(
		widget.Container(widget.Row(airports, widget.Col(6, card(0)))),
		widget.Div(
			a.chart.Node(),
			widget.Text("Examining how Uber pickups vary over time in New York City's and at its major regional airports. By sliding the slider on the left you can view different slices of time and explore different transportation trends."),
			widget.Alert("warning", "noKey", NoKeyMessage),
			widget.Slider(HourKey, 0, 23, 1),
		),
	)

	if _, err := st.WatchNow(ctx, "update_data_and_plots", []string{HourKey}, a.update); err != nil {
		return nil, err
	}
	if err := st.Set(ctx, "loading", false); err != nil {
		return nil, err
	}

	return page.Node(), nil
}

// update filters by the hour and redraws every map and the chart.
func (a *App) update(ctx context.Context, st *core.Store, bs core.Bindings) error {
	hour, ok := bs.Int(HourKey)
	if !ok {
		return fmt.Errorf("bad %s: %v", HourKey, bs[HourKey])
	}
	if err := st.Set(ctx, "loading", true); err != nil {
		return err
	}

	span := Span(hour)
	title := ChartTitle(hour)
	picked := ForHour(a.Data.Frame, hour)

	titles := core.Bindings{
		"chartTitle": title,
	}
	for i, m := range a.Data.Maps {
		if err := a.maps[i].Update(m.Deck(picked, a.APIKey, nil).Artifact()); err != nil {
			return err
		}
		if m.Hourly {
			titles[m.TitleKey] = m.Title + " (" + span + ")"
		} else {
			titles[m.TitleKey] = m.Title
		}
	}
	if err := st.Update(ctx, titles); err != nil {
		return err
	}

	if err := a.chart.Update(Histogram(title, Minutes(picked)).Artifact()); err != nil {
		return err
	}

	return st.Set(ctx, "loading", false)
}
