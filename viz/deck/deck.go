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

// Package deck builds deck.gl JSON configurations in the format the
// deck.gl JSON converter expects ("@@type" class names and "@@="
// accessor expressions).
package deck

import (
	"encoding/json"
	"strings"

	"github.com/Comcast/vizcrew/widget"

	"github.com/hashicorp/go-hclog"
)

// Map styles.
const (
	StyleLight = "mapbox://styles/mapbox/light-v9"
	StyleDark  = "mapbox://styles/mapbox/dark-v9"
	StyleRoad  = "mapbox://styles/mapbox/streets-v11"

	ProviderMapbox = "mapbox"
)

// ViewState is the camera.
type ViewState struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
	Pitch     float64 `json:"pitch"`
	Bearing   float64 `json:"bearing"`
}

// Tooltip is an html template with "{property}" references.
type Tooltip struct {
	HTML  string            `json:"html,omitempty"`
	Text  string            `json:"text,omitempty"`
	Style map[string]string `json:"style,omitempty"`
}

// Layer is one deck.gl layer.
//
// Props hold the layer's other properties using deck.gl's (camelCase)
// names.  Accessors are strings made with Accessor.
type Layer struct {
	Type  string
	ID    string
	Data  interface{}
	Props map[string]interface{}
}

// MarshalJSON flattens the props into the layer object.
func (l *Layer) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(l.Props)+3)
	for k, v := range l.Props {
		m[k] = v
	}
	m["@@type"] = l.Type
	m["id"] = l.ID
	data := l.Data
	if data == nil {
		data = []interface{}{}
	}
	m["data"] = data
	return json.Marshal(m)
}

// NewLayer makes a layer of the given type (e.g. "HexagonLayer").
func NewLayer(typ, id string, data interface{}) *Layer {
	return &Layer{
		Type:  typ,
		ID:    id,
		Data:  data,
		Props: make(map[string]interface{}, 8),
	}
}

// Set sets a prop.
func (l *Layer) Set(prop string, val interface{}) *Layer {
	l.Props[prop] = val
	return l
}

// Setm sets props from pairs.
func (l *Layer) Setm(pairs ...interface{}) *Layer {
	for i := 0; i+1 < len(pairs); i += 2 {
		if k, is := pairs[i].(string); is {
			l.Props[k] = pairs[i+1]
		}
	}
	return l
}

// Accessor makes a deck.gl JSON accessor expression.
//
// Accessor("lon") gives "@@=lon", and Accessor("lon", "lat") gives
// "@@=[lon, lat]".
func Accessor(fields ...string) string {
	if len(fields) == 1 {
		return "@@=" + fields[0]
	}
	return "@@=[" + strings.Join(fields, ", ") + "]"
}

// HexagonLayer aggregates positions into extruded hexagons.
func HexagonLayer(id string, data interface{}, position string) *Layer {
	return NewLayer("HexagonLayer", id, data).Setm(
		"getPosition", position,
		"pickable", true,
		"extruded", true,
		"autoHighlight", true,
	)
}

func ScatterplotLayer(id string, data interface{}, position string) *Layer {
	return NewLayer("ScatterplotLayer", id, data).Setm(
		"getPosition", position,
		"pickable", true,
	)
}

func TextLayer(id string, data interface{}, position, text string) *Layer {
	return NewLayer("TextLayer", id, data).Setm(
		"getPosition", position,
		"getText", text,
	)
}

// ArcLayer draws arcs from source to target positions.
func ArcLayer(id string, data interface{}, source, target string) *Layer {
	return NewLayer("ArcLayer", id, data).Setm(
		"getSourcePosition", source,
		"getTargetPosition", target,
		"pickable", true,
	)
}

// Deck is the top-level configuration.
type Deck struct {
	InitialViewState *ViewState        `json:"initialViewState"`
	Layers           []*Layer          `json:"layers"`
	MapStyle         string            `json:"mapStyle,omitempty"`
	MapProvider      string            `json:"mapProvider,omitempty"`
	APIKeys          map[string]string `json:"apiKeys,omitempty"`
	Tooltip          *Tooltip          `json:"tooltip,omitempty"`
	Views            []interface{}     `json:"views"`
}

// New makes a Deck with a MapView.
//
// Without an API key, the map style is dropped (so the client shows
// the layers without a basemap) and a warning is logged.
func New(vs *ViewState, style, apiKey string, logger hclog.Logger) *Deck {
	d := &Deck{
		InitialViewState: vs,
		Layers:           []*Layer{},
		MapProvider:      ProviderMapbox,
		Views: []interface{}{
			map[string]interface{}{
				"@@type":     "MapView",
				"controller": true,
			},
		},
	}
	if apiKey == "" {
		if logger != nil {
			logger.Warn("no map API key; maps will not have a basemap")
		}
		return d
	}
	d.MapStyle = style
	d.APIKeys = map[string]string{
		ProviderMapbox: apiKey,
	}
	return d
}

// Add appends layers.
func (d *Deck) Add(ls ...*Layer) *Deck {
	d.Layers = append(d.Layers, ls...)
	return d
}

// Artifact wraps the deck for a View.
func (d *Deck) Artifact() *widget.Artifact {
	return widget.NewArtifact(widget.KindDeck, d)
}
