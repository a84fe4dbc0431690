// Package vega builds Vega-Lite specifications.
package vega

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Comcast/vizcrew/widget"
)

// Schema is the Vega-Lite version the client renders.
var Schema = "https://vega.github.io/schema/vega-lite/v5.json"

// DatasetsURL is where the standard vega-datasets live.
var DatasetsURL = "https://cdn.jsdelivr.net/npm/vega-datasets@v1.29.0/data/"

// Dataset returns the URL for the named vega-dataset file.
func Dataset(filename string) string {
	return DatasetsURL + filename
}

// Data is inline values or a URL.
type Data struct {
	Values interface{}            `json:"values,omitempty"`
	URL    string                 `json:"url,omitempty"`
	Format map[string]interface{} `json:"format,omitempty"`
}

// Channel is an encoding channel definition.
type Channel struct {
	// Field is a name or {"repeat": "row"}.
	Field     interface{} `json:"field,omitempty"`
	Type      string      `json:"type,omitempty"`
	Aggregate string      `json:"aggregate,omitempty"`
	TimeUnit  string      `json:"timeUnit,omitempty"`
	Title     interface{} `json:"title,omitempty"`
	Stack     interface{} `json:"stack,omitempty"`
	Scale     interface{} `json:"scale,omitempty"`
	Axis      interface{} `json:"axis,omitempty"`
	Legend    interface{} `json:"legend,omitempty"`
	Columns   int         `json:"columns,omitempty"`
	Value     interface{} `json:"value,omitempty"`
	Format    string      `json:"format,omitempty"`
}

var types = map[string]string{
	"Q": "quantitative",
	"N": "nominal",
	"O": "ordinal",
	"T": "temporal",
	"G": "geojson",
}

var aggregates = map[string]bool{
	"sum": true, "mean": true, "average": true, "count": true, "median": true,
	"min": true, "max": true, "distinct": true, "stdev": true, "variance": true,
}

var shorthand = regexp.MustCompile(`^(?:([a-z]+)\((.*)\)|(.*?))(?::([QNOTG]))?$`)

// BadShorthand reports a field string that couldn't be parsed.
type BadShorthand struct {
	Src string
}

func (e *BadShorthand) Error() string {
	return fmt.Sprintf("bad field shorthand %q", e.Src)
}

// Field parses shorthand like "pickups:Q", "sum(count):Q", or
// "yearmonth(date):T".
func Field(src string) (*Channel, error) {
	m := shorthand.FindStringSubmatch(strings.TrimSpace(src))
	if m == nil {
		return nil, &BadShorthand{
			Src: src,
		}
	}
	c := &Channel{
		Type: types[m[4]],
	}
	field := m[3]
	switch {
	case m[1] == "":
	case aggregates[m[1]]:
		c.Aggregate = m[1]
		field = m[2]
	default:
		c.TimeUnit = m[1]
		field = m[2]
	}
	if field == "" && c.Aggregate != "count" {
		return nil, &BadShorthand{
			Src: src,
		}
	}
	if field != "" {
		c.Field = field
	}
	return c, nil
}

// F is Field that panics.  For literal shorthand in code.
func F(src string) *Channel {
	c, err := Field(src)
	if err != nil {
		panic(err)
	}
	return c
}

// Repeated makes a channel whose field comes from a repeat
// ("row", "column", "layer", or "repeat").
func Repeated(dim, typ string) *Channel {
	return &Channel{
		Field: map[string]string{"repeat": dim},
		Type:  typ,
	}
}

// Titled sets the title.
func (c *Channel) Titled(title string) *Channel {
	c.Title = title
	return c
}

// Repeat is a repeat specification.
type Repeat struct {
	Row    []string `json:"row,omitempty"`
	Column []string `json:"column,omitempty"`
	Layer  []string `json:"layer,omitempty"`
}

// Chart is a Vega-Lite (unit, layered, repeated, or faceted) spec.
type Chart struct {
	Schema      string                   `json:"$schema,omitempty"`
	Title       interface{}              `json:"title,omitempty"`
	Data        *Data                    `json:"data,omitempty"`
	Mark        interface{}              `json:"mark,omitempty"`
	Encoding    map[string]interface{}   `json:"encoding,omitempty"`
	Transform   []map[string]interface{} `json:"transform,omitempty"`
	Projection  map[string]interface{}   `json:"projection,omitempty"`
	Params      []map[string]interface{} `json:"params,omitempty"`
	Width       interface{}              `json:"width,omitempty"`
	Height      interface{}              `json:"height,omitempty"`
	Repeat      *Repeat                  `json:"repeat,omitempty"`
	Facet       *Channel                 `json:"facet,omitempty"`
	Columns     int                      `json:"columns,omitempty"`
	Spec        *Chart                   `json:"spec,omitempty"`
	Layer       []*Chart                 `json:"layer,omitempty"`
	Config      map[string]interface{}   `json:"config,omitempty"`
	Description string                   `json:"description,omitempty"`
}

// New makes an empty top-level chart.
func New() *Chart {
	return &Chart{
		Schema: Schema,
	}
}

// Values uses inline data.
func (c *Chart) Values(values interface{}) *Chart {
	c.Data = &Data{
		Values: values,
	}
	return c
}

// URL uses remote data.
func (c *Chart) URL(url string) *Chart {
	c.Data = &Data{
		URL: url,
	}
	return c
}

// MarkType sets a mark with optional properties given as pairs.
func (c *Chart) MarkType(typ string, pairs ...interface{}) *Chart {
	if len(pairs) == 0 {
		c.Mark = typ
		return c
	}
	m := map[string]interface{}{
		"type": typ,
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		if k, is := pairs[i].(string); is {
			m[k] = pairs[i+1]
		}
	}
	c.Mark = m
	return c
}

// Encode sets a channel ("x", "y", "color", ...).  The value is
// usually a *Channel, but "tooltip" takes a slice.
func (c *Chart) Encode(channel string, def interface{}) *Chart {
	if c.Encoding == nil {
		c.Encoding = make(map[string]interface{}, 4)
	}
	c.Encoding[channel] = def
	return c
}

// Transformed appends a transform.
func (c *Chart) Transformed(t map[string]interface{}) *Chart {
	c.Transform = append(c.Transform, t)
	return c
}

// Fold is the fold transform.
func (c *Chart) Fold(fields []string, as ...string) *Chart {
	t := map[string]interface{}{
		"fold": fields,
	}
	if 0 < len(as) {
		t["as"] = as
	}
	return c.Transformed(t)
}

// Lookup is the lookup transform against secondary data.
func (c *Chart) Lookup(field string, from *Data, key, as string) *Chart {
	return c.Transformed(map[string]interface{}{
		"lookup": field,
		"from": map[string]interface{}{
			"data": from,
			"key":  key,
		},
		"as": as,
	})
}

// Size sets width and height, which can be numbers or "container".
func (c *Chart) Size(width, height interface{}) *Chart {
	c.Width = width
	c.Height = height
	return c
}

// Titled sets the title.
func (c *Chart) Titled(title string) *Chart {
	c.Title = title
	return c
}

// Interactive adds pan and zoom bound to the scales.
func (c *Chart) Interactive() *Chart {
	c.Params = append(c.Params, map[string]interface{}{
		"name":   fmt.Sprintf("param_%d", len(c.Params)+1),
		"select": map[string]interface{}{"type": "interval", "encodings": []string{"x", "y"}},
		"bind":   "scales",
	})
	return c
}

// Repeated moves the chart's unit spec into a repeat.
//
// Data and the schema stay at the top level.
func (c *Chart) Repeated(r *Repeat) *Chart {
	inner := &Chart{
		Mark:      c.Mark,
		Encoding:  c.Encoding,
		Transform: c.Transform,
		Params:    c.Params,
		Width:     c.Width,
		Height:    c.Height,
	}
	return &Chart{
		Schema: c.Schema,
		Title:  c.Title,
		Data:   c.Data,
		Repeat: r,
		Spec:   inner,
		Config: c.Config,
	}
}

// Faceted moves the chart's unit spec into a facet.
func (c *Chart) Faceted(facet *Channel, columns int) *Chart {
	inner := &Chart{
		Mark:       c.Mark,
		Encoding:   c.Encoding,
		Projection: c.Projection,
		Params:     c.Params,
		Width:      c.Width,
		Height:     c.Height,
	}
	return &Chart{
		Schema:    c.Schema,
		Title:     c.Title,
		Data:      c.Data,
		Transform: c.Transform,
		Facet:     facet,
		Columns:   columns,
		Spec:      inner,
		Config:    c.Config,
	}
}

// Layered combines charts into one layered chart.
func Layered(cs ...*Chart) *Chart {
	for _, c := range cs {
		c.Schema = ""
	}
	return &Chart{
		Schema: Schema,
		Layer:  cs,
	}
}

// Configure sets a top-level config section ("axis", "view",
// "title", ...).
func (c *Chart) Configure(section string, pairs ...interface{}) *Chart {
	if c.Config == nil {
		c.Config = make(map[string]interface{}, 4)
	}
	m, _ := c.Config[section].(map[string]interface{})
	if m == nil {
		m = make(map[string]interface{}, len(pairs)/2)
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		if k, is := pairs[i].(string); is {
			m[k] = pairs[i+1]
		}
	}
	c.Config[section] = m
	return c
}

// Artifact wraps the chart for a View.
func (c *Chart) Artifact() *widget.Artifact {
	return widget.NewArtifact(widget.KindVega, c)
}

// Empty is the artifact that clears a vega view.
func Empty() *widget.Artifact {
	return widget.Empty(widget.KindVega)
}
