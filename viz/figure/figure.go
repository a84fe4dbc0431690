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

// Package figure renders charts server-side as PNG images.
package figure

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/Comcast/vizcrew/widget"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoPlots occurs when rendering a figure without plots.
var ErrNoPlots = errors.New("figure has no plots")

// Plot is one set of axes.
type Plot struct {
	Title  string
	XLabel string
	YLabel string

	// XRange and YRange, if not nil, fix the axes' extents.
	XRange *chart.ContinuousRange
	YRange *chart.ContinuousRange

	Grid      bool
	GridColor drawing.Color

	Series []chart.Series
}

// Add appends series.
func (p *Plot) Add(ss ...chart.Series) *Plot {
	p.Series = append(p.Series, ss...)
	return p
}

// Text places a label at the given data coordinates.
func (p *Plot) Text(x, y float64, label string, size float64) *Plot {
	return p.Add(chart.AnnotationSeries{
		Style: chart.Style{
			FontSize:    size,
			StrokeColor: chart.ColorTransparent,
			FillColor:   chart.ColorTransparent,
		},
		Annotations: []chart.Value2{
			{XValue: x, YValue: y, Label: label},
		},
	})
}

func (p *Plot) chart(w, h int, dpi float64) chart.Chart {
	c := chart.Chart{
		Title:  p.Title,
		Width:  w,
		Height: h,
		DPI:    dpi,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name: p.XLabel,
		},
		YAxis: chart.YAxis{
			Name: p.YLabel,
		},
		Series: p.Series,
	}
	if p.Title == "" {
		c.TitleStyle = chart.Hidden()
		c.Background.Padding.Top = 20
	}
	if p.XRange != nil {
		c.XAxis.Range = p.XRange
	}
	if p.YRange != nil {
		c.YAxis.Range = p.YRange
	}
	if p.Grid {
		grid := chart.Style{
			StrokeColor: p.GridColor,
			StrokeWidth: 1,
		}
		if grid.StrokeColor.IsZero() {
			grid.StrokeColor = drawing.ColorFromHex("d3d3d3").WithAlpha(180)
		}
		c.XAxis.GridMajorStyle = grid
		c.YAxis.GridMajorStyle = grid
	} else {
		c.XAxis.GridMajorStyle = chart.Hidden()
		c.YAxis.GridMajorStyle = chart.Hidden()
	}
	return c
}

// Figure is a grid of plots rendered onto one canvas.
type Figure struct {
	Width  int
	Height int
	DPI    float64

	Rows  int
	Cols  int
	Plots []*Plot
}

// New makes a figure for the size, which can be nil.
func New(size *Size) *Figure {
	w, h, dpi := size.Pixels()
	return &Figure{
		Width:  w,
		Height: h,
		DPI:    dpi,
		Rows:   1,
		Cols:   1,
	}
}

// Subplots makes a rows x cols grid of empty plots.
func (f *Figure) Subplots(rows, cols int) []*Plot {
	f.Rows, f.Cols = rows, cols
	f.Plots = make([]*Plot, rows*cols)
	for i := range f.Plots {
		f.Plots[i] = &Plot{}
	}
	return f.Plots
}

// Plot returns the first plot, making it if necessary.
func (f *Figure) Plot() *Plot {
	if len(f.Plots) == 0 {
		f.Plots = []*Plot{{}}
	}
	return f.Plots[0]
}

// Image renders the figure.
func (f *Figure) Image() (image.Image, error) {
	if len(f.Plots) == 0 {
		return nil, ErrNoPlots
	}
	rows, cols := f.Rows, f.Cols
	if rows <= 0 || cols <= 0 {
		rows, cols = 1, len(f.Plots)
	}
	w, h := min(f.Width, MaxPixels)/cols, min(f.Height, MaxPixels)/rows
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("figure %dx%d too small for %dx%d plots", f.Width, f.Height, rows, cols)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w*cols, h*rows))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	for i, p := range f.Plots {
		if p == nil || len(p.Series) == 0 {
			continue
		}
		var buf bytes.Buffer
		if err := p.chart(w, h, f.DPI).Render(chart.PNG, &buf); err != nil {
			return nil, fmt.Errorf("plot %d: %w", i, err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			return nil, err
		}
		x, y := (i%cols)*w, (i/cols)*h
		draw.Draw(canvas, image.Rect(x, y, x+w, y+h), img, img.Bounds().Min, draw.Over)
	}
	return canvas, nil
}

// PNG renders the figure as a PNG.
func (f *Figure) PNG() ([]byte, error) {
	img, err := f.Image()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Image is the spec of an "image" artifact.
type Image struct {
	Src    string `json:"src"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Artifact renders the figure as an image artifact with a data URL.
func (f *Figure) Artifact() (*widget.Artifact, error) {
	bs, err := f.PNG()
	if err != nil {
		return nil, err
	}
	return widget.NewArtifact(widget.KindImage, &Image{
		Src:    "data:image/png;base64," + base64.StdEncoding.EncodeToString(bs),
		Width:  f.Width,
		Height: f.Height,
	}), nil
}

// Color converts RGB in [0,1] to a drawing color.
func Color(c colorful.Color, alpha float64) drawing.Color {
	r, g, b := c.Clamped().RGB255()
	return drawing.Color{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}
}

// Hex parses "#rrggbb" with an alpha in [0,1].
func Hex(hex string, alpha float64) drawing.Color {
	return drawing.ColorFromHex(hex).WithAlpha(uint8(alpha*255 + 0.5))
}

// Line is a line series.
func Line(name string, xs, ys []float64, color drawing.Color, width float64) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name: name,
		Style: chart.Style{
			StrokeColor: color,
			StrokeWidth: width,
		},
		XValues: xs,
		YValues: ys,
	}
}

// Dashed is a dashed line series.
func Dashed(name string, xs, ys []float64, color drawing.Color, width float64) chart.ContinuousSeries {
	s := Line(name, xs, ys, color, width)
	s.Style.StrokeDashArray = []float64{4 * width, 2 * width}
	return s
}

// Dots is a series drawn only with dots.
func Dots(name string, xs, ys []float64, color drawing.Color, radius float64) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name: name,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotColor:    color,
			DotWidth:    radius,
		},
		XValues: xs,
		YValues: ys,
	}
}

// LineDots is a line with dots at each point.
func LineDots(name string, xs, ys []float64, line drawing.Color, width float64, dot drawing.Color, radius float64) chart.ContinuousSeries {
	s := Line(name, xs, ys, line, width)
	s.Style.DotColor = dot
	s.Style.DotWidth = radius
	return s
}

// MovingAverage is a simple moving average of the inner series.
func MovingAverage(name string, inner chart.ValuesProvider, period int, color drawing.Color, width float64) chart.SMASeries {
	return chart.SMASeries{
		Name: name,
		Style: chart.Style{
			StrokeColor: color,
			StrokeWidth: width,
		},
		Period:      period,
		InnerSeries: inner,
	}
}

// Range makes a fixed axis range.
func Range(min, max float64) *chart.ContinuousRange {
	return &chart.ContinuousRange{
		Min: min,
		Max: max,
	}
}

// Linspace returns n evenly spaced values from start to stop.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	acc := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range acc {
		acc[i] = start + float64(i)*step
	}
	return acc
}

// Indexes returns 0..n-1.
func Indexes(n int) []float64 {
	return Linspace(0, float64(n-1), n)
}
