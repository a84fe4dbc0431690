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

// Package scene is a small geometry pipeline: sources produce
// polygonal data or volumes, filters transform them, and mappers,
// actors, and a renderer describe how the result should look.
//
// Nothing is rendered server-side.  A Renderer serializes to a scene
// artifact (positions, cells, and per-point or per-cell colors) that
// the client draws.
package scene

import (
	"fmt"
	"math"
)

// Vec3 is a point or direction.
type Vec3 [3]float64

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a[0] * s, a[1] * s, a[2] * s}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (a Vec3) Norm() float64 {
	return math.Sqrt(a.Dot(a))
}

// Unit returns the normalized vector (or a zero vector).
func (a Vec3) Unit() Vec3 {
	n := a.Norm()
	if n == 0 {
		return Vec3{}
	}
	return a.Scale(1 / n)
}

// Lerp interpolates from a to b.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}

// Bounds is xmin, xmax, ymin, ymax, zmin, zmax.
type Bounds [6]float64

// EmptyBounds contains nothing.
func EmptyBounds() Bounds {
	return Bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
}

// Valid reports whether the bounds contain anything.
func (b Bounds) Valid() bool {
	return b[0] <= b[1] && b[2] <= b[3] && b[4] <= b[5]
}

// Include grows the bounds to contain the point.
func (b Bounds) Include(p Vec3) Bounds {
	for i := 0; i < 3; i++ {
		b[2*i] = math.Min(b[2*i], p[i])
		b[2*i+1] = math.Max(b[2*i+1], p[i])
	}
	return b
}

// Union grows the bounds to contain the other bounds.
func (b Bounds) Union(c Bounds) Bounds {
	if !c.Valid() {
		return b
	}
	return b.Include(Vec3{c[0], c[2], c[4]}).Include(Vec3{c[1], c[3], c[5]})
}

func (b Bounds) Center() Vec3 {
	return Vec3{(b[0] + b[1]) / 2, (b[2] + b[3]) / 2, (b[4] + b[5]) / 2}
}

// Diagonal is the length of the bounding box's diagonal.
func (b Bounds) Diagonal() float64 {
	return Vec3{b[1] - b[0], b[3] - b[2], b[5] - b[4]}.Norm()
}

// Association says whether an array is per point or per cell.
type Association int

const (
	Points Association = iota
	Cells
)

func (a Association) String() string {
	if a == Cells {
		return "cells"
	}
	return "points"
}

// ArrayInfo describes a data array.
type ArrayInfo struct {
	Name        string      `json:"name"`
	Association Association `json:"association"`
	Range       [2]float64  `json:"range"`
}

// Key is unique across associations.
func (a ArrayInfo) Key() string {
	return fmt.Sprintf("%d_%s", a.Association, a.Name)
}

// UnknownArray occurs when an array isn't found.
type UnknownArray struct {
	Name        string
	Association Association
}

func (e *UnknownArray) Error() string {
	return fmt.Sprintf("no %s array %q", e.Association, e.Name)
}

// Range returns the min and max of the values.
func Range(xs []float64) [2]float64 {
	if len(xs) == 0 {
		return [2]float64{0, 1}
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return [2]float64{lo, hi}
}

// PolyData is polygonal geometry with point and cell arrays.
//
// Polys holds each polygon's point indexes.  Cell arrays have one
// value per polygon.
type PolyData struct {
	Points    []Vec3
	Polys     [][]int
	PointData map[string][]float64
	CellData  map[string][]float64
}

func NewPolyData() *PolyData {
	return &PolyData{
		PointData: make(map[string][]float64, 2),
		CellData:  make(map[string][]float64, 2),
	}
}

func (pd *PolyData) Bounds() Bounds {
	b := EmptyBounds()
	for _, p := range pd.Points {
		b = b.Include(p)
	}
	return b
}

// Array returns the named array.
func (pd *PolyData) Array(name string, a Association) ([]float64, bool) {
	var xs []float64
	var have bool
	if a == Cells {
		xs, have = pd.CellData[name]
	} else {
		xs, have = pd.PointData[name]
	}
	return xs, have
}

// Arrays describes the point arrays followed by the cell arrays, each
// sorted by name.
func (pd *PolyData) Arrays() []ArrayInfo {
	return arrays(pd.PointData, pd.CellData)
}

// Edges returns each polygon edge once.
func (pd *PolyData) Edges() [][2]int {
	seen := make(map[[2]int]bool, len(pd.Polys)*3)
	acc := make([][2]int, 0, len(pd.Polys)*3)
	for _, poly := range pd.Polys {
		for i, a := range poly {
			b := poly[(i+1)%len(poly)]
			e := [2]int{a, b}
			if b < a {
				e = [2]int{b, a}
			}
			if !seen[e] {
				seen[e] = true
				acc = append(acc, e)
			}
		}
	}
	return acc
}
