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

package dataset

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/Comcast/vizcrew/core"
)

// Row is one record.
type Row map[string]interface{}

// Float returns the column's value as a float64 when it's a number.
func (r Row) Float(col string) (float64, bool) {
	return core.AsFloat(r[col])
}

// String returns the column's value if it's a string.
func (r Row) String(col string) (string, bool) {
	s, is := r[col].(string)
	return s, is
}

// Time returns the column's value if it's a time.Time.
func (r Row) Time(col string) (time.Time, bool) {
	t, is := r[col].(time.Time)
	return t, is
}

// Frame is a small column-ordered table.
//
// Frames are treated as immutable once loaded: operations return new
// frames that share rows.
type Frame struct {
	Columns []string
	Rows    []Row
}

// NewFrame makes an empty frame with the given columns.
func NewFrame(columns ...string) *Frame {
	return &Frame{
		Columns: columns,
		Rows:    []Row{},
	}
}

// FromRecords makes a frame from maps.  Columns are the sorted union
// of keys unless given.
func FromRecords(records []map[string]interface{}, columns ...string) *Frame {
	if len(columns) == 0 {
		set := make(map[string]bool, 8)
		for _, r := range records {
			for k := range r {
				if !set[k] {
					set[k] = true
					columns = append(columns, k)
				}
			}
		}
		sort.Strings(columns)
	}
	f := NewFrame(columns...)
	for _, r := range records {
		f.Rows = append(f.Rows, Row(r))
	}
	return f
}

func (f *Frame) Len() int {
	return len(f.Rows)
}

// HasColumn reports whether the frame has the column.
func (f *Frame) HasColumn(col string) bool {
	for _, c := range f.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Filter returns the rows for which the predicate is true.
func (f *Frame) Filter(pred func(Row) bool) *Frame {
	acc := &Frame{
		Columns: f.Columns,
		Rows:    make([]Row, 0, len(f.Rows)/4),
	}
	for _, r := range f.Rows {
		if pred(r) {
			acc.Rows = append(acc.Rows, r)
		}
	}
	return acc
}

// Head returns the first n rows.
func (f *Frame) Head(n int) *Frame {
	if len(f.Rows) < n {
		n = len(f.Rows)
	}
	return &Frame{
		Columns: f.Columns,
		Rows:    f.Rows[:n],
	}
}

// Select returns a frame with only the given columns.
func (f *Frame) Select(cols ...string) *Frame {
	acc := &Frame{
		Columns: cols,
		Rows:    make([]Row, len(f.Rows)),
	}
	for i, r := range f.Rows {
		s := make(Row, len(cols))
		for _, c := range cols {
			if v, have := r[c]; have {
				s[c] = v
			}
		}
		acc.Rows[i] = s
	}
	return acc
}

// Column returns the column's values.
func (f *Frame) Column(col string) []interface{} {
	acc := make([]interface{}, len(f.Rows))
	for i, r := range f.Rows {
		acc[i] = r[col]
	}
	return acc
}

// Floats returns the column's numeric values, skipping the rest.
func (f *Frame) Floats(col string) []float64 {
	acc := make([]float64, 0, len(f.Rows))
	for _, r := range f.Rows {
		if x, ok := r.Float(col); ok {
			acc = append(acc, x)
		}
	}
	return acc
}

// Strings returns the column's string values, skipping the rest.
func (f *Frame) Strings(col string) []string {
	acc := make([]string, 0, len(f.Rows))
	for _, r := range f.Rows {
		if s, ok := r.String(col); ok {
			acc = append(acc, s)
		}
	}
	return acc
}

// Mean returns the average of the column's numeric values.
func (f *Frame) Mean(col string) (float64, bool) {
	xs := f.Floats(col)
	if len(xs) == 0 {
		return 0, false
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs)), true
}

// Extent returns the min and max of the column's numeric values.
func (f *Frame) Extent(col string) (float64, float64, bool) {
	xs := f.Floats(col)
	if len(xs) == 0 {
		return 0, 0, false
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if hi < x {
			hi = x
		}
	}
	return lo, hi, true
}

// Histogram counts rows by the bucket function, which should return
// a value in [0,n).  Other values are ignored.
func (f *Frame) Histogram(n int, bucket func(Row) int) []int {
	acc := make([]int, n)
	for _, r := range f.Rows {
		if i := bucket(r); 0 <= i && i < n {
			acc[i]++
		}
	}
	return acc
}

// Group is a distinct value and its row count.
type Group struct {
	Value interface{} `json:"value"`
	Count int         `json:"count"`
}

// GroupCount counts rows by the column's value.  Groups are ordered
// by first appearance.
func (f *Frame) GroupCount(col string) []Group {
	acc := make([]Group, 0, 8)
	index := make(map[string]int, 8)
	for _, r := range f.Rows {
		v := r[col]
		k := fmt.Sprintf("%T:%v", v, v)
		i, have := index[k]
		if !have {
			i = len(acc)
			index[k] = i
			acc = append(acc, Group{Value: v})
		}
		acc[i].Count++
	}
	return acc
}

// SortBy returns the rows ordered by the column.  Numbers sort before
// booleans (false first), which sort before strings.  Missing values
// sort last.  The sort is stable.
func (f *Frame) SortBy(col string, desc bool) *Frame {
	rows := make([]Row, len(f.Rows))
	copy(rows, f.Rows)
	rank := func(r Row) int {
		switch r[col].(type) {
		case float64, int:
			return 0
		case bool:
			return 1
		case string:
			return 2
		}
		return 3
	}
	less := func(a, b Row) bool {
		ra, rb := rank(a), rank(b)
		if ra != rb {
			return ra < rb
		}
		switch ra {
		case 0:
			x, _ := a.Float(col)
			y, _ := b.Float(col)
			return x < y
		case 1:
			return !a[col].(bool) && b[col].(bool)
		case 2:
			return a[col].(string) < b[col].(string)
		}
		return false
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
	return &Frame{
		Columns: f.Columns,
		Rows:    rows,
	}
}

// Records returns the rows as plain maps with times formatted as
// RFC3339.
func (f *Frame) Records() []map[string]interface{} {
	acc := make([]map[string]interface{}, len(f.Rows))
	for i, r := range f.Rows {
		m := make(map[string]interface{}, len(r))
		for k, v := range r {
			if t, is := v.(time.Time); is {
				v = t.Format(time.RFC3339)
			}
			m[k] = v
		}
		acc[i] = m
	}
	return acc
}

// MarshalJSON renders the frame as an array of records.
func (f *Frame) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Records())
}
