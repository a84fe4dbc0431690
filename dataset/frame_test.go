package dataset

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const pickups = `Date/Time,Lat,Lon,Base
9/1/2014 0:01:00,40.2201,-74.0021,B02512
9/1/2014 10:15:00,40.75,-73.9,B02512
9/1/2014 10:59:00,40.76,-73.95,B02598
9/2/2014 11:00:00,40.77,-73.96,B02598
`

func readPickups(t *testing.T, opts *CSVOpts) *Frame {
	f, err := ReadCSV(strings.NewReader(pickups), opts)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestReadCSV(t *testing.T) {
	f := readPickups(t, &CSVOpts{
		Lower:       true,
		TimeColumns: []string{"date/time"},
	})
	if diff := cmp.Diff([]string{"date/time", "lat", "lon", "base"}, f.Columns); diff != "" {
		t.Fatal(diff)
	}
	if f.Len() != 4 {
		t.Fatal(f.Len())
	}
	ts, ok := f.Rows[1].Time("date/time")
	if !ok {
		t.Fatal(f.Rows[1])
	}
	if ts.Hour() != 10 || ts.Minute() != 15 {
		t.Fatal(ts)
	}
	if lat, _ := f.Rows[1].Float("lat"); lat != 40.75 {
		t.Fatal(lat)
	}
	if s, _ := f.Rows[0].String("base"); s != "B02512" {
		t.Fatal(s)
	}
}

func TestReadCSVRows(t *testing.T) {
	f := readPickups(t, &CSVOpts{NRows: 2})
	if f.Len() != 2 {
		t.Fatal(f.Len())
	}
}

func TestReadCSVBadTime(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("when\nyesterday\n"), &CSVOpts{
		TimeColumns: []string{"when"},
	})
	br, is := err.(*BadRow)
	if !is {
		t.Fatal(err)
	}
	if br.Line != 2 {
		t.Fatal(br.Line)
	}
}

func TestFilterHour(t *testing.T) {
	f := readPickups(t, &CSVOpts{
		Lower:       true,
		TimeColumns: []string{"date/time"},
	})
	g := f.Filter(func(r Row) bool {
		ts, ok := r.Time("date/time")
		return ok && ts.Hour() == 10
	})
	if g.Len() != 2 {
		t.Fatal(g.Len())
	}
	for _, r := range g.Rows {
		if ts, _ := r.Time("date/time"); ts.Hour() != 10 {
			t.Fatal(ts)
		}
	}
	if f.Len() != 4 {
		t.Fatal("filter modified its frame")
	}

	mean, ok := g.Mean("lat")
	if !ok || mean < 40.754 || 40.756 < mean {
		t.Fatal(mean)
	}

	hist := g.Histogram(60, func(r Row) int {
		ts, _ := r.Time("date/time")
		return ts.Minute()
	})
	if hist[15] != 1 || hist[59] != 1 || hist[0] != 0 {
		t.Fatal(hist)
	}
}

func TestEmptyMean(t *testing.T) {
	if _, ok := NewFrame("lat").Mean("lat"); ok {
		t.Fatal("mean of nothing")
	}
}

func TestGroupCountAndSort(t *testing.T) {
	f := FromRecords([]map[string]interface{}{
		{"name": "Eclair", "calories": 262.0, "gf": false},
		{"name": "Frozen Yogurt", "calories": 159.0, "gf": true},
		{"name": "Donut", "calories": 452.0, "gf": false},
	})
	if diff := cmp.Diff([]string{"calories", "gf", "name"}, f.Columns); diff != "" {
		t.Fatal(diff)
	}

	want := []Group{
		{Value: false, Count: 2},
		{Value: true, Count: 1},
	}
	if diff := cmp.Diff(want, f.GroupCount("gf")); diff != "" {
		t.Fatal(diff)
	}

	got := f.SortBy("calories", true).Strings("name")
	if diff := cmp.Diff([]string{"Donut", "Eclair", "Frozen Yogurt"}, got); diff != "" {
		t.Fatal(diff)
	}

	sel := f.Head(1).Select("name")
	if diff := cmp.Diff([]map[string]interface{}{{"name": "Eclair"}}, sel.Records()); diff != "" {
		t.Fatal(diff)
	}
}

func TestReadYAML(t *testing.T) {
	src := `
- name: Eclair
  calories: 262
- name: Donut
  calories: 452
`
	f, err := ReadYAML(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if f.Len() != 2 {
		t.Fatal(f.Len())
	}
	if xs := f.Floats("calories"); len(xs) != 2 || xs[1] != 452 {
		t.Fatal(xs)
	}

	if _, err := ReadYAML(strings.NewReader("tacos: 1")); err == nil {
		t.Fatal("expected an error for a map")
	}
}

func TestReadJSONRecords(t *testing.T) {
	f, err := ReadJSONRecords(strings.NewReader(`[{"a":1,"b":"x"},{"a":2}]`), "a", "b")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]interface{}{"x", nil}, f.Column("b")); diff != "" {
		t.Fatal(diff)
	}
}
