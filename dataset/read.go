package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jsccast/yaml"
)

// DefaultTimeLayout parses timestamps like "9/1/2014 0:01:00".
var DefaultTimeLayout = "1/2/2006 15:04:05"

// CSVOpts controls ReadCSV.
type CSVOpts struct {
	// NRows limits the number of rows read.  Zero means no limit.
	NRows int

	// Lower lower-cases column names.
	Lower bool

	// TimeColumns are parsed with TimeLayout.
	TimeColumns []string

	// TimeLayout defaults to DefaultTimeLayout.
	TimeLayout string
}

// BadRow reports a row that couldn't be parsed.
type BadRow struct {
	Line int
	Err  error
}

func (e *BadRow) Error() string {
	return fmt.Sprintf("row %d: %s", e.Line, e.Err)
}

func (e *BadRow) Unwrap() error {
	return e.Err
}

// ReadCSV reads a CSV with a header row.
//
// Values that parse as numbers become float64.  Empty values are
// left out of the row.
func ReadCSV(r io.Reader, opts *CSVOpts) (*Frame, error) {
	if opts == nil {
		opts = &CSVOpts{}
	}
	layout := opts.TimeLayout
	if layout == "" {
		layout = DefaultTimeLayout
	}

	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	columns := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if opts.Lower {
			h = strings.ToLower(h)
		}
		columns[i] = h
	}

	times := make(map[string]bool, len(opts.TimeColumns))
	for _, c := range opts.TimeColumns {
		times[c] = true
	}

	f := NewFrame(columns...)
	for line := 2; opts.NRows <= 0 || f.Len() < opts.NRows; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &BadRow{
				Line: line,
				Err:  err,
			}
		}
		row := make(Row, len(columns))
		for i, s := range rec {
			if len(columns) <= i || s == "" {
				continue
			}
			col := columns[i]
			if times[col] {
				t, err := time.Parse(layout, s)
				if err != nil {
					return nil, &BadRow{
						Line: line,
						Err:  err,
					}
				}
				row[col] = t
				continue
			}
			if x, err := strconv.ParseFloat(s, 64); err == nil {
				row[col] = x
				continue
			}
			row[col] = s
		}
		f.Rows = append(f.Rows, row)
	}

	return f, nil
}

// ReadJSONRecords reads a JSON array of objects.
func ReadJSONRecords(r io.Reader, columns ...string) (*Frame, error) {
	var records []map[string]interface{}
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}
	return FromRecords(records, columns...), nil
}

// ReadYAML reads a YAML array of maps.
func ReadYAML(r io.Reader, columns ...string) (*Frame, error) {
	bs, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var x interface{}
	if err := yaml.Unmarshal(bs, &x); err != nil {
		return nil, err
	}
	xs, is := x.([]interface{})
	if !is {
		return nil, fmt.Errorf("expected an array, not a %T", x)
	}
	records := make([]map[string]interface{}, 0, len(xs))
	for i, y := range xs {
		m, is := stringKeys(y)
		if !is {
			return nil, &BadRow{
				Line: i,
				Err:  fmt.Errorf("expected a map, not a %T", y),
			}
		}
		records = append(records, m)
	}
	return FromRecords(records, columns...), nil
}

// stringKeys accepts maps with interface{} keys, too.
func stringKeys(x interface{}) (map[string]interface{}, bool) {
	switch vv := x.(type) {
	case map[string]interface{}:
		return vv, true
	case map[interface{}]interface{}:
		acc := make(map[string]interface{}, len(vv))
		for k, v := range vv {
			acc[fmt.Sprintf("%v", k)] = v
		}
		return acc, true
	}
	return nil, false
}
