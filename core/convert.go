package core

import (
	"encoding/json"
	"math"
	"strconv"
)

// AsFloat converts the numeric representations that show up in state
// (Go numbers, JSON-decoded float64s, json.Number, numeric strings).
func AsFloat(x interface{}) (float64, bool) {
	switch vv := x.(type) {
	case float64:
		return vv, true
	case float32:
		return float64(vv), true
	case int:
		return float64(vv), true
	case int64:
		return float64(vv), true
	case int32:
		return float64(vv), true
	case uint:
		return float64(vv), true
	case json.Number:
		f, err := vv.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(vv, 64)
		return f, err == nil
	}
	return 0, false
}

// AsInt is AsFloat rounded to the nearest int.
func AsInt(x interface{}) (int, bool) {
	if n, is := x.(int); is {
		return n, true
	}
	f, ok := AsFloat(x)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Round(f)), true
}

// AsStrings accepts a []string or a []interface{} of strings.
func AsStrings(x interface{}) ([]string, bool) {
	switch vv := x.(type) {
	case []string:
		return vv, true
	case []interface{}:
		acc := make([]string, 0, len(vv))
		for _, y := range vv {
			s, is := y.(string)
			if !is {
				return nil, false
			}
			acc = append(acc, s)
		}
		return acc, true
	case nil:
		return nil, true
	}
	return nil, false
}
