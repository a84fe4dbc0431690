package expect

import (
	"reflect"
	"strings"
)

// Bindings maps pattern variables (with their leading '?') to values.
type Bindings map[string]interface{}

// IsVariable reports whether the string is a pattern variable.
func IsVariable(s string) bool {
	return strings.HasPrefix(s, "?")
}

// Match attempts to match the pattern against the fact.
//
// A string starting with '?' is a variable.  A bare "?" matches
// anything without binding.  A map pattern matches a map fact that has
// at least the pattern's properties.  An array pattern matches an
// array of the same length element by element.  Numbers are compared
// as float64s.
//
// The given bindings are not modified.
func Match(pattern, fact interface{}, bs Bindings) (Bindings, bool) {
	acc := make(Bindings, len(bs))
	for k, v := range bs {
		acc[k] = v
	}
	if match(pattern, fact, acc) {
		return acc, true
	}
	return nil, false
}

func match(pattern, fact interface{}, bs Bindings) bool {
	pattern, fact = fudge(pattern), fudge(fact)

	switch p := pattern.(type) {
	case string:
		if !IsVariable(p) {
			return p == fact
		}
		if p == "?" {
			return true
		}
		if v, have := bs[p]; have {
			return reflect.DeepEqual(fudge(v), fact)
		}
		bs[p] = fact
		return true

	case map[string]interface{}:
		f, is := fact.(map[string]interface{})
		if !is {
			return false
		}
		for k, pv := range p {
			fv, have := f[k]
			if !have || !match(pv, fv, bs) {
				return false
			}
		}
		return true

	case []interface{}:
		f, is := fact.([]interface{})
		if !is || len(f) != len(p) {
			return false
		}
		for i := range p {
			if !match(p[i], f[i], bs) {
				return false
			}
		}
		return true

	case nil, bool, float64:
		return pattern == fact

	default:
		return reflect.DeepEqual(pattern, fact)
	}
}

// fudge casts numbers to float64s.
func fudge(x interface{}) interface{} {
	switch vv := x.(type) {
	case float32:
		return float64(vv)
	case int:
		return float64(vv)
	case int32:
		return float64(vv)
	case int64:
		return float64(vv)
	default:
		return x
	}
}
