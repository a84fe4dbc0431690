/* Copyright 2018 Comcast Cable Communications Management, LLC
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

package core

import (
	"sort"
)

// Bindings is a map from state keys to their values.
type Bindings map[string]interface{}

func NewBindings() Bindings {
	return make(Bindings, 8)
}

// Only returns a new Bindings with just the given keys.  A key
// that's absent gets a nil value.
func (bs Bindings) Only(keys ...string) Bindings {
	acc := make(Bindings, len(keys))
	for _, k := range keys {
		acc[k] = bs[k]
	}
	return acc
}

// Merge copies other's values into bs, which is returned.
func (bs Bindings) Merge(other Bindings) Bindings {
	for k, v := range other {
		bs[k] = v
	}
	return bs
}

// Copy makes a shallow copy of the Bindings.
func (bs Bindings) Copy() Bindings {
	return make(Bindings, len(bs)).Merge(bs)
}

// Keys returns the sorted keys.
func (bs Bindings) Keys() []string {
	acc := make([]string, 0, len(bs))
	for k := range bs {
		acc = append(acc, k)
	}
	sort.Strings(acc)
	return acc
}

// String returns the value at p if that value is a string.
func (bs Bindings) String(p string) (string, bool) {
	s, is := bs[p].(string)
	return s, is
}

// Int returns the value at p as an int when it's any kind of number.
func (bs Bindings) Int(p string) (int, bool) {
	return AsInt(bs[p])
}

// Float returns the value at p as a float64 when it's any kind of
// number.
func (bs Bindings) Float(p string) (float64, bool) {
	return AsFloat(bs[p])
}

// Bool returns the value at p if that value is a bool.
func (bs Bindings) Bool(p string) (bool, bool) {
	b, is := bs[p].(bool)
	return b, is
}

// Strings returns the value at p as a []string.
//
// Values that arrived as JSON arrays ([]interface{}) are converted
// when every element is a string.
func (bs Bindings) Strings(p string) ([]string, bool) {
	return AsStrings(bs[p])
}
