/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
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

// KeySpec describes a state key: what it's for, what kind of value it
// holds, and where it starts.
//
// Declaring keys is optional unless the store rejects unknown keys.
type KeySpec struct {

	// Doc describes the key in English and Markdown.  Audience
	// is developers, not users.
	Doc string `json:"doc,omitempty" yaml:",omitempty"`

	// PrimitiveType is one of "string", "number", "boolean",
	// "array", "object", or empty (anything goes).
	PrimitiveType string `json:"primitiveType,omitempty" yaml:"primitiveType,omitempty"`

	// Default is the initial value.
	Default interface{} `json:"default,omitempty" yaml:",omitempty"`

	// Advisory indicates that a violation of this spec is a
	// warning, not an error.
	Advisory bool `json:"advisory,omitempty" yaml:",omitempty"`
}

// ValueCompliesWith checks that the given value complies with the
// spec. Returns a *BadValue if not.
func (s *KeySpec) ValueCompliesWith(key string, x interface{}) error {
	if s == nil || s.PrimitiveType == "" || x == nil {
		return nil
	}
	ok := true
	switch s.PrimitiveType {
	case "string":
		_, ok = x.(string)
	case "number":
		_, ok = AsFloat(x)
		if _, is := x.(string); is {
			ok = false
		}
	case "boolean":
		_, ok = x.(bool)
	case "array":
		switch x.(type) {
		case []interface{}, []string, []float64, []int, []map[string]interface{}:
		default:
			ok = false
		}
	case "object":
		switch x.(type) {
		case map[string]interface{}, Bindings:
		default:
			ok = false
		}
	}
	if ok {
		return nil
	}
	return &BadValue{
		Key:  key,
		Want: s.PrimitiveType,
		Got:  x,
	}
}
