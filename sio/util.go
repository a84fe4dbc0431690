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

package sio

import (
	"encoding/json"
	"fmt"
)

// ShortLimit is how much of a message JShort shows.
var ShortLimit = 70

// JS renders its argument as JSON (falling back to '%#v') for logs.
func JS(x interface{}) string {
	if x == nil {
		return "null"
	}
	if js, err := json.Marshal(x); err == nil {
		return string(js)
	}
	return fmt.Sprintf("%#v", x)
}

// JShort is JS truncated to ShortLimit bytes plus "...".
func JShort(x interface{}) string {
	s := JS(x)
	if len(s) <= ShortLimit {
		return s
	}
	return s[:ShortLimit] + "..."
}
