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
	"encoding/json"
	"math/rand"
	"time"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Gensym makes a random string of n letters.
//
// Widgets and templates without explicit ids get one of these.
func Gensym(n int) string {
	bs := make([]byte, n)
	for i := range bs {
		bs[i] = letters[rand.Intn(len(letters))]
	}
	return string(bs)
}

// Canonicalize makes x look like what a client would send: maps with
// string keys, float64 numbers, and []interface{} arrays.
func Canonicalize(x interface{}) (interface{}, error) {
	js, err := json.Marshal(x)
	if err != nil {
		return nil, err
	}
	var y interface{}
	err = json.Unmarshal(js, &y)
	return y, err
}

// Timestamp is the current UTC time in RFC3339Nano.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
