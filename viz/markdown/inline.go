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

package markdown

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/spf13/afero"
)

var inlinePattern = regexp.MustCompile(`(?s)(.*?)(%inline *\("([^"]*)"\))`)

// MaxInlineDepth limits nested inlines.
var MaxInlineDepth = 4

// Inline replaces '%inline("NAME")' with f(NAME).
func Inline(bs []byte, f func(string) ([]byte, error)) ([]byte, error) {
	i := 0
	acc := make([]byte, 0, len(bs))
	for {
		part := inlinePattern.FindSubmatch(bs[i:])
		if part == nil {
			acc = append(acc, bs[i:]...)
			break
		}
		i += len(part[0])
		acc = append(acc, part[1]...)
		replacement, err := f(string(part[3]))
		if err != nil {
			return nil, err
		}
		acc = append(acc, replacement...)
	}
	return acc, nil
}

// ReadWithInlines reads dir/name and expands its inlines, which are
// also relative to dir.
func ReadWithInlines(fs afero.Fs, dir, name string) ([]byte, error) {
	return readWithInlines(fs, dir, name, 0)
}

func readWithInlines(fs afero.Fs, dir, name string, depth int) ([]byte, error) {
	if MaxInlineDepth < depth {
		return nil, fmt.Errorf("inlines nested too deeply at %s", name)
	}
	bs, err := afero.ReadFile(fs, filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	return Inline(bs, func(name string) ([]byte, error) {
		return readWithInlines(fs, dir, name, depth+1)
	})
}
