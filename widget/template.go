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

package widget

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/Comcast/vizcrew/core"

	"github.com/dop251/goja"
	"github.com/hashicorp/go-multierror"
)

var (
	// InterruptedMessage is the string value of Interrupted.
	InterruptedMessage = "RuntimeError: timeout"

	// Interrupted is returned by Render if the evaluation was
	// interrupted by its context.
	Interrupted = errors.New(InterruptedMessage)

	identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
)

// segment is either literal text or a compiled expression.
type segment struct {
	lit  string
	src  string
	prog *goja.Program
}

// Template is text with {{ expr }} expressions.
//
// Expressions are ECMAScript evaluated with every state key that's a
// valid identifier bound as a global.  Also available at "_":
//
//	bindings: the map of all state values.
//	esc(s): URL query-escape the given string.
//	gensym(): generate a random string.
type Template struct {
	Src  string
	segs []segment
}

// ParseTemplate splits the source into literal and expression
// segments and compiles each expression.
func ParseTemplate(src string) (*Template, error) {
	t := &Template{
		Src: src,
	}
	rest := src
	for {
		i := strings.Index(rest, "{{")
		if i < 0 {
			break
		}
		j := strings.Index(rest[i:], "}}")
		if j < 0 {
			return nil, &BadTemplate{
				Src: src,
				Err: errors.New("unterminated {{"),
			}
		}
		if 0 < i {
			t.segs = append(t.segs, segment{lit: rest[:i]})
		}
		expr := strings.TrimSpace(rest[i+2 : i+j])
		if expr == "" {
			return nil, &BadTemplate{
				Src: src,
				Err: errors.New("empty expression"),
			}
		}
		prog, err := goja.Compile("", "("+expr+")", true)
		if err != nil {
			return nil, &BadTemplate{
				Src: src,
				Err: err,
			}
		}
		t.segs = append(t.segs, segment{
			src:  expr,
			prog: prog,
		})
		rest = rest[i+j+2:]
	}
	if rest != "" {
		t.segs = append(t.segs, segment{lit: rest})
	}
	return t, nil
}

// Render evaluates the template against the bindings.
func (t *Template) Render(ctx context.Context, bs core.Bindings) (string, error) {
	o := goja.New()

	env := map[string]interface{}{
		"bindings": map[string]interface{}(bs.Copy()),
		"gensym": func() interface{} {
			return core.Gensym(32)
		},
		"esc": func(x goja.Value) interface{} {
			return url.QueryEscape(x.String())
		},
	}
	o.Set("_", env)

	for k, v := range bs {
		if !identifier.MatchString(k) || k == "_" {
			continue
		}
		if err := o.Set(k, v); err != nil {
			return "", err
		}
	}

	// We want to make sure that the following goroutine is
	// terminated as soon as possible.
	ictx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ictx.Done()
		o.Interrupt(InterruptedMessage)
	}()

	var b strings.Builder
	for _, seg := range t.segs {
		if seg.prog == nil {
			b.WriteString(seg.lit)
			continue
		}
		v, err := o.RunProgram(seg.prog)
		if err != nil {
			if _, is := err.(*goja.InterruptedError); is {
				return "", Interrupted
			}
			return "", err
		}
		if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
			continue
		}
		b.WriteString(v.String())
	}

	return b.String(), nil
}

// Patch is a rendered template destined for a node's prop ("text"
// for the node's text).
type Patch struct {
	ID    string `json:"id"`
	Prop  string `json:"prop"`
	Value string `json:"value"`
}

// TemplateEngine caches compiled templates.
type TemplateEngine struct {
	sync.Mutex
	cache map[string]*Template
}

func NewTemplateEngine() *TemplateEngine {
	return &TemplateEngine{
		cache: make(map[string]*Template, 8),
	}
}

// Compile returns the (cached) template for the source.
func (e *TemplateEngine) Compile(src string) (*Template, error) {
	e.Lock()
	defer e.Unlock()
	if t, have := e.cache[src]; have {
		return t, nil
	}
	t, err := ParseTemplate(src)
	if err != nil {
		return nil, err
	}
	e.cache[src] = t
	return t, nil
}

// Render compiles (if necessary) and renders.
func (e *TemplateEngine) Render(ctx context.Context, src string, bs core.Bindings) (string, error) {
	t, err := e.Compile(src)
	if err != nil {
		return "", err
	}
	return t.Render(ctx, bs)
}

// Patches renders every template in the tree.
//
// A template that fails renders as the empty string, and its error is
// included in the returned *multierror.Error.  Nodes need ids (see
// AssignIDs).
func (e *TemplateEngine) Patches(ctx context.Context, root *Node, bs core.Bindings) ([]Patch, error) {
	var (
		acc  []Patch
		errs *multierror.Error
	)
	render := func(id, prop, src string) {
		s, err := e.Render(ctx, src, bs)
		if err != nil {
			errs = multierror.Append(errs, err)
			s = ""
		}
		acc = append(acc, Patch{
			ID:    id,
			Prop:  prop,
			Value: s,
		})
	}
	root.Walk(func(n *Node) bool {
		if Templated(n.Content) {
			render(n.ID, "text", n.Content)
		}
		props := make([]string, 0, len(n.Props))
		for p := range n.Props {
			props = append(props, p)
		}
		sort.Strings(props)
		for _, p := range props {
			if s, is := n.Props[p].(string); is && Templated(s) {
				render(n.ID, p, s)
			}
		}
		return true
	})
	return acc, errs.ErrorOrNil()
}
