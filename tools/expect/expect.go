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

// Package expect is a tool for testing apps.
//
// You construct a Script, which has inputs (ops) and expected
// outputs.  Then run the script against an app's session to see if
// the expected outputs actually appeared.
//
// Each Result a session emits is broken into tagged messages, one per
// part, as in
//
//	{"state":{"resolution":12}}
//	{"update":{"id":"view","artifact":{"kind":"scene","spec":{...}}}}
//	{"patch":{"id":"n3","prop":"text","value":"Clicked on one"}}
//	{"error":"..."}
//
// and an expected output's pattern must match one of those messages.
// Patterns can have variables ("?x"), and an optional guard (a JavaScript expression
// over the variables, without their '?') can check the bindings.
//
// See ../../cmd/vizexpect for command-line use.
package expect

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/widget"

	"github.com/hashicorp/go-hclog"
	"github.com/jsccast/yaml"
)

// Output is a specification for a message that's expected.
type Output struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Pattern must be matched by an emitted message.
	Pattern interface{} `json:"pattern,omitempty" yaml:"pattern,omitempty"`

	// Guard is an optional JavaScript expression that must be
	// true given the match's bindings.
	Guard string `json:"guard,omitempty" yaml:"guard,omitempty"`

	// Bindings, which is the result of a match (and optional
	// guard), is written during processing.  Just for diagnostics.
	Bindings Bindings `json:"bs,omitempty" yaml:"bs,omitempty"`

	// Inverted means that matching output isn't desired!
	Inverted bool `json:"inverted,omitempty" yaml:"inverted,omitempty"`
}

// IO is a package of input ops and required output message
// specifications.
type IO struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Inputs are the ops to send.  A string is parsed as JSON.
	Inputs []interface{} `json:"inputs,omitempty" yaml:"inputs,omitempty"`

	// OutputSet is the set (not a list) of outputs to verify.
	OutputSet []Output `json:"outputSet,omitempty" yaml:"outputSet,omitempty"`

	// Timeout is the optional timeout for this set.
	// Script.DefaultTimeout is the default value.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// Script is mostly a sequence of IOs.
//
// The output of starting the session counts toward the first IO.
type Script struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// App optionally names the app this script exercises.
	App string `json:"app,omitempty" yaml:"app,omitempty"`

	// Initial is the session's optional initial state.
	Initial core.Bindings `json:"initial,omitempty" yaml:"initial,omitempty"`

	// IOs is sequence of IOs that this script will run.
	IOs []IO `json:"ios" yaml:"ios"`

	// ParsePatterns will parse IO.OutputSet.Patterns as JSON.
	ParsePatterns bool `json:"parsePatterns,omitempty" yaml:"parsePatterns,omitempty"`

	// DefaultTimeout is the default timeout for each IO.
	DefaultTimeout time.Duration `json:"defaultTimeout,omitempty" yaml:"defaultTimeout,omitempty"`

	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Parse reads a script in YAML (or JSON).
func Parse(bs []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(bs, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Unmet occurs when an IO's outputs didn't all appear.
type Unmet struct {
	IO      int
	Doc     string
	Missing []Output
}

func (e *Unmet) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "IO %d", e.IO)
	if e.Doc != "" {
		fmt.Fprintf(&b, " (%s)", e.Doc)
	}
	b.WriteString(" missing")
	for _, o := range e.Missing {
		fmt.Fprintf(&b, " %s", sio.JS(o.Pattern))
	}
	return b.String()
}

// Undesired occurs when an inverted output appeared.
type Undesired struct {
	IO      int
	Output  Output
	Message interface{}
}

func (e *Undesired) Error() string {
	return fmt.Sprintf("IO %d undesired output %s", e.IO, sio.JS(e.Message))
}

// Messages breaks a result into tagged messages.
func Messages(r *sio.Result) ([]interface{}, error) {
	var acc []interface{}
	add := func(tag string, x interface{}) error {
		m, err := core.Canonicalize(map[string]interface{}{tag: x})
		if err != nil {
			return err
		}
		acc = append(acc, m)
		return nil
	}
	if r == nil {
		return nil, nil
	}
	if r.Tree != nil {
		if err := add("tree", r.Tree); err != nil {
			return nil, err
		}
	}
	if len(r.State) != 0 {
		if err := add("state", r.State); err != nil {
			return nil, err
		}
	}
	for _, u := range r.Updates {
		if err := add("update", u); err != nil {
			return nil, err
		}
	}
	for _, p := range r.Patches {
		if err := add("patch", p); err != nil {
			return nil, err
		}
	}
	for _, e := range r.Errors {
		if err := add("error", e); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// Run starts a session of the app and processes all of the IOs.
func (s *Script) Run(ctx context.Context, f sio.Factory, logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	cs := sio.NewChans(1)
	cs.Initial = s.Initial
	sess, err := sio.NewSession(ctx, nil, f(), cs, logger)
	if err != nil {
		return err
	}

	r, err := sess.Start(ctx)
	if err != nil {
		return err
	}
	started, err := s.messages(r, logger)
	if err != nil {
		return err
	}
	if r, err = sess.Ready(ctx); err != nil {
		return err
	}
	ready, err := s.messages(r, logger)
	if err != nil {
		return err
	}

	engine := widget.NewTemplateEngine()
	prev := append(started, ready...)
	for i := range s.IOs {
		if err := s.runIO(ctx, sess, engine, i, prev, logger); err != nil {
			return err
		}
		prev = nil
	}
	return nil
}

func (s *Script) messages(r *sio.Result, logger hclog.Logger) ([]interface{}, error) {
	ms, err := Messages(r)
	if err != nil {
		return nil, err
	}
	if s.Verbose {
		for _, m := range ms {
			logger.Info("out", "message", sio.JShort(m))
		}
	}
	return ms, nil
}

// runIO sends the IO's inputs and then checks its outputs against
// what the inputs produced (plus prev).
func (s *Script) runIO(ctx context.Context, sess *sio.Session, engine *widget.TemplateEngine, i int, prev []interface{}, logger hclog.Logger) error {
	iop := &s.IOs[i]
	timeout := iop.Timeout
	if timeout == 0 {
		timeout = s.DefaultTimeout
	}
	if 0 < timeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	msgs := prev
	for _, input := range iop.Inputs {
		if js, is := input.(string); is {
			var x interface{}
			if err := json.Unmarshal([]byte(js), &x); err != nil {
				return fmt.Errorf("IO %d input %s: %w", i, js, err)
			}
			input = x
		}
		if s.Verbose {
			logger.Info("in", "op", sio.JShort(input))
		}
		r, err := sess.ProcessMsg(ctx, input)
		if err != nil {
			return err
		}
		ms, err := s.messages(r, logger)
		if err != nil {
			return err
		}
		msgs = append(msgs, ms...)
	}

	for j := range iop.OutputSet {
		o := &iop.OutputSet[j]
		o.Bindings = nil
		pattern := o.Pattern
		if s.ParsePatterns {
			js, is := pattern.(string)
			if !is {
				return fmt.Errorf("IO %d pattern %v isn't a string", i, pattern)
			}
			if err := json.Unmarshal([]byte(js), &pattern); err != nil {
				return fmt.Errorf("Unmarshal error %v for %s", err, js)
			}
		}
		for _, m := range msgs {
			bs, ok := Match(pattern, m, nil)
			if !ok {
				continue
			}
			if o.Guard != "" {
				ok, err := guard(ctx, engine, o.Guard, bs)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
			}
			if o.Inverted {
				return &Undesired{
					IO:      i,
					Output:  *o,
					Message: m,
				}
			}
			o.Bindings = bs
			break
		}
	}

	var missing []Output
	for _, o := range iop.OutputSet {
		if !o.Inverted && o.Bindings == nil {
			missing = append(missing, o)
		}
	}
	if 0 < len(missing) {
		return &Unmet{
			IO:      i,
			Doc:     iop.Doc,
			Missing: missing,
		}
	}
	return ctx.Err()
}

// guard evaluates the expression with the bindings' variables (minus
// their leading '?').
func guard(ctx context.Context, engine *widget.TemplateEngine, src string, bs Bindings) (bool, error) {
	env := make(core.Bindings, len(bs))
	for k, v := range bs {
		env[strings.TrimPrefix(k, "?")] = v
	}
	s, err := engine.Render(ctx, "{{ !!("+src+") }}", env)
	if err != nil {
		return false, err
	}
	return s == "true", nil
}
