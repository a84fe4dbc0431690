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

// Package testutil drives app sessions in tests without a server.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/Comcast/vizcrew/config"
	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/dataset"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/widget"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
)

// JS renders its argument as JSON or as a string indicating an error.
func JS(x interface{}) string {
	bs, err := json.Marshal(&x)
	if err != nil {
		return fmt.Sprintf("%#v", x)
	}
	return string(bs)
}

// Dwimjs, when given a string or bytes that parse as JSON, returns
// the parsed value.  Otherwise it returns what's given.
//
// See https://en.wikipedia.org/wiki/DWIM.
func Dwimjs(x interface{}) interface{} {
	switch vv := x.(type) {
	case []byte:
		return Dwimjs(string(vv))
	case string:
		var v interface{}
		if err := json.Unmarshal([]byte(vv), &v); err != nil {
			return vv
		}
		return v
	default:
		return x
	}
}

// Env makes an Env whose Loader reads from the given filesystem and
// never reaches the network.  A nil fs gives an empty in-memory one.
func Env(t testing.TB, fs afero.Fs) *sio.Env {
	if fs == nil {
		fs = afero.NewMemMapFs()
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "test",
		Level:  hclog.Warn,
		Output: testWriter{t},
	})
	env := sio.NewEnv(config.Default(), logger)
	env.Loader = dataset.NewLoader(fs, logger)
	return env
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

// Harness is a started session.
type Harness struct {
	T       testing.TB
	Ctx     context.Context
	Session *sio.Session

	// Initial is what Start and Ready returned.
	Initial *sio.Result
}

// Start makes a session for the factory's app, starts it with the
// given initial state (which may be nil), and runs Ready.
func Start(t testing.TB, f sio.Factory, initial core.Bindings) *Harness {
	ctx := context.Background()
	cs := sio.NewChans(8)
	cs.Initial = initial
	s, err := sio.NewSession(ctx, nil, f(), cs, nil)
	if err != nil {
		t.Fatal(err)
	}
	r, err := s.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	ready, err := s.Ready(ctx)
	if err != nil {
		t.Fatal(err)
	}
	r.Updates = append(r.Updates, ready.Updates...)
	r.Errors = append(r.Errors, ready.Errors...)
	return &Harness{
		T:       t,
		Ctx:     ctx,
		Session: s,
		Initial: r,
	}
}

// Process sends a message and fails on a processing error.
func (h *Harness) Process(msg interface{}) *sio.Result {
	r, err := h.Session.ProcessMsg(h.Ctx, msg)
	if err != nil {
		h.T.Fatal(err)
	}
	return r
}

// Set sends a "set" op.
func (h *Harness) Set(bs core.Bindings) *sio.Result {
	return h.Process(&sio.Op{
		Op:    "set",
		State: bs,
	})
}

// Trigger sends a "trigger" op.
func (h *Harness) Trigger(name string, args ...interface{}) *sio.Result {
	return h.Process(&sio.Op{
		Op:   "trigger",
		Name: name,
		Args: args,
	})
}

// Displayed returns what the view displays, failing if nothing.
func (h *Harness) Displayed(id string) *widget.Artifact {
	a, have := h.Session.Displayed(id)
	if !have {
		h.T.Fatalf("view %s displays nothing", id)
	}
	return a
}

// Spec returns the view's displayed spec as parsed JSON.
func (h *Harness) Spec(id string) map[string]interface{} {
	a := h.Displayed(id)
	x := Dwimjs(JS(a.Spec))
	if x == nil {
		return nil
	}
	m, is := x.(map[string]interface{})
	if !is {
		h.T.Fatalf("view %s displays %s", id, JS(a.Spec))
	}
	return m
}

// NoErrors fails if the result reports errors.
func (h *Harness) NoErrors(r *sio.Result) {
	if r != nil && 0 < len(r.Errors) {
		h.T.Fatal(r.Errors)
	}
}

// Updated reports whether the result includes an update for the view.
func Updated(r *sio.Result, id string) bool {
	for _, u := range r.Updates {
		if u.ID == id {
			return true
		}
	}
	return false
}
