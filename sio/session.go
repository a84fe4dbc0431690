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
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/widget"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

// App builds one session's widget tree.
//
// Build declares the session's state, registers change handlers,
// creates views, and adds controller triggers.  Each session gets its
// own App, so an App can own its pipelines outright.
type App interface {
	Build(ctx context.Context, s *Session) (*widget.Node, error)
}

// Factory makes an App for a new session.
type Factory func() App

// Op is an in-bound message.
type Op struct {
	// Op is "set", "trigger", "hello", or "ping".
	Op string `json:"op"`

	// State holds the values for a "set".
	State core.Bindings `json:"state,omitempty"`

	// Name is the trigger name for a "trigger".
	Name string `json:"name,omitempty"`

	// Args are the trigger's arguments.
	Args []interface{} `json:"args,omitempty"`
}

// Update is an artifact for a view.
type Update struct {
	ID       string           `json:"id"`
	Artifact *widget.Artifact `json:"artifact"`
}

// Result represents all visible output from processing a message.
type Result struct {
	Session string `json:"session,omitempty"`

	// Tree is the entire widget tree.  Only sent at the start
	// (or when a client says hello).
	Tree *widget.Node `json:"tree,omitempty"`

	// State holds the net state changes.
	State core.Bindings `json:"state,omitempty"`

	// Updates are the view updates in the order first pushed.  If
	// a view was updated more than once, only the last update is
	// included.
	Updates []*Update `json:"updates,omitempty"`

	// Patches are rendered text templates that changed.
	Patches []widget.Patch `json:"patches,omitempty"`

	Errors []string `json:"errors,omitempty"`

	Pong bool `json:"pong,omitempty"`
}

// Empty reports whether the result has nothing to say.
func (r *Result) Empty() bool {
	return r.Tree == nil && len(r.State) == 0 && len(r.Updates) == 0 &&
		len(r.Patches) == 0 && len(r.Errors) == 0 && !r.Pong
}

// SessionConf provides some basic Session parameters.
type SessionConf struct {
	// Id is generated if empty.
	Id string `json:"id,omitempty"`

	Store *core.StoreConf `json:"-"`

	// HaltOnInputEOF stops the Loop when the Couplings close
	// their done channel.
	HaltOnInputEOF bool `json:"haltOnInputEOF,omitempty"`
}

// BadOp occurs when an in-bound message isn't a known Op.
type BadOp struct {
	Msg interface{}
}

func (e *BadOp) Error() string {
	return "bad op: " + JShort(e.Msg)
}

// Session is one client's state, widget tree, and app, with I/O
// coupled via two channels (in and out).
//
// Messages are processed one at a time, each to completion.
type Session struct {
	Id    string
	Conf  *SessionConf
	Store *core.Store
	Ctrl  *widget.Controller
	Tree  *widget.Node

	// Verbose turns on Logf output.
	Verbose bool

	app       App
	couplings Couplings
	logger    hclog.Logger
	templates *widget.TemplateEngine
	started   bool

	views     map[string]*widget.View
	displayed map[string]*widget.Artifact

	// previous caches the JSON of state values last sent.
	previous map[string]string

	// rendered caches the template patches last sent.
	rendered map[string]string

	// updates and errs accumulate while processing a message.
	updates []*Update
	errs    *multierror.Error

	in   chan interface{}
	out  chan *Result
	done chan bool

	// Mutex serializes message processing.
	sync.Mutex
}

// NewSession makes a session for the app with the given couplings.
//
// The coupling's IO() method is called to obtain the session's in/out
// channels.
func NewSession(ctx context.Context, conf *SessionConf, app App, couplings Couplings, logger hclog.Logger) (*Session, error) {
	in, out, done, err := couplings.IO(ctx)
	if err != nil {
		return nil, err
	}
	if conf == nil {
		conf = &SessionConf{}
	}
	if conf.Id == "" {
		conf.Id = uuid.NewString()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("session").With("session", conf.Id)

	s := &Session{
		Id:        conf.Id,
		Conf:      conf,
		Store:     core.NewStore(conf.Store, logger),
		Ctrl:      widget.NewController(),
		app:       app,
		couplings: couplings,
		logger:    logger,
		templates: widget.NewTemplateEngine(),
		views:     make(map[string]*widget.View, 4),
		displayed: make(map[string]*widget.Artifact, 4),
		previous:  make(map[string]string, 32),
		rendered:  make(map[string]string, 8),
		in:        in,
		out:       out,
		done:      done,
	}
	s.Store.OnError = s.noteError

	return s, nil
}

// Logger returns the session's logger.
func (s *Session) Logger() hclog.Logger {
	return s.logger
}

// Logf logs if s.Verbose.
func (s *Session) Logf(format string, args ...interface{}) {
	if !s.Verbose {
		return
	}
	s.logger.Info(fmt.Sprintf(format, args...))
}

// Errorf emits an error result and writes a log line at ERROR.
func (s *Session) Errorf(ctx context.Context, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	s.logger.Error(msg)
	select {
	case <-ctx.Done():
	case s.out <- &Result{
		Session: s.Id,
		Errors:  []string{msg},
	}:
	}
}

func (s *Session) noteError(err error) {
	s.errs = multierror.Append(s.errs, err)
}

// View makes (or returns the existing) view with the given id.
func (s *Session) View(id, kind string) *widget.View {
	if v, have := s.views[id]; have {
		return v
	}
	v := widget.NewView(id, kind, s)
	s.views[id] = v
	return v
}

// Push implements widget.Pusher.
func (s *Session) Push(id string, a *widget.Artifact) {
	s.displayed[id] = a
	for _, u := range s.updates {
		if u.ID == id {
			u.Artifact = a
			return
		}
	}
	s.updates = append(s.updates, &Update{
		ID:       id,
		Artifact: a,
	})
}

// Displayed returns what the view currently displays.
func (s *Session) Displayed(id string) (*widget.Artifact, bool) {
	s.Lock()
	defer s.Unlock()
	a, have := s.displayed[id]
	return a, have
}

// Start builds the app and returns the initial result, which
// includes the widget tree and the entire state.
//
// Calling Start more than once is an error.
func (s *Session) Start(ctx context.Context) (*Result, error) {
	s.Lock()
	defer s.Unlock()

	if s.started {
		return nil, fmt.Errorf("session %s already started", s.Id)
	}
	s.started = true

	s.begin()

	tree, err := s.app.Build(ctx, s)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		tree = widget.New("empty")
	}
	tree.AssignIDs()
	s.Tree = tree

	initial, err := s.couplings.Read(ctx)
	if err != nil {
		s.noteError(err)
	} else if len(initial) != 0 {
		s.Logf("initial state %s", JS(initial))
		if err := s.Store.Update(ctx, initial); err != nil {
			s.noteError(err)
		}
	}

	return s.full(ctx)
}

// Ready runs the controller's OnReady functions.
//
// Call after the client has the tree.
func (s *Session) Ready(ctx context.Context) (*Result, error) {
	s.Lock()
	defer s.Unlock()

	s.begin()
	if err := s.Ctrl.Ready(ctx); err != nil {
		s.noteError(err)
	}
	return s.finish(ctx)
}

// full makes a Result with the tree, the entire state, and everything
// views display.
func (s *Session) full(ctx context.Context) (*Result, error) {
	s.Store.TakeChanged()
	s.previous = make(map[string]string, len(s.previous))
	s.rendered = make(map[string]string, len(s.rendered))

	r, err := s.finish(ctx)
	if err != nil {
		return nil, err
	}
	r.Tree = s.Tree

	state := s.Store.Snapshot()
	for k, v := range state {
		js, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		s.previous[k] = string(js)
	}
	r.State = state

	for id, a := range s.displayed {
		found := false
		for _, u := range r.Updates {
			if u.ID == id {
				found = true
				break
			}
		}
		if !found {
			r.Updates = append(r.Updates, &Update{
				ID:       id,
				Artifact: a,
			})
		}
	}

	return r, nil
}

func (s *Session) begin() {
	s.updates = nil
	s.errs = nil
}

// finish computes the net changes since begin().
func (s *Session) finish(ctx context.Context) (*Result, error) {
	r := &Result{
		Session: s.Id,
		Updates: s.updates,
	}
	s.updates = nil

	for _, ch := range s.Store.TakeChanged() {
		js, err := json.Marshal(ch.Value)
		if err != nil {
			return nil, err
		}
		current := string(js)
		if previous, have := s.previous[ch.Key]; have && !ch.Dirty && previous == current {
			continue
		}
		s.previous[ch.Key] = current
		if r.State == nil {
			r.State = core.NewBindings()
		}
		r.State[ch.Key] = ch.Value
	}

	if s.Tree != nil {
		patches, err := s.templates.Patches(ctx, s.Tree, s.Store.Snapshot())
		if err != nil {
			s.logger.Warn("templates", "error", err)
		}
		for _, p := range patches {
			k := p.ID + "/" + p.Prop
			if previous, have := s.rendered[k]; have && previous == p.Value {
				continue
			}
			s.rendered[k] = p.Value
			r.Patches = append(r.Patches, p)
		}
	}

	if s.errs != nil {
		for _, err := range s.errs.Errors {
			r.Errors = append(r.Errors, err.Error())
		}
		s.errs = nil
	}

	return r, nil
}

// AsOp interprets a message as an Op.
func AsOp(msg interface{}) (*Op, error) {
	js, err := json.Marshal(&msg)
	if err != nil {
		return nil, err
	}
	var op Op
	if err = json.Unmarshal(js, &op); err != nil {
		return nil, &BadOp{
			Msg: msg,
		}
	}
	return &op, nil
}

// ProcessMsg processes the given message and returns the results,
// which can then be processed by the session's Result coupling.
func (s *Session) ProcessMsg(ctx context.Context, msg interface{}) (*Result, error) {
	s.Logf("ProcessMsg %s", JShort(msg))

	s.Lock()
	defer s.Unlock()

	if !s.started {
		return nil, fmt.Errorf("session %s not started", s.Id)
	}

	s.begin()

	op, err := AsOp(msg)
	if err != nil {
		s.noteError(err)
		return s.finish(ctx)
	}

	switch op.Op {
	case "set":
		if err := s.Store.Update(ctx, op.State); err != nil {
			s.noteError(err)
		}
	case "trigger":
		if err := s.Ctrl.Trigger(ctx, op.Name, op.Args); err != nil {
			s.noteError(err)
		}
	case "hello":
		for _, v := range s.views {
			v.Reset()
		}
		return s.full(ctx)
	case "ping":
		r, err := s.finish(ctx)
		if err != nil {
			return nil, err
		}
		r.Pong = true
		return r, nil
	default:
		s.noteError(&BadOp{
			Msg: msg,
		})
	}

	return s.finish(ctx)
}

func (s *Session) emit(ctx context.Context, r *Result) {
	if r == nil || r.Empty() {
		return
	}
	for _, e := range r.Errors {
		s.logger.Error("processing", "error", e)
	}
	select {
	case <-ctx.Done():
	case s.out <- r:
	}
}

// Loop starts the session (if necessary) and then processes input in
// the current goroutine.
//
// This loop calls ProcessMsg on each message that arrives via the
// input coupling, and the loop halts when ctx.Done().
func (s *Session) Loop(ctx context.Context) error {
	s.Logf("Session.Loop starting")

	if !s.started {
		r, err := s.Start(ctx)
		if err != nil {
			return err
		}
		s.emit(ctx, r)
		if r, err = s.Ready(ctx); err != nil {
			return err
		}
		s.emit(ctx, r)
	}

LOOP:
	for {
		select {
		case <-s.done:
			if s.Conf.HaltOnInputEOF {
				s.Logf("Session.Loop shutting down (s.done)")
				break LOOP
			}
			// Don't spin on a closed channel.
			s.done = nil
		case <-ctx.Done():
			s.Logf("Session.Loop shutting down (ctx.Done)")
			break LOOP
		case msg := <-s.in:
			if msg == nil {
				break LOOP
			}
			r, err := s.ProcessMsg(ctx, msg)
			if err != nil {
				s.Errorf(ctx, "Session.Loop ProcessMsg %s", err)
				continue
			}
			s.emit(ctx, r)
		}
	}

	s.Logf("Session.Loop done")
	return nil
}
