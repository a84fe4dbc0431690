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

package core

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// UnknownKeys says what a Store does with a key that was never
// declared.
type UnknownKeys int

const (
	// DeclareUnknown declares the key on its first Set.
	DeclareUnknown UnknownKeys = iota

	// IgnoreUnknown silently drops the entry.
	IgnoreUnknown

	// RejectUnknown fails the whole update with an *UnknownKey.
	RejectUnknown
)

// DefaultMaxDepth limits how deeply handlers can trigger other
// handlers by setting state.
var DefaultMaxDepth = 64

// StoreConf provides some basic Store parameters.
type StoreConf struct {
	Unknown  UnknownKeys
	MaxDepth int
}

// Handler is a change handler.
//
// The Bindings hold the current values of every key the handler
// watches.  The Store is the session's store, which the handler can
// read and write.
type Handler func(ctx context.Context, st *Store, bs Bindings) error

// Registration associates a set of watched keys with a Handler.
type Registration struct {
	ID   int      `json:"id"`
	Name string   `json:"name"`
	Keys []string `json:"keys"`

	handler Handler
}

// Change reports a key that was set (or marked dirty) since the last
// call to TakeChanged.
type Change struct {
	Key   string
	Value interface{}

	// Dirty means somebody asked for this key to be resent even
	// if its value looks the same.
	Dirty bool
}

// Store is the reactive key-value store for one session.
//
// Update commits values and then synchronously invokes every handler
// that watches at least one of the updated keys.  Each handler runs
// at most once per Update, in registration order.  Handler failures
// never roll back the commit.
type Store struct {
	Conf *StoreConf

	// OnError, if not nil, hears about every handler failure.
	OnError func(error)

	logger hclog.Logger

	sync.Mutex
	state   Bindings
	specs   map[string]*KeySpec
	changed map[string]bool
	regs    []*Registration
	depth   int
}

// NewStore makes an empty store.
//
// A nil conf gives the default configuration.  A nil logger gives a
// logger that discards everything.
func NewStore(conf *StoreConf, logger hclog.Logger) *Store {
	if conf == nil {
		conf = &StoreConf{}
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Store{
		Conf:    conf,
		logger:  logger.Named("store"),
		state:   NewBindings(),
		specs:   make(map[string]*KeySpec, 8),
		changed: make(map[string]bool, 8),
	}
}

func (s *Store) maxDepth() int {
	if s.Conf.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return s.Conf.MaxDepth
}

// Declare makes the key known and gives it its default value if it
// doesn't already have a value.
//
// Handlers are not invoked.
func (s *Store) Declare(key string, spec *KeySpec) {
	if spec == nil {
		spec = &KeySpec{}
	}
	s.Lock()
	s.specs[key] = spec
	if _, have := s.state[key]; !have {
		s.state[key] = spec.Default
		s.changed[key] = false
	}
	s.Unlock()
}

// Init declares each key and sets its value.
//
// Handlers are not invoked.  Use this method to establish initial
// state before any handlers are registered.
func (s *Store) Init(bs Bindings) {
	s.Lock()
	for k, v := range bs {
		if _, have := s.specs[k]; !have {
			s.specs[k] = &KeySpec{}
		}
		s.state[k] = v
		s.changed[k] = false
	}
	s.Unlock()
}

// Spec returns the key's KeySpec (if any).
func (s *Store) Spec(key string) (*KeySpec, bool) {
	s.Lock()
	spec, have := s.specs[key]
	s.Unlock()
	return spec, have
}

// Get returns the key's current value.
func (s *Store) Get(key string) (interface{}, bool) {
	s.Lock()
	x, have := s.state[key]
	s.Unlock()
	return x, have
}

// Has reports whether the key is known.
func (s *Store) Has(key string) bool {
	s.Lock()
	_, have := s.specs[key]
	s.Unlock()
	return have
}

func (s *Store) GetString(key string) string {
	x, _ := s.Get(key)
	str, _ := x.(string)
	return str
}

func (s *Store) GetInt(key string) int {
	x, _ := s.Get(key)
	n, _ := AsInt(x)
	return n
}

func (s *Store) GetFloat(key string) float64 {
	x, _ := s.Get(key)
	f, _ := AsFloat(x)
	return f
}

func (s *Store) GetBool(key string) bool {
	x, _ := s.Get(key)
	b, _ := x.(bool)
	return b
}

func (s *Store) GetStrings(key string) []string {
	x, _ := s.Get(key)
	ss, _ := AsStrings(x)
	return ss
}

// Keys returns the sorted list of known keys.
func (s *Store) Keys() []string {
	s.Lock()
	acc := make([]string, 0, len(s.specs))
	for k := range s.specs {
		acc = append(acc, k)
	}
	s.Unlock()
	sort.Strings(acc)
	return acc
}

// Snapshot returns a shallow copy of the entire state.
func (s *Store) Snapshot() Bindings {
	s.Lock()
	defer s.Unlock()
	return s.state.Copy()
}

// Set is Update with a single key.
func (s *Store) Set(ctx context.Context, key string, val interface{}) error {
	return s.Update(ctx, Bindings{key: val})
}

// Update commits the given values and then notifies handlers.
//
// Returns an error only if the values could not be committed (in
// which case nothing was committed).  Handler failures are reported
// via OnError and logged.
func (s *Store) Update(ctx context.Context, bs Bindings) error {
	if len(bs) == 0 {
		return nil
	}

	s.Lock()

	keys := bs.Keys()
	if limit := s.maxDepth(); limit <= s.depth {
		s.Unlock()
		return &TooDeep{
			Limit: limit,
			Keys:  keys,
		}
	}

	commit := make([]string, 0, len(keys))
	for _, k := range keys {
		spec, have := s.specs[k]
		if !have {
			switch s.Conf.Unknown {
			case RejectUnknown:
				s.Unlock()
				return &UnknownKey{
					Key: k,
				}
			case IgnoreUnknown:
				s.logger.Debug("ignoring unknown key", "key", k)
				continue
			}
		}
		if err := spec.ValueCompliesWith(k, bs[k]); err != nil {
			if !spec.Advisory {
				s.Unlock()
				return err
			}
			s.logger.Warn("advisory", "error", err)
		}
		commit = append(commit, k)
	}

	for _, k := range commit {
		if _, have := s.specs[k]; !have {
			s.logger.Debug("declaring", "key", k)
			s.specs[k] = &KeySpec{}
		}
		s.state[k] = bs[k]
		if _, have := s.changed[k]; !have {
			s.changed[k] = false
		}
	}

	regs := s.watching(commit)
	s.depth++
	s.Unlock()

	s.logger.Trace("update", "keys", commit, "handlers", len(regs))

	s.notify(ctx, regs)

	s.Lock()
	s.depth--
	s.Unlock()

	return nil
}

// Dirty notifies the handlers watching the given keys without changing
// any values, and makes sure the keys are included in the next
// TakeChanged.
//
// Unknown keys are ignored.
func (s *Store) Dirty(ctx context.Context, keys ...string) error {
	s.Lock()
	if limit := s.maxDepth(); limit <= s.depth {
		s.Unlock()
		return &TooDeep{
			Limit: limit,
			Keys:  keys,
		}
	}
	known := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, have := s.specs[k]; have {
			s.changed[k] = true
			known = append(known, k)
		}
	}
	regs := s.watching(known)
	s.depth++
	s.Unlock()

	s.notify(ctx, regs)

	s.Lock()
	s.depth--
	s.Unlock()
	return nil
}

// watching returns the registrations that watch any of the keys in
// registration order.
//
// Caller should hold the lock.
func (s *Store) watching(keys []string) []*Registration {
	if len(keys) == 0 {
		return nil
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	acc := make([]*Registration, 0, 4)
REGS:
	for _, r := range s.regs {
		for _, k := range r.Keys {
			if set[k] {
				acc = append(acc, r)
				continue REGS
			}
		}
	}
	return acc
}

func (s *Store) values(keys []string) Bindings {
	s.Lock()
	defer s.Unlock()
	return s.state.Only(keys...)
}

func (s *Store) notify(ctx context.Context, regs []*Registration) {
	for _, r := range regs {
		if err := s.invoke(ctx, r); err != nil {
			s.report(err)
		}
	}
}

// invoke runs the handler, converting a panic into a *HandlerError.
func (s *Store) invoke(ctx context.Context, r *Registration) (err error) {
	defer func() {
		if x := recover(); x != nil {
			err = &HandlerError{
				Name:  r.Name,
				Keys:  r.Keys,
				Err:   fmt.Errorf("%v", x),
				Panic: true,
			}
		}
	}()

	if err := r.handler(ctx, s, s.values(r.Keys)); err != nil {
		return &HandlerError{
			Name: r.Name,
			Keys: r.Keys,
			Err:  err,
		}
	}
	return nil
}

func (s *Store) report(err error) {
	s.logger.Error("handler", "error", err)
	if s.OnError != nil {
		s.OnError(err)
	}
}

// Watch registers the handler for the given keys.
//
// The handler is not invoked now.  See WatchNow.
func (s *Store) Watch(name string, keys []string, h Handler) (int, error) {
	if h == nil {
		return 0, ErrNoHandler
	}
	ks := make([]string, len(keys))
	copy(ks, keys)

	s.Lock()
	r := &Registration{
		ID:      len(s.regs) + 1,
		Name:    name,
		Keys:    ks,
		handler: h,
	}
	s.regs = append(s.regs, r)
	s.Unlock()

	s.logger.Debug("watch", "handler", name, "keys", ks)
	return r.ID, nil
}

// WatchNow registers the handler and then invokes it once with the
// current values.
//
// Use this method when a handler should seed the initial display.  A
// failure of that first invocation is reported like any other handler
// failure.
func (s *Store) WatchNow(ctx context.Context, name string, keys []string, h Handler) (int, error) {
	id, err := s.Watch(name, keys, h)
	if err != nil {
		return 0, err
	}
	s.Lock()
	r := s.regs[id-1]
	s.depth++
	s.Unlock()

	s.notify(ctx, []*Registration{r})

	s.Lock()
	s.depth--
	s.Unlock()
	return id, nil
}

// Registrations returns copies of all handler registrations.
func (s *Store) Registrations() []Registration {
	s.Lock()
	acc := make([]Registration, len(s.regs))
	for i, r := range s.regs {
		acc[i] = Registration{
			ID:   r.ID,
			Name: r.Name,
			Keys: append([]string(nil), r.Keys...),
		}
	}
	s.Unlock()
	return acc
}

// TakeChanged returns the keys set or dirtied since the previous call
// (sorted by key) and forgets them.
func (s *Store) TakeChanged() []Change {
	s.Lock()
	acc := make([]Change, 0, len(s.changed))
	for k, dirty := range s.changed {
		acc = append(acc, Change{
			Key:   k,
			Value: s.state[k],
			Dirty: dirty,
		})
		delete(s.changed, k)
	}
	s.Unlock()
	sort.Slice(acc, func(i, j int) bool { return acc[i].Key < acc[j].Key })
	return acc
}
