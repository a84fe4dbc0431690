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
	"fmt"
	"sort"
	"sync"

	"github.com/Comcast/vizcrew/core"

	"github.com/hashicorp/go-multierror"
)

// Trigger is a named action a client event can invoke.
type Trigger func(ctx context.Context, args []interface{}) error

// Controller holds named triggers.
//
// A name can have several triggers (for example, one "update_views"
// that updates a dozen views).  They run in the order added.
type Controller struct {
	sync.Mutex
	triggers map[string][]Trigger
	ready    []func(context.Context) error
}

func NewController() *Controller {
	return &Controller{
		triggers: make(map[string][]Trigger, 8),
	}
}

// Add appends a trigger under the name.
func (c *Controller) Add(name string, t Trigger) {
	c.Lock()
	c.triggers[name] = append(c.triggers[name], t)
	c.Unlock()
}

// Set replaces any triggers under the name.
func (c *Controller) Set(name string, t Trigger) {
	c.Lock()
	c.triggers[name] = []Trigger{t}
	c.Unlock()
}

func (c *Controller) Has(name string) bool {
	c.Lock()
	_, have := c.triggers[name]
	c.Unlock()
	return have
}

// Names returns the sorted trigger names.
func (c *Controller) Names() []string {
	c.Lock()
	acc := make([]string, 0, len(c.triggers))
	for name := range c.triggers {
		acc = append(acc, name)
	}
	c.Unlock()
	sort.Strings(acc)
	return acc
}

// Trigger runs every trigger under the name.
//
// All of the triggers run even if some fail.  Failures are gathered
// into a *multierror.Error.  A panic becomes a *core.HandlerError.
func (c *Controller) Trigger(ctx context.Context, name string, args []interface{}) error {
	c.Lock()
	ts, have := c.triggers[name]
	c.Unlock()
	if !have {
		return &UnknownTrigger{
			Name: name,
		}
	}
	var errs *multierror.Error
	for _, t := range ts {
		if err := call(name, func() error { return t(ctx, args) }); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// OnReady adds a function to run once the client has the widget tree.
func (c *Controller) OnReady(f func(context.Context) error) {
	c.Lock()
	c.ready = append(c.ready, f)
	c.Unlock()
}

// Ready runs (and forgets) the OnReady functions.
func (c *Controller) Ready(ctx context.Context) error {
	c.Lock()
	fs := c.ready
	c.ready = nil
	c.Unlock()

	var errs *multierror.Error
	for _, f := range fs {
		if err := call("ready", func() error { return f(ctx) }); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// call runs f, converting a panic into a *core.HandlerError.
func call(name string, f func() error) (err error) {
	defer func() {
		if x := recover(); x != nil {
			err = &core.HandlerError{
				Name:  name,
				Err:   fmt.Errorf("%v", x),
				Panic: true,
			}
		}
	}()
	return f()
}
