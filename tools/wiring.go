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

// Package tools renders a session's wiring (widgets, state keys,
// handlers, and triggers) as diagrams.
package tools

import (
	"sort"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/widget"
)

// Binding is a widget prop bound to a state key.
type Binding struct {
	Widget string `json:"widget"`
	Type   string `json:"type"`
	Prop   string `json:"prop"`
	Key    string `json:"key"`
}

// Event is a widget event that invokes a trigger.
type Event struct {
	Widget  string `json:"widget"`
	Type    string `json:"type"`
	Event   string `json:"event"`
	Trigger string `json:"trigger"`
}

// Wiring is what's connected to what in one session.
type Wiring struct {
	Keys     []string            `json:"keys"`
	Handlers []core.Registration `json:"handlers"`
	Bindings []Binding           `json:"bindings"`
	Events   []Event             `json:"events"`
	Triggers []string            `json:"triggers"`
}

// NewWiring gathers the wiring from a store's registrations, its keys,
// the controller's trigger names, and a widget tree (which can be
// nil).
func NewWiring(st *core.Store, ctrl *widget.Controller, tree *widget.Node) *Wiring {
	w := &Wiring{
		Keys:     st.Keys(),
		Handlers: st.Registrations(),
	}
	if ctrl != nil {
		w.Triggers = ctrl.Names()
	}
	if tree == nil {
		return w
	}
	tree.Walk(func(n *widget.Node) bool {
		for _, prop := range sortedKeys(n.Binds) {
			w.Bindings = append(w.Bindings, Binding{
				Widget: n.ID,
				Type:   n.Type,
				Prop:   prop,
				Key:    n.Binds[prop],
			})
		}
		for _, event := range sortedKeys(n.Events) {
			w.Events = append(w.Events, Event{
				Widget:  n.ID,
				Type:    n.Type,
				Event:   event,
				Trigger: n.Events[event],
			})
		}
		return true
	})
	return w
}

func sortedKeys(m map[string]string) []string {
	acc := make([]string, 0, len(m))
	for k := range m {
		acc = append(acc, k)
	}
	sort.Strings(acc)
	return acc
}

// Unwatched returns the keys that no handler watches.
func (w *Wiring) Unwatched() []string {
	watched := make(map[string]bool, len(w.Keys))
	for _, r := range w.Handlers {
		for _, k := range r.Keys {
			watched[k] = true
		}
	}
	var acc []string
	for _, k := range w.Keys {
		if !watched[k] {
			acc = append(acc, k)
		}
	}
	return acc
}
