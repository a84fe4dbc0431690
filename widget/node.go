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
	"sort"
	"strings"

	"github.com/Comcast/vizcrew/core"
)

// Node is an element of a widget tree.
//
// Binds maps a prop name to a state key.  Input widgets write their
// bound "value" prop back to the state.  Events maps a client-side
// event ("click", "end", ...) to the name of a Controller trigger.
type Node struct {
	ID       string                 `json:"id,omitempty"`
	Type     string                 `json:"type"`
	Props    map[string]interface{} `json:"props,omitempty"`
	Binds    map[string]string      `json:"bind,omitempty"`
	Events   map[string]string      `json:"events,omitempty"`
	Content  string                 `json:"text,omitempty"`
	Children []*Node                `json:"children,omitempty"`
}

// New makes a node of the given type.
func New(typ string) *Node {
	return &Node{
		Type: typ,
	}
}

// WithID sets the node's id.
func (n *Node) WithID(id string) *Node {
	n.ID = id
	return n
}

// Prop sets a static prop.
func (n *Node) Prop(name string, val interface{}) *Node {
	if n.Props == nil {
		n.Props = make(map[string]interface{}, 4)
	}
	n.Props[name] = val
	return n
}

// Propm sets several static props from alternating names and
// values.
func (n *Node) Propm(pairs ...interface{}) *Node {
	for i := 0; i+1 < len(pairs); i += 2 {
		if name, is := pairs[i].(string); is {
			n.Prop(name, pairs[i+1])
		}
	}
	return n
}

// Bind binds a prop to a state key.
func (n *Node) Bind(prop, key string) *Node {
	if n.Binds == nil {
		n.Binds = make(map[string]string, 2)
	}
	n.Binds[prop] = key
	return n
}

// Model binds the node's "value" to the state key.
func (n *Node) Model(key string) *Node {
	return n.Bind("value", key)
}

// On routes a client event to a Controller trigger.
func (n *Node) On(event, trigger string) *Node {
	if n.Events == nil {
		n.Events = make(map[string]string, 2)
	}
	n.Events[event] = trigger
	return n
}

// Text sets the node's text, which can include {{ expr }} templates.
func (n *Node) Text(s string) *Node {
	n.Content = s
	return n
}

// Add appends children.  Nil children are skipped.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Clear removes all children.
func (n *Node) Clear() *Node {
	n.Children = nil
	return n
}

// Walk calls the function on the node and then on its descendants
// (depth first).  Returning false stops the descent below that node.
func (n *Node) Walk(f func(*Node) bool) {
	if n == nil {
		return
	}
	if !f(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(f)
	}
}

// Find returns the node with the given id.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(m *Node) bool {
		if found != nil {
			return false
		}
		if m.ID == id {
			found = m
			return false
		}
		return true
	})
	return found
}

// AssignIDs gives every node without an id a generated one.
func (n *Node) AssignIDs() {
	n.Walk(func(m *Node) bool {
		if m.ID == "" {
			m.ID = m.Type + "-" + core.Gensym(8)
		}
		return true
	})
}

// BoundKeys returns the sorted set of state keys referenced by
// bindings anywhere in the tree.
func (n *Node) BoundKeys() []string {
	set := make(map[string]bool, 8)
	n.Walk(func(m *Node) bool {
		for _, k := range m.Binds {
			set[k] = true
		}
		return true
	})
	acc := make([]string, 0, len(set))
	for k := range set {
		acc = append(acc, k)
	}
	sort.Strings(acc)
	return acc
}

// Triggers returns the sorted set of trigger names referenced by
// events anywhere in the tree.
func (n *Node) Triggers() []string {
	set := make(map[string]bool, 8)
	n.Walk(func(m *Node) bool {
		for _, t := range m.Events {
			set[t] = true
		}
		return true
	})
	acc := make([]string, 0, len(set))
	for t := range set {
		acc = append(acc, t)
	}
	sort.Strings(acc)
	return acc
}

// Templated reports whether the string contains a {{ }} template.
func Templated(s string) bool {
	i := strings.Index(s, "{{")
	return 0 <= i && strings.Contains(s[i:], "}}")
}
