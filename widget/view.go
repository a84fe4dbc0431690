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
	"bytes"
	"encoding/json"
	"sync"
)

// Pusher delivers an artifact for a view to the client.
//
// Sessions implement this interface.
type Pusher interface {
	Push(id string, a *Artifact)
}

// PusherFunc lets a function be a Pusher.
type PusherFunc func(id string, a *Artifact)

func (f PusherFunc) Push(id string, a *Artifact) {
	f(id, a)
}

// View is a widget with an imperative Update entrypoint.
//
// Update replaces whatever the view displayed.  Updating with an
// artifact that serializes identically to the previous one doesn't
// push anything.
//
// Mutating a pipeline that produced an artifact isn't observed until
// the next Update.
type View struct {
	ID   string
	Kind string

	pusher Pusher
	node   *Node

	sync.Mutex
	last []byte
}

// NewView makes a view that pushes via the given Pusher.
func NewView(id, kind string, p Pusher) *View {
	return &View{
		ID:     id,
		Kind:   kind,
		pusher: p,
		node: New("view").WithID(id).Propm(
			"kind", kind,
		),
	}
}

// Node returns the view's node for placement in a widget tree.
func (v *View) Node() *Node {
	return v.node
}

// Update serializes the artifact and pushes it unless it's the same
// as what was pushed last.
func (v *View) Update(a *Artifact) error {
	if v.pusher == nil {
		return ErrNoPusher
	}
	if a == nil {
		a = Empty(v.Kind)
	}
	spec, err := json.Marshal(a.Spec)
	if err != nil {
		return err
	}
	js := append([]byte(a.Kind+":"), spec...)

	v.Lock()
	if v.last != nil && bytes.Equal(js, v.last) {
		v.Unlock()
		return nil
	}
	v.last = js
	v.Unlock()

	// The pushed spec is the serialized form, so later mutations
	// of the pipeline can't leak into what was pushed.
	v.pusher.Push(v.ID, &Artifact{
		Kind: a.Kind,
		Spec: json.RawMessage(spec),
	})
	return nil
}

// Reset forgets the last pushed artifact, so the next Update always
// pushes.  Use after a client reconnects.
func (v *View) Reset() {
	v.Lock()
	v.last = nil
	v.Unlock()
}

// Pushed reports whether anything has been pushed since the last
// Reset.
func (v *View) Pushed() bool {
	v.Lock()
	defer v.Unlock()
	return v.last != nil
}
