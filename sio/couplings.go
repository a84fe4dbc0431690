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

	"github.com/Comcast/vizcrew/core"
)

// Couplings provide channels for message input and results output.
//
// For example, an implementation could couple a session to a
// websocket (for IO) or to stdin/stdout.
type Couplings interface {
	// Start initializes the Couplings.
	Start(context.Context) error

	// IO returns the input and result channels along with a
	// channel that's closed when input is exhausted.
	IO(context.Context) (chan interface{}, chan *Result, chan bool, error)

	// Read (optionally) returns initial state that overrides the
	// app's defaults (for example, from a URL's query).
	Read(context.Context) (core.Bindings, error)

	// Stop shuts down the Couplings.
	Stop(context.Context) error
}

// Chans is a Couplings that's just channels.
//
// Other couplings (and tests) can use Chans and read/write its
// channels directly.
type Chans struct {
	In      chan interface{}
	Out     chan *Result
	Done    chan bool
	Initial core.Bindings
}

// NewChans makes a Chans with the given buffer size for In and Out.
func NewChans(size int) *Chans {
	return &Chans{
		In:   make(chan interface{}, size),
		Out:  make(chan *Result, size),
		Done: make(chan bool),
	}
}

// Start does nothing.
func (c *Chans) Start(ctx context.Context) error {
	return nil
}

func (c *Chans) IO(ctx context.Context) (chan interface{}, chan *Result, chan bool, error) {
	return c.In, c.Out, c.Done, nil
}

// Read returns c.Initial.
func (c *Chans) Read(ctx context.Context) (core.Bindings, error) {
	return c.Initial, nil
}

// Stop closes Done.
func (c *Chans) Stop(ctx context.Context) error {
	select {
	case <-c.Done:
	default:
		close(c.Done)
	}
	return nil
}
