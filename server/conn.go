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

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/sio"

	"github.com/hashicorp/go-hclog"
)

// ErrClosed occurs when sending to a closed Conn.
var ErrClosed = errors.New("session closed")

// Conn is a running session along with its coupling and its history.
//
// Every result the session emits goes into the History and then to
// each sink in order.
type Conn struct {
	ID      string
	App     string
	Session *sio.Session
	Chans   *sio.Chans
	History *History

	logger hclog.Logger
	sinks  []func(*sio.Result)
	cancel context.CancelFunc
	closed chan struct{}
	once   sync.Once

	// attached counts live push connections (websockets).
	attached atomic.Int32

	// deliverMu serializes delivery to sinks.
	deliverMu sync.Mutex
}

func (c *Conn) deliver(r *sio.Result) {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()
	c.History.Add(r)
	for _, f := range c.sinks {
		f(r)
	}
}

// pump forwards the session's results.
func (c *Conn) pump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-c.Chans.Out:
			if r != nil {
				c.deliver(r)
			}
		}
	}
}

// Send queues an in-bound message for the session's loop.
func (c *Conn) Send(ctx context.Context, msg interface{}) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.closed:
		return ErrClosed
	case c.Chans.In <- msg:
		return nil
	}
}

// Process handles the message synchronously, delivers the result,
// and returns it.
func (c *Conn) Process(ctx context.Context, msg interface{}) (*sio.Result, error) {
	select {
	case <-c.closed:
		return nil, ErrClosed
	default:
	}
	r, err := c.Session.ProcessMsg(ctx, msg)
	if err != nil {
		return nil, err
	}
	if !r.Empty() {
		c.deliver(r)
	}
	return r, nil
}

// Attach notes a live push connection.  An attached Conn doesn't
// expire.
func (c *Conn) Attach() {
	c.attached.Add(1)
}

// Detach undoes an Attach.
func (c *Conn) Detach() {
	c.attached.Add(-1)
}

// Attached reports whether a push connection is live.
func (c *Conn) Attached() bool {
	return 0 < c.attached.Load()
}

// Close stops the session.  Safe to call more than once.
func (c *Conn) Close() {
	c.once.Do(func() {
		c.logger.Debug("closing")
		close(c.closed)
		c.cancel()
		c.Chans.Stop(context.Background())
	})
}

// Closed returns a channel that's closed by Close.
func (c *Conn) Closed() <-chan struct{} {
	return c.closed
}

// QueryBindings makes initial state from URL query parameters.
//
// A value that parses as JSON is used as such; otherwise it's a
// string.  Parameters named in skip are ignored.
func QueryBindings(q url.Values, skip ...string) core.Bindings {
	bs := core.NewBindings()
QUERY:
	for k, vs := range q {
		for _, s := range skip {
			if k == s {
				continue QUERY
			}
		}
		if len(vs) == 0 {
			continue
		}
		v := vs[len(vs)-1]
		var x interface{}
		if err := json.Unmarshal([]byte(v), &x); err == nil {
			bs[k] = x
		} else {
			bs[k] = v
		}
	}
	return bs
}
