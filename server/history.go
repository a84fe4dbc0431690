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
	"sync"
	"time"

	"github.com/Comcast/vizcrew/sio"
)

// Nothings is a channel of nothing.
//
// A Nothings can be used as a semaphore.
type Nothings chan struct{}

// Signals is sort of sequence of semaphores that can be used to report
// when a new result has arrived.
type Signals struct {
	sync.Mutex
	c Nothings
}

func NewSignals() *Signals {
	return &Signals{
		c: make(Nothings),
	}
}

// Signal tells the Signals that something has happened.
func (s *Signals) Signal() {
	s.Lock()
	close(s.c)
	s.c = make(Nothings)
	s.Unlock()
}

// C returns a channel that is closed upon a Signal().
func (s *Signals) C() Nothings {
	s.Lock()
	c := s.c
	s.Unlock()
	return c
}

// History is a bounded buffer of a session's results.
//
// Each result is assigned a sequence number starting at 1.
type History struct {
	sync.RWMutex
	sigs   *Signals
	last   int64
	limit  int
	buffer []HistoryMsg
}

// DefaultHistorySize is the number of results a History keeps.
var DefaultHistorySize = 256

func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		limit:  size,
		sigs:   NewSignals(),
		buffer: make([]HistoryMsg, 0, size),
	}
}

// HistoryMsg associates a number with a result.
type HistoryMsg struct {
	N      int64       `json:"n"`
	Result *sio.Result `json:"result"`
}

// Wait returns a channel that's closed when the History receives a
// new result.
func (h *History) Wait() Nothings {
	return h.sigs.C()
}

// Add appends the result (dropping the oldest if full) and wakes up
// any waiting Get.
func (h *History) Add(r *sio.Result) {
	h.Lock()
	if h.limit <= len(h.buffer) {
		n := copy(h.buffer, h.buffer[1:])
		h.buffer[n] = HistoryMsg{}
		h.buffer = h.buffer[:n]
	}
	h.last++
	h.buffer = append(h.buffer, HistoryMsg{
		N:      h.last,
		Result: r,
	})
	h.Unlock()
	h.sigs.Signal()
}

// Last returns the highest sequence number.
func (h *History) Last() int64 {
	h.RLock()
	defer h.RUnlock()
	return h.last
}

// get returns results after the given sequence number.
func (h *History) get(since int64) []HistoryMsg {
	h.RLock()
	defer h.RUnlock()

	first := h.last - int64(len(h.buffer))
	if since < first {
		since = first
	}
	if h.last <= since {
		return nil
	}
	acc := make([]HistoryMsg, h.last-since)
	copy(acc, h.buffer[since-first:])
	return acc
}

// Get obtains results numbered after since.
//
// When no results are available, this method blocks, with the given
// timeout, until a new result arrives.
func (h *History) Get(ctx context.Context, since int64, timeout time.Duration) []HistoryMsg {
	msgs := h.get(since)
	if len(msgs) != 0 {
		return msgs
	}

	wait := h.Wait()
	// Something could have arrived before Wait.
	if msgs = h.get(since); len(msgs) != 0 {
		return msgs
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	case <-wait:
		msgs = h.get(since)
	}
	return msgs
}
