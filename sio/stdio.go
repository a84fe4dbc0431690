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
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/Comcast/vizcrew/core"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
)

// Stdio is a fairly simple Couplings that uses stdin for input and
// stdout for output.
//
// Each input line is a JSON Op.  Lines starting with '#' and blank
// lines are ignored, and "quit" ends input.
type Stdio struct {
	// In is coupled to session input.
	In io.Reader

	// Out is coupled to session output.
	Out io.Writer

	// Timestamps prepends a timestamp to each output line.
	Timestamps bool

	// EchoInput writes input lines (prepended with "input") to
	// the output.
	EchoInput bool

	// Tags prefixes tags indicating type of output ("input",
	// "state", "update", "patch", "error", "tree").
	Tags bool

	// PadTags adds some padding to tags.
	PadTags bool

	// Fs and StateInputFilename name a JSON object of initial
	// state.
	Fs                 afero.Fs
	StateInputFilename string

	// InputEOF will be closed on EOF from stdin.
	InputEOF chan bool

	Logger hclog.Logger

	WG sync.WaitGroup
	mu sync.Mutex
}

// NewStdio creates a new Stdio.
//
// In and Out are initialized with os.Stdin and os.Stdout
// respectively.
func NewStdio() *Stdio {
	return &Stdio{
		In:       os.Stdin,
		Out:      os.Stdout,
		Fs:       afero.NewOsFs(),
		InputEOF: make(chan bool),
		Logger:   hclog.NewNullLogger(),
	}
}

// Start does nothing.
func (s *Stdio) Start(ctx context.Context) error {
	return nil
}

// Stop waits until IO is complete or was terminated via its context.
func (s *Stdio) Stop(ctx context.Context) error {
	s.WG.Wait()
	return nil
}

// Read reads s.StateInputFilename (if given), which should contain a
// JSON object.
func (s *Stdio) Read(ctx context.Context) (core.Bindings, error) {
	if s.StateInputFilename == "" {
		return nil, nil
	}
	js, err := afero.ReadFile(s.Fs, s.StateInputFilename)
	if err != nil {
		return nil, err
	}
	var bs core.Bindings
	if err = json.Unmarshal(js, &bs); err != nil {
		return nil, err
	}
	return bs, nil
}

func (s *Stdio) printf(tag, format string, args ...interface{}) {
	if s.PadTags {
		tag = fmt.Sprintf("% 8s", tag)
	}
	if s.Tags {
		format = tag + " " + format
	}
	if s.Timestamps {
		ts := fmt.Sprintf("%-31s", core.Timestamp())
		format = ts + " " + format
	}

	s.mu.Lock()
	fmt.Fprintf(s.Out, format, args...)
	s.mu.Unlock()
}

// write prints the result.  With Tags, each part gets its own line.
func (s *Stdio) write(r *Result) {
	if !s.Tags {
		s.printf("", "%s\n", JS(r))
		return
	}
	if r.Tree != nil {
		s.printf("tree", "%s\n", JS(r.Tree))
	}
	if len(r.State) != 0 {
		s.printf("state", "%s\n", JS(r.State))
	}
	for _, u := range r.Updates {
		s.printf("update", "%s\n", JShort(u))
	}
	for _, p := range r.Patches {
		s.printf("patch", "%s\n", JS(p))
	}
	for _, e := range r.Errors {
		s.printf("error", "%s\n", e)
	}
	if r.Pong {
		s.printf("pong", "\n")
	}
}

// IO returns channels for reading from stdin and writing to stdout.
func (s *Stdio) IO(ctx context.Context) (chan interface{}, chan *Result, chan bool, error) {
	in := make(chan interface{})
	done := make(chan bool)
	logger := s.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	s.WG.Add(1)
	go func() {
		defer s.WG.Done()
		defer logger.Debug("stdio input done")
		stdin := bufio.NewReader(s.In)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				line, err := stdin.ReadString('\n')
				if (err == io.EOF && strings.TrimSpace(line) == "") || strings.TrimSpace(line) == "quit" {
					close(done)
					if s.InputEOF != nil {
						close(s.InputEOF)
					}
					return
				}
				if err != nil && err != io.EOF {
					logger.Error("stdin", "error", err)
					return
				}
				if s.EchoInput {
					s.printf("input", "%s\n", strings.TrimRight(line, "\n"))
				}
				if strings.HasPrefix(line, "#") || len(strings.TrimSpace(line)) == 0 {
					continue
				}

				var msg interface{}
				if err := json.Unmarshal([]byte(line), &msg); err != nil {
					logger.Warn("bad input", "error", err)
					s.printf("error", "bad input: %s\n", err)
				} else {
					select {
					case <-ctx.Done():
						return
					case in <- msg:
					}
				}
				if err == io.EOF {
					// Final line without a newline.
					close(done)
					if s.InputEOF != nil {
						close(s.InputEOF)
					}
					return
				}
			}
		}
	}()

	out := make(chan *Result)

	s.WG.Add(1)
	go func() {
		defer s.WG.Done()
		defer logger.Debug("stdio output done")
		for {
			select {
			case <-ctx.Done():
				return
			case r := <-out:
				if r == nil {
					return
				}
				s.write(r)
			}
		}
	}()

	return in, out, done, nil
}
