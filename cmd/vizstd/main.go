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

// Command vizstd runs one demo session that reads ops from stdin and
// writes results to stdout.
//
// Each input line is a JSON op, for example
//
//	{"op":"set","state":{"resolution":12}}
//	{"op":"trigger","name":"reset_camera"}
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Comcast/vizcrew/apps"
	"github.com/Comcast/vizcrew/config"
	"github.com/Comcast/vizcrew/sio"

	"github.com/spf13/afero"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	std := sio.NewStdio()

	flag.BoolVar(&std.EchoInput, "echo", false, "echo input")
	flag.BoolVar(&std.Timestamps, "ts", false, "print timestamps")
	flag.BoolVar(&std.PadTags, "pad", false, "pad tags")
	flag.BoolVar(&std.Tags, "tags", true, "tags")
	flag.StringVar(&std.StateInputFilename, "state", "", "JSON file of initial state")

	var (
		app       = flag.String("app", "cone", "demo: "+strings.Join(apps.Names(), ", "))
		wait      = flag.Duration("wait", time.Second, "wait this long before shutting down couplings")
		haltOnEOF = flag.Bool("halt-on-eof", true, "stop on input EOF")
		verbose   = flag.Bool("v", false, "verbose")
	)

	flag.Parse()

	mk, have := apps.Registry[*app]
	if !have {
		return fmt.Errorf("unknown app %q", *app)
	}

	conf, err := config.Load(afero.NewOsFs())
	if err != nil {
		return err
	}
	logger := conf.Logger("vizstd")
	std.Logger = logger

	env := sio.NewEnv(conf, logger)
	f, err := mk(env)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sc := env.SessionConf()
	sc.HaltOnInputEOF = *haltOnEOF
	s, err := sio.NewSession(ctx, sc, f(), std, logger)
	if err != nil {
		return err
	}
	s.Verbose = *verbose

	if err = std.Start(ctx); err != nil {
		return err
	}

	go func() {
		<-std.InputEOF
		logger.Debug("input EOF", "wait", *wait)
		time.Sleep(*wait)
		cancel()
	}()

	if err := s.Loop(ctx); err != nil {
		return err
	}

	if err = std.Stop(context.Background()); err != nil {
		logger.Warn("stopping stdio", "error", err)
	}
	return nil
}
