// Command vizexpect runs an expect script against a demo.
//
// The script is YAML (see package tools/expect).  The demo comes from
// -app or, if that's empty, from the script's "app".
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Comcast/vizcrew/apps"
	"github.com/Comcast/vizcrew/config"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/tools/expect"

	"github.com/spf13/afero"
)

func main() {
	var (
		filename = flag.String("f", "cmd/vizexpect/scripts/cone.yaml", "script filename")
		app      = flag.String("app", "", "demo (defaults to the script's)")
		timeout  = flag.Duration("t", 10*time.Second, "main timeout")
		verbose  = flag.Bool("v", false, "verbose")
	)
	flag.Parse()

	if err := run(*filename, *app, *timeout, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(filename, app string, timeout time.Duration, verbose bool) error {
	fs := afero.NewOsFs()
	bs, err := afero.ReadFile(fs, filename)
	if err != nil {
		return err
	}
	s, err := expect.Parse(bs)
	if err != nil {
		return err
	}
	if app == "" {
		app = s.App
	}
	mk, have := apps.Registry[app]
	if !have {
		return fmt.Errorf("unknown app %q", app)
	}
	s.Verbose = s.Verbose || verbose

	conf, err := config.Load(fs)
	if err != nil {
		return err
	}
	logger := conf.Logger("vizexpect")
	f, err := mk(sio.NewEnv(conf, logger))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Run(ctx, f, logger); err != nil {
		return err
	}
	logger.Info("passed", "script", filename, "ios", len(s.IOs))
	return nil
}
