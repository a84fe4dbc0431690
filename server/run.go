package server

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"

	"github.com/Comcast/vizcrew/config"
	"github.com/Comcast/vizcrew/dataset"
	"github.com/Comcast/vizcrew/sio"

	"github.com/cli/browser"
	"github.com/spf13/afero"
)

// Flags are the command-line options every binary accepts.
type Flags struct {
	// App binds to localhost and opens a browser.
	App bool

	// Server (the default) listens and logs the URL.
	Server bool
}

// ParseFlags parses -app and -server.
func ParseFlags(name string, args []string) (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.BoolVar(&f.App, "app", false, "open the app in a browser window")
	fs.BoolVar(&f.Server, "server", false, "run as a server (default)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if 0 < fs.NArg() {
		return nil, fmt.Errorf("unexpected arguments %v", fs.Args())
	}
	if f.App && f.Server {
		return nil, fmt.Errorf("-app and -server are exclusive")
	}
	return f, nil
}

// LocalAddr replaces the address's host with localhost.
func LocalAddr(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		port = "0"
	}
	return net.JoinHostPort("localhost", port)
}

// Main runs one app.
func Main(name string, mk sio.Constructor) error {
	return MainApps(name, map[string]sio.Constructor{name: mk}, name)
}

// MainApps runs several apps (see Server.Default).
func MainApps(name string, makers map[string]sio.Constructor, def string) error {
	flags, err := ParseFlags(name, os.Args[1:])
	if err != nil {
		return err
	}

	conf, err := config.Load(afero.NewOsFs())
	if err != nil {
		return err
	}
	logger := conf.Logger(name)
	env := sio.NewEnv(conf, logger)

	if conf.CacheFile != "" {
		cache := dataset.NewCache(conf.CacheFile, logger)
		if err := cache.Open(); err != nil {
			return err
		}
		defer cache.Close()
		env.Loader.Cache = cache
	}

	apps := make(map[string]sio.Factory, len(makers))
	for app, mk := range makers {
		f, err := mk(env)
		if err != nil {
			return fmt.Errorf("%s: %w", app, err)
		}
		apps[app] = f
	}

	srv := New(env, apps, def)
	if conf.MQTT != nil && conf.MQTT.Broker != "" {
		m, err := NewMirror(conf.MQTT, logger)
		if err != nil {
			return err
		}
		defer m.Close()
		srv.Mirror = m
	}

	addr := conf.Addr
	if flags.App {
		addr = LocalAddr(addr)
	}
	l, err := srv.Listen(addr)
	if err != nil {
		return err
	}
	url := "http://" + l.Addr().String() + "/"

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if flags.App {
		go func() {
			if err := browser.OpenURL(url); err != nil {
				logger.Warn("couldn't open a browser", "url", url, "error", err)
			}
		}()
	} else {
		logger.Info("listening", "url", url)
	}

	return srv.Serve(ctx, l)
}
