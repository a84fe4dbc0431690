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

// Package server serves apps to browsers.
//
// Each websocket connection (or POST to /sessions) gets its own
// session with its own app instance.  Results are written to the
// websocket, kept in a history for long-polling, and optionally
// mirrored to MQTT.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/tools"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/net/netutil"
)

//go:embed client
var client embed.FS

var pages = template.Must(template.ParseFS(client, "client/*.html"))

// UnknownApp occurs when a request names an app the server doesn't
// have.
type UnknownApp struct {
	Name string
}

func (e *UnknownApp) Error() string {
	return fmt.Sprintf("unknown app %q", e.Name)
}

// Server serves one or more apps.
type Server struct {
	Env *sio.Env

	// Apps maps names to factories.
	Apps map[string]sio.Factory

	// Default is the app served at "/" without an "app" query
	// parameter.  If empty, "/" shows the list of apps.
	Default string

	Registry *Registry

	// Mirror, if not nil, mirrors state to MQTT.
	Mirror *Mirror

	// HistorySize is the capacity of each session's History.
	HistorySize int

	logger hclog.Logger
	base   context.Context
}

// New makes a Server.  Call Serve to start it.
func New(env *sio.Env, apps map[string]sio.Factory, def string) *Server {
	if env == nil {
		env = sio.NewEnv(nil, nil)
	}
	return &Server{
		Env:         env,
		Apps:        apps,
		Default:     def,
		Registry:    NewRegistry(env.Conf.SessionTTL, 32),
		HistorySize: DefaultHistorySize,
		logger:      env.Log("server"),
		base:        context.Background(),
	}
}

// Names returns the sorted app names.
func (s *Server) Names() []string {
	acc := make([]string, 0, len(s.Apps))
	for name := range s.Apps {
		acc = append(acc, name)
	}
	sort.Strings(acc)
	return acc
}

func (s *Server) app(name string) (string, sio.Factory, error) {
	if name == "" {
		name = s.Default
	}
	if name == "" && len(s.Apps) == 1 {
		for n := range s.Apps {
			name = n
		}
	}
	f, have := s.Apps[name]
	if !have {
		return name, nil, &UnknownApp{
			Name: name,
		}
	}
	return name, f, nil
}

// Open starts a session for the app.
//
// The sink, if not nil, hears every result (starting with the
// session's initial result), and the Conn starts out attached.  The
// session lives until it's closed or the server stops.
func (s *Server) Open(app string, initial core.Bindings, sink func(*sio.Result)) (*Conn, error) {
	app, factory, err := s.app(app)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(s.base)
	chans := sio.NewChans(16)
	chans.Initial = initial

	sess, err := sio.NewSession(ctx, s.Env.SessionConf(), factory(), chans, s.Env.Log(app))
	if err != nil {
		cancel()
		return nil, err
	}
	sess.Verbose = s.Env.Conf.Verbose

	c := &Conn{
		ID:      sess.Id,
		App:     app,
		Session: sess,
		Chans:   chans,
		History: NewHistory(s.HistorySize),
		logger:  s.logger.With("session", sess.Id, "app", app),
		cancel:  cancel,
		closed:  make(chan struct{}),
	}
	if sink != nil {
		c.sinks = append(c.sinks, sink)
		c.Attach()
	}
	if m := s.Mirror; m != nil {
		c.sinks = append(c.sinks, func(r *sio.Result) {
			if err := m.Publish(app, c.ID, r); err != nil {
				c.logger.Warn("mqtt publish", "error", err)
			}
		})
		if err := m.Attach(ctx, c); err != nil {
			c.logger.Warn("mqtt attach", "error", err)
		}
	}

	s.Registry.Put(c)
	c.logger.Info("session opened")

	go c.pump(ctx)
	go func() {
		if err := sess.Loop(ctx); err != nil {
			c.logger.Error("session loop", "error", err)
			c.deliver(&sio.Result{
				Session: c.ID,
				Errors:  []string{err.Error()},
			})
		}
	}()

	return c, nil
}

// Close closes the session and forgets it.
func (s *Server) Close(c *Conn) {
	s.Registry.Rem(c.ID)
	if s.Mirror != nil {
		s.Mirror.Detach(c)
	}
	c.Close()
	c.logger.Info("session closed")
}

// Wiring reports the session's wiring.  If id is empty, a temporary
// session for the app is built (and discarded).
func (s *Server) Wiring(ctx context.Context, app, id string) (*tools.Wiring, error) {
	if id != "" {
		c := s.Registry.Get(id)
		if c == nil {
			return nil, fmt.Errorf("no session %q", id)
		}
		sess := c.Session
		sess.Lock()
		defer sess.Unlock()
		return tools.NewWiring(sess.Store, sess.Ctrl, sess.Tree), nil
	}

	app, factory, err := s.app(app)
	if err != nil {
		return nil, err
	}
	sess, err := sio.NewSession(ctx, s.Env.SessionConf(), factory(), sio.NewChans(1), s.Env.Log(app))
	if err != nil {
		return nil, err
	}
	if _, err := sess.Start(ctx); err != nil {
		return nil, err
	}
	return tools.NewWiring(sess.Store, sess.Ctrl, sess.Tree), nil
}

// puntf logs and writes an error.
func (s *Server) puntf(w http.ResponseWriter, status int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	s.logger.Warn(msg)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	js, err := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	if err != nil {
		// Better than nothing?
		js = []byte(strconv.Quote(msg))
	}
	fmt.Fprintf(w, "%s\n", js)
}

func writeJSON(w http.ResponseWriter, x interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(x)
}

// Handler returns the server's HTTP API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	static, _ := fs.Sub(client, "client")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	mux.HandleFunc("GET /{$}", s.index)
	mux.HandleFunc("GET /ws", s.websocket)

	mux.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "\"pong\"\n")
	})

	mux.HandleFunc("GET /wiring", func(w http.ResponseWriter, r *http.Request) {
		wiring, err := s.Wiring(r.Context(), r.FormValue("app"), r.FormValue("session"))
		if err != nil {
			s.puntf(w, http.StatusNotFound, "wiring: %v", err)
			return
		}
		switch r.FormValue("format") {
		case "json":
			writeJSON(w, wiring)
		case "dot":
			w.Header().Set("Content-Type", "text/vnd.graphviz")
			tools.Dot(wiring, w, r.FormValue("highlight"))
		default:
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			tools.Mermaid(wiring, w, nil)
		}
	})

	mux.HandleFunc("GET /sessions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.Registry.IDs())
	})

	mux.HandleFunc("POST /sessions", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		c, err := s.Open(q.Get("app"), QueryBindings(q, "app"), nil)
		if err != nil {
			s.puntf(w, http.StatusNotFound, "open: %v", err)
			return
		}
		writeJSON(w, map[string]interface{}{
			"id":  c.ID,
			"app": c.App,
		})
	})

	mux.HandleFunc("DELETE /sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		c := s.Registry.Get(r.PathValue("id"))
		if c == nil {
			s.puntf(w, http.StatusNotFound, "no session %q", r.PathValue("id"))
			return
		}
		s.Close(c)
		fmt.Fprintf(w, "{}\n")
	})

	mux.HandleFunc("GET /sessions/{id}/history", func(w http.ResponseWriter, r *http.Request) {
		c := s.Registry.Get(r.PathValue("id"))
		if c == nil {
			s.puntf(w, http.StatusNotFound, "no session %q", r.PathValue("id"))
			return
		}
		var since int64
		if n, err := strconv.ParseInt(r.FormValue("since"), 10, 64); err == nil {
			since = n
		}
		timeout, err := time.ParseDuration(r.FormValue("timeout"))
		if err != nil {
			timeout = 10 * time.Second
		}
		msgs := c.History.Get(r.Context(), since, timeout)
		if msgs == nil {
			msgs = []HistoryMsg{}
		}
		if err := writeJSON(w, msgs); err != nil {
			s.logger.Warn("history", "error", err)
		}
	})

	mux.HandleFunc("POST /sessions/{id}/in", func(w http.ResponseWriter, r *http.Request) {
		c := s.Registry.Get(r.PathValue("id"))
		if c == nil {
			s.puntf(w, http.StatusNotFound, "no session %q", r.PathValue("id"))
			return
		}
		js, err := io.ReadAll(r.Body)
		if err != nil {
			s.puntf(w, http.StatusBadRequest, "ReadAll error %v", err)
			return
		}
		var msg interface{}
		if err = json.Unmarshal(js, &msg); err != nil {
			s.puntf(w, http.StatusBadRequest, "Unmarshal error %v on %s", err, js)
			return
		}

		if r.FormValue("sync") == "true" {
			res, err := c.Process(r.Context(), msg)
			if err != nil {
				s.puntf(w, http.StatusInternalServerError, "ProcessMsg error %v", err)
				return
			}
			writeJSON(w, res)
			return
		}

		if err := c.Send(r.Context(), msg); err != nil {
			s.puntf(w, http.StatusServiceUnavailable, "send: %v", err)
			return
		}
		fmt.Fprintf(w, "{}\n")
	})

	return mux
}

type page struct {
	Title string
	App   string
	Apps  []string
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("app")
	if name == "" && s.Default == "" && len(s.Apps) != 1 {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pages.ExecuteTemplate(w, "gallery.html", &page{
			Title: "vizcrew",
			Apps:  s.Names(),
		}); err != nil {
			s.logger.Error("gallery", "error", err)
		}
		return
	}
	name, _, err := s.app(name)
	if err != nil {
		s.puntf(w, http.StatusNotFound, "%v", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, "index.html", &page{
		Title: name,
		App:   name,
	}); err != nil {
		s.logger.Error("index", "error", err)
	}
}

// Listen listens on the address with at most MaxSessions concurrent
// connections (if configured).
func (s *Server) Listen(addr string) (net.Listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if n := s.Env.Conf.MaxSessions; 0 < n {
		s.logger.Info("limiting connections", "max", n)
		l = netutil.LimitListener(l, n)
	}
	return l, nil
}

// Serve serves until the context is done.  Then every session is
// closed.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.base = ctx

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	if ttl := s.Registry.TTL; 0 < ttl {
		go func() {
			ticker := time.NewTicker(ttl / 2)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if ids := s.Registry.Sweep(); 0 < len(ids) {
						s.logger.Info("evicted idle sessions", "sessions", ids)
					}
				}
			}
		}()
	}

	go func() {
		<-ctx.Done()
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		srv.Shutdown(sctx)
		for _, id := range s.Registry.IDs() {
			if c := s.Registry.Get(id); c != nil {
				s.Close(c)
			}
		}
	}()

	s.logger.Info("serving", "addr", l.Addr().String())
	if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
