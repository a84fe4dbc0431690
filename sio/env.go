package sio

import (
	"github.com/Comcast/vizcrew/config"
	"github.com/Comcast/vizcrew/dataset"

	"github.com/hashicorp/go-hclog"
)

// Env holds what every app shares across sessions.
type Env struct {
	Logger hclog.Logger
	Conf   *config.Conf
	Loader *dataset.Loader
}

// NewEnv makes an Env.  A nil conf gives the defaults, and a nil
// logger gives one derived from the conf.  The Loader reads local
// files relative to the conf's DataDir.
func NewEnv(conf *config.Conf, logger hclog.Logger) *Env {
	if conf == nil {
		conf = config.Default()
	}
	if logger == nil {
		logger = conf.Logger("vizcrew")
	}
	l := dataset.NewLoader(nil, logger)
	l.Dir = conf.DataDir
	return &Env{
		Logger: logger,
		Conf:   conf,
		Loader: l,
	}
}

// Log returns a named logger.
func (e *Env) Log(name string) hclog.Logger {
	if e == nil || e.Logger == nil {
		return hclog.NewNullLogger()
	}
	return e.Logger.Named(name)
}

// SessionConf makes a SessionConf per the Env's config.
func (e *Env) SessionConf() *SessionConf {
	if e == nil || e.Conf == nil {
		return &SessionConf{}
	}
	return &SessionConf{
		Store: e.Conf.StoreConf(),
	}
}

// Constructor makes an app's Factory, loading whatever the app's
// sessions share.
type Constructor func(env *Env) (Factory, error)
