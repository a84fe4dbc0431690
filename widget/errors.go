package widget

import "errors"

// UnknownTrigger occurs when a client asks for a trigger that nobody
// added to the Controller.
type UnknownTrigger struct {
	Name string
}

func (e *UnknownTrigger) Error() string {
	return `unknown trigger "` + e.Name + `"`
}

// BadTemplate occurs when a {{ }} template can't be parsed or
// compiled.
type BadTemplate struct {
	Src string
	Err error
}

func (e *BadTemplate) Error() string {
	return "bad template " + e.Src + ": " + e.Err.Error()
}

func (e *BadTemplate) Unwrap() error {
	return e.Err
}

// ErrNoPusher is returned by View.Update when the view isn't attached
// to a session.
var ErrNoPusher = errors.New("view has no pusher")
