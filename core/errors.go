package core

// These errors are user errors, not internal errors.

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// UnknownKey occurs when a store that rejects unknown keys is asked
// to set a key that was never declared.
type UnknownKey struct {
	Key string
}

func (e *UnknownKey) Error() string {
	return `unknown state key "` + e.Key + `"`
}

// BadValue occurs when a value doesn't comply with its key's
// KeySpec.
type BadValue struct {
	Key  string
	Want string
	Got  interface{}
}

func (e *BadValue) Error() string {
	return fmt.Sprintf(`state key "%s" wants a %s, got %T`, e.Key, e.Want, e.Got)
}

// HandlerError wraps a failure (error or panic) from a change
// handler.
//
// The values that triggered the handler stay committed.
type HandlerError struct {
	Name  string
	Keys  []string
	Err   error
	Panic bool
}

func (e *HandlerError) Error() string {
	what := "failed"
	if e.Panic {
		what = "panicked"
	}
	return `handler "` + e.Name + `" (` + strings.Join(e.Keys, ",") + `) ` + what + `: ` + e.Err.Error()
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// TooDeep occurs when handlers keep setting state that triggers
// handlers beyond the store's depth limit.
type TooDeep struct {
	Limit int
	Keys  []string
}

func (e *TooDeep) Error() string {
	return "state update depth exceeded " + strconv.Itoa(e.Limit) + " at " + strings.Join(e.Keys, ",")
}

// ErrNoHandler is returned by Watch when given a nil handler.
var ErrNoHandler = errors.New("no handler given")
