// Package vizcrew provides a small reactive web-UI runtime and a
// gallery of visualization demos built on it.
//
// The state store is in package 'core', the widget tree in 'widget',
// the per-session message loop in 'sio', and the demos in 'apps'.
// Each demo has a command in `cmd`.
package vizcrew
