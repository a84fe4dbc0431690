/* Copyright 2018 Comcast Cable Communications Management, LLC
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

package tools

import (
	"fmt"
	"io"
	"strings"
)

type MermaidOpts struct {
	// Direction is "LR" (default), "TB", etc.
	Direction string `json:"direction,omitempty"`

	// HandlerFill is the fill color of handler nodes.
	HandlerFill string `json:"handlerFill,omitempty"`

	// TriggerFill is the fill color of trigger nodes.
	TriggerFill string `json:"triggerFill,omitempty"`

	// ShowUnwatched includes keys that no handler watches.
	ShowUnwatched bool `json:"showUnwatched,omitempty"`
}

// Mermaid makes a Mermaid (https://mermaidjs.github.io/) flowchart
// for the wiring: widgets to keys (bindings), keys to handlers, and
// widgets to triggers (events).
func Mermaid(wiring *Wiring, w io.Writer, opts *MermaidOpts) error {
	if opts == nil {
		opts = &MermaidOpts{
			HandlerFill:   "#bcf2db",
			TriggerFill:   "#f9e0a8",
			ShowUnwatched: true,
		}
	}
	dir := opts.Direction
	if dir == "" {
		dir = "LR"
	}

	var err error
	f := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format+"\n", args...)
		}
	}

	f("graph %s", dir)

	nids := make(map[string]string)
	num := 0
	node := func(kind, name string) string {
		k := kind + ":" + name
		if nid, already := nids[k]; already {
			return nid
		}
		num++
		nid := fmt.Sprintf("n%d", num)
		nids[k] = nid

		label := quote(name)
		switch kind {
		case "key":
			f("  %s((\"%s\"))", nid, label)
		case "handler":
			f("  %s[\"%s\"]", nid, label)
			if opts.HandlerFill != "" {
				f("  style %s fill:%s", nid, opts.HandlerFill)
			}
		case "trigger":
			f("  %s{{\"%s\"}}", nid, label)
			if opts.TriggerFill != "" {
				f("  style %s fill:%s", nid, opts.TriggerFill)
			}
		default:
			f("  %s(\"%s\")", nid, label)
		}
		return nid
	}

	widgetName := func(id, typ string) string {
		return typ + " #" + id
	}

	for _, b := range wiring.Bindings {
		from := node("widget", widgetName(b.Widget, b.Type))
		to := node("key", b.Key)
		f("  %s -- \"%s\" --- %s", from, quote(b.Prop), to)
	}

	for _, r := range wiring.Handlers {
		h := node("handler", r.Name)
		for _, k := range r.Keys {
			f("  %s --> %s", node("key", k), h)
		}
	}

	if opts.ShowUnwatched {
		for _, k := range wiring.Unwatched() {
			node("key", k)
		}
	}

	for _, e := range wiring.Events {
		from := node("widget", widgetName(e.Widget, e.Type))
		f("  %s -. \"%s\" .-> %s", from, quote(e.Event), node("trigger", e.Trigger))
	}

	for _, t := range wiring.Triggers {
		node("trigger", t)
	}

	return err
}

func quote(s string) string {
	return strings.Replace(s, `"`, `'`, -1)
}
