package tools

// dot -Tpng g.dot > g.png

import (
	"fmt"
	"io"
	"strings"
)

// Dot makes a Graphviz dot file for the wiring.
//
// If highlight isn't empty, that key and the handlers watching it are
// drawn in red.
func Dot(wiring *Wiring, w io.Writer, highlight string) error {
	var err error
	f := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format+"\n", args...)
		}
	}

	f("digraph G {")
	f(`  graph [ordering=out,rankdir=LR,nodesep=0.3,ranksep=0.6]
  node [shape="record" style="rounded,filled"]
  edge [fontsize = "12"]`)

	seen := make(map[string]bool)
	node := func(id, label, shape, fill string, hot bool) string {
		if seen[id] {
			return id
		}
		seen[id] = true
		color := "black"
		if hot {
			color = "red"
			fill = "#f98b8b"
		}
		f("  %q [shape=\"%s\", color=\"%s\", fillcolor=\"%s\", label=<%s>]",
			id, shape, color, fill, escape(label))
		return id
	}

	key := func(k string) string {
		return node("key:"+k, k, "ellipse", "#99ddc8", k == highlight)
	}

	for _, b := range wiring.Bindings {
		from := node("widget:"+b.Widget, b.Type+" #"+b.Widget, "record", "#dddddd", false)
		f("  %q -> %q [dir=both, label=<%s>]", from, key(b.Key), escape(b.Prop))
	}

	for _, r := range wiring.Handlers {
		hot := false
		for _, k := range r.Keys {
			if k == highlight {
				hot = true
			}
		}
		h := node("handler:"+r.Name, r.Name, "note", "#52aa5e", hot)
		for _, k := range r.Keys {
			color := "black"
			if k == highlight {
				color = "red"
			}
			f("  %q -> %q [color=\"%s\"]", key(k), h, color)
		}
	}

	for _, e := range wiring.Events {
		from := node("widget:"+e.Widget, e.Type+" #"+e.Widget, "record", "#dddddd", false)
		to := node("trigger:"+e.Trigger, e.Trigger, "hexagon", "#2d93ad", false)
		f("  %q -> %q [style=dashed, label=<%s>]", from, to, escape(e.Event))
	}

	f("}")
	return err
}

func escape(s string) string {
	s = strings.Replace(s, "&", `&amp;`, -1)
	s = strings.Replace(s, "<", `&lt;`, -1)
	return strings.Replace(s, ">", `&gt;`, -1)
}
