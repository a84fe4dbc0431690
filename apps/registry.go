// Package apps gathers the demos.
package apps

import (
	"sort"

	"github.com/Comcast/vizcrew/apps/altair"
	"github.com/Comcast/vizcrew/apps/cone"
	"github.com/Comcast/vizcrew/apps/contour"
	"github.com/Comcast/vizcrew/apps/figures"
	"github.com/Comcast/vizcrew/apps/mapping"
	"github.com/Comcast/vizcrew/apps/mdview"
	"github.com/Comcast/vizcrew/apps/menu"
	"github.com/Comcast/vizcrew/apps/multifilter"
	"github.com/Comcast/vizcrew/apps/multiview"
	"github.com/Comcast/vizcrew/apps/pickups"
	"github.com/Comcast/vizcrew/apps/plotly"
	"github.com/Comcast/vizcrew/apps/resizable"
	"github.com/Comcast/vizcrew/apps/router"
	"github.com/Comcast/vizcrew/apps/selection"
	"github.com/Comcast/vizcrew/apps/table"
	"github.com/Comcast/vizcrew/sio"
)

// Registry maps each demo's name to its constructor.
var Registry = map[string]sio.Constructor{
	"altair":      altair.New,
	"cone":        cone.New,
	"contour":     contour.New,
	"figures":     figures.New,
	"mapping":     mapping.New,
	"mdview":      mdview.New,
	"menu":        menu.New,
	"multifilter": multifilter.New,
	"multiview":   multiview.New,
	"pickups":     pickups.New,
	"plotly":      plotly.New,
	"resizable":   resizable.New,
	"router":      router.New,
	"selection":   selection.New,
	"table":       table.New,
}

// Names returns the sorted demo names.
func Names() []string {
	acc := make([]string, 0, len(Registry))
	for name := range Registry {
		acc = append(acc, name)
	}
	sort.Strings(acc)
	return acc
}
