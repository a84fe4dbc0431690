// Package router switches among pages by route, with a drawer of
// links.
package router

import (
	"context"
	"fmt"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/widget"
)

const (
	RouteKey  = "route"
	ViewKey   = "route_view"
	ParamsKey = "route_params"
	DrawerKey = "drawer"

	NotFound = "not_found"
)

// Routes maps paths to the views of the RouterView.
var Routes = (&widget.Routes{}).
	Add("/", "home").
	Add("/foo", "foo").
	Add("/bar/:id", "bar")

// BarIDs are linked from the drawer.
var BarIDs = []int{1, 2, 3}

// Resolve finds the view for the path, which is NotFound if no route
// matches.
func Resolve(path string) (string, map[string]string) {
	if view, params, ok := Routes.Resolve(path); ok {
		return view, params
	}
	return NotFound, map[string]string{}
}

func New(env *sio.Env) (sio.Factory, error) {
	return func() sio.App {
		return &App{}
	}, nil
}

// App keeps the session's navigation history for "back".
type App struct {
	history []string
	current string
	back    bool
}

func (a *App) Build(ctx context.Context, s *sio.Session) (*widget.Node, error) {
	st := s.Store
	st.Init(core.Bindings{
		RouteKey:  "/",
		ViewKey:   "home",
		ParamsKey: map[string]string{},
		DrawerKey: true,
	})

	page := widget.SinglePageWithDrawer("Multi-Page demo", DrawerKey)
	links := []*widget.Node{
		widget.Heading(6, "Routes"),
		widget.Link("Home", RouteKey, "/").Prop("icon", "mdi-home"),
		widget.Link("Foo", RouteKey, "/foo").Prop("icon", "mdi-food"),
		widget.Heading(6, "Bars"),
	}
	for _, id := range BarIDs {
		links = append(links, widget.Link(fmt.Sprintf("Bar ID '%d'", id), RouteKey, fmt.Sprintf("/bar/%d", id)).
			Prop("icon", "mdi-peanut-outline"))
	}
	page.Drawer.Add(links...)

	pages := map[string]*widget.Node{
		"home": widget.Card(widget.CardTitle("This is home")),
		"foo": widget.Card(
			widget.CardTitle("This is foo"),
			widget.Button("Take me back", "back")),
		"bar": widget.Card(widget.CardTitle("This is bar with ID '{{ route_params.id }}'")),
	}
	view := widget.RouterView(ViewKey)
	for _, r := range Routes.List() {
		view.Add(widget.RouteTarget(r.Name, pages[r.Name]))
	}
	view.Add(widget.RouteTarget(NotFound,
		widget.Card(widget.CardTitle("Nothing at {{ route }}"))))
	page.Content.Add(widget.Container(view))

	s.Ctrl.Add("back", func(ctx context.Context, args []interface{}) error {
		if len(a.history) == 0 {
			return nil
		}
		prev := a.history[len(a.history)-1]
		a.history = a.history[:len(a.history)-1]
		a.back = true
		return st.Set(ctx, RouteKey, prev)
	})

	_, err := st.WatchNow(ctx, "route", []string{RouteKey}, func(ctx context.Context, st *core.Store, bs core.Bindings) error {
		path, _ := bs.String(RouteKey)
		if !a.back && a.current != "" && a.current != path {
			a.history = append(a.history, a.current)
		}
		a.back = false
		a.current = path
		view, params := Resolve(path)
		return st.Update(ctx, core.Bindings{
			ViewKey:   view,
			ParamsKey: params,
		})
	})
	if err != nil {
		return nil, err
	}
	return page.Node(), nil
}
