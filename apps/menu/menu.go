// Package menu logs clicks on a toolbar menu.
package menu

import (
	"context"
	"fmt"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/widget"

	"github.com/hashicorp/go-hclog"
)

var Items = []string{"one", "two", "three"}

func New(env *sio.Env) (sio.Factory, error) {
	logger := env.Log("menu")
	return func() sio.App {
		return &App{
			logger: logger,
		}
	}, nil
}

type App struct {
	logger hclog.Logger
}

func (a *App) Build(ctx context.Context, s *sio.Session) (*widget.Node, error) {
	s.Store.Init(core.Bindings{
		"menu_items":   Items,
		"last_clicked": "",
	})

	s.Ctrl.Add("print_item", func(ctx context.Context, args []interface{}) error {
		if len(args) != 1 {
			return fmt.Errorf("print_item wants one item, not %d", len(args))
		}
		item := fmt.Sprint(args[0])
		a.logger.Info("Clicked on", "item", item)
		return s.Store.Set(ctx, "last_clicked", item)
	})

	page := widget.SinglePage("Menu example")
	page.Toolbar.Add(
		widget.Spacer(),
		widget.Menu("Menu", "menu_items", "print_item").Prop("icon", "mdi-dots-vertical"),
	)
	page.Content.Add(widget.Container(
		widget.Text("{{ last_clicked ? 'Clicked on ' + last_clicked : 'Pick an item from the menu.' }}"),
	))
	return page.Node(), nil
}
