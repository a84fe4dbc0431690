// Package table shows a searchable, groupable table of desserts.
package table

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/Comcast/vizcrew/core"
	"github.com/Comcast/vizcrew/dataset"
	"github.com/Comcast/vizcrew/sio"
	"github.com/Comcast/vizcrew/widget"
)

//go:embed desserts.yaml
var desserts []byte

const (
	QueryKey   = "query"
	GroupKey   = "group_by"
	GroupedKey = "grouped"
	PerPageKey = "items_per_page"
	RowsKey    = "rows"
	VisibleKey = "visible_rows"
)

// Column is a table header.
type Column struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Align    string `json:"align,omitempty"`
	Sortable *bool  `json:"sortable,omitempty"`
}

var unsortable = false

var Headers = []Column{
	{Key: "name", Title: "Dessert", Align: "start", Sortable: &unsortable},
	{Key: "calories", Title: "Calories"},
	{Key: "fat", Title: "Fat (g)"},
	{Key: "carbs", Title: "Carbs (g)"},
	{Key: "protein", Title: "Protein (g)"},
	{Key: "iron", Title: "Iron (%)"},
	{Key: "glutenfree", Title: "Gluten-Free"},
}

// Group is a group-by entry.
type Group struct {
	Key   string `json:"key"`
	Order string `json:"order"`
}

// GlutenFree groups by the glutenfree column.
var GlutenFree = []Group{{Key: "glutenfree", Order: "asc"}}

// PageOption is an items-per-page choice.  -1 means all.
type PageOption struct {
	Value int    `json:"value"`
	Title string `json:"title"`
}

var PageOptions = []PageOption{
	{10, "10"},
	{25, "25"},
	{50, "50"},
	{-1, "All"},
}

// Desserts reads the embedded table.
func Desserts() (*dataset.Frame, error) {
	return dataset.ReadYAML(bytes.NewReader(desserts),
		"name", "calories", "fat", "carbs", "protein", "iron", "glutenfree")
}

// Search keeps the rows with a value containing the query
// (ignoring case).  An empty query keeps everything.
func Search(f *dataset.Frame, query string) *dataset.Frame {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return f
	}
	return f.Filter(func(r dataset.Row) bool {
		for _, v := range r {
			if strings.Contains(strings.ToLower(fmt.Sprint(v)), q) {
				return true
			}
		}
		return false
	})
}

// Grouped orders the rows by each group's column, last group first.
func Grouped(f *dataset.Frame, groups []Group) *dataset.Frame {
	for i := len(groups) - 1; 0 <= i; i-- {
		f = f.SortBy(groups[i].Key, groups[i].Order == "desc")
	}
	return f
}

// Page returns at most n rows.  A negative n means all of them.
func Page(f *dataset.Frame, n int) *dataset.Frame {
	if n < 0 {
		return f
	}
	return f.Head(n)
}

func New(env *sio.Env) (sio.Factory, error) {
	f, err := Desserts()
	if err != nil {
		return nil, err
	}
	return func() sio.App {
		return &App{
			Frame: f,
		}
	}, nil
}

type App struct {
	Frame *dataset.Frame
}

func groups(x interface{}) []Group {
	var acc []Group
	switch vv := x.(type) {
	case []Group:
		return vv
	case []interface{}:
		for _, y := range vv {
			m, is := y.(map[string]interface{})
			if !is {
				continue
			}
			k, _ := m["key"].(string)
			o, _ := m["order"].(string)
			acc = append(acc, Group{Key: k, Order: o})
		}
	}
	return acc
}

func (a *App) Build(ctx context.Context, s *sio.Session) (*widget.Node, error) {
	st := s.Store
	st.Init(core.Bindings{
		"headers":                     Headers,
		"items_per_page_options_list": PageOptions,
		"selected_items":              []interface{}{},
		QueryKey:                      "",
		GroupKey:                      GlutenFree,
		GroupedKey:                    true,
		PerPageKey:                    10,
		RowsKey:                       a.Frame.Records(),
	})

	page := widget.SinglePage("Dessert Table")
	page.Toolbar.Add(
		widget.Spacer(),
		widget.Switch(GroupedKey, "Group by gluten-free"),
		widget.TextField(QueryKey, "Search").Prop("clearable", true),
	)
	page.Content.Add(
		widget.DataTable(VisibleKey, Headers).Propm(
			"itemValue", "name",
			"showSelect", true,
		).Bind("groupBy", GroupKey).
			Bind("itemsPerPage", PerPageKey).
			Bind("itemsPerPageOptions", "items_per_page_options_list").
			Model("selected_items"),
		widget.Text("{{ rows.length }} of "+fmt.Sprint(a.Frame.Len())+" desserts"),
	)

	if _, err := st.Watch("group_toggle", []string{GroupedKey}, func(ctx context.Context, st *core.Store, bs core.Bindings) error {
		var gs []Group
		if on, _ := bs.Bool(GroupedKey); on {
			gs = GlutenFree
		}
		return st.Set(ctx, GroupKey, gs)
	}); err != nil {
		return nil, err
	}
	_, err := st.WatchNow(ctx, "update_rows", []string{QueryKey, GroupKey, PerPageKey}, func(ctx context.Context, st *core.Store, bs core.Bindings) error {
		query, _ := bs.String(QueryKey)
		n, ok := bs.Int(PerPageKey)
		if !ok {
			n = 10
		}
		rows := Grouped(Search(a.Frame, query), groups(bs[GroupKey]))
		return st.Update(ctx, core.Bindings{
			RowsKey:    rows.Records(),
			VisibleKey: Page(rows, n).Records(),
		})
	})
	if err != nil {
		return nil, err
	}
	return page.Node(), nil
}
