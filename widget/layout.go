package widget

// SinglePageLayout is a page with a toolbar, a content area, and
// optionally a navigation drawer and a footer.
type SinglePageLayout struct {
	Root    *Node
	Title   *Node
	Icon    *Node
	Toolbar *Node
	Drawer  *Node
	Content *Node
	Footer  *Node
}

// SinglePage makes a page layout with the given title.
func SinglePage(title string) *SinglePageLayout {
	l := &SinglePageLayout{
		Title:   New("title").WithID("title").Text(title),
		Icon:    New("icon").WithID("app-icon").Prop("icon", "mdi-menu"),
		Toolbar: New("toolbar").WithID("toolbar"),
		Content: New("content").WithID("content"),
		Footer:  New("footer").WithID("footer"),
	}
	l.Toolbar.Add(l.Icon, l.Title)
	l.Root = New("single-page").WithID("layout").Add(l.Toolbar, l.Content, l.Footer)
	return l
}

// SinglePageWithDrawer is SinglePage with a (collapsible) drawer.
//
// The drawer's visibility is bound to the given state key, and the
// layout's icon toggles it.
func SinglePageWithDrawer(title, drawerKey string) *SinglePageLayout {
	l := SinglePage(title)
	l.Drawer = New("drawer").WithID("drawer").Bind("visible", drawerKey)
	l.Icon.Bind("toggle", drawerKey)
	l.Root.Children = []*Node{l.Toolbar, l.Drawer, l.Content, l.Footer}
	return l
}

// Node returns the layout's root.
func (l *SinglePageLayout) Node() *Node {
	return l.Root
}

// HideIcon removes the toolbar icon.
func (l *SinglePageLayout) HideIcon() *SinglePageLayout {
	l.Icon.Prop("hidden", true)
	return l
}

func Container(children ...*Node) *Node {
	return New("container").Prop("fluid", true).Add(children...)
}

func Row(children ...*Node) *Node {
	return New("row").Add(children...)
}

// Col is a grid column spanning cols of 12 (0 means auto).
func Col(cols int, children ...*Node) *Node {
	n := New("col").Add(children...)
	if 0 < cols {
		n.Prop("cols", cols)
	}
	return n
}

func Card(children ...*Node) *Node {
	return New("card").Add(children...)
}

func CardTitle(text string) *Node {
	return New("card-title").Text(text)
}

func Div(children ...*Node) *Node {
	return New("div").Add(children...)
}

func Spacer() *Node {
	return New("spacer")
}

func Divider(vertical bool) *Node {
	n := New("divider")
	if vertical {
		n.Prop("vertical", true)
	}
	return n
}

// Text is a span of text, which can include {{ }} templates.
func Text(s string) *Node {
	return New("text").Text(s)
}

// Heading is an h1-h6 element.
func Heading(level int, s string) *Node {
	return New("heading").Prop("level", level).Text(s)
}

func Icon(name string) *Node {
	return New("icon").Prop("icon", name)
}

// Slider writes its value to key.
func Slider(key string, min, max, step float64) *Node {
	return New("slider").Model(key).Propm(
		"min", min,
		"max", max,
		"step", step,
	)
}

// Select chooses from items (strings or {text, value} maps).
func Select(key, label string, items interface{}) *Node {
	return New("select").Model(key).Propm(
		"label", label,
		"items", items,
	)
}

// SelectFrom is a Select whose items come from a state key.
func SelectFrom(key, label, itemsKey string) *Node {
	return New("select").Model(key).Prop("label", label).Bind("items", itemsKey)
}

func Checkbox(key, label string) *Node {
	return New("checkbox").Model(key).Prop("label", label)
}

func Switch(key, label string) *Node {
	return New("switch").Model(key).Prop("label", label)
}

func TextField(key, label string) *Node {
	return New("text-field").Model(key).Prop("label", label)
}

// Button invokes the trigger when clicked.
func Button(label, trigger string) *Node {
	return New("button").Text(label).On("click", trigger)
}

// IconButton is a Button showing an icon.
func IconButton(icon, trigger string) *Node {
	return New("button").Prop("icon", icon).On("click", trigger)
}

// ProgressBar shows an indeterminate bar while key is true.
func ProgressBar(key string) *Node {
	return New("progress").Bind("active", key)
}

// Alert shows text when key is true.
func Alert(kind, key, text string) *Node {
	return New("alert").Prop("kind", kind).Bind("visible", key).Text(text)
}

// DataTable displays rows from itemsKey with the given headers
// ([{text, value}]).
func DataTable(itemsKey string, headers interface{}) *Node {
	return New("data-table").Bind("items", itemsKey).Prop("headers", headers)
}

// Menu displays the items under key.  A click invokes the trigger
// with the item as its argument.
func Menu(label, itemsKey, trigger string) *Node {
	return New("menu").Prop("label", label).Bind("items", itemsKey).On("click", trigger)
}

// Link navigates to the path (by setting the routeKey).
func Link(text, routeKey, path string) *Node {
	return New("link").Text(text).Propm(
		"to", path,
		"routeKey", routeKey,
	)
}

// RouterView displays the child whose "route" prop matches the value
// of viewKey.
func RouterView(viewKey string, children ...*Node) *Node {
	return New("router-view").Bind("view", viewKey).Add(children...)
}

// RouteTarget is a child of RouterView.
func RouteTarget(name string, children ...*Node) *Node {
	return New("route").Prop("route", name).Add(children...)
}

// HTML displays raw html.
func HTML(html string) *Node {
	return New("html").Prop("html", html)
}

// VisibleIf binds a node's visibility to a boolean state key.
func VisibleIf(key string, n *Node) *Node {
	return n.Bind("visible", key)
}
