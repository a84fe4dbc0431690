package widget

import "strings"

// Route maps a path pattern like "/bar/:id" to a named view.
type Route struct {
	Pattern string `json:"path"`
	Name    string `json:"name"`

	segs []string
}

// Routes is an ordered set of Route.  First match wins.
type Routes struct {
	routes []*Route
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Add appends a route.
func (rs *Routes) Add(pattern, name string) *Routes {
	rs.routes = append(rs.routes, &Route{
		Pattern: pattern,
		Name:    name,
		segs:    split(pattern),
	})
	return rs
}

// List returns the routes in the order added.
func (rs *Routes) List() []*Route {
	return rs.routes
}

// Resolve finds the first route matching the path and returns its
// name along with any ":param" values.
func (rs *Routes) Resolve(path string) (string, map[string]string, bool) {
	if i := strings.IndexAny(path, "?#"); 0 <= i {
		path = path[:i]
	}
	segs := split(path)
ROUTES:
	for _, r := range rs.routes {
		if len(r.segs) != len(segs) {
			continue
		}
		params := make(map[string]string, 2)
		for i, seg := range r.segs {
			if strings.HasPrefix(seg, ":") {
				if segs[i] == "" {
					continue ROUTES
				}
				params[seg[1:]] = segs[i]
				continue
			}
			if seg != segs[i] {
				continue ROUTES
			}
		}
		return r.Name, params, true
	}
	return "", nil, false
}
