package sidebar

import (
	"path"
	"strings"
	"time"
)

// RouteData holds the page metadata read while building navigation.
type RouteData struct {
	Title string
	// Label overrides Title in the sidebar when set.
	Label string
	// Date is zero when the page declares none.
	Date time.Time
	// SidebarOrder is stamped with the page rank by date-sorted groups.
	SidebarOrder *int
}

// Route is one content page known to the site.
type Route struct {
	// ID is the slash separated page identifier without extension, e.g. "guides/intro".
	// Index files map to their directory ("guides/index.md" -> "guides").
	ID     string
	Locale string
	Source string
	Data   *RouteData
}

// HasDate reports whether the route carries a comparable date.
func (r *Route) HasDate() bool {
	return r.Data != nil && !r.Data.Date.IsZero()
}

// IsIndex reports whether the route was produced from a directory index file.
func (r *Route) IsIndex() bool {
	base := path.Base(strings.ReplaceAll(r.Source, "\\", "/"))
	name := strings.TrimSuffix(base, path.Ext(base))
	return strings.EqualFold(name, "index")
}

func (r *Route) label() string {
	if r.Data != nil {
		if label := strings.TrimSpace(r.Data.Label); label != "" {
			return label
		}
		if title := strings.TrimSpace(r.Data.Title); title != "" {
			return title
		}
	}
	if r.ID == "" {
		return "Home"
	}
	return path.Base(r.ID)
}

// Clone returns a deep copy of the route so that order stamps stay local to one build pass.
func (r *Route) Clone() *Route {
	clone := *r
	if r.Data != nil {
		data := *r.Data
		if r.Data.SidebarOrder != nil {
			order := *r.Data.SidebarOrder
			data.SidebarOrder = &order
		}
		clone.Data = &data
	}
	return &clone
}

// CloneRoutes copies every route of the slice.
func CloneRoutes(routes []*Route) []*Route {
	out := make([]*Route, len(routes))
	for i, r := range routes {
		out[i] = r.Clone()
	}
	return out
}
