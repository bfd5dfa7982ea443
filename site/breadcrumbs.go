package site

import (
	"path"
	"strings"

	"github.com/iedon/wiki-sidebar/sidebar"
	"github.com/iedon/wiki-sidebar/templatex"
)

// buildBreadcrumbs walks from the locale root down to the route. Intermediate
// directories only link when they have an index page; titles maps route ids to page titles.
func buildBreadcrumbs(route *sidebar.Route, title, base string, titles map[string]string) []templatex.Breadcrumb {
	root := route.Locale
	rootTitle := titles[root]
	if rootTitle == "" {
		rootTitle = "Home"
	}
	if route.ID == root {
		return []templatex.Breadcrumb{{Title: title, Current: true}}
	}

	crumbs := make([]templatex.Breadcrumb, 0, 4)
	crumbs = append(crumbs, templatex.Breadcrumb{Title: rootTitle, Path: sidebar.Href(base, root)})

	rel := strings.TrimPrefix(strings.TrimPrefix(route.ID, root), "/")
	segments := strings.Split(rel, "/")
	prefix := root
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		prefix = path.Join(prefix, segment)
		if i == len(segments)-1 {
			crumbs = append(crumbs, templatex.Breadcrumb{Title: title, Current: true})
			break
		}
		crumb := templatex.Breadcrumb{Title: segment}
		if known, ok := titles[prefix]; ok {
			crumb.Title = known
			crumb.Path = sidebar.Href(base, prefix)
		}
		crumbs = append(crumbs, crumb)
	}
	return crumbs
}
