package sidebar

import (
	"sort"
	"strings"
)

// BuildGroup expands an autogenerate entry into a group of the routes stored under its directory.
//
// With a date sort the selected routes are reordered and every one of them gets its
// SidebarOrder stamped with its 0-based rank. No other route is modified.
func BuildGroup(entry AutogenerateGroup, routes []*Route, target Target) *Group {
	directive := entry.Autogenerate
	prefix := effectivePrefix(target.Locale, directive.Directory)
	selected := filterRoutes(routes, prefix)

	var ranks map[*Route]int
	if by, ok := directive.Sort.(SortByDate); ok {
		selected = sortByDate(selected, by.Direction)
		ranks = stampOrder(selected)
	}

	label := entry.Label
	if translated, ok := PickLang(entry.Translations, target.Lang); ok {
		label = translated
	}

	group := newGroup(label, directive.Collapsed)
	group.Items = treeify(selected, prefix, ranks, target.BaseURL, directive.Collapsed)
	return group
}

func effectivePrefix(locale, directory string) string {
	dir := strings.Trim(strings.TrimSpace(directory), "/")
	if dir == "." {
		dir = ""
	}
	locale = strings.Trim(strings.TrimSpace(locale), "/")
	switch {
	case locale == "":
		return dir
	case dir == "":
		return locale
	default:
		return locale + "/" + dir
	}
}

func matchesPrefix(id, prefix string) bool {
	if prefix == "" {
		return true
	}
	return id == prefix || strings.HasPrefix(id, prefix+"/")
}

func filterRoutes(routes []*Route, prefix string) []*Route {
	selected := make([]*Route, 0, len(routes))
	for _, r := range routes {
		if r == nil || !matchesPrefix(r.ID, prefix) {
			continue
		}
		selected = append(selected, r)
	}
	return selected
}

// sortByDate returns a new slice ordered by date. Undated routes go last in both
// directions and keep their input order.
func sortByDate(routes []*Route, dir Direction) []*Route {
	sorted := append([]*Route(nil), routes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch {
		case !a.HasDate():
			return false
		case !b.HasDate():
			return true
		case dir == Ascending:
			return a.Data.Date.Before(b.Data.Date)
		default:
			return a.Data.Date.After(b.Data.Date)
		}
	})
	return sorted
}

func stampOrder(sorted []*Route) map[*Route]int {
	ranks := make(map[*Route]int, len(sorted))
	for i, r := range sorted {
		if r.Data == nil {
			r.Data = &RouteData{}
		}
		rank := i
		r.Data.SidebarOrder = &rank
		ranks[r] = rank
	}
	return ranks
}
