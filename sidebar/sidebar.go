// Package sidebar computes navigation trees for a documentation site from a flat
// list of content routes.
package sidebar

import (
	"net/url"
	"strings"
)

// Build expands the configured entries into the sidebar of one locale. routes must
// belong to target.Locale. Without entries every route of the locale is listed.
func Build(entries []Entry, routes []*Route, target Target) []Item {
	if len(entries) == 0 {
		prefix := effectivePrefix(target.Locale, "")
		return treeify(filterRoutes(routes, prefix), prefix, nil, target.BaseURL, false)
	}
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		if item := buildEntry(entry, routes, target); item != nil {
			items = append(items, item)
		}
	}
	return items
}

func buildEntry(entry Entry, routes []*Route, target Target) Item {
	switch e := entry.(type) {
	case LinkEntry:
		return newLink(translatedLabel(e.Label, e.Translations, target.Lang), linkHref(e.Link, target), "")
	case GroupEntry:
		group := newGroup(translatedLabel(e.Label, e.Translations, target.Lang), e.Collapsed)
		for _, child := range e.Items {
			if item := buildEntry(child, routes, target); item != nil {
				group.Items = append(group.Items, item)
			}
		}
		return group
	case AutogenerateGroup:
		return BuildGroup(e, routes, target)
	default:
		return nil
	}
}

func translatedLabel(label string, translations map[string]string, lang string) string {
	if translated, ok := PickLang(translations, lang); ok {
		return translated
	}
	return label
}

// linkHref leaves external URLs alone and places internal links inside the locale and base path.
func linkHref(raw string, target Target) string {
	trimmed := strings.TrimSpace(raw)
	if parsed, err := url.Parse(trimmed); err == nil && (parsed.Scheme != "" || parsed.Host != "") {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}
	fragment := ""
	if idx := strings.IndexAny(trimmed, "?#"); idx >= 0 {
		fragment = trimmed[idx:]
		trimmed = trimmed[:idx]
	}
	return Href(target.BaseURL, effectivePrefix(target.Locale, trimmed)) + fragment
}
