package sidebar

import (
	"fmt"
)

// Direction selects the order of a sorted group.
type Direction int

const (
	// Descending is the default when a sort key is given without an order.
	Descending Direction = iota
	Ascending
)

func (d Direction) String() string {
	if d == Ascending {
		return "ascending"
	}
	return "descending"
}

// ParseDirection maps the configuration value onto a Direction. An empty value yields Descending.
// Values are case-sensitive, matching the config validation.
func ParseDirection(raw string) (Direction, error) {
	switch raw {
	case "", "descending":
		return Descending, nil
	case "ascending":
		return Ascending, nil
	default:
		return Descending, fmt.Errorf("unknown sort order %q", raw)
	}
}

// Sort is either NoSort or SortByDate.
type Sort interface {
	sortKey() string
}

// NoSort keeps the upstream route order.
type NoSort struct{}

// SortByDate orders routes by their date.
type SortByDate struct {
	Direction Direction
}

func (NoSort) sortKey() string     { return "" }
func (SortByDate) sortKey() string { return "date" }

// Autogenerate describes a group generated from a content directory.
type Autogenerate struct {
	Directory string
	Collapsed bool
	// Sort is nil or NoSort when the upstream order is kept.
	Sort Sort
}

// Entry is one configured sidebar element: LinkEntry, GroupEntry or AutogenerateGroup.
type Entry interface {
	entryLabel() string
}

// LinkEntry is a manually configured link.
type LinkEntry struct {
	Label        string
	Translations map[string]string
	Link         string
}

// GroupEntry is a manually configured group of nested entries.
type GroupEntry struct {
	Label        string
	Translations map[string]string
	Collapsed    bool
	Items        []Entry
}

// AutogenerateGroup expands into a group built from a content directory.
type AutogenerateGroup struct {
	Label        string
	Translations map[string]string
	Autogenerate Autogenerate
}

func (e LinkEntry) entryLabel() string         { return e.Label }
func (e GroupEntry) entryLabel() string        { return e.Label }
func (e AutogenerateGroup) entryLabel() string { return e.Label }

// Target identifies the locale and URL space a sidebar is built for.
type Target struct {
	// Locale is the content directory of the locale, empty for the root locale.
	Locale string
	// Lang is the BCP-47 tag used to pick label translations.
	Lang    string
	BaseURL string
}
