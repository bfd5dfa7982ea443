package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iedon/wiki-sidebar/sidebar"
)

// ErrInvalidSidebar marks sidebar configuration problems.
var ErrInvalidSidebar = errors.New("invalid sidebar configuration")

// SidebarEntryConfig is the raw form of a sidebar entry. Exactly one of Link, Items
// and Autogenerate must be set.
type SidebarEntryConfig struct {
	Label        string               `yaml:"label" validate:"required"`
	Translations map[string]string    `yaml:"translations"`
	Link         string               `yaml:"link"`
	Collapsed    bool                 `yaml:"collapsed"`
	Items        []SidebarEntryConfig `yaml:"items" validate:"dive"`
	Autogenerate *AutogenerateConfig  `yaml:"autogenerate"`
}

// AutogenerateConfig is the raw form of an autogenerate directive.
type AutogenerateConfig struct {
	Directory *string `yaml:"directory" validate:"required"`
	Collapsed bool    `yaml:"collapsed"`
	Sort      string  `yaml:"sort" validate:"omitempty,oneof=date"`
	Order     string  `yaml:"order" validate:"omitempty,oneof=ascending descending"`
}

func compileSidebar(raw []SidebarEntryConfig) ([]sidebar.Entry, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	entries := make([]sidebar.Entry, 0, len(raw))
	var errs []error
	for i, item := range raw {
		entry, err := compileEntry(item, fmt.Sprintf("sidebar[%d]", i))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return entries, nil
}

func compileEntry(raw SidebarEntryConfig, where string) (sidebar.Entry, error) {
	kinds := 0
	if strings.TrimSpace(raw.Link) != "" {
		kinds++
	}
	if raw.Items != nil {
		kinds++
	}
	if raw.Autogenerate != nil {
		kinds++
	}
	if kinds != 1 {
		return nil, fmt.Errorf("%w: %s %q: exactly one of link, items or autogenerate is required", ErrInvalidSidebar, where, raw.Label)
	}

	label := strings.TrimSpace(raw.Label)
	switch {
	case raw.Autogenerate != nil:
		directive, err := compileAutogenerate(*raw.Autogenerate)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q: %w", ErrInvalidSidebar, where, raw.Label, err)
		}
		// An entry level collapsed flag applies to the generated group too.
		directive.Collapsed = directive.Collapsed || raw.Collapsed
		return sidebar.AutogenerateGroup{Label: label, Translations: raw.Translations, Autogenerate: directive}, nil
	case raw.Items != nil:
		group := sidebar.GroupEntry{Label: label, Translations: raw.Translations, Collapsed: raw.Collapsed, Items: []sidebar.Entry{}}
		var errs []error
		for i, child := range raw.Items {
			entry, err := compileEntry(child, fmt.Sprintf("%s.items[%d]", where, i))
			if err != nil {
				errs = append(errs, err)
				continue
			}
			group.Items = append(group.Items, entry)
		}
		if err := errors.Join(errs...); err != nil {
			return nil, err
		}
		return group, nil
	default:
		return sidebar.LinkEntry{Label: label, Translations: raw.Translations, Link: strings.TrimSpace(raw.Link)}, nil
	}
}

func compileAutogenerate(raw AutogenerateConfig) (sidebar.Autogenerate, error) {
	if raw.Directory == nil {
		return sidebar.Autogenerate{}, errors.New("autogenerate.directory is required")
	}
	directory := strings.TrimSpace(*raw.Directory)
	if !isRelativeDir(directory) {
		return sidebar.Autogenerate{}, fmt.Errorf("autogenerate.directory %q must be a relative path", directory)
	}
	directory = strings.Trim(strings.ReplaceAll(directory, "\\", "/"), "/")

	directive := sidebar.Autogenerate{Directory: directory, Collapsed: raw.Collapsed, Sort: sidebar.NoSort{}}
	switch strings.TrimSpace(raw.Sort) {
	case "":
		if strings.TrimSpace(raw.Order) != "" {
			return sidebar.Autogenerate{}, errors.New("autogenerate.order requires autogenerate.sort")
		}
	case "date":
		direction, err := sidebar.ParseDirection(raw.Order)
		if err != nil {
			return sidebar.Autogenerate{}, err
		}
		directive.Sort = sidebar.SortByDate{Direction: direction}
	default:
		return sidebar.Autogenerate{}, fmt.Errorf("unknown autogenerate.sort %q", raw.Sort)
	}
	return directive, nil
}
