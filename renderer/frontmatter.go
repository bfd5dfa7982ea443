package renderer

import (
	"fmt"
	"strings"
	"time"
)

// FrontMatter carries the page fields used for navigation.
type FrontMatter struct {
	Title       string
	Description string
	Date        time.Time
	// SidebarLabel comes from the nested `sidebar.label` key.
	SidebarLabel string
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseFrontMatter(raw map[string]any) (FrontMatter, error) {
	var fm FrontMatter
	if len(raw) == 0 {
		return fm, nil
	}
	fm.Title = stringValue(raw["title"])
	fm.Description = stringValue(raw["description"])

	if value, ok := raw["date"]; ok && value != nil {
		date, err := ParseDate(value)
		if err != nil {
			return fm, err
		}
		fm.Date = date
	}

	switch nested := raw["sidebar"].(type) {
	case map[string]any:
		fm.SidebarLabel = stringValue(nested["label"])
	case map[any]any:
		fm.SidebarLabel = stringValue(nested["label"])
	}
	return fm, nil
}

// ParseDate accepts the date shapes YAML front matter produces.
func ParseDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return time.Time{}, nil
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("front matter: unrecognised date %q", trimmed)
	default:
		return time.Time{}, fmt.Errorf("front matter: unsupported date value %v", value)
	}
}

func stringValue(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
