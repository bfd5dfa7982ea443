package site

import (
	"html/template"
	"time"

	"github.com/iedon/wiki-sidebar/sidebar"
	"github.com/iedon/wiki-sidebar/templatex"
)

type page struct {
	Route      *sidebar.Route
	Source     string
	OutputPath string
	Title      string
	HTML       template.HTML
	Sections   []templatex.TOCEntry
	Summary    string
	LastMod    time.Time
}
