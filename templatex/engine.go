package templatex

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iedon/wiki-sidebar/sidebar"
)

const (
	DefaultContentTemplate  = "content-default"
	NotFoundContentTemplate = "content-404"
	LayoutTemplate          = "layout"
	SidebarTemplate         = "sidebar"
)

//go:embed templates/*.html
var builtin embed.FS

// Engine is a thin wrapper around Go templates with a fallback default layout.
type Engine struct {
	templates *template.Template
	StaticDir string
}

// PageData represents the data model expected by the default layout.
type PageData struct {
	Title           string
	PageTitle       string
	SiteName        string
	Lang            string
	ContentHTML     template.HTML
	ContentTemplate string
	Sections        []TOCEntry
	ActivePath      string
	RequestedPath   string
	BaseURL         string
	Breadcrumbs     []Breadcrumb
	LastUpdatedISO  string
	LastUpdated     string
	Sidebar         []sidebar.Item
	Prev            *sidebar.Link
	Next            *sidebar.Link
	Locales         []LocaleLink
	Meta            Meta
}

// Meta holds SEO-oriented metadata for the rendered page.
type Meta struct {
	Description   string
	OpenGraphType string
	OpenGraphSite string
}

// TOCEntry models a single heading for the on-page table of contents.
type TOCEntry struct {
	ID    string
	Text  string
	Level int
}

// Breadcrumb models a single breadcrumb entry for navigation.
type Breadcrumb struct {
	Title   string
	Path    string
	Current bool
}

// LocaleLink points at the sidebar root of another locale.
type LocaleLink struct {
	Label   string
	Href    string
	Current bool
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"safeHTML": func(v any) template.HTML {
			switch value := v.(type) {
			case template.HTML:
				return value
			case string:
				return template.HTML(value)
			default:
				return ""
			}
		},
		"baseHref": func(base string) string {
			base = strings.TrimSpace(base)
			if base == "" || base == "/" {
				return "/"
			}
			trimmed := strings.Trim(base, "/")
			return "/" + trimmed + "/"
		},
		"isGroup": func(item sidebar.Item) bool {
			return item != nil && item.Kind() == sidebar.TypeGroup
		},
	}
}

// Default instantiates an engine from the built-in templates.
func Default() (*Engine, error) {
	tpl, err := template.New("root").Funcs(funcMap()).ParseFS(builtin, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse builtin templates: %w", err)
	}
	return &Engine{templates: tpl}, nil
}

// Load instantiates an engine using files from templateDir on top of the built-in set.
// An empty templateDir yields the built-in templates only.
func Load(templateDir string) (*Engine, error) {
	engine, err := Default()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(templateDir) == "" {
		return engine, nil
	}

	files := make([]string, 0)
	mainFiles, err := filepath.Glob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("glob main templates: %w", err)
	}
	files = append(files, mainFiles...)

	partialsDir := filepath.Join(templateDir, "partials")
	if info, err := os.Stat(partialsDir); err == nil && info.IsDir() {
		partialFiles, err := filepath.Glob(filepath.Join(partialsDir, "*.html"))
		if err != nil {
			return nil, fmt.Errorf("glob partial templates: %w", err)
		}
		files = append(files, partialFiles...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found in %s", templateDir)
	}
	sort.Strings(files)

	tpl, err := engine.templates.ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if tpl.Lookup(LayoutTemplate) == nil {
		return nil, fmt.Errorf("template %q is not defined", LayoutTemplate)
	}
	engine.templates = tpl

	assetsPath := filepath.Join(templateDir, "assets")
	if info, err := os.Stat(assetsPath); err == nil && info.IsDir() {
		engine.StaticDir = assetsPath
	}
	return engine, nil
}

// Render writes the rendered layout into the provided writer.
func (e *Engine) Render(w io.Writer, data *PageData) error {
	if e.templates == nil {
		return fmt.Errorf("template engine not initialized")
	}
	if data != nil {
		if strings.TrimSpace(data.ContentTemplate) == "" {
			data.ContentTemplate = DefaultContentTemplate
		}
		if strings.TrimSpace(data.RequestedPath) == "" {
			data.RequestedPath = data.ActivePath
		}
	}
	return e.templates.ExecuteTemplate(w, LayoutTemplate, data)
}

// RenderSidebar writes only the sidebar navigation fragment.
func (e *Engine) RenderSidebar(w io.Writer, items []sidebar.Item) error {
	if e.templates == nil {
		return fmt.Errorf("template engine not initialized")
	}
	return e.templates.ExecuteTemplate(w, SidebarTemplate, items)
}
