package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/iedon/wiki-sidebar/config"
	"github.com/iedon/wiki-sidebar/sidebar"
	"github.com/iedon/wiki-sidebar/templatex"
)

// SidebarIndexFile is written at the root of every locale in the static output.
const SidebarIndexFile = "sidebar.json"

func (s *Service) renderDocuments(ctx context.Context, files []string) ([]page, error) {
	docs := make([]page, 0, len(files))
	seen := make(map[string]string, len(files))
	for _, file := range files {
		if !isMarkdown(file) || isIgnorable(file) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := s.documents.RenderDocument(ctx, file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				s.logger.Debug("skipping missing source", "path", file)
				continue
			}
			return nil, err
		}
		if prev, ok := seen[doc.Route.ID]; ok {
			return nil, fmt.Errorf("%w: %s and %s both map to %q", ErrDuplicateRoute, prev, file, doc.Route.ID)
		}
		seen[doc.Route.ID] = file
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: %w", s.cfg.ContentDir, ErrNoContent)
	}
	return docs, nil
}

// localeOfRoute resolves the locale a page is rendered in, falling back to the default
// locale for pages outside every configured locale.
func (s *Service) localeOfRoute(r *sidebar.Route) config.Locale {
	key := r.Locale
	if key == "" {
		key = config.RootLocale
	}
	if loc, ok := s.cfg.Locale(key); ok {
		return loc
	}
	loc, _ := s.cfg.Locale("")
	return loc
}

func (s *Service) pageData(doc page, loc config.Locale, nav []sidebar.Item, titles map[string]string) *templatex.PageData {
	items := sidebar.MarkCurrent(nav, doc.Route.ID)
	prev, next := sidebar.Pagination(items, doc.Route.ID)

	var lastUpdatedISO, lastUpdated string
	if !doc.LastMod.IsZero() {
		lastUpdatedISO = doc.LastMod.UTC().Format(time.RFC3339)
		lastUpdated = doc.LastMod.UTC().Format("Jan 2 15:04:05 MST 2006")
	}

	href := sidebar.Href(s.cfg.BaseURL, doc.Route.ID)
	data := &templatex.PageData{
		Title:           doc.Title,
		PageTitle:       s.pageTitle(doc.Title),
		SiteName:        s.siteName(),
		Lang:            loc.Lang,
		ContentHTML:     doc.HTML,
		ContentTemplate: templatex.DefaultContentTemplate,
		Sections:        doc.Sections,
		ActivePath:      href,
		RequestedPath:   href,
		BaseURL:         s.cfg.BaseURL,
		Breadcrumbs:     buildBreadcrumbs(doc.Route, doc.Title, s.cfg.BaseURL, titles),
		LastUpdatedISO:  lastUpdatedISO,
		LastUpdated:     lastUpdated,
		Sidebar:         items,
		Prev:            prev,
		Next:            next,
		Locales:         s.localeLinks(loc),
	}
	data.Meta = s.buildMeta(doc.Summary, doc.Title, "article")
	return data
}

func (s *Service) localeLinks(current config.Locale) []templatex.LocaleLink {
	locales := s.cfg.LocaleList()
	if len(locales) < 2 {
		return nil
	}
	links := make([]templatex.LocaleLink, 0, len(locales))
	for _, loc := range locales {
		links = append(links, templatex.LocaleLink{
			Label:   loc.Label,
			Href:    sidebar.Href(s.cfg.BaseURL, loc.Dir),
			Current: loc.Key == current.Key,
		})
	}
	return links
}

func (s *Service) renderHTML(data *templatex.PageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.templates.Render(&buf, data); err != nil {
		return nil, err
	}
	return s.renderer.MinifyHTML(buf.Bytes())
}

func (s *Service) writeDocuments(baseDir string, docs []page, sidebars map[string]LocaleSidebar) error {
	titles := make(map[string]string, len(docs))
	for _, doc := range docs {
		titles[doc.Route.ID] = doc.Title
	}

	for _, doc := range docs {
		loc := s.localeOfRoute(doc.Route)
		html, err := s.renderHTML(s.pageData(doc, loc, sidebars[loc.Key].Items, titles))
		if err != nil {
			return fmt.Errorf("render %s: %w", doc.Source, err)
		}

		target := filepath.Join(baseDir, filepath.FromSlash(doc.OutputPath))
		if err := writeFile(target, html); err != nil {
			return err
		}
		if !doc.LastMod.IsZero() {
			stamp := doc.LastMod.UTC()
			if err := os.Chtimes(target, stamp, stamp); err != nil {
				return fmt.Errorf("set mod time %s: %w", doc.Route.ID, err)
			}
		}
	}
	return nil
}

// writeSidebarIndexes stores the unmarked sidebar of each locale as JSON next to its pages.
func (s *Service) writeSidebarIndexes(baseDir string, sidebars map[string]LocaleSidebar) error {
	for _, nav := range sidebars {
		payload, err := json.MarshalIndent(nav.Items, "", "  ")
		if err != nil {
			return fmt.Errorf("encode sidebar %s: %w", nav.Locale.Key, err)
		}
		target := filepath.Join(baseDir, filepath.FromSlash(path.Join(nav.Locale.Dir, SidebarIndexFile)))
		if err := writeFile(target, append(payload, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// RenderNotFoundPage renders a themed 404 page with the default locale sidebar.
func (s *Service) RenderNotFoundPage(ctx context.Context, requestedPath string) ([]byte, error) {
	loc, _ := s.cfg.Locale("")
	nav, err := s.Sidebar(ctx, loc.Key)
	if err != nil {
		return nil, err
	}
	return s.notFoundHTML(loc, nav.Items, requestedPath)
}

func (s *Service) writeNotFoundPage(baseDir string, sidebars map[string]LocaleSidebar) error {
	loc, _ := s.cfg.Locale("")
	html, err := s.notFoundHTML(loc, sidebars[loc.Key].Items, "")
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(baseDir, "404.html"), html)
}

func (s *Service) notFoundHTML(loc config.Locale, nav []sidebar.Item, requestedPath string) ([]byte, error) {
	title := "404 - Not found"
	data := &templatex.PageData{
		Title:           title,
		PageTitle:       s.pageTitle(title),
		SiteName:        s.siteName(),
		Lang:            loc.Lang,
		ContentHTML:     template.HTML(""),
		ContentTemplate: templatex.NotFoundContentTemplate,
		BaseURL:         s.cfg.BaseURL,
		Sidebar:         nav,
		Locales:         s.localeLinks(loc),
	}
	sanitized := strings.TrimSpace(requestedPath)
	if sanitized != "" {
		sanitized = sanitizeRoute(sanitized)
	}
	data.RequestedPath = sanitized
	description := "The page you are looking for could not be found."
	if sanitized != "" && sanitized != "/" {
		description = fmt.Sprintf("The requested path %s could not be found.", sanitized)
	}
	data.Meta = s.buildMeta(description, description, "website")
	return s.renderHTML(data)
}

func writeFile(target string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}

func (s *Service) buildMeta(summary, fallback, ogType string) templatex.Meta {
	if ogType == "" {
		ogType = "website"
	}
	description := metaDescription(summary, fallback)
	if description == "" {
		description = s.siteName()
	}
	return templatex.Meta{
		Description:   description,
		OpenGraphType: ogType,
		OpenGraphSite: s.siteName(),
	}
}

func (s *Service) siteName() string {
	name := strings.TrimSpace(s.cfg.SiteName)
	if name == "" {
		return "Untitled"
	}
	return name
}

func (s *Service) pageTitle(raw string) string {
	title := strings.TrimSpace(raw)
	site := s.siteName()
	if title == "" || strings.EqualFold(title, site) {
		return site
	}
	return fmt.Sprintf("%s - %s", title, site)
}
