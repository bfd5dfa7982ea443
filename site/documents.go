package site

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iedon/wiki-sidebar/fsutil"
	"github.com/iedon/wiki-sidebar/gitutil"
	"github.com/iedon/wiki-sidebar/renderer"
	"github.com/iedon/wiki-sidebar/sidebar"
	"github.com/iedon/wiki-sidebar/templatex"
)

// DocumentStore reads content files and renders them into pages.
// With a repository attached, sources come from git and undated pages take their last commit time.
type DocumentStore struct {
	root       string
	repo       *gitutil.Repository
	renderer   *renderer.Renderer
	localeDirs []string
	// outputRel is the output directory relative to root when it lives inside the content tree.
	outputRel string
}

func newDocumentStore(root, outputDir string, repo *gitutil.Repository, renderer *renderer.Renderer, localeDirs []string) *DocumentStore {
	d := &DocumentStore{root: root, repo: repo, renderer: renderer, localeDirs: localeDirs}
	if rel, err := filepath.Rel(root, outputDir); err == nil {
		rel = filepath.ToSlash(rel)
		if rel != "." && rel != ".." && !strings.HasPrefix(rel, "../") {
			d.outputRel = rel
		}
	}
	return d
}

// ListSources returns every content file as a sorted slash separated path relative to the root.
func (d *DocumentStore) ListSources(ctx context.Context) ([]string, error) {
	var (
		files []string
		err   error
	)
	if d.repo != nil {
		files, err = d.repo.ListFiles(ctx)
	} else {
		files, err = fsutil.ListFiles(d.root)
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", d.root, err)
	}
	if d.outputRel == "" {
		return files, nil
	}
	kept := files[:0]
	for _, file := range files {
		if file == d.outputRel || strings.HasPrefix(file, d.outputRel+"/") {
			continue
		}
		kept = append(kept, file)
	}
	return kept, nil
}

func (d *DocumentStore) Read(relPath string) ([]byte, error) {
	return os.ReadFile(d.fullPath(relPath))
}

func (d *DocumentStore) fullPath(relPath string) string {
	return filepath.Join(d.root, filepath.FromSlash(relPath))
}

func (d *DocumentStore) RenderDocument(ctx context.Context, relPath string) (page, error) {
	data, err := d.Read(relPath)
	if err != nil {
		return page{}, fmt.Errorf("read %s: %w", relPath, err)
	}

	rendered, err := d.renderer.Render(data)
	if err != nil {
		return page{}, fmt.Errorf("render %s: %w", relPath, err)
	}

	sections := make([]templatex.TOCEntry, 0, len(rendered.Headings))
	for _, heading := range rendered.Headings {
		sections = append(sections, templatex.TOCEntry{ID: heading.ID, Text: heading.Text, Level: heading.Level})
	}

	fm := rendered.FrontMatter
	title := fm.Title
	if title == "" {
		title = deriveTitle(relPath)
	}

	lastMod, err := d.lastModified(ctx, relPath)
	if err != nil {
		return page{}, err
	}
	date := fm.Date
	if date.IsZero() && d.repo != nil {
		date = lastMod
	}

	id := routeIDFromPath(relPath)
	summary := fm.Description
	if summary == "" {
		summary = summarize(rendered.PlainText)
	}

	return page{
		Route: &sidebar.Route{
			ID:     id,
			Locale: localeOf(id, d.localeDirs),
			Source: relPath,
			Data:   &sidebar.RouteData{Title: title, Label: fm.SidebarLabel, Date: date},
		},
		Source:     relPath,
		OutputPath: htmlPathFrom(relPath),
		Title:      title,
		HTML:       template.HTML(rendered.HTML),
		Sections:   sections,
		Summary:    summary,
		LastMod:    lastMod,
	}, nil
}

func (d *DocumentStore) lastModified(ctx context.Context, relPath string) (time.Time, error) {
	if d.repo != nil {
		stamp, err := d.repo.LastCommitTime(ctx, relPath)
		if err != nil {
			return time.Time{}, err
		}
		if !stamp.IsZero() {
			return stamp, nil
		}
	}
	info, err := os.Stat(d.fullPath(relPath))
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", relPath, err)
	}
	return info.ModTime().UTC(), nil
}
