package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/iedon/wiki-sidebar/config"
	"github.com/iedon/wiki-sidebar/fsutil"
	"github.com/iedon/wiki-sidebar/gitutil"
	"github.com/iedon/wiki-sidebar/metrics"
	"github.com/iedon/wiki-sidebar/renderer"
	"github.com/iedon/wiki-sidebar/templatex"
)

// Service orchestrates page rendering, sidebar computation and static output.
type Service struct {
	cfg       *config.Config
	logger    *slog.Logger
	templates *templatex.Engine
	renderer  *renderer.Renderer
	metrics   *metrics.Recorder

	documents *DocumentStore
	sidebars  *SidebarCache

	buildMu sync.Mutex
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the logger used for build progress.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records builds on rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(s *Service) {
		s.metrics = rec
	}
}

// NewService constructs a Service instance. When dates.fromGit is enabled the content
// directory must belong to a git working tree.
func NewService(cfg *config.Config, templates *templatex.Engine, opts ...Option) (*Service, error) {
	rend := renderer.New()
	s := &Service{
		cfg:       cfg,
		logger:    slog.Default(),
		templates: templates,
		renderer:  rend,
		sidebars:  newSidebarCache(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var repo *gitutil.Repository
	if cfg.Dates.FromGit {
		r, err := gitutil.Open(cfg.Git.BinPath, cfg.ContentDir, cfg.GitTimeout)
		if err != nil {
			return nil, fmt.Errorf("dates.fromGit: %w", err)
		}
		repo = r
	}
	s.documents = newDocumentStore(cfg.ContentDir, cfg.OutputDir, repo, rend, cfg.LocaleDirs())
	return s, nil
}

// Refresh recomputes the sidebars of every locale without writing output.
func (s *Service) Refresh(ctx context.Context) error {
	files, err := s.documents.ListSources(ctx)
	if err != nil {
		return err
	}
	docs, err := s.renderDocuments(ctx, files)
	if err != nil {
		return err
	}
	s.sidebars.Update(s.computeSidebars(docs))
	return nil
}

// Sidebar returns the computed sidebar of a locale. An empty name selects the default locale.
func (s *Service) Sidebar(ctx context.Context, name string) (LocaleSidebar, error) {
	loc, ok := s.cfg.Locale(name)
	if !ok {
		return LocaleSidebar{}, fmt.Errorf("%w: %s", ErrUnknownLocale, name)
	}
	snapshot := s.sidebars.Snapshot()
	if snapshot.Locales == nil {
		if err := s.Refresh(ctx); err != nil {
			return LocaleSidebar{}, err
		}
		snapshot = s.sidebars.Snapshot()
	}
	return snapshot.Locales[loc.Key], nil
}

// BuildStatic renders every page into static HTML alongside a sidebar.json per locale.
// The output directory is replaced in one rename once everything has been written.
func (s *Service) BuildStatic(ctx context.Context) (err error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	started := time.Now()
	defer func() {
		s.metrics.ObserveBuild(started, err)
	}()

	finalDir := s.cfg.OutputDir
	parent := filepath.Dir(finalDir)
	if parent == "" {
		parent = "."
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("ensure output parent: %w", err)
	}

	tempDir, err := os.MkdirTemp(parent, ".__build-")
	if err != nil {
		return fmt.Errorf("create temp output dir: %w", err)
	}
	cleanTemp := true
	defer func() {
		if cleanTemp && tempDir != "" {
			_ = os.RemoveAll(tempDir)
		}
	}()

	files, err := s.documents.ListSources(ctx)
	if err != nil {
		return err
	}
	docs, err := s.renderDocuments(ctx, files)
	if err != nil {
		return err
	}
	sidebars := s.computeSidebars(docs)

	for _, file := range files {
		if isMarkdown(file) || isIgnorable(file) {
			continue
		}
		src := s.documents.fullPath(file)
		dst := filepath.Join(tempDir, filepath.FromSlash(file))
		if err := fsutil.CopyFile(src, dst); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("copy asset %s: %w", file, err)
		}
	}

	if err := s.writeDocuments(tempDir, docs, sidebars); err != nil {
		return err
	}
	if err := s.writeSidebarIndexes(tempDir, sidebars); err != nil {
		return err
	}
	if err := s.writeNotFoundPage(tempDir, sidebars); err != nil {
		return err
	}

	if s.templates.StaticDir != "" {
		dst := filepath.Join(tempDir, "theme")
		if err := fsutil.CopyTree(s.templates.StaticDir, dst); err != nil {
			return fmt.Errorf("copy theme assets: %w", err)
		}
	}

	// Dot-prefixed so a watcher on a content tree holding the output skips it.
	backupDir := filepath.Join(parent, "."+filepath.Base(finalDir)+".old")
	if err := os.RemoveAll(backupDir); err != nil {
		return fmt.Errorf("clean backup dir: %w", err)
	}

	if err := os.Rename(finalDir, backupDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rotate old output: %w", err)
	}

	if err := os.Rename(tempDir, finalDir); err != nil {
		_ = os.Rename(backupDir, finalDir)
		return fmt.Errorf("activate new output: %w", err)
	}

	_ = os.RemoveAll(backupDir)
	cleanTemp = false
	tempDir = ""

	s.sidebars.Update(sidebars)
	s.logger.Info("static build complete", "pages", len(docs), "locales", len(sidebars), "output", finalDir, "duration", time.Since(started))
	return nil
}

// OutputDir returns the directory holding the static build.
func (s *Service) OutputDir() string {
	return s.cfg.OutputDir
}
