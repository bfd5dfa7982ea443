package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/iedon/wiki-sidebar/config"
	"github.com/iedon/wiki-sidebar/metrics"
	"github.com/iedon/wiki-sidebar/server"
	"github.com/iedon/wiki-sidebar/sidebar"
	"github.com/iedon/wiki-sidebar/site"
	"github.com/iedon/wiki-sidebar/templatex"
)

// Global carries state shared by every command.
type Global struct {
	Ctx context.Context
	Out io.Writer
}

// CLI is the command line surface.
type CLI struct {
	Config   string           `short:"c" help:"Configuration file path" default:"sidebar.yaml" type:"path"`
	LogLevel string           `name:"log-level" help:"Override the configured log level" enum:",debug,info,warn,error" default:""`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Render pages and sidebar indexes into the output directory"`
	Print PrintCmd `cmd:"" help:"Print the sidebar of a locale as JSON"`
	Serve ServeCmd `cmd:"" help:"Build, watch the content directory and serve a preview"`
}

// BuildCmd runs one static build.
type BuildCmd struct{}

// PrintCmd writes a computed sidebar to stdout.
type PrintCmd struct {
	Locale  string `short:"l" help:"Locale key or directory; the default locale when empty"`
	Current string `help:"Route id to flag as the current page"`
}

// ServeCmd runs the preview server.
type ServeCmd struct {
	Listen  string `help:"Override the configured listen address"`
	NoWatch bool   `name:"no-watch" help:"Do not rebuild on content changes"`
}

func main() {
	var cli CLI
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx := kong.Parse(&cli,
		kong.Name("wiki-sidebar"),
		kong.Description("Sidebar builder and static renderer for markdown documentation."),
		kong.UsageOnError(),
		kong.Vars{"version": SERVER_SIGNATURE},
	)
	if err := kctx.Run(&Global{Ctx: ctx, Out: os.Stdout}); err != nil {
		slog.Error(kctx.Command(), "error", err)
		os.Exit(1)
	}
}

// Run renders the site.
func (b *BuildCmd) Run(g *Global, cli *CLI) error {
	cfg, logger, err := cli.load()
	if err != nil {
		return err
	}
	svc, err := newService(cfg, logger, nil)
	if err != nil {
		return err
	}
	if err := svc.BuildStatic(g.Ctx); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	return nil
}

// Run prints the sidebar JSON.
func (p *PrintCmd) Run(g *Global, cli *CLI) error {
	cfg, logger, err := cli.load()
	if err != nil {
		return err
	}
	svc, err := newService(cfg, logger, nil)
	if err != nil {
		return err
	}
	nav, err := svc.Sidebar(g.Ctx, p.Locale)
	if err != nil {
		return err
	}
	items := nav.Items
	if current := strings.Trim(strings.TrimSpace(p.Current), "/"); current != "" {
		items = sidebar.MarkCurrent(items, current)
	}
	if items == nil {
		items = []sidebar.Item{}
	}
	enc := json.NewEncoder(g.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// Run serves the preview until interrupted.
func (s *ServeCmd) Run(g *Global, cli *CLI) error {
	cfg, logger, err := cli.load()
	if err != nil {
		return err
	}
	if listen := strings.TrimSpace(s.Listen); listen != "" {
		cfg.Listen = listen
	}
	rec := metrics.New()
	svc, err := newService(cfg, logger, rec)
	if err != nil {
		return err
	}

	if cfg.WatchEnabled() && !s.NoWatch {
		watcher := site.NewWatcher(cfg.ContentDir, cfg.WatchDebounce, logger, svc.BuildStatic, cfg.OutputDir)
		go func() {
			if err := watcher.Run(g.Ctx); err != nil {
				logger.Error("watcher", "error", err)
			}
		}()
	}

	logger.Info("starting", "version", SERVER_SIGNATURE, "listen", cfg.Listen)
	srv := server.New(cfg, svc, logger, SERVER_SIGNATURE, rec)
	return srv.Start(g.Ctx)
}

// load reads the configuration and installs the logger as the slog default.
func (c *CLI) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel
	if c.LogLevel != "" {
		level = c.LogLevel
	}
	logger := newLogger(level)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newService(cfg *config.Config, logger *slog.Logger, rec *metrics.Recorder) (*site.Service, error) {
	templates, err := templatex.Load(cfg.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	return site.NewService(cfg, templates, site.WithLogger(logger), site.WithMetrics(rec))
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
