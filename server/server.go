package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/iedon/wiki-sidebar/config"
	"github.com/iedon/wiki-sidebar/metrics"
	"github.com/iedon/wiki-sidebar/site"
)

// Server serves the static build together with the sidebar API.
type Server struct {
	cfg          *config.Config
	svc          *site.Service
	metrics      *metrics.Recorder
	logger       *slog.Logger
	mux          *http.ServeMux
	serverHeader string
}

// New constructs a server instance. rec may be nil, in which case /metrics is not exposed.
func New(cfg *config.Config, svc *site.Service, logger *slog.Logger, serverHeader string, rec *metrics.Recorder) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	srv := &Server{cfg: cfg, svc: svc, metrics: rec, logger: logger, mux: http.NewServeMux(), serverHeader: strings.TrimSpace(serverHeader)}
	srv.routes()
	return srv
}

// Handler returns the middleware wrapped router.
func (s *Server) Handler() http.Handler {
	return s.withServerHeader(s.logRequests(s.mux))
}

// Start builds the site once, then serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if err := s.svc.BuildStatic(ctx); err != nil {
		s.logger.Warn("static build", "error", err)
	}

	listener, err := s.listen(s.cfg.Listen)
	if err != nil {
		return err
	}
	s.logger.Info("listening", "address", listener.Addr().String())

	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(ctxShutdown)
		close(shutdownDone)
	}()

	serveErr := server.Serve(listener)
	if errors.Is(serveErr, http.ErrServerClosed) {
		<-shutdownDone
		return nil
	}
	return serveErr
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/api/sidebar", s.handleSidebar)
	if s.metrics != nil {
		s.mux.Handle("/metrics", s.metrics.Handler())
	}
	s.mux.HandleFunc("/", s.handlePage)
}

func (s *Server) listen(address string) (net.Listener, error) {
	if listener, ok, err := s.systemdListener(); err != nil {
		return nil, err
	} else if ok {
		return listener, nil
	}
	if after, ok := strings.CutPrefix(address, "unix:"); ok {
		path := after
		_ = os.Remove(path)
		return net.Listen("unix", path)
	}
	return net.Listen("tcp", address)
}

func (s *Server) systemdListener() (net.Listener, bool, error) {
	pidEnv := strings.TrimSpace(os.Getenv("LISTEN_PID"))
	if pidEnv == "" {
		return nil, false, nil
	}
	pid, err := strconv.Atoi(pidEnv)
	if err != nil || pid != os.Getpid() {
		return nil, false, nil
	}
	fdsEnv := strings.TrimSpace(os.Getenv("LISTEN_FDS"))
	if fdsEnv == "" {
		return nil, false, nil
	}
	fds, err := strconv.Atoi(fdsEnv)
	if err != nil {
		return nil, false, fmt.Errorf("systemd listener: invalid LISTEN_FDS: %w", err)
	}
	if fds <= 0 {
		return nil, false, nil
	}
	const sdListenFdsStart = 3
	file := os.NewFile(uintptr(sdListenFdsStart), fmt.Sprintf("systemd-fd-%d", sdListenFdsStart))
	if file == nil {
		return nil, false, fmt.Errorf("systemd listener: failed to access fd")
	}
	listener, err := net.FileListener(file)
	_ = file.Close()
	if err != nil {
		return nil, false, fmt.Errorf("systemd listener: %w", err)
	}
	_ = os.Unsetenv("LISTEN_PID")
	_ = os.Unsetenv("LISTEN_FDS")
	_ = os.Unsetenv("LISTEN_FDNAMES")
	return listener, true, nil
}

func (s *Server) withServerHeader(next http.Handler) http.Handler {
	if s.serverHeader == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", s.serverHeader)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		s.logger.Info("http", "method", r.Method, "path", r.URL.Path, "status", rw.status, "duration", time.Since(start))
	})
}

// stripBase removes the configured base path. ok is false for requests outside of it.
func (s *Server) stripBase(p string) (string, bool) {
	clean := sanitizeRequestPath(p)
	if s.cfg.BaseURL == "" {
		return clean, true
	}
	prefix := "/" + s.cfg.BaseURL
	if clean == prefix {
		return "/", true
	}
	if rest, ok := strings.CutPrefix(clean, prefix+"/"); ok {
		return "/" + rest, true
	}
	return "", false
}

func (s *Server) tryStatic(w http.ResponseWriter, r *http.Request, clean string) bool {
	if clean == "/" {
		return false
	}
	ext := strings.ToLower(filepath.Ext(clean))
	if ext == "" || ext == ".html" {
		return false
	}
	target := filepath.Join(s.cfg.OutputDir, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
	if !isWithin(s.cfg.OutputDir, target) {
		return false
	}
	info, err := os.Stat(target)
	if err != nil || info.IsDir() {
		return false
	}
	http.ServeFile(w, r, target)
	return true
}

func isWithin(base, target string) bool {
	baseAbs, err := filepath.Abs(base)
	if err != nil {
		return false
	}
	targetAbs, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(baseAbs, targetAbs)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return false
	}
	return true
}

func sanitizeRequestPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	clean := path.Clean(p)
	if clean == "." {
		return "/"
	}
	return clean
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}
