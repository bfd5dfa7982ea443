package server

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/iedon/wiki-sidebar/sidebar"
	"github.com/iedon/wiki-sidebar/site"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSidebar returns the sidebar of ?locale=, optionally with the link of ?current= flagged.
func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	query := r.URL.Query()
	nav, err := s.svc.Sidebar(r.Context(), strings.TrimSpace(query.Get("locale")))
	if err != nil {
		switch {
		case errors.Is(err, site.ErrUnknownLocale):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			s.logger.Error("sidebar", "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	items := nav.Items
	if current := strings.Trim(strings.TrimSpace(query.Get("current")), "/"); current != "" {
		items = sidebar.MarkCurrent(items, current)
	}
	if items == nil {
		items = []sidebar.Item{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"locale": nav.Locale.Key,
		"lang":   nav.Locale.Lang,
		"routes": nav.Routes,
		"items":  items,
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	clean, ok := s.stripBase(r.URL.Path)
	if !ok {
		s.serveNotFound(w, r)
		return
	}
	if s.tryStatic(w, r, clean) {
		return
	}

	target, err := s.svc.StaticDocumentPath(clean)
	if err != nil {
		switch {
		case errors.Is(err, site.ErrInvalidPath), errors.Is(err, os.ErrNotExist):
			s.serveNotFound(w, r)
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	s.serveHTML(w, r, target, http.StatusOK)
}

func (s *Server) serveNotFound(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(s.svc.NotFoundDocumentPath()); err == nil {
		s.serveHTML(w, r, s.svc.NotFoundDocumentPath(), http.StatusNotFound)
		return
	}
	html, err := s.svc.RenderNotFoundPage(r.Context(), r.URL.Path)
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(html)
}

func (s *Server) serveHTML(w http.ResponseWriter, r *http.Request, target string, status int) {
	if status == http.StatusOK {
		file, err := os.Open(target)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer file.Close()
		info, err := file.Stat()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		http.ServeContent(w, r, info.Name(), info.ModTime(), file)
		return
	}

	content, err := os.ReadFile(target)
	if err != nil {
		writeError(w, status, http.StatusText(status))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(content)
}
