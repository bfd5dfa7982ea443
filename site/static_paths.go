package site

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StaticDocumentPath resolves the on-disk HTML file corresponding to a request path.
// "/guides" is served by guides.html, or guides/index.html for directory pages.
func (s *Service) StaticDocumentPath(requestPath string) (string, error) {
	route := sanitizeRoute(requestPath)
	if route == "/" {
		return filepath.Join(s.cfg.OutputDir, "index.html"), nil
	}

	trimmed := strings.Trim(route, "/")
	if strings.HasSuffix(strings.ToLower(trimmed), ".html") {
		trimmed = trimmed[:len(trimmed)-len(".html")]
	}
	if trimmed == "" || isIgnorable(trimmed) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, requestPath)
	}

	candidates := []string{trimmed + ".html", trimmed + "/index.html"}
	for _, candidate := range candidates {
		full := filepath.Join(s.cfg.OutputDir, filepath.FromSlash(candidate))
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			return full, nil
		}
	}
	return "", fmt.Errorf("%s: %w", route, os.ErrNotExist)
}

// NotFoundDocumentPath returns the static 404 page path.
func (s *Service) NotFoundDocumentPath() string {
	return filepath.Join(s.cfg.OutputDir, "404.html")
}
