package site

import (
	"errors"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidPath is returned when a request path fails validation.
var ErrInvalidPath = errors.New("invalid path")

func isMarkdown(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	return ext == ".md" || ext == ".markdown"
}

// isIgnorable reports whether any segment of p is hidden (".") or a partial ("_").
func isIgnorable(p string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(p), "/") {
		if strings.HasPrefix(segment, ".") || strings.HasPrefix(segment, "_") {
			return true
		}
	}
	return false
}

func isIndexFile(rel string) bool {
	base := path.Base(filepath.ToSlash(rel))
	return strings.EqualFold(strings.TrimSuffix(base, path.Ext(base)), "index")
}

// routeIDFromPath maps a content file onto its route id: "guides/intro.md" -> "guides/intro",
// "guides/index.md" -> "guides", "index.md" -> "".
func routeIDFromPath(relPath string) string {
	slash := strings.Trim(filepath.ToSlash(relPath), "/")
	slash = strings.TrimSuffix(slash, path.Ext(slash))
	if isIndexFile(relPath) {
		dir := path.Dir(slash)
		if dir == "." {
			return ""
		}
		return dir
	}
	return slash
}

// htmlPathFrom returns the output file of a content file. Index files keep their
// directory so that "/guides" resolves to "guides/index.html".
func htmlPathFrom(relPath string) string {
	id := routeIDFromPath(relPath)
	if isIndexFile(relPath) {
		if id == "" {
			return "index.html"
		}
		return id + "/index.html"
	}
	return id + ".html"
}

// localeOf returns the locale directory a route id belongs to, empty for the root locale.
// Matching is case-sensitive, like the directory filter of autogenerated groups.
func localeOf(id string, localeDirs []string) string {
	first, _, _ := strings.Cut(id, "/")
	for _, dir := range localeDirs {
		if first == dir {
			return dir
		}
	}
	return ""
}

func sanitizeRoute(input string) string {
	route := strings.TrimSpace(input)
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	cleaned := path.Clean(route)
	if cleaned == "." {
		cleaned = "/"
	}
	return cleaned
}
