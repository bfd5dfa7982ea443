package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iedon/wiki-sidebar/config"
	"github.com/iedon/wiki-sidebar/metrics"
	"github.com/iedon/wiki-sidebar/site"
	"github.com/iedon/wiki-sidebar/templatex"
)

func newTestServer(t *testing.T, extraYAML string) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	content := filepath.Join(dir, "docs")
	files := map[string]string{
		"index.md":        "# Home\n",
		"guides/intro.md": "---\ntitle: Intro\n---\nBody\n",
		"blog/a.md":       "---\ntitle: A\ndate: 2023-01-01\n---\n",
		"blog/b.md":       "---\ntitle: B\ndate: 2023-03-01\n---\n",
		"img/logo.svg":    "<svg></svg>",
	}
	for rel, body := range files {
		full := filepath.Join(content, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(body), 0o644))
	}

	raw := fmt.Sprintf("contentDir: %s\noutputDir: %s\n%s", content, filepath.Join(dir, "dist"), extraYAML)
	cfg, err := config.Parse([]byte(raw))
	require.NoError(t, err)
	engine, err := templatex.Default()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := metrics.New()
	svc, err := site.NewService(cfg, engine, site.WithLogger(logger), site.WithMetrics(rec))
	require.NoError(t, err)
	require.NoError(t, svc.BuildStatic(context.Background()))

	ts := httptest.NewServer(New(cfg, svc, logger, "wiki-sidebar/test", rec).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

const sortedBlog = `
sidebar:
  - label: Blog
    autogenerate:
      directory: blog
      sort: date
      order: ascending
`

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, "")
	resp, body := get(t, ts.URL+"/healthz")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "wiki-sidebar/test", resp.Header.Get("Server"))
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestSidebarAPI(t *testing.T) {
	ts := newTestServer(t, sortedBlog)
	resp, body := get(t, ts.URL+"/api/sidebar?current=blog/b")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Locale string `json:"locale"`
		Routes int    `json:"routes"`
		Items  []struct {
			Label string `json:"label"`
			Items []struct {
				Label     string `json:"label"`
				IsCurrent bool   `json:"isCurrent"`
			} `json:"items"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, config.RootLocale, payload.Locale)
	assert.Equal(t, 4, payload.Routes)
	require.Len(t, payload.Items, 1)
	require.Len(t, payload.Items[0].Items, 2)
	assert.Equal(t, "A", payload.Items[0].Items[0].Label)
	assert.False(t, payload.Items[0].Items[0].IsCurrent)
	assert.Equal(t, "B", payload.Items[0].Items[1].Label)
	assert.True(t, payload.Items[0].Items[1].IsCurrent)
}

func TestSidebarAPI_UnknownLocale(t *testing.T) {
	ts := newTestServer(t, "")
	resp, _ := get(t, ts.URL+"/api/sidebar?locale=de")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/sidebar", nil)
	require.NoError(t, err)
	post, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
}

func TestPages(t *testing.T) {
	ts := newTestServer(t, "")

	resp, body := get(t, ts.URL+"/guides/intro")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "Intro")

	resp, _ = get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = get(t, ts.URL+"/img/logo.svg")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<svg>")

	resp, body = get(t, ts.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "404")
}

func TestPages_BaseURL(t *testing.T) {
	ts := newTestServer(t, "baseUrl: /wiki\n")

	resp, _ := get(t, ts.URL+"/wiki/guides/intro")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/guides/intro")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, "")
	resp, body := get(t, ts.URL+"/metrics")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `wiki_sidebar_builds_total{result="success"} 1`)
	assert.Contains(t, body, `wiki_sidebar_routes{locale="root"} 4`)
}

func TestStripBase(t *testing.T) {
	s := &Server{cfg: &config.Config{BaseURL: "docs"}}
	got, ok := s.stripBase("/docs/guides/")
	assert.True(t, ok)
	assert.Equal(t, "/guides", got)

	got, ok = s.stripBase("/docs")
	assert.True(t, ok)
	assert.Equal(t, "/", got)

	_, ok = s.stripBase("/docsx/guides")
	assert.False(t, ok)
}
