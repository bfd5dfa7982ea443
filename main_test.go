package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := filepath.Join(dir, "docs")
	files := map[string]string{
		"blog/a.md": "---\ntitle: A\ndate: 2023-01-01\n---\n",
		"blog/b.md": "---\ntitle: B\ndate: 2023-03-01\n---\n",
		"blog/c.md": "---\ntitle: C\ndate: 2023-02-01\n---\n",
	}
	for rel, body := range files {
		full := filepath.Join(content, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(body), 0o644))
	}
	cfg := fmt.Sprintf(`contentDir: %s
outputDir: %s
logLevel: error
sidebar:
  - label: Blog
    autogenerate:
      directory: blog
      sort: date
      order: ascending
`, content, filepath.Join(dir, "dist"))
	path := filepath.Join(dir, "sidebar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func TestPrintCmd_WritesSidebarJSON(t *testing.T) {
	var out bytes.Buffer
	cli := &CLI{Config: writeSite(t)}
	cmd := &PrintCmd{Current: "blog/c"}
	require.NoError(t, cmd.Run(&Global{Ctx: context.Background(), Out: &out}, cli))

	var items []struct {
		Label string `json:"label"`
		Items []struct {
			Label     string `json:"label"`
			IsCurrent bool   `json:"isCurrent"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &items))
	require.Len(t, items, 1)
	require.Len(t, items[0].Items, 3)
	assert.Equal(t, "A", items[0].Items[0].Label)
	assert.Equal(t, "C", items[0].Items[1].Label)
	assert.True(t, items[0].Items[1].IsCurrent)
	assert.Equal(t, "B", items[0].Items[2].Label)
}

func TestPrintCmd_UnknownLocale(t *testing.T) {
	cli := &CLI{Config: writeSite(t)}
	err := (&PrintCmd{Locale: "de"}).Run(&Global{Ctx: context.Background(), Out: &bytes.Buffer{}}, cli)
	require.Error(t, err)
}

func TestBuildCmd_WritesOutput(t *testing.T) {
	cfgPath := writeSite(t)
	cli := &CLI{Config: cfgPath}
	require.NoError(t, (&BuildCmd{}).Run(&Global{Ctx: context.Background(), Out: &bytes.Buffer{}}, cli))
	assert.FileExists(t, filepath.Join(filepath.Dir(cfgPath), "dist", "sidebar.json"))
	assert.FileExists(t, filepath.Join(filepath.Dir(cfgPath), "dist", "blog", "b.html"))
}

func TestNewLogger_Levels(t *testing.T) {
	ctx := context.Background()
	assert.True(t, newLogger("debug").Enabled(ctx, -4))
	assert.False(t, newLogger("warn").Enabled(ctx, 0))
	assert.True(t, newLogger("bogus").Enabled(ctx, 0))
}
