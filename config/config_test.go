package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iedon/wiki-sidebar/sidebar"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("siteName: ' My Docs '\n"))
	require.NoError(t, err)

	assert.Equal(t, "./docs", cfg.ContentDir)
	assert.Equal(t, "./dist", cfg.OutputDir)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "My Docs", cfg.SiteName)
	assert.Equal(t, "git", cfg.Git.BinPath)
	assert.Equal(t, 30*time.Second, cfg.GitTimeout)
	assert.Equal(t, 300*time.Millisecond, cfg.WatchDebounce)
	assert.True(t, cfg.WatchEnabled())
	assert.Equal(t, RootLocale, cfg.DefaultLocale)
	assert.Nil(t, cfg.SidebarEntries())

	locales := cfg.LocaleList()
	require.Len(t, locales, 1)
	assert.Equal(t, Locale{Dir: "", Key: RootLocale, Label: "English", Lang: "en"}, locales[0])
}

func TestParse_SidebarResolvesTaggedSort(t *testing.T) {
	cfg, err := Parse([]byte(`
baseUrl: /wiki/
sidebar:
  - label: Home
    link: /
  - label: Blog
    translations: {fr: Journal}
    autogenerate: {directory: blog, sort: date, order: ascending}
  - label: News
    autogenerate: {directory: news, sort: date}
  - label: Reference
    collapsed: true
    items:
      - label: Guides
        autogenerate: {directory: guides/, collapsed: true}
`))
	require.NoError(t, err)
	assert.Equal(t, "wiki", cfg.BaseURL)

	entries := cfg.SidebarEntries()
	require.Len(t, entries, 4)
	assert.Equal(t, sidebar.LinkEntry{Label: "Home", Link: "/"}, entries[0])

	blog := entries[1].(sidebar.AutogenerateGroup)
	assert.Equal(t, "Journal", blog.Translations["fr"])
	assert.Equal(t, sidebar.Autogenerate{Directory: "blog", Sort: sidebar.SortByDate{Direction: sidebar.Ascending}}, blog.Autogenerate)

	news := entries[2].(sidebar.AutogenerateGroup)
	assert.Equal(t, sidebar.SortByDate{Direction: sidebar.Descending}, news.Autogenerate.Sort)

	ref := entries[3].(sidebar.GroupEntry)
	assert.True(t, ref.Collapsed)
	require.Len(t, ref.Items, 1)
	guides := ref.Items[0].(sidebar.AutogenerateGroup)
	assert.Equal(t, sidebar.Autogenerate{Directory: "guides", Collapsed: true, Sort: sidebar.NoSort{}}, guides.Autogenerate)
}

func TestParse_RejectsUnknownSortKey(t *testing.T) {
	_, err := Parse([]byte(`
sidebar:
  - label: Blog
    autogenerate: {directory: blog, sort: title}
`))
	require.Error(t, err)

	var ve ValidationErrors
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve, 1)
	assert.Equal(t, "sidebar[0].autogenerate.sort", ve[0].Field)
	assert.Equal(t, "oneof", ve[0].Tag)
}

func TestParse_RejectsUnknownOrder(t *testing.T) {
	_, err := Parse([]byte(`
sidebar:
  - label: Blog
    autogenerate: {directory: blog, sort: date, order: random}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "autogenerate.order")
}

func TestParse_RejectsOrderWithoutSort(t *testing.T) {
	_, err := Parse([]byte(`
sidebar:
  - label: Blog
    autogenerate: {directory: blog, order: ascending}
`))
	require.ErrorIs(t, err, ErrInvalidSidebar)
}

func TestParse_RejectsMissingDirectory(t *testing.T) {
	_, err := Parse([]byte(`
sidebar:
  - label: Blog
    autogenerate: {sort: date}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "autogenerate.directory")
}

func TestParse_RejectsAbsoluteOrEscapingDirectory(t *testing.T) {
	for _, dir := range []string{"/etc", "../outside", "a/../../b"} {
		_, err := Parse([]byte("sidebar:\n  - label: X\n    autogenerate: {directory: '" + dir + "'}\n"))
		require.ErrorIs(t, err, ErrInvalidSidebar, dir)
	}
}

func TestParse_RejectsAmbiguousEntries(t *testing.T) {
	_, err := Parse([]byte(`
sidebar:
  - label: Both
    link: /x
    autogenerate: {directory: x}
  - label: Neither
`))
	require.ErrorIs(t, err, ErrInvalidSidebar)
	assert.Contains(t, err.Error(), `sidebar[0] "Both"`)
	assert.Contains(t, err.Error(), `sidebar[1] "Neither"`)
}

func TestParse_RejectsMissingLabel(t *testing.T) {
	_, err := Parse([]byte(`
sidebar:
  - link: /x
`))
	var ve ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "sidebar[0].label", ve[0].Field)
	assert.Equal(t, "required", ve[0].Tag)
}

func TestParse_Locales(t *testing.T) {
	cfg, err := Parse([]byte(`
locales:
  root: {label: English, lang: en}
  fr: {label: Français}
  zh-cn: {lang: zh-CN}
`))
	require.NoError(t, err)
	assert.Equal(t, RootLocale, cfg.DefaultLocale)

	locales := cfg.LocaleList()
	require.Len(t, locales, 3)
	assert.Equal(t, "", locales[0].Dir)
	assert.Equal(t, Locale{Dir: "fr", Key: "fr", Label: "Français", Lang: "fr"}, locales[1])
	assert.Equal(t, Locale{Dir: "zh-cn", Key: "zh-cn", Label: "zh-CN", Lang: "zh-CN"}, locales[2])
	assert.Equal(t, []string{"fr", "zh-cn"}, cfg.LocaleDirs())

	loc, ok := cfg.Locale("")
	require.True(t, ok)
	assert.Equal(t, "", loc.Dir)
	loc, ok = cfg.Locale("fr")
	require.True(t, ok)
	assert.Equal(t, sidebar.Target{Locale: "fr", Lang: "fr"}, cfg.Target(loc))
	_, ok = cfg.Locale("de")
	assert.False(t, ok)
}

func TestParse_LocalesWithoutRoot_DefaultsToFirstKey(t *testing.T) {
	cfg, err := Parse([]byte(`
locales:
  en: {}
  de: {}
`))
	require.NoError(t, err)
	assert.Equal(t, "de", cfg.DefaultLocale)
}

func TestParse_RejectsBadLocale(t *testing.T) {
	_, err := Parse([]byte(`
locales:
  a/b: {lang: en}
`))
	require.Error(t, err)

	_, err = Parse([]byte(`
defaultLocale: de
locales:
  fr: {}
`))
	require.Error(t, err)
}

func TestParse_RejectsUnknownLogLevel(t *testing.T) {
	_, err := Parse([]byte("logLevel: verbose\n"))
	var ve ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "logLevel", ve[0].Field)
}

func TestLoad_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sidebar.yaml")
	require.NoError(t, os.WriteFile(path, []byte("contentDir: ./content\nwatch: {enabled: false, debounceMs: 50}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./content", cfg.ContentDir)
	assert.False(t, cfg.WatchEnabled())
	assert.Equal(t, 50*time.Millisecond, cfg.WatchDebounce)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_ExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "sidebar.example.yaml"))
	require.NoError(t, err)

	require.Len(t, cfg.SidebarEntries(), 4)
	blog, ok := cfg.SidebarEntries()[2].(sidebar.AutogenerateGroup)
	require.True(t, ok)
	assert.Equal(t, sidebar.SortByDate{Direction: sidebar.Descending}, blog.Autogenerate.Sort)
	assert.True(t, blog.Autogenerate.Collapsed)
	assert.Equal(t, []string{"fr"}, cfg.LocaleDirs())
}
