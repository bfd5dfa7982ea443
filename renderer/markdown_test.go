package renderer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_ExtractsFrontMatter(t *testing.T) {
	src := []byte("---\ntitle: Release notes\ndate: 2023-06-01\nsidebar:\n  label: Notes\n---\n# Heading\n\nBody text.\n")

	result, err := New().Render(src)
	require.NoError(t, err)

	assert.Equal(t, "Release notes", result.FrontMatter.Title)
	assert.Equal(t, "Notes", result.FrontMatter.SidebarLabel)
	assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), result.FrontMatter.Date)
	assert.NotContains(t, string(result.HTML), "Release notes")
	assert.Contains(t, string(result.HTML), `<h1 id="heading">Heading</h1>`)
	require.Len(t, result.Headings, 1)
}

func TestRender_TitleFallsBackToFirstH1(t *testing.T) {
	result, err := New().Render([]byte("## Minor\n\n# Main title\n"))
	require.NoError(t, err)

	assert.Equal(t, "Main title", result.FrontMatter.Title)
	assert.True(t, result.FrontMatter.Date.IsZero())
}

func TestRender_InvalidDate_ReturnsError(t *testing.T) {
	_, err := New().Render([]byte("---\ndate: next tuesday\n---\nBody\n"))
	require.Error(t, err)
}

func TestRender_DuplicateHeadingsGetUniqueIDs(t *testing.T) {
	result, err := New().Render([]byte("## Setup\n\n## Setup\n"))
	require.NoError(t, err)

	require.Len(t, result.Headings, 2)
	assert.Equal(t, "setup", result.Headings[0].ID)
	assert.Equal(t, "setup-1", result.Headings[1].ID)
}

func TestRender_HighlightsCodeBlocks(t *testing.T) {
	result, err := New().Render([]byte("```go\nfunc main() {}\n```\n"))
	require.NoError(t, err)

	assert.Contains(t, string(result.HTML), `data-lang="go"`)
	assert.Contains(t, string(result.HTML), "z-chroma")
}

func TestParseDate_Layouts(t *testing.T) {
	cases := map[string]time.Time{
		"2023-03-01":                time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		"2023-03-01 10:30":          time.Date(2023, 3, 1, 10, 30, 0, 0, time.UTC),
		"2023-03-01 10:30:15":       time.Date(2023, 3, 1, 10, 30, 15, 0, time.UTC),
		"2023-03-01T10:30:15+02:00": time.Date(2023, 3, 1, 8, 30, 15, 0, time.UTC),
	}
	for raw, want := range cases {
		got, err := ParseDate(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), raw)
	}

	stamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	got, err := ParseDate(stamp)
	require.NoError(t, err)
	assert.Equal(t, stamp, got)

	_, err = ParseDate(42)
	require.Error(t, err)
}

func TestMinifyHTML_KeepsDocumentStructure(t *testing.T) {
	out, err := New().MinifyHTML([]byte("<!doctype html>\n<html>\n  <head><title>x</title></head>\n  <body>\n    <p>hello</p>\n  </body>\n</html>\n"))
	require.NoError(t, err)

	assert.Contains(t, string(out), "<html>")
	assert.Contains(t, string(out), "<p>hello</p>")
	assert.NotContains(t, string(out), "\n  ")
}
