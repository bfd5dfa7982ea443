package site

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iedon/wiki-sidebar/sidebar"
	"github.com/iedon/wiki-sidebar/templatex"
)

func TestRouteIDFromPath(t *testing.T) {
	cases := map[string]string{
		"index.md":              "",
		"guides/index.md":       "guides",
		"guides/intro.md":       "guides/intro",
		"fr/blog/post.markdown": "fr/blog/post",
		"Guides/Index.MD":       "Guides",
	}
	for in, want := range cases {
		assert.Equal(t, want, routeIDFromPath(in), in)
	}
}

func TestHTMLPathFrom(t *testing.T) {
	assert.Equal(t, "index.html", htmlPathFrom("index.md"))
	assert.Equal(t, "guides/index.html", htmlPathFrom("guides/index.md"))
	assert.Equal(t, "guides/intro.html", htmlPathFrom("guides/intro.md"))
}

func TestLocaleOf(t *testing.T) {
	dirs := []string{"fr", "zh-cn"}
	assert.Equal(t, "fr", localeOf("fr/blog/a", dirs))
	assert.Equal(t, "fr", localeOf("fr", dirs))
	assert.Equal(t, "zh-cn", localeOf("zh-cn/guides", dirs))
	assert.Equal(t, "", localeOf("french/a", dirs))
	assert.Equal(t, "", localeOf("", dirs))
}

func TestLocaleOf_CaseMustMatchLocaleDir(t *testing.T) {
	dirs := []string{"fr"}
	assert.Equal(t, "", localeOf("FR/blog/a", dirs))
	assert.Equal(t, "", localeOf("Fr", dirs))

	// A route assigned to a locale must be reachable through that locale's groups.
	r := &sidebar.Route{ID: "fr/blog/a", Locale: localeOf("fr/blog/a", dirs), Data: &sidebar.RouteData{}}
	group := sidebar.BuildGroup(sidebar.AutogenerateGroup{
		Label:        "Blog",
		Autogenerate: sidebar.Autogenerate{Directory: "blog"},
	}, []*sidebar.Route{r}, sidebar.Target{Locale: r.Locale})
	assert.Len(t, sidebar.Flatten(group.Items), 1)
}

func TestIsIgnorable(t *testing.T) {
	assert.True(t, isIgnorable(".github/README.md"))
	assert.True(t, isIgnorable("guides/_partial.md"))
	assert.True(t, isIgnorable("_drafts/post.md"))
	assert.False(t, isIgnorable("guides/intro.md"))
}

func TestDeriveTitle(t *testing.T) {
	assert.Equal(t, "Getting Started", deriveTitle("guides/getting-started.md"))
	assert.Equal(t, "Guides", deriveTitle("guides/index.md"))
	assert.Equal(t, "Home", deriveTitle("index.md"))
	assert.Equal(t, "API Notes", deriveTitle("API_notes.md"))
}

func TestBuildBreadcrumbs(t *testing.T) {
	titles := map[string]string{"": "Docs", "guides": "All guides"}

	crumbs := buildBreadcrumbs(&sidebar.Route{ID: "guides/setup/linux"}, "Linux", "", titles)
	assert.Equal(t, []templatex.Breadcrumb{
		{Title: "Docs", Path: "/"},
		{Title: "All guides", Path: "/guides"},
		{Title: "setup"},
		{Title: "Linux", Current: true},
	}, crumbs)

	home := buildBreadcrumbs(&sidebar.Route{ID: ""}, "Docs", "", titles)
	assert.Equal(t, []templatex.Breadcrumb{{Title: "Docs", Current: true}}, home)

	fr := buildBreadcrumbs(&sidebar.Route{ID: "fr/blog", Locale: "fr"}, "Blog", "wiki", map[string]string{})
	assert.Equal(t, []templatex.Breadcrumb{
		{Title: "Home", Path: "/wiki/fr"},
		{Title: "Blog", Current: true},
	}, fr)
}
