package site

import (
	"sync"
	"time"

	"github.com/iedon/wiki-sidebar/config"
	"github.com/iedon/wiki-sidebar/sidebar"
)

// LocaleSidebar is the navigation computed for one locale.
type LocaleSidebar struct {
	Locale config.Locale  `json:"-"`
	Items  []sidebar.Item `json:"items"`
	Routes int            `json:"routes"`
}

// SidebarSnapshot holds the sidebars of the last build keyed by locale key.
type SidebarSnapshot struct {
	Locales map[string]LocaleSidebar
	BuiltAt time.Time
}

// SidebarCache publishes the latest sidebars to readers such as the preview server.
type SidebarCache struct {
	mu       sync.RWMutex
	snapshot SidebarSnapshot
}

func newSidebarCache() *SidebarCache {
	return &SidebarCache{}
}

func (c *SidebarCache) Update(locales map[string]LocaleSidebar) {
	c.mu.Lock()
	c.snapshot = SidebarSnapshot{Locales: locales, BuiltAt: time.Now()}
	c.mu.Unlock()
}

func (c *SidebarCache) Snapshot() SidebarSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// computeSidebars builds every locale from its own copy of the routes so that
// order stamps of one pass never leak into another.
func (s *Service) computeSidebars(docs []page) map[string]LocaleSidebar {
	routes := make([]*sidebar.Route, 0, len(docs))
	for _, doc := range docs {
		routes = append(routes, doc.Route)
	}

	out := make(map[string]LocaleSidebar, len(s.cfg.LocaleList()))
	for _, loc := range s.cfg.LocaleList() {
		pass := sidebar.CloneRoutes(routesOfLocale(routes, loc.Dir))
		items := sidebar.Build(s.cfg.SidebarEntries(), pass, s.cfg.Target(loc))
		out[loc.Key] = LocaleSidebar{Locale: loc, Items: items, Routes: len(pass)}

		s.metrics.SetLocale(loc.Key, len(pass), len(sidebar.Flatten(items)))
		s.logger.Debug("sidebar computed", "locale", loc.Key, "routes", len(pass))
	}
	return out
}

func routesOfLocale(routes []*sidebar.Route, dir string) []*sidebar.Route {
	selected := make([]*sidebar.Route, 0, len(routes))
	for _, r := range routes {
		if r.Locale == dir {
			selected = append(selected, r)
		}
	}
	return selected
}
