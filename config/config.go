package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/iedon/wiki-sidebar/sidebar"
)

// RootLocale is the locale key whose pages live directly in the content directory.
const RootLocale = "root"

// GitConfig groups Git-related settings.
type GitConfig struct {
	BinPath           string `yaml:"binPath"`
	CommandTimeoutSec int    `yaml:"commandTimeoutSec" validate:"gte=0"`
}

// DatesConfig controls where page dates come from.
type DatesConfig struct {
	// FromGit falls back to the last commit time when a page has no date in its front matter.
	FromGit bool `yaml:"fromGit"`
}

// WatchConfig tunes content change detection in serve mode.
type WatchConfig struct {
	Enabled    *bool `yaml:"enabled"`
	DebounceMs int   `yaml:"debounceMs" validate:"gte=0"`
}

// LocaleConfig describes one locale of the site.
type LocaleConfig struct {
	Label string `yaml:"label"`
	Lang  string `yaml:"lang"`
}

// Locale is a resolved locale.
type Locale struct {
	// Dir is the content directory of the locale, empty for the root locale.
	Dir   string
	Key   string
	Label string
	Lang  string
}

// Config encapsulates build and preview options.
type Config struct {
	ContentDir    string                  `yaml:"contentDir"`
	OutputDir     string                  `yaml:"outputDir"`
	TemplateDir   string                  `yaml:"templateDir"`
	BaseURL       string                  `yaml:"baseUrl"`
	SiteName      string                  `yaml:"siteName"`
	Listen        string                  `yaml:"listen"`
	LogLevel      string                  `yaml:"logLevel" validate:"omitempty,oneof=debug info warn error"`
	DefaultLocale string                  `yaml:"defaultLocale"`
	Locales       map[string]LocaleConfig `yaml:"locales"`
	Git           GitConfig               `yaml:"git"`
	Dates         DatesConfig             `yaml:"dates"`
	Watch         WatchConfig             `yaml:"watch"`
	Sidebar       []SidebarEntryConfig    `yaml:"sidebar" validate:"dive"`

	GitTimeout    time.Duration   `yaml:"-"`
	WatchDebounce time.Duration   `yaml:"-"`
	locales       []Locale        `yaml:"-"`
	sidebar       []sidebar.Entry `yaml:"-"`
}

// Load reads configuration from disk and applies sane defaults.
func Load(path string) (*Config, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(bytes)
}

// Parse decodes YAML configuration and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() error {
	if c.ContentDir == "" {
		c.ContentDir = "./docs"
	}
	if c.OutputDir == "" {
		c.OutputDir = "./dist"
	}
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.BaseURL = strings.Trim(strings.TrimSpace(c.BaseURL), "/")

	c.SiteName = strings.TrimSpace(c.SiteName)
	if c.SiteName == "" {
		c.SiteName = "Documentation"
	}

	c.Git.BinPath = strings.TrimSpace(c.Git.BinPath)
	if c.Git.BinPath == "" {
		c.Git.BinPath = "git"
	}
	if c.Git.CommandTimeoutSec <= 0 {
		c.Git.CommandTimeoutSec = 30
	}
	c.GitTimeout = time.Duration(c.Git.CommandTimeoutSec) * time.Second

	if c.Watch.DebounceMs <= 0 {
		c.Watch.DebounceMs = 300
	}
	c.WatchDebounce = time.Duration(c.Watch.DebounceMs) * time.Millisecond

	if len(c.Locales) == 0 {
		c.Locales = map[string]LocaleConfig{RootLocale: {Label: "English", Lang: "en"}}
	}
	c.DefaultLocale = strings.TrimSpace(c.DefaultLocale)
	if c.DefaultLocale == "" {
		if _, ok := c.Locales[RootLocale]; ok {
			c.DefaultLocale = RootLocale
		} else {
			keys := make([]string, 0, len(c.Locales))
			for key := range c.Locales {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			c.DefaultLocale = keys[0]
		}
	}

	if err := c.compileLocales(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if _, ok := c.Locales[c.DefaultLocale]; !ok {
		return fmt.Errorf("defaultLocale %q is not a configured locale", c.DefaultLocale)
	}
	entries, err := compileSidebar(c.Sidebar)
	if err != nil {
		return err
	}
	c.sidebar = entries
	return nil
}

func (c *Config) compileLocales() error {
	c.locales = c.locales[:0]
	var errs []error
	for key, lc := range c.Locales {
		key = strings.TrimSpace(key)
		dir := strings.Trim(key, "/")
		if key == RootLocale {
			dir = ""
		} else if dir == "" || strings.Contains(dir, "/") || dir == "." || dir == ".." {
			errs = append(errs, fmt.Errorf("locale %q: key must be a single directory name", key))
			continue
		}

		lang := strings.TrimSpace(lc.Lang)
		if lang == "" {
			lang = dir
		}
		if lang == "" {
			lang = "en"
		}
		tag, err := language.Parse(lang)
		if err != nil {
			errs = append(errs, fmt.Errorf("locale %q: invalid lang %q: %w", key, lang, err))
			continue
		}

		label := strings.TrimSpace(lc.Label)
		if label == "" {
			label = tag.String()
		}
		c.locales = append(c.locales, Locale{Dir: dir, Key: key, Label: label, Lang: tag.String()})
	}
	sort.Slice(c.locales, func(i, j int) bool {
		return c.locales[i].Dir < c.locales[j].Dir
	})
	return errors.Join(errs...)
}

// LocaleList returns the configured locales, root first.
func (c *Config) LocaleList() []Locale {
	return append([]Locale(nil), c.locales...)
}

// Locale resolves a locale by key or directory. An empty name selects the default locale.
func (c *Config) Locale(name string) (Locale, bool) {
	name = strings.Trim(strings.TrimSpace(name), "/")
	if name == "" {
		name = c.DefaultLocale
	}
	for _, loc := range c.locales {
		if loc.Key == name || (loc.Dir != "" && loc.Dir == name) {
			return loc, true
		}
	}
	return Locale{}, false
}

// LocaleDirs lists the content directories of the non-root locales.
func (c *Config) LocaleDirs() []string {
	dirs := make([]string, 0, len(c.locales))
	for _, loc := range c.locales {
		if loc.Dir != "" {
			dirs = append(dirs, loc.Dir)
		}
	}
	return dirs
}

// SidebarEntries returns the resolved sidebar entries. Nil means the whole locale is listed.
func (c *Config) SidebarEntries() []sidebar.Entry {
	return c.sidebar
}

// Target returns the sidebar build target of a locale.
func (c *Config) Target(loc Locale) sidebar.Target {
	return sidebar.Target{Locale: loc.Dir, Lang: loc.Lang, BaseURL: c.BaseURL}
}

// WatchEnabled reports whether serve mode rebuilds on content changes.
func (c *Config) WatchEnabled() bool {
	return c.Watch.Enabled == nil || *c.Watch.Enabled
}

func isRelativeDir(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return true
	}
	if strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "\\") || filepath.IsAbs(trimmed) {
		return false
	}
	cleaned := path.Clean(strings.ReplaceAll(trimmed, "\\", "/"))
	return cleaned != ".." && !strings.HasPrefix(cleaned, "../")
}
