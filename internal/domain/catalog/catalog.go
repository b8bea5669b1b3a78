// Package catalog holds the static content of the browser chrome: mock
// search results, the popular sites of the new-tab page and the bookmarks and
// history a fresh session is seeded with.
//
// The default catalog is embedded as YAML. Load reads a replacement from
// disk in YAML, TOML or JSON, chosen by file extension.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/sahilm/fuzzy"

	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/history"
)

//go:embed catalog.yaml
var embedded []byte

// Format is a catalog file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// SearchResult is one mock search hit
type SearchResult struct {
	ID          int    `yaml:"id" toml:"id" json:"id"`
	Title       string `yaml:"title" toml:"title" json:"title"`
	URL         string `yaml:"url" toml:"url" json:"url"`
	Description string `yaml:"description" toml:"description" json:"description"`
	Favicon     string `yaml:"favicon" toml:"favicon" json:"favicon,omitempty"`
}

// Site is a tile on the new-tab page
type Site struct {
	Name    string `yaml:"name" toml:"name" json:"name"`
	URL     string `yaml:"url" toml:"url" json:"url"`
	Favicon string `yaml:"favicon" toml:"favicon" json:"favicon,omitempty"`
	Color   string `yaml:"color" toml:"color" json:"color,omitempty"`
}

// Link is a seeded bookmark or history entry
type Link struct {
	Title   string    `yaml:"title" toml:"title" json:"title"`
	URL     string    `yaml:"url" toml:"url" json:"url"`
	Favicon string    `yaml:"favicon" toml:"favicon" json:"favicon,omitempty"`
	At      time.Time `yaml:"at" toml:"at" json:"at"`
}

// Catalog is the full set of static content
type Catalog struct {
	SearchResults []SearchResult `yaml:"search_results" toml:"search_results" json:"search_results"`
	PopularSites  []Site         `yaml:"popular_sites" toml:"popular_sites" json:"popular_sites"`
	Bookmarks     []Link         `yaml:"bookmarks" toml:"bookmarks" json:"bookmarks"`
	History       []Link         `yaml:"history" toml:"history" json:"history"`

	titles map[string]string
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Decode(embedded, FormatYAML)
}

// Load reads a catalog file. An empty path returns the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	format, err := formatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	return Decode(data, format)
}

// Decode parses catalog data in the given format.
func Decode(data []byte, format Format) (*Catalog, error) {
	var c Catalog
	var err error

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &c)
	case FormatTOML:
		err = toml.Unmarshal(data, &c)
	case FormatJSON:
		err = sonic.Unmarshal(data, &c)
	default:
		return nil, fmt.Errorf("unsupported catalog format: %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s catalog: %w", format, err)
	}

	c.index()
	return &c, nil
}

func formatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported catalog extension: %s", path)
}

// index builds the url -> title lookup; search results win over sites.
func (c *Catalog) index() {
	c.titles = make(map[string]string, len(c.SearchResults)+len(c.PopularSites))
	for _, s := range c.PopularSites {
		c.titles[trimSlash(s.URL)] = s.Name
	}
	for _, r := range c.SearchResults {
		c.titles[trimSlash(r.URL)] = r.Title
	}
}

// Lookup returns the catalog title of a known URL.
func (c *Catalog) Lookup(url string) (string, bool) {
	title, ok := c.titles[trimSlash(url)]
	return title, ok
}

// Popular returns the new-tab page tiles.
func (c *Catalog) Popular() []Site {
	return append([]Site(nil), c.PopularSites...)
}

// Search returns results whose title or description contains query,
// ignoring case. An empty query matches nothing.
func (c *Catalog) Search(query string) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []SearchResult
	for _, r := range c.SearchResults {
		if strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(strings.ToLower(r.Description), q) {
			out = append(out, r)
		}
	}
	return out
}

// Suggest returns address-bar suggestions: substring matches first, then
// fuzzy title matches, at most limit in total.
func (c *Catalog) Suggest(query string, limit int) []SearchResult {
	if limit <= 0 {
		return nil
	}

	out := c.Search(query)
	if len(out) >= limit {
		return out[:limit]
	}

	q := strings.TrimSpace(query)
	if q == "" {
		return out
	}

	seen := make(map[int]bool, len(out))
	for _, r := range out {
		seen[r.ID] = true
	}

	matches := fuzzy.FindFrom(q, titleSource(c.SearchResults))
	sort.Stable(matches)
	for _, m := range matches {
		r := c.SearchResults[m.Index]
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out
}

// SeedEntries converts the seeded history for history.Store.Seed.
func (c *Catalog) SeedEntries() []history.Entry {
	out := make([]history.Entry, 0, len(c.History))
	for _, l := range c.History {
		out = append(out, history.Entry{
			ID:        l.At.UnixMilli(),
			Title:     l.Title,
			URL:       l.URL,
			Favicon:   l.Favicon,
			VisitedAt: l.At,
		})
	}
	return out
}

// SeedBookmarks converts the seeded bookmarks for history.Store.Seed.
func (c *Catalog) SeedBookmarks() []history.Bookmark {
	out := make([]history.Bookmark, 0, len(c.Bookmarks))
	for _, l := range c.Bookmarks {
		out = append(out, history.Bookmark{
			ID:      l.At.UnixMilli(),
			Title:   l.Title,
			URL:     l.URL,
			Favicon: l.Favicon,
			AddedAt: l.At,
		})
	}
	return out
}

type titleSource []SearchResult

func (t titleSource) String(i int) string { return t[i].Title }
func (t titleSource) Len() int            { return len(t) }

func trimSlash(u string) string {
	return strings.TrimRight(u, "/")
}
