package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.SearchResults, 5)
	assert.Len(t, c.PopularSites, 8)
	assert.Len(t, c.Bookmarks, 3)
	assert.Len(t, c.History, 5)

	assert.Equal(t, "React Documentation", c.Bookmarks[0].Title)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), c.Bookmarks[0].At.UTC())
}

func TestSearch(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	got := c.Search("javascript")
	require.NotEmpty(t, got)
	urls := make([]string, len(got))
	for i, r := range got {
		urls[i] = r.URL
	}
	assert.Contains(t, urls, "https://reactjs.org")
	assert.Contains(t, urls, "https://javascript.info")

	// description match
	assert.Len(t, c.Search("repositories"), 1)

	assert.Empty(t, c.Search(""))
	assert.Empty(t, c.Search("   "))
	assert.Empty(t, c.Search("zzzz-no-match"))
}

func TestSuggest(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Suggest("e", 5), 5)
	assert.Len(t, c.Suggest("e", 2), 2)
	assert.Empty(t, c.Suggest("github", 0))

	// "mdnweb" is no substring but fuzzy matches "MDN Web Docs"
	got := c.Suggest("mdnweb", 5)
	require.NotEmpty(t, got)
	assert.Equal(t, "https://developer.mozilla.org", got[0].URL)

	// substring hits come first and are not repeated
	got = c.Suggest("GitHub", 5)
	require.NotEmpty(t, got)
	assert.Equal(t, "https://github.com", got[0].URL)
	seen := map[int]bool{}
	for _, r := range got {
		assert.False(t, seen[r.ID])
		seen[r.ID] = true
	}
}

func TestLookup(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	title, ok := c.Lookup("https://github.com/")
	assert.True(t, ok)
	assert.Equal(t, "GitHub: Where the world builds software", title)

	title, ok = c.Lookup("https://www.youtube.com")
	assert.True(t, ok)
	assert.Equal(t, "YouTube", title)

	_, ok = c.Lookup("https://unknown.example")
	assert.False(t, ok)
}

func TestSeeds(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	entries := c.SeedEntries()
	require.Len(t, entries, 5)
	assert.Equal(t, "https://create-react-app.dev", entries[0].URL)
	assert.Equal(t, entries[0].VisitedAt.UnixMilli(), entries[0].ID)

	bookmarks := c.SeedBookmarks()
	require.Len(t, bookmarks, 3)
	assert.Equal(t, "https://reactjs.org/docs", bookmarks[0].URL)
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"catalog.toml": `
[[popular_sites]]
name = "Go"
url = "https://go.dev"

[[history]]
title = "Go"
url = "https://go.dev/doc"
at = 2024-02-01T08:00:00Z
`,
		"catalog.json": `{"search_results":[{"id":9,"title":"Go Packages","url":"https://pkg.go.dev","description":"Search Go packages"}]}`,
		"catalog.yml": `
popular_sites:
  - name: Go
    url: https://go.dev
`,
	}

	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			c, err := Load(path)
			require.NoError(t, err)
			assert.True(t, len(c.PopularSites) > 0 || len(c.SearchResults) > 0)
		})
	}

	c, err := Load(filepath.Join(dir, "catalog.toml"))
	require.NoError(t, err)
	require.Len(t, c.History, 1)
	assert.Equal(t, 2024, c.History[0].At.Year())

	c, err = Load(filepath.Join(dir, "catalog.json"))
	require.NoError(t, err)
	title, ok := c.Lookup("https://pkg.go.dev")
	assert.True(t, ok)
	assert.Equal(t, "Go Packages", title)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("catalog.ini")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Decode([]byte("search_results: ["), FormatYAML)
	assert.Error(t, err)

	_, err = Decode(nil, Format("xml"))
	assert.Error(t, err)

	c, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, c.PopularSites)
}
