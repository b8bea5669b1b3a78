// Package history keeps the in-memory visit history and bookmarks of a
// browser session.
//
// Both collections are ordered most-recent-first and hold at most one item per
// URL. Every operation is total: blank or empty URLs are ignored instead of
// reported as errors.
package history

import (
	"time"

	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/navigation"
)

// Entry is one visited page
type Entry struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Favicon   string    `json:"favicon,omitempty"`
	VisitedAt time.Time `json:"visitedAt"`
}

// Bookmark is one saved page
type Bookmark struct {
	ID      int64     `json:"id"`
	Title   string    `json:"title"`
	URL     string    `json:"url"`
	Favicon string    `json:"favicon,omitempty"`
	AddedAt time.Time `json:"addedAt"`
}

// Source describes the page a bookmark is created from.
type Source struct {
	Title   string
	URL     string
	Favicon string
}

// Store holds history entries and bookmarks. It is not safe for concurrent
// use.
type Store struct {
	entries   []Entry
	bookmarks []Bookmark
	limit     int
	now       func() time.Time
	lastID    int64
}

// Option configures a Store
type Option func(*Store)

// WithLimit caps the number of history entries; 0 means unbounded.
func WithLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty store
func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed appends pre-existing entries and bookmarks, keeping their order and
// dropping URL duplicates.
func (s *Store) Seed(entries []Entry, bookmarks []Bookmark) {
	for _, e := range entries {
		if navigation.IsBlank(e.URL) || s.entryIndex(e.URL) >= 0 {
			continue
		}
		s.entries = append(s.entries, e)
		s.observeID(e.ID)
	}
	for _, b := range bookmarks {
		if navigation.IsBlank(b.URL) || s.bookmarkIndex(b.URL) >= 0 {
			continue
		}
		s.bookmarks = append(s.bookmarks, b)
		s.observeID(b.ID)
	}
	s.trim()
}

// RecordVisit puts url at the front of the history, replacing any older entry
// for the same url. An empty title falls back to the url.
func (s *Store) RecordVisit(url, title string) bool {
	if navigation.IsBlank(url) {
		return false
	}
	if title == "" {
		title = url
	}

	favicon, _ := navigation.FaviconFor(url)
	now := s.now()
	entry := Entry{
		ID:        s.nextID(now),
		Title:     title,
		URL:       url,
		Favicon:   favicon,
		VisitedAt: now,
	}

	if idx := s.entryIndex(url); idx >= 0 {
		s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	}
	s.entries = append([]Entry{entry}, s.entries...)
	s.trim()
	return true
}

// Retitle replaces the placeholder title of the entry for url, keeping its
// position, id and visit time. Entries for other urls are untouched.
func (s *Store) Retitle(url, title string) bool {
	idx := s.entryIndex(url)
	if idx < 0 || title == "" {
		return false
	}
	e := s.entries[idx]
	e.Title = title
	s.entries[idx] = e
	return true
}

// ToggleBookmark removes the bookmark for src.URL if present, otherwise adds
// one at the front. It reports whether the page is bookmarked afterwards and
// whether anything changed.
func (s *Store) ToggleBookmark(src Source) (bookmarked, changed bool) {
	if navigation.IsBlank(src.URL) {
		return false, false
	}

	if idx := s.bookmarkIndex(src.URL); idx >= 0 {
		s.bookmarks = append(s.bookmarks[:idx], s.bookmarks[idx+1:]...)
		return false, true
	}

	now := s.now()
	s.bookmarks = append([]Bookmark{{
		ID:      s.nextID(now),
		Title:   src.Title,
		URL:     src.URL,
		Favicon: src.Favicon,
		AddedAt: now,
	}}, s.bookmarks...)
	return true, true
}

// IsBookmarked reports whether url has a bookmark.
func (s *Store) IsBookmarked(url string) bool {
	return s.bookmarkIndex(url) >= 0
}

// Entries returns a copy of the history, most recent first.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Bookmarks returns a copy of the bookmarks, most recent first.
func (s *Store) Bookmarks() []Bookmark {
	out := make([]Bookmark, len(s.bookmarks))
	copy(out, s.bookmarks)
	return out
}

func (s *Store) entryIndex(url string) int {
	for i := range s.entries {
		if s.entries[i].URL == url {
			return i
		}
	}
	return -1
}

func (s *Store) bookmarkIndex(url string) int {
	for i := range s.bookmarks {
		if s.bookmarks[i].URL == url {
			return i
		}
	}
	return -1
}

// nextID returns a millisecond timestamp, bumped when it would not be
// strictly increasing.
func (s *Store) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) observeID(id int64) {
	if id > s.lastID {
		s.lastID = id
	}
}

func (s *Store) trim() {
	if s.limit > 0 && len(s.entries) > s.limit {
		s.entries = s.entries[:s.limit]
	}
}
