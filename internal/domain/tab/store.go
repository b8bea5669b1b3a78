package tab

import (
	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/navigation"
)

// ID identifies a tab within one session. IDs are never reused.
type ID int

// State is the display state of a tab
type State string

const (
	StateBlank   State = "blank"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateError   State = "error"
)

// DefaultTitle is shown for tabs that have no page loaded.
const DefaultTitle = "New Tab"

// Tab represents one browsing context
type Tab struct {
	ID        ID     `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Favicon   string `json:"favicon,omitempty"`
	IsLoading bool   `json:"isLoading"`
	State     State  `json:"state"`
	Error     string `json:"error,omitempty"`

	// Generation is bumped on every load so late viewport reports can be
	// told apart from the current one.
	Generation uint64 `json:"generation"`
}

// Patch holds the fields to merge into a tab. Nil fields are left alone.
type Patch struct {
	Title      *string
	URL        *string
	Favicon    *string
	IsLoading  *bool
	State      *State
	Error      *string
	Generation *uint64
}

// Store is an ordered list of tabs with exactly one active tab.
//
// The store is never empty. It is not safe for concurrent use; the session
// controller serializes every call.
type Store struct {
	tabs     []Tab
	active   ID
	lastID   ID
	newTitle string
}

// NewStore creates a store holding a single active blank tab.
func NewStore(newTabTitle string) *Store {
	if newTabTitle == "" {
		newTabTitle = DefaultTitle
	}
	s := &Store{newTitle: newTabTitle}
	s.active = s.Create()
	return s
}

// Create appends a blank tab and returns its id. The active tab is unchanged.
func (s *Store) Create() ID {
	s.lastID++
	s.tabs = append(s.tabs, Tab{
		ID:    s.lastID,
		Title: s.newTitle,
		URL:   navigation.BlankURL,
		State: StateBlank,
	})
	s.ensureActive()
	return s.lastID
}

// Close removes a tab. Closing the only tab or an unknown id is a no-op.
//
// When the active tab is closed the tab that slides into its index becomes
// active; if it was the last tab, the previous one does.
func (s *Store) Close(id ID) bool {
	idx := s.index(id)
	if idx < 0 || len(s.tabs) == 1 {
		return false
	}

	s.tabs = append(s.tabs[:idx], s.tabs[idx+1:]...)

	if s.active == id {
		switch {
		case idx < len(s.tabs):
			s.active = s.tabs[idx].ID
		case idx-1 >= 0:
			s.active = s.tabs[idx-1].ID
		default:
			s.active = s.tabs[0].ID
		}
	}

	s.ensureActive()
	return true
}

// SetActive activates a tab. Unknown ids are ignored.
func (s *Store) SetActive(id ID) bool {
	if s.index(id) < 0 {
		return false
	}
	s.active = id
	return true
}

// Update merges p into the tab with the given id.
func (s *Store) Update(id ID, p Patch) bool {
	idx := s.index(id)
	if idx < 0 {
		return false
	}

	t := &s.tabs[idx]
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.URL != nil {
		t.URL = *p.URL
	}
	if p.Favicon != nil {
		t.Favicon = *p.Favicon
	}
	if p.IsLoading != nil {
		t.IsLoading = *p.IsLoading
	}
	if p.State != nil {
		t.State = *p.State
	}
	if p.Error != nil {
		t.Error = *p.Error
	}
	if p.Generation != nil {
		t.Generation = *p.Generation
	}
	return true
}

// Get returns a copy of the tab with the given id.
func (s *Store) Get(id ID) (Tab, bool) {
	idx := s.index(id)
	if idx < 0 {
		return Tab{}, false
	}
	return s.tabs[idx], true
}

// Active returns a copy of the active tab.
func (s *Store) Active() Tab {
	t, _ := s.Get(s.active)
	return t
}

// ActiveID returns the id of the active tab.
func (s *Store) ActiveID() ID {
	return s.active
}

// List returns a copy of all tabs in display order.
func (s *Store) List() []Tab {
	out := make([]Tab, len(s.tabs))
	copy(out, s.tabs)
	return out
}

// Len returns the number of open tabs.
func (s *Store) Len() int {
	return len(s.tabs)
}

func (s *Store) index(id ID) int {
	for i := range s.tabs {
		if s.tabs[i].ID == id {
			return i
		}
	}
	return -1
}

// ensureActive repairs a dangling active id.
func (s *Store) ensureActive() {
	if len(s.tabs) > 0 && s.index(s.active) < 0 {
		s.active = s.tabs[0].ID
	}
}
