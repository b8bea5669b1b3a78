package session

import (
	"sync"

	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/navigation"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/tab"
)

// EventKind says what kind of change produced an Event
type EventKind string

const (
	EventKindTabs       EventKind = "tabs"
	EventKindNavigation EventKind = "navigation"
	EventKindViewport   EventKind = "viewport"
	EventKindBookmark   EventKind = "bookmark"
)

// DefaultEventBuffer is the subscription buffer used when none is given.
const DefaultEventBuffer = 16

// View is the state the browser chrome renders, derived from the active tab.
type View struct {
	Tabs        []tab.Tab `json:"tabs"`
	ActiveTabID tab.ID    `json:"activeTabId"`

	URL         string    `json:"url"`
	AddressText string    `json:"addressText"`
	Title       string    `json:"title"`
	Favicon     string    `json:"favicon,omitempty"`
	IsLoading   bool      `json:"isLoading"`
	State       tab.State `json:"state"`
	Error       string    `json:"error,omitempty"`

	IsBookmarked   bool `json:"isBookmarked"`
	ShowNewTabPage bool `json:"showNewTabPage"`
	IsSecure       bool `json:"isSecure"`

	// No back/forward stack exists; both stay false.
	CanGoBack    bool `json:"canGoBack"`
	CanGoForward bool `json:"canGoForward"`
}

// Event is published to subscribers after every change to the view
type Event struct {
	Kind EventKind `json:"kind"`
	View View      `json:"view"`
}

// view derives the View. Callers hold c.mu.
func (c *Controller) view() View {
	active := c.tabs.Active()
	blank := navigation.IsBlank(active.URL)

	v := View{
		Tabs:           c.tabs.List(),
		ActiveTabID:    active.ID,
		URL:            active.URL,
		Title:          active.Title,
		Favicon:        active.Favicon,
		IsLoading:      active.IsLoading,
		State:          active.State,
		Error:          active.Error,
		ShowNewTabPage: blank,
	}
	if !blank {
		v.AddressText = active.URL
		v.IsBookmarked = c.history.IsBookmarked(active.URL)
		v.IsSecure = navigation.IsSecure(active.URL)
	}
	return v
}

// Subscribe returns a channel receiving an Event after every change and a
// func ending the subscription. Slow subscribers miss events rather than
// block the window; each event carries the full view, so the next one
// catches them up.
func (c *Controller) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	ch := make(chan Event, buffer)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

// publish sends the current view to every subscriber without blocking.
// Callers hold c.mu.
func (c *Controller) publish(kind EventKind) {
	if len(c.subs) == 0 {
		return
	}
	ev := Event{Kind: kind, View: c.view()}
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
