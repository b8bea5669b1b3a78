package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/history"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/navigation"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/tab"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/viewport"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/infrastructure/monitoring"
)

// ErrUnknownEvent is returned for viewport reports with an unrecognised kind.
var ErrUnknownEvent = errors.New("unknown viewport event")

// Viewport report kinds accepted by Report
const (
	EventLoading  = "loading"
	EventTitle    = "title"
	EventFavicon  = "favicon"
	EventFailed   = "failed"
	EventDocument = "document"
)

// Config holds per-window settings
type Config struct {
	NewTabTitle string
	SearchURL   string
}

// load is an in-flight viewport load
type load struct {
	req    viewport.Request
	cancel context.CancelFunc
	timer  *monitoring.Timer
}

// Controller owns the tabs, history and bookmarks of one browser window and
// is the only thing allowed to mutate them. Every method is safe for
// concurrent use; viewport reports may arrive on any goroutine.
type Controller struct {
	mu         sync.Mutex
	tabs       *tab.Store
	history    *history.Store
	normalizer *navigation.Normalizer
	adapter    viewport.Adapter
	newTitle   string
	loads      map[tab.ID]*load
	subs       map[int]chan Event
	nextSub    int
	closed     bool
	logger     *zap.Logger
	metrics    *monitoring.Metrics
}

// NewController creates a window with one blank tab. A nil history starts
// empty; a nil adapter starts nothing on navigation.
func NewController(cfg Config, hist *history.Store, adapter viewport.Adapter, logger *zap.Logger) *Controller {
	if cfg.NewTabTitle == "" {
		cfg.NewTabTitle = tab.DefaultTitle
	}
	if hist == nil {
		hist = history.NewStore()
	}
	if adapter == nil {
		adapter = viewport.Remote{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Controller{
		tabs:       tab.NewStore(cfg.NewTabTitle),
		history:    hist,
		normalizer: navigation.NewNormalizer(cfg.SearchURL),
		adapter:    adapter,
		newTitle:   cfg.NewTabTitle,
		loads:      make(map[tab.ID]*load),
		subs:       make(map[int]chan Event),
		logger:     logger,
	}
}

// WithMetrics adds metrics tracking to the controller
func (c *Controller) WithMetrics(metrics *monitoring.Metrics) *Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = metrics
	if metrics != nil {
		metrics.AddTabs(c.tabs.Len())
	}
	return c
}

// NewTab opens a blank tab and activates it. A closed window opens nothing
// and returns 0.
func (c *Controller) NewTab() tab.ID {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0
	}
	id := c.tabs.Create()
	c.tabs.SetActive(id)
	if c.metrics != nil {
		c.metrics.AddTabs(1)
	}

	c.logger.Debug("Tab opened", zap.Int("tab", int(id)))
	c.publish(EventKindTabs)
	return id
}

// CloseTab closes a tab. Closing the last tab or an unknown tab does nothing.
func (c *Controller) CloseTab(id tab.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.tabs.Close(id) {
		return false
	}
	c.cancelLoad(id, "cancelled")
	if c.metrics != nil {
		c.metrics.AddTabs(-1)
	}

	c.logger.Debug("Tab closed", zap.Int("tab", int(id)), zap.Int("active", int(c.tabs.ActiveID())))
	c.publish(EventKindTabs)
	return true
}

// SwitchTab activates a tab. Unknown ids are ignored.
func (c *Controller) SwitchTab(id tab.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.tabs.SetActive(id) {
		return false
	}
	c.publish(EventKindTabs)
	return true
}

// Navigate normalizes input and loads it in the active tab. Empty input is
// ignored. Navigating to the blank page behaves like GoHome. It returns the
// URL being loaded.
func (c *Controller) Navigate(input string) (string, bool) {
	target := c.normalizer.Normalize(input)
	if target == "" {
		return "", false
	}
	if navigation.IsBlank(target) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			return "", false
		}
		c.goHome()
		return navigation.BlankURL, true
	}
	if !c.navigate(target, "url") {
		return "", false
	}
	return target, true
}

// Search loads the search page for query in the active tab.
func (c *Controller) Search(query string) (string, bool) {
	if strings.TrimSpace(query) == "" {
		return "", false
	}
	target := c.normalizer.SearchURL(query)
	if !c.navigate(target, "search") {
		return "", false
	}
	return target, true
}

func (c *Controller) navigate(target, kind string) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	id := c.tabs.ActiveID()
	ctx, req := c.beginLoad(id, target)
	c.history.RecordVisit(target, target)
	if c.metrics != nil {
		c.metrics.RecordNavigation(kind)
	}
	c.logger.Debug("Navigate", zap.Int("tab", int(id)), zap.String("url", target), zap.String("kind", kind))
	c.publish(EventKindNavigation)
	c.mu.Unlock()

	c.adapter.Load(ctx, req, c)
	return true
}

// GoHome shows the new-tab page in the active tab. History is untouched.
func (c *Controller) GoHome() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.goHome()
}

// goHome resets the active tab to the blank page under a fresh generation so
// late reports for the abandoned load are dropped. Callers hold c.mu.
func (c *Controller) goHome() {
	id := c.tabs.ActiveID()
	c.cancelLoad(id, "cancelled")

	current, _ := c.tabs.Get(id)
	gen := current.Generation + 1
	blank := navigation.BlankURL
	empty := ""
	notLoading := false
	state := tab.StateBlank
	c.tabs.Update(id, tab.Patch{
		URL:        &blank,
		Title:      &c.newTitle,
		Favicon:    &empty,
		IsLoading:  &notLoading,
		State:      &state,
		Error:      &empty,
		Generation: &gen,
	})

	c.publish(EventKindNavigation)
}

// Refresh reloads the active tab. A blank tab has nothing to reload.
func (c *Controller) Refresh() bool {
	c.mu.Lock()
	active := c.tabs.Active()
	if c.closed || navigation.IsBlank(active.URL) {
		c.mu.Unlock()
		return false
	}
	ctx, req := c.beginLoad(active.ID, active.URL)
	c.logger.Debug("Refresh", zap.Int("tab", int(active.ID)), zap.String("url", active.URL))
	c.publish(EventKindNavigation)
	c.mu.Unlock()

	c.adapter.Load(ctx, req, c)
	return true
}

// ToggleBookmark bookmarks or un-bookmarks the active tab's page and reports
// whether it is bookmarked afterwards.
func (c *Controller) ToggleBookmark() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	active := c.tabs.Active()
	if c.closed {
		return c.history.IsBookmarked(active.URL)
	}
	bookmarked, changed := c.history.ToggleBookmark(history.Source{
		Title:   active.Title,
		URL:     active.URL,
		Favicon: active.Favicon,
	})
	if !changed {
		return bookmarked
	}

	if c.metrics != nil {
		c.metrics.RecordBookmarkToggle(bookmarked)
	}
	c.publish(EventKindBookmark)
	return bookmarked
}

// beginLoad points a tab at url under a fresh generation and cancels the
// load it replaces. Callers hold c.mu and start the adapter after
// releasing it.
func (c *Controller) beginLoad(id tab.ID, url string) (context.Context, viewport.Request) {
	c.cancelLoad(id, "cancelled")

	current, _ := c.tabs.Get(id)
	gen := current.Generation + 1
	loading := true
	state := tab.StateLoading
	empty := ""
	c.tabs.Update(id, tab.Patch{
		URL:        &url,
		IsLoading:  &loading,
		State:      &state,
		Error:      &empty,
		Generation: &gen,
	})

	req := viewport.Request{TabID: id, URL: url, Generation: gen}
	ctx, cancel := context.WithCancel(context.Background())
	c.loads[id] = &load{req: req, cancel: cancel, timer: monitoring.NewTimer(c.metrics)}
	return ctx, req
}

// cancelLoad stops a tab's in-flight load, if any. Callers hold c.mu.
func (c *Controller) cancelLoad(id tab.ID, outcome string) {
	l, ok := c.loads[id]
	if !ok {
		return
	}
	delete(c.loads, id)
	l.cancel()
	l.timer.Stop(outcome)
}

// current reports whether req still describes the tab's load. Callers hold
// c.mu.
func (c *Controller) current(req viewport.Request, event string) bool {
	t, ok := c.tabs.Get(req.TabID)
	applied := ok && t.URL == req.URL && t.Generation == req.Generation
	if c.metrics != nil {
		c.metrics.RecordViewportReport(event, applied)
	}
	if !applied {
		c.logger.Debug("Stale viewport report dropped",
			zap.String("event", event),
			zap.Int("tab", int(req.TabID)),
			zap.String("url", req.URL),
			zap.Uint64("generation", req.Generation))
	}
	return applied
}

// OnLoadingChanged implements viewport.Reporter
func (c *Controller) OnLoadingChanged(req viewport.Request, loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.current(req, EventLoading) {
		return
	}

	t, _ := c.tabs.Get(req.TabID)
	patch := tab.Patch{IsLoading: &loading}
	var state tab.State
	switch {
	case loading:
		state = tab.StateLoading
		patch.State = &state
	case t.State == tab.StateLoading:
		state = tab.StateLoaded
		patch.State = &state
		c.cancelLoad(req.TabID, "loaded")
	}
	c.tabs.Update(req.TabID, patch)
	c.publish(EventKindViewport)
}

// OnTitleResolved implements viewport.Reporter
func (c *Controller) OnTitleResolved(req viewport.Request, title string) {
	title = viewport.SanitizeTitle(title)
	if title == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.current(req, EventTitle) {
		return
	}
	c.tabs.Update(req.TabID, tab.Patch{Title: &title})
	// the visit was recorded with the url as a placeholder title
	c.history.Retitle(req.URL, title)
	c.publish(EventKindViewport)
}

// OnFaviconResolved implements viewport.Reporter
func (c *Controller) OnFaviconResolved(req viewport.Request, favicon string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.current(req, EventFavicon) {
		return
	}
	c.tabs.Update(req.TabID, tab.Patch{Favicon: &favicon})
	c.publish(EventKindViewport)
}

// OnLoadFailed implements viewport.Reporter
func (c *Controller) OnLoadFailed(req viewport.Request, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.current(req, EventFailed) {
		return
	}

	notLoading := false
	state := tab.StateError
	c.tabs.Update(req.TabID, tab.Patch{
		IsLoading: &notLoading,
		State:     &state,
		Error:     &reason,
	})
	c.cancelLoad(req.TabID, "failed")

	c.logger.Warn("Page failed to load",
		zap.Int("tab", int(req.TabID)),
		zap.String("url", req.URL),
		zap.String("reason", reason))
	c.publish(EventKindViewport)
}

// Report applies a viewport report received as data, as sent by a remote
// frame. Value is "true"/"false" for loading, the title, the favicon, the
// failure reason, or the page document for EventDocument.
func (c *Controller) Report(req viewport.Request, event, value string) error {
	switch event {
	case EventLoading:
		c.OnLoadingChanged(req, value == "true")
	case EventTitle:
		c.OnTitleResolved(req, value)
	case EventFavicon:
		c.OnFaviconResolved(req, value)
	case EventFailed:
		if value == "" {
			value = viewport.BlockedReason
		}
		c.OnLoadFailed(req, value)
	case EventDocument:
		meta, err := viewport.ExtractMetadata(value, req.URL)
		if err != nil {
			return err
		}
		if meta.Title != "" {
			c.OnTitleResolved(req, meta.Title)
		}
		if meta.Favicon != "" {
			c.OnFaviconResolved(req, meta.Favicon)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
	return nil
}

// View returns the derived state of the window.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

// Tab returns a copy of one tab.
func (c *Controller) Tab(id tab.ID) (tab.Tab, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tabs.Get(id)
}

// History returns the visit history, most recent first.
func (c *Controller) History() []history.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Entries()
}

// Bookmarks returns the bookmarks, most recent first.
func (c *Controller) Bookmarks() []history.Bookmark {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Bookmarks()
}

// Close cancels every in-flight load and ends all subscriptions.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	for id := range c.loads {
		c.cancelLoad(id, "cancelled")
	}
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	if c.metrics != nil {
		c.metrics.AddTabs(-c.tabs.Len())
	}
}
