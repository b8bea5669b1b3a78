// Package session drives browser windows.
//
// A Controller owns one window: its tabs, its visit history and its
// bookmarks. User intents (new tab, close, switch, navigate, search, home,
// refresh, bookmark) mutate that state and point the viewport adapter at the
// active page. The adapter answers asynchronously through the
// viewport.Reporter methods; every answer carries the tab id, url and load
// generation it was issued for and is dropped when the tab has moved on.
//
// Lifecycle per tab:
//
//	Blank → Loading → Loaded
//	Blank → Loading → Error
//
// Loaded and Error re-enter Loading on navigate or refresh; GoHome returns
// to Blank.
//
// A Manager keeps the open windows keyed by uuid.
//
// Example Usage:
//
//	manager := session.NewManager(cfg, cat, adapter, logger)
//	win := manager.Create()
//	win.Navigate("github.com")
//	events, cancel := win.Subscribe(0)
//	defer cancel()
package session
