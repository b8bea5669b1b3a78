// Package http provides the REST surface of the browser backend.
//
// Every browser window is a session addressed by uuid. Intents map to POST
// routes under /sessions/:id and answer with the resulting view state, so a
// front-end can render straight from the response.
//
// Endpoints:
//   - Health: / and /health
//   - Catalog: /catalog/popular, /catalog/search
//   - Sessions: /sessions, /sessions/:id
//   - Tabs: /sessions/:id/tabs, /sessions/:id/tabs/:tab, /sessions/:id/tabs/:tab/activate
//   - Navigation: /sessions/:id/navigate, /search, /home, /refresh
//   - Bookmarks and history: /sessions/:id/bookmark, /bookmarks, /history
//   - Address bar: /sessions/:id/suggestions
//   - Frame reports: /sessions/:id/viewport
//
// Example Usage:
//
//	handlers := http.NewHandlers(sessions, metrics, logger, 5)
//	router.POST("/sessions/:id/navigate", handlers.Navigate)
package http
