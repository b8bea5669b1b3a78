// Package ws streams browser window state over WebSocket.
//
// A client connects to /sessions/:id/stream and immediately receives a
// snapshot of the window. After that every change is pushed as it happens,
// whichever client caused it. Clients may also send intents over the same
// connection.
//
// Message Types (Client → Server):
//   - ping: Keep-alive ping
//   - new_tab, close_tab, switch_tab: Tab intents (tab_id where needed)
//   - navigate: Load input in the active tab
//   - search: Search for input in the active tab
//   - home, refresh, bookmark: Active tab intents
//
// Message Types (Server → Client):
//   - view: Window state, with the kind of change that produced it
//   - pong: Reply to ping
//   - error: Error occurred
//
// Example Usage:
//
//	handler := ws.NewHandler(sessions, metrics, logger)
//	router.GET("/sessions/:id/stream", handler.HandleConnection)
package ws
