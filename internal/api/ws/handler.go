package ws

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Fazirechic21212211212121/Richa-browser/internal/api/middleware"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/session"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/tab"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/infrastructure/monitoring"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// snapshot marks the first view sent on a connection
	snapshot session.EventKind = "snapshot"
)

// Message is sent by clients
type Message struct {
	Type  string `json:"type"`
	Input string `json:"input,omitempty"`
	TabID tab.ID `json:"tab_id,omitempty"`
}

// Handler manages WebSocket connections
type Handler struct {
	sessions *session.Manager
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler
func NewHandler(sessions *session.Manager, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		sessions: sessions,
		metrics:  metrics,
		logger:   logger.Named("ws"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// WithOrigins restricts upgrades to the origins the CORS middleware allows
func (h *Handler) WithOrigins(origins []string) *Handler {
	h.upgrader.CheckOrigin = func(r *http.Request) bool {
		return middleware.OriginAllowed(origins, r.Header.Get("Origin"))
	}
	return h
}

// HandleConnection handles WebSocket upgrade and streams the window
func (h *Handler) HandleConnection(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	events, unsubscribe := s.Subscribe(session.DefaultEventBuffer)
	defer unsubscribe()

	done := make(chan struct{})
	defer close(done)
	incoming := h.readLoop(conn, done)

	if err := h.sendView(conn, snapshot, s.View()); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				// window closed
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
					time.Now().Add(writeWait))
				return
			}
			if err := h.sendView(conn, ev.Kind, ev.View); err != nil {
				return
			}

		case msg, ok := <-incoming:
			if !ok {
				return
			}
			if err := h.handle(conn, s, msg); err != nil {
				return
			}

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readLoop decodes client messages until the connection fails
func (h *Handler) readLoop(conn *websocket.Conn, done <-chan struct{}) <-chan Message {
	out := make(chan Message)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go func() {
		defer close(out)
		for {
			var msg Message
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Debug("WebSocket read error", zap.Error(err))
				}
				return
			}
			if h.metrics != nil {
				h.metrics.RecordWSMessage("in", msg.Type)
			}
			select {
			case out <- msg:
			case <-done:
				return
			}
		}
	}()

	return out
}

// handle applies one client message. Views produced by intents reach the
// client through the subscription.
func (h *Handler) handle(conn *websocket.Conn, s *session.Session, msg Message) error {
	switch msg.Type {
	case "ping":
		return h.send(conn, "pong", map[string]interface{}{"type": "pong"})
	case "new_tab":
		s.NewTab()
	case "close_tab":
		s.CloseTab(msg.TabID)
	case "switch_tab":
		s.SwitchTab(msg.TabID)
	case "navigate":
		if _, ok := s.Navigate(msg.Input); !ok {
			return h.sendError(conn, "nothing to navigate to")
		}
	case "search":
		if _, ok := s.Search(msg.Input); !ok {
			return h.sendError(conn, "query is empty")
		}
	case "home":
		s.GoHome()
	case "refresh":
		s.Refresh()
	case "bookmark":
		s.ToggleBookmark()
	default:
		return h.sendError(conn, "unknown message type")
	}
	return nil
}

func (h *Handler) sendView(conn *websocket.Conn, kind session.EventKind, view session.View) error {
	return h.send(conn, "view", map[string]interface{}{
		"type":      "view",
		"kind":      kind,
		"view":      view,
		"timestamp": time.Now().Unix(),
	})
}

func (h *Handler) send(conn *websocket.Conn, msgType string, data interface{}) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(data); err != nil {
		h.logger.Debug("WebSocket write failed", zap.Error(err))
		return err
	}
	if h.metrics != nil {
		h.metrics.RecordWSMessage("out", msgType)
	}
	return nil
}

func (h *Handler) sendError(conn *websocket.Conn, msg string) error {
	return h.send(conn, "error", map[string]interface{}{
		"type":    "error",
		"message": msg,
	})
}
