package session

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/catalog"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/history"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/viewport"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/infrastructure/monitoring"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session not found")

// ManagerConfig holds settings shared by every window
type ManagerConfig struct {
	NewTabTitle  string
	SearchURL    string
	HistoryLimit int
	// Seed fills new windows with the catalog's bookmarks and history.
	Seed bool
}

// Session is one browser window
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	*Controller `json:"-"`
	seq         int64
}

// Info summarises a window for listings
type Info struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Tabs      int       `json:"tabs"`
	ActiveURL string    `json:"active_url"`
}

// Stats contains manager statistics
type Stats struct {
	Active      int        `json:"active"`
	Created     int64      `json:"created"`
	LastCreated *time.Time `json:"last_created,omitempty"`
}

// Manager keeps the open browser windows
type Manager struct {
	sessions    sync.Map // id -> *Session
	cfg         ManagerConfig
	catalog     *catalog.Catalog
	adapter     viewport.Adapter
	logger      *zap.Logger
	metrics     *monitoring.Metrics
	mu          sync.RWMutex
	created     int64
	lastCreated *time.Time
}

// NewManager creates a session manager. The catalog may be nil when
// seeding is off.
func NewManager(cfg ManagerConfig, cat *catalog.Catalog, adapter viewport.Adapter, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		cfg:     cfg,
		catalog: cat,
		adapter: adapter,
		logger:  logger.Named("session"),
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Catalog returns the catalog windows are seeded from
func (m *Manager) Catalog() *catalog.Catalog {
	return m.catalog
}

// Create opens a new window
func (m *Manager) Create() *Session {
	hist := history.NewStore(history.WithLimit(m.cfg.HistoryLimit))
	if m.cfg.Seed && m.catalog != nil {
		hist.Seed(m.catalog.SeedEntries(), m.catalog.SeedBookmarks())
	}

	id := uuid.New().String()
	ctrl := NewController(Config{
		NewTabTitle: m.cfg.NewTabTitle,
		SearchURL:   m.cfg.SearchURL,
	}, hist, m.adapter, m.logger.With(zap.String("session", id))).WithMetrics(m.metrics)

	now := time.Now()
	m.mu.Lock()
	m.created++
	seq := m.created
	m.lastCreated = &now
	m.mu.Unlock()

	s := &Session{ID: id, CreatedAt: now, Controller: ctrl, seq: seq}
	m.sessions.Store(id, s)

	if m.metrics != nil {
		m.metrics.IncSessionsTotal()
		m.metrics.SetSessionsActive(m.count())
	}
	m.logger.Info("Session created", zap.String("id", id))
	return s
}

// Get returns an open window
func (m *Manager) Get(id string) (*Session, error) {
	val, ok := m.sessions.Load(id)
	if !ok {
		return nil, ErrNotFound
	}
	return val.(*Session), nil
}

// List returns all open windows, oldest first
func (m *Manager) List() []Info {
	var sessions []*Session
	m.sessions.Range(func(_, value interface{}) bool {
		sessions = append(sessions, value.(*Session))
		return true
	})
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].seq < sessions[j].seq
	})

	out := make([]Info, 0, len(sessions))
	for _, s := range sessions {
		view := s.View()
		out = append(out, Info{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			Tabs:      len(view.Tabs),
			ActiveURL: view.URL,
		})
	}
	return out
}

// Close shuts a window, cancelling its loads and subscriptions
func (m *Manager) Close(id string) error {
	val, ok := m.sessions.LoadAndDelete(id)
	if !ok {
		return ErrNotFound
	}
	val.(*Session).Controller.Close()

	if m.metrics != nil {
		m.metrics.SetSessionsActive(m.count())
	}
	m.logger.Info("Session closed", zap.String("id", id))
	return nil
}

// CloseAll shuts every window
func (m *Manager) CloseAll() {
	m.sessions.Range(func(key, _ interface{}) bool {
		_ = m.Close(key.(string))
		return true
	})
}

// Stats returns manager statistics
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	created := m.created
	lastCreated := m.lastCreated
	m.mu.RUnlock()

	return Stats{
		Active:      m.count(),
		Created:     created,
		LastCreated: lastCreated,
	}
}

func (m *Manager) count() int {
	var total int
	m.sessions.Range(func(_, _ interface{}) bool {
		total++
		return true
	})
	return total
}
