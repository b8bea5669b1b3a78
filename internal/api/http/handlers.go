package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/catalog"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/session"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/tab"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/viewport"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/infrastructure/monitoring"
)

// DefaultSuggestionLimit matches the address bar's dropdown size
const DefaultSuggestionLimit = 5

// Handlers contains all HTTP handlers
type Handlers struct {
	sessions        *session.Manager
	catalog         *catalog.Catalog
	metrics         *monitoring.Metrics
	logger          *zap.Logger
	suggestionLimit int
}

// NewHandlers creates a new handler set
func NewHandlers(sessions *session.Manager, metrics *monitoring.Metrics, logger *zap.Logger, suggestionLimit int) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	if suggestionLimit <= 0 {
		suggestionLimit = DefaultSuggestionLimit
	}
	return &Handlers{
		sessions:        sessions,
		catalog:         sessions.Catalog(),
		metrics:         metrics,
		logger:          logger.Named("handlers"),
		suggestionLimit: suggestionLimit,
	}
}

// NavigateRequest is the body of POST /sessions/:id/navigate
type NavigateRequest struct {
	Input string `json:"input" binding:"required"`
}

// SearchRequest is the body of POST /sessions/:id/search
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// ViewportReport is the body of POST /sessions/:id/viewport, sent by a
// front-end frame for the load it was handed.
type ViewportReport struct {
	TabID      tab.ID `json:"tab_id" binding:"required"`
	Generation uint64 `json:"generation" binding:"required"`
	URL        string `json:"url" binding:"required"`
	Event      string `json:"event" binding:"required"`
	Value      string `json:"value"`
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Richa Browser",
		"version": "0.1.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	resp := gin.H{
		"status":   "healthy",
		"sessions": h.sessions.Stats(),
	}
	if h.metrics != nil {
		resp["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, resp)
}

// PopularSites lists the new-tab page tiles
func (h *Handlers) PopularSites(c *gin.Context) {
	sites := []catalog.Site{}
	if h.catalog != nil {
		sites = append(sites, h.catalog.Popular()...)
	}
	c.JSON(http.StatusOK, gin.H{"sites": sites})
}

// SearchCatalog returns mock search results for ?q=
func (h *Handlers) SearchCatalog(c *gin.Context) {
	query := c.Query("q")
	if err := ValidateLength(query, "q", MaxQueryLength); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := []catalog.SearchResult{}
	if h.catalog != nil {
		results = append(results, h.catalog.Search(query)...)
	}
	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
	})
}

// CreateSession opens a browser window
func (h *Handlers) CreateSession(c *gin.Context) {
	s := h.sessions.Create()
	c.JSON(http.StatusCreated, gin.H{
		"id":         s.ID,
		"created_at": s.CreatedAt,
		"view":       s.View(),
	})
}

// ListSessions lists open windows
func (h *Handlers) ListSessions(c *gin.Context) {
	sessions := h.sessions.List()
	if sessions == nil {
		sessions = []session.Info{}
	}
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"stats":    h.sessions.Stats(),
	})
}

// GetSession returns the view of a window
func (h *Handlers) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":   s.ID,
		"view": s.View(),
	})
}

// CloseSession closes a window
func (h *Handlers) CloseSession(c *gin.Context) {
	id := c.Param("id")
	if err := ValidateSessionID(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.sessions.Close(id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      id,
	})
}

// NewTab opens and activates a blank tab
func (h *Handlers) NewTab(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id := s.NewTab()
	c.JSON(http.StatusCreated, gin.H{
		"tab_id": id,
		"view":   s.View(),
	})
}

// CloseTab closes a tab; the last tab stays open
func (h *Handlers) CloseTab(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.tabID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": s.CloseTab(id),
		"view":    s.View(),
	})
}

// ActivateTab switches to a tab
func (h *Handlers) ActivateTab(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.tabID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": s.SwitchTab(id),
		"view":    s.View(),
	})
}

// Navigate loads address-bar input in the active tab
func (h *Handlers) Navigate(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "input is required"})
		return
	}
	if err := ValidateLength(req.Input, "input", MaxInputLength); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, navigated := s.Navigate(req.Input)
	if !navigated {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to navigate to"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url":  url,
		"view": s.View(),
	})
}

// Search loads the search page for a query in the active tab
func (h *Handlers) Search(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	if err := ValidateLength(req.Query, "query", MaxQueryLength); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, searched := s.Search(req.Query)
	if !searched {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is empty"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url":  url,
		"view": s.View(),
	})
}

// Home shows the new-tab page in the active tab
func (h *Handlers) Home(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.GoHome()
	c.JSON(http.StatusOK, gin.H{"view": s.View()})
}

// Refresh reloads the active tab
func (h *Handlers) Refresh(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"refreshed": s.Refresh(),
		"view":      s.View(),
	})
}

// ToggleBookmark bookmarks or un-bookmarks the active tab
func (h *Handlers) ToggleBookmark(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bookmarked": s.ToggleBookmark(),
		"view":       s.View(),
	})
}

// History lists visited pages, most recent first
func (h *Handlers) History(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": s.History()})
}

// Bookmarks lists bookmarks, most recent first
func (h *Handlers) Bookmarks(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": s.Bookmarks()})
}

// Suggestions returns address-bar suggestions for ?q=
func (h *Handlers) Suggestions(c *gin.Context) {
	if _, ok := h.session(c); !ok {
		return
	}

	query := c.Query("q")
	if err := ValidateLength(query, "q", MaxQueryLength); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestions := []catalog.SearchResult{}
	if h.catalog != nil {
		suggestions = append(suggestions, h.catalog.Suggest(query, h.suggestionLimit)...)
	}
	c.JSON(http.StatusOK, gin.H{
		"query":       query,
		"suggestions": suggestions,
	})
}

// Viewport accepts a report from a front-end frame. Reports for loads that
// have been superseded are accepted and ignored.
func (h *Handlers) Viewport(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodySize)
	var report ViewportReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid viewport report: " + err.Error()})
		return
	}

	req := viewport.Request{
		TabID:      report.TabID,
		URL:        report.URL,
		Generation: report.Generation,
	}
	if err := s.Report(req, report.Event, report.Value); err != nil {
		h.logger.Debug("Rejected viewport report", zap.String("session", s.ID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": s.View()})
}

// session resolves :id, writing the error response itself on failure
func (h *Handlers) session(c *gin.Context) (*session.Session, bool) {
	id := c.Param("id")
	if err := ValidateSessionID(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	s, err := h.sessions.Get(id)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return s, true
}

func (h *Handlers) tabID(c *gin.Context) (tab.ID, bool) {
	id, err := ParseTabID(c.Param("tab"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	return id, true
}

func (h *Handlers) fail(c *gin.Context, err error) {
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("Request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
