package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	apihttp "github.com/Fazirechic21212211212121/Richa-browser/internal/api/http"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/api/middleware"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/api/ws"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/catalog"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/session"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/viewport"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/infrastructure/config"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/infrastructure/logging"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/infrastructure/monitoring"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/infrastructure/tracing"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	handler  http.Handler
	sessions *session.Manager
	adapter  viewport.Adapter
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance. A nil logger is built from
// cfg.Logging.
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		var err error
		logger, err = logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: cfg.Logging.Development,
			File:        cfg.Logging.File,
			MaxSizeMB:   cfg.Logging.MaxSizeMB,
			MaxBackups:  cfg.Logging.MaxBackups,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	logger.Info("Initializing browser server",
		zap.String("port", cfg.Server.Port),
		zap.String("search_url", cfg.Browser.SearchURL),
		zap.Bool("remote_viewport", cfg.Browser.RemoteViewport),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()
	metrics.Registry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	cat, err := catalog.Load(cfg.Browser.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("Catalog loaded",
		zap.String("path", cfg.Browser.CatalogPath),
		zap.Int("search_results", len(cat.SearchResults)),
		zap.Int("popular_sites", len(cat.PopularSites)),
	)

	var adapter viewport.Adapter
	if cfg.Browser.RemoteViewport {
		adapter = viewport.Remote{}
	} else {
		adapter = viewport.NewSimulated(viewport.SimulatedConfig{
			Delay:   cfg.Browser.LoadDelay,
			Blocked: cfg.Browser.BlockedHosts,
			Titles:  cat,
		}, logger.Logger)
	}

	sessions := session.NewManager(session.ManagerConfig{
		NewTabTitle:  cfg.Browser.NewTabTitle,
		SearchURL:    cfg.Browser.SearchURL,
		HistoryLimit: cfg.Browser.HistoryLimit,
		Seed:         cfg.Browser.Seed,
	}, cat, adapter, logger.Logger).WithMetrics(metrics)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracing.New("browser", logger.Logger)))
	router.Use(middleware.RequestLogger(logger.Logger))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))

		if cfg.RateLimit.GlobalRPS > 0 {
			global := middleware.RateLimitConfig{
				RequestsPerSecond: cfg.RateLimit.GlobalRPS,
				Burst:             cfg.RateLimit.GlobalBurst,
			}
			if global.Burst <= 0 {
				global.Burst = global.RequestsPerSecond
			}
			logger.Info("Global rate limit enabled",
				zap.Int("rps", global.RequestsPerSecond),
				zap.Int("burst", global.Burst),
			)
			router.Use(middleware.GlobalRateLimit(global))
		}
	}

	handlers := apihttp.NewHandlers(sessions, metrics, logger.Logger, cfg.Browser.SuggestionLimit)
	wsHandler := ws.NewHandler(sessions, metrics, logger.Logger).WithOrigins(cfg.Server.CORSOrigins)
	registerRoutes(router, handlers, wsHandler, metrics)

	var handler http.Handler = router
	if cfg.Server.Gzip {
		handler = compress(router)
	}

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		handler:  handler,
		sessions: sessions,
		adapter:  adapter,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

func registerRoutes(router *gin.Engine, handlers *apihttp.Handlers, wsHandler *ws.Handler, metrics *monitoring.Metrics) {
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Static content
	router.GET("/catalog/popular", handlers.PopularSites)
	router.GET("/catalog/search", handlers.SearchCatalog)

	// Windows
	router.POST("/sessions", handlers.CreateSession)
	router.GET("/sessions", handlers.ListSessions)

	win := router.Group("/sessions/:id")
	win.GET("", handlers.GetSession)
	win.DELETE("", handlers.CloseSession)

	// Tabs
	win.POST("/tabs", handlers.NewTab)
	win.DELETE("/tabs/:tab", handlers.CloseTab)
	win.POST("/tabs/:tab/activate", handlers.ActivateTab)

	// Navigation
	win.POST("/navigate", handlers.Navigate)
	win.POST("/search", handlers.Search)
	win.POST("/home", handlers.Home)
	win.POST("/refresh", handlers.Refresh)

	// Bookmarks, history and the address bar
	win.POST("/bookmark", handlers.ToggleBookmark)
	win.GET("/bookmarks", handlers.Bookmarks)
	win.GET("/history", handlers.History)
	win.GET("/suggestions", handlers.Suggestions)

	// Frame reports and push updates
	win.POST("/viewport", handlers.Viewport)
	win.GET("/stream", wsHandler.HandleConnection)
}

// compress gzips responses except WebSocket upgrades, which need the raw
// connection.
func compress(next http.Handler) http.Handler {
	gz := gzhttp.GzipHandler(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			next.ServeHTTP(w, r)
			return
		}
		gz.ServeHTTP(w, r)
	})
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Sessions returns the window manager
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return <-errCh
}

// Close closes every window and waits for in-flight simulated loads
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	s.sessions.CloseAll()
	if sim, ok := s.adapter.(*viewport.Simulated); ok {
		sim.Wait()
	}

	// Sync logger before exit
	_ = s.logger.Sync()
	return nil
}
