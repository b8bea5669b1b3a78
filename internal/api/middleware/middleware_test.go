package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Fazirechic21212211212121/Richa-browser/internal/infrastructure/tracing"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func serve(router *gin.Engine, method, path, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if remote != "" {
		req.RemoteAddr = remote
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{
			name:       "any origin",
			method:     "POST",
			origin:     "http://localhost:3000",
			wantStatus: http.StatusCreated,
			wantAllow:  "*",
		},
		{
			name:       "preflight request",
			method:     "OPTIONS",
			origin:     "http://localhost:3000",
			wantStatus: http.StatusNoContent,
			wantAllow:  "*",
		},
		{
			name:       "no origin header",
			method:     "POST",
			wantStatus: http.StatusCreated,
		},
		{
			name:       "listed origin",
			origins:    []string{"https://richa.example"},
			method:     "POST",
			origin:     "https://richa.example",
			wantStatus: http.StatusCreated,
			wantAllow:  "https://richa.example",
		},
		{
			name:       "unlisted origin",
			origins:    []string{"https://richa.example"},
			method:     "POST",
			origin:     "http://evil.example",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.Use(CORS(tt.origins))
			router.POST("/sessions", func(c *gin.Context) {
				c.JSON(http.StatusCreated, gin.H{"id": "x"})
			})

			req := httptest.NewRequest(tt.method, "/sessions", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
				req.Header.Set("Access-Control-Request-Method", "POST")
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllow, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORSExposesTraceHeaders(t *testing.T) {
	router := setupTestRouter()
	router.Use(CORS(nil))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	exposed := strings.ToLower(w.Header().Get("Access-Control-Expose-Headers"))
	assert.Contains(t, exposed, "x-trace-id")
	assert.Contains(t, exposed, "x-span-id")
}

func TestOriginAllowed(t *testing.T) {
	listed := []string{"https://richa.example"}

	assert.True(t, OriginAllowed(nil, "http://anything.example"))
	assert.True(t, OriginAllowed([]string{"*"}, "http://anything.example"))
	assert.True(t, OriginAllowed(listed, ""))
	assert.True(t, OriginAllowed(listed, "https://richa.example"))
	assert.False(t, OriginAllowed(listed, "http://evil.example"))
}

func TestRateLimit(t *testing.T) {
	router := setupTestRouter()
	router.Use(RateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 2}))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	// burst capacity first
	for i := 0; i < 2; i++ {
		w := serve(router, "GET", "/health", "192.168.1.1:1234")
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(router, "GET", "/health", "192.168.1.1:1234").Code)

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, serve(router, "GET", "/health", "192.168.1.2:1234").Code)
}

func TestRateLimitForgetsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	router := setupTestRouter()
	router.Use(rateLimit(RateLimitConfig{RequestsPerSecond: 0, Burst: 1, IdleTTL: time.Minute}, clock))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	// zero refill rate: one request, then limited until forgotten
	assert.Equal(t, http.StatusOK, serve(router, "GET", "/health", "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, "GET", "/health", "10.0.0.1:1").Code)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, http.StatusOK, serve(router, "GET", "/health", "10.0.0.1:1").Code)
}

func TestGlobalRateLimit(t *testing.T) {
	router := setupTestRouter()
	router.Use(GlobalRateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 2}))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(router, "GET", "/health", "192.168.1.1:1").Code)
	assert.Equal(t, http.StatusOK, serve(router, "GET", "/health", "192.168.1.2:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, "GET", "/health", "192.168.1.3:1").Code)
}

func TestDefaultRateLimitConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()

	assert.Equal(t, 100, cfg.RequestsPerSecond)
	assert.Equal(t, 200, cfg.Burst)
	assert.Equal(t, 10*time.Minute, cfg.IdleTTL)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	router := setupTestRouter()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	serve(router, "GET", "/ok", "")
	serve(router, "GET", "/missing", "")
	serve(router, "GET", "/boom", "")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "/boom", entries[2].ContextMap()["path"])
}

func TestRequestLoggerTraceFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	router := setupTestRouter()
	router.Use(tracing.HTTPMiddleware(tracing.New("test", nil)))
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, "GET", "/ok", "")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, w.Header().Get(tracing.TraceHeader), entries[0].ContextMap()["trace_id"])
}

func BenchmarkRateLimit(b *testing.B) {
	router := setupTestRouter()
	router.Use(RateLimit(DefaultRateLimitConfig()))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "192.168.1.1:1234"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
}
