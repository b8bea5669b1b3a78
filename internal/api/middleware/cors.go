package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Fazirechic21212211212121/Richa-browser/internal/infrastructure/tracing"
)

const corsMaxAge = 12 * time.Hour

// CORS lets a browser front-end served from one of origins drive the API.
// An empty list or "*" allows any origin; the API carries no credentials.
// Other entries must be full http(s) origins. Trace headers are accepted
// and exposed so a front-end can correlate its calls with server logs.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Content-Length",
			"Accept",
			"Accept-Encoding",
			"Cache-Control",
			"X-Requested-With",
			tracing.TraceHeader,
			tracing.SpanHeader,
		},
		ExposeHeaders: []string{tracing.TraceHeader, tracing.SpanHeader},
		MaxAge:        corsMaxAge,
	}
	if AllowsAnyOrigin(origins) {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// AllowsAnyOrigin reports whether origins is a wildcard
func AllowsAnyOrigin(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// OriginAllowed applies the CORS origin rule to requests that bypass the
// CORS middleware, such as WebSocket upgrades. Requests without an Origin
// header come from non-browser clients and are allowed.
func OriginAllowed(origins []string, origin string) bool {
	if origin == "" || AllowsAnyOrigin(origins) {
		return true
	}
	for _, o := range origins {
		if o == origin {
			return true
		}
	}
	return false
}
