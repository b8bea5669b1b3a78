package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		// Get request size
		reqSize := c.Request.ContentLength
		if reqSize < 0 {
			reqSize = 0
		}

		// Process request
		c.Next()

		// Route template keeps session ids out of the label set
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		duration := time.Since(start)
		status := strconv.Itoa(c.Writer.Status())
		respSize := int64(c.Writer.Size())
		if respSize < 0 {
			respSize = 0
		}

		metrics.RecordHTTPRequest(method, path, status, duration, reqSize, respSize)
	}
}

// Timer measures how long a page load takes
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// NewTimer starts a load timer. A nil metrics collector yields a timer
// whose Stop does nothing.
func NewTimer(metrics *Metrics) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
	}
}

// Stop records the load outcome ("loaded", "failed", "cancelled")
func (t *Timer) Stop(outcome string) time.Duration {
	if t == nil {
		return 0
	}
	duration := time.Since(t.start)
	if t.metrics != nil {
		t.metrics.RecordLoadFinished(outcome, duration)
	}
	return duration
}
