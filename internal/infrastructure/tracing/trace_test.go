package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGeneratorPrefixAndOrder(t *testing.T) {
	g := NewGenerator()

	a := g.WithPrefix(TracePrefix)
	b := g.WithPrefix(TracePrefix)
	assert.True(t, strings.HasPrefix(a, "trc_"))
	assert.Len(t, a, len("trc_")+26)
	assert.Less(t, a, b, "ids from one generator sort by creation")
}

func TestStartSpanInheritsTrace(t *testing.T) {
	tracer := New("test", nil)

	root, ctx := tracer.StartSpan(context.Background(), "root")
	assert.NotEmpty(t, root.TraceID)
	assert.Empty(t, root.ParentID)
	assert.Equal(t, root.TraceID, GetTraceID(ctx))
	assert.Equal(t, root.SpanID, GetSpanID(ctx))

	child, _ := tracer.StartSpan(ctx, "child")
	assert.Equal(t, root.TraceID, child.TraceID)
	assert.Equal(t, root.SpanID, child.ParentID)
	assert.NotEqual(t, root.SpanID, child.SpanID)
}

func TestFinishLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tracer := New("test", zap.New(core))

	span, ctx := tracer.StartSpan(context.Background(), "ok")
	span.SetTag("tab", "1")
	tracer.Finish(span)

	failed, _ := tracer.StartSpan(ctx, "broken")
	failed.SetError(errors.New("boom"))
	tracer.Finish(failed)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "1", entries[0].ContextMap()["tab"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, string(span.SpanID), entries[1].ContextMap()["parent_id"])
}

func TestFields(t *testing.T) {
	assert.Nil(t, Fields(context.Background()))

	ctx := WithTraceID(context.Background(), "trc_x", "spn_y")
	fields := Fields(ctx)
	require.Len(t, fields, 2)
	assert.Equal(t, "trc_x", fields[0].String)
	assert.Equal(t, "spn_y", fields[1].String)
	assert.Equal(t, "[trace:trc_x span:spn_y]", FormatTrace("trc_x", "spn_y"))
}

func TestHTTPMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tracer := New("test", zap.New(core))

	var seen TraceID
	router := gin.New()
	router.Use(HTTPMiddleware(tracer))
	router.GET("/sessions/:id", func(c *gin.Context) {
		seen = GetTraceID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	t.Run("new trace", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/sessions/abc", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get(TraceHeader), "trc_"))
		assert.True(t, strings.HasPrefix(w.Header().Get(SpanHeader), "spn_"))
		assert.Equal(t, TraceID(w.Header().Get(TraceHeader)), seen)
	})

	t.Run("propagated trace", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/sessions/abc", nil)
		req.Header.Set(TraceHeader, "trc_upstream")
		req.Header.Set(SpanHeader, "spn_upstream")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "trc_upstream", w.Header().Get(TraceHeader))
		assert.NotEqual(t, "spn_upstream", w.Header().Get(SpanHeader))
	})

	entries := logs.FilterMessage("span completed").All()
	require.Len(t, entries, 2)
	fields := entries[1].ContextMap()
	assert.Equal(t, "/sessions/:id", fields["operation"])
	assert.Equal(t, "abc", fields["session"])
	assert.Equal(t, "204", fields["http.status"])
	assert.Equal(t, "spn_upstream", fields["parent_id"])
}
