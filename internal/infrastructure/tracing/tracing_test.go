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

func TestStartSpanNestsUnderTrace(t *testing.T) {
	tracer := New(zap.NewNop())

	parent, ctx := tracer.StartSpan(context.Background(), "http")
	child, childCtx := tracer.StartSpan(ctx, "get_catalog")

	assert.Equal(t, parent.TraceID, child.TraceID)
	assert.Equal(t, parent.SpanID, child.ParentID)
	assert.Equal(t, child.SpanID, GetSpanID(childCtx))
	assert.True(t, strings.HasPrefix(string(parent.TraceID), "req_"))
}

func TestFinishLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tracer := New(zap.New(core))

	span, _ := tracer.StartSpan(context.Background(), "record_usage")
	span.SetTag("path", "/Applications/Mail.app")
	span.SetError(errors.New("app not found"))
	tracer.Finish(span)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "record_usage", entry.ContextMap()["operation"])
	assert.Equal(t, "/Applications/Mail.app", entry.ContextMap()["path"])
}

func TestHTTPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer := New(zap.NewNop())

	var seen TraceID
	router := gin.New()
	router.Use(HTTPMiddleware(tracer))
	router.GET("/catalog", func(c *gin.Context) {
		seen = GetTraceID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("echoes client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
		req.Header.Set(HeaderRequestID, "client-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "client-123", w.Header().Get(HeaderRequestID))
		assert.Equal(t, TraceID("client-123"), seen)
	})

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog", nil))

		got := w.Header().Get(HeaderRequestID)
		assert.True(t, strings.HasPrefix(got, "req_"))
		assert.Equal(t, TraceID(got), seen)
	})
}

func TestLoggerAddsTraceID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	Logger(WithTraceID(context.Background(), "req_1"), base).Info("hello")
	Logger(context.Background(), base).Info("bare")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "req_1", logs.All()[0].ContextMap()["trace_id"])
	_, ok := logs.All()[1].ContextMap()["trace_id"]
	assert.False(t, ok)
}
