package tracing

import (
	"context"
	"time"

	"github.com/GriffinCanCode/AppShelf/internal/shared/id"
	"go.uber.org/zap"
)

// HeaderRequestID carries the trace ID across HTTP hops.
const HeaderRequestID = "X-Request-ID"

// TraceID identifies one client request end to end
type TraceID string

// SpanID identifies one operation within a trace
type SpanID string

// Span represents a single operation in a trace
type Span struct {
	TraceID  TraceID
	SpanID   SpanID
	ParentID SpanID
	Name     string
	Start    time.Time
	Duration time.Duration
	Tags     map[string]string
	Err      error
	Status   int
}

// Tracer records spans as structured log entries.
type Tracer struct {
	logger *zap.Logger
}

// New creates a tracer writing to logger.
func New(logger *zap.Logger) *Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracer{logger: logger}
}

// StartSpan creates a span under any trace already present in ctx.
func (t *Tracer) StartSpan(ctx context.Context, name string) (*Span, context.Context) {
	traceID := GetTraceID(ctx)
	if traceID == "" {
		traceID = TraceID(id.NewRequestID())
	}

	span := &Span{
		TraceID:  traceID,
		SpanID:   SpanID(id.NewCommandID()),
		ParentID: GetSpanID(ctx),
		Name:     name,
		Start:    time.Now(),
		Tags:     make(map[string]string),
	}

	ctx = context.WithValue(ctx, traceIDKey, traceID)
	ctx = context.WithValue(ctx, spanIDKey, span.SpanID)
	return span, ctx
}

// SetTag adds a tag to the span
func (s *Span) SetTag(key, value string) {
	s.Tags[key] = value
}

// SetError records an error in the span
func (s *Span) SetError(err error) {
	s.Err = err
}

// Finish stamps the duration and logs the span.
func (t *Tracer) Finish(s *Span) {
	s.Duration = time.Since(s.Start)

	fields := []zap.Field{
		zap.String("trace_id", string(s.TraceID)),
		zap.String("span_id", string(s.SpanID)),
		zap.String("operation", s.Name),
		zap.Duration("duration", s.Duration),
	}
	if s.ParentID != "" {
		fields = append(fields, zap.String("parent_id", string(s.ParentID)))
	}
	if s.Status != 0 {
		fields = append(fields, zap.Int("status", s.Status))
	}
	for k, v := range s.Tags {
		fields = append(fields, zap.String(k, v))
	}

	if s.Err != nil {
		t.logger.Warn("span failed", append(fields, zap.Error(s.Err))...)
		return
	}
	t.logger.Debug("span completed", fields...)
}

type contextKey string

const (
	traceIDKey contextKey = "trace_id"
	spanIDKey  contextKey = "span_id"
)

// WithTraceID returns ctx carrying traceID.
func WithTraceID(ctx context.Context, traceID TraceID) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from context
func GetTraceID(ctx context.Context) TraceID {
	traceID, _ := ctx.Value(traceIDKey).(TraceID)
	return traceID
}

// GetSpanID retrieves the span ID from context
func GetSpanID(ctx context.Context) SpanID {
	spanID, _ := ctx.Value(spanIDKey).(SpanID)
	return spanID
}

// Logger returns base annotated with the trace ID in ctx, if any.
func Logger(ctx context.Context, base *zap.Logger) *zap.Logger {
	if traceID := GetTraceID(ctx); traceID != "" {
		return base.With(zap.String("trace_id", string(traceID)))
	}
	return base
}
