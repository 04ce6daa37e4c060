package tracing

import (
	"github.com/gin-gonic/gin"
)

// maxIncomingID bounds client-supplied request IDs.
const maxIncomingID = 128

// HTTPMiddleware starts a span per request. A client-supplied X-Request-ID is
// reused as the trace ID and echoed back; otherwise one is generated.
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if incoming := c.GetHeader(HeaderRequestID); incoming != "" && len(incoming) <= maxIncomingID {
			ctx = WithTraceID(ctx, TraceID(incoming))
		}

		name := c.FullPath()
		if name == "" {
			name = c.Request.URL.Path
		}
		span, ctx := tracer.StartSpan(ctx, name)
		span.SetTag("http.method", c.Request.Method)

		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderRequestID, string(span.TraceID))

		c.Next()

		span.Status = c.Writer.Status()
		if len(c.Errors) > 0 {
			span.SetError(c.Errors.Last())
		}
		tracer.Finish(span)
	}
}
