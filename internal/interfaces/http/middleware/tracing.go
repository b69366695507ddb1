package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing returns the tracing middleware with the default service name.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(TracingConfig{ServiceName: "retailpos-backend", Enabled: true})
}

// TracingWithConfig wraps otelgin so every request gets a server span
// named after its route pattern, then enriches the span with the
// request ID and the authenticated actor. Disabled tracing is a
// pass-through.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	base := otelgin.Middleware(cfg.ServiceName)
	return func(c *gin.Context) {
		base(c)

		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpan(c, span)
		}
	}
}

func enrichSpan(c *gin.Context, span trace.Span) {
	if id, ok := c.Get("request_id"); ok {
		if requestID, ok := id.(string); ok && requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
	}
	if actor, ok := CurrentActor(c); ok {
		span.SetAttributes(
			attribute.String("user_id", actor.UserID.String()),
			attribute.String("user_role", actor.Role),
		)
	}
}
