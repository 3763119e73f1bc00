package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-studio/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		outcome := ""
		if raw, ok := c.Get("outcome"); ok {
			if s, ok := raw.(string); ok {
				outcome = s
			}
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"outcome":     outcome,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"session_id":  c.Param("id"),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
