package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-studio/internal/shared/server/respond"
	"resume-studio/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 envelope. The session stays
// readable since nothing is written after the panic point.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"panic":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"route":      c.FullPath(),
				"method":     c.Request.Method,
			}
			if id := c.Param("id"); id != "" {
				fields["session_id"] = id
			}
			telemetry.Error("http.panic", fields)

			c.Set("outcome", "panic")
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "unexpected server error", nil)
		}()
		c.Next()
	}
}
