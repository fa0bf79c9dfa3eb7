package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"groundwater-backend/internal/shared/server/respond"
	"groundwater-backend/internal/shared/telemetry"
)

// Recovery turns a panic into a 500 envelope carrying the request id.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			reqID := RequestIDFromContext(c)
			telemetry.Error("http.panic", map[string]any{
				"request_id": reqID,
				"panic":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"user_id":    UserIDFromContext(c),
				"role":       string(RoleFromContext(c)),
			})
			if c.Writer.Written() {
				// Response already started.
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", gin.H{"requestId": reqID})
		}()
		c.Next()
	}
}
