package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"groundwater-backend/internal/shared/telemetry"
)

// IntentKey is the gin context key handlers use to expose the classified intent
// to the request log.
const IntentKey = "intent"

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

		intent := ""
		if raw, ok := c.Get(IntentKey); ok {
			if s, ok := raw.(string); ok {
				intent = s
			}
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"role":        string(RoleFromContext(c)),
			"is_guest":    IsGuest(c),
			"intent":      intent,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
