package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"groundwater-backend/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response. Client errors are logged at warn,
// server errors at error.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if role, ok := c.Get("role"); ok {
		fields["role"] = role
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// BadRequest sends a 400 with code "validation_error".
func BadRequest(c *gin.Context, message string, details interface{}) {
	Error(c, http.StatusBadRequest, "validation_error", message, details)
}

// NotFound sends a 404 with code "not_found".
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, "not_found", message, nil)
}

// Internal sends a 500 without leaking err to the client.
func Internal(c *gin.Context, err error) {
	fields := map[string]any{"path": c.Request.URL.Path}
	if err != nil {
		fields["error"] = err
	}
	telemetry.Error("http.internal", fields)
	Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
}
