package chat

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"groundwater-backend/internal/interpreter"
	"groundwater-backend/internal/shared/auth"
	"groundwater-backend/internal/shared/metrics"
	"groundwater-backend/internal/shared/server/middleware"
	"groundwater-backend/internal/shared/server/respond"
	"groundwater-backend/internal/shared/telemetry"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type Handler struct {
	Interp           *interpreter.Interpreter
	Log              QueryLog
	Metrics          *metrics.Metrics
	MaxMessageLength int
	Clock            clockwork.Clock
}

func NewHandler(interp *interpreter.Interpreter, log QueryLog, m *metrics.Metrics, maxLen int) *Handler {
	return &Handler{
		Interp:           interp,
		Log:              log,
		Metrics:          m,
		MaxMessageLength: maxLen,
		Clock:            clockwork.NewRealClock(),
	}
}

type chatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, chatGuard ...gin.HandlerFunc) {
	post := make([]gin.HandlerFunc, 0, len(chatGuard)+1)
	post = append(append(post, chatGuard...), h.chat)
	rg.POST("/chat", post...)
	rg.GET("/chat/history", h.history)
	rg.POST("/chat/explain", middleware.RequireRole(auth.RoleAnalyst), h.explain)
}

func (h *Handler) bindMessage(c *gin.Context) (chatRequest, bool) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Metrics.IncChatRejected("malformed")
		respond.BadRequest(c, "invalid JSON body", nil)
		return req, false
	}
	if req.Language == "" {
		req.Language = "en"
	}
	if err := ValidateMessage(req.Message, h.MaxMessageLength); err != nil {
		h.Metrics.IncChatRejected(rejectReason(err))
		respond.BadRequest(c, err.Error(), nil)
		return req, false
	}
	return req, true
}

func (h *Handler) chat(c *gin.Context) {
	req, ok := h.bindMessage(c)
	if !ok {
		return
	}

	result := h.Interp.Answer(req.Message)
	c.Set(middleware.IntentKey, string(result.Intent))
	elapsed := time.Duration(result.ProcessingTimeMs * float64(time.Millisecond))
	h.Metrics.ObserveChat(string(result.Intent), result.RequiresClarification, elapsed)

	userID := middleware.UserIDFromContext(c)
	role := middleware.RoleFromContext(c)
	telemetry.Info("chat.answered", map[string]any{
		"request_id":  middleware.RequestIDFromContext(c),
		"user_id":     userID,
		"intent":      string(result.Intent),
		"confidence":  result.Confidence,
		"status":      result.GroundwaterStatus,
		"language":    req.Language,
		"clarify":     result.RequiresClarification,
		"duration_ms": result.ProcessingTimeMs,
	})

	if h.Log != nil && userID != "" {
		entry := Entry{
			ID:                    uuid.NewString(),
			UserID:                userID,
			Role:                  string(role),
			Message:               req.Message,
			Intent:                result.Intent,
			Confidence:            result.Confidence,
			RequiresClarification: result.RequiresClarification,
			GroundwaterStatus:     result.GroundwaterStatus,
			ProcessingTimeMs:      result.ProcessingTimeMs,
			CreatedAt:             h.now(),
		}
		if err := h.Log.Record(c.Request.Context(), entry); err != nil {
			telemetry.Warn("chat.log_failed", map[string]any{"user_id": userID, "error": err})
		}
	}

	respond.OK(c, result)
}

func (h *Handler) explain(c *gin.Context) {
	req, ok := h.bindMessage(c)
	if !ok {
		return
	}
	exp := h.Interp.Explain(req.Message)
	c.Set(middleware.IntentKey, string(exp.Result.Intent))
	respond.OK(c, exp)
}

func (h *Handler) history(c *gin.Context) {
	if h.Log == nil {
		respond.OK(c, gin.H{"entries": []Entry{}})
		return
	}
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respond.BadRequest(c, "limit must be an integer", gin.H{"limit": raw})
			return
		}
		limit = max(1, min(n, maxHistoryLimit))
	}
	entries, err := h.Log.Recent(c.Request.Context(), middleware.UserIDFromContext(c), limit)
	if err != nil {
		respond.Internal(c, err)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	respond.OK(c, gin.H{"entries": entries})
}

func (h *Handler) now() time.Time {
	if h.Clock == nil {
		return time.Now().UTC()
	}
	return h.Clock.Now().UTC()
}
