package users

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"groundwater-backend/internal/shared/auth"
	"groundwater-backend/internal/shared/metrics"
	"groundwater-backend/internal/shared/server/middleware"
	"groundwater-backend/internal/shared/server/respond"
	"groundwater-backend/internal/shared/telemetry"
)

type Handler struct {
	Svc     *Service
	Metrics *metrics.Metrics
}

func NewHandler(svc *Service, m *metrics.Metrics) *Handler {
	return &Handler{Svc: svc, Metrics: m}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// RegisterAuthRoutes mounts the account endpoints under rg. loginGuard runs
// before login and registration.
func (h *Handler) RegisterAuthRoutes(rg *gin.RouterGroup, loginGuard ...gin.HandlerFunc) {
	guarded := func(final gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(loginGuard)+1)
		return append(append(chain, loginGuard...), final)
	}
	rg.POST("/login", guarded(h.login)...)
	rg.POST("/register", guarded(h.register)...)
	rg.GET("/verify", h.verify)
	rg.POST("/logout", h.logout)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid JSON body", nil)
		return
	}
	session, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		h.Metrics.IncLogin("success")
		telemetry.Info("auth.login", map[string]any{"user_id": session.User.ID, "role": string(session.User.Role)})
		respond.OK(c, gin.H{"success": true, "token": session.Token, "user": session.User, "expiresIn": session.ExpiresIn})
	case errors.Is(err, ErrValidation):
		h.Metrics.IncLogin("invalid")
		respond.BadRequest(c, validationMessage(err), nil)
	case errors.Is(err, ErrInvalidCredentials):
		h.Metrics.IncLogin("rejected")
		respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials", nil)
	default:
		h.Metrics.IncLogin("error")
		respond.Internal(c, err)
	}
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid JSON body", nil)
		return
	}
	session, err := h.Svc.Register(c.Request.Context(), req.Username, req.Password, req.Name)
	switch {
	case err == nil:
		telemetry.Info("auth.register", map[string]any{"user_id": session.User.ID})
		respond.Created(c, gin.H{"success": true, "token": session.Token, "user": session.User, "expiresIn": session.ExpiresIn})
	case errors.Is(err, ErrValidation):
		respond.BadRequest(c, validationMessage(err), nil)
	case errors.Is(err, ErrUsernameTaken):
		respond.Error(c, http.StatusConflict, "username_taken", "Username already exists", nil)
	default:
		respond.Internal(c, err)
	}
}

func (h *Handler) verify(c *gin.Context) {
	token, ok := middleware.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "No token provided", nil)
		return
	}
	claims, err := auth.VerifyJWT(token)
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Invalid token", nil)
		return
	}
	respond.OK(c, gin.H{"valid": true, "user": claims})
}

func (h *Handler) logout(c *gin.Context) {
	respond.OK(c, gin.H{"success": true, "message": "Logged out successfully"})
}

func (h *Handler) me(c *gin.Context) {
	if middleware.IsGuest(c) {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}
	user, err := h.Svc.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.NotFound(c, "user not found")
			return
		}
		respond.Internal(c, err)
		return
	}
	respond.OK(c, user.Profile())
}

// validationMessage strips the sentinel prefix so clients see only the rule.
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
}
