package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"groundwater-backend/internal/chat"
	"groundwater-backend/internal/regions"
	"groundwater-backend/internal/services/health"
	"groundwater-backend/internal/shared/auth"
	"groundwater-backend/internal/shared/config"
	"groundwater-backend/internal/shared/metrics"
	"groundwater-backend/internal/shared/server/middleware"
	"groundwater-backend/internal/shared/server/respond"
	"groundwater-backend/internal/users"
)

const (
	apiPrefix  = "/api/v1"
	loginGroup = "LOGIN"
)

// PublicPrefixes are reachable without a token or guest id.
var PublicPrefixes = []string{
	apiPrefix + "/auth/",
	apiPrefix + "/health",
	apiPrefix + "/status",
	apiPrefix + "/capabilities",
}

// RouterDeps carries the handlers and shared services the router mounts.
type RouterDeps struct {
	Config  config.Config
	Metrics *metrics.Metrics
	Limiter *middleware.RateLimiter

	Health  *health.Handler
	Regions *regions.Handler
	Chat    *chat.Handler
	Users   *users.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)
	r.GET("/metrics", deps.Metrics.Handler())
	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	limiter := deps.Limiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(nil)
	}
	onLimited := func(group string) { deps.Metrics.IncRateLimited(group) }
	chatGuard := middleware.RateLimit(middleware.RateLimitConfig{
		Rules:     ChatRateRules(deps.Config.RateLimit),
		GroupFor:  chatGroup,
		Limiter:   limiter,
		OnLimited: onLimited,
	})
	loginGuard := middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			loginGroup: {Limit: deps.Config.RateLimit.LoginQuota, Window: deps.Config.RateLimit.LoginWindow},
		},
		DefaultGroup: loginGroup,
		PrincipalFor: func(c *gin.Context) string { return "ip:" + c.ClientIP() },
		Limiter:      limiter,
		OnLimited:    onLimited,
	})

	api := r.Group(apiPrefix)
	api.Use(middleware.Auth(PublicPrefixes...))

	if deps.Health != nil {
		deps.Health.RegisterRoutes(api)
	}
	if deps.Users != nil {
		deps.Users.RegisterAuthRoutes(api.Group("/auth"), loginGuard)
		deps.Users.RegisterRoutes(api)
	}
	if deps.Regions != nil {
		deps.Regions.RegisterRoutes(api)
	}
	if deps.Chat != nil {
		deps.Chat.RegisterRoutes(api, chatGuard)
	}

	return r
}

// ChatRateRules maps each role's chat group to its hourly quota.
func ChatRateRules(cfg config.RateLimitConfig) map[string]middleware.RateLimitRule {
	rule := func(limit int) middleware.RateLimitRule {
		return middleware.RateLimitRule{Limit: limit, Window: cfg.ChatWindow}
	}
	return map[string]middleware.RateLimitRule{
		chatGroupName(auth.RoleGuest):   rule(cfg.GuestQuota),
		chatGroupName(auth.RoleUser):    rule(cfg.UserQuota),
		chatGroupName(auth.RoleAnalyst): rule(cfg.AnalystQuota),
		chatGroupName(auth.RoleAdmin):   rule(cfg.AdminQuota),
	}
}

func chatGroup(c *gin.Context) string {
	role := middleware.RoleFromContext(c)
	if !role.Valid() {
		role = auth.RoleGuest
	}
	return chatGroupName(role)
}

func chatGroupName(role auth.Role) string {
	return "CHAT_" + strings.ToUpper(string(role))
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
