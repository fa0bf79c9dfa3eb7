package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"groundwater-backend/internal/shared/auth"
	"groundwater-backend/internal/shared/server/respond"
)

const (
	userIDKey   = "userId"
	usernameKey = "username"
	userNameKey = "userName"
	roleKey     = "role"
	isGuestKey  = "isGuest"
)

// Auth validates JWTs or guest headers and stores identity in context.
// Requests under a public prefix pass without identity; a valid token on them
// is still recognised.
func Auth(publicPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		public := isPublicPath(c.Request.URL.Path, publicPrefixes)
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))

		if authHeader != "" {
			claims, ok := bearerClaims(authHeader)
			if !ok {
				if public {
					c.Next()
					return
				}
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			c.Set(userIDKey, claims.Sub)
			if claims.Username != "" {
				c.Set(usernameKey, claims.Username)
			}
			if claims.Name != "" {
				c.Set(userNameKey, claims.Name)
			}
			c.Set(roleKey, claims.Role)
			c.Set(isGuestKey, false)
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id"))
		if guestID == "" {
			if public {
				c.Next()
				return
			}
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}

		c.Set(userIDKey, "guest:"+guestID)
		c.Set(roleKey, auth.RoleGuest)
		c.Set(isGuestKey, true)
		c.Next()
	}
}

// RequireRole rejects callers whose role is below min.
func RequireRole(min auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !RoleFromContext(c).AtLeast(min) {
			respond.Error(c, http.StatusForbidden, "forbidden", "insufficient permissions", gin.H{"required": min})
			return
		}
		c.Next()
	}
}

// BearerToken extracts the raw token from an Authorization header.
func BearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
	return token, token != ""
}

func bearerClaims(header string) (auth.Claims, bool) {
	token, ok := BearerToken(header)
	if !ok {
		return auth.Claims{}, false
	}
	claims, err := auth.VerifyJWT(token)
	if err != nil {
		return auth.Claims{}, false
	}
	return claims, true
}

func isPublicPath(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	return contextString(c, userIDKey)
}

// UsernameFromContext fetches the login name set by the auth middleware.
func UsernameFromContext(c *gin.Context) string {
	return contextString(c, usernameKey)
}

// UserNameFromContext fetches the display name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string {
	return contextString(c, userNameKey)
}

// RoleFromContext fetches the caller's role. Anonymous callers have no role.
func RoleFromContext(c *gin.Context) auth.Role {
	if c == nil {
		return ""
	}
	val, _ := c.Get(roleKey)
	if role, ok := val.(auth.Role); ok {
		return role
	}
	return ""
}

// IsGuest reports whether the caller identified with a guest header.
func IsGuest(c *gin.Context) bool {
	if c == nil {
		return false
	}
	val, _ := c.Get(isGuestKey)
	guest, _ := val.(bool)
	return guest
}

func contextString(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
