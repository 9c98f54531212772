package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
)

const (
	ctxAdminID  = "admin_id"
	ctxUsername = "admin_username"
	ctxRole     = "admin_role"
)

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			api.Fail(c, api.NewError(api.CodeUnauthorized, "Authorization header required"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			api.Fail(c, api.NewError(api.CodeUnauthorized, "Invalid authorization header format"))
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			api.Fail(c, api.NewError(api.CodeUnauthorized, "Token is empty"))
			return
		}

		claims, err := ValidateToken(tokenString, secret)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				api.Fail(c, api.NewError(api.CodeUnauthorized, "Token expired"))
			} else {
				api.Fail(c, api.NewError(api.CodeUnauthorized, "Invalid or malformed token"))
			}
			return
		}

		if claims.TokenType != tokenTypeAccess {
			api.Fail(c, api.NewError(api.CodeUnauthorized, "Access token required"))
			return
		}

		c.Set(ctxAdminID, claims.AdminID)
		c.Set(ctxUsername, claims.Username)
		c.Set(ctxRole, claims.Role)
		c.Request = c.Request.WithContext(ContextWithAdminID(c.Request.Context(), claims.AdminID))

		c.Next()
	}
}

// RequireRole lets through admins holding any of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ctxRole)
		if !exists {
			api.Fail(c, api.NewError(api.CodeUnauthorized, "Admin role not found"))
			return
		}

		roleStr, ok := role.(string)
		if !ok {
			api.Fail(c, api.NewError(api.CodeUnauthorized, "Invalid role type"))
			return
		}

		for _, r := range roles {
			if roleStr == r {
				c.Next()
				return
			}
		}
		api.Fail(c, api.NewError(api.CodeForbidden, "Insufficient permissions"))
	}
}

func GetAdminID(c *gin.Context) (int, bool) {
	adminID, exists := c.Get(ctxAdminID)
	if !exists {
		return 0, false
	}

	id, ok := adminID.(int)
	return id, ok
}
