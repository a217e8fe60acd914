package middleware

import (
	"strings"

	"wecaare-insurance/internal/adapters/persistence/models"
	"wecaare-insurance/internal/config"
	"wecaare-insurance/internal/pkg/jwt"
	"wecaare-insurance/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Context keys set by the auth middleware
const (
	LocalUserID   = "userID"
	LocalUsername = "username"
	LocalRole     = "role"
)

// Protected validates the access token and loads the caller identity
// into locals. The token is read from the Authorization header or the
// access_token cookie.
func Protected(jwtConfig config.JWTConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return response.Unauthorized(c, "Missing authentication token")
		}

		claims, err := jwt.ValidateAccessToken(token, jwtConfig.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Token expired")
			}
			return response.Unauthorized(c, "Invalid token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalRole, claims.Role)

		return c.Next()
	}
}

// extractToken reads the bearer token from header or cookie
func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Cookies("access_token")
}

// RoleMiddleware allows only the given roles through
func RoleMiddleware(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(string)
		if !ok {
			return response.Unauthorized(c, "Missing authentication")
		}

		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}

		return response.Forbidden(c, "Insufficient permissions")
	}
}

// AdminOnly restricts to admin users
func AdminOnly() fiber.Handler {
	return RoleMiddleware(models.RoleAdmin)
}

// StaffOrAdmin restricts to any authenticated office role
func StaffOrAdmin() fiber.Handler {
	return RoleMiddleware(models.RoleStaff, models.RoleAdmin)
}

// GetUserID reads the acting user's id from locals
func GetUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals(LocalUserID).(uint); ok {
		return id
	}
	return 0
}

// GetRole reads the acting user's role from locals
func GetRole(c *fiber.Ctx) string {
	if role, ok := c.Locals(LocalRole).(string); ok {
		return role
	}
	return ""
}
