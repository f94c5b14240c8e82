package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"weddinghub-backend/internal/shared"
	"weddinghub-backend/internal/shared/response"
	"weddinghub-backend/pkg/jwt"
)

// Auth validates the Bearer token and stores the user identity in context
func Auth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "invalid token subject")
			c.Abort()
			return
		}

		c.Set(shared.ContextUserIDKey, userID)
		c.Set(shared.ContextRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole allows only the given roles past this point.
// Must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(shared.ContextRoleKey)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "insufficient permissions")
		c.Abort()
	}
}

// GetUserID extracts the authenticated user id from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(shared.ContextUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	userID, ok := value.(uuid.UUID)
	return userID, ok
}
