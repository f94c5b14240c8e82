package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"weddinghub-backend/internal/shared/response"
	"weddinghub-backend/pkg/logger"
)

// Recovery catches panics in handlers and returns a clean 500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", fmt.Errorf("%v", r))
				response.InternalError(c, "internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
