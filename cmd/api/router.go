package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"weddinghub-backend/internal/shared"
	"weddinghub-backend/internal/shared/middleware"
	"weddinghub-backend/pkg/container"
)

// SetupRouter wires all HTTP routes
func SetupRouter(c *container.Container) *gin.Engine {
	if c.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())

	router.GET("/health", func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
		defer cancel()

		if err := c.DB.HealthCheck(checkCtx); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": c.Config.App.Version,
		})
	})

	v1 := router.Group("/api/v1")

	// Webhooks are unauthenticated; the signature is the auth
	c.PaymentHandler.RegisterRoutes(v1)

	// Customer endpoints
	authenticated := v1.Group("")
	authenticated.Use(middleware.Auth(c.JWTManager))
	{
		c.OrderHandler.RegisterRoutes(authenticated)
		c.WalletHandler.RegisterRoutes(authenticated)
	}

	// Admin settlement endpoints
	admin := v1.Group("/admin")
	admin.Use(middleware.Auth(c.JWTManager), middleware.RequireRole(shared.RoleAdmin))
	{
		c.OrderHandler.RegisterAdminRoutes(admin)
		c.SettlementHandler.RegisterRoutes(admin)
	}

	return router
}
