package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mamareykjavik-backend/internal/shared/middleware"
	"mamareykjavik-backend/internal/shared/response"
	"mamareykjavik-backend/pkg/container"
)

func setupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())
	router.Use(middleware.ClientIPMiddleware())

	router.GET("/health", func(ctx *gin.Context) {
		status := c.HealthCheck(ctx.Request.Context())
		code := http.StatusOK
		if status["database"] != "ok" {
			code = http.StatusServiceUnavailable
		}
		response.Success(ctx, code, gin.H{
			"name":    c.Config.App.Name,
			"version": c.Config.App.Version,
			"checks":  status,
		})
	})

	v1 := router.Group("/api/v1")

	// Storefront promo endpoints. Anonymous allowed; a token tightens
	// the per-user limit.
	promotions := v1.Group("/promotions")
	promotions.Use(middleware.OptionalAuth(c.JWTManager))
	{
		promotions.POST("/validate", c.PromoPublicHandler.Validate)
		promotions.GET("/preview", c.PromoPublicHandler.Preview)
	}

	// Back-office endpoints
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminOnly())
	{
		promos := admin.Group("/promotions")
		{
			promos.POST("", c.PromoAdminHandler.Create)
			promos.GET("", c.PromoAdminHandler.List)
			promos.GET("/:id", c.PromoAdminHandler.Get)
			promos.PUT("/:id", c.PromoAdminHandler.Update)
			promos.PATCH("/:id/status", c.PromoAdminHandler.UpdateStatus)
			promos.DELETE("/:id", c.PromoAdminHandler.Delete)
			promos.GET("/:id/redemptions", c.PromoAdminHandler.ListRedemptions)
		}

		// Webhook audit trail for payment disputes
		admin.GET("/webhooks", c.WebhookAuditHandler.ListByOrderRef)
	}

	// Checkout per product line
	v1.POST("/tickets/checkout", c.TicketHandler.Checkout)
	v1.POST("/shop/checkout", c.ShopHandler.Checkout)
	v1.POST("/meal-cards/checkout", c.CardHandler.CheckoutMealCard)
	v1.POST("/gift-cards/checkout", c.CardHandler.CheckoutGiftCard)
	v1.POST("/tours/checkout", c.TourHandler.Checkout)

	// SaltPay server-to-server callbacks
	v1.POST("/webhooks/saltpay/:product", c.WebhookHandler.HandleCallback)

	return router
}
