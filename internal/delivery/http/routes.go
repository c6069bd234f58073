package http

import (
	"github.com/gin-gonic/gin"
	"github.com/groceryai/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		products := v1.Group("/products/:barcode")
		{
			products.GET("", handler.ScanProduct)
			products.GET("/halal", handler.ResolveHalal)
			products.GET("/price", handler.ComparePrice)
		}

		expiry := v1.Group("/expiry")
		{
			expiry.POST("/extract", handler.ExtractExpiry)
			expiry.POST("/assess", handler.AssessExpiry)
		}

		freshness := v1.Group("/freshness")
		{
			freshness.POST("/score", handler.ScoreFreshness)
			freshness.POST("/image", handler.ScoreFreshnessImage)
		}

		carts := v1.Group("/carts")
		{
			carts.POST("", handler.CreateCart)
			carts.GET("/:id", handler.GetCart)
			carts.DELETE("/:id", handler.DeleteCart)
			carts.POST("/:id/items", handler.AddCartItem)
			carts.DELETE("/:id/items", handler.ClearCart)
			carts.DELETE("/:id/items/:index", handler.RemoveCartItem)
			carts.POST("/:id/checkout", handler.Checkout)
		}
	}

	return router
}
