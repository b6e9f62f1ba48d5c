package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mailbox-locator/app/config"
	"github.com/mailbox-locator/app/controllers"
)

// SetupAPIRoutes thiết lập tất cả API routes
func SetupAPIRoutes(router *gin.Engine, lockerController *controllers.LockerController, customController *controllers.CustomController, rl config.RateLimitCfg) {
	// Giới hạn chung cho các route thay đổi dữ liệu
	limit := RateLimit(rl.RPS, rl.Burst)

	// API v1 group
	v1 := router.Group("/v1")
	{
		// Lookup routes
		lockers := v1.Group("/lockers")
		{
			lockers.GET("/search", lockerController.Search)
			lockers.POST("/search", lockerController.Search)
			lockers.GET("/stats", lockerController.Stats)
		}

		// Custom record routes
		custom := v1.Group("/custom")
		{
			custom.GET("", customController.List)
			custom.GET("/export", customController.Export)
			custom.POST("", limit, customController.Create)
			custom.POST("/import", limit, customController.Import)
			custom.PUT("/:key", limit, customController.Update)
			custom.DELETE("/:key", limit, customController.Delete)
			custom.DELETE("", limit, customController.Wipe)
		}

		// Health check route
		v1.GET("/health", lockerController.HealthCheck)
	}
}

// SetupHealthRoutes thiết lập health check routes
func SetupHealthRoutes(router *gin.Engine, lockerController *controllers.LockerController) {
	// Root health check
	router.GET("/health", lockerController.HealthCheck)

	// Readiness check
	router.GET("/ready", lockerController.HealthCheck)

	// Liveness check
	router.GET("/live", lockerController.HealthCheck)
}

// SetupAllRoutes thiết lập tất cả routes
func SetupAllRoutes(router *gin.Engine, lockerController *controllers.LockerController, customController *controllers.CustomController, rl config.RateLimitCfg) {
	// Thiết lập middleware
	setupMiddleware(router)

	// Thiết lập các loại routes
	SetupWebRoutes(router)
	SetupHealthRoutes(router, lockerController)
	SetupAPIRoutes(router, lockerController, customController, rl)

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":      "Route not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString(requestIDKey),
		})
	})
}

// setupMiddleware thiết lập middleware cho router
func setupMiddleware(router *gin.Engine) {
	// Recovery middleware
	router.Use(gin.Recovery())

	// Request id cho log và response lỗi
	router.Use(RequestID())

	// Logger middleware
	router.Use(gin.Logger())
}
