package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mailbox-locator/app/controllers"
)

// SetupWebRoutes thiết lập web routes
func SetupWebRoutes(router *gin.Engine) {
	web := router.Group("/")
	{
		// Home page
		web.GET("/", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"message": "Mailbox Locator Service",
				"version": controllers.Version,
				"docs":    "/docs",
			})
		})

		// API documentation
		web.GET("/docs", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"api": "Mailbox Locator API v1",
				"endpoints": map[string]string{
					"search":        "GET /v1/lockers/search?q=&mode=addr|box|borrower|all",
					"stats":         "GET /v1/lockers/stats",
					"custom_list":   "GET /v1/custom",
					"custom_add":    "POST /v1/custom",
					"custom_update": "PUT /v1/custom/:key",
					"custom_delete": "DELETE /v1/custom/:key",
					"custom_wipe":   "DELETE /v1/custom",
					"import":        "POST /v1/custom/import",
					"export":        "GET /v1/custom/export?format=json|xlsx",
					"health":        "GET /v1/health",
				},
			})
		})
	}
}
