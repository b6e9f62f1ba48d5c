// Package routes cung cấp tất cả routing functions cho Mailbox Locator Service
//
// Cấu trúc:
// - api.go: API routes (/v1/*), health routes, SetupAllRoutes
// - web.go: Web routes (/, /docs)
// - middleware.go: request id + rate limit
//
// Sử dụng:
// routes.SetupAllRoutes(router, lockerController, customController, rateLimit)
package routes
