package http

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	custommiddleware "tradeledger/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	WebHandler      *WebHandler
	AdminHandler    *AdminHandler
	APIHandler      *APIHandler
	AccountResolver custommiddleware.AccountResolver
}

// SetupRoutes configures all HTTP routes. Every state-mutating action is
// a POST; the per-group guards replace any ambient before-request hook.
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Secure())

	optionalAuth := custommiddleware.OptionalAuthWeb(config.AccountResolver)
	requireAuth := custommiddleware.RequireAuthWeb(config.AccountResolver)
	requireAdmin := custommiddleware.RequireAdminWeb()

	// Public pages
	e.GET("/", config.WebHandler.HandleIndex, optionalAuth)
	e.GET("/login", config.WebHandler.HandleLoginPage, optionalAuth)
	e.POST("/login", config.WebHandler.HandleLoginSubmit)
	e.GET("/register", config.WebHandler.HandleRegisterPage, optionalAuth)
	e.POST("/register", config.WebHandler.HandleRegisterSubmit)
	e.GET("/logout", config.WebHandler.HandleLogout)

	// JSON API
	e.POST("/api/verify-code", config.APIHandler.VerifyCode)

	// Authenticated user pages
	user := e.Group("/user", requireAuth)
	user.GET("/dashboard", config.WebHandler.HandleUserDashboard)

	// Admin pages and actions
	admin := e.Group("/admin", requireAuth, requireAdmin)
	admin.GET("/dashboard", config.AdminHandler.HandleDashboard)
	admin.POST("/generate-code", config.AdminHandler.HandleGenerateCode)
	admin.POST("/delete-code/:id", config.AdminHandler.HandleDeleteCode)
	admin.POST("/user/update-balance", config.AdminHandler.HandleUpdateBalance)
	admin.POST("/user/reset-password", config.AdminHandler.HandleResetPassword)
	admin.POST("/user/delete/:id", config.AdminHandler.HandleDeleteUser)
	admin.POST("/user/place-trade", config.AdminHandler.HandlePlaceTrade)
}
