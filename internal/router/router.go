package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/promptacademy/backend/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Search  *apiHandler.SearchHandler
	Admin   *apiHandler.AdminHandler
	Pages   *apiHandler.PageHandler
	Health  *apiHandler.HealthHandler
}

// New builds the route table. Access control is not declared here: the
// gateway wraps the whole router and decides admission from its own tables
// before any of these handlers run.
func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Browser navigation routes
	r.GET("/", handlers.Pages.Home)
	r.GET("/login", handlers.Pages.Login)
	r.GET("/signup", handlers.Pages.Signup)
	r.GET("/forgot-password", handlers.Pages.ForgotPassword)
	r.GET("/dashboard", handlers.Pages.Dashboard)
	r.GET("/admin", handlers.Pages.Admin)

	// Auth flows
	r.POST("/api/auth/login", handlers.Auth.Login)
	r.POST("/api/auth/signup", handlers.Auth.Signup)
	r.POST("/api/auth/refresh", handlers.Auth.Refresh)
	r.POST("/api/auth/logout", handlers.Auth.Logout)
	r.GET("/api/auth/me", handlers.Auth.Me)

	// API surface
	r.GET("/api/users/profile", handlers.Profile.Get)
	r.GET("/api/search", handlers.Search.Search)
	r.GET("/api/admin/stats", handlers.Admin.Stats)

	return r
}
