package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/livescore-api-links/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/livescore-api-links/internal/middleware" // import middleware for JWT authentication
)

// RegisterRoutes registers routes that do not belong to any API group.
// Currently it exposes only a health check for load balancers and
// monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes. Signup, login
// and the refresh-token operations require no session; profile and
// account deletion run behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	protected := e.Group("/api/auth")
	protected.Use(middleware.JWTAuth(jwtSecret))
	protected.GET("/profile", a.Profile)
	protected.DELETE("/delete", a.DeleteAccount)
}

// RegisterLinks registers the owner-facing link management routes. Every
// route requires a valid access token; ownership itself is enforced in
// the handlers by owner-scoped queries.
func RegisterLinks(e *echo.Echo, h *handler.LinkHandler, jwtSecret string) {
	g := e.Group("/api/apilinks")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.POST("", h.Create)
	g.GET("", h.List)
	g.DELETE("/:token", h.Delete)
	g.PATCH("/:token/update", h.Update)
	g.PATCH("/:token/toggle", h.Toggle)
	g.PATCH("/:token/status", h.SetStatus)
}

// RegisterPublic registers the unauthenticated read routes: public token
// resolution and the direct livescore reads that bypass the link
// directory. The caller supplies rate-limit and cache middleware built in
// main; either may be a pass-through when Redis is unavailable. The cache
// applies only to the direct reads, because token resolution has a
// telemetry side effect and must reach the handler on every request.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, limiter, cache echo.MiddlewareFunc) {
	pub := e.Group("/api/public")
	pub.Use(limiter)
	pub.GET("/:token", p.Resolve)

	live := e.Group("/api/livescore")
	live.Use(limiter)
	live.Use(cache)
	live.GET("/:matchId", p.Livescore)
	live.GET("/:matchId/full", p.LivescoreFull)
}
