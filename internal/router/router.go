// Package router wires the HTTP routes. Public endpoints live under
// /v1/auth plus the health check; everything else sits behind the JWT
// middleware, with mutations restricted to admins.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kinohub/cinema-api/internal/config"
	"github.com/kinohub/cinema-api/internal/handler"
	"github.com/kinohub/cinema-api/internal/middleware"
	"github.com/kinohub/cinema-api/internal/model"
)

// Handlers collects the handler set the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Catalog  *handler.CatalogHandler
	Movies   *handler.MovieHandler
	Sessions *handler.SessionHandler
	Orders   *handler.OrderHandler
}

// Register mounts all routes on e. The redis client may be nil; the
// cache and rate limit middleware pass requests through untouched in
// that case.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Unauthenticated auth operations. Logout only needs the raw
	// refresh token, so it stays public too.
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(cfg.JWTSecret))
	v1.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// The response cache is keyed by path and query, not by caller, so
	// it is attached only to the catalog reads whose responses are
	// identical for every authenticated user. Per-user routes (orders,
	// identity) must never be served from a shared cache entry.
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	v1.GET("/me", h.Auth.Me)
	v1.POST("/auth/logout-all", h.Auth.LogoutAll)

	// Reads are open to any authenticated user.
	v1.GET("/genres", h.Catalog.ListGenres, cache)
	v1.GET("/actors", h.Catalog.ListActors, cache)
	v1.GET("/cinema-halls", h.Catalog.ListHalls, cache)
	v1.GET("/movies", h.Movies.List, cache)
	v1.GET("/movies/:id", h.Movies.Detail, cache)
	v1.GET("/movie-sessions", h.Sessions.List, cache)
	v1.GET("/movie-sessions/:id", h.Sessions.Detail, cache)

	// Orders are per-user, no admin role needed.
	v1.GET("/orders", h.Orders.ListMine)
	v1.POST("/orders", h.Orders.Create)

	// Mutations require the ADMIN role.
	admin := v1.Group("", middleware.RequireRole(model.RoleAdmin))
	admin.POST("/genres", h.Catalog.CreateGenre)
	admin.POST("/actors", h.Catalog.CreateActor)
	admin.POST("/cinema-halls", h.Catalog.CreateHall)
	admin.POST("/movies", h.Movies.Create)
	admin.PUT("/movies/:id", h.Movies.Update)
	admin.DELETE("/movies/:id", h.Movies.Delete)
	admin.POST("/movies/:id/upload-image", h.Movies.UploadImage)
	admin.POST("/movie-sessions", h.Sessions.Create)
	admin.PUT("/movie-sessions/:id", h.Sessions.Update)
	admin.DELETE("/movie-sessions/:id", h.Sessions.Delete)
}
