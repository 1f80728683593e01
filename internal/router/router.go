// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/hoanvu/room-rental/internal/config"
	"github.com/hoanvu/room-rental/internal/handler"
	"github.com/hoanvu/room-rental/internal/middleware"
	"github.com/hoanvu/room-rental/internal/model"
)

// Handlers groups everything the router wires.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Rooms    *handler.RoomHandler
	Bookings *handler.BookingHandler
	Location *handler.LocationHandler
	Home     *handler.HomeHandler
}

// Register wires all routes. Public browse endpoints sit behind the Redis
// response cache; everything sits behind the rate limiter; protected
// groups run JWTAuth and, where needed, the admin role check.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Session lifecycle. None of these require an existing session; the
	// refresh and logout endpoints authenticate through the refresh token
	// itself.
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)
	authGroup.POST("/logout", h.Auth.Logout)
	authGroup.POST("/google", h.Auth.GoogleLogin)

	// Public browse endpoints, cacheable.
	e.GET("/v1/rooms", h.Rooms.List, cache)
	e.GET("/v1/rooms/:id", h.Rooms.Get, cache)
	e.GET("/v1/home/top-districts", h.Home.TopDistricts, cache)
	e.GET("/v1/locations/provinces", h.Location.Provinces, cache)
	e.GET("/v1/locations/provinces/:code/districts", h.Location.Districts, cache)

	// Endpoints for any authenticated user.
	user := e.Group("/v1")
	user.Use(middleware.JWTAuth(cfg.AccessSecret))
	user.GET("/me", h.Auth.Me)
	user.PUT("/profile", h.Users.UpdateProfile)
	user.GET("/users/:id", h.Users.Get)
	user.POST("/bookings", h.Bookings.Create)
	user.GET("/bookings/mine", h.Bookings.Mine)

	// Admin-only management surface.
	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(cfg.AccessSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.GET("/users", h.Users.List)
	admin.DELETE("/users/:id", h.Users.Delete)
	admin.POST("/rooms", h.Rooms.Create)
	admin.PUT("/rooms/:id", h.Rooms.Update)
	admin.DELETE("/rooms/:id", h.Rooms.Delete)
	admin.GET("/bookings", h.Bookings.List)
	admin.PUT("/bookings/:id/status", h.Bookings.UpdateStatus)
}
