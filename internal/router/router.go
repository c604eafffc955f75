package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/room-booking/internal/config"
	"github.com/iliyamo/room-booking/internal/handler"
	"github.com/iliyamo/room-booking/internal/middleware"
	"github.com/iliyamo/room-booking/internal/service"
)

// Deps carries everything the route table needs.  The Redis client is
// optional; without it the cache and rate limiter degrade to
// pass-throughs.
type Deps struct {
	JWTSecret string
	Rooms     *handler.RoomHandler
	Bookings  *handler.BookingHandler
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
}

// New builds the Echo instance with the full route table:
//
//	GET  /healthz                 liveness, unauthenticated
//	GET  /v1/rooms                catalog listing (cached)
//	GET  /v1/rooms/:id            catalog read
//	GET  /v1/rooms/free           free-room search
//	POST /v1/rooms                admin only
//	PATCH/DELETE /v1/rooms/:id    admin only
//	CRUD /v1/bookings             booking lifecycle
//
// Everything under /v1 requires a valid access token.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")
	v1.Use(middleware.NewTokenBucket(d.RateLimit, d.Redis))
	v1.Use(middleware.JWTAuth(d.JWTSecret))
	v1.Use(middleware.RequireRole(service.RoleUser, service.RoleAdmin))

	// Catalog reads.  The listing tolerates short staleness, so it is
	// the one route behind the response cache.
	v1.GET("/rooms", d.Rooms.List, middleware.NewRedisCache(d.Cache, d.Redis))
	v1.GET("/rooms/free", d.Rooms.FindFree)
	v1.GET("/rooms/:id", d.Rooms.Get)

	// Catalog mutations are administrative.
	admin := v1.Group("", middleware.RequireRole(service.RoleAdmin))
	admin.POST("/rooms", d.Rooms.Create)
	admin.PATCH("/rooms/:id", d.Rooms.Update)
	admin.DELETE("/rooms/:id", d.Rooms.Delete)

	v1.POST("/bookings", d.Bookings.Create)
	v1.GET("/bookings", d.Bookings.List)
	v1.GET("/bookings/:id", d.Bookings.Get)
	v1.PATCH("/bookings/:id", d.Bookings.Update)
	v1.DELETE("/bookings/:id", d.Bookings.Delete)

	return e
}
