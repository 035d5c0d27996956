// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/textbooktown/backend/internal/config"
	"github.com/textbooktown/backend/internal/handler"
	"github.com/textbooktown/backend/internal/middleware"
)

// Handlers groups everything the router wires up.
type Handlers struct {
	Auth  *handler.AuthHandler
	Books *handler.BookHandler
	Bids  *handler.BidHandler
	Image *handler.ImageHandler
	Users middleware.UserSource
}

// Register wires all routes onto the Echo instance. The rate limiter
// covers the whole API; the response cache only wraps the search
// endpoint, where repeated identical queries are common. Routes that
// act on behalf of a user sit behind CredentialAuth, which accepts
// username+password or a token via HTTP Basic.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	e.GET("/healthz", handler.Health)

	// Account endpoints.
	e.POST("/user/register", h.Auth.Register)
	e.GET("/user/login", h.Auth.Login, middleware.CredentialAuth(cfg.TokenSecret, h.Users))
	e.POST("/login/check", h.Auth.CheckToken)
	e.GET("/api/users/:id", h.Auth.GetUser)

	// Listings.
	e.POST("/book/add", h.Books.AddBook, middleware.CredentialAuth(cfg.TokenSecret, h.Users))
	e.GET("/book/search", h.Books.SearchBooks, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	e.GET("/book/:id", h.Books.GetBook)

	// Auctions and bids.
	e.POST("/auction/:id/bid", h.Bids.PlaceBid, middleware.CredentialAuth(cfg.TokenSecret, h.Users))
	e.GET("/auction/:id/bids/count", h.Bids.CountBids)

	// Uploaded photos.
	e.GET("/img/:filename", h.Image.ServeImage)
}
