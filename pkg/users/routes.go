package users

import (
	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the public signup route and the authenticated
// profile routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		userService: NewService(db),
	}

	e.POST("/users", h.create)

	g := e.Group("/users/me")
	g.Use(authMiddleware.Authenticate)
	g.GET("", h.me)
	g.PATCH("", h.updateMe)
}
