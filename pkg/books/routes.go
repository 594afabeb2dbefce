package books

import (
	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/config"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, cfg *config.Config, db *bun.DB) {
	h := newHandler(cfg, db)

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.retrieve)
	g.PUT("/:id", h.update)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/upload-image", h.uploadImage)
}
