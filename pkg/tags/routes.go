package tags

import (
	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/shelfmark/shelfmark/pkg/namedresource"
	"github.com/uptrace/bun"
)

// NewService builds the owned-named-entity service for tags.
func NewService(db *bun.DB) *namedresource.Service[*models.Tag] {
	return namedresource.NewService(db, namedresource.Config{
		Resource:   "Tag",
		JoinTable:  "book_tags",
		JoinColumn: "tag_id",
	}, func() *models.Tag { return &models.Tag{} })
}

// RegisterRoutesWithGroup registers tag routes on a pre-configured group.
// There's no create or retrieve route: tags come into existence through book
// reconciliation only.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := namedresource.NewHandler(NewService(db))

	g.GET("", h.List)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
