package authors

import (
	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/shelfmark/shelfmark/pkg/namedresource"
	"github.com/uptrace/bun"
)

// NewService builds the owned-named-entity service for authors.
func NewService(db *bun.DB) *namedresource.Service[*models.Author] {
	return namedresource.NewService(db, namedresource.Config{
		Resource:   "Author",
		JoinTable:  "book_authors",
		JoinColumn: "author_id",
	}, func() *models.Author { return &models.Author{} })
}

// RegisterRoutesWithGroup registers author routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := namedresource.NewHandler(NewService(db))

	g.GET("", h.List)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
