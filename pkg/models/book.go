package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    int       `bun:",nullzero" json:"user_id"`
	Title     string    `bun:",nullzero" json:"title"`
	// Price is a fixed-point decimal stored as text so values like "5.25"
	// round-trip without float drift.
	Price       string  `bun:",nullzero" json:"price"`
	Link        *string `json:"link"`
	Description *string `json:"description"`
	Image       *string `json:"image"`

	Tags    []*Tag    `bun:"m2m:book_tags,join:Book=Tag" json:"tags,omitempty"`
	Authors []*Author `bun:"m2m:book_authors,join:Book=Author" json:"authors,omitempty"`
}

type BookTag struct {
	bun.BaseModel `bun:"table:book_tags,alias:bt"`

	BookID int   `bun:",pk" json:"book_id"`
	Book   *Book `bun:"rel:belongs-to,join:book_id=id" json:"-"`
	TagID  int   `bun:",pk" json:"tag_id"`
	Tag    *Tag  `bun:"rel:belongs-to,join:tag_id=id" json:"-"`
}

type BookAuthor struct {
	bun.BaseModel `bun:"table:book_authors,alias:ba"`

	BookID   int     `bun:",pk" json:"book_id"`
	Book     *Book   `bun:"rel:belongs-to,join:book_id=id" json:"-"`
	AuthorID int     `bun:",pk" json:"author_id"`
	Author   *Author `bun:"rel:belongs-to,join:author_id=id" json:"-"`
}

// RegisterJoinModels registers the many-to-many join models with bun. It has
// to run before any query that loads the Tags or Authors relations.
func RegisterJoinModels(db *bun.DB) {
	db.RegisterModel((*BookTag)(nil), (*BookAuthor)(nil))
}
