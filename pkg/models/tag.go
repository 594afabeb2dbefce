package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    int       `bun:",nullzero" json:"user_id"`
	Name      string    `bun:",nullzero" json:"name"`
}

func (t *Tag) GetID() int { return t.ID }

func (t *Tag) GetUserID() int { return t.UserID }

func (t *Tag) SetUserID(userID int) { t.UserID = userID }

func (t *Tag) GetName() string { return t.Name }

func (t *Tag) SetName(name string) { t.Name = name }
func (t *Tag) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}
