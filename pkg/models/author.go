package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    int       `bun:",nullzero" json:"user_id"`
	Name      string    `bun:",nullzero" json:"name"`
}

func (a *Author) GetID() int { return a.ID }

func (a *Author) GetUserID() int { return a.UserID }

func (a *Author) SetUserID(userID int) { a.UserID = userID }

func (a *Author) GetName() string { return a.Name }

func (a *Author) SetName(name string) { a.Name = name }
func (a *Author) Touch(now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
}
