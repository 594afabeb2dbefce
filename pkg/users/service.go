package users

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/auth"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/uptrace/bun"
)

type CreateUserOptions struct {
	Email    string
	Name     string
	Password string
}

type UpdateUserOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Create signs up a new user. Emails are unique case-insensitively; a
// duplicate is a validation error rather than a conflict so signup failures
// all surface the same way.
func (svc *Service) Create(ctx context.Context, opts CreateUserOptions) (*models.User, error) {
	exists, err := svc.db.NewSelect().
		Model((*models.User)(nil)).
		Where("u.email = ? COLLATE NOCASE", opts.Email).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if exists {
		return nil, errcodes.ValidationError("A user with this email already exists")
	}

	hash, err := auth.HashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		CreatedAt:    now,
		UpdatedAt:    now,
		Email:        opts.Email,
		Name:         opts.Name,
		PasswordHash: hash,
		IsActive:     true,
	}

	_, err = svc.db.NewInsert().
		Model(user).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return user, nil
}

func (svc *Service) Retrieve(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}

	err := svc.db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}

	return user, nil
}

func (svc *Service) Update(ctx context.Context, user *models.User, opts UpdateUserOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	now := time.Now()
	user.UpdatedAt = now
	columns := make([]string, 0, len(opts.Columns)+1)
	columns = append(columns, opts.Columns...)
	columns = append(columns, "updated_at")

	_, err := svc.db.NewUpdate().
		Model(user).
		Column(columns...).
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}
