// Package namedresource implements the shared behavior of owner-scoped named
// entities (tags and authors): list/update/delete keyed by owner+id, and the
// find-or-create reconciliation used when books submit nested descriptors.
package namedresource

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/uptrace/bun"
)

// Record is implemented by the entity models this package can manage.
type Record interface {
	GetID() int
	GetUserID() int
	SetUserID(userID int)
	GetName() string
	SetName(name string)
	Touch(now time.Time)
}

// Config describes one entity kind.
type Config struct {
	Resource   string // resource name for error messages, e.g. "Tag"
	JoinTable  string // book association table, e.g. "book_tags"
	JoinColumn string // entity FK column in the join table, e.g. "tag_id"
}

// Descriptor is a nested sub-resource reference submitted as part of a book
// payload. Reconciliation resolves it to an existing or new record. The
// notblank rule fails whitespace-only names at bind time, before any
// reconciliation for either kind has written to the store.
type Descriptor struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

type ListOptions struct {
	UserID       int
	AssignedOnly bool
}

type UpdateOptions struct {
	Columns []string
}

type Service[T Record] struct {
	db      *bun.DB
	cfg     Config
	factory func() T
}

func NewService[T Record](db *bun.DB, cfg Config, factory func() T) *Service[T] {
	return &Service[T]{db: db, cfg: cfg, factory: factory}
}

// Retrieve loads a record by id, scoped to the owner. A record owned by a
// different user is indistinguishable from an absent one.
func (svc *Service[T]) Retrieve(ctx context.Context, userID, id int) (T, error) {
	rec := svc.factory()

	err := svc.db.NewSelect().
		Model(rec).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, errcodes.NotFound(svc.cfg.Resource)
		}
		return zero, errors.WithStack(err)
	}

	return rec, nil
}

// FindOrCreate resolves (owner, name) to a record, inserting one when absent.
// The look-then-create is not atomic: concurrent identical requests can both
// insert, leaving duplicate rows. Accepted gap, see the schema migration.
func (svc *Service[T]) FindOrCreate(ctx context.Context, userID int, name string) (T, error) {
	var zero T

	rec := svc.factory()
	err := svc.db.NewSelect().
		Model(rec).
		Where("?TableAlias.user_id = ?", userID).
		Where("?TableAlias.name = ?", name).
		OrderExpr("?TableAlias.id ASC").
		Limit(1).
		Scan(ctx)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return zero, errors.WithStack(err)
	}

	rec = svc.factory()
	rec.SetUserID(userID)
	rec.SetName(name)
	rec.Touch(time.Now())

	_, err = svc.db.NewInsert().
		Model(rec).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return zero, errors.WithStack(err)
	}

	return rec, nil
}

// Reconcile resolves an ordered sequence of descriptors to owned records,
// creating the ones that don't exist yet. Duplicate names collapse onto one
// record, so the result may be shorter than the input. Every descriptor is
// validated before the store is touched so a malformed entry can't leave
// earlier creations behind.
func (svc *Service[T]) Reconcile(ctx context.Context, userID int, descriptors []Descriptor) ([]T, error) {
	names := make([]string, len(descriptors))
	for i, d := range descriptors {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, errcodes.ValidationError(`"name" is required`)
		}
		names[i] = name
	}

	resolved := make([]T, 0, len(names))
	seen := make(map[int]bool, len(names))
	for _, name := range names {
		rec, err := svc.FindOrCreate(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		if seen[rec.GetID()] {
			continue
		}
		seen[rec.GetID()] = true
		resolved = append(resolved, rec)
	}

	return resolved, nil
}

// List returns the owner's records ordered by name descending. With
// AssignedOnly set, only records referenced by at least one book are
// returned; the subquery de-duplicates records referenced by several books.
func (svc *Service[T]) List(ctx context.Context, opts ListOptions) ([]T, error) {
	recs := []T{}

	q := svc.db.NewSelect().
		Model(&recs).
		Where("?TableAlias.user_id = ?", opts.UserID).
		OrderExpr("?TableAlias.name DESC")

	if opts.AssignedOnly {
		q = q.Where("?TableAlias.id IN (SELECT ? FROM ?)", bun.Ident(svc.cfg.JoinColumn), bun.Ident(svc.cfg.JoinTable))
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return recs, nil
}

func (svc *Service[T]) Update(ctx context.Context, rec T, opts UpdateOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	rec.Touch(time.Now())
	columns := make([]string, 0, len(opts.Columns)+1)
	columns = append(columns, opts.Columns...)
	columns = append(columns, "updated_at")

	_, err := svc.db.NewUpdate().
		Model(rec).
		Column(columns...).
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}

// Delete removes an owned record along with its book association rows. The
// books themselves are untouched.
func (svc *Service[T]) Delete(ctx context.Context, userID, id int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewRaw("DELETE FROM ? WHERE ? = ?", bun.Ident(svc.cfg.JoinTable), bun.Ident(svc.cfg.JoinColumn), id).Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model(svc.factory()).
			Where("?TableAlias.id = ?", id).
			Where("?TableAlias.user_id = ?", userID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound(svc.cfg.Resource)
		}

		return nil
	})
}
