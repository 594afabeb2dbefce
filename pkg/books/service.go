package books

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID     *int
	UserID *int
}

type ListBooksOptions struct {
	UserID    int
	TagIDs    []int
	AuthorIDs []int
}

type UpdateBookOptions struct {
	Columns        []string
	ReplaceTags    bool
	ReplaceAuthors bool
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateBook inserts the book along with association rows for the records in
// book.Tags and book.Authors. The records themselves must already exist
// (reconciliation runs before this).
func (svc *Service) CreateBook(ctx context.Context, book *models.Book) error {
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		if err := insertBookTags(ctx, tx, book.ID, book.Tags); err != nil {
			return err
		}
		return insertBookAuthors(ctx, tx, book.ID, book.Authors)
	})
	return errors.WithStack(err)
}

// RetrieveBook loads a book with its tags and authors. When UserID is set,
// a book owned by a different user is reported as not found.
func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.NewSelect().
		Model(book).
		Relation("Tags").
		Relation("Authors")

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}
	if opts.UserID != nil {
		q = q.Where("b.user_id = ?", *opts.UserID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// ListBooks returns the owner's books, newest first. Tag and author id
// filters each select books referencing any of the given ids (union within a
// kind, intersection across kinds); the IN subqueries keep the result free of
// duplicates when a book matches several filter ids.
func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	books := []*models.Book{}

	q := svc.db.NewSelect().
		Model(&books).
		Relation("Tags").
		Relation("Authors").
		Where("b.user_id = ?", opts.UserID).
		Order("b.id DESC")

	if len(opts.TagIDs) > 0 {
		q = q.Where("b.id IN (SELECT book_id FROM book_tags WHERE tag_id IN (?))", bun.In(opts.TagIDs))
	}
	if len(opts.AuthorIDs) > 0 {
		q = q.Where("b.id IN (SELECT book_id FROM book_authors WHERE author_id IN (?))", bun.In(opts.AuthorIDs))
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return books, nil
}

// UpdateBook updates the changed columns and, when a nested collection key
// was present in the payload, replaces the corresponding association set in
// full with the records in book.Tags / book.Authors.
func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts UpdateBookOptions) error {
	if len(opts.Columns) == 0 && !opts.ReplaceTags && !opts.ReplaceAuthors {
		return nil
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if opts.ReplaceTags {
			// Clear all previous associations and save the new set.
			_, err := tx.NewDelete().
				Model((*models.BookTag)(nil)).
				Where("book_id = ?", book.ID).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			if err := insertBookTags(ctx, tx, book.ID, book.Tags); err != nil {
				return err
			}
		}

		if opts.ReplaceAuthors {
			_, err := tx.NewDelete().
				Model((*models.BookAuthor)(nil)).
				Where("book_id = ?", book.ID).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			if err := insertBookAuthors(ctx, tx, book.ID, book.Authors); err != nil {
				return err
			}
		}

		// Update updated_at. Copy the column list so the caller's slice is
		// never written through.
		now := time.Now()
		book.UpdatedAt = now
		columns := make([]string, 0, len(opts.Columns)+1)
		columns = append(columns, opts.Columns...)
		columns = append(columns, "updated_at")

		_, err := tx.NewUpdate().
			Model(book).
			Column(columns...).
			WherePK().
			Exec(ctx)
		return errors.WithStack(err)
	})
	return errors.WithStack(err)
}

// DeleteBook removes an owned book and its association rows. Referenced tags
// and authors stay behind even when this was their last book.
func (svc *Service) DeleteBook(ctx context.Context, userID, id int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.BookTag)(nil)).
			Where("book_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.BookAuthor)(nil)).
			Where("book_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model((*models.Book)(nil)).
			Where("id = ?", id).
			Where("user_id = ?", userID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Book")
		}

		return nil
	})
}

func insertBookTags(ctx context.Context, tx bun.Tx, bookID int, tags []*models.Tag) error {
	if len(tags) == 0 {
		return nil
	}

	rows := make([]*models.BookTag, len(tags))
	for i, tag := range tags {
		rows[i] = &models.BookTag{BookID: bookID, TagID: tag.ID}
	}

	_, err := tx.NewInsert().
		Model(&rows).
		Ignore().
		Exec(ctx)
	return errors.WithStack(err)
}

func insertBookAuthors(ctx context.Context, tx bun.Tx, bookID int, authors []*models.Author) error {
	if len(authors) == 0 {
		return nil
	}

	rows := make([]*models.BookAuthor, len(authors))
	for i, author := range authors {
		rows[i] = &models.BookAuthor{BookID: bookID, AuthorID: author.ID}
	}

	_, err := tx.NewInsert().
		Model(&rows).
		Ignore().
		Exec(ctx)
	return errors.WithStack(err)
}
