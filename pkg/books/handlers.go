package books

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/auth"
	"github.com/shelfmark/shelfmark/pkg/authors"
	"github.com/shelfmark/shelfmark/pkg/config"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/shelfmark/shelfmark/pkg/namedresource"
	"github.com/shelfmark/shelfmark/pkg/tags"
	"github.com/uptrace/bun"
)

type handler struct {
	cfg     *config.Config
	svc     *Service
	tags    *namedresource.Service[*models.Tag]
	authors *namedresource.Service[*models.Author]
}

func newHandler(cfg *config.Config, db *bun.DB) *handler {
	return &handler{
		cfg:     cfg,
		svc:     NewService(db),
		tags:    tags.NewService(db),
		authors: authors.NewService(db),
	}
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, ok := auth.UserFromEchoContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	tagIDs, err := parseIDList("tags", params.Tags)
	if err != nil {
		return errors.WithStack(err)
	}
	authorIDs, err := parseIDList("authors", params.Authors)
	if err != nil {
		return errors.WithStack(err)
	}

	books, err := h.svc.ListBooks(ctx, ListBooksOptions{
		UserID:    user.ID,
		TagIDs:    tagIDs,
		AuthorIDs: authorIDs,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, NewBookViews(books)))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, ok := auth.UserFromEchoContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	bookTags, err := h.tags.Reconcile(ctx, user.ID, params.Tags)
	if err != nil {
		return errors.WithStack(err)
	}
	bookAuthors, err := h.authors.Reconcile(ctx, user.ID, params.Authors)
	if err != nil {
		return errors.WithStack(err)
	}

	book := &models.Book{
		UserID:      user.ID,
		Title:       params.Title,
		Price:       params.Price,
		Link:        params.Link,
		Description: params.Description,
		Tags:        bookTags,
		Authors:     bookAuthors,
	}

	err = h.svc.CreateBook(ctx, book)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, NewBookDetailView(book)))
}

func (h *handler) retrieve(c echo.Context) error {
	book, err := h.retrieveOwned(c)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, NewBookDetailView(book)))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	book, err := h.retrieveOwned(c)
	if err != nil {
		return errors.WithStack(err)
	}

	params := UpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateBookOptions{}

	if params.Title != nil && *params.Title != book.Title {
		book.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.Price != nil && *params.Price != book.Price {
		book.Price = *params.Price
		opts.Columns = append(opts.Columns, "price")
	}
	if params.Link != nil {
		book.Link = params.Link
		opts.Columns = append(opts.Columns, "link")
	}
	if params.Description != nil {
		book.Description = params.Description
		opts.Columns = append(opts.Columns, "description")
	}

	if params.Tags != nil {
		book.Tags, err = h.tags.Reconcile(ctx, book.UserID, *params.Tags)
		if err != nil {
			return errors.WithStack(err)
		}
		opts.ReplaceTags = true
	}
	if params.Authors != nil {
		book.Authors, err = h.authors.Reconcile(ctx, book.UserID, *params.Authors)
		if err != nil {
			return errors.WithStack(err)
		}
		opts.ReplaceAuthors = true
	}

	err = h.svc.UpdateBook(ctx, book, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, NewBookDetailView(book)))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	user, ok := auth.UserFromEchoContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	err = h.svc.DeleteBook(ctx, user.ID, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// retrieveOwned resolves the :id path param to a book owned by the
// authenticated user.
func (h *handler) retrieveOwned(c echo.Context) (*models.Book, error) {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return nil, errcodes.NotFound("Book")
	}

	user, ok := auth.UserFromEchoContext(c)
	if !ok {
		return nil, errcodes.Unauthorized("Authentication required")
	}

	return h.svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &id, UserID: &user.ID})
}

// parseIDList parses a comma-separated list of integer ids from a query
// param.
func parseIDList(param string, value *string) ([]int, error) {
	if value == nil {
		return nil, nil
	}

	parts := strings.Split(*value, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, errcodes.ValidationError(fmt.Sprintf(`"%s" must be a comma-separated list of ids`, param))
		}
		ids = append(ids, id)
	}

	return ids, nil
}
