package namedresource

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/auth"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
)

// View is the wire representation of a named resource, both standalone and
// nested inside a book.
type View struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// NewView builds the wire representation of a record.
func NewView[T Record](rec T) View {
	return View{ID: rec.GetID(), Name: rec.GetName()}
}

// NewViews builds wire representations for a slice of records.
func NewViews[T Record](recs []T) []View {
	views := make([]View, len(recs))
	for i, rec := range recs {
		views[i] = NewView(rec)
	}
	return views
}

// Handler serves the HTTP surface shared by the tag and author endpoints.
type Handler[T Record] struct {
	svc *Service[T]
}

func NewHandler[T Record](svc *Service[T]) *Handler[T] {
	return &Handler[T]{svc: svc}
}

func (h *Handler[T]) List(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, ok := auth.UserFromEchoContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	recs, err := h.svc.List(ctx, ListOptions{
		UserID:       user.ID,
		AssignedOnly: params.AssignedOnly == 1,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, NewViews(recs)))
}

func (h *Handler[T]) Update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound(h.svc.cfg.Resource)
	}

	params := UpdatePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, ok := auth.UserFromEchoContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	rec, err := h.svc.Retrieve(ctx, user.ID, id)
	if err != nil {
		return errors.WithStack(err)
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return errcodes.ValidationError(`"name" is required`)
		}
		if name != rec.GetName() {
			rec.SetName(name)
			err = h.svc.Update(ctx, rec, UpdateOptions{Columns: []string{"name"}})
			if err != nil {
				return errors.WithStack(err)
			}
		}
	}

	return errors.WithStack(c.JSON(http.StatusOK, NewView(rec)))
}

func (h *Handler[T]) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound(h.svc.cfg.Resource)
	}

	user, ok := auth.UserFromEchoContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	err = h.svc.Delete(ctx, user.ID, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
