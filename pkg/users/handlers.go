package users

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/auth"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
)

type handler struct {
	userService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateUserPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.userService.Create(ctx, CreateUserOptions{
		Email:    params.Email,
		Name:     params.Name,
		Password: params.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, user))
}

func (h *handler) me(c echo.Context) error {
	user, ok := auth.UserFromEchoContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	return errors.WithStack(c.JSON(http.StatusOK, user))
}

func (h *handler) updateMe(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := auth.UserFromEchoContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := UpdateUserPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// Keep track of what's been changed.
	opts := UpdateUserOptions{Columns: []string{}}

	if params.Email != nil && *params.Email != user.Email {
		user.Email = *params.Email
		opts.Columns = append(opts.Columns, "email")
	}
	if params.Name != nil && *params.Name != user.Name {
		user.Name = *params.Name
		opts.Columns = append(opts.Columns, "name")
	}
	if params.Password != nil {
		hash, err := auth.HashPassword(*params.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		opts.Columns = append(opts.Columns, "password_hash")
	}

	if err := h.userService.Update(ctx, user, opts); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.userService.Retrieve(ctx, user.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, user))
}
