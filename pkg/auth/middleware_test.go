package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiddlewareTestContext(t *testing.T, authHeader string) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}

func TestMiddlewareAuthenticate_ValidToken(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, testJWTSecret)
	mw := NewMiddleware(svc)
	ctx := context.Background()
	user := createTestUser(ctx, t, db, "mw-valid@example.com", "password123", true)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	c := newMiddlewareTestContext(t, "Bearer "+token)

	called := false
	err = mw.Authenticate(func(c echo.Context) error {
		called = true
		ctxUser, ok := UserFromEchoContext(c)
		require.True(t, ok)
		assert.Equal(t, user.ID, ctxUser.ID)
		return nil
	})(c)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestMiddlewareAuthenticate_MissingHeader(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	mw := NewMiddleware(NewService(db, testJWTSecret))

	c := newMiddlewareTestContext(t, "")

	err := mw.Authenticate(func(c echo.Context) error {
		t.Fatal("next handler should not run")
		return nil
	})(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, http.StatusUnauthorized, codeErr.HTTPCode)
}

func TestMiddlewareAuthenticate_MalformedHeader(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	mw := NewMiddleware(NewService(db, testJWTSecret))

	c := newMiddlewareTestContext(t, "Token abc123")

	err := mw.Authenticate(func(c echo.Context) error {
		t.Fatal("next handler should not run")
		return nil
	})(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, http.StatusUnauthorized, codeErr.HTTPCode)
}

func TestMiddlewareAuthenticate_InvalidToken(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	mw := NewMiddleware(NewService(db, testJWTSecret))

	c := newMiddlewareTestContext(t, "Bearer not.a.valid.token")

	err := mw.Authenticate(func(c echo.Context) error {
		t.Fatal("next handler should not run")
		return nil
	})(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, http.StatusUnauthorized, codeErr.HTTPCode)
}

func TestMiddlewareAuthenticate_DeactivatedUser(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, testJWTSecret)
	mw := NewMiddleware(svc)
	ctx := context.Background()
	user := createTestUser(ctx, t, db, "mw-deactivated@example.com", "password123", true)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	// Deactivate after the token was issued.
	_, err = db.NewUpdate().
		Model(user).
		Set("is_active = ?", false).
		WherePK().
		Exec(ctx)
	require.NoError(t, err)

	c := newMiddlewareTestContext(t, "Bearer "+token)

	err = mw.Authenticate(func(c echo.Context) error {
		t.Fatal("next handler should not run")
		return nil
	})(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, http.StatusUnauthorized, codeErr.HTTPCode)
}
