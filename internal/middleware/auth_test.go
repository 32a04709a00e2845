package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tradeledger/internal/domain"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func newAuthedContext(t *testing.T, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/user/dashboard", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestGenerateJWT_RoundTrip(t *testing.T) {
	accountID := uuid.New()
	account := &domain.Account{ID: accountID, Username: "trader1", Role: domain.RoleUser}

	token, err := GenerateJWT(accountID, domain.RoleUser)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	resolver := new(mockResolver)
	resolver.On("GetByID", mock.Anything, accountID).Return(account, nil)

	c, _ := newAuthedContext(t, token)
	err = RequireAuth(resolver)(okHandler)(c)

	assert.NoError(t, err)
	assert.Equal(t, account, CurrentAccount(c))
}

func TestRequireAuth_MissingToken(t *testing.T) {
	resolver := new(mockResolver)

	c, _ := newAuthedContext(t, "")
	err := RequireAuth(resolver)(okHandler)(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	resolver.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	resolver := new(mockResolver)

	c, _ := newAuthedContext(t, "not.a.jwt")
	err := RequireAuth(resolver)(okHandler)(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireAuth_DeletedAccount(t *testing.T) {
	accountID := uuid.New()

	token, err := GenerateJWT(accountID, domain.RoleUser)
	assert.NoError(t, err)

	// Valid token, but the account behind it is gone
	resolver := new(mockResolver)
	resolver.On("GetByID", mock.Anything, accountID).Return(nil, domain.ErrNotFound)

	c, _ := newAuthedContext(t, token)
	err = RequireAuth(resolver)(okHandler)(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireAuthWeb_RedirectsToLogin(t *testing.T) {
	resolver := new(mockResolver)

	c, rec := newAuthedContext(t, "")
	err := RequireAuthWeb(resolver)(okHandler)(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/login")
}

func TestRequireAdminWeb(t *testing.T) {
	t.Run("admin passes", func(t *testing.T) {
		c, _ := newAuthedContext(t, "")
		c.Set(accountContextKey, &domain.Account{Role: domain.RoleAdmin})

		err := RequireAdminWeb()(okHandler)(c)
		assert.NoError(t, err)
	})

	t.Run("user is redirected", func(t *testing.T) {
		c, rec := newAuthedContext(t, "")
		c.Set(accountContextKey, &domain.Account{Role: domain.RoleUser})

		err := RequireAdminWeb()(okHandler)(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Location"), "/login")
	})
}

func TestOptionalAuthWeb_NeverRejects(t *testing.T) {
	resolver := new(mockResolver)

	c, rec := newAuthedContext(t, "")
	err := OptionalAuthWeb(resolver)(okHandler)(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, CurrentAccount(c))
}

func TestSessionCookie(t *testing.T) {
	cookie := SessionCookie("abc")
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, "abc", cookie.Value)
	assert.True(t, cookie.HttpOnly)

	cleared := ClearSessionCookie()
	assert.Equal(t, SessionCookieName, cleared.Name)
	assert.Equal(t, -1, cleared.MaxAge)
}
