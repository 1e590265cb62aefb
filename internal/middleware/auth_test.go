package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layinded/swifter-fs/internal/tokens"
)

var testSecret = []byte("test-access-secret")

func doRequest(t *testing.T, authHeader string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := NewBearerAuth(testSecret)
	handler := mw.RequireAuth(func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"email":    c.Get("user_email"),
			"provider": c.Get("auth_provider"),
		})
	})
	return rec, handler(c)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	t.Parallel()

	token, err := tokens.New("a@x.com", "google", 15*time.Minute, testSecret)
	require.NoError(t, err)

	rec, err := doRequest(t, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@x.com")
	assert.Contains(t, rec.Body.String(), "google")
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	t.Parallel()

	_, err := doRequest(t, "")
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	token, err := tokens.New("a@x.com", "local", -time.Minute, testSecret)
	require.NoError(t, err)

	_, err = doRequest(t, "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_RefreshSecretTokenRejected(t *testing.T) {
	t.Parallel()

	token, err := tokens.New("a@x.com", "local", 15*time.Minute, []byte("test-refresh-secret"))
	require.NoError(t, err)

	_, err = doRequest(t, "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}
