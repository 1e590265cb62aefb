package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/layinded/swifter-fs/internal/tokens"
)

type BearerAuth struct {
	AccessSecret []byte
}

func NewBearerAuth(secret []byte) *BearerAuth {
	return &BearerAuth{AccessSecret: secret}
}

// RequireAuth admits requests carrying a valid access token in the
// Authorization header and stashes the verified identity on the echo
// context.
func (m *BearerAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.Parse(strings.TrimPrefix(header, prefix), m.AccessSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set("user_email", claims.Subject)
		c.Set("auth_provider", claims.AuthProvider)

		return next(c)
	}
}
