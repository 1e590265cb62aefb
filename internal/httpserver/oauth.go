package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/layinded/swifter-fs/internal/federation"
	"github.com/layinded/swifter-fs/internal/logging"
	"github.com/layinded/swifter-fs/internal/service"
)

const stateCookie = "oauth_state"

type OAuthHTTP struct {
	Svc     *service.AuthService
	Clients *federation.Clients
}

// Begin redirects to the provider's consent page, stashing a one-shot
// state value in an HttpOnly cookie for the callback to compare.
func (h *OAuthHTTP) Begin(provider string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !h.Clients.Enabled(provider) {
			return echo.NewHTTPError(http.StatusBadRequest, provider+" login is disabled")
		}

		state := uuid.NewString()
		authURL, err := h.Clients.AuthCodeURL(provider, state)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, provider+" login is disabled")
		}

		c.SetCookie(createCookie(stateCookie, state, "/", time.Now().Add(10*time.Minute)))
		return c.Redirect(http.StatusTemporaryRedirect, authURL)
	}
}

// Callback validates state before any token-exchange call, trades the
// code for a provider token, resolves the identity to a local account
// and issues a session pair.
func (h *OAuthHTTP) Callback(provider string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("handler", "oauth_callback", "provider", provider)

		state := c.QueryParam("state")
		code := c.QueryParam("code")
		if state == "" || code == "" {
			l.Warn("callback_rejected", "status", 400, "reason", "missing state or code")
			return echo.NewHTTPError(http.StatusBadRequest, "missing state or authorization code")
		}

		stored, err := c.Cookie(stateCookie)
		if err != nil || stored.Value == "" || stored.Value != state {
			l.Warn("callback_rejected", "status", 400, "reason", "state mismatch")
			return echo.NewHTTPError(http.StatusBadRequest, "invalid oauth state")
		}
		c.SetCookie(deleteCookie(stateCookie, "/"))

		tok, err := h.Clients.Exchange(ctx, provider, code)
		if err != nil {
			l.Error("callback_failed", "status", 502, "reason", "code exchange failed", "error", err)
			return echo.NewHTTPError(http.StatusBadGateway, "failed to fetch token from "+provider)
		}

		userInfo, err := h.Clients.FetchUserInfo(ctx, provider, tok)
		if err != nil {
			l.Error("callback_failed", "status", 502, "reason", "user info fetch failed", "error", err)
			return echo.NewHTTPError(http.StatusBadGateway, "failed to fetch user info from "+provider)
		}

		email, _ := userInfo["email"].(string)
		if email == "" {
			l.Warn("callback_rejected", "status", 400, "reason", "account missing email")
			return echo.NewHTTPError(http.StatusBadRequest, provider+" account missing email")
		}

		user, err := h.Svc.ResolveOrCreate(ctx, email, userInfo, provider)
		if err != nil {
			if errors.Is(err, service.ErrMissingProviderID) {
				return echo.NewHTTPError(http.StatusBadRequest, "provider payload missing subject identifier")
			}
			l.Error("callback_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "authentication failed")
		}

		pair, err := h.Svc.IssueSessionPair(ctx, user.Email, user.AuthProvider)
		if err != nil {
			l.Error("callback_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "authentication failed")
		}

		return c.JSON(http.StatusOK, newTokenResponse(pair))
	}
}
