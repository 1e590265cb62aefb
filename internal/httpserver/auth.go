package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/layinded/swifter-fs/internal/logging"
	"github.com/layinded/swifter-fs/internal/service"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func newTokenResponse(pair *service.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	}
}

// Login accepts form-encoded username+password and returns a token
// pair. The error message never distinguishes unknown accounts from
// wrong passwords.
func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Username string `form:"username" json:"username"`
		Password string `form:"password" json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusBadRequest, "incorrect email or password")
		case errors.Is(err, service.ErrInactiveAccount):
			return echo.NewHTTPError(http.StatusBadRequest, "inactive user")
		default:
			l.Error("login_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusOK, newTokenResponse(pair))
}

// Refresh exchanges a verified refresh token for a new pair. Invalid,
// expired and revoked tokens all read the same to the caller.
func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken),
			errors.Is(err, service.ErrExpiredToken),
			errors.Is(err, service.ErrTokenRevoked):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired refresh token")
		default:
			l.Error("refresh_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusOK, newTokenResponse(pair))
}

// Revoke logs the session out. Revoking twice succeeds both times.
func (h *AuthHTTP) Revoke(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_revoke")

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Revoke(ctx, req.RefreshToken); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		}
		l.Error("revoke_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "successfully logged out"})
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || len(req.Password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "email and a password of at least 8 characters are required")
	}

	user, err := h.Svc.Register(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			return echo.NewHTTPError(http.StatusBadRequest, "user already exists")
		}
		l.Error("register_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) RecoverPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_recover")

	email := c.Param("email")
	if _, err := h.Svc.RecoverPassword(ctx, email); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "user with this email does not exist")
		case errors.Is(err, service.ErrNotLocalAccount):
			return echo.NewHTTPError(http.StatusBadRequest, "password reset is only available for local users")
		default:
			l.Error("recover_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "password recovery email sent successfully"})
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_reset")

	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if len(req.NewPassword) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "a password of at least 8 characters is required")
	}

	if err := h.Svc.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrExpiredToken):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid or expired token")
		case errors.Is(err, service.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrNotLocalAccount):
			return echo.NewHTTPError(http.StatusBadRequest, "password reset is only available for local users")
		default:
			l.Error("reset_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "password reset successful, you have been logged out"})
}

// Profile echoes the identity established by the auth middleware.
func (h *AuthHTTP) Profile(c echo.Context) error {
	email, _ := c.Get("user_email").(string)
	provider, _ := c.Get("auth_provider").(string)

	user, err := h.Svc.Repo.GetUserByEmail(c.Request().Context(), email)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":            user.ID,
		"email":         user.Email,
		"full_name":     user.FullName,
		"auth_provider": provider,
		"is_active":     user.IsActive,
	})
}
