package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/layinded/swifter-fs/internal/middleware"
	"github.com/layinded/swifter-fs/internal/models"
)

type Deps struct {
	AuthHandler  *AuthHTTP
	OAuthHandler *OAuthHTTP
	AccessSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMw := middleware.NewBearerAuth(d.AccessSecret)

	auth := e.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/token/refresh", d.AuthHandler.Refresh)
	auth.POST("/token/revoke", d.AuthHandler.Revoke)
	auth.POST("/password/recover/:email", d.AuthHandler.RecoverPassword)
	auth.POST("/password/reset", d.AuthHandler.ResetPassword)
	auth.GET("/profile", d.AuthHandler.Profile, authMw.RequireAuth)

	oauth := e.Group("/oauth")
	oauth.GET("/google/auth", d.OAuthHandler.Begin(models.ProviderGoogle))
	oauth.GET("/google/auth/callback", d.OAuthHandler.Callback(models.ProviderGoogle))
	oauth.GET("/facebook/auth", d.OAuthHandler.Begin(models.ProviderFacebook))
	oauth.GET("/facebook/auth/callback", d.OAuthHandler.Callback(models.ProviderFacebook))
}
