package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/layinded/swifter-fs/internal/audit"
	"github.com/layinded/swifter-fs/internal/config"
	"github.com/layinded/swifter-fs/internal/events"
	"github.com/layinded/swifter-fs/internal/federation"
	"github.com/layinded/swifter-fs/internal/httpserver"
	"github.com/layinded/swifter-fs/internal/logging"
	"github.com/layinded/swifter-fs/internal/repo"
	"github.com/layinded/swifter-fs/internal/service"
)

func main() {
	cfg := config.Load()
	cfg.MustValidate()

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.EventsTopic)
	defer producer.Close()

	var recorder *audit.Recorder
	if cfg.ESURL != "" {
		esClient, err := audit.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("audit init error: %v", err)
		}
		recorder = audit.NewRecorder(esClient, cfg.AuditIndex)
	}

	svc := &service.AuthService{
		Repo:          &repo.Repo{DB: db},
		AccessSecret:  cfg.AccessSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
		ResetTTL:      cfg.ResetTokenTTL,
		Events:        producer,
		Audit:         recorder,
	}

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:  &httpserver.AuthHTTP{Svc: svc},
		OAuthHandler: &httpserver.OAuthHTTP{Svc: svc, Clients: federation.New(cfg.Social)},
		AccessSecret: cfg.AccessSecret,
	})

	go func() {
		if err := e.Start(cfg.ServerAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
