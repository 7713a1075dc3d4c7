// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package server wires configuration, storage, services and routes into
// the running web application.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/config"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/database"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/handlers"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/i18n"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/repository"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/activation"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/auth"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/catalog"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/email"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/oauth"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/session"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database (migrations run on open)
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	repo := repository.New(db)

	// Services
	tokens := activation.NewService(&cfg.Auth)

	emails, err := email.NewService(&cfg.SMTP, cfg.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to init email service: %w", err)
	}

	secure := config.IsSecureBaseURL(cfg.Server.BaseURL)
	sessions, err := session.NewManager(&cfg.Session, secure)
	if err != nil {
		return fmt.Errorf("failed to init session manager: %w", err)
	}

	providers := oauth.NewRegistry(&cfg.OAuth, cfg.Server.BaseURL)
	authSvc := auth.NewService(repo, tokens, emails)
	catalogSvc := catalog.NewService(repo, &cfg.Catalog)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newFormValidator()

	setupMiddleware(e, cfg, sessions, repo)
	setupRoutes(e, handlers.New(authSvc, catalogSvc, sessions, providers))

	return startWithGracefulShutdown(e, cfg)
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
