// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers contains the HTTP handlers for all pages.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/appcontext"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/auth"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/catalog"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/oauth"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/session"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/templates"
)

// visitsCookie tracks how often a browser has seen the home page.
const visitsCookie = "_visits"

// Handlers contains all HTTP handlers.
type Handlers struct {
	auth     *auth.Service
	catalog  *catalog.Service
	sessions *session.Manager
	oauth    *oauth.Registry
}

// New creates a new Handlers instance.
func New(authSvc *auth.Service, catalogSvc *catalog.Service, sessions *session.Manager, providers *oauth.Registry) *Handlers {
	return &Handlers{
		auth:     authSvc,
		catalog:  catalogSvc,
		sessions: sessions,
		oauth:    providers,
	}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Home renders the home page with the catalog counters and a per-browser
// visit count.
func (h *Handlers) Home(c echo.Context) error {
	stats, err := h.catalog.Stats(c.Request().Context())
	if err != nil {
		return err
	}

	visits := 1
	if cookie, err := c.Cookie(visitsCookie); err == nil {
		if prev, err := strconv.Atoi(cookie.Value); err == nil && prev >= 0 {
			visits = prev + 1
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     visitsCookie,
		Value:    strconv.Itoa(visits),
		Path:     "/",
		HttpOnly: true,
	})

	ctx := appcontext.WithVisits(c.Request().Context(), visits)
	c.SetRequest(c.Request().WithContext(ctx))

	return Render(c, http.StatusOK, templates.Home(templates.HomeStats{
		Books:           stats.Books,
		Copies:          stats.Copies,
		CopiesAvailable: stats.CopiesAvailable,
		Authors:         stats.Authors,
	}, visits))
}
