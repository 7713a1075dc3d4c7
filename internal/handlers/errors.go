// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/templates"
)

// NotFound renders the 404 error page.
func NotFound(c echo.Context) error {
	return Render(c, http.StatusNotFound, templates.NotFoundPage())
}

// Forbidden renders the 403 error page.
func Forbidden(c echo.Context) error {
	return Render(c, http.StatusForbidden, templates.ForbiddenPage())
}

// RenderError renders a generic error page with the given status code.
func RenderError(c echo.Context, code int, message string) error {
	title := http.StatusText(code)
	if title == "" {
		title = "Error"
	}
	return Render(c, code, templates.Error(strconv.Itoa(code), title, message))
}
