// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/config"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/handlers"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/i18n"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/repository"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/activation"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/auth"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/catalog"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/email"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/oauth"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/session"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/testutil"
)

func init() {
	// Initialize i18n for template rendering
	_ = i18n.Init()
}

// validHashKey for session manager in tests
const testHashKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

type fakeSender struct {
	bodies []string
	err    error
}

func (f *fakeSender) Send(_, _, body string) error {
	if f.err != nil {
		return f.err
	}
	f.bodies = append(f.bodies, body)
	return nil
}

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
	return e
}

func newTestHandlers(t *testing.T) (*handlers.Handlers, *repository.Repository, *fakeSender) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)

	tokens := activation.NewService(&config.AuthConfig{
		SecretKey:            "test-secret-key",
		ActivationExpiryDays: 3,
	})
	sender := &fakeSender{}
	emails := email.NewServiceWithSender(sender, "http://localhost:8080")
	authSvc := auth.NewService(repo, tokens, emails)

	catalogSvc := catalog.NewService(repo, &config.CatalogConfig{
		PageSize:        10,
		RenewalWeeks:    3,
		MaxRenewalWeeks: 4,
		ReviewMinLength: 300,
	})

	sessions, err := session.NewManager(&config.SessionConfig{
		CookieName: "_session",
		MaxAge:     3600,
		HashKey:    testHashKey,
	}, false)
	require.NoError(t, err)

	providers := oauth.NewRegistry(&config.OAuthConfig{}, "http://localhost:8080")

	return handlers.New(authSvc, catalogSvc, sessions, providers), repo, sender
}

func TestNew(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	assert.NotNil(t, h)
}

func TestHealth(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	e := newTestEcho()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/health", nil)

	err := h.Health(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHome(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	author := testutil.NewTestAuthor(t, repo, "Mary", "Shelley")
	testutil.NewTestBook(t, repo, "Frankenstein", author.ID)

	e := newTestEcho()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/", nil)

	err := h.Home(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<!doctype html>")
}

func TestHome_CountsVisits(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "_visits", Value: "3"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Home(c)

	require.NoError(t, err)
	var visits string
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "_visits" {
			visits = cookie.Value
		}
	}
	assert.Equal(t, "4", visits)
}

func TestBooks(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	author := testutil.NewTestAuthor(t, repo, "Mary", "Shelley")
	testutil.NewTestBook(t, repo, "Frankenstein", author.ID)

	e := newTestEcho()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/books", nil)

	err := h.Books(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Frankenstein")
}

func TestBookDetail_NotFound(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	e := newTestEcho()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/books/999", nil)
	c.SetParamNames("id")
	c.SetParamValues("999")

	err := h.BookDetail(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthorDetail(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	author := testutil.NewTestAuthor(t, repo, "Mary", "Shelley")
	testutil.NewTestBook(t, repo, "Frankenstein", author.ID)

	e := newTestEcho()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/authors/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.AuthorDetail(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Shelley, Mary")
	assert.Contains(t, rec.Body.String(), "Frankenstein")
}

func formRequest(e *echo.Echo, path string, form string) (echo.Context, *httptest.ResponseRecorder) {
	return testutil.NewEchoContext(e, http.MethodPost, path, strings.NewReader(form))
}
