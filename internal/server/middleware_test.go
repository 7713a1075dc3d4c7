// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/appcontext"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/config"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/i18n"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/models"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/session"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/testutil"
)

const testHashKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func newTestSessionManager(t *testing.T) *session.Manager {
	t.Helper()
	mgr, err := session.NewManager(&config.SessionConfig{
		CookieName: "_session",
		MaxAge:     3600,
		HashKey:    testHashKey,
	}, false)
	require.NoError(t, err)
	return mgr
}

func TestI18nMiddleware(t *testing.T) {
	// Initialize i18n bundle
	require.NoError(t, i18n.Init())

	e := echo.New()
	e.Use(i18nMiddleware())

	var locale string
	e.GET("/", func(c echo.Context) error {
		locale = i18n.GetLocale(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	t.Run("English header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "en-US")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.True(t, strings.HasPrefix(locale, "en"), "expected locale to start with 'en', got %s", locale)
	})

	t.Run("German header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "de-DE")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.True(t, strings.HasPrefix(locale, "de"), "expected locale to start with 'de', got %s", locale)
	})
}

func TestLoadUser_NoSession(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	sessions := newTestSessionManager(t)

	e := echo.New()
	e.Use(loadUser(sessions, repo))

	var contextUser *models.User
	e.GET("/", func(c echo.Context) error {
		contextUser = appcontext.GetUser(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, contextUser)
}

func TestLoadUser_WithSession(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	user := testutil.NewTestUser(t, repo, "testuser", "test@example.com")
	sessions := newTestSessionManager(t)

	cookie, err := sessions.Create(user.ID, user.Username, user.IsStaff)
	require.NoError(t, err)

	e := echo.New()
	e.Use(loadUser(sessions, repo))

	var contextUser *models.User
	e.GET("/", func(c echo.Context) error {
		contextUser = appcontext.GetUser(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, contextUser)
	assert.Equal(t, user.ID, contextUser.ID)
}

func TestLoadUser_InvalidCookie(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	sessions := newTestSessionManager(t)

	e := echo.New()
	e.Use(loadUser(sessions, repo))

	var contextUser *models.User
	e.GET("/", func(c echo.Context) error {
		contextUser = appcontext.GetUser(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "_session", Value: "invalid-cookie-data"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, contextUser) // No user since cookie was invalid
}

func TestLoadUser_UserNotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	sessions := newTestSessionManager(t)

	// Valid session cookie for a non-existent user
	cookie, err := sessions.Create(99999, "nonexistent", false)
	require.NoError(t, err)

	e := echo.New()
	e.Use(loadUser(sessions, repo))

	var contextUser *models.User
	e.GET("/", func(c echo.Context) error {
		contextUser = appcontext.GetUser(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, contextUser)
}

func TestLoadUser_DeactivatedAccount(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	user := testutil.NewPendingUser(t, repo, "pending", "pending@example.com")
	sessions := newTestSessionManager(t)

	cookie, err := sessions.Create(user.ID, user.Username, false)
	require.NoError(t, err)

	e := echo.New()
	e.Use(loadUser(sessions, repo))

	var contextUser *models.User
	e.GET("/", func(c echo.Context) error {
		contextUser = appcontext.GetUser(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, contextUser) // Stale session for an inactive account
}

func TestRequireAuth_NotAuthenticated(t *testing.T) {
	e := echo.New()
	e.Use(requireAuth)

	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireAuth_Authenticated(t *testing.T) {
	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := appcontext.WithUser(c.Request().Context(), &models.User{ID: 1, Username: "test"})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})
	e.Use(requireAuth)

	e.GET("/protected", func(c echo.Context) error {
		return c.String(http.StatusOK, "protected content")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "protected content", rec.Body.String())
}

func TestRequireStaff_NonStaffUser(t *testing.T) {
	require.NoError(t, i18n.Init())

	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := appcontext.WithUser(c.Request().Context(), &models.User{ID: 1, Username: "test"})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})
	e.Use(requireStaff)

	e.GET("/staff", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/staff", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireStaff_StaffUser(t *testing.T) {
	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := appcontext.WithUser(c.Request().Context(), &models.User{ID: 1, Username: "admin", IsStaff: true})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})
	e.Use(requireStaff)

	e.GET("/staff", func(c echo.Context) error {
		return c.String(http.StatusOK, "staff content")
	})

	req := httptest.NewRequest(http.MethodGet, "/staff", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "staff content", rec.Body.String())
}

func TestCsrfMiddleware(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			BaseURL: "http://localhost:8080",
		},
	}

	mw := csrfMiddleware(cfg)

	assert.NotNil(t, mw)
}

func TestCsrfToContext_WithToken(t *testing.T) {
	e := echo.New()

	// Middleware that sets a fake CSRF token
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("csrf", "test-token")
			return next(c)
		}
	})
	e.Use(csrfToContext())

	var csrfToken string
	e.GET("/", func(c echo.Context) error {
		if token := c.Request().Context().Value(appcontext.CSRFToken{}); token != nil {
			csrfToken = token.(string)
		}
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test-token", csrfToken)
}

func TestCsrfToContext_WithoutToken(t *testing.T) {
	e := echo.New()
	e.Use(csrfToContext())

	var csrfToken string
	e.GET("/", func(c echo.Context) error {
		if token := c.Request().Context().Value(appcontext.CSRFToken{}); token != nil {
			csrfToken = token.(string)
		}
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, csrfToken)
}
