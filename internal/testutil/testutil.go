// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/database"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/models"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/repository"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestUser creates an activated user with a known password ("sekrit-Pass-123").
func NewTestUser(t *testing.T, repo *repository.Repository, username, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("sekrit-Pass-123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:       username,
		Email:          email,
		PasswordHash:   string(hash),
		IsActive:       true,
		EmailConfirmed: true,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

// NewPendingUser creates a user that has signed up but not yet activated.
func NewPendingUser(t *testing.T, repo *repository.Repository, username, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("sekrit-Pass-123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

// NewTestAuthor creates an author fixture.
func NewTestAuthor(t *testing.T, repo *repository.Repository, firstName, lastName string) *models.Author {
	t.Helper()
	author := &models.Author{FirstName: firstName, LastName: lastName}
	require.NoError(t, repo.CreateAuthor(context.Background(), author))
	return author
}

// NewTestBook creates a book fixture by the given author.
func NewTestBook(t *testing.T, repo *repository.Repository, title string, authorID int64) *models.Book {
	t.Helper()
	book := &models.Book{Title: title, AuthorID: &authorID}
	require.NoError(t, repo.CreateBook(context.Background(), book, nil))
	return book
}

// NewTestCopy creates a copy fixture in the given status. Copies on loan
// get a due-back date three weeks out and the given borrower.
func NewTestCopy(t *testing.T, repo *repository.Repository, bookID int64, status string, borrowerID *int64) *models.BookCopy {
	t.Helper()
	copy := &models.BookCopy{
		ID:      uuid.New(),
		BookID:  &bookID,
		Imprint: "First edition",
		Status:  status,
	}
	if status == models.StatusOnLoan {
		due := time.Now().AddDate(0, 0, 21).Truncate(24 * time.Hour)
		copy.DueBack = &due
		copy.BorrowerID = borrowerID
	}
	require.NoError(t, repo.CreateCopy(context.Background(), copy))
	return copy
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewEchoContextWithHeaders creates an Echo context with custom headers.
func NewEchoContextWithHeaders(e *echo.Echo, method, path string, body io.Reader, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}
