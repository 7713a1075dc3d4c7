// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/config"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/models"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/repository"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/catalog"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/testutil"
)

func newTestService(t *testing.T) (*catalog.Service, *repository.Repository) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	cfg := &config.CatalogConfig{
		PageSize:        10,
		RenewalWeeks:    3,
		MaxRenewalWeeks: 4,
		ReviewMinLength: 300,
	}
	return catalog.NewService(repo, cfg), repo
}

func TestStats(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	author := testutil.NewTestAuthor(t, repo, "Iain", "Banks")
	book := testutil.NewTestBook(t, repo, "The Wasp Factory", author.ID)
	testutil.NewTestCopy(t, repo, book.ID, models.StatusAvailable, nil)
	testutil.NewTestCopy(t, repo, book.ID, models.StatusMaintenance, nil)

	stats, err := svc.Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Books)
	assert.Equal(t, int64(2), stats.Copies)
	assert.Equal(t, int64(1), stats.CopiesAvailable)
	assert.Equal(t, int64(1), stats.Authors)
}

func TestBooks_Pagination(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	author := testutil.NewTestAuthor(t, repo, "Terry", "Pratchett")
	for _, title := range []string{"Eric", "Hogfather", "Jingo", "Mort", "Pyramids",
		"Small Gods", "Sourcery", "Thud", "Truckers", "Wings", "Wyrd Sisters"} {
		testutil.NewTestBook(t, repo, title, author.ID)
	}

	books, pag, err := svc.Books(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, books, 10)
	assert.Equal(t, int64(11), pag.Total)
	assert.Equal(t, 2, pag.TotalPages)
	assert.True(t, pag.HasNext())
	assert.False(t, pag.HasPrev())

	books, pag, err = svc.Books(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, books, 1)
	assert.False(t, pag.HasNext())
	assert.True(t, pag.HasPrev())
}

func TestBooks_PageOutOfRange_ClampsToLastPage(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	author := testutil.NewTestAuthor(t, repo, "Ursula", "Le Guin")
	testutil.NewTestBook(t, repo, "The Dispossessed", author.ID)

	books, pag, err := svc.Books(ctx, 99)

	require.NoError(t, err)
	assert.Len(t, books, 1)
	assert.Equal(t, 1, pag.Page)
}

func TestBook_WithCopies(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	author := testutil.NewTestAuthor(t, repo, "Mary", "Shelley")
	book := testutil.NewTestBook(t, repo, "Frankenstein", author.ID)
	testutil.NewTestCopy(t, repo, book.ID, models.StatusAvailable, nil)

	got, copies, err := svc.Book(ctx, book.ID)

	require.NoError(t, err)
	assert.Equal(t, "Frankenstein", got.Title)
	require.NotNil(t, got.Author)
	assert.Equal(t, "Shelley, Mary", got.Author.DisplayName())
	assert.Len(t, copies, 1)
}

func TestBook_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Book(context.Background(), 4711)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAuthor_WithBooks(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	author := testutil.NewTestAuthor(t, repo, "Octavia", "Butler")
	testutil.NewTestBook(t, repo, "Kindred", author.ID)
	testutil.NewTestBook(t, repo, "Dawn", author.ID)

	got, books, err := svc.Author(ctx, author.ID)

	require.NoError(t, err)
	assert.Equal(t, "Butler", got.LastName)
	assert.Len(t, books, 2)
	assert.Equal(t, "Dawn", books[0].Title)
}

func TestMyBorrowed_OnlyOwnLoans(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	alice := testutil.NewTestUser(t, repo, "alice", "alice@example.com")
	bob := testutil.NewTestUser(t, repo, "bob", "bob@example.com")
	author := testutil.NewTestAuthor(t, repo, "Frank", "Herbert")
	book := testutil.NewTestBook(t, repo, "Dune", author.ID)
	mine := testutil.NewTestCopy(t, repo, book.ID, models.StatusOnLoan, &alice.ID)
	testutil.NewTestCopy(t, repo, book.ID, models.StatusOnLoan, &bob.ID)
	testutil.NewTestCopy(t, repo, book.ID, models.StatusAvailable, nil)

	copies, err := svc.MyBorrowed(ctx, alice.ID)

	require.NoError(t, err)
	require.Len(t, copies, 1)
	assert.Equal(t, mine.ID, copies[0].ID)
}

func TestAllBorrowed(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	alice := testutil.NewTestUser(t, repo, "alice", "alice@example.com")
	author := testutil.NewTestAuthor(t, repo, "Frank", "Herbert")
	book := testutil.NewTestBook(t, repo, "Dune", author.ID)
	testutil.NewTestCopy(t, repo, book.ID, models.StatusOnLoan, &alice.ID)
	testutil.NewTestCopy(t, repo, book.ID, models.StatusAvailable, nil)

	copies, err := svc.AllBorrowed(ctx)

	require.NoError(t, err)
	assert.Len(t, copies, 1)
}

func TestRenewCopy(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	alice := testutil.NewTestUser(t, repo, "alice", "alice@example.com")
	author := testutil.NewTestAuthor(t, repo, "Frank", "Herbert")
	book := testutil.NewTestBook(t, repo, "Dune", author.ID)
	copy := testutil.NewTestCopy(t, repo, book.ID, models.StatusOnLoan, &alice.ID)

	due := time.Now().AddDate(0, 0, 14)
	err := svc.RenewCopy(ctx, copy.ID, due)

	require.NoError(t, err)
	got, err := repo.GetCopyByID(ctx, copy.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DueBack)
	assert.True(t, got.DueBack.Equal(due.Truncate(24*time.Hour)))
}

func TestRenewCopy_InPast(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	alice := testutil.NewTestUser(t, repo, "alice", "alice@example.com")
	author := testutil.NewTestAuthor(t, repo, "Frank", "Herbert")
	book := testutil.NewTestBook(t, repo, "Dune", author.ID)
	copy := testutil.NewTestCopy(t, repo, book.ID, models.StatusOnLoan, &alice.ID)

	err := svc.RenewCopy(ctx, copy.ID, time.Now().AddDate(0, 0, -1))

	assert.ErrorIs(t, err, catalog.ErrRenewalInPast)
}

func TestRenewCopy_TooFarAhead(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	alice := testutil.NewTestUser(t, repo, "alice", "alice@example.com")
	author := testutil.NewTestAuthor(t, repo, "Frank", "Herbert")
	book := testutil.NewTestBook(t, repo, "Dune", author.ID)
	copy := testutil.NewTestCopy(t, repo, book.ID, models.StatusOnLoan, &alice.ID)

	err := svc.RenewCopy(ctx, copy.ID, time.Now().AddDate(0, 0, 5*7))

	assert.ErrorIs(t, err, catalog.ErrRenewalTooFar)
}

func TestRenewCopy_NotOnLoan(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	author := testutil.NewTestAuthor(t, repo, "Frank", "Herbert")
	book := testutil.NewTestBook(t, repo, "Dune", author.ID)
	copy := testutil.NewTestCopy(t, repo, book.ID, models.StatusAvailable, nil)

	err := svc.RenewCopy(ctx, copy.ID, time.Now().AddDate(0, 0, 14))

	assert.ErrorIs(t, err, catalog.ErrNotOnLoan)
}

func TestRenewCopy_UnknownCopy(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.RenewCopy(context.Background(), uuid.New(), time.Now().AddDate(0, 0, 14))

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDefaultRenewalDate(t *testing.T) {
	svc, _ := newTestService(t)

	due := svc.DefaultRenewalDate()

	expected := time.Now().Truncate(24 * time.Hour).AddDate(0, 0, 21)
	assert.Equal(t, expected, due)
}

func TestReviewBook(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	staff := testutil.NewTestUser(t, repo, "librarian", "librarian@example.com")
	author := testutil.NewTestAuthor(t, repo, "Frank", "Herbert")
	book := testutil.NewTestBook(t, repo, "Dune", author.ID)

	review := ""
	for len(review) < 300 {
		review += "A sweeping story of politics, ecology and prophecy on a desert world. "
	}

	err := svc.ReviewBook(ctx, book.ID, staff.ID, review, true)

	require.NoError(t, err)
	got, err := repo.GetBookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, got.Review)
	assert.True(t, got.IsFavourite)
	require.NotNil(t, got.DateReviewed)
	assert.Empty(t, mustUnreviewed(t, svc))
}

func TestReviewBook_TooShort(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	staff := testutil.NewTestUser(t, repo, "librarian", "librarian@example.com")
	author := testutil.NewTestAuthor(t, repo, "Frank", "Herbert")
	book := testutil.NewTestBook(t, repo, "Dune", author.ID)

	err := svc.ReviewBook(ctx, book.ID, staff.ID, "Great book.", false)

	var tooShort *catalog.ReviewTooShortError
	require.ErrorAs(t, err, &tooShort)
	assert.Equal(t, 300, tooShort.Min)
	assert.Equal(t, len("Great book."), tooShort.Length)

	books := mustUnreviewed(t, svc)
	assert.Len(t, books, 1)
}

func mustUnreviewed(t *testing.T, svc *catalog.Service) []models.Book {
	t.Helper()
	books, err := svc.UnreviewedBooks(context.Background())
	require.NoError(t, err)
	return books
}
