// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/models"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/repository"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/testutil"
)

func TestCreateAuthor(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	author := &models.Author{FirstName: "Mary", LastName: "Shelley"}
	err := repo.CreateAuthor(ctx, author)

	require.NoError(t, err)
	assert.NotZero(t, author.ID)
}

func TestGetAuthorByID_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetAuthorByID(context.Background(), 999)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListAuthors_OrderedByName(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	testutil.NewTestAuthor(t, repo, "Mary", "Shelley")
	testutil.NewTestAuthor(t, repo, "Jane", "Austen")
	testutil.NewTestAuthor(t, repo, "Bram", "Stoker")

	authors, err := repo.ListAuthors(ctx, 10, 0)

	require.NoError(t, err)
	require.Len(t, authors, 3)
	assert.Equal(t, "Austen", authors[0].LastName)
	assert.Equal(t, "Shelley", authors[1].LastName)
	assert.Equal(t, "Stoker", authors[2].LastName)
}

func TestListAuthors_Pagination(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	for i := range 5 {
		testutil.NewTestAuthor(t, repo, "First", fmt.Sprintf("Last%02d", i))
	}

	page, err := repo.ListAuthors(ctx, 2, 2)

	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Last02", page[0].LastName)
}

func TestUpdateAuthor(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	author := testutil.NewTestAuthor(t, repo, "Mary", "Shelly")
	author.LastName = "Shelley"

	err := repo.UpdateAuthor(ctx, author)

	require.NoError(t, err)
	updated, err := repo.GetAuthorByID(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shelley", updated.LastName)
}

func TestDeleteAuthor(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	author := testutil.NewTestAuthor(t, repo, "Mary", "Shelley")

	require.NoError(t, repo.DeleteAuthor(ctx, author.ID))

	_, err := repo.GetAuthorByID(ctx, author.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateBook_WithCategories(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	author := testutil.NewTestAuthor(t, repo, "Mary", "Shelley")
	horror := &models.Category{Name: "Horror"}
	require.NoError(t, repo.CreateCategory(ctx, horror))
	classic := &models.Category{Name: "Classic"}
	require.NoError(t, repo.CreateCategory(ctx, classic))

	book := &models.Book{Title: "Frankenstein", AuthorID: &author.ID}
	err := repo.CreateBook(ctx, book, []int64{horror.ID, classic.ID})

	require.NoError(t, err)
	retrieved, err := repo.GetBookByID(ctx, book.ID)
	require.NoError(t, err)
	require.NotNil(t, retrieved.Author)
	assert.Equal(t, "Shelley, Mary", retrieved.Author.DisplayName())
	require.Len(t, retrieved.Categories, 2)
	assert.Equal(t, "Classic", retrieved.Categories[0].Name)
	assert.Equal(t, "Horror", retrieved.Categories[1].Name)
}

func TestGetBookByID_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetBookByID(context.Background(), 999)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListBooksByAuthor(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	shelley := testutil.NewTestAuthor(t, repo, "Mary", "Shelley")
	stoker := testutil.NewTestAuthor(t, repo, "Bram", "Stoker")
	testutil.NewTestBook(t, repo, "The Last Man", shelley.ID)
	testutil.NewTestBook(t, repo, "Frankenstein", shelley.ID)
	testutil.NewTestBook(t, repo, "Dracula", stoker.ID)

	books, err := repo.ListBooksByAuthor(ctx, shelley.ID)

	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Frankenstein", books[0].Title)
	assert.Equal(t, "The Last Man", books[1].Title)
}

func TestUpdateBook_ReplacesCategories(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	author := testutil.NewTestAuthor(t, repo, "Mary", "Shelley")
	horror := &models.Category{Name: "Horror"}
	require.NoError(t, repo.CreateCategory(ctx, horror))
	sf := &models.Category{Name: "Science Fiction"}
	require.NoError(t, repo.CreateCategory(ctx, sf))

	book := &models.Book{Title: "Frankenstein", AuthorID: &author.ID}
	require.NoError(t, repo.CreateBook(ctx, book, []int64{horror.ID}))

	err := repo.UpdateBook(ctx, book, []int64{sf.ID})

	require.NoError(t, err)
	updated, err := repo.GetBookByID(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, "Science Fiction", updated.Categories[0].Name)
}

func TestSetBookReview(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	author := testutil.NewTestAuthor(t, repo, "Mary", "Shelley")
	book := testutil.NewTestBook(t, repo, "Frankenstein", author.ID)
	reviewer := testutil.NewTestUser(t, repo, "reviewer", "reviewer@example.com")

	unreviewed, err := repo.ListUnreviewedBooks(ctx)
	require.NoError(t, err)
	require.Len(t, unreviewed, 1)

	err = repo.SetBookReview(ctx, book.ID, "A modern Prometheus.", true, reviewer.ID, time.Now())

	require.NoError(t, err)
	reviewed, err := repo.GetBookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "A modern Prometheus.", reviewed.Review)
	assert.True(t, reviewed.IsFavourite)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, reviewer.ID, *reviewed.ReviewedBy)
	assert.NotNil(t, reviewed.DateReviewed)

	unreviewed, err = repo.ListUnreviewedBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, unreviewed)
}

func TestDeleteBook(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	author := testutil.NewTestAuthor(t, repo, "Mary", "Shelley")
	book := testutil.NewTestBook(t, repo, "Frankenstein", author.ID)

	require.NoError(t, repo.DeleteBook(ctx, book.ID))

	_, err := repo.GetBookByID(ctx, book.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateCopy(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	author := testutil.NewTestAuthor(t, repo, "Mary", "Shelley")
	book := testutil.NewTestBook(t, repo, "Frankenstein", author.ID)

	copy := &models.BookCopy{
		BookID:  &book.ID,
		Imprint: "Penguin Classics, 2003",
		Status:  models.StatusAvailable,
	}
	err := repo.CreateCopy(ctx, copy)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, copy.ID)
	retrieved, err := repo.GetCopyByID(ctx, copy.ID)
	require.NoError(t, err)
	require.NotNil(t, retrieved.Book)
	assert.Equal(t, "Frankenstein", retrieved.Book.Title)
}

func TestGetCopyByID_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetCopyByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListCopiesForBook(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	author := testutil.NewTestAuthor(t, repo, "Mary", "Shelley")
	book := testutil.NewTestBook(t, repo, "Frankenstein", author.ID)
	other := testutil.NewTestBook(t, repo, "The Last Man", author.ID)
	testutil.NewTestCopy(t, repo, book.ID, models.StatusAvailable, nil)
	testutil.NewTestCopy(t, repo, book.ID, models.StatusMaintenance, nil)
	testutil.NewTestCopy(t, repo, other.ID, models.StatusAvailable, nil)

	copies, err := repo.ListCopiesForBook(ctx, book.ID)

	require.NoError(t, err)
	assert.Len(t, copies, 2)
}

func TestListCopiesOnLoan(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	author := testutil.NewTestAuthor(t, repo, "Mary", "Shelley")
	book := testutil.NewTestBook(t, repo, "Frankenstein", author.ID)
	borrower := testutil.NewTestUser(t, repo, "borrower", "borrower@example.com")
	testutil.NewTestCopy(t, repo, book.ID, models.StatusOnLoan, &borrower.ID)
	testutil.NewTestCopy(t, repo, book.ID, models.StatusAvailable, nil)

	onLoan, err := repo.ListCopiesOnLoan(ctx)

	require.NoError(t, err)
	require.Len(t, onLoan, 1)
	assert.Equal(t, models.StatusOnLoan, onLoan[0].Status)
}

func TestListCopiesBorrowedBy(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	author := testutil.NewTestAuthor(t, repo, "Mary", "Shelley")
	book := testutil.NewTestBook(t, repo, "Frankenstein", author.ID)
	alice := testutil.NewTestUser(t, repo, "alice", "alice@example.com")
	bob := testutil.NewTestUser(t, repo, "bob", "bob@example.com")
	testutil.NewTestCopy(t, repo, book.ID, models.StatusOnLoan, &alice.ID)
	testutil.NewTestCopy(t, repo, book.ID, models.StatusOnLoan, &bob.ID)

	copies, err := repo.ListCopiesBorrowedBy(ctx, alice.ID)

	require.NoError(t, err)
	require.Len(t, copies, 1)
	require.NotNil(t, copies[0].BorrowerID)
	assert.Equal(t, alice.ID, *copies[0].BorrowerID)
}

func TestSetCopyDueBack(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	author := testutil.NewTestAuthor(t, repo, "Mary", "Shelley")
	book := testutil.NewTestBook(t, repo, "Frankenstein", author.ID)
	borrower := testutil.NewTestUser(t, repo, "borrower", "borrower@example.com")
	copy := testutil.NewTestCopy(t, repo, book.ID, models.StatusOnLoan, &borrower.ID)

	due := time.Now().AddDate(0, 0, 14).Truncate(24 * time.Hour)
	err := repo.SetCopyDueBack(ctx, copy.ID, due)

	require.NoError(t, err)
	updated, err := repo.GetCopyByID(ctx, copy.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.DueBack)
	assert.True(t, updated.DueBack.Equal(due))
}

func TestCountAvailableCopies(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	author := testutil.NewTestAuthor(t, repo, "Mary", "Shelley")
	book := testutil.NewTestBook(t, repo, "Frankenstein", author.ID)
	testutil.NewTestCopy(t, repo, book.ID, models.StatusAvailable, nil)
	testutil.NewTestCopy(t, repo, book.ID, models.StatusAvailable, nil)
	testutil.NewTestCopy(t, repo, book.ID, models.StatusMaintenance, nil)

	total, err := repo.CountCopies(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	available, err := repo.CountAvailableCopies(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), available)
}

func TestListCategories(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateCategory(ctx, &models.Category{Name: "Horror"}))
	require.NoError(t, repo.CreateCategory(ctx, &models.Category{Name: "Classic"}))

	categories, err := repo.ListCategories(ctx)

	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Classic", categories[0].Name)
	assert.Equal(t, "Horror", categories[1].Name)
}
