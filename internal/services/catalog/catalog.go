// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package catalog implements the lending-library domain: browsing books,
// authors and copies, loan renewals and the staff review queue.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/config"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/models"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/repository"
)

var (
	// ErrRenewalInPast rejects renewal dates before today.
	ErrRenewalInPast = errors.New("renewal date in the past")

	// ErrRenewalTooFar rejects renewal dates beyond the maximum window.
	ErrRenewalTooFar = errors.New("renewal date too far ahead")

	// ErrNotOnLoan rejects renewals of copies that are not checked out.
	ErrNotOnLoan = errors.New("copy is not on loan")
)

// ReviewTooShortError reports a review below the minimum length.
type ReviewTooShortError struct {
	Min    int
	Length int
}

func (e *ReviewTooShortError) Error() string {
	return fmt.Sprintf("review too short: %d characters, minimum %d", e.Length, e.Min)
}

// Stats is the home page summary.
type Stats struct {
	Books           int64
	Copies          int64
	CopiesAvailable int64
	Authors         int64
}

// Pagination describes one page of a paginated listing.
type Pagination struct {
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

// HasNext reports whether a later page exists.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// HasPrev reports whether an earlier page exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// Service provides the catalog operations on top of the repository.
type Service struct {
	repo *repository.Repository
	cfg  *config.CatalogConfig

	now func() time.Time
}

// NewService creates a catalog service.
func NewService(repo *repository.Repository, cfg *config.CatalogConfig) *Service {
	return &Service{repo: repo, cfg: cfg, now: time.Now}
}

// Stats collects the home page counts.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	books, err := s.repo.CountBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}
	copies, err := s.repo.CountCopies(ctx)
	if err != nil {
		return nil, fmt.Errorf("count copies: %w", err)
	}
	available, err := s.repo.CountAvailableCopies(ctx)
	if err != nil {
		return nil, fmt.Errorf("count available copies: %w", err)
	}
	authors, err := s.repo.CountAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("count authors: %w", err)
	}

	return &Stats{
		Books:           books,
		Copies:          copies,
		CopiesAvailable: available,
		Authors:         authors,
	}, nil
}

// Books returns one page of the book list.
func (s *Service) Books(ctx context.Context, page int) ([]models.Book, Pagination, error) {
	pag, err := s.paginate(ctx, page, s.repo.CountBooks)
	if err != nil {
		return nil, Pagination{}, err
	}
	books, err := s.repo.ListBooks(ctx, pag.PageSize, (pag.Page-1)*pag.PageSize)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list books: %w", err)
	}
	return books, pag, nil
}

// Book returns one book with its author, categories and copies.
func (s *Service) Book(ctx context.Context, id int64) (*models.Book, []models.BookCopy, error) {
	book, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	copies, err := s.repo.ListCopiesForBook(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("list copies: %w", err)
	}
	return book, copies, nil
}

// Authors returns one page of the author list.
func (s *Service) Authors(ctx context.Context, page int) ([]models.Author, Pagination, error) {
	pag, err := s.paginate(ctx, page, s.repo.CountAuthors)
	if err != nil {
		return nil, Pagination{}, err
	}
	authors, err := s.repo.ListAuthors(ctx, pag.PageSize, (pag.Page-1)*pag.PageSize)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list authors: %w", err)
	}
	return authors, pag, nil
}

// AllAuthors returns every author, for form dropdowns. SQLite treats a
// negative limit as "no limit".
func (s *Service) AllAuthors(ctx context.Context) ([]models.Author, error) {
	return s.repo.ListAuthors(ctx, -1, 0)
}

// AllBooks returns every book, for form dropdowns.
func (s *Service) AllBooks(ctx context.Context) ([]models.Book, error) {
	return s.repo.ListBooks(ctx, -1, 0)
}

// Author returns one author together with their books.
func (s *Service) Author(ctx context.Context, id int64) (*models.Author, []models.Book, error) {
	author, err := s.repo.GetAuthorByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	books, err := s.repo.ListBooksByAuthor(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("list books by author: %w", err)
	}
	return author, books, nil
}

// Copies returns one page of the copy list.
func (s *Service) Copies(ctx context.Context, page int) ([]models.BookCopy, Pagination, error) {
	pag, err := s.paginate(ctx, page, s.repo.CountCopies)
	if err != nil {
		return nil, Pagination{}, err
	}
	copies, err := s.repo.ListCopies(ctx, pag.PageSize, (pag.Page-1)*pag.PageSize)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list copies: %w", err)
	}
	return copies, pag, nil
}

// Copy returns one copy with its book attached.
func (s *Service) Copy(ctx context.Context, id uuid.UUID) (*models.BookCopy, error) {
	return s.repo.GetCopyByID(ctx, id)
}

// MyBorrowed returns the copies on loan to one borrower.
func (s *Service) MyBorrowed(ctx context.Context, borrowerID int64) ([]models.BookCopy, error) {
	return s.repo.ListCopiesBorrowedBy(ctx, borrowerID)
}

// AllBorrowed returns every copy currently on loan, for the librarian
// overview.
func (s *Service) AllBorrowed(ctx context.Context) ([]models.BookCopy, error) {
	return s.repo.ListCopiesOnLoan(ctx)
}

// DefaultRenewalDate proposes the standard renewal date.
func (s *Service) DefaultRenewalDate() time.Time {
	return s.today().AddDate(0, 0, s.cfg.RenewalWeeks*7)
}

// RenewCopy moves the due-back date of a loaned copy. The new date must
// not lie in the past or more than the maximum renewal window ahead.
func (s *Service) RenewCopy(ctx context.Context, id uuid.UUID, dueBack time.Time) error {
	copy, err := s.repo.GetCopyByID(ctx, id)
	if err != nil {
		return err
	}
	if copy.Status != models.StatusOnLoan {
		return ErrNotOnLoan
	}

	day := dueBack.Truncate(24 * time.Hour)
	if day.Before(s.today()) {
		return ErrRenewalInPast
	}
	if day.After(s.today().AddDate(0, 0, s.cfg.MaxRenewalWeeks*7)) {
		return ErrRenewalTooFar
	}

	if err := s.repo.SetCopyDueBack(ctx, id, day); err != nil {
		return fmt.Errorf("set due back: %w", err)
	}

	slog.Info("copy_renewed",
		slog.String("copy_id", id.String()),
		slog.Time("due_back", day))
	return nil
}

// UnreviewedBooks returns the staff review queue.
func (s *Service) UnreviewedBooks(ctx context.Context) ([]models.Book, error) {
	return s.repo.ListUnreviewedBooks(ctx)
}

// ReviewBook stamps a review onto a book. The review text must meet the
// configured minimum length after trimming.
func (s *Service) ReviewBook(ctx context.Context, bookID, reviewerID int64, review string, isFavourite bool) error {
	trimmed := strings.TrimSpace(review)
	if len(trimmed) < s.cfg.ReviewMinLength {
		return &ReviewTooShortError{Min: s.cfg.ReviewMinLength, Length: len(trimmed)}
	}

	if _, err := s.repo.GetBookByID(ctx, bookID); err != nil {
		return err
	}

	if err := s.repo.SetBookReview(ctx, bookID, trimmed, isFavourite, reviewerID, s.now()); err != nil {
		return fmt.Errorf("set review: %w", err)
	}

	slog.Info("book_reviewed",
		slog.Int64("book_id", bookID),
		slog.Int64("reviewer_id", reviewerID))
	return nil
}

// Categories returns all categories, for the book form.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

// CreateCategory adds a new category.
func (s *Service) CreateCategory(ctx context.Context, category *models.Category) error {
	return s.repo.CreateCategory(ctx, category)
}

// CreateAuthor adds a new author.
func (s *Service) CreateAuthor(ctx context.Context, author *models.Author) error {
	return s.repo.CreateAuthor(ctx, author)
}

// UpdateAuthor saves edits to an author.
func (s *Service) UpdateAuthor(ctx context.Context, author *models.Author) error {
	return s.repo.UpdateAuthor(ctx, author)
}

// DeleteAuthor removes an author.
func (s *Service) DeleteAuthor(ctx context.Context, id int64) error {
	return s.repo.DeleteAuthor(ctx, id)
}

// CreateBook adds a new book with its category links.
func (s *Service) CreateBook(ctx context.Context, book *models.Book, categoryIDs []int64) error {
	return s.repo.CreateBook(ctx, book, categoryIDs)
}

// UpdateBook saves edits to a book and its category links.
func (s *Service) UpdateBook(ctx context.Context, book *models.Book, categoryIDs []int64) error {
	return s.repo.UpdateBook(ctx, book, categoryIDs)
}

// DeleteBook removes a book.
func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	return s.repo.DeleteBook(ctx, id)
}

// CreateCopy adds a new circulating copy.
func (s *Service) CreateCopy(ctx context.Context, copy *models.BookCopy) error {
	return s.repo.CreateCopy(ctx, copy)
}

// UpdateCopy saves edits to a copy.
func (s *Service) UpdateCopy(ctx context.Context, copy *models.BookCopy) error {
	return s.repo.UpdateCopy(ctx, copy)
}

// DeleteCopy removes a copy.
func (s *Service) DeleteCopy(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCopy(ctx, id)
}

func (s *Service) paginate(ctx context.Context, page int, count func(context.Context) (int64, error)) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	total, err := count(ctx)
	if err != nil {
		return Pagination{}, fmt.Errorf("count: %w", err)
	}

	totalPages := int((total + int64(s.cfg.PageSize) - 1) / int64(s.cfg.PageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return Pagination{
		Page:       page,
		PageSize:   s.cfg.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (s *Service) today() time.Time {
	return s.now().Truncate(24 * time.Hour)
}
