// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/models"
)

// CreateCopy persists a new circulating copy. A zero ID gets a fresh UUID.
func (r *Repository) CreateCopy(ctx context.Context, copy *models.BookCopy) error {
	if copy.ID == uuid.Nil {
		copy.ID = uuid.New()
	}
	if copy.Status == "" {
		copy.Status = models.StatusMaintenance
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO book_copies (id, book_id, imprint, due_back, borrower_id, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		copy.ID.String(), copy.BookID, copy.Imprint, copy.DueBack, copy.BorrowerID, copy.Status)
	return err
}

// GetCopyByID retrieves a copy with its book attached.
func (r *Repository) GetCopyByID(ctx context.Context, id uuid.UUID) (*models.BookCopy, error) {
	var copy models.BookCopy
	if err := r.db.GetContext(ctx, &copy, `SELECT * FROM book_copies WHERE id = ?`, id.String()); err != nil {
		return nil, wrapError(err)
	}
	if err := r.attachCopyBook(ctx, &copy); err != nil {
		return nil, err
	}
	return &copy, nil
}

// ListCopies returns a page of copies ordered by due-back date.
func (r *Repository) ListCopies(ctx context.Context, limit, offset int) ([]models.BookCopy, error) {
	var copies []models.BookCopy
	err := r.db.SelectContext(ctx, &copies,
		`SELECT * FROM book_copies ORDER BY due_back LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	return copies, r.attachCopyBooks(ctx, copies)
}

// ListCopiesForBook returns all copies of one book for the detail page.
func (r *Repository) ListCopiesForBook(ctx context.Context, bookID int64) ([]models.BookCopy, error) {
	var copies []models.BookCopy
	err := r.db.SelectContext(ctx, &copies,
		`SELECT * FROM book_copies WHERE book_id = ? ORDER BY imprint`, bookID)
	return copies, err
}

// ListCopiesOnLoan returns all copies on loan ordered by due-back date.
func (r *Repository) ListCopiesOnLoan(ctx context.Context) ([]models.BookCopy, error) {
	var copies []models.BookCopy
	err := r.db.SelectContext(ctx, &copies,
		`SELECT * FROM book_copies WHERE status = ? ORDER BY due_back`, models.StatusOnLoan)
	if err != nil {
		return nil, err
	}
	return copies, r.attachCopyBooks(ctx, copies)
}

// ListCopiesBorrowedBy returns the copies on loan to one borrower,
// ordered by due-back date.
func (r *Repository) ListCopiesBorrowedBy(ctx context.Context, borrowerID int64) ([]models.BookCopy, error) {
	var copies []models.BookCopy
	err := r.db.SelectContext(ctx, &copies,
		`SELECT * FROM book_copies WHERE borrower_id = ? AND status = ? ORDER BY due_back`,
		borrowerID, models.StatusOnLoan)
	if err != nil {
		return nil, err
	}
	return copies, r.attachCopyBooks(ctx, copies)
}

// UpdateCopy updates all mutable copy fields.
func (r *Repository) UpdateCopy(ctx context.Context, copy *models.BookCopy) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE book_copies SET book_id = ?, imprint = ?, due_back = ?, borrower_id = ?, status = ?
		 WHERE id = ?`,
		copy.BookID, copy.Imprint, copy.DueBack, copy.BorrowerID, copy.Status, copy.ID.String())
	return err
}

// SetCopyDueBack moves a copy's due-back date, used by the librarian
// renewal flow.
func (r *Repository) SetCopyDueBack(ctx context.Context, id uuid.UUID, dueBack time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE book_copies SET due_back = ? WHERE id = ?`, dueBack, id.String())
	return err
}

// DeleteCopy deletes a copy by ID.
func (r *Repository) DeleteCopy(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM book_copies WHERE id = ?`, id.String())
	return err
}

// CountCopies returns the total number of copies.
func (r *Repository) CountCopies(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM book_copies`); err != nil {
		return 0, err
	}
	return count, nil
}

// CountAvailableCopies returns the number of copies on the shelf.
func (r *Repository) CountAvailableCopies(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM book_copies WHERE status = ?`, models.StatusAvailable)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) attachCopyBooks(ctx context.Context, copies []models.BookCopy) error {
	for i := range copies {
		if err := r.attachCopyBook(ctx, &copies[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) attachCopyBook(ctx context.Context, copy *models.BookCopy) error {
	if copy.BookID == nil {
		return nil
	}
	book, err := r.GetBookByID(ctx, *copy.BookID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	copy.Book = book
	return nil
}
