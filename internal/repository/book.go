// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/models"
)

// CreateBook persists a new book and its category links.
func (r *Repository) CreateBook(ctx context.Context, book *models.Book, categoryIDs []int64) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO books (title, author_id, cover_path, is_favourite)
		 VALUES (?, ?, ?, ?)`,
		book.Title, book.AuthorID, book.CoverPath, book.IsFavourite)
	if err != nil {
		return err
	}
	if book.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	return r.setBookCategories(ctx, book.ID, categoryIDs)
}

// GetBookByID retrieves a book with its author and categories attached.
func (r *Repository) GetBookByID(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	if err := r.db.GetContext(ctx, &book, `SELECT * FROM books WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	if err := r.attachBookRelations(ctx, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// ListBooks returns a page of books ordered by title, with relations attached.
func (r *Repository) ListBooks(ctx context.Context, limit, offset int) ([]models.Book, error) {
	var books []models.Book
	err := r.db.SelectContext(ctx, &books,
		`SELECT * FROM books ORDER BY title LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range books {
		if err := r.attachBookRelations(ctx, &books[i]); err != nil {
			return nil, err
		}
	}
	return books, nil
}

// ListBooksByAuthor returns all books by one author, ordered by title.
func (r *Repository) ListBooksByAuthor(ctx context.Context, authorID int64) ([]models.Book, error) {
	var books []models.Book
	err := r.db.SelectContext(ctx, &books,
		`SELECT * FROM books WHERE author_id = ? ORDER BY title`, authorID)
	if err != nil {
		return nil, err
	}
	for i := range books {
		if err := r.attachBookRelations(ctx, &books[i]); err != nil {
			return nil, err
		}
	}
	return books, nil
}

// ListUnreviewedBooks returns all books without a review date, with their
// authors attached, for the review queue.
func (r *Repository) ListUnreviewedBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	err := r.db.SelectContext(ctx, &books,
		`SELECT * FROM books WHERE date_reviewed IS NULL ORDER BY title`)
	if err != nil {
		return nil, err
	}
	for i := range books {
		if err := r.attachBookRelations(ctx, &books[i]); err != nil {
			return nil, err
		}
	}
	return books, nil
}

// UpdateBook updates the book fields editable through the book form.
func (r *Repository) UpdateBook(ctx context.Context, book *models.Book, categoryIDs []int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE books SET title = ?, author_id = ?, cover_path = ? WHERE id = ?`,
		book.Title, book.AuthorID, book.CoverPath, book.ID)
	if err != nil {
		return err
	}
	return r.setBookCategories(ctx, book.ID, categoryIDs)
}

// SetBookReview stamps a review onto a book.
func (r *Repository) SetBookReview(ctx context.Context, bookID int64, review string, isFavourite bool, reviewerID int64, reviewedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE books SET review = ?, is_favourite = ?, reviewed_by = ?, date_reviewed = ?
		 WHERE id = ?`,
		review, isFavourite, reviewerID, reviewedAt, bookID)
	return err
}

// DeleteBook deletes a book by ID.
func (r *Repository) DeleteBook(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	return err
}

// CountBooks returns the total number of books.
func (r *Repository) CountBooks(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM books`); err != nil {
		return 0, err
	}
	return count, nil
}

// CreateCategory persists a new category.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, category.Name)
	if err != nil {
		return err
	}
	category.ID, err = res.LastInsertId()
	return err
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.SelectContext(ctx, &categories, `SELECT * FROM categories ORDER BY name`)
	return categories, err
}

func (r *Repository) setBookCategories(ctx context.Context, bookID int64, categoryIDs []int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM book_categories WHERE book_id = ?`, bookID); err != nil {
		return err
	}
	for _, categoryID := range categoryIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO book_categories (book_id, category_id) VALUES (?, ?)`,
			bookID, categoryID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) attachBookRelations(ctx context.Context, book *models.Book) error {
	if book.AuthorID != nil {
		author, err := r.GetAuthorByID(ctx, *book.AuthorID)
		if err == nil {
			book.Author = author
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
	}

	return r.db.SelectContext(ctx, &book.Categories,
		`SELECT c.* FROM categories c
		 JOIN book_categories bc ON bc.category_id = c.id
		 WHERE bc.book_id = ?
		 ORDER BY c.name`, book.ID)
}
