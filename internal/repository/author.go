// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/models"
)

// CreateAuthor persists a new author.
func (r *Repository) CreateAuthor(ctx context.Context, author *models.Author) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO authors (first_name, last_name, date_of_birth, date_of_death)
		 VALUES (?, ?, ?, ?)`,
		author.FirstName, author.LastName, author.DateOfBirth, author.DateOfDeath)
	if err != nil {
		return err
	}
	author.ID, err = res.LastInsertId()
	return err
}

// GetAuthorByID retrieves an author by ID.
func (r *Repository) GetAuthorByID(ctx context.Context, id int64) (*models.Author, error) {
	var author models.Author
	if err := r.db.GetContext(ctx, &author, `SELECT * FROM authors WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &author, nil
}

// ListAuthors returns a page of authors ordered by last, first name.
func (r *Repository) ListAuthors(ctx context.Context, limit, offset int) ([]models.Author, error) {
	var authors []models.Author
	err := r.db.SelectContext(ctx, &authors,
		`SELECT * FROM authors ORDER BY last_name, first_name LIMIT ? OFFSET ?`,
		limit, offset)
	return authors, err
}

// UpdateAuthor updates all author fields.
func (r *Repository) UpdateAuthor(ctx context.Context, author *models.Author) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE authors SET first_name = ?, last_name = ?, date_of_birth = ?, date_of_death = ?
		 WHERE id = ?`,
		author.FirstName, author.LastName, author.DateOfBirth, author.DateOfDeath, author.ID)
	return err
}

// DeleteAuthor deletes an author by ID.
func (r *Repository) DeleteAuthor(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM authors WHERE id = ?`, id)
	return err
}

// CountAuthors returns the total number of authors.
func (r *Repository) CountAuthors(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM authors`); err != nil {
		return 0, err
	}
	return count, nil
}
