// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Author of one or more books.
type Author struct { //nolint:govet // fieldalignment: readability over optimization
	ID          int64      `db:"id" json:"id"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `db:"date_of_death" json:"date_of_death,omitempty"`
}

// DisplayName returns the author in "Last, First" form.
func (a Author) DisplayName() string {
	return fmt.Sprintf("%s, %s", a.LastName, a.FirstName)
}

// Category groups books, e.g. Science Fiction or French Poetry.
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Book describes a title in the catalog, not a specific circulating copy.
type Book struct { //nolint:govet // fieldalignment: readability over optimization
	ID           int64      `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	AuthorID     *int64     `db:"author_id" json:"author_id,omitempty"`
	CoverPath    string     `db:"cover_path" json:"cover_path"`
	Review       string     `db:"review" json:"review"`
	ReviewedBy   *int64     `db:"reviewed_by" json:"reviewed_by,omitempty"`
	DateReviewed *time.Time `db:"date_reviewed" json:"date_reviewed,omitempty"`
	IsFavourite  bool       `db:"is_favourite" json:"is_favourite"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`

	// Populated by the repository, not a column.
	Author     *Author    `db:"-" json:"author,omitempty"`
	Categories []Category `db:"-" json:"categories,omitempty"`
}

// Loan status codes for a circulating copy.
const (
	StatusMaintenance = "m"
	StatusOnLoan      = "o"
	StatusAvailable   = "a"
	StatusReserved    = "r"
)

// StatusLabel maps a loan status code to a human-readable label.
func StatusLabel(status string) string {
	switch status {
	case StatusMaintenance:
		return "Maintenance"
	case StatusOnLoan:
		return "On loan"
	case StatusAvailable:
		return "Available"
	case StatusReserved:
		return "Reserved"
	}
	return "Unknown"
}

// BookCopy is a specific, borrowable copy of a book, identified by a UUID
// unique across the whole catalog.
type BookCopy struct { //nolint:govet // fieldalignment: readability over optimization
	ID         uuid.UUID  `db:"id" json:"id"`
	BookID     *int64     `db:"book_id" json:"book_id,omitempty"`
	Imprint    string     `db:"imprint" json:"imprint"`
	DueBack    *time.Time `db:"due_back" json:"due_back,omitempty"`
	BorrowerID *int64     `db:"borrower_id" json:"borrower_id,omitempty"`
	Status     string     `db:"status" json:"status"`

	// Populated by the repository, not a column.
	Book *Book `db:"-" json:"book,omitempty"`
}

// IsOverdue reports whether the copy's due-back date has passed.
func (c BookCopy) IsOverdue() bool {
	if c.DueBack == nil {
		return false
	}
	today := time.Now().Truncate(24 * time.Hour)
	return c.DueBack.Before(today)
}
