// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

// HomeStats is the view model for the home page counters.
type HomeStats struct {
	Books           int64
	Copies          int64
	CopiesAvailable int64
	Authors         int64
}

// SignupForm carries the signup form state back into the view.
type SignupForm struct {
	Username string
	Email    string
	Errors   []string
}

// LoginForm carries the login form state back into the view.
type LoginForm struct {
	Username string
	Error    string
}

// ResendForm carries the resend-activation form state.
type ResendForm struct {
	Email string
	Error string
}

// RenewForm carries the loan renewal form state.
type RenewForm struct {
	DueBack string // yyyy-mm-dd
	Error   string
}

// ReviewForm carries the book review form state.
type ReviewForm struct {
	Review      string
	IsFavourite bool
	Error       string
}

// AuthorForm carries the author create/edit form state.
type AuthorForm struct {
	FirstName   string
	LastName    string
	DateOfBirth string // yyyy-mm-dd, optional
	DateOfDeath string // yyyy-mm-dd, optional
	Error       string
}

// BookForm carries the book create/edit form state.
type BookForm struct {
	Title       string
	AuthorID    string
	CoverPath   string
	CategoryIDs []string
	Error       string
}

// CopyForm carries the copy create/edit form state.
type CopyForm struct {
	BookID     string
	Imprint    string
	DueBack    string // yyyy-mm-dd, optional
	BorrowerID string
	Status     string
	Error      string
}
