// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// User is an account capable of authenticating. New accounts are created
// inactive and unconfirmed; a successful activation-link visit flips both
// flags exactly once.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID             int64      `db:"id" json:"id"`
	Username       string     `db:"username" json:"username"`
	Email          string     `db:"email" json:"email"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	EmailConfirmed bool       `db:"email_confirmed" json:"email_confirmed"`
	IsStaff        bool       `db:"is_staff" json:"is_staff"`
	LastLogin      *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Profile is the companion record created alongside every user.
type Profile struct { //nolint:govet // fieldalignment: readability over optimization
	ID        int64      `db:"id" json:"id"`
	UserID    int64      `db:"user_id" json:"user_id"`
	Bio       string     `db:"bio" json:"bio"`
	Location  string     `db:"location" json:"location"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
}
