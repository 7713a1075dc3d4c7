// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/models"
)

// CreateUser persists a new user and, in the same step, its companion
// profile record. Accounts start inactive and unconfirmed.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, is_active, email_confirmed, is_staff)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash, user.IsActive, user.EmailConfirmed, user.IsStaff)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id

	// Companion profile, created explicitly rather than via a storage hook
	// so the control flow stays traceable.
	_, err = r.db.ExecContext(ctx, `INSERT INTO profiles (user_id) VALUES (?)`, id)
	return err
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE username = ?`, username); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = ?`, email); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// UsernameExists checks if a user with the given username exists.
func (r *Repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE username = ?`, username); err != nil {
		return false, err
	}
	return count > 0, nil
}

// ActivateUser applies the terminal activation mutation: both flags set,
// last login stamped. The write is idempotent so a repeated activation-link
// visit is harmless.
func (r *Repository) ActivateUser(ctx context.Context, id int64, lastLogin time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET is_active = 1, email_confirmed = 1, last_login = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		lastLogin, id)
	return err
}

// UpdateLastLogin stamps the user's last login time.
func (r *Repository) UpdateLastLogin(ctx context.Context, id int64, lastLogin time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		lastLogin, id)
	return err
}

// CountUsers returns the total number of users.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, err
	}
	return count, nil
}

// GetProfileByUserID retrieves the companion profile for a user.
func (r *Repository) GetProfileByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, `SELECT * FROM profiles WHERE user_id = ?`, userID); err != nil {
		return nil, wrapError(err)
	}
	return &profile, nil
}

// UpdateProfile updates the mutable profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET bio = ?, location = ?, birth_date = ? WHERE user_id = ?`,
		profile.Bio, profile.Location, profile.BirthDate, profile.UserID)
	return err
}
