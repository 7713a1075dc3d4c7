// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth orchestrates signup, email activation and login.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/models"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/repository"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/activation"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/email"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is not activated")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordMismatch   = errors.New("passwords do not match")

	// ErrDelivery signals that the account was persisted but the
	// activation email could not be dispatched. The account stays
	// pending; ResendActivation covers recovery.
	ErrDelivery = errors.New("activation email delivery failed")

	// ErrInvalidToken covers every activation failure: bad signature,
	// expired index, malformed token, unknown id. One error for all of
	// them so the HTTP layer cannot leak which identifiers exist.
	ErrInvalidToken = errors.New("activation link invalid or expired")
)

// dummyHash is used for constant-time login to prevent timing attacks.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

// Service implements the signup/activation flow.
type Service struct {
	repo              *repository.Repository
	tokens            *activation.Service
	emails            *email.Service
	passwordValidator *PasswordValidator
}

// NewService creates the auth service.
func NewService(repo *repository.Repository, tokens *activation.Service, emails *email.Service) *Service {
	return &Service{
		repo:              repo,
		tokens:            tokens,
		emails:            emails,
		passwordValidator: DefaultPasswordValidator(),
	}
}

// PasswordValidator returns the password validator for use in handlers.
func (s *Service) PasswordValidator() *PasswordValidator {
	return s.passwordValidator
}

// SignupParams holds the validated signup form input.
type SignupParams struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// Signup creates a pending account and dispatches the activation email.
// The account is persisted before mail dispatch; a delivery failure
// returns ErrDelivery with the account left pending, not rolled back.
func (s *Service) Signup(ctx context.Context, params SignupParams) (*models.User, error) {
	if _, err := mail.ParseAddress(params.Email); err != nil {
		return nil, ErrInvalidEmail
	}

	if params.Password != params.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}

	validation := s.passwordValidator.Validate(params.Password, params.Username, params.Email)
	if !validation.Valid {
		return nil, &PasswordValidationError{Errors: validation.Errors}
	}

	exists, err := s.repo.UsernameExists(ctx, params.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:       params.Username,
		Email:          params.Email,
		PasswordHash:   string(passwordHash),
		IsActive:       false,
		EmailConfirmed: false,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("signup_success", "user_id", user.ID, "username", user.Username)

	if err := s.sendActivation(ctx, user); err != nil {
		return user, err
	}

	return user, nil
}

// ResendActivation re-issues the activation email for a pending account.
// Already-active accounts are left alone; unknown emails yield no error so
// the endpoint cannot be used to probe for accounts.
func (s *Service) ResendActivation(ctx context.Context, emailAddr string) error {
	user, err := s.repo.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsActive {
		return nil
	}

	return s.sendActivation(ctx, user)
}

func (s *Service) sendActivation(ctx context.Context, user *models.User) error {
	token := s.tokens.Issue(user)
	uid := activation.EncodeUID(user.ID)

	if err := s.emails.SendActivation(ctx, user.Email, user.Username, uid, token); err != nil {
		slog.Error("activation_email_failed", "user_id", user.ID, "error", err)
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	slog.Info("activation_email_sent", "user_id", user.ID)
	return nil
}

// Activate verifies an activation link and applies the terminal mutation.
// Every failure mode maps to ErrInvalidToken; the mutation itself is
// idempotent, so a racing duplicate request is harmless.
func (s *Service) Activate(ctx context.Context, uid, token string) (*models.User, error) {
	id, err := activation.DecodeUID(uid)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.tokens.Verify(user, token) {
		slog.Warn("activation_failed", "user_id", user.ID)
		return nil, ErrInvalidToken
	}

	now := time.Now()
	if err := s.repo.ActivateUser(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}

	user.IsActive = true
	user.EmailConfirmed = true
	user.LastLogin = &now

	slog.Info("activation_success", "user_id", user.ID)
	return user, nil
}

// Login authenticates a user by username and password. Pending accounts
// cannot log in until they are activated.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform a bcrypt comparison.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "username", username, "reason", "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "username", username, "reason", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		slog.Warn("login_failed", "username", username, "reason", "inactive")
		return nil, ErrAccountInactive
	}

	now := time.Now()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLogin = &now

	slog.Info("login_success", "user_id", user.ID)
	return user, nil
}
