// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/models"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/repository"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/oauth"
)

// ErrExternalIdentity is returned when a provider identity cannot be
// mapped to a local account.
var ErrExternalIdentity = errors.New("external identity rejected")

// LoginExternal resolves a provider-vouched identity to a local account,
// creating one on first login. Accounts created this way are active and
// email-confirmed immediately; the provider already verified the address.
func (s *Service) LoginExternal(ctx context.Context, ident *oauth.Identity) (*models.User, error) {
	if ident == nil || ident.Email == "" {
		return nil, fmt.Errorf("%w: missing email", ErrExternalIdentity)
	}

	user, err := s.repo.GetUserByEmail(ctx, ident.Email)
	switch {
	case err == nil:
		if !user.IsActive {
			return nil, ErrAccountInactive
		}
		now := time.Now()
		if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
			return nil, fmt.Errorf("update last login: %w", err)
		}
		user.LastLogin = &now
		slog.Info("external_login_success",
			slog.String("provider", ident.Provider),
			slog.Int64("user_id", user.ID))
		return user, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	username, err := s.availableUsername(ctx, ident)
	if err != nil {
		return nil, err
	}

	// No password is ever accepted for these accounts, but the column is
	// non-null, so store a hash of random bytes nobody knows.
	hash, err := bcrypt.GenerateFromPassword(randomSecret(), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash placeholder password: %w", err)
	}

	user = &models.User{
		Username:       username,
		Email:          ident.Email,
		PasswordHash:   string(hash),
		IsActive:       true,
		EmailConfirmed: true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	now := time.Now()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLogin = &now

	slog.Info("external_signup_success",
		slog.String("provider", ident.Provider),
		slog.Int64("user_id", user.ID))
	return user, nil
}

func (s *Service) availableUsername(ctx context.Context, ident *oauth.Identity) (string, error) {
	base := strings.ToLower(strings.ReplaceAll(ident.Username, " ", "_"))
	if base == "" {
		base = ident.Provider + "_" + ident.ExternalID
	}

	candidates := []string{base, base + "_" + ident.Provider, base + "_" + ident.ExternalID}
	for _, candidate := range candidates {
		exists, err := s.repo.UsernameExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check username: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no free username for %q", ErrExternalIdentity, base)
}

func randomSecret() []byte {
	buf := make([]byte, 32)
	rand.Read(buf)
	return []byte(hex.EncodeToString(buf))
}
