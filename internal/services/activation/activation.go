// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package activation derives single-use, time-limited account activation
// tokens from a user's identity and mutable state. Tokens are never
// stored: verification recomputes the expected value from the user's
// current state, so consuming a token (which flips the account's flags)
// invalidates every token issued before the mutation.
package activation

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/config"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/models"
)

// The issuance index counts days since this epoch.
var epoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// signatureLength is the number of hex characters kept from the HMAC.
const signatureLength = 32

// Service issues and verifies activation tokens.
type Service struct {
	secret     []byte
	expiryDays int
	now        func() time.Time
}

// NewService creates a token service from the auth configuration.
func NewService(cfg *config.AuthConfig) *Service {
	return &Service{
		secret:     []byte(cfg.SecretKey),
		expiryDays: cfg.ActivationExpiryDays,
		now:        time.Now,
	}
}

// Issue returns a token binding the user's identity and current state to a
// short-lived permission to activate the account. Purely a function of
// state, key and the current day: two calls on the same day with an
// unchanged user yield the same token.
func (s *Service) Issue(user *models.User) string {
	day := s.dayIndex(s.now())
	return fmt.Sprintf("%s-%s", strconv.FormatInt(day, 36), s.sign(user, day))
}

// Verify checks a token against the user's current state. It returns false
// for a tampered signature, an expired issuance index, or a malformed
// token; it never fails with an error.
func (s *Service) Verify(user *models.User, token string) bool {
	if user == nil || token == "" {
		return false
	}

	encodedDay, signature, ok := strings.Cut(token, "-")
	if !ok {
		return false
	}

	day, err := strconv.ParseInt(encodedDay, 36, 64)
	if err != nil || day < 0 {
		return false
	}

	// Constant-time compare; the signature covers the user's current
	// fingerprint, so any state change since issuance breaks the match.
	expected := s.sign(user, day)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return false
	}

	return s.dayIndex(s.now())-day <= int64(s.expiryDays)
}

// sign computes the truncated hex HMAC over the user's identity,
// fingerprint and issuance index.
func (s *Service) sign(user *models.User, day int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%d:%s:%d", user.ID, fingerprint(user), day)
	return hex.EncodeToString(mac.Sum(nil))[:signatureLength]
}

// fingerprint folds the mutable account state into the signature input.
// last_login and both flags change on activation; the password hash changes
// on credential rotation. Any of these invalidates outstanding tokens.
func fingerprint(user *models.User) string {
	lastLogin := ""
	if user.LastLogin != nil {
		lastLogin = user.LastLogin.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("%s|%s|%t|%t", user.PasswordHash, lastLogin, user.IsActive, user.EmailConfirmed)
}

func (s *Service) dayIndex(t time.Time) int64 {
	return int64(t.UTC().Sub(epoch).Hours() / 24)
}

// EncodeUID encodes a user ID for safe inclusion in a URL path segment.
func EncodeUID(id int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(id, 10)))
}

// DecodeUID reverses EncodeUID. Malformed input yields an error that the
// HTTP layer treats exactly like an invalid token.
func DecodeUID(encoded string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(string(raw), 10, 64)
}
