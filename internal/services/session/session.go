// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package session issues and parses the signed, encrypted login cookie.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/config"
)

// keyLength is the required decoded length of the hash and block keys.
const keyLength = 32

// Data is the session payload stored in the cookie.
type Data struct {
	UserID    int64
	Username  string
	IsStaff   bool
	ExpiresAt time.Time
}

// Manager encodes session state into a securecookie-protected cookie.
// The hash key authenticates cookies, the optional block key encrypts them.
type Manager struct {
	codec      *securecookie.SecureCookie
	cookieName string
	maxAge     int
	secure     bool
}

// NewManager builds a session manager from configuration. Keys are
// hex-encoded 32-byte values; an empty hash key generates a random one,
// which invalidates all sessions on restart and is only meant for
// development setups.
func NewManager(cfg *config.SessionConfig, secure bool) (*Manager, error) {
	var hashKey []byte
	if cfg.HashKey == "" {
		hashKey = securecookie.GenerateRandomKey(keyLength)
	} else {
		var err error
		hashKey, err = hex.DecodeString(cfg.HashKey)
		if err != nil {
			return nil, fmt.Errorf("invalid session hash key: %w", err)
		}
		if len(hashKey) != keyLength {
			return nil, fmt.Errorf("session hash key must be %d bytes, got %d", keyLength, len(hashKey))
		}
	}

	var blockKey []byte
	if cfg.BlockKey != "" {
		var err error
		blockKey, err = hex.DecodeString(cfg.BlockKey)
		if err != nil {
			return nil, fmt.Errorf("invalid session block key: %w", err)
		}
		if len(blockKey) != keyLength {
			return nil, fmt.Errorf("session block key must be %d bytes, got %d", keyLength, len(blockKey))
		}
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(cfg.MaxAge)

	return &Manager{
		codec:      codec,
		cookieName: cfg.CookieName,
		maxAge:     cfg.MaxAge,
		secure:     secure,
	}, nil
}

// Create returns a login cookie for the given user.
func (m *Manager) Create(userID int64, username string, isStaff bool) (*http.Cookie, error) {
	data := Data{
		UserID:    userID,
		Username:  username,
		IsStaff:   isStaff,
		ExpiresAt: time.Now().Add(time.Duration(m.maxAge) * time.Second),
	}

	value, err := m.codec.Encode(m.cookieName, data)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}

	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   m.maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Parse extracts the session payload from the request cookie. A missing,
// tampered or expired cookie yields a nil session, not an error; broken
// cookies are treated the same as anonymous requests.
func (m *Manager) Parse(r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil, nil
	}

	var data Data
	if err := m.codec.Decode(m.cookieName, cookie.Value, &data); err != nil {
		return nil, nil
	}
	if data.UserID == 0 || time.Now().After(data.ExpiresAt) {
		return nil, nil
	}
	return &data, nil
}

// Clear returns an expired cookie that removes the session.
func (m *Manager) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// GenerateKey returns a fresh hex-encoded key suitable for the hash or
// block key settings.
func GenerateKey() string {
	buf := make([]byte, keyLength)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
