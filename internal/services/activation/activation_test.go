// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package activation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/config"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/models"
)

func newTestService() *Service {
	return NewService(&config.AuthConfig{
		SecretKey:            "test-secret-key-not-for-production",
		ActivationExpiryDays: 3,
	})
}

func pendingUser() *models.User {
	return &models.User{
		ID:           42,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc := newTestService()
	user := pendingUser()

	token := svc.Issue(user)

	assert.True(t, svc.Verify(user, token))
}

func TestIssue_Deterministic(t *testing.T) {
	svc := newTestService()
	user := pendingUser()

	// Same day, same fingerprint: no stored nonce, so the token must be
	// recomputable.
	assert.Equal(t, svc.Issue(user), svc.Issue(user))
}

func TestIssue_TokenShape(t *testing.T) {
	svc := newTestService()

	token := svc.Issue(pendingUser())

	parts := strings.SplitN(token, "-", 2)
	require.Len(t, parts, 2)
	assert.NotEmpty(t, parts[0])
	assert.Len(t, parts[1], signatureLength)
}

func TestVerify_FailsAfterActivation(t *testing.T) {
	svc := newTestService()
	user := pendingUser()
	token := svc.Issue(user)

	// Apply the terminal mutation the activation flow performs.
	now := time.Now()
	user.IsActive = true
	user.EmailConfirmed = true
	user.LastLogin = &now

	assert.False(t, svc.Verify(user, token), "token must die once the fingerprint changes")
}

func TestVerify_FailsAfterPasswordChange(t *testing.T) {
	svc := newTestService()
	user := pendingUser()
	token := svc.Issue(user)

	user.PasswordHash = "$2a$10$differentdifferentdiffer"

	assert.False(t, svc.Verify(user, token))
}

func TestVerify_FailsPastExpiryWindow(t *testing.T) {
	svc := newTestService()
	user := pendingUser()
	token := svc.Issue(user)

	// Jump the clock just past the window.
	svc.now = func() time.Time {
		return time.Now().AddDate(0, 0, svc.expiryDays+1)
	}

	assert.False(t, svc.Verify(user, token))
}

func TestVerify_StillValidInsideExpiryWindow(t *testing.T) {
	svc := newTestService()
	user := pendingUser()
	token := svc.Issue(user)

	svc.now = func() time.Time {
		return time.Now().AddDate(0, 0, svc.expiryDays)
	}

	assert.True(t, svc.Verify(user, token))
}

func TestVerify_TamperedSignature(t *testing.T) {
	svc := newTestService()
	user := pendingUser()
	token := svc.Issue(user)

	// Flip the last signature character.
	last := token[len(token)-1]
	flipped := byte('0')
	if last == '0' {
		flipped = '1'
	}
	tampered := token[:len(token)-1] + string(flipped)

	assert.False(t, svc.Verify(user, tampered))
}

func TestVerify_WrongUser(t *testing.T) {
	svc := newTestService()
	user := pendingUser()
	token := svc.Issue(user)

	other := pendingUser()
	other.ID = 43

	assert.False(t, svc.Verify(other, token))
}

func TestVerify_MalformedTokens(t *testing.T) {
	svc := newTestService()
	user := pendingUser()

	malformed := []string{
		"",
		"-",
		"no-dash-but-wrong",
		"notbase36!-abcdef",
		"zzzz",
		"1234",
		"-abcdef0123456789abcdef0123456789",
		strings.Repeat("x", 1000),
	}

	for _, token := range malformed {
		assert.False(t, svc.Verify(user, token), "token %q must not verify", token)
	}
}

func TestVerify_NilUser(t *testing.T) {
	svc := newTestService()

	assert.False(t, svc.Verify(nil, "p0w3r-abcdef"))
}

func TestVerify_DifferentSecrets(t *testing.T) {
	user := pendingUser()

	svcA := newTestService()
	svcB := NewService(&config.AuthConfig{
		SecretKey:            "another-secret",
		ActivationExpiryDays: 3,
	})

	token := svcA.Issue(user)

	assert.False(t, svcB.Verify(user, token))
}

func TestEncodeDecodeUID(t *testing.T) {
	for _, id := range []int64{1, 42, 999999999} {
		encoded := EncodeUID(id)

		assert.NotContains(t, encoded, "/")
		assert.NotContains(t, encoded, "+")

		decoded, err := DecodeUID(encoded)
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
}

func TestDecodeUID_Malformed(t *testing.T) {
	for _, encoded := range []string{"", "!!!", "%%%", "not base64 at all"} {
		_, err := DecodeUID(encoded)
		assert.Error(t, err, "input %q", encoded)
	}
}

func TestDecodeUID_NonNumericPayload(t *testing.T) {
	_, err := DecodeUID(EncodeUID(7) + "x")
	assert.Error(t, err)
}
