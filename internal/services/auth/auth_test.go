// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/config"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/i18n"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/repository"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/activation"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/auth"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/email"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/testutil"
)

func TestMain(m *testing.M) {
	if err := i18n.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeSender records outgoing mail and can be told to fail.
type fakeSender struct {
	sent []fakeMessage
	err  error
}

type fakeMessage struct {
	To      string
	Subject string
	Body    string
}

func (f *fakeSender) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, fakeMessage{To: to, Subject: subject, Body: body})
	return nil
}

func newTestService(t *testing.T) (*auth.Service, *repository.Repository, *fakeSender) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)

	tokens := activation.NewService(&config.AuthConfig{
		SecretKey:            "test-secret-key",
		ActivationExpiryDays: 3,
	})
	sender := &fakeSender{}
	emails := email.NewServiceWithSender(sender, "http://localhost:8080")

	return auth.NewService(repo, tokens, emails), repo, sender
}

func validSignup() auth.SignupParams {
	return auth.SignupParams{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "correct-horse-battery",
		PasswordConfirm: "correct-horse-battery",
	}
}

// activationLink pulls the uid and token path segments out of the sent
// activation mail.
func activationLink(t *testing.T, msg fakeMessage) (uid, token string) {
	t.Helper()
	idx := strings.Index(msg.Body, "/activate/")
	require.GreaterOrEqual(t, idx, 0, "no activation link in mail body")

	rest := msg.Body[idx+len("/activate/"):]
	if end := strings.IndexAny(rest, " \n\r"); end >= 0 {
		rest = rest[:end]
	}
	parts := strings.SplitN(rest, "/", 2)
	require.Len(t, parts, 2)
	return parts[0], parts[1]
}

func TestSignup_CreatesPendingAccountAndSendsMail(t *testing.T) {
	svc, repo, sender := newTestService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, validSignup())

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.False(t, user.IsActive)
	assert.False(t, user.EmailConfirmed)

	stored, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.NotEqual(t, "correct-horse-battery", stored.PasswordHash)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "alice@example.com", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Body, "http://localhost:8080/activate/")
}

func TestSignup_InvalidEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	params := validSignup()
	params.Email = "not-an-email"
	_, err := svc.Signup(context.Background(), params)

	assert.ErrorIs(t, err, auth.ErrInvalidEmail)
}

func TestSignup_PasswordMismatch(t *testing.T) {
	svc, _, _ := newTestService(t)

	params := validSignup()
	params.PasswordConfirm = "something-else"
	_, err := svc.Signup(context.Background(), params)

	assert.ErrorIs(t, err, auth.ErrPasswordMismatch)
}

func TestSignup_WeakPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	params := validSignup()
	params.Password = "password"
	params.PasswordConfirm = "password"
	_, err := svc.Signup(context.Background(), params)

	var validationErr *auth.PasswordValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestSignup_DuplicateUsername(t *testing.T) {
	svc, repo, _ := newTestService(t)

	testutil.NewTestUser(t, repo, "alice", "other@example.com")

	_, err := svc.Signup(context.Background(), validSignup())

	assert.ErrorIs(t, err, auth.ErrUserExists)
}

func TestSignup_DeliveryFailure_LeavesAccountPending(t *testing.T) {
	svc, repo, sender := newTestService(t)
	ctx := context.Background()

	sender.err = errors.New("smtp connection refused")

	user, err := svc.Signup(ctx, validSignup())

	require.ErrorIs(t, err, auth.ErrDelivery)
	require.NotNil(t, user)

	// Account must survive the failed dispatch so the user can request a
	// new activation mail later.
	stored, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestActivate_FullFlow(t *testing.T) {
	svc, repo, sender := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)
	uid, token := activationLink(t, sender.sent[0])

	user, err := svc.Activate(ctx, uid, token)

	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.True(t, user.EmailConfirmed)
	require.NotNil(t, user.LastLogin)

	stored, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive)
	assert.True(t, stored.EmailConfirmed)
}

func TestActivate_TamperedToken(t *testing.T) {
	svc, _, sender := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)
	uid, token := activationLink(t, sender.sent[0])

	tampered := token[:len(token)-1] + flipChar(token[len(token)-1])
	_, err = svc.Activate(ctx, uid, tampered)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestActivate_SecondVisitFails(t *testing.T) {
	svc, _, sender := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)
	uid, token := activationLink(t, sender.sent[0])

	_, err = svc.Activate(ctx, uid, token)
	require.NoError(t, err)

	// The mutation changed the account state the token was derived from,
	// so the same link no longer verifies.
	_, err = svc.Activate(ctx, uid, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestActivate_MalformedInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, tc := range []struct{ uid, token string }{
		{"", ""},
		{"%%%", "1x-abc"},
		{"not-base64!", "1x-abc"},
		{"MQ", "no-dash-here-at-all"},
		{"MQ", ""},
	} {
		_, err := svc.Activate(ctx, tc.uid, tc.token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken, "uid=%q token=%q", tc.uid, tc.token)
	}
}

func TestActivate_UnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	// A syntactically valid uid for an id that does not exist behaves the
	// same as a bad signature.
	uid := activation.EncodeUID(424242)
	_, err := svc.Activate(context.Background(), uid, "1x-0123456789abcdef0123456789abcdef")

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestResendActivation(t *testing.T) {
	svc, _, sender := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	require.NoError(t, svc.ResendActivation(ctx, "alice@example.com"))

	require.Len(t, sender.sent, 2)

	// The re-issued link must activate the account.
	uid, token := activationLink(t, sender.sent[1])
	user, err := svc.Activate(ctx, uid, token)
	require.NoError(t, err)
	assert.True(t, user.IsActive)
}

func TestResendActivation_UnknownEmail_NoError(t *testing.T) {
	svc, _, sender := newTestService(t)

	err := svc.ResendActivation(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestResendActivation_ActiveAccount_NoMail(t *testing.T) {
	svc, repo, sender := newTestService(t)

	testutil.NewTestUser(t, repo, "alice", "alice@example.com")

	err := svc.ResendActivation(context.Background(), "alice@example.com")

	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestLogin(t *testing.T) {
	svc, repo, _ := newTestService(t)

	testutil.NewTestUser(t, repo, "alice", "alice@example.com")

	user, err := svc.Login(context.Background(), "alice", "sekrit-Pass-123")

	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	require.NotNil(t, user.LastLogin)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo, _ := newTestService(t)

	testutil.NewTestUser(t, repo, "alice", "alice@example.com")

	_, err := svc.Login(context.Background(), "alice", "wrong")

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "nobody", "whatever")

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_PendingAccount(t *testing.T) {
	svc, repo, _ := newTestService(t)

	testutil.NewPendingUser(t, repo, "alice", "alice@example.com")

	_, err := svc.Login(context.Background(), "alice", "sekrit-Pass-123")

	assert.ErrorIs(t, err, auth.ErrAccountInactive)
}

func TestLogin_PasswordChangeInvalidatesActivationLink(t *testing.T) {
	svc, repo, sender := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)
	uid, token := activationLink(t, sender.sent[0])

	// Simulate a password change between mail dispatch and the click.
	stored, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	stored.PasswordHash = "$2a$10$replacedreplacedreplacedreplacedreplacedreplacedreplaced"
	_, err = repo.DB().ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, stored.PasswordHash, stored.ID)
	require.NoError(t, err)

	_, err = svc.Activate(ctx, uid, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func flipChar(c byte) string {
	if c == 'a' {
		return "b"
	}
	return "a"
}
