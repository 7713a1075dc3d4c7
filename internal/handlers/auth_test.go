// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/testutil"
)

func signupForm(username, email, password string) string {
	form := url.Values{}
	form.Set("username", username)
	form.Set("email", email)
	form.Set("password", password)
	form.Set("password_confirm", password)
	return form.Encode()
}

// activationLink extracts the uid and token from the last sent mail.
func activationLink(t *testing.T, sender *fakeSender) (uid, token string) {
	t.Helper()
	require.NotEmpty(t, sender.bodies)

	body := sender.bodies[len(sender.bodies)-1]
	_, rest, found := strings.Cut(body, "/activate/")
	require.True(t, found, "mail body should contain an activation link")

	parts := strings.SplitN(strings.Fields(rest)[0], "/", 2)
	require.Len(t, parts, 2)
	return parts[0], parts[1]
}

func TestSignupPage(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	e := newTestEcho()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/signup", nil)

	err := h.SignupPage(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<!doctype html>")
}

func TestSignup_Success(t *testing.T) {
	h, _, sender := newTestHandlers(t)

	e := newTestEcho()
	c, rec := formRequest(e, "/signup", signupForm("alice", "alice@example.com", "correct-horse-battery"))

	err := h.Signup(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/activation-sent", rec.Header().Get("Location"))
	assert.Len(t, sender.bodies, 1)
}

func TestSignup_MissingEmail(t *testing.T) {
	h, _, sender := newTestHandlers(t)

	form := url.Values{}
	form.Set("username", "alice")
	form.Set("password", "correct-horse-battery")
	form.Set("password_confirm", "correct-horse-battery")

	e := newTestEcho()
	c, rec := formRequest(e, "/signup", form.Encode())

	err := h.Signup(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, sender.bodies)
}

func TestSignup_WeakPassword(t *testing.T) {
	h, _, sender := newTestHandlers(t)

	e := newTestEcho()
	c, rec := formRequest(e, "/signup", signupForm("alice", "alice@example.com", "password"))

	err := h.Signup(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, sender.bodies)
}

func TestSignup_DuplicateUsername(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	testutil.NewTestUser(t, repo, "alice", "other@example.com")

	e := newTestEcho()
	c, rec := formRequest(e, "/signup", signupForm("alice", "alice@example.com", "correct-horse-battery"))

	err := h.Signup(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestActivate(t *testing.T) {
	h, repo, sender := newTestHandlers(t)

	e := newTestEcho()
	c, rec := formRequest(e, "/signup", signupForm("alice", "alice@example.com", "correct-horse-battery"))
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	uid, token := activationLink(t, sender)
	c, rec = testutil.NewEchoContext(e, http.MethodGet, "/activate/"+uid+"/"+token, nil)
	c.SetParamNames("uid", "token")
	c.SetParamValues(uid, token)

	err := h.Activate(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	user, err := repo.GetUserByUsername(c.Request().Context(), "alice")
	require.NoError(t, err)
	assert.True(t, user.IsActive)

	// Activation logs the user in right away
	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "_session" {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	assert.NotEmpty(t, sessionCookie.Value)
}

func TestActivate_InvalidToken(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	e := newTestEcho()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/activate/MQ/1-bogus", nil)
	c.SetParamNames("uid", "token")
	c.SetParamValues("MQ", "1-bogus")

	err := h.Activate(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResendActivation(t *testing.T) {
	h, repo, sender := newTestHandlers(t)
	testutil.NewPendingUser(t, repo, "alice", "alice@example.com")

	form := url.Values{}
	form.Set("email", "alice@example.com")

	e := newTestEcho()
	c, rec := formRequest(e, "/resend-activation", form.Encode())

	err := h.ResendActivation(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, sender.bodies, 1)
}

func TestResendActivation_UnknownEmail(t *testing.T) {
	h, _, sender := newTestHandlers(t)

	form := url.Values{}
	form.Set("email", "nobody@example.com")

	e := newTestEcho()
	c, rec := formRequest(e, "/resend-activation", form.Encode())

	err := h.ResendActivation(c)

	// Same response as for a known address
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, sender.bodies)
}

func TestLogin_Success(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	testutil.NewTestUser(t, repo, "alice", "alice@example.com")

	form := url.Values{}
	form.Set("username", "alice")
	form.Set("password", "sekrit-Pass-123")

	e := newTestEcho()
	c, rec := formRequest(e, "/login", form.Encode())

	err := h.Login(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "_session" {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	assert.NotEmpty(t, sessionCookie.Value)
}

func TestLogin_WrongPassword(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	testutil.NewTestUser(t, repo, "alice", "alice@example.com")

	form := url.Values{}
	form.Set("username", "alice")
	form.Set("password", "wrong-password")

	e := newTestEcho()
	c, rec := formRequest(e, "/login", form.Encode())

	err := h.Login(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_PendingAccount(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	testutil.NewPendingUser(t, repo, "alice", "alice@example.com")

	form := url.Values{}
	form.Set("username", "alice")
	form.Set("password", "sekrit-Pass-123")

	e := newTestEcho()
	c, rec := formRequest(e, "/login", form.Encode())

	err := h.Login(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	e := newTestEcho()
	c, rec := formRequest(e, "/logout", "")

	err := h.Logout(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "_session" {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	assert.Equal(t, -1, sessionCookie.MaxAge)
}

func TestOAuthStart_UnknownProvider(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	e := newTestEcho()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/oauth/google", nil)
	c.SetParamNames("provider")
	c.SetParamValues("google")

	err := h.OAuthStart(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
