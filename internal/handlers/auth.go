// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/i18n"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/auth"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/templates"
)

// oauthStateCookie holds the anti-forgery state during the OAuth handshake.
const oauthStateCookie = "_oauth_state"

type signupRequest struct {
	Username        string `form:"username" validate:"required,min=3,max=150"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required"`
	PasswordConfirm string `form:"password_confirm" validate:"required"`
}

// SignupPage renders the signup form.
func (h *Handlers) SignupPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Signup(templates.SignupForm{}))
}

// Signup handles the signup form submission. On success the user is sent
// to the "check your inbox" page; a failed mail dispatch leaves the
// account pending and points at the resend flow instead.
func (h *Handlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return RenderError(c, http.StatusBadRequest, "")
	}

	form := templates.SignupForm{Username: req.Username, Email: req.Email}

	if err := c.Validate(&req); err != nil {
		form.Errors = append(form.Errors, i18n.T(ctx, "error_invalid_form"))
		return Render(c, http.StatusUnprocessableEntity, templates.Signup(form))
	}

	_, err := h.auth.Signup(ctx, auth.SignupParams{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})

	var passwordErr *auth.PasswordValidationError
	switch {
	case err == nil:
		return c.Redirect(http.StatusSeeOther, "/activation-sent")
	case errors.Is(err, auth.ErrDelivery):
		// Account exists; the user just needs a working link.
		return Render(c, http.StatusOK, templates.ResendActivation(templates.ResendForm{
			Email: req.Email,
			Error: i18n.T(ctx, "error_delivery_failed"),
		}))
	case errors.Is(err, auth.ErrUserExists):
		form.Errors = append(form.Errors, i18n.T(ctx, "error_username_taken"))
	case errors.Is(err, auth.ErrInvalidEmail):
		form.Errors = append(form.Errors, i18n.T(ctx, "error_invalid_email"))
	case errors.Is(err, auth.ErrPasswordMismatch):
		form.Errors = append(form.Errors, i18n.T(ctx, "error_password_mismatch"))
	case errors.As(err, &passwordErr):
		form.Errors = append(form.Errors, passwordErr.Messages()...)
	default:
		return err
	}

	return Render(c, http.StatusUnprocessableEntity, templates.Signup(form))
}

// ActivationSent renders the post-signup "check your inbox" page.
func (h *Handlers) ActivationSent(c echo.Context) error {
	return Render(c, http.StatusOK, templates.ActivationSent())
}

// Activate handles a click on the activation link. Any invalid link
// renders the same page regardless of the failure reason. A successful
// activation logs the user in right away.
func (h *Handlers) Activate(c echo.Context) error {
	user, err := h.auth.Activate(c.Request().Context(), c.Param("uid"), c.Param("token"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return Render(c, http.StatusBadRequest, templates.ActivationInvalid())
		}
		return err
	}

	cookie, err := h.sessions.Create(user.ID, user.Username, user.IsStaff)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)

	return Render(c, http.StatusOK, templates.ActivationSuccess(user.Username))
}

// ResendActivationPage renders the resend-activation form.
func (h *Handlers) ResendActivationPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.ResendActivation(templates.ResendForm{}))
}

// ResendActivation re-sends the activation mail. The response does not
// reveal whether the address belongs to an account.
func (h *Handlers) ResendActivation(c echo.Context) error {
	ctx := c.Request().Context()
	email := c.FormValue("email")

	if err := h.auth.ResendActivation(ctx, email); err != nil {
		if errors.Is(err, auth.ErrDelivery) {
			return Render(c, http.StatusOK, templates.ResendActivation(templates.ResendForm{
				Email: email,
				Error: i18n.T(ctx, "error_delivery_failed"),
			}))
		}
		return err
	}

	return Render(c, http.StatusOK, templates.ActivationSent())
}

// LoginPage renders the login form.
func (h *Handlers) LoginPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Login(templates.LoginForm{}))
}

// Login handles the login form submission.
func (h *Handlers) Login(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.FormValue("username")
	password := c.FormValue("password")

	user, err := h.auth.Login(ctx, username, password)
	if err != nil {
		form := templates.LoginForm{Username: username}
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			form.Error = i18n.T(ctx, "error_invalid_credentials")
		case errors.Is(err, auth.ErrAccountInactive):
			form.Error = i18n.T(ctx, "error_account_inactive")
		default:
			return err
		}
		return Render(c, http.StatusUnauthorized, templates.Login(form))
	}

	cookie, err := h.sessions.Create(user.ID, user.Username, user.IsStaff)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)

	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout clears the session and returns to the home page.
func (h *Handlers) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.Clear())
	return c.Redirect(http.StatusSeeOther, "/")
}

// OAuthStart redirects to the provider's consent page.
func (h *Handlers) OAuthStart(c echo.Context) error {
	provider, err := h.oauth.Get(c.Param("provider"))
	if err != nil {
		return NotFound(c)
	}

	state := randomState()
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusSeeOther, provider.AuthCodeURL(state))
}

// OAuthCallback completes the provider handshake and logs the user in.
func (h *Handlers) OAuthCallback(c echo.Context) error {
	ctx := c.Request().Context()

	provider, err := h.oauth.Get(c.Param("provider"))
	if err != nil {
		return NotFound(c)
	}

	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state.Value == "" || state.Value != c.QueryParam("state") {
		return RenderError(c, http.StatusBadRequest, "")
	}

	identity, err := provider.Authenticate(ctx, c.QueryParam("code"))
	if err != nil {
		slog.Warn("oauth_callback_failed", "provider", provider.Name(), "error", err)
		return Render(c, http.StatusUnauthorized, templates.Login(templates.LoginForm{
			Error: i18n.T(ctx, "error_invalid_credentials"),
		}))
	}

	user, err := h.auth.LoginExternal(ctx, identity)
	if err != nil {
		slog.Warn("oauth_login_failed", "provider", provider.Name(), "error", err)
		return Render(c, http.StatusUnauthorized, templates.Login(templates.LoginForm{
			Error: i18n.T(ctx, "error_invalid_credentials"),
		}))
	}

	cookie, err := h.sessions.Create(user.ID, user.Username, user.IsStaff)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)

	return c.Redirect(http.StatusSeeOther, "/")
}

func randomState() string {
	buf := make([]byte, 16)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
