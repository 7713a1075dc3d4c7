// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package appcontext provides the shared context keys and helpers for
// request-scoped values.
package appcontext

import (
	"context"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/models"
)

// Context keys for storing values in context.Context.
type (
	// CSRFToken is the context key for the CSRF token.
	CSRFToken struct{}
	// User is the context key for the authenticated user.
	User struct{}
	// Visits is the context key for the per-session visit counter.
	Visits struct{}
)

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, User{}, user)
}

// GetUser returns the authenticated user, or nil if not authenticated.
func GetUser(ctx context.Context) *models.User {
	if user, ok := ctx.Value(User{}).(*models.User); ok {
		return user
	}
	return nil
}

// IsAuthenticated returns true if the context has an authenticated user.
func IsAuthenticated(ctx context.Context) bool {
	return GetUser(ctx) != nil
}

// IsStaff returns true if the authenticated user is a staff member.
func IsStaff(ctx context.Context) bool {
	user := GetUser(ctx)
	return user != nil && user.IsStaff
}

// WithVisits stores the visit counter in the context.
func WithVisits(ctx context.Context, visits int) context.Context {
	return context.WithValue(ctx, Visits{}, visits)
}

// GetVisits returns the per-session visit counter.
func GetVisits(ctx context.Context) int {
	if visits, ok := ctx.Value(Visits{}).(int); ok {
		return visits
	}
	return 0
}
