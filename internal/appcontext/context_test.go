// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package appcontext_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/appcontext"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/models"
)

func TestGetUser_Empty(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, appcontext.GetUser(ctx))
	assert.False(t, appcontext.IsAuthenticated(ctx))
	assert.False(t, appcontext.IsStaff(ctx))
}

func TestGetUser_Stored(t *testing.T) {
	user := &models.User{ID: 1, Username: "alice"}
	ctx := appcontext.WithUser(context.Background(), user)

	assert.Equal(t, user, appcontext.GetUser(ctx))
	assert.True(t, appcontext.IsAuthenticated(ctx))
	assert.False(t, appcontext.IsStaff(ctx))
}

func TestIsStaff(t *testing.T) {
	user := &models.User{ID: 1, Username: "librarian", IsStaff: true}
	ctx := appcontext.WithUser(context.Background(), user)

	assert.True(t, appcontext.IsStaff(ctx))
}

func TestVisits(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, 0, appcontext.GetVisits(ctx))

	ctx = appcontext.WithVisits(ctx, 7)
	assert.Equal(t, 7, appcontext.GetVisits(ctx))
}
