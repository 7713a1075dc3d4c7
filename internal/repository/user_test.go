// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/models"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/repository"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := &models.User{
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hash",
	}
	err := repo.CreateUser(ctx, user)

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
}

func TestCreateUser_CreatesProfile(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "testuser", "test@example.com")

	profile, err := repo.GetProfileByUserID(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.UserID)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	testutil.NewTestUser(t, repo, "testuser", "a@example.com")

	err := repo.CreateUser(ctx, &models.User{
		Username:     "testuser",
		Email:        "b@example.com",
		PasswordHash: "hash",
	})

	assert.Error(t, err)
}

func TestGetUserByID(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	created := testutil.NewTestUser(t, repo, "testuser", "test@example.com")

	retrieved, err := repo.GetUserByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, retrieved.ID)
	assert.Equal(t, "testuser", retrieved.Username)
}

func TestGetUserByID_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetUserByID(context.Background(), 999)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetUserByUsername(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	created := testutil.NewTestUser(t, repo, "testuser", "test@example.com")

	retrieved, err := repo.GetUserByUsername(ctx, "testuser")

	require.NoError(t, err)
	assert.Equal(t, created.ID, retrieved.ID)
}

func TestGetUserByEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	created := testutil.NewTestUser(t, repo, "testuser", "test@example.com")

	retrieved, err := repo.GetUserByEmail(ctx, "test@example.com")

	require.NoError(t, err)
	assert.Equal(t, created.ID, retrieved.ID)
}

func TestUsernameExists(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	testutil.NewTestUser(t, repo, "testuser", "test@example.com")

	exists, err := repo.UsernameExists(ctx, "testuser")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.UsernameExists(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestActivateUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewPendingUser(t, repo, "testuser", "test@example.com")
	require.False(t, user.IsActive)

	err := repo.ActivateUser(ctx, user.ID, time.Now())

	require.NoError(t, err)
	activated, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)
	assert.True(t, activated.EmailConfirmed)
	assert.NotNil(t, activated.LastLogin)
}

func TestActivateUser_Idempotent(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewPendingUser(t, repo, "testuser", "test@example.com")

	require.NoError(t, repo.ActivateUser(ctx, user.ID, time.Now()))
	require.NoError(t, repo.ActivateUser(ctx, user.ID, time.Now()))

	activated, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)
}

func TestUpdateLastLogin(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "testuser", "test@example.com")

	now := time.Now().Truncate(time.Second)
	err := repo.UpdateLastLogin(ctx, user.ID, now)

	require.NoError(t, err)
	updated, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.LastLogin)
}

func TestCountUsers(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	count, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	testutil.NewTestUser(t, repo, "a", "a@example.com")
	testutil.NewTestUser(t, repo, "b", "b@example.com")

	count, err = repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
