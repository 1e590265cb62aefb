package repo

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/layinded/swifter-fs/internal/models"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}))

	return &Repo{DB: db}
}

func countRefreshRows(t *testing.T, r *Repo, email string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, r.DB.Model(&models.RefreshToken{}).Where("user_email = ?", email).Count(&count).Error)
	return count
}

func TestUpsertRefreshToken_ReplacesInPlace(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	exp := time.Now().UTC().Add(24 * time.Hour)

	require.NoError(t, r.UpsertRefreshToken(ctx, "a@x.com", "token-one", exp))
	require.NoError(t, r.UpsertRefreshToken(ctx, "a@x.com", "token-two", exp.Add(time.Hour)))

	assert.EqualValues(t, 1, countRefreshRows(t, r, "a@x.com"))

	record, err := r.FindRefreshByToken(ctx, "token-two")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", record.UserEmail)

	_, err = r.FindRefreshByToken(ctx, "token-one")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpsertRefreshToken_IndependentAccounts(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	exp := time.Now().UTC().Add(time.Hour)

	require.NoError(t, r.UpsertRefreshToken(ctx, "a@x.com", "token-a", exp))
	require.NoError(t, r.UpsertRefreshToken(ctx, "b@x.com", "token-b", exp))

	assert.EqualValues(t, 1, countRefreshRows(t, r, "a@x.com"))
	assert.EqualValues(t, 1, countRefreshRows(t, r, "b@x.com"))
}

func TestDeleteRefreshByToken_Idempotent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.UpsertRefreshToken(ctx, "a@x.com", "token-one", time.Now().UTC().Add(time.Hour)))

	deleted, err := r.DeleteRefreshByToken(ctx, "token-one")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = r.DeleteRefreshByToken(ctx, "token-one")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteAllRefreshForUser(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	exp := time.Now().UTC().Add(time.Hour)

	require.NoError(t, r.UpsertRefreshToken(ctx, "a@x.com", "token-a", exp))
	require.NoError(t, r.UpsertRefreshToken(ctx, "b@x.com", "token-b", exp))

	require.NoError(t, r.DeleteAllRefreshForUser(ctx, "a@x.com"))

	assert.EqualValues(t, 0, countRefreshRows(t, r, "a@x.com"))
	assert.EqualValues(t, 1, countRefreshRows(t, r, "b@x.com"))
}
