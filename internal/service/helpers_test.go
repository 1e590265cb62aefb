package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/layinded/swifter-fs/internal/hash"
	"github.com/layinded/swifter-fs/internal/models"
	"github.com/layinded/swifter-fs/internal/repo"
)

func newTestService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}))

	return &AuthService{
		Repo:          &repo.Repo{DB: db},
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		ResetTTL:      time.Hour,
	}
}

func seedLocalUser(t *testing.T, svc *AuthService, email, password string, active bool) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Email:          email,
		HashedPassword: &pwHash,
		AuthProvider:   models.ProviderLocal,
		IsActive:       active,
	}
	require.NoError(t, svc.Repo.CreateUser(context.Background(), user))
	return user
}

func seedProviderUser(t *testing.T, svc *AuthService, email, provider, providerID string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		AuthProvider: provider,
		ProviderID:   &providerID,
		IsActive:     true,
	}
	require.NoError(t, svc.Repo.CreateUser(context.Background(), user))
	return user
}
