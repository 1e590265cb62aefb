package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layinded/swifter-fs/internal/models"
	"github.com/layinded/swifter-fs/internal/tokens"
)

func TestLogin_Success_TokensCarryIdentity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seedLocalUser(t, svc, "a@x.com", "goodpw12", true)

	pair, err := svc.Login(ctx, "a@x.com", "goodpw12")
	require.NoError(t, err)

	accessClaims, err := tokens.Parse(pair.AccessToken, svc.AccessSecret)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", accessClaims.Subject)
	assert.Equal(t, models.ProviderLocal, accessClaims.AuthProvider)

	refreshClaims, err := tokens.Parse(pair.RefreshToken, svc.RefreshSecret)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", refreshClaims.Subject)
}

func TestLogin_Failures(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seedLocalUser(t, svc, "a@x.com", "goodpw12", true)
	seedLocalUser(t, svc, "inactive@x.com", "goodpw12", false)
	seedProviderUser(t, svc, "g@x.com", models.ProviderGoogle, "google-sub-1")

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{name: "wrong password", email: "a@x.com", password: "badpw", want: ErrInvalidCredentials},
		{name: "unknown account", email: "nobody@x.com", password: "whatever", want: ErrInvalidCredentials},
		{name: "provider account", email: "g@x.com", password: "whatever", want: ErrInvalidCredentials},
		{name: "inactive account", email: "inactive@x.com", password: "goodpw12", want: ErrInactiveAccount},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			pair, err := svc.Login(ctx, tt.email, tt.password)
			assert.Nil(t, pair)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLogin_ProviderAccountWithStoredHashStillFails(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Even a provider account that somehow carries a hash must never
	// authenticate by password.
	user := seedProviderUser(t, svc, "g@x.com", models.ProviderGoogle, "google-sub-2")
	stray := "$2a$10$abcdefghijklmnopqrstuv"
	require.NoError(t, svc.Repo.DB.Model(user).Update("hashed_password", &stray).Error)

	pair, err := svc.Login(ctx, "g@x.com", "anything")
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_Conflict(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "goodpw12", "A")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@x.com", "otherpw12", "A")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegister_HashesPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@x.com", "goodpw12", "A")
	require.NoError(t, err)
	require.NotNil(t, user.HashedPassword)
	assert.NotEqual(t, "goodpw12", *user.HashedPassword)
	assert.Equal(t, models.ProviderLocal, user.AuthProvider)
	assert.True(t, user.IsActive)
}

func TestRecoverPassword_LocalOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seedProviderUser(t, svc, "g@x.com", models.ProviderGoogle, "google-sub-3")

	_, err := svc.RecoverPassword(ctx, "g@x.com")
	assert.ErrorIs(t, err, ErrNotLocalAccount)

	_, err = svc.RecoverPassword(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResetPassword_FullFlow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seedLocalUser(t, svc, "a@x.com", "oldpw1234", true)

	pair, err := svc.Login(ctx, "a@x.com", "oldpw1234")
	require.NoError(t, err)

	resetToken, err := svc.RecoverPassword(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, resetToken)

	require.NoError(t, svc.ResetPassword(ctx, resetToken, "newpw1234"))

	// Every outstanding session is revoked by the reset.
	_, err = svc.VerifyRefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = svc.Login(ctx, "a@x.com", "oldpw1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "a@x.com", "newpw1234")
	assert.NoError(t, err)
}

func TestResetPassword_InvalidToken(t *testing.T) {
	svc := newTestService(t)

	err := svc.ResetPassword(context.Background(), "not-a-jwt", "newpw1234")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetPassword_RefreshTokenNotAccepted(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seedLocalUser(t, svc, "a@x.com", "oldpw1234", true)

	// Reset tokens live in the access signing domain; a refresh token
	// must not pass.
	pair, err := svc.Login(ctx, "a@x.com", "oldpw1234")
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, pair.RefreshToken, "newpw1234")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
