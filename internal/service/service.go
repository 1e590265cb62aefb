package service

import (
	"errors"
	"time"

	"github.com/layinded/swifter-fs/internal/audit"
	"github.com/layinded/swifter-fs/internal/events"
	"github.com/layinded/swifter-fs/internal/repo"
	"github.com/layinded/swifter-fs/internal/tokens"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("inactive account")
	ErrTokenRevoked       = errors.New("refresh token revoked or unknown")
	ErrMissingProviderID  = errors.New("missing provider identifier")
	ErrNotLocalAccount    = errors.New("not a local account")
	ErrUserNotFound       = errors.New("user not found")

	ErrInvalidToken      = tokens.ErrInvalidToken
	ErrExpiredToken      = tokens.ErrExpiredToken
	ErrUserAlreadyExists = repo.ErrUserAlreadyExists
)

type AuthService struct {
	Repo *repo.Repo

	AccessSecret  []byte
	RefreshSecret []byte

	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration

	Events *events.Producer
	Audit  *audit.Recorder
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Identity is what a verified refresh token resolves to.
type Identity struct {
	Email    string
	Provider string
}
