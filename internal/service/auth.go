package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/layinded/swifter-fs/internal/audit"
	"github.com/layinded/swifter-fs/internal/hash"
	"github.com/layinded/swifter-fs/internal/logging"
	"github.com/layinded/swifter-fs/internal/models"
	"github.com/layinded/swifter-fs/internal/tokens"
)

// Login authenticates a local password and issues a session pair.
// "No such account", "provider-backed account" and "wrong password"
// all collapse into ErrInvalidCredentials so the response never leaks
// which one happened; the distinction lives in logs and audit only.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 400, "reason", "unknown account")
			s.record(ctx, audit.Event{Action: "login", Email: email, Outcome: "denied", Reason: "unknown account"})
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Fail closed: a provider-backed account never gets a password
	// check, not even against a stored hash.
	if !user.IsLocal() {
		l.Warn("login_failed", "status", 400, "reason", "password login against provider account", "provider", user.AuthProvider)
		s.record(ctx, audit.Event{Action: "login", Email: email, Provider: user.AuthProvider, Outcome: "denied", Reason: "provider account"})
		return nil, ErrInvalidCredentials
	}

	if user.HashedPassword == nil || !hash.CheckPassword(*user.HashedPassword, password) {
		l.Warn("login_failed", "status", 400, "reason", "wrong password")
		s.record(ctx, audit.Event{Action: "login", Email: email, Outcome: "denied", Reason: "wrong password"})
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		l.Warn("login_failed", "status", 400, "reason", "inactive account")
		s.record(ctx, audit.Event{Action: "login", Email: email, Outcome: "denied", Reason: "inactive account"})
		return nil, ErrInactiveAccount
	}

	pair, err := s.IssueSessionPair(ctx, user.Email, user.AuthProvider)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	l.Info("login_successful")
	s.record(ctx, audit.Event{Action: "login", Email: user.Email, Provider: user.AuthProvider, Outcome: "ok"})
	s.publish(ctx, user.Email, map[string]interface{}{
		"type":  "user_logged_in",
		"email": user.Email,
	})
	return pair, nil
}

// Register creates a new local account.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "email", email)

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		Email:          email,
		HashedPassword: &pwHash,
		FullName:       fullName,
		AuthProvider:   models.ProviderLocal,
		IsActive:       true,
	}

	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			l.Warn("register_failed", "status", 400, "reason", "user already exists")
			return nil, ErrUserAlreadyExists
		}
		l.Error("register_failed", "status", 500, "error", err)
		return nil, err
	}

	l.Info("user_registered")
	s.publish(ctx, user.Email, map[string]interface{}{
		"type":  "user_registered",
		"email": user.Email,
	})
	return user, nil
}

// RecoverPassword issues a reset token for a local account. The token
// travels to the user through the events topic; actually rendering and
// sending mail is someone else's job.
func (s *AuthService) RecoverPassword(ctx context.Context, email string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.recover", "email", email)

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if !user.IsLocal() {
		l.Warn("recover_rejected", "status", 400, "reason", "provider account", "provider", user.AuthProvider)
		return "", ErrNotLocalAccount
	}

	// Reset tokens live in the access signing domain.
	resetToken, err := tokens.New(email, models.ProviderLocal, s.ResetTTL, s.AccessSecret)
	if err != nil {
		return "", err
	}

	l.Info("password_reset_requested")
	s.publish(ctx, email, map[string]interface{}{
		"type":        "password_reset_requested",
		"email":       email,
		"reset_token": resetToken,
	})
	return resetToken, nil
}

// ResetPassword verifies a reset token, replaces the password hash and
// revokes every outstanding session for the account.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.reset")

	claims, err := tokens.Parse(resetToken, s.AccessSecret)
	if err != nil {
		l.Warn("reset_rejected", "status", 400, "reason", err.Error())
		return err
	}
	email := claims.Subject

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !user.IsLocal() {
		l.Warn("reset_rejected", "status", 400, "reason", "provider account", "provider", user.AuthProvider)
		return ErrNotLocalAccount
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdateUserPassword(ctx, email, pwHash); err != nil {
		return err
	}

	// Cascading revoke: a reset password forces logout everywhere.
	if err := s.RevokeAll(ctx, email); err != nil {
		return err
	}

	l.Info("password_reset", "email", email)
	s.record(ctx, audit.Event{Action: "password_reset", Email: email, Outcome: "ok"})
	s.publish(ctx, email, map[string]interface{}{
		"type":  "password_reset",
		"email": email,
	})
	return nil
}
