package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/layinded/swifter-fs/internal/audit"
	"github.com/layinded/swifter-fs/internal/logging"
	"github.com/layinded/swifter-fs/internal/tokens"
)

// IssueSessionPair signs a fresh access/refresh token pair for the
// account and durably upserts the refresh row before returning. If the
// store write fails no pair is handed out, so clients never hold a
// refresh token the server cannot validate later. The upsert also
// silently invalidates any previously issued refresh token for the
// same account.
func (s *AuthService) IssueSessionPair(ctx context.Context, email, provider string) (*TokenPair, error) {
	access, err := tokens.New(email, provider, s.AccessTTL, s.AccessSecret)
	if err != nil {
		return nil, err
	}

	refresh, err := tokens.New(email, provider, s.RefreshTTL, s.RefreshSecret)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(s.RefreshTTL)
	if err := s.Repo.UpsertRefreshToken(ctx, email, refresh, expiresAt); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyRefreshToken checks, in order: signature, store membership by
// exact string, store expiry. The JWT claim alone is never enough; a
// token rotated away by a later upsert fails with ErrTokenRevoked even
// though its embedded expiry has not passed.
func (s *AuthService) VerifyRefreshToken(ctx context.Context, token string) (*Identity, error) {
	claims, err := tokens.Parse(token, s.RefreshSecret)
	if err != nil {
		return nil, err
	}

	record, err := s.Repo.FindRefreshByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenRevoked
		}
		return nil, err
	}

	// Store timestamps are naive and treated as UTC.
	if time.Now().UTC().After(record.ExpiresAt) {
		return nil, ErrExpiredToken
	}

	return &Identity{Email: claims.Subject, Provider: claims.AuthProvider}, nil
}

// Refresh rotates a verified refresh token into a new session pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	identity, err := s.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		l.Warn("refresh_rejected", "status", 401, "reason", err.Error())
		s.record(ctx, audit.Event{Action: "token_refresh", Outcome: "denied", Reason: err.Error()})
		return nil, err
	}

	pair, err := s.IssueSessionPair(ctx, identity.Email, identity.Provider)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	s.record(ctx, audit.Event{Action: "token_refresh", Email: identity.Email, Provider: identity.Provider, Outcome: "ok"})
	return pair, nil
}

// Revoke logs the session out. Logging out twice is normal client
// behavior, so an absent store row still counts as success; only a
// token that never carried a valid signature is rejected. The
// already-revoked case is distinguished in logs, never to the caller.
func (s *AuthService) Revoke(ctx context.Context, refreshToken string) error {
	l := logging.FromContext(ctx).With("svc", "auth.revoke")

	claims, err := tokens.Parse(refreshToken, s.RefreshSecret)
	if err != nil && !errors.Is(err, ErrExpiredToken) {
		l.Warn("revoke_rejected", "status", 401, "reason", "invalid signature")
		return ErrInvalidToken
	}

	deleted, err := s.Repo.DeleteRefreshByToken(ctx, refreshToken)
	if err != nil {
		return err
	}

	l.Info("refresh_token_revoked", "email", claims.Subject, "was_present", deleted)
	s.record(ctx, audit.Event{Action: "token_revoke", Email: claims.Subject, Outcome: "ok"})
	return nil
}

// RevokeAll force-logs-out every session for the account.
func (s *AuthService) RevokeAll(ctx context.Context, email string) error {
	return s.Repo.DeleteAllRefreshForUser(ctx, email)
}

func (s *AuthService) record(ctx context.Context, e audit.Event) {
	if err := s.Audit.Record(ctx, e); err != nil {
		logging.FromContext(ctx).Warn("audit_record_failed", "action", e.Action, "error", err)
	}
}

func (s *AuthService) publish(ctx context.Context, key string, event map[string]interface{}) {
	if err := s.Events.Publish(ctx, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "key", key, "error", err)
	}
}
