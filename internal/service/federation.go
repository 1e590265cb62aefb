package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/layinded/swifter-fs/internal/audit"
	"github.com/layinded/swifter-fs/internal/logging"
	"github.com/layinded/swifter-fs/internal/models"
)

// ResolveOrCreate maps a provider's user-info payload to a local
// account, keyed by email. An existing account is returned exactly as
// stored, whatever provider created it: first writer wins on the
// provider binding, so registering the same email through a second
// provider can never merge into an existing account's privileges.
func (s *AuthService) ResolveOrCreate(ctx context.Context, email string, userInfo map[string]interface{}, provider string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.federation", "email", email, "provider", provider)

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	providerID := providerSubject(userInfo, provider)
	if providerID == "" {
		// Provider contract problem, not a user mistake.
		l.Error("federation_failed", "status", 400, "reason", "payload lacks provider identifier")
		return nil, ErrMissingProviderID
	}

	fullName, _ := userInfo["name"].(string)
	newUser := &models.User{
		Email:        email,
		FullName:     fullName,
		AuthProvider: provider,
		ProviderID:   &providerID,
		IsActive:     true,
	}

	if err := s.Repo.CreateUser(ctx, newUser); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			// Lost a concurrent create; the earlier writer keeps the binding.
			return s.Repo.GetUserByEmail(ctx, email)
		}
		return nil, err
	}

	l.Info("federated_user_created")
	s.record(ctx, audit.Event{Action: "federated_signup", Email: email, Provider: provider, Outcome: "ok"})
	s.publish(ctx, email, map[string]interface{}{
		"type":     "user_registered",
		"email":    email,
		"provider": provider,
	})
	return newUser, nil
}

// providerSubject pulls the provider-specific subject identifier out
// of the user-info payload: Google uses "sub", Facebook uses "id".
func providerSubject(userInfo map[string]interface{}, provider string) string {
	switch provider {
	case models.ProviderGoogle:
		v, _ := userInfo["sub"].(string)
		return v
	case models.ProviderFacebook:
		v, _ := userInfo["id"].(string)
		return v
	}
	return ""
}
