package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProviderLocal    = "local"
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"          json:"id"`
	Email          string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	HashedPassword *string   `gorm:"size:255"                      json:"-"`
	FullName       string    `gorm:"size:255"                      json:"full_name"`
	AuthProvider   string    `gorm:"size:50;not null;default:local" json:"auth_provider"`
	ProviderID     *string   `gorm:"uniqueIndex;size:255"          json:"-"`
	IsActive       bool      `gorm:"not null;default:true"         json:"is_active"`
	CreatedAt      time.Time `gorm:"autoCreateTime"                json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsLocal reports whether the account authenticates with a password.
// Provider-backed accounts must never pass a password check.
func (u *User) IsLocal() bool { return u.AuthProvider == ProviderLocal }

// RefreshToken holds at most one row per user email. Issuing a new
// refresh token replaces the row in place, so any previously issued
// refresh string stops matching the store.
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"          json:"id"`
	UserEmail string    `gorm:"uniqueIndex;size:255;not null" json:"user_email"`
	Token     string    `gorm:"index;not null"                json:"token"`
	ExpiresAt time.Time `gorm:"not null"                      json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime"                json:"created_at"`
}

func (r *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
