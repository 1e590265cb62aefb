package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/layinded/swifter-fs/internal/models"
)

// UpsertRefreshToken keeps at most one refresh row per email: an
// existing row has its token and expiry replaced in place, otherwise a
// new row is inserted. The read-then-write runs inside one transaction
// so concurrent logins for the same account resolve at the row level.
func (r *Repo) UpsertRefreshToken(ctx context.Context, email, token string, expiresAt time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.RefreshToken
		err := tx.Where("user_email = ?", email).First(&existing).Error
		switch {
		case err == nil:
			existing.Token = token
			existing.ExpiresAt = expiresAt
			return tx.Save(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&models.RefreshToken{
				UserEmail: email,
				Token:     token,
				ExpiresAt: expiresAt,
			}).Error
		default:
			return err
		}
	})
}

func (r *Repo) FindRefreshByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var record models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("token = ?", token).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteRefreshByToken removes the row matching the exact token string.
// Deleting an absent token is not an error; the bool reports whether a
// row was actually removed.
func (r *Repo) DeleteRefreshByToken(ctx context.Context, token string) (bool, error) {
	tx := r.DB.WithContext(ctx).Where("token = ?", token).Delete(&models.RefreshToken{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// DeleteAllRefreshForUser drops every refresh row for the email. Used
// on password reset as a cascading revoke.
func (r *Repo) DeleteAllRefreshForUser(ctx context.Context, email string) error {
	return r.DB.WithContext(ctx).Where("user_email = ?", email).Delete(&models.RefreshToken{}).Error
}
