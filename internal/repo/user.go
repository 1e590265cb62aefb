package repo

import (
	"context"
	"errors"

	"github.com/layinded/swifter-fs/internal/models"
)

var ErrUserAlreadyExists = errors.New("user already exists")

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("email = ?", u.Email).FirstOrCreate(u)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrUserAlreadyExists
	}
	return nil
}

func (r *Repo) UpdateUserPassword(ctx context.Context, email, hashedPassword string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Update("hashed_password", hashedPassword).Error
}
