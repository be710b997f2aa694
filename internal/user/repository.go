package user

import (
	"context"
	"errors"

	"github.com/saulo-duarte/strive/internal/storage"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

type userRepository struct {
	gw *storage.Gateway
}

func NewRepository(gw *storage.Gateway) Repository {
	return &userRepository{gw: gw}
}

// Create maps a unique index violation to ErrDuplicate so a lost race with
// a concurrent registration reads the same as a pre-checked duplicate.
func (r *userRepository) Create(ctx context.Context, u *User) error {
	err := r.gw.Do(ctx, func(tx *gorm.DB) error {
		return tx.Create(u).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg interface{}) (*User, error) {
	var u User
	err := r.gw.Do(ctx, func(tx *gorm.DB) error {
		return tx.Where(query, arg).Take(&u).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.gw.Do(ctx, func(tx *gorm.DB) error {
		return tx.Model(&User{}).
			Where("username = ? OR email = ?", username, email).
			Count(&count).Error
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
