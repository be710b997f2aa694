package category

import (
	"context"
	"errors"

	"github.com/saulo-duarte/strive/internal/storage"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id uint) (*Category, error)
	ListByUser(ctx context.Context, userID uint) ([]Category, error)
	ExistsByName(ctx context.Context, userID uint, name string, excludeID uint) (bool, error)
	Update(ctx context.Context, c *Category) (bool, error)
	Delete(ctx context.Context, id, userID uint) (bool, error)
}

type categoryRepository struct {
	gw *storage.Gateway
}

func NewRepository(gw *storage.Gateway) Repository {
	return &categoryRepository{gw: gw}
}

func (r *categoryRepository) Create(ctx context.Context, c *Category) error {
	err := r.gw.Do(ctx, func(tx *gorm.DB) error {
		return tx.Omit("User").Create(c).Error
	})
	return translate(err)
}

// translate reports a (user_id, name) index violation as ErrDuplicateName.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateName
	}
	return err
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*Category, error) {
	var c Category
	err := r.gw.Do(ctx, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Take(&c).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) ListByUser(ctx context.Context, userID uint) ([]Category, error) {
	var categories []Category
	err := r.gw.Do(ctx, func(tx *gorm.DB) error {
		return tx.Where("user_id = ?", userID).
			Order("name ASC").
			Order("id ASC").
			Find(&categories).Error
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) ExistsByName(ctx context.Context, userID uint, name string, excludeID uint) (bool, error) {
	var count int64
	err := r.gw.Do(ctx, func(tx *gorm.DB) error {
		q := tx.Model(&Category{}).Where("user_id = ? AND name = ?", userID, name)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		return q.Count(&count).Error
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update writes only when the row belongs to c.UserID. A false result means
// the category is missing or owned by someone else.
func (r *categoryRepository) Update(ctx context.Context, c *Category) (bool, error) {
	var affected int64
	err := r.gw.Do(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&Category{}).
			Where("id = ? AND user_id = ?", c.ID, c.UserID).
			Update("name", c.Name)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, translate(err)
	}
	return affected > 0, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id, userID uint) (bool, error) {
	var affected int64
	err := r.gw.Do(ctx, func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&Category{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
