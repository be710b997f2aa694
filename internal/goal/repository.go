package goal

import (
	"context"
	"errors"

	"github.com/saulo-duarte/strive/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, g *Goal) error
	FindByID(ctx context.Context, id uint) (*Goal, error)
	ListByUser(ctx context.Context, userID uint) ([]Goal, error)
	ListByUserAndCategory(ctx context.Context, userID, categoryID uint) ([]Goal, error)
	Update(ctx context.Context, g *Goal) (bool, error)
	Delete(ctx context.Context, id, userID uint) (bool, error)
}

type goalRepository struct {
	gw *storage.Gateway
}

func NewRepository(gw *storage.Gateway) Repository {
	return &goalRepository{gw: gw}
}

// withCategoryName selects goals with the name of their category, if any.
func withCategoryName(tx *gorm.DB) *gorm.DB {
	return tx.Model(&Goal{}).
		Select("goals.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = goals.category_id")
}

func (r *goalRepository) Create(ctx context.Context, g *Goal) error {
	err := r.gw.Do(ctx, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(g).Error
	})
	return translate(err)
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrNotSaved
	}
	return err
}

func (r *goalRepository) FindByID(ctx context.Context, id uint) (*Goal, error) {
	var g Goal
	err := r.gw.Do(ctx, func(tx *gorm.DB) error {
		return withCategoryName(tx).Where("goals.id = ?", id).Take(&g).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *goalRepository) ListByUser(ctx context.Context, userID uint) ([]Goal, error) {
	return r.list(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("goals.user_id = ?", userID)
	})
}

func (r *goalRepository) ListByUserAndCategory(ctx context.Context, userID, categoryID uint) ([]Goal, error) {
	return r.list(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("goals.user_id = ? AND goals.category_id = ?", userID, categoryID)
	})
}

func (r *goalRepository) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]Goal, error) {
	var goals []Goal
	err := r.gw.Do(ctx, func(tx *gorm.DB) error {
		return scope(withCategoryName(tx)).
			Order("goals.target_date ASC").
			Order("goals.id DESC").
			Find(&goals).Error
	})
	if err != nil {
		return nil, err
	}
	return goals, nil
}

// Update overwrites the editable fields of a goal owned by g.UserID.
func (r *goalRepository) Update(ctx context.Context, g *Goal) (bool, error) {
	var affected int64
	err := r.gw.Do(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&Goal{}).
			Where("id = ? AND user_id = ?", g.ID, g.UserID).
			Updates(map[string]interface{}{
				"category_id": g.CategoryID,
				"description": g.Description,
				"target_date": g.TargetDate,
				"status":      g.Status,
			})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, translate(err)
	}
	return affected > 0, nil
}

func (r *goalRepository) Delete(ctx context.Context, id, userID uint) (bool, error) {
	var affected int64
	err := r.gw.Do(ctx, func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&Goal{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
