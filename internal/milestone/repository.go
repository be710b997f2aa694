package milestone

import (
	"context"
	"errors"

	"github.com/saulo-duarte/strive/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, m *Milestone) error
	FindByID(ctx context.Context, id uint) (*Milestone, error)
	ListByGoal(ctx context.Context, goalID uint) ([]Milestone, error)
	Update(ctx context.Context, m *Milestone) (bool, error)
	Delete(ctx context.Context, id, goalID uint) (bool, error)
}

type milestoneRepository struct {
	gw *storage.Gateway
}

func NewRepository(gw *storage.Gateway) Repository {
	return &milestoneRepository{gw: gw}
}

func (r *milestoneRepository) Create(ctx context.Context, m *Milestone) error {
	return r.gw.Do(ctx, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(m).Error
	})
}

func (r *milestoneRepository) FindByID(ctx context.Context, id uint) (*Milestone, error) {
	var m Milestone
	err := r.gw.Do(ctx, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Take(&m).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *milestoneRepository) ListByGoal(ctx context.Context, goalID uint) ([]Milestone, error) {
	var milestones []Milestone
	err := r.gw.Do(ctx, func(tx *gorm.DB) error {
		return tx.Where("goal_id = ?", goalID).
			Order("due_date ASC").
			Order("id ASC").
			Find(&milestones).Error
	})
	if err != nil {
		return nil, err
	}
	return milestones, nil
}

// Update only touches a milestone that still hangs off m.GoalID.
func (r *milestoneRepository) Update(ctx context.Context, m *Milestone) (bool, error) {
	var affected int64
	err := r.gw.Do(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&Milestone{}).
			Where("id = ? AND goal_id = ?", m.ID, m.GoalID).
			Updates(map[string]interface{}{
				"description": m.Description,
				"due_date":    m.DueDate,
				"status":      m.Status,
			})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *milestoneRepository) Delete(ctx context.Context, id, goalID uint) (bool, error) {
	var affected int64
	err := r.gw.Do(ctx, func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND goal_id = ?", id, goalID).Delete(&Milestone{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
