package goal

import (
	"context"
	"errors"
	"strings"

	"github.com/saulo-duarte/strive/internal/category"
	"github.com/saulo-duarte/strive/internal/config"
	"github.com/saulo-duarte/strive/internal/validation"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound = errors.New("goal not found or unauthorized")
	// ErrNotSaved means storage refused the write, e.g. the chosen category
	// was deleted after it was checked.
	ErrNotSaved = errors.New("goal could not be saved")
)

const (
	MsgDescriptionRequired = "Goal description is required."
	MsgTargetDateRequired  = "Target Date is required."
	MsgStatusRequired      = "Status is required."
	MsgCategoryFormat      = "Invalid category ID format."
	MsgCategoryForeign     = "Invalid category selected or unauthorized."
	MsgTargetDateFormat    = "Invalid target date format. Please use ISO (YYYY-MM-DD)."
	MsgTargetDatePast      = "Target Date cannot be in the past."

	MsgFilterFormat  = "Invalid category filter format. Showing all goals."
	MsgFilterForeign = "Invalid category selected for filtering. Showing all goals."
)

type Service interface {
	List(ctx context.Context, userID uint, categoryFilter string) (*ListResult, error)
	Get(ctx context.Context, id, userID uint) (*Goal, error)
	Categories(ctx context.Context, userID uint) ([]category.Category, error)
	Create(ctx context.Context, userID uint, form Form) (*Goal, error)
	Update(ctx context.Context, userID uint, form Form) (*Goal, error)
	Delete(ctx context.Context, id, userID uint) error
}

type service struct {
	repo       Repository
	categories category.Service
	today      validation.Clock
}

func NewService(repo Repository, categories category.Service, today validation.Clock) Service {
	return &service{repo: repo, categories: categories, today: today}
}

// List returns the user's goals, optionally narrowed to one category. A bad
// filter never fails the request; it is dropped and reported.
func (s *service) List(ctx context.Context, userID uint, categoryFilter string) (*ListResult, error) {
	log := config.WithContext(ctx)

	categories, err := s.categories.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := &ListResult{Categories: categories}

	if !validation.IsBlank(categoryFilter) {
		categoryID, err := validation.ParseID(categoryFilter)
		if err != nil {
			result.FilterError = MsgFilterFormat
		} else if _, err := s.categories.Get(ctx, categoryID, userID); err != nil {
			if !errors.Is(err, category.ErrNotFound) {
				return nil, err
			}
			result.FilterError = MsgFilterForeign
		} else {
			result.SelectedCategoryID = categoryID
		}
	}

	if result.SelectedCategoryID != 0 {
		result.Goals, err = s.repo.ListByUserAndCategory(ctx, userID, result.SelectedCategoryID)
	} else {
		result.Goals, err = s.repo.ListByUser(ctx, userID)
	}
	if err != nil {
		log.WithError(err).Error("Failed to list goals")
		return nil, err
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id, userID uint) (*Goal, error) {
	log := config.WithContext(ctx).WithField("goal_id", id)

	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to load goal")
		return nil, err
	}
	if g == nil || g.UserID != userID {
		log.Warn("Goal not found or not owned by user")
		return nil, ErrNotFound
	}
	return g, nil
}

func (s *service) Categories(ctx context.Context, userID uint) ([]category.Category, error) {
	return s.categories.List(ctx, userID)
}

func (s *service) Create(ctx context.Context, userID uint, form Form) (*Goal, error) {
	log := config.WithContext(ctx)

	g := &Goal{UserID: userID}
	if err := s.bind(ctx, userID, form, g); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, g); err != nil {
		if errors.Is(err, ErrNotSaved) {
			log.Warn("Goal insert rejected by storage")
			return nil, err
		}
		log.WithError(err).Error("Failed to create goal")
		return nil, err
	}

	log.WithField("goal_id", g.ID).Info("Goal created")
	return g, nil
}

func (s *service) Update(ctx context.Context, userID uint, form Form) (*Goal, error) {
	id, err := validation.ParseID(form.ID)
	if err != nil {
		return nil, err
	}
	log := config.WithContext(ctx).WithField("goal_id", id)

	g := &Goal{ID: id, UserID: userID}
	if err := s.bind(ctx, userID, form, g); err != nil {
		return nil, err
	}

	ok, err := s.repo.Update(ctx, g)
	if err != nil {
		if errors.Is(err, ErrNotSaved) {
			log.Warn("Goal update rejected by storage")
			return nil, err
		}
		log.WithError(err).Error("Failed to update goal")
		return nil, err
	}
	if !ok {
		log.Warn("Goal update matched no rows")
		return nil, ErrNotFound
	}

	log.Info("Goal updated")
	return g, nil
}

func (s *service) Delete(ctx context.Context, id, userID uint) error {
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"goal_id": id,
		"user_id": userID,
	})

	ok, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		log.WithError(err).Error("Failed to delete goal")
		return err
	}
	if !ok {
		log.Warn("Goal delete matched no rows")
		return ErrNotFound
	}

	log.Info("Goal deleted")
	return nil
}

// bind validates form and copies it onto g. Rules run in order: required
// fields, category ownership, date format, date range.
func (s *service) bind(ctx context.Context, userID uint, form Form, g *Goal) error {
	if verr := validation.Required("description", form.Description, MsgDescriptionRequired); verr != nil {
		return verr
	}
	if verr := validation.Required("targetDate", form.TargetDate, MsgTargetDateRequired); verr != nil {
		return verr
	}
	if verr := validation.Required("status", form.Status, MsgStatusRequired); verr != nil {
		return verr
	}

	var categoryID *uint
	if !validation.IsBlank(form.CategoryID) {
		id, err := validation.ParseID(form.CategoryID)
		if err != nil {
			return validation.New("categoryId", MsgCategoryFormat)
		}
		if _, err := s.categories.Get(ctx, id, userID); err != nil {
			if errors.Is(err, category.ErrNotFound) {
				return validation.New("categoryId", MsgCategoryForeign)
			}
			return err
		}
		categoryID = &id
	}

	target, verr := validation.ParseDate("targetDate", form.TargetDate, MsgTargetDateFormat)
	if verr != nil {
		return verr
	}
	if verr := validation.NotInPast("targetDate", target, s.today(), MsgTargetDatePast); verr != nil {
		return verr
	}

	g.Description = strings.TrimSpace(form.Description)
	g.Status = strings.TrimSpace(form.Status)
	g.TargetDate = target
	g.CategoryID = categoryID
	return nil
}
