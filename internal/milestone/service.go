package milestone

import (
	"context"
	"errors"
	"strings"

	"github.com/saulo-duarte/strive/internal/config"
	"github.com/saulo-duarte/strive/internal/goal"
	"github.com/saulo-duarte/strive/internal/validation"
	"github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("milestone not found or unauthorized")

const (
	MsgFieldsRequired = "Milestone description, due date, and status are required."
	MsgDueDateFormat  = "Invalid due date format. Please use YYYY-MM-DD."
)

// Service operations take the parent goal explicitly. Ownership is always
// checked against the goal's user, never against the milestone alone.
type Service interface {
	OwnedGoal(ctx context.Context, rawGoalID string, userID uint) (*goal.Goal, error)
	List(ctx context.Context, userID uint, parent *goal.Goal) ([]Milestone, error)
	Get(ctx context.Context, userID uint, parent *goal.Goal, id uint) (*Milestone, error)
	Create(ctx context.Context, userID uint, parent *goal.Goal, form Form) (*Milestone, error)
	Update(ctx context.Context, userID uint, parent *goal.Goal, form Form) (*Milestone, error)
	Delete(ctx context.Context, userID uint, parent *goal.Goal, id uint) error
}

type service struct {
	repo  Repository
	goals goal.Service
}

func NewService(repo Repository, goals goal.Service) Service {
	return &service{repo: repo, goals: goals}
}

// OwnedGoal resolves the goalId parameter. It returns validation.ErrInvalidID
// for malformed input and goal.ErrNotFound for missing or foreign goals.
func (s *service) OwnedGoal(ctx context.Context, rawGoalID string, userID uint) (*goal.Goal, error) {
	id, err := validation.ParseID(rawGoalID)
	if err != nil {
		return nil, err
	}
	return s.goals.Get(ctx, id, userID)
}

func (s *service) owns(ctx context.Context, userID uint, parent *goal.Goal) error {
	if parent == nil || parent.UserID != userID {
		config.WithContext(ctx).Warn("Milestone access through a goal the user does not own")
		return goal.ErrNotFound
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uint, parent *goal.Goal) ([]Milestone, error) {
	if err := s.owns(ctx, userID, parent); err != nil {
		return nil, err
	}

	milestones, err := s.repo.ListByGoal(ctx, parent.ID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list milestones")
		return nil, err
	}
	return milestones, nil
}

func (s *service) Get(ctx context.Context, userID uint, parent *goal.Goal, id uint) (*Milestone, error) {
	if err := s.owns(ctx, userID, parent); err != nil {
		return nil, err
	}
	log := config.WithContext(ctx).WithField("milestone_id", id)

	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to load milestone")
		return nil, err
	}
	if m == nil || m.GoalID != parent.ID {
		log.Warn("Milestone not found under goal")
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *service) Create(ctx context.Context, userID uint, parent *goal.Goal, form Form) (*Milestone, error) {
	if err := s.owns(ctx, userID, parent); err != nil {
		return nil, err
	}
	log := config.WithContext(ctx).WithField("goal_id", parent.ID)

	m := &Milestone{GoalID: parent.ID}
	if verr := bind(form, m); verr != nil {
		return nil, verr
	}

	if err := s.repo.Create(ctx, m); err != nil {
		log.WithError(err).Error("Failed to create milestone")
		return nil, err
	}

	log.WithField("milestone_id", m.ID).Info("Milestone created")
	return m, nil
}

func (s *service) Update(ctx context.Context, userID uint, parent *goal.Goal, form Form) (*Milestone, error) {
	if err := s.owns(ctx, userID, parent); err != nil {
		return nil, err
	}

	id, err := validation.ParseID(form.ID)
	if err != nil {
		return nil, err
	}
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"goal_id":      parent.ID,
		"milestone_id": id,
	})

	m := &Milestone{ID: id, GoalID: parent.ID}
	if verr := bind(form, m); verr != nil {
		return nil, verr
	}

	ok, err := s.repo.Update(ctx, m)
	if err != nil {
		log.WithError(err).Error("Failed to update milestone")
		return nil, err
	}
	if !ok {
		log.Warn("Milestone update matched no rows")
		return nil, ErrNotFound
	}

	log.Info("Milestone updated")
	return m, nil
}

func (s *service) Delete(ctx context.Context, userID uint, parent *goal.Goal, id uint) error {
	if err := s.owns(ctx, userID, parent); err != nil {
		return err
	}
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"goal_id":      parent.ID,
		"milestone_id": id,
	})

	ok, err := s.repo.Delete(ctx, id, parent.ID)
	if err != nil {
		log.WithError(err).Error("Failed to delete milestone")
		return err
	}
	if !ok {
		log.Warn("Milestone delete matched no rows")
		return ErrNotFound
	}

	log.Info("Milestone deleted")
	return nil
}

func bind(form Form, m *Milestone) *validation.Error {
	if validation.IsBlank(form.Description) || validation.IsBlank(form.DueDate) || validation.IsBlank(form.Status) {
		return validation.New("form", MsgFieldsRequired)
	}

	due, verr := validation.ParseDate("dueDate", form.DueDate, MsgDueDateFormat)
	if verr != nil {
		return verr
	}

	m.Description = strings.TrimSpace(form.Description)
	m.Status = strings.TrimSpace(form.Status)
	m.DueDate = due
	return nil
}
