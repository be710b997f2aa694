package category

import (
	"context"
	"errors"
	"strings"

	"github.com/saulo-duarte/strive/internal/config"
	"github.com/saulo-duarte/strive/internal/validation"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound      = errors.New("category not found or unauthorized")
	ErrDuplicateName = errors.New("category name already exists")
)

type Service interface {
	List(ctx context.Context, userID uint) ([]Category, error)
	Get(ctx context.Context, id, userID uint) (*Category, error)
	Create(ctx context.Context, userID uint, form Form) (*Category, error)
	Update(ctx context.Context, userID uint, form Form) (*Category, error)
	Delete(ctx context.Context, id, userID uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, userID uint) ([]Category, error) {
	categories, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list categories")
		return nil, err
	}
	return categories, nil
}

// Get loads a category and verifies ownership. Missing and foreign records
// are reported identically.
func (s *service) Get(ctx context.Context, id, userID uint) (*Category, error) {
	log := config.WithContext(ctx).WithField("category_id", id)

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to load category")
		return nil, err
	}
	if c == nil || c.UserID != userID {
		log.Warn("Category not found or not owned by user")
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *service) Create(ctx context.Context, userID uint, form Form) (*Category, error) {
	log := config.WithContext(ctx)

	if verr := validate(form); verr != nil {
		return nil, verr
	}
	name := strings.TrimSpace(form.Name)

	taken, err := s.repo.ExistsByName(ctx, userID, name, 0)
	if err != nil {
		log.WithError(err).Error("Failed to check category name")
		return nil, err
	}
	if taken {
		log.WithField("name", name).Warn("Category name already exists")
		return nil, ErrDuplicateName
	}

	c := &Category{UserID: userID, Name: name}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			log.WithField("name", name).Warn("Category name already exists")
			return nil, ErrDuplicateName
		}
		log.WithError(err).Error("Failed to create category")
		return nil, err
	}

	log.WithField("category_id", c.ID).Info("Category created")
	return c, nil
}

func (s *service) Update(ctx context.Context, userID uint, form Form) (*Category, error) {
	log := config.WithContext(ctx)

	id, err := validation.ParseID(form.ID)
	if err != nil {
		return nil, err
	}
	if verr := validate(form); verr != nil {
		return nil, verr
	}
	name := strings.TrimSpace(form.Name)

	taken, err := s.repo.ExistsByName(ctx, userID, name, id)
	if err != nil {
		log.WithError(err).Error("Failed to check category name")
		return nil, err
	}
	if taken {
		log.WithField("name", name).Warn("Category name already exists")
		return nil, ErrDuplicateName
	}

	c := &Category{ID: id, UserID: userID, Name: name}
	ok, err := s.repo.Update(ctx, c)
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			log.WithField("name", name).Warn("Category name already exists")
			return nil, ErrDuplicateName
		}
		log.WithError(err).Error("Failed to update category")
		return nil, err
	}
	if !ok {
		log.WithField("category_id", id).Warn("Category update matched no rows")
		return nil, ErrNotFound
	}

	log.WithField("category_id", id).Info("Category updated")
	return c, nil
}

func (s *service) Delete(ctx context.Context, id, userID uint) error {
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"category_id": id,
		"user_id":     userID,
	})

	ok, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		log.WithError(err).Error("Failed to delete category")
		return err
	}
	if !ok {
		log.Warn("Category delete matched no rows")
		return ErrNotFound
	}

	log.Info("Category deleted")
	return nil
}

func validate(form Form) *validation.Error {
	return validation.Required("name", form.Name, "Category name is required.")
}
