package user

import (
	"context"
	"errors"
	"strings"

	"github.com/saulo-duarte/strive/internal/config"
	"github.com/saulo-duarte/strive/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var (
	ErrDuplicate          = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type Service interface {
	Register(ctx context.Context, form RegisterForm) (*User, error)
	Authenticate(ctx context.Context, form LoginForm) (*User, error)
}

type service struct {
	repo     Repository
	hashCost int
}

func NewService(repo Repository) Service {
	return NewServiceWithCost(repo, bcrypt.DefaultCost)
}

func NewServiceWithCost(repo Repository, hashCost int) Service {
	return &service{repo: repo, hashCost: hashCost}
}

func (s *service) Register(ctx context.Context, form RegisterForm) (*User, error) {
	log := config.WithContext(ctx).WithField("username", form.Username)

	if err := validateRegistration(form); err != nil {
		log.WithField("reason", err.Message).Warn("Registration rejected")
		return nil, err
	}

	username := strings.TrimSpace(form.Username)
	email := strings.TrimSpace(form.Email)

	taken, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		log.WithError(err).Error("Failed to check existing users")
		return nil, err
	}
	if taken {
		log.Warn("Registration rejected: username or email taken")
		return nil, ErrDuplicate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), s.hashCost)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		return nil, err
	}

	u := &User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicate) {
			log.Warn("Registration rejected: username or email taken on insert")
			return nil, ErrDuplicate
		}
		log.WithError(err).Error("Failed to create user")
		return nil, err
	}

	log.WithField("user_id", u.ID).Info("User registered")
	return u, nil
}

func validateRegistration(form RegisterForm) *validation.Error {
	if validation.IsBlank(form.Username) || validation.IsBlank(form.Password) ||
		validation.IsBlank(form.ConfirmPassword) || validation.IsBlank(form.Email) {
		return validation.New("form", "All fields are required.")
	}
	if verr := validation.Email("email", form.Email, "Please enter a valid email address."); verr != nil {
		return verr
	}
	if form.Password != form.ConfirmPassword {
		return validation.New("confirmPassword", "Password and Confirm Password do not match.")
	}
	return validation.MinLength("password", form.Password, minPasswordLength,
		"Password must be at least 6 characters long.")
}

func (s *service) Authenticate(ctx context.Context, form LoginForm) (*User, error) {
	log := config.WithContext(ctx).WithField("username", form.Username)

	if validation.IsBlank(form.Username) || validation.IsBlank(form.Password) {
		return nil, validation.New("form", "Username and password are required.")
	}

	u, err := s.repo.FindByUsername(ctx, strings.TrimSpace(form.Username))
	if err != nil {
		log.WithError(err).Error("Failed to load user for login")
		return nil, err
	}
	if u == nil {
		log.Warn("Login failed: unknown user")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(form.Password)); err != nil {
		log.Warn("Login failed: wrong password")
		return nil, ErrInvalidCredentials
	}

	log.WithField("user_id", u.ID).Info("User authenticated")
	return u, nil
}
