package application

import (
	"context"
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
	repo "github.com/oksasatya/bookshelf-api/internal/domain/repository"
	"github.com/oksasatya/bookshelf-api/pkg/apperror"
	"github.com/oksasatya/bookshelf-api/pkg/validation"
)

const (
	nameMinLen = 2
	nameMaxLen = 30
)

type UserService struct {
	Repo   repo.UserRepository
	Logger *logrus.Logger
}

func NewUserService(repo repo.UserRepository, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, Logger: logger}
}

func validateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < nameMinLen || n > nameMaxLen {
		return validationFailed("name", "length must be between 2 and 30")
	}
	return nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, apperror.MsgUserNotFound)
	}
	return u, nil
}

// UpdateProfileInput carries a partial update; nil fields are left unchanged.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	var email string
	if in.Name != nil {
		if err := validateName(*in.Name); err != nil {
			return nil, err
		}
	}
	if in.Email != nil {
		email = NormalizeEmail(*in.Email)
		if validation.Var(email, "required,email") != nil {
			return nil, validationFailed("email", "must be a valid email")
		}
		owner, err := s.Repo.GetByEmail(ctx, email)
		switch {
		case err == nil && owner.ID != userID:
			return nil, apperror.Conflict(apperror.MsgConflictEmail)
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return nil, storeError(err, apperror.MsgUserNotFound)
		}
	}

	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, apperror.MsgUserNotFound)
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		u.Email = email
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		if s.Logger != nil && !errors.Is(err, repo.ErrNotFound) && !errors.Is(err, repo.ErrDuplicateEmail) {
			s.Logger.WithError(err).WithField("user_id", userID).Error("update profile failed")
		}
		return nil, storeError(err, apperror.MsgUserNotFound)
	}
	return u, nil
}

func (s *UserService) GetGoal(ctx context.Context, userID string) (float64, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return 0, err
	}
	return u.Goal, nil
}

func (s *UserService) SetGoal(ctx context.Context, userID string, goal float64) (float64, error) {
	if math.IsNaN(goal) || math.IsInf(goal, 0) {
		return 0, validationFailed("goal", "must be a number")
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return 0, storeError(err, apperror.MsgUserNotFound)
	}
	u.Goal = goal
	if err := s.Repo.Update(ctx, u); err != nil {
		return 0, storeError(err, apperror.MsgUserNotFound)
	}
	return u.Goal, nil
}
