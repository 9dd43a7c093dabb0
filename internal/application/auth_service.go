package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
	repo "github.com/oksasatya/bookshelf-api/internal/domain/repository"
	"github.com/oksasatya/bookshelf-api/pkg/apperror"
	"github.com/oksasatya/bookshelf-api/pkg/helpers"
	"github.com/oksasatya/bookshelf-api/pkg/validation"
)

// AuthService registers users, checks credentials and issues session tokens.
type AuthService struct {
	Repo       repo.UserRepository
	JWT        *helpers.JWTManager
	BcryptCost int
	Notifier   Notifier
	Logger     *logrus.Logger
}

func NewAuthService(repo repo.UserRepository, jwt *helpers.JWTManager, bcryptCost int, notifier Notifier, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Repo:       repo,
		JWT:        jwt,
		BcryptCost: bcryptCost,
		Notifier:   notifier,
		Logger:     logger,
	}
}

type RegisterInput struct {
	Name        string
	YearOfBirth int
	Email       string
	Password    string
}

// NormalizeEmail trims and lowercases an address before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, apperror.BadRequest(apperror.MsgCredentialsMissing)
	}
	if validation.Var(email, "email") != nil {
		return nil, apperror.BadRequest(apperror.MsgInvalidEmail)
	}
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if len(in.Password) > helpers.MaxPasswordBytes {
		return nil, validationFailed("password", "the maximum length is 72 bytes")
	}
	if !validation.IsBirthYear(in.YearOfBirth) {
		return nil, validationFailed("yearOfBirth", "must be a year between 1900 and the current year")
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperror.Conflict(apperror.MsgConflictEmail)
	}
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, storeError(err, apperror.MsgUserNotFound)
	}

	hash, err := helpers.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	u := &entity.User{
		Name:        strings.TrimSpace(in.Name),
		Email:       email,
		Password:    hash,
		YearOfBirth: in.YearOfBirth,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, storeError(err, apperror.MsgUserNotFound)
	}

	if s.Notifier != nil {
		if nErr := s.Notifier.NotifySignup(ctx, u); nErr != nil && s.Logger != nil {
			s.Logger.WithError(nErr).WithField("user_id", u.ID).Warn("signup notification failed")
		}
	}
	return u, nil
}

// Authenticate checks credentials and returns a signed token with its expiry.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, time.Time, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", time.Time{}, apperror.BadRequest(apperror.MsgCredentialsMissing)
	}
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", time.Time{}, apperror.Unauthorized(apperror.MsgWrongCredentials)
		}
		return "", time.Time{}, storeError(err, apperror.MsgUserNotFound)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return "", time.Time{}, apperror.Unauthorized(apperror.MsgWrongCredentials)
	}

	token, exp, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return "", time.Time{}, apperror.Internal(err)
	}
	return token, exp, nil
}

// VerifyToken returns the user id bound to token. The user is not looked up;
// services re-fetch it on every operation.
func (s *AuthService) VerifyToken(token string) (string, error) {
	if token == "" {
		return "", apperror.Unauthorized(apperror.MsgUnauthorized)
	}
	claims, err := s.JWT.ParseToken(token)
	if err != nil {
		return "", apperror.Unauthorized(apperror.MsgUnauthorized).Wrap(err)
	}
	return claims.UserID, nil
}
