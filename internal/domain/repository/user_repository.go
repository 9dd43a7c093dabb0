package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrInvalidID      = errors.New("malformed identifier")
)

// UserRepository defines the interface for user-related database operations.
// Lookups return ErrNotFound when no user matches and ErrInvalidID when the id
// is not in the store's identifier format.
type UserRepository interface {
	// Create assigns ID and timestamps. Returns ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Update persists name, email and goal.
	Update(ctx context.Context, u *entity.User) error
	// AddBook appends bookID to the list unless present; added is false for a no-op.
	AddBook(ctx context.Context, userID string, kind entity.ListKind, bookID string) (added bool, err error)
	// RemoveBook drops bookID from the list; removed is false when it was absent.
	RemoveBook(ctx context.Context, userID string, kind entity.ListKind, bookID string) (removed bool, err error)
}
