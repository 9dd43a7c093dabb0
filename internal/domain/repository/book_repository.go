package repository

import (
	"context"

	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
)

// BookRepository stores the shared catalog entries.
type BookRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Book, error)
	// GetByIDs returns the books found, in the order of ids.
	GetByIDs(ctx context.Context, ids []string) ([]entity.Book, error)
	// CreateIfAbsent inserts b unless a book with the same ID exists and returns
	// the stored record either way.
	CreateIfAbsent(ctx context.Context, b *entity.Book) (stored *entity.Book, created bool, err error)
	// DeleteIfOrphaned deletes the book when no user references it.
	DeleteIfOrphaned(ctx context.Context, id string) (deleted bool, err error)
}
