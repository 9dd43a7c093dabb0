package application

import (
	"context"

	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
)

// BookIndexer keeps a searchable copy of the catalog. Implementations must
// tolerate deletes of ids they never indexed.
type BookIndexer interface {
	IndexBook(ctx context.Context, b *entity.Book) error
	DeleteBook(ctx context.Context, id string) error
	SearchBooks(ctx context.Context, query string, size int) ([]entity.Book, error)
}

// Notifier is told about account events; delivery is best effort.
type Notifier interface {
	NotifySignup(ctx context.Context, u *entity.User) error
}
