package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
	repo "github.com/oksasatya/bookshelf-api/internal/domain/repository"
	"github.com/oksasatya/bookshelf-api/internal/metrics"
	"github.com/oksasatya/bookshelf-api/pkg/apperror"
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
)

// CatalogService owns the shared book records and their search index.
type CatalogService struct {
	Repo    repo.BookRepository
	Indexer BookIndexer
	Logger  *logrus.Logger
}

func NewCatalogService(repo repo.BookRepository, indexer BookIndexer, logger *logrus.Logger) *CatalogService {
	return &CatalogService{Repo: repo, Indexer: indexer, Logger: logger}
}

func bookValidationError(err error) error {
	switch {
	case errors.Is(err, entity.ErrBookIDRequired):
		return validationFailed("id", "must be filled in")
	case errors.Is(err, entity.ErrBookTitleRequired):
		return validationFailed("volumeInfo.title", "must be filled in")
	case errors.Is(err, entity.ErrBookAuthorsEmpty):
		return validationFailed("volumeInfo.authors", "must contain at least 1 item(s)")
	}
	return apperror.BadRequest(apperror.MsgValidationFailed)
}

// FindByExternalID returns the catalog record, or nil when there is none.
func (s *CatalogService) FindByExternalID(ctx context.Context, id string) (*entity.Book, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(err, apperror.MsgBookNotFound)
	}
	return b, nil
}

// CreateIfAbsent looks the book up by external id and creates it when missing.
// An existing record is returned untouched; owner stays the first creator.
func (s *CatalogService) CreateIfAbsent(ctx context.Context, b entity.Book) (*entity.Book, error) {
	if err := b.Validate(); err != nil {
		return nil, bookValidationError(err)
	}
	if b.Kind == "" {
		b.Kind = entity.DefaultBookKind
	}
	stored, created, err := s.Repo.CreateIfAbsent(ctx, &b)
	if err != nil {
		return nil, storeError(err, apperror.MsgBookNotFound)
	}
	if created && s.Indexer != nil {
		if iErr := s.Indexer.IndexBook(ctx, stored); iErr != nil && s.Logger != nil {
			s.Logger.WithError(iErr).WithField("book_id", stored.ID).Warn("index book failed")
		}
	}
	return stored, nil
}

// DeleteIfOrphaned removes the book when no user list references it.
func (s *CatalogService) DeleteIfOrphaned(ctx context.Context, id string) (bool, error) {
	deleted, err := s.Repo.DeleteIfOrphaned(ctx, id)
	if err != nil {
		return false, storeError(err, apperror.MsgBookNotFound)
	}
	if !deleted {
		return false, nil
	}
	metrics.RecordReclaimed()
	if s.Logger != nil {
		s.Logger.WithField("book_id", id).Debug("orphaned book reclaimed")
	}
	if s.Indexer != nil {
		if iErr := s.Indexer.DeleteBook(ctx, id); iErr != nil && s.Logger != nil {
			s.Logger.WithError(iErr).WithField("book_id", id).Warn("unindex book failed")
		}
	}
	return true, nil
}

// ListByIDs expands references into full records, preserving order.
func (s *CatalogService) ListByIDs(ctx context.Context, ids []string) ([]entity.Book, error) {
	if len(ids) == 0 {
		return []entity.Book{}, nil
	}
	books, err := s.Repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, storeError(err, apperror.MsgBookNotFound)
	}
	return books, nil
}

// Search queries the catalog index; without an index it finds nothing.
func (s *CatalogService) Search(ctx context.Context, query string, size int) ([]entity.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationFailed("q", "must be filled in")
	}
	if s.Indexer == nil {
		return []entity.Book{}, nil
	}
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}
	books, err := s.Indexer.SearchBooks(ctx, query, size)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return books, nil
}
