package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
	repo "github.com/oksasatya/bookshelf-api/internal/domain/repository"
	"github.com/oksasatya/bookshelf-api/internal/metrics"
	"github.com/oksasatya/bookshelf-api/pkg/apperror"
	"github.com/oksasatya/bookshelf-api/pkg/validation"
)

// ListService manages the favorite and read lists of a user. Catalog entries
// are created on first add and reclaimed once the last reference is removed.
// Book ownership does not restrict removal.
type ListService struct {
	Users   repo.UserRepository
	Catalog *CatalogService
	Logger  *logrus.Logger
}

func NewListService(users repo.UserRepository, catalog *CatalogService, logger *logrus.Logger) *ListService {
	return &ListService{Users: users, Catalog: catalog, Logger: logger}
}

func checkKind(kind entity.ListKind) error {
	if _, ok := entity.ParseListKind(string(kind)); !ok {
		return validationFailed("list", "must be favorite or read")
	}
	return nil
}

// AddToList resolves or creates the book and appends a reference to it.
// Adding a book already in the list leaves the list unchanged.
func (s *ListService) AddToList(ctx context.Context, userID string, kind entity.ListKind, book entity.Book) (*entity.User, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if err := book.Validate(); err != nil {
		return nil, bookValidationError(err)
	}
	if !validation.IsBookID(book.ID) {
		return nil, apperror.BadRequest(apperror.MsgInvalidID)
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, apperror.MsgUserNotFound)
	}

	book.Owner = u.ID
	if u.HasBook(kind, book.ID) {
		return u, nil
	}

	added, err := s.addBook(ctx, u.ID, kind, book)
	if err != nil {
		return nil, err
	}
	if added {
		metrics.RecordListMutation(string(kind), "add")
	}
	return s.reload(ctx, u.ID)
}

// addBook creates the catalog entry if needed and links it to the user. A
// concurrent removal may reclaim the entry between the two steps, so the
// pair is attempted twice before the book is reported missing.
func (s *ListService) addBook(ctx context.Context, userID string, kind entity.ListKind, book entity.Book) (bool, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		stored, err := s.Catalog.CreateIfAbsent(ctx, book)
		if err != nil {
			return false, err
		}
		added, err := s.Users.AddBook(ctx, userID, kind, stored.ID)
		if err == nil {
			return added, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return false, storeError(err, apperror.MsgBookNotFound)
		}
		if _, uErr := s.Users.GetByID(ctx, userID); uErr != nil {
			// the user vanished after the book was created for them
			s.reclaim(ctx, stored.ID)
			return false, storeError(uErr, apperror.MsgUserNotFound)
		}
		lastErr = err
	}
	return false, storeError(lastErr, apperror.MsgBookNotFound)
}

// RemoveFromList drops the reference and reclaims the book if it became orphaned.
// Removing a book that is not in the list is a NotFound error.
func (s *ListService) RemoveFromList(ctx context.Context, userID string, kind entity.ListKind, bookID string) (*entity.User, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if !validation.IsBookID(bookID) {
		return nil, apperror.BadRequest(apperror.MsgInvalidID)
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, apperror.MsgUserNotFound)
	}
	book, err := s.Catalog.FindByExternalID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NotFound(apperror.MsgBookNotFound)
	}
	if !u.HasBook(kind, book.ID) {
		return nil, apperror.NotFound(apperror.MsgBookNotInList)
	}

	removed, err := s.Users.RemoveBook(ctx, u.ID, kind, book.ID)
	if err != nil {
		return nil, storeError(err, apperror.MsgUserNotFound)
	}
	if !removed {
		return nil, apperror.NotFound(apperror.MsgBookNotInList)
	}
	metrics.RecordListMutation(string(kind), "remove")

	s.reclaim(ctx, book.ID)
	return s.reload(ctx, u.ID)
}

// ListBooks returns the full records referenced by the given list.
func (s *ListService) ListBooks(ctx context.Context, userID string, kind entity.ListKind) ([]entity.Book, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, apperror.MsgUserNotFound)
	}
	return s.Catalog.ListByIDs(ctx, u.Books(kind))
}

func (s *ListService) ListFavorites(ctx context.Context, userID string) ([]entity.Book, error) {
	return s.ListBooks(ctx, userID, entity.ListFavorite)
}

func (s *ListService) ListRead(ctx context.Context, userID string) ([]entity.Book, error) {
	return s.ListBooks(ctx, userID, entity.ListRead)
}

// reclaim runs after the list change is committed, so a failure is logged
// rather than reported to the caller.
func (s *ListService) reclaim(ctx context.Context, bookID string) {
	if _, err := s.Catalog.DeleteIfOrphaned(ctx, bookID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("book_id", bookID).Error("reclaim orphaned book failed")
	}
}

func (s *ListService) reload(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, apperror.MsgUserNotFound)
	}
	return u, nil
}
