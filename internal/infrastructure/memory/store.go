// Package memory keeps users and books in-process. Reference counting and
// orphan deletion run under one lock, so reclamation here is exact.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
	"github.com/oksasatya/bookshelf-api/internal/domain/repository"
)

// Store backs both repositories; Users and Books expose the two views.
type Store struct {
	mu    sync.RWMutex
	users map[string]*entity.User
	email map[string]string // email -> user ID
	books map[string]*entity.Book
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]*entity.User),
		email: make(map[string]string),
		books: make(map[string]*entity.Book),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Users returns the store as a UserRepository.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Books returns the store as a BookRepository.
func (s *Store) Books() *BookRepository { return &BookRepository{s: s} }

// BookCount reports the number of catalog entries.
func (s *Store) BookCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.FavoriteBooks = slices.Clone(u.FavoriteBooks)
	c.ReadBooks = slices.Clone(u.ReadBooks)
	return &c
}

func cloneBook(b *entity.Book) *entity.Book {
	c := *b
	c.VolumeInfo.Authors = slices.Clone(b.VolumeInfo.Authors)
	c.VolumeInfo.IndustryIdentifiers = slices.Clone(b.VolumeInfo.IndustryIdentifiers)
	if b.VolumeInfo.ImageLinks != nil {
		links := *b.VolumeInfo.ImageLinks
		c.VolumeInfo.ImageLinks = &links
	}
	return &c
}

func checkUserID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrInvalidID
	}
	return nil
}

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.email[u.Email]; taken {
		return repository.ErrDuplicateEmail
	}
	now := r.s.now()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.FavoriteBooks == nil {
		u.FavoriteBooks = []string{}
	}
	if u.ReadBooks == nil {
		u.ReadBooks = []string{}
	}
	r.s.users[u.ID] = cloneUser(u)
	r.s.email[u.Email] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	if err := checkUserID(id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.email[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(r.s.users[id]), nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	if err := checkUserID(u.ID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if owner, taken := r.s.email[u.Email]; taken && owner != u.ID {
		return repository.ErrDuplicateEmail
	}
	delete(r.s.email, cur.Email)
	r.s.email[u.Email] = u.ID
	cur.Name = u.Name
	cur.Email = u.Email
	cur.Goal = u.Goal
	cur.UpdatedAt = r.s.now()
	u.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r *UserRepository) AddBook(_ context.Context, userID string, kind entity.ListKind, bookID string) (bool, error) {
	if err := checkUserID(userID); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return false, repository.ErrNotFound
	}
	if _, ok := r.s.books[bookID]; !ok {
		return false, repository.ErrNotFound
	}
	if u.HasBook(kind, bookID) {
		return false, nil
	}
	switch kind {
	case entity.ListFavorite:
		u.FavoriteBooks = append(u.FavoriteBooks, bookID)
	case entity.ListRead:
		u.ReadBooks = append(u.ReadBooks, bookID)
	}
	u.UpdatedAt = r.s.now()
	return true, nil
}

func (r *UserRepository) RemoveBook(_ context.Context, userID string, kind entity.ListKind, bookID string) (bool, error) {
	if err := checkUserID(userID); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return false, repository.ErrNotFound
	}
	if !u.HasBook(kind, bookID) {
		return false, nil
	}
	drop := func(ids []string) []string {
		return slices.DeleteFunc(ids, func(id string) bool { return id == bookID })
	}
	switch kind {
	case entity.ListFavorite:
		u.FavoriteBooks = drop(u.FavoriteBooks)
	case entity.ListRead:
		u.ReadBooks = drop(u.ReadBooks)
	}
	u.UpdatedAt = r.s.now()
	return true, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)

type BookRepository struct{ s *Store }

func (r *BookRepository) GetByID(_ context.Context, id string) (*entity.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.books[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneBook(b), nil
}

func (r *BookRepository) GetByIDs(_ context.Context, ids []string) ([]entity.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := r.s.books[id]; ok {
			out = append(out, *cloneBook(b))
		}
	}
	return out, nil
}

func (r *BookRepository) CreateIfAbsent(_ context.Context, b *entity.Book) (*entity.Book, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if cur, ok := r.s.books[b.ID]; ok {
		return cloneBook(cur), false, nil
	}
	now := r.s.now()
	b.CreatedAt, b.UpdatedAt = now, now
	r.s.books[b.ID] = cloneBook(b)
	return cloneBook(b), true, nil
}

func (r *BookRepository) DeleteIfOrphaned(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.books[id]; !ok {
		return false, nil
	}
	if r.s.countRefsLocked(id) > 0 {
		return false, nil
	}
	delete(r.s.books, id)
	return true, nil
}

// countRefsLocked sums the favorite and read entries pointing at id.
func (s *Store) countRefsLocked(id string) int64 {
	var n int64
	for _, u := range s.users {
		if u.HasBook(entity.ListFavorite, id) {
			n++
		}
		if u.HasBook(entity.ListRead, id) {
			n++
		}
	}
	return n
}

var _ repository.BookRepository = (*BookRepository)(nil)
