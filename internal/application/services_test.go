package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
	"github.com/oksasatya/bookshelf-api/internal/infrastructure/memory"
	"github.com/oksasatya/bookshelf-api/pkg/helpers"
)

type fakeIndexer struct {
	mu      sync.Mutex
	indexed map[string]entity.Book
	deleted []string
	err     error
}

func newFakeIndexer() *fakeIndexer { return &fakeIndexer{indexed: map[string]entity.Book{}} }

func (f *fakeIndexer) IndexBook(_ context.Context, b *entity.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.indexed[b.ID] = *b
	return nil
}

func (f *fakeIndexer) DeleteBook(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	delete(f.indexed, id)
	return f.err
}

func (f *fakeIndexer) SearchBooks(_ context.Context, q string, size int) ([]entity.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []entity.Book{}
	for _, b := range f.indexed {
		if b.VolumeInfo.Title == q && len(out) < size {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	signups []string
	err     error
}

func (f *fakeNotifier) NotifySignup(_ context.Context, u *entity.User) error {
	f.signups = append(f.signups, u.Email)
	return f.err
}

type fixture struct {
	store    *memory.Store
	auth     *AuthService
	users    *UserService
	catalog  *CatalogService
	lists    *ListService
	indexer  *fakeIndexer
	notifier *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := helpers.NewNopLogger()
	store := memory.NewStore()
	f := &fixture{store: store, indexer: newFakeIndexer(), notifier: &fakeNotifier{}}
	f.auth = NewAuthService(store.Users(), helpers.NewJWTManager("test-secret", time.Hour), 4, f.notifier, logger)
	f.users = NewUserService(store.Users(), logger)
	f.catalog = NewCatalogService(store.Books(), f.indexer, logger)
	f.lists = NewListService(store.Users(), f.catalog, logger)
	return f
}

func (f *fixture) register(t *testing.T, name, email string) *entity.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), RegisterInput{
		Name: name, YearOfBirth: 1990, Email: email, Password: "secret",
	})
	require.NoError(t, err)
	return u
}

func book(id, title string) entity.Book {
	return entity.Book{
		ID:   id,
		ETag: "etag-" + id,
		VolumeInfo: entity.VolumeInfo{
			Title:   title,
			Authors: []string{"Some Author"},
		},
	}
}

var errBoom = errors.New("boom")
