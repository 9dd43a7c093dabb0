package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
	"github.com/oksasatya/bookshelf-api/internal/domain/repository"
)

const bookColumns = `id, kind, etag, volume_info, owner_id, created_at, updated_at`

// BookRepository stores catalog entries keyed by their external id; volume_info is JSONB.
type BookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

func scanBook(row pgx.Row) (*entity.Book, error) {
	b := &entity.Book{}
	if err := row.Scan(&b.ID, &b.Kind, &b.ETag, &b.VolumeInfo, &b.Owner, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BookRepository) GetByID(ctx context.Context, id string) (*entity.Book, error) {
	b, err := scanBook(r.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return b, nil
}

func (r *BookRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Book, error) {
	if len(ids) == 0 {
		return []entity.Book{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	byID := make(map[string]*entity.Book, len(ids))
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		byID[b.ID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]entity.Book, 0, len(byID))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			out = append(out, *b)
		}
	}
	return out, nil
}

// CreateIfAbsent relies on the primary key; concurrent creators of the same id
// both end up with the first stored row.
func (r *BookRepository) CreateIfAbsent(ctx context.Context, b *entity.Book) (*entity.Book, bool, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO books (id, kind, etag, volume_info, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
		RETURNING created_at, updated_at
	`, b.ID, b.Kind, b.ETag, b.VolumeInfo, b.Owner)

	err := row.Scan(&b.CreatedAt, &b.UpdatedAt)
	switch {
	case err == nil:
		stored := *b
		return &stored, true, nil
	case errors.Is(err, pgx.ErrNoRows):
		stored, gErr := r.GetByID(ctx, b.ID)
		if gErr != nil {
			return nil, false, gErr
		}
		return stored, false, nil
	default:
		return nil, false, translate(err)
	}
}

// DeleteIfOrphaned checks and deletes in one statement so a concurrent add
// either lands first and keeps the row or fails its foreign key.
func (r *BookRepository) DeleteIfOrphaned(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM books
		WHERE id = $1
		  AND NOT EXISTS (SELECT 1 FROM user_books WHERE book_id = $1)
	`, id)
	if err != nil {
		return false, translate(err)
	}
	return tag.RowsAffected() > 0, nil
}

var _ repository.BookRepository = (*BookRepository)(nil)
