package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
	"github.com/oksasatya/bookshelf-api/internal/domain/repository"
)

const userColumns = `id, name, email, password_hash, year_of_birth, goal, created_at, updated_at`

// UserRepository keeps list membership in user_books; one row per (user, book, list).
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, year_of_birth, goal)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Password, u.YearOfBirth, u.Goal)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return translate(err)
	}
	u.FavoriteBooks = []string{}
	u.ReadBooks = []string{}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if err := checkUserID(id); err != nil {
		return nil, err
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.YearOfBirth, &u.Goal,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	if err := r.loadLists(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) loadLists(ctx context.Context, u *entity.User) error {
	rows, err := r.pool.Query(ctx, `
		SELECT book_id, list FROM user_books
		WHERE user_id = $1
		ORDER BY seq
	`, u.ID)
	if err != nil {
		return translate(err)
	}
	defer rows.Close()

	u.FavoriteBooks = []string{}
	u.ReadBooks = []string{}
	for rows.Next() {
		var bookID, list string
		if err := rows.Scan(&bookID, &list); err != nil {
			return err
		}
		switch entity.ListKind(list) {
		case entity.ListFavorite:
			u.FavoriteBooks = append(u.FavoriteBooks, bookID)
		case entity.ListRead:
			u.ReadBooks = append(u.ReadBooks, bookID)
		}
	}
	return rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	if err := checkUserID(u.ID); err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $1, email = $2, goal = $3, updated_at = now()
		WHERE id = $4
		RETURNING updated_at
	`, u.Name, u.Email, u.Goal, u.ID)
	return translate(row.Scan(&u.UpdatedAt))
}

func (r *UserRepository) AddBook(ctx context.Context, userID string, kind entity.ListKind, bookID string) (bool, error) {
	if err := checkUserID(userID); err != nil {
		return false, err
	}
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO user_books (user_id, book_id, list)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`, userID, bookID, string(kind))
	if err != nil {
		return false, translate(err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	return true, r.touch(ctx, userID)
}

func (r *UserRepository) RemoveBook(ctx context.Context, userID string, kind entity.ListKind, bookID string) (bool, error) {
	if err := checkUserID(userID); err != nil {
		return false, err
	}
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM user_books
		WHERE user_id = $1 AND book_id = $2 AND list = $3
	`, userID, bookID, string(kind))
	if err != nil {
		return false, translate(err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, userID); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, r.touch(ctx, userID)
}

func (r *UserRepository) touch(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET updated_at = now() WHERE id = $1`, userID)
	return translate(err)
}

var _ repository.UserRepository = (*UserRepository)(nil)
