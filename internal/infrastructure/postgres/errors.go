package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/bookshelf-api/internal/domain/repository"
)

const (
	codeInvalidText     = "22P02"
	codeUniqueViolation = "23505"
	codeFKViolation     = "23503"
)

// translate maps driver errors onto repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeInvalidText:
			return repository.ErrInvalidID
		case codeUniqueViolation:
			if pgErr.ConstraintName == "users_email_key" {
				return repository.ErrDuplicateEmail
			}
		case codeFKViolation:
			return repository.ErrNotFound
		}
	}
	return err
}

// checkUserID rejects ids the uuid column would refuse before they reach the wire.
func checkUserID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrInvalidID
	}
	return nil
}
