package entity

import (
	"slices"
	"time"
)

// User is the aggregate root for the user domain.
// Password holds the bcrypt hash and is never serialized to clients.
// FavoriteBooks and ReadBooks hold Book IDs in insertion order without duplicates.
type User struct {
	ID            string
	Name          string
	Email         string
	Password      string
	YearOfBirth   int
	FavoriteBooks []string
	ReadBooks     []string
	Goal          float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Books returns the references held in the given list.
func (u *User) Books(kind ListKind) []string {
	switch kind {
	case ListFavorite:
		return u.FavoriteBooks
	case ListRead:
		return u.ReadBooks
	}
	return nil
}

// HasBook reports whether bookID is referenced by the given list.
func (u *User) HasBook(kind ListKind, bookID string) bool {
	return slices.Contains(u.Books(kind), bookID)
}

// References reports whether either list holds bookID.
func (u *User) References(bookID string) bool {
	return u.HasBook(ListFavorite, bookID) || u.HasBook(ListRead, bookID)
}
