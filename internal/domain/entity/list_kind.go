package entity

// ListKind names one of the per-user book lists.
type ListKind string

const (
	ListFavorite ListKind = "favorite"
	ListRead     ListKind = "read"
)

// ParseListKind accepts the path segment used by the HTTP layer.
func ParseListKind(s string) (ListKind, bool) {
	switch ListKind(s) {
	case ListFavorite:
		return ListFavorite, true
	case ListRead:
		return ListRead, true
	}
	return "", false
}

// Field is the JSON/document field name holding this list on a user.
func (k ListKind) Field() string {
	if k == ListFavorite {
		return "favoriteBooks"
	}
	return "readBooks"
}
