package entity

import (
	"errors"
	"strings"
	"time"
)

// DefaultBookKind mirrors the volume kind reported by the external catalog.
const DefaultBookKind = "books#volume"

var (
	ErrBookIDRequired    = errors.New("book id is required")
	ErrBookTitleRequired = errors.New("book title is required")
	ErrBookAuthorsEmpty  = errors.New("book authors must not be empty")
)

// Book is a de-duplicated catalog entry keyed by the external catalog id.
// Owner is the user who first added it; it carries no access rights.
type Book struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	ETag       string     `json:"etag,omitempty"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
	Owner      string     `json:"owner"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type VolumeInfo struct {
	Title               string               `json:"title" bson:"title"`
	Authors             []string             `json:"authors" bson:"authors"`
	Description         string               `json:"description,omitempty" bson:"description,omitempty"`
	PublishedDate       string               `json:"publishedDate,omitempty" bson:"publishedDate,omitempty"`
	ImageLinks          *ImageLinks          `json:"imageLinks,omitempty" bson:"imageLinks,omitempty"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers,omitempty" bson:"industryIdentifiers,omitempty"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail,omitempty" bson:"smallThumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
}

type IndustryIdentifier struct {
	Type       string `json:"type" bson:"type"`
	Identifier string `json:"identifier" bson:"identifier"`
}

// Validate checks the fields a catalog entry cannot exist without.
func (b *Book) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrBookIDRequired
	}
	if strings.TrimSpace(b.VolumeInfo.Title) == "" {
		return ErrBookTitleRequired
	}
	if len(b.VolumeInfo.Authors) == 0 {
		return ErrBookAuthorsEmpty
	}
	for _, a := range b.VolumeInfo.Authors {
		if strings.TrimSpace(a) == "" {
			return ErrBookAuthorsEmpty
		}
	}
	return nil
}
