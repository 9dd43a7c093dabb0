package handlers

import (
	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
)

type signupRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=30"`
	YearOfBirth int    `json:"yearOfBirth" binding:"required,birthyear"`
	Email       string `json:"email" binding:"required,trimmedemail"`
	Password    string `json:"password" binding:"required,max=72"`
}

type signinRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=30"`
	Email *string `json:"email" binding:"omitempty,trimmedemail"`
}

type goalRequest struct {
	Goal *float64 `json:"goal" binding:"required"`
}

type imageLinksRequest struct {
	SmallThumbnail string `json:"smallThumbnail" binding:"omitempty,uri"`
	Thumbnail      string `json:"thumbnail" binding:"omitempty,uri"`
}

type industryIdentifierRequest struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type volumeInfoRequest struct {
	Title               string                      `json:"title" binding:"required"`
	Authors             []string                    `json:"authors" binding:"required,min=1,dive,required"`
	Description         string                      `json:"description"`
	PublishedDate       string                      `json:"publishedDate"`
	ImageLinks          *imageLinksRequest          `json:"imageLinks"`
	IndustryIdentifiers []industryIdentifierRequest `json:"industryIdentifiers" binding:"omitempty,dive"`
}

type bookRequest struct {
	ID         string            `json:"id" binding:"required,bookid"`
	Kind       string            `json:"kind"`
	ETag       string            `json:"etag"`
	VolumeInfo volumeInfoRequest `json:"volumeInfo"`
}

type bookIDParam struct {
	ID string `json:"id" uri:"id" binding:"required,bookid"`
}

type searchQuery struct {
	Q    string `json:"q" form:"q" binding:"required"`
	Size int    `json:"size" form:"size" binding:"omitempty,min=1,max=50"`
}

func (r bookRequest) toEntity() entity.Book {
	vi := entity.VolumeInfo{
		Title:         r.VolumeInfo.Title,
		Authors:       r.VolumeInfo.Authors,
		Description:   r.VolumeInfo.Description,
		PublishedDate: r.VolumeInfo.PublishedDate,
	}
	if l := r.VolumeInfo.ImageLinks; l != nil {
		vi.ImageLinks = &entity.ImageLinks{SmallThumbnail: l.SmallThumbnail, Thumbnail: l.Thumbnail}
	}
	for _, id := range r.VolumeInfo.IndustryIdentifiers {
		vi.IndustryIdentifiers = append(vi.IndustryIdentifiers, entity.IndustryIdentifier{Type: id.Type, Identifier: id.Identifier})
	}
	return entity.Book{ID: r.ID, Kind: r.Kind, ETag: r.ETag, VolumeInfo: vi}
}

// profileResponse is the client view of a user; the password hash never leaves the server.
type profileResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	YearOfBirth   int      `json:"yearOfBirth"`
	FavoriteBooks []string `json:"favoriteBooks"`
	ReadBooks     []string `json:"readBooks"`
	Goal          float64  `json:"goal"`
}

func toProfile(u *entity.User) profileResponse {
	p := profileResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		YearOfBirth:   u.YearOfBirth,
		FavoriteBooks: u.FavoriteBooks,
		ReadBooks:     u.ReadBooks,
		Goal:          u.Goal,
	}
	if p.FavoriteBooks == nil {
		p.FavoriteBooks = []string{}
	}
	if p.ReadBooks == nil {
		p.ReadBooks = []string{}
	}
	return p
}
