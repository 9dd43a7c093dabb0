package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
	handlers "github.com/oksasatya/bookshelf-api/internal/interface/http"
)

// BookModule wires the favorite and read lists plus catalog search.
// Protected: GET/POST /books/me/{favorite,read}, DELETE /books/me/{favorite,read}/:id,
// GET /books/search
type BookModule struct {
	Handler   *handlers.BookHandler
	Protected Protected
}

func NewBookModule(h *handlers.BookHandler, p Protected) *BookModule {
	return &BookModule{Handler: h, Protected: p}
}

func (m *BookModule) Register(rg *gin.RouterGroup) {
	books := m.Protected.group(rg, "/books")
	{
		books.GET("/search", m.Handler.Search)
		for _, kind := range []entity.ListKind{entity.ListFavorite, entity.ListRead} {
			path := "/me/" + string(kind)
			books.GET(path, m.Handler.List(kind))
			books.POST(path, m.Handler.Add(kind))
			books.DELETE(path+"/:id", m.Handler.Remove(kind))
		}
	}
}
