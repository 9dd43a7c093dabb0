package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf-api/internal/application"
	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
	"github.com/oksasatya/bookshelf-api/internal/interface/middleware"
	"github.com/oksasatya/bookshelf-api/pkg/apperror"
	"github.com/oksasatya/bookshelf-api/pkg/response"
)

type BookHandler struct {
	Lists   *application.ListService
	Catalog *application.CatalogService
	Logger  *logrus.Logger
}

func NewBookHandler(lists *application.ListService, catalog *application.CatalogService, logger *logrus.Logger) *BookHandler {
	return &BookHandler{Lists: lists, Catalog: catalog, Logger: logger}
}

// List GET /books/me/{favorite|read}
func (h *BookHandler) List(kind entity.ListKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		books, err := h.Lists.ListBooks(c.Request.Context(), middleware.UserID(c), kind)
		if err != nil {
			fail(c, err)
			return
		}
		response.JSON(c, http.StatusOK, gin.H{kind.Field(): books})
	}
}

// Add POST /books/me/{favorite|read} {id, etag, volumeInfo}
func (h *BookHandler) Add(kind entity.ListKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bookRequest
		if badPayload(c, c.ShouldBindJSON(&req)) {
			return
		}
		u, err := h.Lists.AddToList(c.Request.Context(), middleware.UserID(c), kind, req.toEntity())
		if err != nil {
			fail(c, err)
			return
		}
		response.JSON(c, http.StatusOK, toProfile(u))
	}
}

// Remove DELETE /books/me/{favorite|read}/:id
func (h *BookHandler) Remove(kind entity.ListKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p bookIDParam
		if err := c.ShouldBindUri(&p); err != nil {
			fail(c, apperror.BadRequest(apperror.MsgInvalidID))
			return
		}
		u, err := h.Lists.RemoveFromList(c.Request.Context(), middleware.UserID(c), kind, p.ID)
		if err != nil {
			fail(c, err)
			return
		}
		response.JSON(c, http.StatusOK, toProfile(u))
	}
}

// Search GET /books/search?q=&size=
func (h *BookHandler) Search(c *gin.Context) {
	var q searchQuery
	if badPayload(c, c.ShouldBindQuery(&q)) {
		return
	}
	books, err := h.Catalog.Search(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"books": books})
}
