package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bookshelf-api/pkg/apperror"
	"github.com/oksasatya/bookshelf-api/pkg/response"
)

const CtxUserIDKey = "userID"

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Auth requires "Authorization: Bearer <token>" and sets userID in the Gin
// context. The user record is not looked up here.
func Auth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, apperror.KindUnauthorized.Status(), apperror.MsgUnauthorized, nil)
			return
		}
		userID, err := v.VerifyToken(token)
		if err != nil || userID == "" {
			response.Error(c, apperror.KindUnauthorized.Status(), apperror.MsgUnauthorized, nil)
			return
		}
		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
