package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/bookshelf-api/internal/interface/http"
)

// AuthModule serves the public signup and signin endpoints.
type AuthModule struct {
	Handler       *handlers.AuthHandler
	SigninLimiter gin.HandlerFunc
}

func NewAuthModule(h *handlers.AuthHandler, signinLimiter gin.HandlerFunc) *AuthModule {
	return &AuthModule{Handler: h, SigninLimiter: signinLimiter}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/signup", m.Handler.Signup)
	rg.POST("/signin", m.SigninLimiter, m.Handler.Signin)
}
