package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/bookshelf-api/internal/interface/http"
)

// UserModule wires the profile and reading goal of the signed-in user.
// Protected: GET/PATCH /users/me, GET/PATCH /users/me/goal
type UserModule struct {
	Handler   *handlers.UserHandler
	Protected Protected
}

func NewUserModule(h *handlers.UserHandler, p Protected) *UserModule {
	return &UserModule{Handler: h, Protected: p}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	me := m.Protected.group(rg, "/users/me")
	{
		me.GET("", m.Handler.GetProfile)
		me.PATCH("", m.Handler.UpdateProfile)
		me.GET("/goal", m.Handler.GetGoal)
		me.PATCH("/goal", m.Handler.SetGoal)
	}
}
