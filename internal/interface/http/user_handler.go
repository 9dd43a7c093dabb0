package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf-api/internal/application"
	"github.com/oksasatya/bookshelf-api/internal/interface/middleware"
	"github.com/oksasatya/bookshelf-api/pkg/apperror"
	"github.com/oksasatya/bookshelf-api/pkg/response"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// GetProfile GET /users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toProfile(u))
}

// UpdateProfile PATCH /users/me {name?, email?}
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if badPayload(c, c.ShouldBindJSON(&req)) {
		return
	}
	if req.Name == nil && req.Email == nil {
		fail(c, apperror.BadRequest(apperror.MsgBadRequest).WithDetails(map[string]string{"payload": "name or email is required"}))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), application.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toProfile(u))
}

// GetGoal GET /users/me/goal
func (h *UserHandler) GetGoal(c *gin.Context) {
	goal, err := h.Svc.GetGoal(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"goal": goal})
}

// SetGoal PATCH /users/me/goal {goal}
func (h *UserHandler) SetGoal(c *gin.Context) {
	var req goalRequest
	if badPayload(c, c.ShouldBindJSON(&req)) {
		return
	}
	goal, err := h.Svc.SetGoal(c.Request.Context(), middleware.UserID(c), *req.Goal)
	if err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"goal": goal})
}
