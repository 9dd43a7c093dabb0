package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf-api/internal/application"
	"github.com/oksasatya/bookshelf-api/pkg/response"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// Signup POST /signup {name, yearOfBirth, email, password}
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if badPayload(c, c.ShouldBindJSON(&req)) {
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:        req.Name,
		YearOfBirth: req.YearOfBirth,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{
		"name":        u.Name,
		"yearOfBirth": u.YearOfBirth,
		"email":       u.Email,
	})
}

// Signin POST /signin {email, password}
func (h *AuthHandler) Signin(c *gin.Context) {
	var req signinRequest
	if badPayload(c, c.ShouldBindJSON(&req)) {
		return
	}
	token, exp, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("X-Token-Expires-At", exp.UTC().Format(http.TimeFormat))
	response.JSON(c, http.StatusOK, gin.H{"token": token})
}
