package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErr "github.com/farmwise/farmwise/internal/pkg/errors"
	"github.com/farmwise/farmwise/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
		return
	}
	if _, err := h.auth.Register(c.Request.Context(), req.Email, req.Name, req.Password); err != nil {
		if appErr.IsConflict(err) {
			c.JSON(http.StatusConflict, gin.H{"msg": "User already exists"})
			return
		}
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "User created"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
		return
	}
	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	name := user.Name
	if name == "" {
		name = "User"
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"name":  name,
			"email": user.Email,
		},
	})
}
