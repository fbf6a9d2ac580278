package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalog-backend/internal/auth"
	"catalog-backend/internal/models"
)

type AuthHandler struct {
	manager *auth.Manager
	log     *zap.Logger
}

func NewAuthHandler(manager *auth.Manager, log *zap.Logger) *AuthHandler {
	return &AuthHandler{manager: manager, log: log}
}

// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	token, err := h.manager.Login(req.Email, req.Password)
	if err != nil {
		h.log.Warn("login rejected", zap.String("email", req.Email))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid email or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token})
}
