package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pharma/backend/internal/application/identity"
	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/infrastructure/auth"
	"github.com/pharma/backend/internal/interfaces/http/dto"
)

// AuthHandler exposes login and token refresh
type AuthHandler struct {
	BaseHandler
	service *identity.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service *identity.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// loginResponse pairs the issued tokens with the authenticated account
type loginResponse struct {
	Tokens *auth.TokenPair `json:"tokens"`
	User   *pharmacy.User  `json:"user"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}
	tokens, user, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loginResponse{Tokens: tokens, User: user})
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !h.BindJSON(c, &req) {
		return
	}
	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tokens)
}
