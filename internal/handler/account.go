package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taxi/internal/service"
)

// TokenIssuer issues bearer tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(userID int64) (string, error)
}

// AccountHandler handles HTTP requests for user accounts.
type AccountHandler struct {
	accounts *service.AccountService
	tokens   TokenIssuer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts *service.AccountService, tokens TokenIssuer) *AccountHandler {
	return &AccountHandler{accounts: accounts, tokens: tokens}
}

// CredentialsRequest is the HTTP request body for registration and login.
type CredentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// UserResponse is the HTTP response for user data.
type UserResponse struct {
	ID        int64     `json:"id"`
	Login     string    `json:"login"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse is the HTTP response for a successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Register handles POST /v1/users/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, UserResponse{ID: user.ID, Login: user.Login, CreatedAt: user.CreatedAt})
}

// Login handles POST /v1/users/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, LoginResponse{
		Token: token,
		User:  UserResponse{ID: user.ID, Login: user.Login, CreatedAt: user.CreatedAt},
	})
}
