package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi/internal/service"
)

// CardHandler handles HTTP requests for the saved payment card.
type CardHandler struct {
	vault *service.CardVault
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(vault *service.CardVault) *CardHandler {
	return &CardHandler{vault: vault}
}

// SetCardRequest is the HTTP request body for saving a card.
type SetCardRequest struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// CardResponse shows the saved card without revealing it.
type CardResponse struct {
	HasCard  bool   `json:"has_card"`
	LastFour string `json:"last_four,omitempty"`
	Masked   string `json:"masked,omitempty"`
}

// SetCard handles PUT /v1/users/me/card
func (h *CardHandler) SetCard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req SetCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.vault.SetCard(c.Request.Context(), userID, req.Number, req.Expiry, req.CVV); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newCardResponse(req.Number[len(req.Number)-4:], true))
}

// GetCard handles GET /v1/users/me/card
func (h *CardHandler) GetCard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	lastFour, found, err := h.vault.LastFourDigits(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newCardResponse(lastFour, found))
}

func newCardResponse(lastFour string, found bool) CardResponse {
	if !found {
		return CardResponse{HasCard: false}
	}
	return CardResponse{
		HasCard:  true,
		LastFour: lastFour,
		Masked:   "**** **** **** " + lastFour,
	}
}
