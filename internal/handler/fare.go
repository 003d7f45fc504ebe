package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi/internal/domain"
	"taxi/internal/service"
)

// FareHandler handles fare quote requests.
type FareHandler struct {
	quotes *service.QuoteService
}

// NewFareHandler creates a new FareHandler.
func NewFareHandler(quotes *service.QuoteService) *FareHandler {
	return &FareHandler{quotes: quotes}
}

// QuoteResponse is the HTTP response for a fare quote.
type QuoteResponse struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	DistanceKm  float64 `json:"distance_km"`
	Tariff      string  `json:"tariff"`
	Price       float64 `json:"price"`
}

// Quote handles GET /v1/fares?origin=&destination=&tariff=
// Without a tariff, every tariff is quoted.
func (h *FareHandler) Quote(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")

	tariffs := domain.Tariffs
	if raw := c.Query("tariff"); raw != "" {
		tariff, err := domain.ParseTariff(raw)
		if err != nil {
			respondError(c, service.ErrInvalidTariff)
			return
		}
		tariffs = []domain.Tariff{tariff}
	}

	quotes := make([]QuoteResponse, 0, len(tariffs))
	for _, tariff := range tariffs {
		q, err := h.quotes.Quote(c.Request.Context(), origin, destination, tariff)
		if err != nil {
			respondError(c, err)
			return
		}
		quotes = append(quotes, QuoteResponse{
			Origin:      q.Origin,
			Destination: q.Destination,
			DistanceKm:  q.DistanceKm,
			Tariff:      string(q.Tariff),
			Price:       q.Price,
		})
	}

	respondJSON(c, http.StatusOK, gin.H{"quotes": quotes})
}
