package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taxi/internal/domain"
	"taxi/internal/service"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orders    *service.OrderService
	history   *service.HistoryService
	simulator *service.TripSimulator
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *service.OrderService, history *service.HistoryService, simulator *service.TripSimulator) *OrderHandler {
	return &OrderHandler{orders: orders, history: history, simulator: simulator}
}

// CreateOrderRequest is the HTTP request body for placing an order.
type CreateOrderRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	Tariff        string `json:"tariff"`
	PaymentMethod string `json:"payment_method,omitempty"` // CASH, CARD
}

// RateOrderRequest is the HTTP request body for rating the driver.
type RateOrderRequest struct {
	Rating *float64 `json:"rating"`
}

// OrderResponse is the HTTP response for order data.
type OrderResponse struct {
	ID            int64      `json:"id"`
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	DistanceKm    float64    `json:"distance_km"`
	Price         float64    `json:"price"`
	Status        string     `json:"status"`
	DriverRating  *float64   `json:"driver_rating,omitempty"`
	Tariff        string     `json:"tariff"`
	Car           string     `json:"car"`
	PlateNumber   string     `json:"plate_number"`
	PaymentMethod string     `json:"payment_method"`
	CreatedAt     time.Time  `json:"created_at"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
}

func toOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		Origin:        o.Origin,
		Destination:   o.Destination,
		DistanceKm:    o.DistanceKm,
		Price:         o.Price,
		Status:        string(o.Status),
		DriverRating:  o.DriverRating,
		Tariff:        string(o.Tariff),
		Car:           o.Car,
		PlateNumber:   o.PlateNumber,
		PaymentMethod: string(o.PaymentMethod),
		CreatedAt:     o.CreatedAt,
		StartedAt:     o.StartedAt,
		CompletedAt:   o.CompletedAt,
		CancelledAt:   o.CancelledAt,
	}
}

// CreateOrder handles POST /v1/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	tariff, err := domain.ParseTariff(req.Tariff)
	if err != nil {
		respondError(c, service.ErrInvalidTariff)
		return
	}
	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		respondError(c, service.ErrInvalidPaymentMethod)
		return
	}

	order, err := h.orders.Place(c.Request.Context(), service.PlaceOrderRequest{
		UserID:        userID,
		Origin:        req.Origin,
		Destination:   req.Destination,
		Tariff:        tariff,
		PaymentMethod: method,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toOrderResponse(order))
}

// ListOrders handles GET /v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	orders, err := h.history.History(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	respondJSON(c, http.StatusOK, gin.H{"orders": response})
}

// GetOrder handles GET /v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := h.history.DetailsForUser(c.Request.Context(), userID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// CancelOrder handles POST /v1/orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, ok := h.ownedOrder(c)
	if !ok {
		return
	}

	order, err := h.orders.Cancel(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// DriveOrder handles POST /v1/orders/:id/drive
// It blocks until the simulated trip ends. Repeating it resumes a trip whose
// earlier request was interrupted.
func (h *OrderHandler) DriveOrder(c *gin.Context) {
	orderID, ok := h.ownedOrder(c)
	if !ok {
		return
	}

	order, err := h.simulator.Drive(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// RateOrder handles POST /v1/orders/:id/rate
func (h *OrderHandler) RateOrder(c *gin.Context) {
	orderID, ok := h.ownedOrder(c)
	if !ok {
		return
	}

	var req RateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Rating == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "rating is required"})
		return
	}

	order, err := h.orders.Rate(c.Request.Context(), orderID, *req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// ownedOrder parses :id and checks the order belongs to the caller.
func (h *OrderHandler) ownedOrder(c *gin.Context) (int64, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return 0, false
	}
	orderID, ok := orderIDParam(c)
	if !ok {
		return 0, false
	}

	if _, err := h.history.DetailsForUser(c.Request.Context(), userID, orderID); err != nil {
		respondError(c, err)
		return 0, false
	}
	return orderID, true
}
