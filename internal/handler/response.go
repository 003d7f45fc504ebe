package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxi/internal/middleware"
	"taxi/internal/repository"
	"taxi/internal/service"
)

// statusClientClosedRequest is the de facto status for requests whose client
// went away before the response was written.
const statusClientClosedRequest = 499

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
// Internal errors are attached to the context for the request logger and
// replaced by a generic message.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code >= http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(code, ErrorResponse{Error: http.StatusText(code)})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidCardFormat),
		errors.Is(err, service.ErrInvalidAddress),
		errors.Is(err, service.ErrInvalidTariff),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidRating):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrAuthenticationFailed):
		return http.StatusUnauthorized

	// Conflict errors
	case errors.Is(err, service.ErrDuplicateLogin),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrInvalidState):
		return http.StatusConflict

	// Well-formed requests the service cannot act on
	case errors.Is(err, service.ErrGeocode),
		errors.Is(err, service.ErrNoCardOnFile):
		return http.StatusUnprocessableEntity

	// The request context ended before the handler finished
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// currentUser returns the authenticated user's ID. It responds 401 and
// returns false when the route was not wrapped by AuthMiddleware.
func currentUser(c *gin.Context) (int64, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
		return 0, false
	}
	return id, true
}

// orderIDParam parses the :id path parameter.
func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid order id"})
		return 0, false
	}
	return id, true
}
