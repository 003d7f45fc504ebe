package service

import (
	"errors"
	"fmt"

	"taxi/internal/geo"
)

var (
	// ErrNotFound is returned when a user or order does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateLogin is returned when registering a login that is already taken.
	ErrDuplicateLogin = errors.New("login already registered")

	// ErrAuthenticationFailed is returned for an unknown login or a wrong password.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidCredentials is returned when a login or password is malformed.
	ErrInvalidCredentials = errors.New("invalid login or password format")

	// ErrInvalidCardFormat is returned when card number, expiry or CVV is malformed.
	ErrInvalidCardFormat = errors.New("invalid card format")

	// ErrDecryptionFailed is returned when stored card data cannot be decrypted.
	ErrDecryptionFailed = errors.New("card data could not be decrypted")

	// ErrNoCardOnFile is returned when paying by card without a saved card.
	ErrNoCardOnFile = errors.New("no card on file")

	// ErrGeocode is returned when an address cannot be resolved.
	ErrGeocode = geo.ErrGeocode

	// ErrInvalidAddress is returned when origin or destination is empty.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidTariff is returned when the tariff is unknown.
	ErrInvalidTariff = errors.New("invalid tariff")

	// ErrInvalidPaymentMethod is returned when payment method is invalid.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidPrice is returned when an order price is negative or not finite.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrInvalidUserID is returned when user ID is not positive.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidTransition is returned when an order cannot move to the requested status.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrInvalidState is returned when an operation is not allowed in the order's current status.
	ErrInvalidState = errors.New("operation not allowed in current order state")

	// ErrAlreadyRated is returned when rating an order a second time.
	ErrAlreadyRated = fmt.Errorf("%w: driver already rated", ErrInvalidState)

	// ErrInvalidRating is returned when a rating is outside [1, 5].
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
