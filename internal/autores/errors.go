package autores

import (
	"errors"
	"net/http"
)

// Domain errors for association operations.
var (
	ErrNotFound = errors.New("association not found")
	ErrInvalid  = errors.New("invalid association")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalid) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
