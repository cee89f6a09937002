package tesis

import (
	"errors"
	"net/http"
)

// Domain errors for thesis operations.
var (
	ErrValidation = errors.New("invalid input")
	ErrConflict   = errors.New("thesis id already exists")
	ErrNotFound   = errors.New("thesis not found")
	ErrTooLarge   = errors.New("file exceeds maximum upload size")
	ErrExternal   = errors.New("external service failure")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrExternal) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
