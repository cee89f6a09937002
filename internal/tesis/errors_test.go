package tesis_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/tesisarchive/tesis-service/internal/tesis"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			"validation error",
			tesis.ErrValidation,
			http.StatusBadRequest,
		},
		{
			"wrapped validation error",
			fmt.Errorf("%w: id_tesis must be an integer", tesis.ErrValidation),
			http.StatusBadRequest,
		},
		{
			"conflict error",
			tesis.ErrConflict,
			http.StatusConflict,
		},
		{
			"wrapped conflict error",
			fmt.Errorf("%w: id 1001", tesis.ErrConflict),
			http.StatusConflict,
		},
		{
			"not found error",
			tesis.ErrNotFound,
			http.StatusNotFound,
		},
		{
			"wrapped not found error",
			fmt.Errorf("failed: %w", tesis.ErrNotFound),
			http.StatusNotFound,
		},
		{
			"file too large error",
			tesis.ErrTooLarge,
			http.StatusRequestEntityTooLarge,
		},
		{
			"external service error",
			tesis.ErrExternal,
			http.StatusBadGateway,
		},
		{
			"wrapped external service error",
			fmt.Errorf("%w: ocr: timed out", tesis.ErrExternal),
			http.StatusBadGateway,
		},
		{
			"unknown error",
			errors.New("connection reset"),
			http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tesis.MapHTTPStatus(tt.err)
			if got != tt.wantStatus {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}
