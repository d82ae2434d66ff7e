// Package server provides the HTTP API of the skill extractor.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mentorque/Extension-Free-backend/internal/db"
	"github.com/mentorque/Extension-Free-backend/internal/ingestion"
	"github.com/mentorque/Extension-Free-backend/internal/skills"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates an optional subsystem is not configured.
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not available", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		unavailableErr *ErrUnavailable
		fetchErr       *ingestion.FetchError
	)
	switch {
	case errors.As(err, &validationErr), errors.Is(err, ingestion.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, ingestion.ErrEmptyText):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unavailableErr),
		errors.Is(err, skills.ErrClassifierUnavailable),
		errors.Is(err, skills.ErrNoEmbedder):
		return http.StatusServiceUnavailable
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
