package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/job-tracker/internal/pipeline"
	"github.com/jonathan/job-tracker/internal/store"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	if errors.As(err, &validationErr) || errors.Is(err, store.ErrEmptyAPIKey) {
		return http.StatusBadRequest
	}
	return statusForKind(pipeline.ErrorKind(err))
}

// statusForKind maps a generation failure category to a response status
func statusForKind(kind pipeline.Kind) int {
	switch kind {
	case pipeline.KindNotFound:
		return http.StatusNotFound
	case pipeline.KindMissingCredential:
		return http.StatusPreconditionFailed
	case pipeline.KindNetwork, pipeline.KindAPI, pipeline.KindMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
