package llm

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned when a client is built without a key
var ErrMissingAPIKey = errors.New("API key is required")

// NetworkError is a transport failure talking to the generation API
type NetworkError struct {
	Provider Provider
	Cause    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error communicating with %s: %v", e.Provider, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// APIError is a non-success response from the generation API
type APIError struct {
	Provider Provider
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

// MalformedResponseError is a success response that cannot be used
type MalformedResponseError struct {
	Provider Provider
	Message  string
	Cause    error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s returned a malformed response: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s returned a malformed response: %s", e.Provider, e.Message)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}
