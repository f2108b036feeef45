package pipeline

import (
	"errors"
	"strings"

	"github.com/jonathan/job-tracker/internal/fetch"
	"github.com/jonathan/job-tracker/internal/llm"
	"github.com/jonathan/job-tracker/internal/profile"
	"github.com/jonathan/job-tracker/internal/scrape"
)

// MissingCredentialError is returned before any network call when no API key
// is configured.
type MissingCredentialError struct{}

func (e *MissingCredentialError) Error() string {
	return "API key not configured. Please set it with 'job-tracker set-api-key' or the settings endpoint."
}

// Kind classifies a pipeline failure for the UI and HTTP boundary
type Kind string

// Error kinds
const (
	KindNotFound          Kind = "not_found"
	KindMissingCredential Kind = "missing_credential"
	KindNetwork           Kind = "network"
	KindAPI               Kind = "api"
	KindMalformedResponse Kind = "malformed_response"
	KindResourceLoad      Kind = "resource_load"
	KindUnknown           Kind = "unknown"
)

// ErrorKind returns the Kind of err. A nil error has an empty kind.
func ErrorKind(err error) Kind {
	if err == nil {
		return ""
	}

	var (
		notFound   *scrape.NotFoundError
		missing    *MissingCredentialError
		netErr     *llm.NetworkError
		fetchErr   *fetch.Error
		apiErr     *llm.APIError
		malformed  *llm.MalformedResponseError
		resLoadErr *profile.ResourceLoadError
	)

	switch {
	case errors.As(err, &notFound):
		return KindNotFound
	case errors.As(err, &missing):
		return KindMissingCredential
	case errors.As(err, &resLoadErr):
		return KindResourceLoad
	case errors.As(err, &apiErr):
		return KindAPI
	case errors.As(err, &malformed):
		return KindMalformedResponse
	case errors.As(err, &netErr), errors.As(err, &fetchErr):
		return KindNetwork
	default:
		return KindUnknown
	}
}

// StatusMessage converts err into the one-line status shown to the user
func StatusMessage(err error) string {
	if err == nil {
		return ""
	}

	switch ErrorKind(err) {
	case KindNotFound:
		return "Error: Could not find job description on this page"
	case KindAPI:
		var apiErr *llm.APIError
		errors.As(err, &apiErr)
		return "Error: " + apiErr.Error()
	default:
		return "Error: " + firstLine(err.Error())
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
