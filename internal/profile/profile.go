// Package profile loads the candidate profile document that resume prompts
// are built from.
package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jonathan/job-tracker/internal/fetch"
	"github.com/jonathan/job-tracker/internal/schemas"
	"github.com/jonathan/job-tracker/internal/types"
)

// ResourceLoadError is returned when the candidate profile cannot be read,
// is empty, is not valid JSON or fails its schema.
type ResourceLoadError struct {
	Source  string
	Message string
	Cause   error
}

func (e *ResourceLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load candidate profile %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load candidate profile %s: %s", e.Source, e.Message)
}

func (e *ResourceLoadError) Unwrap() error {
	return e.Cause
}

// ErrNoSource is returned by Loader.Load when no profile location is configured
var ErrNoSource = errors.New("no candidate profile configured (set profile_path)")

// Parse validates that data is a non-empty JSON document
func Parse(data []byte, source string) (*types.CandidateProfile, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &ResourceLoadError{Source: source, Message: "profile is empty"}
	}
	if !json.Valid(trimmed) {
		return nil, &ResourceLoadError{Source: source, Message: "profile is not valid JSON"}
	}
	return &types.CandidateProfile{Raw: json.RawMessage(trimmed), Source: source}, nil
}

// LoadFile reads and parses a profile from disk
func LoadFile(path string) (*types.CandidateProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ResourceLoadError{Source: path, Message: "failed to read file", Cause: err}
	}
	return Parse(data, path)
}

// LoadURL fetches and parses a profile served over HTTP
func LoadURL(ctx context.Context, url string, opts *fetch.Options) (*types.CandidateProfile, error) {
	result, err := fetch.URL(ctx, url, opts)
	if err != nil {
		if result != nil {
			return nil, &ResourceLoadError{
				Source:  url,
				Message: fmt.Sprintf("unexpected status %d", result.StatusCode),
				Cause:   err,
			}
		}
		return nil, &ResourceLoadError{Source: url, Message: "request failed", Cause: err}
	}
	return Parse([]byte(result.HTML), url)
}

// Loader resolves the configured profile location and optionally checks the
// document against a JSON schema.
type Loader struct {
	Source     string
	SchemaPath string
	Verbose    bool
}

// Load reads the profile from Source, which may be a file path or an
// http(s) URL.
func (l *Loader) Load(ctx context.Context) (*types.CandidateProfile, error) {
	if l.Source == "" {
		return nil, &ResourceLoadError{Message: "no source", Cause: ErrNoSource}
	}

	var (
		profile *types.CandidateProfile
		err     error
	)
	if isURL(l.Source) {
		opts := fetch.DefaultOptions()
		opts.Verbose = l.Verbose
		profile, err = LoadURL(ctx, l.Source, opts)
	} else {
		profile, err = LoadFile(l.Source)
	}
	if err != nil {
		return nil, err
	}

	if l.SchemaPath != "" {
		schemaPath := schemas.ResolveSchemaPath(l.SchemaPath)
		if schemaPath == "" {
			schemaPath = l.SchemaPath
		}
		if err := schemas.ValidateBytes(schemaPath, profile.Raw); err != nil {
			return nil, &ResourceLoadError{Source: l.Source, Message: "schema validation failed", Cause: err}
		}
	}

	if l.Verbose {
		log.Printf("[VERBOSE] Loaded candidate profile from %s (%d bytes)", l.Source, len(profile.Raw))
	}
	return profile, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
