// Package store provides the key-value persistence used by the tracker, the
// save-job relay and the settings surface.
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Recognized keys
const (
	KeyJobCounter    = "jobCounter" // legacy, kept for compatibility
	KeySavedJobs     = "savedJobs"
	KeyManualCounter = "manualCounter"
	KeyStreak        = "streak"
	KeyLastUpdated   = "lastUpdated"
	KeyAPIKey        = "chatgptApiKey"
)

// Store is an asynchronous-style key-value store. Values are JSON documents.
// Reads-then-writes across calls are not transactional.
type Store interface {
	// Get returns the stored values for the given keys. Missing keys are
	// absent from the result.
	Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)
	// Set stores every entry of values, JSON-encoding each value.
	Set(ctx context.Context, values map[string]any) error
	// Close releases any resources held by the store
	Close() error
}

// Error represents a failure in a store backend
type Error struct {
	Op    string
	Key   string
	Cause error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store %s %s: %v", e.Op, e.Key, e.Cause)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// encodeValues marshals every value up front so a bad value fails the whole Set.
func encodeValues(values map[string]any) (map[string]json.RawMessage, error) {
	encoded := make(map[string]json.RawMessage, len(values))
	for key, value := range values {
		if raw, ok := value.(json.RawMessage); ok {
			encoded[key] = raw
			continue
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, &Error{Op: "set", Key: key, Cause: err}
		}
		encoded[key] = data
	}
	return encoded, nil
}
