package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

// ErrEmptyAPIKey is returned when an empty API key is submitted
var ErrEmptyAPIKey = errors.New("API key is empty")

// InitDefaults writes the install-time defaults for keys that are not yet set.
func InitDefaults(ctx context.Context, s Store) error {
	existing, err := s.Get(ctx, KeyJobCounter, KeySavedJobs)
	if err != nil {
		return err
	}

	defaults := make(map[string]any)
	if _, ok := existing[KeyJobCounter]; !ok {
		defaults[KeyJobCounter] = 0
	}
	if _, ok := existing[KeySavedJobs]; !ok {
		defaults[KeySavedJobs] = []types.SavedJob{}
	}
	if len(defaults) == 0 {
		return nil
	}
	return s.Set(ctx, defaults)
}

// LoadCounter reads the counter state. Missing keys load as zero values.
func LoadCounter(ctx context.Context, s Store) (types.CounterState, error) {
	values, err := s.Get(ctx, KeyManualCounter, KeyStreak, KeyLastUpdated)
	if err != nil {
		return types.CounterState{}, err
	}

	var state types.CounterState
	if err := decodeOptional(values[KeyManualCounter], &state.Count); err != nil {
		return types.CounterState{}, &Error{Op: "decode", Key: KeyManualCounter, Cause: err}
	}
	if err := decodeOptional(values[KeyStreak], &state.Streak); err != nil {
		return types.CounterState{}, &Error{Op: "decode", Key: KeyStreak, Cause: err}
	}

	var lastUpdated string
	if err := decodeOptional(values[KeyLastUpdated], &lastUpdated); err != nil {
		return types.CounterState{}, &Error{Op: "decode", Key: KeyLastUpdated, Cause: err}
	}
	if lastUpdated != "" {
		t, err := time.Parse(time.RFC3339, lastUpdated)
		if err != nil {
			return types.CounterState{}, &Error{Op: "decode", Key: KeyLastUpdated, Cause: err}
		}
		state.LastUpdated = &t
	}

	// Negative values can only come from hand-edited stores
	state.Count = max(state.Count, 0)
	state.Streak = max(state.Streak, 0)

	return state, nil
}

// SaveCounter persists the counter state
func SaveCounter(ctx context.Context, s Store, state types.CounterState) error {
	values := map[string]any{
		KeyManualCounter: state.Count,
		KeyStreak:        state.Streak,
	}
	if state.LastUpdated != nil {
		values[KeyLastUpdated] = state.LastUpdated.UTC().Format(time.RFC3339Nano)
	}
	return s.Set(ctx, values)
}

// ListSavedJobs returns the saved jobs in insertion order
func ListSavedJobs(ctx context.Context, s Store) ([]types.SavedJob, error) {
	values, err := s.Get(ctx, KeySavedJobs)
	if err != nil {
		return nil, err
	}

	jobs := []types.SavedJob{}
	if err := decodeOptional(values[KeySavedJobs], &jobs); err != nil {
		return nil, &Error{Op: "decode", Key: KeySavedJobs, Cause: err}
	}
	if jobs == nil {
		jobs = []types.SavedJob{}
	}
	return jobs, nil
}

// AppendSavedJob appends job to the saved jobs list and returns the new length.
// The read and the write are separate calls; concurrent writers can drop an update.
func AppendSavedJob(ctx context.Context, s Store, job types.SavedJob) (int, error) {
	jobs, err := ListSavedJobs(ctx, s)
	if err != nil {
		return 0, err
	}
	jobs = append(jobs, job)
	if err := s.Set(ctx, map[string]any{KeySavedJobs: jobs}); err != nil {
		return 0, err
	}
	return len(jobs), nil
}

// GetAPIKey returns the stored API credential, or "" when none is set
func GetAPIKey(ctx context.Context, s Store) (string, error) {
	values, err := s.Get(ctx, KeyAPIKey)
	if err != nil {
		return "", err
	}
	var key string
	if err := decodeOptional(values[KeyAPIKey], &key); err != nil {
		return "", &Error{Op: "decode", Key: KeyAPIKey, Cause: err}
	}
	return key, nil
}

// SetAPIKey trims and stores the API credential. Empty keys are rejected.
func SetAPIKey(ctx context.Context, s Store, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyAPIKey
	}
	return s.Set(ctx, map[string]any{KeyAPIKey: key})
}

// MaskSecret returns a form of secret that is safe to log
func MaskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return fmt.Sprintf("%s…%s", secret[:3], secret[len(secret)-4:])
}

// decodeOptional unmarshals raw into v, leaving v untouched for missing or null values.
func decodeOptional(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}
