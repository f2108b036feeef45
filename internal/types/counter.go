package types

import "time"

// CounterState is the persisted application counter and daily streak.
// LastUpdated is nil until the first increment.
type CounterState struct {
	Count       int        `json:"count"`
	Streak      int        `json:"streak"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// Action is a user action applied to a CounterState
type Action string

const (
	// ActionIncrement records one more application
	ActionIncrement Action = "increment"
	// ActionReset clears the counter but keeps the streak
	ActionReset Action = "reset"
)
