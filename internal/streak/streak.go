// Package streak implements the daily application counter and streak policy.
//
// Transition and Reconcile are pure functions of the stored state and the
// current instant; Tracker binds them to a store.
package streak

import (
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

// Transition applies action to state at instant now. Calendar days are
// evaluated in loc (the user's local time zone); a nil loc means time.Local.
func Transition(state types.CounterState, action types.Action, now time.Time, loc *time.Location) types.CounterState {
	switch action {
	case types.ActionReset:
		// Only the counter clears; streak and lastUpdated are untouched
		return types.CounterState{
			Count:       0,
			Streak:      state.Streak,
			LastUpdated: state.LastUpdated,
		}
	case types.ActionIncrement:
		return increment(state, now, loc)
	default:
		return state
	}
}

func increment(state types.CounterState, now time.Time, loc *time.Location) types.CounterState {
	newStreak := state.Streak

	if state.LastUpdated == nil {
		// First increment ever recorded. A non-zero legacy count means the
		// current day was already counted.
		if state.Count == 0 {
			newStreak = state.Streak + 1
		}
	} else {
		switch gap := DaysBetween(*state.LastUpdated, now, loc); {
		case gap == 1:
			newStreak = state.Streak + 1
		case gap >= 2:
			newStreak = 1
		default:
			// Same day, or lastUpdated in the future after a clock change
		}
	}

	stamp := now
	return types.CounterState{
		Count:       state.Count + 1,
		Streak:      newStreak,
		LastUpdated: &stamp,
	}
}

// Reconcile zeroes the streak when more than one calendar day has passed
// since the last increment. It is idempotent and meant to run once on load.
func Reconcile(state types.CounterState, now time.Time, loc *time.Location) types.CounterState {
	if state.LastUpdated == nil {
		return state
	}
	if DaysBetween(*state.LastUpdated, now, loc) > 1 {
		state.Streak = 0
	}
	return state
}

// CalendarDate returns midnight UTC of t's date in loc, usable for date arithmetic.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b in loc.
// Negative when b falls on an earlier day than a.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	return int(CalendarDate(b, loc).Sub(CalendarDate(a, loc)).Hours() / 24)
}
