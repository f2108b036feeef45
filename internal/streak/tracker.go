package streak

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/types"
)

// Tracker loads, mutates and persists the counter state
type Tracker struct {
	store   store.Store
	loc     *time.Location
	now     func() time.Time
	verbose bool
}

// Option configures a Tracker
type Option func(*Tracker)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLocation sets the time zone used for calendar-day comparisons
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) { t.loc = loc }
}

// WithVerbose enables verbose logging
func WithVerbose(verbose bool) Option {
	return func(t *Tracker) { t.verbose = verbose }
}

// NewTracker creates a tracker over s
func NewTracker(s store.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store: s,
		loc:   time.Local,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load reads the stored state and reconciles it against the current day.
// A streak broken since the last visit is persisted immediately.
func (t *Tracker) Load(ctx context.Context) (types.CounterState, error) {
	state, err := store.LoadCounter(ctx, t.store)
	if err != nil {
		return types.CounterState{}, fmt.Errorf("failed to load counter: %w", err)
	}

	reconciled := Reconcile(state, t.now(), t.loc)
	if reconciled.Streak != state.Streak {
		if t.verbose {
			log.Printf("[VERBOSE] Streak broken (was %d), resetting to 0", state.Streak)
		}
		if err := store.SaveCounter(ctx, t.store, reconciled); err != nil {
			return types.CounterState{}, fmt.Errorf("failed to save counter: %w", err)
		}
	}
	return reconciled, nil
}

// Increment records one application
func (t *Tracker) Increment(ctx context.Context) (types.CounterState, error) {
	return t.apply(ctx, types.ActionIncrement)
}

// Reset clears the counter, keeping the streak
func (t *Tracker) Reset(ctx context.Context) (types.CounterState, error) {
	return t.apply(ctx, types.ActionReset)
}

func (t *Tracker) apply(ctx context.Context, action types.Action) (types.CounterState, error) {
	state, err := t.Load(ctx)
	if err != nil {
		return types.CounterState{}, err
	}

	next := Transition(state, action, t.now(), t.loc)
	if err := store.SaveCounter(ctx, t.store, next); err != nil {
		return types.CounterState{}, fmt.Errorf("failed to save counter: %w", err)
	}

	if t.verbose {
		log.Printf("[VERBOSE] %s: count %d -> %d, streak %d -> %d", action, state.Count, next.Count, state.Streak, next.Streak)
	}
	return next, nil
}
