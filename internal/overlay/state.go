// Package overlay is the terminal stand-in for the job page overlay: a pure
// state reducer and renderer, a controller that performs the user actions,
// and a bubbletea program that wires them to keys.
package overlay

import (
	"fmt"

	"github.com/jonathan/job-tracker/internal/pipeline"
	"github.com/jonathan/job-tracker/internal/types"
)

// StatusKind styles the status line
type StatusKind string

// Status kinds
const (
	StatusInfo    StatusKind = "info"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// State is everything the overlay renders
type State struct {
	Counter    types.CounterState
	LastScrape *types.JobPosting
	LastResume *types.ResumeDocument
	Status     string
	StatusKind StatusKind
	// StatusSeq increments whenever Status is set so stale clear timers
	// can be ignored.
	StatusSeq  int
	Generating bool
	Closed     bool
}

// CanGenerate reports whether the generate action is enabled
func (s State) CanGenerate() bool {
	return s.LastScrape != nil && !s.Generating
}

// CounterMsg carries the counter after load, increment or reset
type CounterMsg struct {
	State types.CounterState
	Err   error
}

// ScrapeMsg carries the result of the scrape action
type ScrapeMsg struct {
	Posting *types.JobPosting
	Err     error
}

// GenerateStartedMsg marks a generation request as in flight
type GenerateStartedMsg struct{}

// GenerateMsg carries the result of the generate action
type GenerateMsg struct {
	Resume *types.ResumeDocument
	Err    error
}

// SaveMsg carries the result of the save-job action
type SaveMsg struct {
	Job   types.SavedJob
	Total int
	Err   error
}

// CopyMsg carries the result of copying the resume to the clipboard
type CopyMsg struct {
	Err error
}

// ClearStatusMsg clears the status if it is still the one with Seq
type ClearStatusMsg struct {
	Seq int
}

// CloseMsg closes the overlay
type CloseMsg struct{}

// Reduce returns the state after msg. It performs no I/O.
func Reduce(s State, msg any) State {
	switch msg := msg.(type) {
	case CounterMsg:
		if msg.Err != nil {
			return withStatus(s, "Error updating counter: "+msg.Err.Error(), StatusError)
		}
		s.Counter = msg.State

	case ScrapeMsg:
		if msg.Err != nil {
			return withStatus(s, "Error scraping description", StatusError)
		}
		s.LastScrape = msg.Posting
		return withStatus(s, "Description scraped successfully!", StatusSuccess)

	case GenerateStartedMsg:
		s.Generating = true
		return withStatus(s, "Generating custom resume...", StatusInfo)

	case GenerateMsg:
		s.Generating = false
		if msg.Err != nil {
			return withStatus(s, pipeline.StatusMessage(msg.Err), StatusError)
		}
		s.LastResume = msg.Resume
		return withStatus(s, "Resume Generated!", StatusSuccess)

	case SaveMsg:
		if msg.Err != nil {
			return withStatus(s, "Error saving job: "+msg.Err.Error(), StatusError)
		}
		return withStatus(s, fmt.Sprintf("Job saved successfully! (%d saved)", msg.Total), StatusSuccess)

	case CopyMsg:
		if msg.Err != nil {
			return withStatus(s, "Error copying resume: "+msg.Err.Error(), StatusError)
		}
		return withStatus(s, "Resume copied to clipboard", StatusSuccess)

	case ClearStatusMsg:
		if msg.Seq == s.StatusSeq && !s.Generating {
			s.Status = ""
			s.StatusKind = ""
		}

	case CloseMsg:
		s.Closed = true
	}
	return s
}

func withStatus(s State, status string, kind StatusKind) State {
	s.Status = status
	s.StatusKind = kind
	s.StatusSeq++
	return s
}
