// Package types provides type definitions for structured data used throughout the job-tracker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// UnknownTitle is the title recorded when no title selector matches.
const UnknownTitle = "unknown"

// JobPosting is a job advertisement scraped from a live page.
// It is created on demand and never mutated afterwards.
type JobPosting struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ScrapedAt   time.Time `json:"scraped_at"`
}

// SavedJob is an entry in the append-only saved jobs list
type SavedJob struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company"`
	Description string `json:"description"`
	URL         string `json:"url" validate:"required,url"`
}
