package pipeline

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/types"
)

// ProfileSource supplies the candidate profile
type ProfileSource interface {
	Load(ctx context.Context) (*types.CandidateProfile, error)
}

// Service runs the pipeline with the profile and API key taken from their
// configured sources. A failed generation persists nothing.
type Service struct {
	Pipeline *Pipeline
	Store    store.Store
	Profiles ProfileSource
}

// GenerateFromStore scrapes doc, loads the profile, reads the stored API
// key and generates the resume.
func (s *Service) GenerateFromStore(ctx context.Context, doc *goquery.Document, pageURL string) (*types.ResumeDocument, error) {
	posting, err := s.Pipeline.scrapeStep(ctx, doc, pageURL)
	if err != nil {
		return nil, err
	}

	candidate, err := s.Profiles.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.Pipeline.emit(ctx, StepProfile, "Loaded candidate profile")

	apiKey, err := store.GetAPIKey(ctx, s.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to read API key: %w", err)
	}

	return s.Pipeline.GeneratePosting(ctx, posting, candidate, apiKey)
}
