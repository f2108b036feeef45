// Package pipeline turns a scraped job posting and the candidate profile into
// a tailored resume with a single generation API call.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/jonathan/job-tracker/internal/llm"
	"github.com/jonathan/job-tracker/internal/profile"
	"github.com/jonathan/job-tracker/internal/prompts"
	"github.com/jonathan/job-tracker/internal/scrape"
	"github.com/jonathan/job-tracker/internal/types"
)

// ProgressEvent represents a progress update during generation
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Generation steps reported through ProgressCallback
const (
	StepScrape   = "scrape"
	StepProfile  = "profile"
	StepPrompt   = "prompt"
	StepGenerate = "generate"
)

// ClientFactory builds a generation client for an API key
type ClientFactory func(ctx context.Context, apiKey string) (llm.Client, error)

// NewClientFactory returns a ClientFactory for config
func NewClientFactory(config *llm.Config) ClientFactory {
	return func(ctx context.Context, apiKey string) (llm.Client, error) {
		return llm.NewClient(ctx, config, apiKey)
	}
}

// Pipeline generates resumes. It holds no per-request state and never retries.
type Pipeline struct {
	scraper    *scrape.Scraper
	newClient  ClientFactory
	now        func() time.Time
	verbose    bool
	onProgress ProgressCallback
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithClock overrides the time source used for GeneratedAt
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithVerbose enables verbose logging
func WithVerbose(verbose bool) Option {
	return func(p *Pipeline) { p.verbose = verbose }
}

// WithProgress registers a progress callback
func WithProgress(cb ProgressCallback) Option {
	return func(p *Pipeline) { p.onProgress = cb }
}

// New creates a pipeline. A nil scraper uses the default selectors.
func New(scraper *scrape.Scraper, newClient ClientFactory, opts ...Option) *Pipeline {
	if scraper == nil {
		scraper = scrape.New(nil)
	}
	p := &Pipeline{scraper: scraper, newClient: newClient, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Scrape extracts the job posting from doc
func (p *Pipeline) Scrape(doc *goquery.Document, pageURL string) (*types.JobPosting, error) {
	return p.scrapeStep(context.Background(), doc, pageURL)
}

func (p *Pipeline) scrapeStep(ctx context.Context, doc *goquery.Document, pageURL string) (*types.JobPosting, error) {
	posting, err := p.scraper.Scrape(doc, pageURL)
	if err != nil {
		return nil, err
	}
	p.emit(ctx, StepScrape, fmt.Sprintf("Scraped %q (%d chars)", posting.Title, len(posting.Description)))
	return posting, nil
}

// Generate scrapes doc, checks the credential, builds the prompt and issues
// one generation request. The returned body is the provider text verbatim.
func (p *Pipeline) Generate(ctx context.Context, doc *goquery.Document, pageURL string, candidate *types.CandidateProfile, credential string) (*types.ResumeDocument, error) {
	posting, err := p.scrapeStep(ctx, doc, pageURL)
	if err != nil {
		return nil, err
	}
	return p.GeneratePosting(ctx, posting, candidate, credential)
}

// GeneratePosting runs every step after scraping
func (p *Pipeline) GeneratePosting(ctx context.Context, posting *types.JobPosting, candidate *types.CandidateProfile, credential string) (*types.ResumeDocument, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, &MissingCredentialError{}
	}
	if candidate == nil {
		return nil, &profile.ResourceLoadError{Message: "no candidate profile loaded"}
	}

	req, err := BuildPrompt(posting, candidate)
	if err != nil {
		return nil, err
	}
	p.emit(ctx, StepPrompt, fmt.Sprintf("Built prompt (%d chars)", len(req.User())))

	client, err := p.newClient(ctx, credential)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			return nil, &MissingCredentialError{}
		}
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if p.verbose {
		log.Printf("[VERBOSE] Generating resume for %q with %s", posting.Title, client.Model())
	}
	p.emit(ctx, StepGenerate, "Generating custom resume...")

	body, err := client.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	return &types.ResumeDocument{
		ID:          uuid.NewString(),
		JobTitle:    posting.Title,
		JobURL:      posting.URL,
		Body:        body,
		Model:       client.Model(),
		GeneratedAt: p.now().UTC(),
	}, nil
}

// BuildPrompt renders the system and user messages for posting. The output
// depends only on its inputs.
func BuildPrompt(posting *types.JobPosting, candidate *types.CandidateProfile) (llm.ChatRequest, error) {
	profileJSON, err := candidate.Indented()
	if err != nil {
		return llm.ChatRequest{}, &profile.ResourceLoadError{Source: candidate.Source, Message: "profile is not valid JSON", Cause: err}
	}

	system, err := prompts.Get(prompts.ResumeFile, prompts.SystemKey)
	if err != nil {
		return llm.ChatRequest{}, err
	}
	user, err := prompts.Get(prompts.ResumeFile, prompts.UserKey)
	if err != nil {
		return llm.ChatRequest{}, err
	}

	return llm.ChatRequest{Messages: []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: prompts.Format(user, map[string]string{
			"JobTitle":         posting.Title,
			"JobDescription":   posting.Description,
			"CandidateProfile": profileJSON,
		})},
	}}, nil
}

type progressKey struct{}

// ContextWithProgress attaches a per-request progress callback. It runs in
// addition to any callback registered with WithProgress.
func ContextWithProgress(ctx context.Context, cb ProgressCallback) context.Context {
	return context.WithValue(ctx, progressKey{}, cb)
}

func (p *Pipeline) emit(ctx context.Context, step, message string) {
	event := ProgressEvent{Step: step, Message: message}
	if p.onProgress != nil {
		p.onProgress(event)
	}
	if cb, ok := ctx.Value(progressKey{}).(ProgressCallback); ok && cb != nil {
		cb(event)
	}
}
