package overlay

import (
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/atotto/clipboard"

	"github.com/jonathan/job-tracker/internal/pipeline"
	"github.com/jonathan/job-tracker/internal/scrape"
	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/streak"
)

// PageSource returns the document for the page the overlay is attached to
type PageSource func(ctx context.Context) (*goquery.Document, error)

// Controller performs overlay actions and reports each outcome as a message
// for Reduce.
type Controller struct {
	Tracker   *streak.Tracker
	Scraper   *scrape.Scraper
	Generator *pipeline.Service
	Store     store.Store
	Page      PageSource
	PageURL   string

	// copyText writes to the system clipboard; replaced in tests
	copyText func(string) error
}

func (c *Controller) page(ctx context.Context) (*goquery.Document, error) {
	if c.Page == nil {
		return nil, errors.New("no page loaded")
	}
	return c.Page(ctx)
}

// Load reads and reconciles the counter
func (c *Controller) Load(ctx context.Context) CounterMsg {
	state, err := c.Tracker.Load(ctx)
	return CounterMsg{State: state, Err: err}
}

// Increment records one application
func (c *Controller) Increment(ctx context.Context) CounterMsg {
	state, err := c.Tracker.Increment(ctx)
	return CounterMsg{State: state, Err: err}
}

// Reset zeroes today's count
func (c *Controller) Reset(ctx context.Context) CounterMsg {
	state, err := c.Tracker.Reset(ctx)
	return CounterMsg{State: state, Err: err}
}

// Scrape extracts the posting from the current page
func (c *Controller) Scrape(ctx context.Context) ScrapeMsg {
	doc, err := c.page(ctx)
	if err != nil {
		return ScrapeMsg{Err: err}
	}
	posting, err := c.Scraper.Scrape(doc, c.PageURL)
	return ScrapeMsg{Posting: posting, Err: err}
}

// Generate runs the resume pipeline for the current page
func (c *Controller) Generate(ctx context.Context) GenerateMsg {
	doc, err := c.page(ctx)
	if err != nil {
		return GenerateMsg{Err: err}
	}
	resume, err := c.Generator.GenerateFromStore(ctx, doc, c.PageURL)
	return GenerateMsg{Resume: resume, Err: err}
}

// Save appends the current page to the saved jobs list
func (c *Controller) Save(ctx context.Context) SaveMsg {
	doc, err := c.page(ctx)
	if err != nil {
		return SaveMsg{Err: err}
	}
	job := c.Scraper.ExtractJobDetails(doc, c.PageURL)
	total, err := store.AppendSavedJob(ctx, c.Store, job)
	return SaveMsg{Job: job, Total: total, Err: err}
}

// Copy puts the generated resume body on the clipboard
func (c *Controller) Copy(s State) CopyMsg {
	if s.LastResume == nil {
		return CopyMsg{Err: errors.New("no resume generated yet")}
	}
	write := c.copyText
	if write == nil {
		write = clipboard.WriteAll
	}
	if err := write(s.LastResume.Body); err != nil {
		return CopyMsg{Err: fmt.Errorf("clipboard unavailable: %w", err)}
	}
	return CopyMsg{}
}
