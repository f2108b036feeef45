package scrape

import (
	"log"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/job-tracker/internal/types"
)

// Fallbacks used by the lenient save-job extraction
const (
	FallbackTitle       = "Unknown Title"
	FallbackCompany     = "Unknown Company"
	FallbackDescription = "No Description Available"
)

// Scraper extracts job postings from parsed pages
type Scraper struct {
	config      *SelectorConfig
	boilerplate *regexp.Regexp
	now         func() time.Time
	verbose     bool
}

// Option configures a Scraper
type Option func(*Scraper)

// WithClock overrides the time source used for ScrapedAt
func WithClock(now func() time.Time) Option {
	return func(s *Scraper) { s.now = now }
}

// WithVerbose enables verbose logging
func WithVerbose(verbose bool) Option {
	return func(s *Scraper) { s.verbose = verbose }
}

// New creates a scraper. A nil config uses DefaultSelectorConfig.
func New(config *SelectorConfig, opts ...Option) *Scraper {
	if config == nil {
		config = DefaultSelectorConfig()
	}
	s := &Scraper{
		config:      config,
		boilerplate: boilerplatePattern(config.Boilerplate),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape extracts the title and description from doc. The first selector
// with a non-empty match wins per field. A missing title falls back to
// types.UnknownTitle; a missing description is a *NotFoundError.
func (s *Scraper) Scrape(doc *goquery.Document, pageURL string) (*types.JobPosting, error) {
	platform := DetectPlatform(pageURL)
	set := s.config.forPlatform(platform)
	if s.verbose {
		log.Printf("[VERBOSE] Scraping %s (platform: %s)", pageURL, platform)
	}

	description, descSelector := firstMatch(doc, set.Description, func(sel *goquery.Selection) string {
		return normalizeDescription(innerText(sel), s.boilerplate)
	})
	if description == "" {
		return nil, &NotFoundError{URL: pageURL, Field: "description", Selectors: set.Description}
	}

	title, titleSelector := firstMatch(doc, set.Title, titleText)
	if title == "" {
		title = types.UnknownTitle
	}

	if s.verbose {
		log.Printf("[VERBOSE] Title matched %q, description matched %q (%d chars)", titleSelector, descSelector, len(description))
	}

	return &types.JobPosting{
		Title:       title,
		Description: description,
		URL:         pageURL,
		ScrapedAt:   s.now().UTC(),
	}, nil
}

// ExtractJobDetails is the lenient extraction behind the save-job action.
// It never fails; absent fields get placeholder text.
func (s *Scraper) ExtractJobDetails(doc *goquery.Document, pageURL string) types.SavedJob {
	set := s.config.forPlatform(DetectPlatform(pageURL))

	title, _ := firstMatch(doc, set.Title, titleText)
	company, _ := firstMatch(doc, set.Company, titleText)
	description, _ := firstMatch(doc, set.Description, func(sel *goquery.Selection) string {
		return normalizeDescription(innerText(sel), s.boilerplate)
	})

	return types.SavedJob{
		Title:       orDefault(title, FallbackTitle),
		Company:     orDefault(company, FallbackCompany),
		Description: orDefault(description, FallbackDescription),
		URL:         pageURL,
	}
}

func titleText(sel *goquery.Selection) string {
	return CollapseWhitespace(innerText(sel))
}

// firstMatch walks selectors in priority order and returns the first
// non-empty extracted text along with the selector that produced it.
func firstMatch(doc *goquery.Document, selectors []string, extract func(*goquery.Selection) string) (string, string) {
	for _, selector := range selectors {
		var found string
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			found = extract(sel)
			return found == ""
		})
		if found != "" {
			return found, selector
		}
	}
	return "", ""
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
