package scrape

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func fixedClock() time.Time {
	return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
}

func TestScrape_SecondDescriptionSelector(t *testing.T) {
	doc := parse(t, `
	<html><body>
		<h2 class="top-card-layout__title">  Senior   Go Engineer </h2>
		<div class="description__text">
			<p>Build   distributed
			systems.</p>
			<ul><li>Go</li><li>Kubernetes</li></ul>
			<button>Show more</button>
		</div>
	</body></html>`)

	posting, err := New(nil, WithClock(fixedClock)).Scrape(doc, "https://www.linkedin.com/jobs/view/1")
	require.NoError(t, err)

	assert.Equal(t, "Senior Go Engineer", posting.Title)
	assert.Equal(t, "Build distributed systems. Go Kubernetes", posting.Description)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/1", posting.URL)
	assert.Equal(t, fixedClock(), posting.ScrapedAt)
}

func TestScrape_NoDescription(t *testing.T) {
	doc := parse(t, `<html><body><h1 class="jobTitle">Engineer</h1><div class="other">text</div></body></html>`)

	_, err := New(nil).Scrape(doc, "https://example.com/job")
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "description", notFound.Field)
	assert.Contains(t, notFound.Selectors, ".description__text")
	assert.Contains(t, err.Error(), "could not find job description")
}

func TestScrape_MissingTitleDefaultsToUnknown(t *testing.T) {
	doc := parse(t, `<div class="jobDescriptionText">We need help.</div>`)

	posting, err := New(nil).Scrape(doc, "https://www.indeed.com/viewjob?jk=1")
	require.NoError(t, err)
	assert.Equal(t, types.UnknownTitle, posting.Title)
	assert.Equal(t, "We need help.", posting.Description)
}

func TestScrape_SiteHeadingIsNotTitle(t *testing.T) {
	doc := parse(t, `<html><body>
		<header><h1>Acme Careers</h1></header>
		<div class="job-description">Ship Go services.</div>
	</body></html>`)

	posting, err := New(nil).Scrape(doc, "https://careers.example.com/jobs/7")
	require.NoError(t, err)
	assert.Equal(t, types.UnknownTitle, posting.Title)

	job := New(nil).ExtractJobDetails(doc, "https://careers.example.com/jobs/7")
	assert.Equal(t, FallbackTitle, job.Title)
}

func TestScrape_PriorityOrder(t *testing.T) {
	doc := parse(t, `
		<div class="job-description">generic text</div>
		<div class="job-details-about-the-job-module__description">preferred text</div>`)

	posting, err := New(nil).Scrape(doc, "")
	require.NoError(t, err)
	assert.Equal(t, "preferred text", posting.Description)
}

func TestScrape_EmptyMatchFallsThrough(t *testing.T) {
	doc := parse(t, `
		<div class="job-details-about-the-job-module__description">   show less </div>
		<div class="jobDescriptionText">Real description</div>`)

	posting, err := New(nil).Scrape(doc, "")
	require.NoError(t, err)
	assert.Equal(t, "Real description", posting.Description)
}

func TestScrape_PlatformSelectorsFirst(t *testing.T) {
	doc := parse(t, `
		<h1 class="app-title">Platform Engineer</h1>
		<div class="job__description body">Greenhouse body</div>
		<div class="job-description">generic body</div>`)

	posting, err := New(nil).Scrape(doc, "https://boards.greenhouse.io/acme/jobs/1")
	require.NoError(t, err)
	assert.Equal(t, "Platform Engineer", posting.Title)
	assert.Equal(t, "Greenhouse body", posting.Description)

	// Same page on an unknown host uses the generic list
	posting, err = New(nil).Scrape(doc, "https://example.com/jobs/1")
	require.NoError(t, err)
	assert.Equal(t, "generic body", posting.Description)
}

func TestScrape_CustomConfig(t *testing.T) {
	cfg, err := ParseSelectorConfig([]byte(`{
		"title": ["#t"],
		"description": ["#first", "#second"],
		"boilerplate": ["Apply now"]
	}`))
	require.NoError(t, err)

	doc := parse(t, `<span id="t">Title</span><section id="second">Do things. APPLY NOW</section>`)
	posting, err := New(cfg).Scrape(doc, "")
	require.NoError(t, err)
	assert.Equal(t, "Title", posting.Title)
	assert.Equal(t, "Do things.", posting.Description)
}

func TestParseSelectorConfig_Invalid(t *testing.T) {
	_, err := ParseSelectorConfig([]byte(`{"title": ["h1"]}`))
	assert.ErrorContains(t, err, "no description selectors")

	_, err = ParseSelectorConfig([]byte(`not json`))
	assert.ErrorContains(t, err, "failed to parse selector config")
}

func TestDefaultSelectorConfig(t *testing.T) {
	cfg := DefaultSelectorConfig()
	assert.Equal(t, ".job-details-about-the-job-module__description", cfg.Description[0])
	assert.Equal(t, ".description__text", cfg.Description[1])
	assert.Contains(t, cfg.Boilerplate, "show more")
	assert.Contains(t, cfg.Platforms, PlatformGreenhouse)
}

func TestExtractJobDetails(t *testing.T) {
	doc := parse(t, `
		<h1 class="top-card-layout__title">Data Engineer</h1>
		<div class="top-card-layout__second-subline"><span>Acme Corp</span></div>
		<div class="description__text">Pipelines and more</div>`)

	job := New(nil).ExtractJobDetails(doc, "https://www.linkedin.com/jobs/view/2")
	assert.Equal(t, types.SavedJob{
		Title:       "Data Engineer",
		Company:     "Acme Corp",
		Description: "Pipelines and more",
		URL:         "https://www.linkedin.com/jobs/view/2",
	}, job)
}

func TestExtractJobDetails_Fallbacks(t *testing.T) {
	job := New(nil).ExtractJobDetails(parse(t, `<p>nothing here</p>`), "https://example.com")
	assert.Equal(t, FallbackTitle, job.Title)
	assert.Equal(t, FallbackCompany, job.Company)
	assert.Equal(t, FallbackDescription, job.Description)
}

func TestNormalizeDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses whitespace", "a \n\t b", "a b"},
		{"strips boilerplate", "Great role show more", "Great role"},
		{"strips mid-text", "Part one show less part two", "Part one part two"},
		{"case insensitive", "Role SHOW MORE", "Role"},
		{"only boilerplate", " show more ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDescription(tt.input, []string{"show more", "show less"}))
		})
	}
}

func TestBoilerplatePattern(t *testing.T) {
	assert.Nil(t, boilerplatePattern(nil))
	assert.Nil(t, boilerplatePattern([]string{""}))

	re := boilerplatePattern([]string{"show more", "a+b (c)"})
	require.NotNil(t, re)
	assert.Equal(t, "x y", normalizeDescription("x Show More y A+B (c)", re))
}

func TestNew_CompilesBoilerplateOnce(t *testing.T) {
	s := New(&SelectorConfig{
		SelectorSet: SelectorSet{Description: []string{".d"}},
		Boilerplate: []string{"apply now"},
	})
	require.NotNil(t, s.boilerplate)

	posting, err := s.Scrape(parse(t, `<div class="d">Great team. APPLY NOW</div>`), "")
	require.NoError(t, err)
	assert.Equal(t, "Great team.", posting.Description)
}

func TestInnerText_SkipsScripts(t *testing.T) {
	doc := parse(t, `<div id="d">Visible<script>var x = 1;</script><p>Para</p></div>`)
	assert.Equal(t, "Visible Para", CollapseWhitespace(innerText(doc.Find("#d"))))
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://www.linkedin.com/jobs/view/123", PlatformLinkedIn},
		{"https://www.indeed.com/viewjob?jk=abc", PlatformIndeed},
		{"https://boards.greenhouse.io/acme/jobs/1", PlatformGreenhouse},
		{"https://jobs.lever.co/acme/1", PlatformLever},
		{"https://acme.wd5.myworkdayjobs.com/en-US/jobs", PlatformWorkday},
		{"https://example.com/careers", PlatformUnknown},
		{"://bad", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.url))
		})
	}
}
