package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-tracker/internal/llm"
	"github.com/jonathan/job-tracker/internal/profile"
	"github.com/jonathan/job-tracker/internal/scrape"
	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/types"
)

const jobPage = `<html><body>
	<h1 class="top-card-layout__title">Backend Engineer</h1>
	<div class="description__text">
		<p>We use Go and PostgreSQL.</p>
		<button>Show more</button>
	</div>
</body></html>`

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func testProfile() *types.CandidateProfile {
	return &types.CandidateProfile{Raw: json.RawMessage(`{"name":"Ada","skills":["Go"]}`), Source: "test"}
}

func fixedNow() time.Time {
	return time.Date(2024, 1, 11, 8, 0, 0, 0, time.UTC)
}

// openAIServer serves a chat completions endpoint and counts calls
type openAIServer struct {
	*httptest.Server
	calls atomic.Int32
	last  atomic.Value
}

func newOpenAIServer(t *testing.T, handler http.HandlerFunc) *openAIServer {
	t.Helper()
	s := &openAIServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.last.Store(body)
		handler(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *openAIServer) factory() ClientFactory {
	return NewClientFactory(&llm.Config{Provider: llm.ProviderOpenAI, BaseURL: s.URL, Temperature: 0.7})
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestGenerate_Success(t *testing.T) {
	server := newOpenAIServer(t, respond(http.StatusOK, `{"choices":[{"message":{"content":"<h2>Ada</h2><ul><li>Go</li></ul>"}}]}`))

	var events []ProgressEvent
	p := New(scrape.New(nil), server.factory(), WithClock(fixedNow), WithProgress(func(e ProgressEvent) {
		events = append(events, e)
	}))

	doc, err := p.Generate(context.Background(), parseDoc(t, jobPage), "https://www.linkedin.com/jobs/view/1", testProfile(), "sk-test")
	require.NoError(t, err)

	assert.Equal(t, "Backend Engineer", doc.JobTitle)
	assert.Equal(t, "<h2>Ada</h2><ul><li>Go</li></ul>", doc.Body)
	assert.Equal(t, "gpt-4o-mini", doc.Model)
	assert.Equal(t, fixedNow(), doc.GeneratedAt)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, int32(1), server.calls.Load())

	sent := server.last.Load().(map[string]any)
	messages := sent["messages"].([]any)
	require.Len(t, messages, 2)
	userPrompt := messages[1].(map[string]any)["content"].(string)
	assert.Contains(t, userPrompt, "JOB TITLE: Backend Engineer")
	assert.Contains(t, userPrompt, "We use Go and PostgreSQL.")
	assert.NotContains(t, userPrompt, "Show more")
	assert.Contains(t, userPrompt, "{\n  \"name\": \"Ada\",\n  \"skills\": [\n    \"Go\"\n  ]\n}")

	steps := make([]string, 0, len(events))
	for _, e := range events {
		steps = append(steps, e.Step)
	}
	assert.Equal(t, []string{StepScrape, StepPrompt, StepGenerate}, steps)
}

func TestGenerate_EmptyCredentialMakesNoCall(t *testing.T) {
	server := newOpenAIServer(t, respond(http.StatusOK, `{"choices":[{"message":{"content":"x"}}]}`))
	p := New(nil, server.factory())

	for _, credential := range []string{"", "   "} {
		_, err := p.Generate(context.Background(), parseDoc(t, jobPage), "", testProfile(), credential)

		var missing *MissingCredentialError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, KindMissingCredential, ErrorKind(err))
	}
	assert.Equal(t, int32(0), server.calls.Load())
}

func TestGenerate_NotFoundBeforeCredentialCheck(t *testing.T) {
	server := newOpenAIServer(t, respond(http.StatusOK, `{}`))
	p := New(nil, server.factory())

	_, err := p.Generate(context.Background(), parseDoc(t, `<p>no posting</p>`), "https://example.com", testProfile(), "")

	var notFound *scrape.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, KindNotFound, ErrorKind(err))
	assert.Equal(t, int32(0), server.calls.Load())
}

func TestGenerate_RateLimited(t *testing.T) {
	server := newOpenAIServer(t, respond(http.StatusTooManyRequests, `{"error":{"message":"rate limited"}}`))
	p := New(nil, server.factory())

	_, err := p.Generate(context.Background(), parseDoc(t, jobPage), "", testProfile(), "sk-test")

	var apiErr *llm.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "rate limited", apiErr.Message)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Equal(t, KindAPI, ErrorKind(err))
	assert.Equal(t, int32(1), server.calls.Load(), "no retry")
}

func TestGenerate_MalformedResponse(t *testing.T) {
	server := newOpenAIServer(t, respond(http.StatusOK, `{"choices":[]}`))
	p := New(nil, server.factory())

	_, err := p.Generate(context.Background(), parseDoc(t, jobPage), "", testProfile(), "sk-test")
	assert.Equal(t, KindMalformedResponse, ErrorKind(err))
}

func TestGenerate_NilProfile(t *testing.T) {
	server := newOpenAIServer(t, respond(http.StatusOK, `{}`))
	p := New(nil, server.factory())

	_, err := p.Generate(context.Background(), parseDoc(t, jobPage), "", nil, "sk-test")
	assert.Equal(t, KindResourceLoad, ErrorKind(err))
	assert.Equal(t, int32(0), server.calls.Load())
}

func TestGenerate_FactoryMissingKey(t *testing.T) {
	p := New(nil, func(ctx context.Context, apiKey string) (llm.Client, error) {
		return nil, llm.ErrMissingAPIKey
	})

	_, err := p.Generate(context.Background(), parseDoc(t, jobPage), "", testProfile(), "sk-test")
	assert.Equal(t, KindMissingCredential, ErrorKind(err))
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	posting := &types.JobPosting{Title: "Engineer {{.CandidateProfile}}", Description: "Desc"}

	first, err := BuildPrompt(posting, testProfile())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := BuildPrompt(posting, testProfile())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	assert.Equal(t, llm.RoleSystem, first.Messages[0].Role)
	assert.Contains(t, first.Messages[0].Content, "professional resume writer")
	assert.Contains(t, first.User(), "JOB TITLE: Engineer {{.CandidateProfile}}")
	assert.Contains(t, first.User(), "Do not invent or hallucinate")
	assert.Contains(t, first.User(), "without <!DOCTYPE>, <html>, <head>, or <body> tags")
}

func TestBuildPrompt_InvalidProfile(t *testing.T) {
	_, err := BuildPrompt(&types.JobPosting{Title: "x", Description: "y"}, &types.CandidateProfile{Raw: json.RawMessage(`{`)})

	var loadErr *profile.ResourceLoadError
	assert.ErrorAs(t, err, &loadErr)
}

type staticProfile struct {
	profile *types.CandidateProfile
	err     error
}

func (s staticProfile) Load(context.Context) (*types.CandidateProfile, error) {
	return s.profile, s.err
}

func TestService_GenerateFromStore(t *testing.T) {
	server := newOpenAIServer(t, respond(http.StatusOK, `{"choices":[{"message":{"content":"<p>ok</p>"}}]}`))
	kv := store.NewMemoryStore()
	ctx := context.Background()

	svc := &Service{
		Pipeline: New(nil, server.factory()),
		Store:    kv,
		Profiles: staticProfile{profile: testProfile()},
	}

	_, err := svc.GenerateFromStore(ctx, parseDoc(t, jobPage), "")
	assert.Equal(t, KindMissingCredential, ErrorKind(err))
	assert.Equal(t, int32(0), server.calls.Load())

	require.NoError(t, store.SetAPIKey(ctx, kv, "sk-live"))
	doc, err := svc.GenerateFromStore(ctx, parseDoc(t, jobPage), "")
	require.NoError(t, err)
	assert.Equal(t, "<p>ok</p>", doc.Body)
}

func TestService_ProfileError(t *testing.T) {
	kv := store.NewMemoryStore()
	svc := &Service{
		Pipeline: New(nil, nil),
		Store:    kv,
		Profiles: staticProfile{err: &profile.ResourceLoadError{Source: "resume.json", Message: "profile is empty"}},
	}

	_, err := svc.GenerateFromStore(context.Background(), parseDoc(t, jobPage), "")
	assert.Equal(t, KindResourceLoad, ErrorKind(err))
	assert.Contains(t, StatusMessage(err), "profile is empty")
}

func TestService_ContextProgress(t *testing.T) {
	server := newOpenAIServer(t, respond(http.StatusOK, `{"choices":[{"message":{"content":"<p>ok</p>"}}]}`))
	kv := store.NewMemoryStore()
	require.NoError(t, store.SetAPIKey(context.Background(), kv, "sk-live"))

	svc := &Service{
		Pipeline: New(nil, server.factory()),
		Store:    kv,
		Profiles: staticProfile{profile: testProfile()},
	}

	var steps []string
	ctx := ContextWithProgress(context.Background(), func(e ProgressEvent) {
		steps = append(steps, e.Step)
	})
	_, err := svc.GenerateFromStore(ctx, parseDoc(t, jobPage), "")
	require.NoError(t, err)
	assert.Equal(t, []string{StepScrape, StepProfile, StepPrompt, StepGenerate}, steps)
}
