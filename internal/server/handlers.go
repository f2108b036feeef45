package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/job-tracker/internal/fetch"
	"github.com/jonathan/job-tracker/internal/pipeline"
	"github.com/jonathan/job-tracker/internal/rendering"
	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/types"
)

// ActionSaveJob is the only message action the relay accepts
const ActionSaveJob = "saveJob"

// MessageRequest is a message relayed from a job page
type MessageRequest struct {
	Action  string          `json:"action" validate:"required,oneof=saveJob"`
	JobData *types.SavedJob `json:"jobData" validate:"required"`
}

// MessageResponse acknowledges a relayed message
type MessageResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Total   int    `json:"total,omitempty"`
}

// JobsResponse lists saved jobs
type JobsResponse struct {
	Jobs  []types.SavedJob `json:"jobs"`
	Total int              `json:"total"`
}

// APIKeyRequest sets the generation API key
type APIKeyRequest struct {
	APIKey string `json:"api_key" validate:"required"`
}

// SettingsResponse reports settings with the key masked
type SettingsResponse struct {
	APIKey    string `json:"api_key"`
	APIKeySet bool   `json:"api_key_set"`
}

// GenerateRequest names the job page to generate for. HTML takes
// precedence; URL is then only used for platform detection.
type GenerateRequest struct {
	URL  string `json:"url" validate:"omitempty,url"`
	HTML string `json:"html" validate:"required_without=URL"`
}

// GenerateErrorResponse is returned when generation fails
type GenerateErrorResponse struct {
	Error string        `json:"error"`
	Kind  pipeline.Kind `json:"kind"`
}

// Response formats for POST /generate
const (
	FormatJSON = "json"
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

// handleMessage saves a job sent from a job page
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.jsonResponse(w, HTTPStatus(err), MessageResponse{Success: false, Error: err.Error()})
		return
	}

	total, err := store.AppendSavedJob(r.Context(), s.store, *req.JobData)
	if err != nil {
		log.Printf("Error saving job (%s): %v", RequestID(r.Context()), err)
		s.jsonResponse(w, http.StatusInternalServerError, MessageResponse{Success: false, Error: err.Error()})
		return
	}

	if s.verbose {
		log.Printf("[VERBOSE] Saved job %q (%d saved)", req.JobData.Title, total)
	}
	s.jsonResponse(w, http.StatusOK, MessageResponse{Success: true, Total: total})
}

// handleListJobs returns saved jobs in insertion order
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := store.ListSavedJobs(r.Context(), s.store)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, JobsResponse{Jobs: jobs, Total: len(jobs)})
}

// handleGetCounter returns the counter after reconciling a broken streak
func (s *Server) handleGetCounter(w http.ResponseWriter, r *http.Request) {
	s.counterResponse(w, r, s.tracker.Load)
}

func (s *Server) handleIncrement(w http.ResponseWriter, r *http.Request) {
	s.counterResponse(w, r, s.tracker.Increment)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.counterResponse(w, r, s.tracker.Reset)
}

func (s *Server) counterResponse(w http.ResponseWriter, r *http.Request, op func(context.Context) (types.CounterState, error)) {
	state, err := op(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, state)
}

// handleGetSettings reports whether an API key is stored, never the key itself
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	key, err := store.GetAPIKey(r.Context(), s.store)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, SettingsResponse{APIKey: store.MaskSecret(key), APIKeySet: key != ""})
}

// handleSetAPIKey stores the generation API key
func (s *Server) handleSetAPIKey(w http.ResponseWriter, r *http.Request) {
	var req APIKeyRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), "Please enter an API key")
		return
	}

	if err := store.SetAPIKey(r.Context(), s.store, req.APIKey); err != nil {
		if errors.Is(err, store.ErrEmptyAPIKey) {
			s.errorResponse(w, http.StatusBadRequest, "Please enter an API key")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "Settings saved successfully!"})
}

// handleGenerate generates a resume for a job page. The format query
// parameter selects json (default), html or pdf output.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatHTML && format != FormatPDF {
		s.errorResponse(w, http.StatusBadRequest, (&ErrValidation{Field: "format", Message: "oneof"}).Error())
		return
	}

	doc, pageURL, ok := s.generationInput(w, r)
	if !ok {
		return
	}

	resume, err := s.generator.GenerateFromStore(r.Context(), doc, pageURL)
	if err != nil {
		s.generateError(w, r, err)
		return
	}

	switch format {
	case FormatHTML:
		page, err := rendering.DocumentHTML(resume)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(page))
	case FormatPDF:
		page, err := rendering.DocumentHTML(resume)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		pdf, err := rendering.PrintPDF(r.Context(), page, nil)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdf)
	default:
		s.jsonResponse(w, http.StatusOK, resume)
	}
}

// handleGenerateStream reports generation progress as server-sent events
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	doc, pageURL, ok := s.generationInput(w, r)
	if !ok {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx := pipeline.ContextWithProgress(r.Context(), func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("progress", event); err != nil && s.verbose {
			log.Printf("[VERBOSE] Dropped progress event: %v", err)
		}
	})

	resume, err := s.generator.GenerateFromStore(ctx, doc, pageURL)
	if err != nil {
		log.Printf("Generation failed (%s): %v", RequestID(r.Context()), err)
		sse.WriteError(pipeline.StatusMessage(err), pipeline.ErrorKind(err))
		return
	}
	sse.WriteComplete(resume)
}

// generationInput decodes a GenerateRequest and loads its page. It writes
// the error response itself and reports false on failure.
func (s *Server) generationInput(w http.ResponseWriter, r *http.Request) (*goquery.Document, string, bool) {
	if s.generator == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "resume generation is not configured")
		return nil, "", false
	}

	var req GenerateRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return nil, "", false
	}

	if req.HTML != "" {
		doc, err := fetch.DocumentFromHTML(req.HTML)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return nil, "", false
		}
		return doc, req.URL, true
	}

	doc, err := fetch.Document(r.Context(), req.URL, s.fetchOpts)
	if err != nil {
		s.generateError(w, r, err)
		return nil, "", false
	}
	return doc, req.URL, true
}

// generateError writes a classified generation failure
func (s *Server) generateError(w http.ResponseWriter, r *http.Request, err error) {
	kind := pipeline.ErrorKind(err)
	log.Printf("Generation failed (%s, %s): %v", RequestID(r.Context()), kind, err)
	s.jsonResponse(w, statusForKind(kind), GenerateErrorResponse{
		Error: pipeline.StatusMessage(err),
		Kind:  kind,
	})
}
