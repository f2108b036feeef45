// Package server provides the local HTTP API that backs the job page
// integrations: saving jobs, the application counter, settings and resume
// generation.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-tracker/internal/fetch"
	"github.com/jonathan/job-tracker/internal/pipeline"
	"github.com/jonathan/job-tracker/internal/scrape"
	"github.com/jonathan/job-tracker/internal/server/ratelimit"
	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/streak"
)

// DefaultPort is the port the API listens on when none is configured
const DefaultPort = 8765

const (
	shutdownTimeout = 30 * time.Second
	maxBodyBytes    = 5 << 20 // saved pages can be large
)

// RequestIDHeader carries the per-request ID in both directions
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       store.Store
	tracker     *streak.Tracker
	scraper     *scrape.Scraper
	generator   *pipeline.Service
	fetchOpts   *fetch.Options
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
	verbose     bool
}

// Config holds server configuration
type Config struct {
	Port         int
	Verbose      bool
	RateLimit    *ratelimit.Config // nil loads JOB_TRACKER_RATE_LIMIT_* from the environment
	FetchOptions *fetch.Options
}

// Deps are the services the handlers call into
type Deps struct {
	Store     store.Store
	Tracker   *streak.Tracker
	Scraper   *scrape.Scraper
	Generator *pipeline.Service
}

// New creates a new server instance
func New(cfg Config, deps Deps) *Server {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	rateConfig := cfg.RateLimit
	if rateConfig == nil {
		rateConfig = ratelimit.LoadConfig()
	}
	scraper := deps.Scraper
	if scraper == nil {
		scraper = scrape.New(nil)
	}

	s := &Server{
		store:       deps.Store,
		tracker:     deps.Tracker,
		scraper:     scraper,
		generator:   deps.Generator,
		fetchOpts:   cfg.FetchOptions,
		rateLimiter: ratelimit.NewLimiter(rateConfig),
		validate:    newValidator(),
		verbose:     cfg.Verbose,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Job page relay
	mux.HandleFunc("POST /messages", s.handleMessage)
	mux.HandleFunc("GET /jobs", s.handleListJobs)

	// Application counter
	mux.HandleFunc("GET /counter", s.handleGetCounter)
	mux.HandleFunc("POST /counter/increment", s.handleIncrement)
	mux.HandleFunc("POST /counter/reset", s.handleReset)

	// Settings
	mux.HandleFunc("GET /settings", s.handleGetSettings)
	mux.HandleFunc("PUT /settings/api-key", s.handleSetAPIKey)

	// Resume generation
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("POST /generate/stream", s.handleGenerateStream)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRequestID(s.withLogging(s.withCORS(s.withRateLimit(mux)))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // generation calls can take a while
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	log.Println("Server stopped")
	return err
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
		w.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRequestID tags every request with an ID, reusing one sent by the caller
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestID returns the request ID stored in ctx, or ""
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := RequestID(r.Context())
		log.Printf("[%s] %s %s (%s)", r.Method, r.URL.Path, r.RemoteAddr, id)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v (%s)", r.Method, r.URL.Path, time.Since(start), id)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// decodeAndValidate reads a JSON body into v and validates its struct tags
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := s.validate.Struct(v); err != nil {
		return extractValidationError(err)
	}
	return nil
}

// extractValidationError reports the first failed field
func extractValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		e := validationErrors[0]
		return &ErrValidation{Field: e.Field(), Message: e.Tag()}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// extractClientID uses the remote IP. Forwarded headers are ignored since
// the API is meant to be reached directly.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
