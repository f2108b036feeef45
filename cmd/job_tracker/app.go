package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/fetch"
	"github.com/jonathan/job-tracker/internal/pipeline"
	"github.com/jonathan/job-tracker/internal/profile"
	"github.com/jonathan/job-tracker/internal/scrape"
	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/streak"
	"github.com/jonathan/job-tracker/internal/types"
)

// app holds the services shared by every command
type app struct {
	cfg     *config.Config
	store   store.Store
	tracker *streak.Tracker
	scraper *scrape.Scraper
}

// loadConfig merges the config file, the environment, flags and defaults,
// in increasing order of precedence except defaults which only fill gaps.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if verbose {
			log.Printf("[VERBOSE] Loaded config from: %s", configPath)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store = storeKind
	}
	if flags.Changed("store-path") {
		cfg.StorePath = storePath
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// openStore opens the configured backend and installs first-run defaults
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	var (
		s   store.Store
		err error
	)
	switch cfg.Store {
	case config.StoreMemory:
		s = store.NewMemoryStore()
	case config.StoreSQLite:
		s, err = store.NewSQLiteStore(cfg.StorePath)
	case config.StorePostgres:
		s, err = db.Connect(ctx, cfg.DatabaseURL)
	default:
		s, err = store.NewFileStore(cfg.StorePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
	}

	if err := store.InitDefaults(ctx, s); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	// An API key from the environment seeds an empty store but never
	// replaces a key saved through set-api-key.
	if cfg.APIKey != "" {
		existing, err := store.GetAPIKey(ctx, s)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to read stored API key: %w", err)
		}
		if existing == "" {
			if err := store.SetAPIKey(ctx, s, cfg.APIKey); err != nil {
				_ = s.Close()
				return nil, err
			}
			if cfg.Verbose {
				log.Printf("[VERBOSE] Stored API key from environment: %s", store.MaskSecret(cfg.APIKey))
			}
		}
	}

	if cfg.Verbose {
		log.Printf("[STORE] Using %s store", cfg.Store)
	}
	return s, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	selectors := scrape.DefaultSelectorConfig()
	if cfg.SelectorsPath != "" {
		selectors, err = scrape.LoadSelectorConfig(cfg.SelectorsPath)
		if err != nil {
			return nil, err
		}
	}

	s, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		store:   s,
		tracker: streak.NewTracker(s, streak.WithLocation(loc), streak.WithVerbose(cfg.Verbose)),
		scraper: scrape.New(selectors, scrape.WithVerbose(cfg.Verbose)),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.Printf("Error closing store: %v", err)
	}
}

func (a *app) fetchOptions() *fetch.Options {
	opts := fetch.DefaultOptions()
	opts.UseBrowser = a.cfg.UseBrowser
	opts.Verbose = a.cfg.Verbose
	return opts
}

// service builds the generation service. Progress is logged when verbose.
func (a *app) service() *pipeline.Service {
	opts := []pipeline.Option{pipeline.WithVerbose(a.cfg.Verbose)}
	if a.cfg.Verbose {
		opts = append(opts, pipeline.WithProgress(func(e pipeline.ProgressEvent) {
			log.Printf("[VERBOSE] [%s] %s", e.Step, e.Message)
		}))
	}

	return &pipeline.Service{
		Pipeline: pipeline.New(a.scraper, pipeline.NewClientFactory(a.cfg.LLMConfig()), opts...),
		Store:    a.store,
		Profiles: &profile.Loader{
			Source:     a.cfg.ProfilePath,
			SchemaPath: a.cfg.ProfileSchema,
			Verbose:    a.cfg.Verbose,
		},
	}
}

// loadPage reads a saved page or fetches pageURL. A fetched page with no
// scrapeable description is rendered again in headless Chrome, since many
// job boards build the description client-side.
func (a *app) loadPage(ctx context.Context, pageURL, htmlFile string) (*goquery.Document, error) {
	switch {
	case htmlFile != "":
		return fetch.DocumentFromFile(htmlFile)
	case pageURL == "":
		return nil, errors.New("either --url or --html-file is required")
	}

	opts := a.fetchOptions()
	doc, err := fetch.Document(ctx, pageURL, opts)
	if err != nil || opts.UseBrowser {
		return doc, err
	}

	var notFound *scrape.NotFoundError
	if _, scrapeErr := a.scraper.Scrape(doc, pageURL); !errors.As(scrapeErr, &notFound) {
		return doc, nil
	}

	if a.cfg.Verbose {
		log.Printf("[VERBOSE] No description in static HTML, retrying with headless browser")
	}
	opts.UseBrowser = true
	rendered, err := fetch.Document(ctx, pageURL, opts)
	if err != nil {
		if a.cfg.Verbose {
			log.Printf("[VERBOSE] Browser fallback failed: %v", err)
		}
		return doc, nil
	}
	return rendered, nil
}

func printCounter(w io.Writer, state types.CounterState) {
	_, _ = fmt.Fprintf(w, "Applications: %d\n", state.Count)
	_, _ = fmt.Fprintf(w, "Streak: %d %s\n", state.Streak, plural(state.Streak, "day", "days"))
	if state.LastUpdated != nil {
		_, _ = fmt.Fprintf(w, "Last updated: %s\n", state.LastUpdated.Local().Format(time.RFC1123))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
