// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // timezone names must resolve on hosts without zoneinfo

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-tracker/internal/llm"
	"github.com/jonathan/job-tracker/internal/schemas"
)

// Store backends
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Environment variables read by ApplyEnv
const (
	EnvStore         = "JOB_TRACKER_STORE"
	EnvStorePath     = "JOB_TRACKER_STORE_PATH"
	EnvProfile       = "JOB_TRACKER_PROFILE"
	EnvProfileSchema = "JOB_TRACKER_PROFILE_SCHEMA"
	EnvSelectors     = "JOB_TRACKER_SELECTORS"
	EnvProvider      = "JOB_TRACKER_PROVIDER"
	EnvModel         = "JOB_TRACKER_MODEL"
	EnvBaseURL       = "JOB_TRACKER_BASE_URL"
	EnvTimezone      = "JOB_TRACKER_TIMEZONE"
	EnvPort          = "JOB_TRACKER_PORT"
	EnvUseBrowser    = "JOB_TRACKER_USE_BROWSER"
	EnvVerbose       = "JOB_TRACKER_VERBOSE"
	EnvDatabaseURL   = "DATABASE_URL"
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvGeminiKey     = "GEMINI_API_KEY"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or come from flags.
type Config struct {
	// Storage
	Store       string `json:"store,omitempty" validate:"omitempty,oneof=memory file sqlite postgres"`
	StorePath   string `json:"store_path,omitempty"` // file or sqlite path
	DatabaseURL string `json:"database_url,omitempty" validate:"required_if=Store postgres"`

	// Candidate profile, a file path or an http(s) URL
	ProfilePath   string `json:"profile_path,omitempty"`
	ProfileSchema string `json:"profile_schema,omitempty"`

	// Scraping
	SelectorsPath string `json:"selectors_path,omitempty"`
	UseBrowser    bool   `json:"use_browser,omitempty"` // Use headless browser for SPA sites

	// Generation
	Provider    string  `json:"provider,omitempty" validate:"omitempty,oneof=openai gemini"`
	Model       string  `json:"model,omitempty"`
	BaseURL     string  `json:"base_url,omitempty" validate:"omitempty,url"`
	Temperature float64 `json:"temperature,omitempty" validate:"gte=0,lte=2"`
	MaxTokens   int     `json:"max_tokens,omitempty" validate:"gte=0"`

	// APIKey is only ever taken from the environment. It seeds the store
	// when the store has no key yet.
	APIKey string `json:"-"`

	// Behavior
	Timezone string `json:"timezone,omitempty"` // IANA name; empty means the local zone
	Port     int    `json:"port,omitempty" validate:"gte=0,lte=65535"`
	Verbose  bool   `json:"verbose,omitempty"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Store:       StoreFile,
		StorePath:   DefaultStorePath(),
		ProfilePath: "resume.json",
		Provider:    string(llm.ProviderOpenAI),
		Temperature: llm.DefaultTemperature,
		MaxTokens:   llm.DefaultMaxTokens,
		Port:        8765,
	}
}

// DefaultStorePath is the file store location under the user config dir
func DefaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".job-tracker.json"
	}
	return filepath.Join(dir, "job-tracker", "store.json")
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides fields with any JOB_TRACKER_*, DATABASE_URL or
// provider API key variables that are set.
func (c *Config) ApplyEnv() error {
	setString(&c.Store, EnvStore)
	setString(&c.StorePath, EnvStorePath)
	setString(&c.ProfilePath, EnvProfile)
	setString(&c.ProfileSchema, EnvProfileSchema)
	setString(&c.SelectorsPath, EnvSelectors)
	setString(&c.Provider, EnvProvider)
	setString(&c.Model, EnvModel)
	setString(&c.BaseURL, EnvBaseURL)
	setString(&c.Timezone, EnvTimezone)
	setString(&c.DatabaseURL, EnvDatabaseURL)

	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: invalid %s: %w", EnvPort, err)
		}
		c.Port = port
	}
	for name, field := range map[string]*bool{EnvUseBrowser: &c.UseBrowser, EnvVerbose: &c.Verbose} {
		if v := os.Getenv(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("config error: invalid %s: %w", name, err)
			}
			*field = b
		}
	}

	keyVar := EnvOpenAIKey
	if c.Provider == string(llm.ProviderGemini) {
		keyVar = EnvGeminiKey
	}
	setString(&c.APIKey, keyVar)
	return nil
}

func setString(field *string, name string) {
	if v := os.Getenv(name); v != "" {
		*field = v
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			e := validationErrors[0]
			return fmt.Errorf("config error: invalid '%s' (%s)", e.Field(), e.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if c.ProfileSchema != "" && schemas.ResolveSchemaPath(c.ProfileSchema) == "" {
		return fmt.Errorf("config error: profile_schema file not found: %s", c.ProfileSchema)
	}
	if c.SelectorsPath != "" {
		if _, err := os.Stat(c.SelectorsPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: selectors_path file not found: %s", c.SelectorsPath)
		}
	}

	return nil
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

// Location resolves Timezone. An empty Timezone is the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config error: unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LLMConfig returns the generation client settings
func (c *Config) LLMConfig() *llm.Config {
	return &llm.Config{
		Provider:    llm.Provider(c.Provider),
		Model:       c.Model,
		BaseURL:     c.BaseURL,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		Verbose:     c.Verbose,
	}
}

type stringDefault struct {
	dst *string
	def string
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	for _, f := range []stringDefault{
		{&result.Store, defaults.Store},
		{&result.StorePath, defaults.StorePath},
		{&result.DatabaseURL, defaults.DatabaseURL},
		{&result.ProfilePath, defaults.ProfilePath},
		{&result.ProfileSchema, defaults.ProfileSchema},
		{&result.SelectorsPath, defaults.SelectorsPath},
		{&result.Provider, defaults.Provider},
		{&result.Model, defaults.Model},
		{&result.BaseURL, defaults.BaseURL},
		{&result.APIKey, defaults.APIKey},
		{&result.Timezone, defaults.Timezone},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}

	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}
	if result.MaxTokens == 0 {
		result.MaxTokens = defaults.MaxTokens
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
