// Package llm provides clients for the chat-completion APIs used to generate
// resumes, and the error taxonomy shared by them.
package llm

import "time"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenAI is the OpenAI chat completions API
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Defaults for the OpenAI chat completions request
const (
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultGeminiModel   = "gemini-2.5-flash"
	DefaultTemperature   = 0.7
	DefaultMaxTokens     = 2000
	DefaultTimeout       = 90 * time.Second
)

// Config holds the generation settings for a client
type Config struct {
	Provider    Provider
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	Verbose     bool
}

// DefaultConfig returns the default configuration (OpenAI)
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderOpenAI,
		Model:       DefaultOpenAIModel,
		BaseURL:     DefaultOpenAIBaseURL,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     DefaultTimeout,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       DefaultGeminiModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     DefaultTimeout,
	}
}

// WithModel returns a copy of the config using model
func (c *Config) WithModel(model string) *Config {
	clone := *c
	clone.Model = model
	return &clone
}

// withDefaults fills zero-valued fields from the provider defaults
func (c *Config) withDefaults() *Config {
	var defaults *Config
	if c.Provider == ProviderGemini {
		defaults = DefaultGeminiConfig()
	} else {
		defaults = DefaultConfig()
	}

	out := *c
	if out.Provider == "" {
		out.Provider = defaults.Provider
	}
	if out.Model == "" {
		out.Model = defaults.Model
	}
	if out.BaseURL == "" {
		out.BaseURL = defaults.BaseURL
	}
	if out.MaxTokens == 0 {
		out.MaxTokens = defaults.MaxTokens
	}
	if out.Timeout == 0 {
		out.Timeout = defaults.Timeout
	}
	return &out
}
