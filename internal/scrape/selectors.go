package scrape

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed selectors.json
var defaultSelectorsJSON []byte

// SelectorSet lists candidate CSS selectors per field, highest priority first.
type SelectorSet struct {
	Title       []string `json:"title,omitempty"`
	Description []string `json:"description,omitempty"`
	Company     []string `json:"company,omitempty"`
}

// SelectorConfig is the data-driven scraping configuration. Platform sets
// are tried before the generic lists for pages on that platform.
type SelectorConfig struct {
	SelectorSet
	Boilerplate []string                 `json:"boilerplate,omitempty"`
	Platforms   map[Platform]SelectorSet `json:"platforms,omitempty"`
}

// DefaultSelectorConfig returns the built-in selector lists
func DefaultSelectorConfig() *SelectorConfig {
	cfg, err := ParseSelectorConfig(defaultSelectorsJSON)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded selectors.json: %v", err))
	}
	return cfg
}

// LoadSelectorConfig reads a selector configuration from a JSON file
func LoadSelectorConfig(path string) (*SelectorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read selector config %s: %w", path, err)
	}
	return ParseSelectorConfig(data)
}

// ParseSelectorConfig parses and validates a selector configuration
func ParseSelectorConfig(data []byte) (*SelectorConfig, error) {
	var cfg SelectorConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse selector config: %w", err)
	}
	if len(cfg.Description) == 0 {
		return nil, fmt.Errorf("selector config has no description selectors")
	}
	return &cfg, nil
}

// forPlatform returns the ordered selector lists to use for platform
func (c *SelectorConfig) forPlatform(platform Platform) SelectorSet {
	specific, ok := c.Platforms[platform]
	if !ok {
		return c.SelectorSet
	}
	return SelectorSet{
		Title:       concat(specific.Title, c.Title),
		Description: concat(specific.Description, c.Description),
		Company:     concat(specific.Company, c.Company),
	}
}

func concat(first, second []string) []string {
	out := make([]string, 0, len(first)+len(second))
	out = append(out, first...)
	return append(out, second...)
}
