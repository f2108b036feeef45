// Package prompts provides a loader for externalized LLM prompt templates.
// Prompts are stored as JSON files and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// Prompt file and keys used for resume generation
const (
	ResumeFile = "resume.json"
	SystemKey  = "system"
	UserKey    = "user"
)

var (
	cache   = make(map[string]map[string]string)
	cacheMu sync.RWMutex
)

var placeholder = regexp.MustCompile(`\{\{\.([A-Za-z][A-Za-z0-9_]*)\}\}`)

// Get retrieves a prompt by filename and key.
// The filename should not include the path (e.g., "resume.json").
func Get(filename, key string) (string, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return "", err
	}

	prompt, exists := prompts[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}

	return prompt, nil
}

// Format replaces {{.Key}} placeholders with values from data in a single
// pass. Substituted values are never re-expanded, and placeholders with no
// value are left untouched.
func Format(template string, data map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholder.FindStringSubmatch(match)[1]
		if value, ok := data[key]; ok {
			return value
		}
		return match
	})
}

func loadFile(filename string) (map[string]string, error) {
	cacheMu.RLock()
	if prompts, exists := cache[filename]; exists {
		cacheMu.RUnlock()
		return prompts, nil
	}
	cacheMu.RUnlock()

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var prompts map[string]string
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	cacheMu.Lock()
	cache[filename] = prompts
	cacheMu.Unlock()

	return prompts, nil
}

// ClearCache clears the prompt cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]map[string]string)
	cacheMu.Unlock()
}
