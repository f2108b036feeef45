package llm

import (
	"context"
	"fmt"
)

// Chat message roles
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a single-turn generation request
type ChatRequest struct {
	Messages []Message
}

// System returns the concatenated system messages
func (r ChatRequest) System() string {
	return r.join(RoleSystem)
}

// User returns the concatenated user messages
func (r ChatRequest) User() string {
	return r.join(RoleUser)
}

func (r ChatRequest) join(role string) string {
	var out string
	for _, m := range r.Messages {
		if m.Role != role {
			continue
		}
		if out != "" {
			out += "\n\n"
		}
		out += m.Content
	}
	return out
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete sends one request and returns the first choice's text verbatim
	Complete(ctx context.Context, req ChatRequest) (string, error)
	// Model returns the model name requests are sent to
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderOpenAI, "":
		client, err := NewOpenAIClient(config, apiKey)
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderGemini:
		client, err := NewGeminiClient(ctx, config, apiKey)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", config.Provider)
	}
}
