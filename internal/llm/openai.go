package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

// OpenAIClient implements Client for the OpenAI chat completions API
type OpenAIClient struct {
	httpClient *http.Client
	config     *Config
	apiKey     string
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message *struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorPayload struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config == nil {
		config = DefaultConfig()
	}
	config = config.withDefaults()

	return &OpenAIClient{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
		apiKey:     apiKey,
	}, nil
}

// WithHTTPClient replaces the underlying HTTP client
func (c *OpenAIClient) WithHTTPClient(client *http.Client) *OpenAIClient {
	c.httpClient = client
	return c
}

// Complete posts the messages to {base_url}/chat/completions
func (c *OpenAIClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:       c.config.Model,
		Messages:    req.Messages,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	if c.config.Verbose {
		log.Printf("[VERBOSE] Sending prompt to %s (model %s)", endpoint, c.config.Model)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &NetworkError{Provider: ProviderOpenAI, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{Provider: ProviderOpenAI, Cause: fmt.Errorf("failed to read response body: %w", err)}
	}

	if c.config.Verbose {
		log.Printf("[VERBOSE] Generation API response status: %d", resp.StatusCode)
	}

	if c.config.Verbose && !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		log.Printf("[VERBOSE] Generation API replied with Content-Type %q", resp.Header.Get("Content-Type"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := fmt.Sprintf("HTTP error %d", resp.StatusCode)
		var payload errorPayload
		if err := json.Unmarshal(respBody, &payload); err == nil && payload.Error != nil && payload.Error.Message != "" {
			message = payload.Error.Message
		}
		return "", &APIError{Provider: ProviderOpenAI, Status: resp.StatusCode, Message: message}
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return "", &MalformedResponseError{Provider: ProviderOpenAI, Message: "empty response body"}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &MalformedResponseError{Provider: ProviderOpenAI, Message: "invalid JSON response", Cause: err}
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message == nil || parsed.Choices[0].Message.Content == "" {
		return "", &MalformedResponseError{Provider: ProviderOpenAI, Message: "unexpected response format"}
	}

	return parsed.Choices[0].Message.Content, nil
}

// Model returns the configured model name
func (c *OpenAIClient) Model() string {
	return c.config.Model
}

// Close is a no-op for the HTTP client
func (c *OpenAIClient) Close() error {
	return nil
}
