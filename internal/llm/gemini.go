package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config == nil {
		config = DefaultGeminiConfig()
	}
	config = config.withDefaults()

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Complete sends the system messages as the system instruction and the user
// messages as the prompt.
func (c *GeminiClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	model := c.client.GenerativeModel(c.config.Model)
	model.SetTemperature(float32(c.config.Temperature))
	model.SetMaxOutputTokens(int32(c.config.MaxTokens))
	if system := req.System(); system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User()))
	if err != nil {
		return "", classifyGeminiError(err)
	}

	return extractTextFromResponse(resp)
}

// Model returns the configured model name
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &MalformedResponseError{Provider: ProviderGemini, Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &MalformedResponseError{Provider: ProviderGemini, Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", &MalformedResponseError{Provider: ProviderGemini, Message: "no text parts in response"}
	}

	return strings.Join(parts, ""), nil
}

// classifyGeminiError maps SDK errors onto the shared error taxonomy
func classifyGeminiError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		message := gerr.Message
		if message == "" {
			message = fmt.Sprintf("HTTP error %d", gerr.Code)
		}
		return &APIError{Provider: ProviderGemini, Status: gerr.Code, Message: message}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &NetworkError{Provider: ProviderGemini, Cause: err}
	}

	var grpcErr interface{ GRPCStatus() *status.Status }
	if errors.As(err, &grpcErr) && grpcErr.GRPCStatus().Code() != codes.Unknown {
		st := grpcErr.GRPCStatus()
		switch st.Code() {
		case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
			return &NetworkError{Provider: ProviderGemini, Cause: err}
		}
		return &APIError{Provider: ProviderGemini, Status: httpStatusFromCode(st.Code()), Message: st.Message()}
	}

	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &MalformedResponseError{Provider: ProviderGemini, Message: "response blocked", Cause: err}
	}

	return &NetworkError{Provider: ProviderGemini, Cause: err}
}

func httpStatusFromCode(code codes.Code) int {
	switch code {
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
