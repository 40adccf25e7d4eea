// Package genai wraps the OpenAI chat completion API for question generation.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Default model configuration.
const (
	DefaultModel         = openai.ChatModelGPT4o
	DefaultFallbackModel = openai.ChatModelGPT4oMini
	DefaultTemperature   = 0.7
)

// ClientInterface defines the GenAI operations consumed by the question
// engine, allowing tests to substitute a mock client.
type ClientInterface interface {
	GenerateWithMessages(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error)
}

// chatService is the minimal chat completion surface used by Client.
type chatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// openaiChatService adapts the OpenAI SDK client to chatService.
type openaiChatService struct {
	client openai.Client
}

func (s openaiChatService) New(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return s.client.Chat.Completions.New(ctx, params)
}

// Opts holds configuration options for the GenAI client.
type Opts struct {
	APIKey        string
	BaseURL       string
	Model         string
	FallbackModel string
	Temperature   float64
	MaxTokens     int64
}

// Option configures the GenAI client.
type Option func(*Opts)

// WithAPIKey sets the API key for the client.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithBaseURL sets a custom API base URL (e.g. an OpenAI-compatible gateway).
func WithBaseURL(url string) Option {
	return func(o *Opts) { o.BaseURL = url }
}

// WithModel sets the primary chat model.
func WithModel(model string) Option {
	return func(o *Opts) { o.Model = model }
}

// WithFallbackModel sets the alternate model tried once when the primary fails.
func WithFallbackModel(model string) Option {
	return func(o *Opts) { o.FallbackModel = model }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(o *Opts) { o.Temperature = temperature }
}

// WithMaxTokens caps the completion token count.
func WithMaxTokens(maxTokens int64) Option {
	return func(o *Opts) { o.MaxTokens = maxTokens }
}

// Client wraps the OpenAI chat completion service with a primary model and a
// bounded fallback hop to an alternate model.
type Client struct {
	chat          chatService
	model         string
	fallbackModel string
	temperature   float64
	maxTokens     int64
}

// NewClient creates a GenAI client. The API key falls back to the
// OPENAI_API_KEY environment variable when not supplied via options.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not set")
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	fallbackModel := cfg.FallbackModel
	if fallbackModel == "" {
		fallbackModel = DefaultFallbackModel
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	slog.Debug("genai.NewClient: client configured", "model", model, "fallbackModel", fallbackModel, "baseURL_set", cfg.BaseURL != "")
	return &Client{
		chat:          openaiChatService{client: openai.NewClient(reqOpts...)},
		model:         model,
		fallbackModel: fallbackModel,
		temperature:   temperature,
		maxTokens:     cfg.MaxTokens,
	}, nil
}

// GenerateWithMessages generates a completion for the given messages. The
// primary model is tried first; on failure the fallback model is tried
// exactly once before the error is returned. The fallback is an iterative
// hop, never a retry loop.
func (c *Client) GenerateWithMessages(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	candidates := []string{c.model}
	if c.fallbackModel != "" && c.fallbackModel != c.model {
		candidates = append(candidates, c.fallbackModel)
	}

	var lastErr error
	for _, model := range candidates {
		content, err := c.generate(ctx, model, messages)
		if err == nil {
			return content, nil
		}
		slog.Warn("genai.GenerateWithMessages: model failed", "model", model, "error", err)
		lastErr = err
	}
	return "", fmt.Errorf("all models failed: %w", lastErr)
}

func (c *Client) generate(ctx context.Context, model string, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    messages,
		Temperature: openai.Float(c.temperature),
	}
	if c.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(c.maxTokens)
	}

	resp, err := c.chat.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
