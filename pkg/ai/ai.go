package ai

import (
	"context"
)

// ChatMessage represents a single message in a chat conversation.
// It is used when generating multi-turn chat completions.
//
// Role must be one of:
//   - "user"      → a user-provided message
//   - "assistant" → a message from the AI assistant
type ChatMessage struct {
	Message string `json:"message"`
	Role    string `json:"role"`
}

// Image is an inline image payload for vision requests.
type Image struct {
	Data     []byte
	MimeType string
}

// GenerateOptions holds configuration for AI generation requests.
type GenerateOptions struct {
	Model         string   // Model identifier to use for generation
	SystemPrompts []string // System prompts prepended to the request
	Temperature   float64  // Sampling temperature (0.0-2.0)
	JSONResponse  bool     // Ask the provider for a JSON-only response
}

// ModelMetrics contains accumulated performance metrics from AI model operations.
type ModelMetrics struct {
	InputTokens    int     `json:"input_tokens"`
	OutputTokens   int     `json:"output_tokens"`
	TotalTokens    int     `json:"total_tokens"`
	DurationMs     int64   `json:"duration_ms"`
	TokenPerSecond float32 `json:"tokens_per_second"`
}

// GenerateOption is a functional option for configuring AI generation requests.
type GenerateOption func(*GenerateOptions)

// WithModel returns a GenerateOption that sets the model to use for generation.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithSystemPrompts returns a GenerateOption that sets the system prompts
// to prepend to the generation request.
func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompts = prompts
	}
}

// WithTemperature returns a GenerateOption that sets the sampling temperature.
// Higher values (e.g., 1.0) produce more random outputs, while lower values
// (e.g., 0.2) make outputs more focused and deterministic.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// WithJSONResponse returns a GenerateOption that asks the provider to emit a
// JSON document. The provider may or may not enforce this; callers must not
// assume the returned text is valid JSON.
func WithJSONResponse() GenerateOption {
	return func(o *GenerateOptions) {
		o.JSONResponse = true
	}
}

// Client defines the interface for the generative model operations used in
// knowledge extraction and answer generation. Implementations return plain
// text; structured output is never assumed, callers parse what they need out
// of the returned string.
type Client interface {
	GenerateCompletion(
		ctx context.Context,
		prompt string,
		opts ...GenerateOption,
	) (string, error)
	GenerateChat(
		ctx context.Context,
		messages []ChatMessage,
		opts ...GenerateOption,
	) (string, error)
	GenerateVision(
		ctx context.Context,
		prompt string,
		images []Image,
		opts ...GenerateOption,
	) (string, error)
	GenerateEmbedding(ctx context.Context, input string) ([]float32, error)

	ResetMetrics()
	GetMetrics() ModelMetrics
}
