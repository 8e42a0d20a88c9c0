package openai

import (
	"sync"

	"github.com/mynah-ai/mynah/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

// OpenAIClient talks to OpenAI-compatible endpoints for chat, extraction,
// vision and embedding tasks. Each concern can point at a different endpoint
// so that models from different vendors can be mixed behind one client.
//
// An OpenAIClient should be created using NewOpenAIClient.
type OpenAIClient struct {
	chatModel       string
	extractionModel string
	imageModel      string
	embeddingModel  string

	chatURL      string
	chatKey      string
	imageURL     string
	imageKey     string
	embeddingURL string
	embeddingKey string

	timeoutMin int

	imageLock     *semaphore.Weighted
	embeddingLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient      *openai.Client
	ImageClient     *openai.Client
	EmbeddingClient *openai.Client
}

// NewOpenAIClientParams defines the configuration for creating a new
// OpenAIClient.
//
// ChatModel answers user questions, ExtractionModel runs knowledge
// extraction, ImageModel handles vision requests and EmbeddingModel creates
// vectors. Each URL/Key pair configures the endpoint for its concern; an
// empty key disables that concern's client.
type NewOpenAIClientParams struct {
	ChatModel       string
	ExtractionModel string
	ImageModel      string
	EmbeddingModel  string

	ChatURL      string
	ChatKey      string
	ImageURL     string
	ImageKey     string
	EmbeddingURL string
	EmbeddingKey string

	MaxConcurrentRequests int64
	TimeoutMinutes        int
}

// NewOpenAIClient creates and returns a new OpenAIClient configured with the
// provided parameters. It initializes separate API clients for chat, vision
// and embedding tasks.
//
// Example:
//
//	params := openai.NewOpenAIClientParams{
//		ChatModel:       "gpt-4o-mini",
//		ExtractionModel: "gpt-4o-mini",
//		EmbeddingModel:  "text-embedding-3-small",
//		ChatURL:         "https://api.openai.com/v1",
//		ChatKey:         os.Getenv("OPENAI_API_KEY"),
//		EmbeddingURL:    "https://api.openai.com/v1",
//		EmbeddingKey:    os.Getenv("OPENAI_API_KEY"),
//	}
//	client := openai.NewOpenAIClient(params)
func NewOpenAIClient(
	params NewOpenAIClientParams,
) *OpenAIClient {
	chatClient := newOpenaiClient(params.ChatURL, params.ChatKey)
	imageClient := newOpenaiClient(params.ImageURL, params.ImageKey)
	embedClient := newOpenaiClient(params.EmbeddingURL, params.EmbeddingKey)

	maxReq := params.MaxConcurrentRequests
	if maxReq <= 0 {
		maxReq = 4
	}
	timeoutMin := params.TimeoutMinutes
	if timeoutMin <= 0 {
		timeoutMin = 5
	}

	return &OpenAIClient{
		chatModel:       params.ChatModel,
		extractionModel: params.ExtractionModel,
		imageModel:      params.ImageModel,
		embeddingModel:  params.EmbeddingModel,

		chatURL:      params.ChatURL,
		chatKey:      params.ChatKey,
		imageURL:     params.ImageURL,
		imageKey:     params.ImageKey,
		embeddingURL: params.EmbeddingURL,
		embeddingKey: params.EmbeddingKey,

		timeoutMin: timeoutMin,

		imageLock:     semaphore.NewWeighted(maxReq),
		embeddingLock: semaphore.NewWeighted(maxReq),

		metricsLock: sync.Mutex{},
		metrics: ai.ModelMetrics{
			InputTokens:  0,
			OutputTokens: 0,
			TotalTokens:  0,
			DurationMs:   0,
		},

		ChatClient:      chatClient,
		ImageClient:     imageClient,
		EmbeddingClient: embedClient,
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}
