package gemini

import (
	"context"
	"sync"

	"github.com/mynah-ai/mynah/pkg/ai"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/sync/semaphore"
	"google.golang.org/api/option"
)

// GeminiClient talks to the Google Gemini API for chat, extraction, vision
// and embedding tasks.
//
// A GeminiClient should be created using NewGeminiClient.
type GeminiClient struct {
	chatModel       string
	extractionModel string
	imageModel      string
	embeddingModel  string

	timeoutMin int

	reqLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	Client *genai.Client
}

// NewGeminiClientParams defines the configuration for creating a new
// GeminiClient.
//
// ChatModel answers user questions, ExtractionModel runs knowledge
// extraction, ImageModel handles vision requests and EmbeddingModel creates
// vectors. All models are served through the same API key.
type NewGeminiClientParams struct {
	ChatModel       string
	ExtractionModel string
	ImageModel      string
	EmbeddingModel  string

	ApiKey string

	MaxConcurrentRequests int64
	TimeoutMinutes        int
}

// NewGeminiClient creates and returns a new GeminiClient configured with the
// provided parameters.
//
// Example:
//
//	params := gemini.NewGeminiClientParams{
//		ChatModel:       "gemini-1.5-flash",
//		ExtractionModel: "gemini-1.5-flash",
//		ImageModel:      "gemini-1.5-flash",
//		EmbeddingModel:  "text-embedding-004",
//		ApiKey:          os.Getenv("GEMINI_API_KEY"),
//	}
//	client, err := gemini.NewGeminiClient(ctx, params)
func NewGeminiClient(
	ctx context.Context,
	params NewGeminiClientParams,
) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(params.ApiKey))
	if err != nil {
		return nil, err
	}

	maxReq := params.MaxConcurrentRequests
	if maxReq <= 0 {
		maxReq = 4
	}
	timeoutMin := params.TimeoutMinutes
	if timeoutMin <= 0 {
		timeoutMin = 5
	}

	return &GeminiClient{
		chatModel:       params.ChatModel,
		extractionModel: params.ExtractionModel,
		imageModel:      params.ImageModel,
		embeddingModel:  params.EmbeddingModel,

		timeoutMin: timeoutMin,

		reqLock: semaphore.NewWeighted(maxReq),

		metricsLock: sync.Mutex{},
		metrics: ai.ModelMetrics{
			InputTokens:  0,
			OutputTokens: 0,
			TotalTokens:  0,
			DurationMs:   0,
		},

		Client: client,
	}, nil
}

// Close releases the underlying API connection.
func (c *GeminiClient) Close() error {
	return c.Client.Close()
}

func textFromResponse(resp *genai.GenerateContentResponse) string {
	var out string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				out += string(txt)
			}
		}
	}
	return out
}

func usageFromResponse(resp *genai.GenerateContentResponse, durationMs int64) ai.ModelMetrics {
	metrics := ai.ModelMetrics{DurationMs: durationMs}
	if resp.UsageMetadata != nil {
		metrics.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		metrics.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		metrics.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return metrics
}
