package ollama

import (
	"context"
	"encoding/json"

	"github.com/mynah-ai/mynah/pkg/ai"

	"github.com/ollama/ollama/api"
)

// GenerateVision sends a vision chat request with inline images and returns
// the model's textual response. The mime type of each image is ignored, the
// ollama API takes raw bytes.
func (c *OllamaClient) GenerateVision(
	ctx context.Context,
	prompt string,
	images []ai.Image,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.GenerateOptions{
		Model: c.imageModel,
	}
	for _, o := range opts {
		o(&options)
	}

	data := make([]api.ImageData, 0, len(images))
	for _, img := range images {
		data = append(data, api.ImageData(img.Data))
	}

	stream := false

	req := &api.ChatRequest{
		Model: options.Model,
		Messages: []api.Message{
			{Role: "system", Content: prompt},
			{
				Role:    "user",
				Content: "",
				Images:  data,
			},
		},
		Stream: &stream,
	}

	if options.JSONResponse {
		req.Format = json.RawMessage(`"json"`)
	}

	var final api.ChatResponse
	if err := c.Client.Chat(ctx, req, func(cr api.ChatResponse) error {
		final = cr
		return nil
	}); err != nil {
		return "", err
	}

	durationMs := final.TotalDuration.Milliseconds()

	metrics := ai.ModelMetrics{
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   durationMs,
	}
	c.modifyMetrics(metrics)

	return final.Message.Content, nil
}
