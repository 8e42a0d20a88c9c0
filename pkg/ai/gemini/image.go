package gemini

import (
	"context"
	"strings"
	"time"

	"github.com/mynah-ai/mynah/pkg/ai"

	"github.com/google/generative-ai-go/genai"
)

// GenerateVision sends a vision request with inline images and returns the
// model's textual response. The API expects bare image formats ("png",
// "jpeg"), so the "image/" prefix is stripped from mime types.
func (c *GeminiClient) GenerateVision(
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

	model := c.Client.GenerativeModel(options.Model)
	if options.JSONResponse {
		model.ResponseMIMEType = "application/json"
	}

	parts := make([]genai.Part, 0, len(images)+1)
	parts = append(parts, genai.Text(prompt))
	for _, img := range images {
		format := strings.TrimPrefix(img.MimeType, "image/")
		parts = append(parts, genai.ImageData(format, img.Data))
	}

	start := time.Now()
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}
	duration := time.Since(start).Milliseconds()

	c.modifyMetrics(usageFromResponse(resp, duration))

	return textFromResponse(resp), nil
}
