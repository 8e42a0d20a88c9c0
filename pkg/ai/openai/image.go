package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/mynah-ai/mynah/pkg/ai"

	"github.com/openai/openai-go/v3"
)

// GenerateVision sends a vision request with inline images and returns the
// model's textual response based on the provided prompt. Images are passed
// as base64 data URLs.
func (c *OpenAIClient) GenerateVision(
	ctx context.Context,
	prompt string,
	images []ai.Image,
	opts ...ai.GenerateOption,
) (string, error) {
	client := c.ImageClient

	options := ai.GenerateOptions{
		Model: c.imageModel,
	}
	for _, o := range opts {
		o(&options)
	}

	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(images))
	for _, img := range images {
		url := fmt.Sprintf(
			"data:%s;base64,%s",
			img.MimeType,
			base64.StdEncoding.EncodeToString(img.Data),
		)
		parts = append(parts, openai.ImageContentPart(
			openai.ChatCompletionContentPartImageImageURLParam{
				URL: url,
			},
		))
	}

	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(options.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt),
			openai.UserMessage(parts),
		},
	}

	if options.JSONResponse {
		body.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	err := c.imageLock.Acquire(ctx, 1)
	if err != nil {
		return "", err
	}
	defer c.imageLock.Release(1)

	start := time.Now()
	response, err := client.Chat.Completions.New(ctx, body)
	if err != nil {
		return "", err
	}
	duration := time.Since(start).Milliseconds()

	metrics := ai.ModelMetrics{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		TotalTokens:  int(response.Usage.TotalTokens),
		DurationMs:   duration,
	}
	c.modifyMetrics(metrics)

	return response.Choices[0].Message.Content, nil
}
