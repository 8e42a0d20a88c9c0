package gemini

import (
	"context"
	"errors"
	"time"

	"github.com/mynah-ai/mynah/pkg/ai"

	"github.com/google/generative-ai-go/genai"
)

// GenerateCompletion sends a single-turn prompt to the extraction model and
// returns the generated completion as plain text.
func (c *GeminiClient) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.GenerateOptions{
		Model:       c.extractionModel,
		Temperature: 0.3,
	}
	for _, o := range opts {
		o(&options)
	}

	model := c.Client.GenerativeModel(options.Model)
	model.SetTemperature(float32(options.Temperature))
	if options.JSONResponse {
		model.ResponseMIMEType = "application/json"
	}
	if len(options.SystemPrompts) > 0 {
		parts := make([]genai.Part, 0, len(options.SystemPrompts))
		for _, sp := range options.SystemPrompts {
			parts = append(parts, genai.Text(sp))
		}
		model.SystemInstruction = &genai.Content{Parts: parts}
	}

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	duration := time.Since(start).Milliseconds()

	c.modifyMetrics(usageFromResponse(resp, duration))

	return textFromResponse(resp), nil
}

// GenerateChat sends a multi-turn chat conversation to the chat model and
// returns the assistant's reply as plain text.
//
// All messages but the last become chat history; the last message is sent as
// the new turn. Assistant turns map to the API's "model" role.
func (c *GeminiClient) GenerateChat(
	ctx context.Context,
	messages []ai.ChatMessage,
	opts ...ai.GenerateOption,
) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("no messages provided")
	}

	options := ai.GenerateOptions{
		Model:         c.chatModel,
		SystemPrompts: []string{},
		Temperature:   0.2,
	}
	for _, o := range opts {
		o(&options)
	}

	model := c.Client.GenerativeModel(options.Model)
	model.SetTemperature(float32(options.Temperature))
	if options.JSONResponse {
		model.ResponseMIMEType = "application/json"
	}
	if len(options.SystemPrompts) > 0 {
		parts := make([]genai.Part, 0, len(options.SystemPrompts))
		for _, sp := range options.SystemPrompts {
			parts = append(parts, genai.Text(sp))
		}
		model.SystemInstruction = &genai.Content{Parts: parts}
	}

	session := model.StartChat()
	history := make([]*genai.Content, 0, len(messages)-1)
	for _, m := range messages[:len(messages)-1] {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		history = append(history, &genai.Content{
			Parts: []genai.Part{genai.Text(m.Message)},
			Role:  role,
		})
	}
	session.History = history

	start := time.Now()
	resp, err := session.SendMessage(ctx, genai.Text(messages[len(messages)-1].Message))
	if err != nil {
		return "", err
	}
	duration := time.Since(start).Milliseconds()

	c.modifyMetrics(usageFromResponse(resp, duration))

	return textFromResponse(resp), nil
}
