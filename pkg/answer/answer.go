package answer

import (
	"context"
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/mynah-ai/mynah/pkg/ai"
	"github.com/mynah-ai/mynah/pkg/common"
	"github.com/mynah-ai/mynah/pkg/logger"
	"github.com/mynah-ai/mynah/pkg/rag"
)

const (
	defaultMaxContextTokens = 4096
	defaultEncoding         = "o200k_base"
)

// Generator turns a question plus retrieved context into a grounded,
// HTML-formatted answer.
type Generator struct {
	ai               ai.Client
	maxContextTokens int
	encoding         string
	countTokens      func(text string) int
}

type NewGeneratorParams struct {
	// AI is the model client used to generate answers.
	AI ai.Client
	// MaxContextTokens caps the token size of the formatted context block.
	// Defaults to 4096.
	MaxContextTokens int
	// Encoding is the tiktoken encoding used to measure the context block.
	// Defaults to o200k_base.
	Encoding string
}

func NewGenerator(params NewGeneratorParams) (*Generator, error) {
	if params.AI == nil {
		return nil, fmt.Errorf("missing AI client")
	}

	maxContextTokens := defaultMaxContextTokens
	if params.MaxContextTokens > 0 {
		maxContextTokens = params.MaxContextTokens
	}

	encoding := defaultEncoding
	if params.Encoding != "" {
		encoding = params.Encoding
	}

	generator := &Generator{
		ai:               params.AI,
		maxContextTokens: maxContextTokens,
		encoding:         encoding,
	}
	generator.countTokens = generator.tiktokenCount

	return generator, nil
}

// Answer generates a response to question grounded in the retrieved context
// items. Past exchanges are replayed as chat messages; when images are given
// the request goes through the vision path with the history folded into the
// user prompt. Model errors propagate to the caller.
func (g *Generator) Answer(ctx context.Context, question string, items []rag.ContextItem, history []common.Exchange, images []ai.Image) (string, error) {
	system := fmt.Sprintf(ai.AnswerPrompt, g.contextWithinBudget(items))

	var response string
	var err error
	if len(images) > 0 {
		prompt := question
		if historyText := formatHistory(history); historyText != "" {
			prompt = historyText + "\n\n" + question
		}
		response, err = g.ai.GenerateVision(ctx, prompt, images, ai.WithSystemPrompts(system))
	} else {
		response, err = g.ai.GenerateChat(ctx, chatMessages(question, history), ai.WithSystemPrompts(system))
	}
	if err != nil {
		return "", err
	}

	return EnsureHTML(response), nil
}

// contextWithinBudget formats the context items, dropping items from the
// tail until the rendered text fits the token budget. Earlier items carry
// the stronger matches, so the tail is the cheapest to lose.
func (g *Generator) contextWithinBudget(items []rag.ContextItem) string {
	text := formatContext(items)

	for len(items) > 0 && g.countTokens(text) > g.maxContextTokens {
		items = items[:len(items)-1]
		text = formatContext(items)
	}

	return text
}

func (g *Generator) tiktokenCount(text string) int {
	enc, err := tiktoken.GetEncoding(g.encoding)
	if err != nil {
		logger.Warn("[Answer] Failed to load token encoding", "encoding", g.encoding, "error", err)
		return 0
	}
	return len(enc.Encode(text, nil, nil))
}

// chatMessages replays the history as alternating user and assistant turns
// and appends the current question as the final user message.
func chatMessages(question string, history []common.Exchange) []ai.ChatMessage {
	messages := make([]ai.ChatMessage, 0, len(history)*2+1)
	for _, exchange := range history {
		messages = append(messages, ai.ChatMessage{Message: exchange.User, Role: "user"})
		messages = append(messages, ai.ChatMessage{Message: exchange.Assistant, Role: "assistant"})
	}
	return append(messages, ai.ChatMessage{Message: question, Role: "user"})
}
