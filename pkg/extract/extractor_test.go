package extract

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/mynah-ai/mynah/pkg/ai"
)

func TestNewExtractor_RequiresClient(t *testing.T) {
	if _, err := NewExtractor(NewExtractorParams{}); err == nil {
		t.Fatalf("expected an error for a missing AI client")
	}
}

func TestNewExtractor_AppliesDefaults(t *testing.T) {
	extractor, err := NewExtractor(NewExtractorParams{AI: &aiClientMock{}})
	if err != nil {
		t.Fatalf("expected an extractor, got error: %v", err)
	}

	if extractor.chunkSize != 8000 {
		t.Fatalf("expected chunk size 8000, got %d", extractor.chunkSize)
	}
	if extractor.parallelChunks != 4 {
		t.Fatalf("expected 4 parallel chunks, got %d", extractor.parallelChunks)
	}
	if extractor.maxRetries != 2 {
		t.Fatalf("expected 2 retries, got %d", extractor.maxRetries)
	}
}

func TestFromText_SendsSchemaPromptAndParsesReply(t *testing.T) {
	var capturedPrompt string
	var capturedOptions ai.GenerateOptions
	client := &aiClientMock{
		generateCompletion: func(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
			capturedPrompt = prompt
			for _, opt := range opts {
				opt(&capturedOptions)
			}
			return `{"entities": [{"name": "Rover", "type": "Product", "properties": {}}], "relationships": []}`, nil
		},
	}
	extractor := newTestExtractor(t, client)

	result, err := extractor.FromText(context.Background(), "The Rover is our product.")
	if err != nil {
		t.Fatalf("expected a result, got error: %v", err)
	}

	if capturedPrompt != "The Rover is our product." {
		t.Fatalf("expected the raw text as prompt, got %q", capturedPrompt)
	}
	if len(capturedOptions.SystemPrompts) != 1 || !strings.Contains(capturedOptions.SystemPrompts[0], "JSON Schema") {
		t.Fatalf("expected the extraction instructions as system prompt, got %v", capturedOptions.SystemPrompts)
	}
	if !capturedOptions.JSONResponse {
		t.Fatalf("expected a JSON response request")
	}
	if len(result.Entities) != 1 || result.Entities[0].Name != "Rover" {
		t.Fatalf("expected the Rover entity, got %+v", result.Entities)
	}
}

func TestFromText_PropagatesModelErrors(t *testing.T) {
	client := &aiClientMock{
		generateCompletion: func(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
			return "", fmt.Errorf("model unavailable")
		},
	}
	extractor := newTestExtractor(t, client)

	if _, err := extractor.FromText(context.Background(), "text"); err == nil {
		t.Fatalf("expected the model error to propagate")
	}
}

func TestFromImage_DefaultsMimeTypeToJPEG(t *testing.T) {
	var capturedImages []ai.Image
	client := &aiClientMock{
		generateVision: func(ctx context.Context, prompt string, images []ai.Image, opts ...ai.GenerateOption) (string, error) {
			capturedImages = images
			return `{"entities": [], "relationships": []}`, nil
		},
	}
	extractor := newTestExtractor(t, client)

	if _, err := extractor.FromImage(context.Background(), []byte{0xff, 0xd8}, ""); err != nil {
		t.Fatalf("expected a result, got error: %v", err)
	}

	if len(capturedImages) != 1 {
		t.Fatalf("expected 1 image, got %d", len(capturedImages))
	}
	if capturedImages[0].MimeType != "image/jpeg" {
		t.Fatalf("expected mime type image/jpeg, got %q", capturedImages[0].MimeType)
	}
}

func TestFromImage_PromptHasNoFAQSchema(t *testing.T) {
	var capturedPrompt string
	client := &aiClientMock{
		generateVision: func(ctx context.Context, prompt string, images []ai.Image, opts ...ai.GenerateOption) (string, error) {
			capturedPrompt = prompt
			return `{"entities": [], "relationships": []}`, nil
		},
	}
	extractor := newTestExtractor(t, client)

	if _, err := extractor.FromImage(context.Background(), []byte{0x89}, "image/png"); err != nil {
		t.Fatalf("expected a result, got error: %v", err)
	}

	if strings.Contains(capturedPrompt, "faq_entries") {
		t.Fatalf("expected the image prompt schema to omit faq_entries")
	}
}

func TestFromDocument_AggregatesChunksInOrder(t *testing.T) {
	first := "The Rover has a red chassis."
	second := "The Rover has a blue chassis and a camera."
	replies := map[string]string{
		first:  `{"entities": [{"name": "Rover", "type": "Product", "properties": {"chassis": {"value": "red", "metadata": "source: text confidence: 0.9"}}}], "relationships": []}`,
		second: `{"entities": [{"name": "Rover", "type": "Product", "properties": {"chassis": {"value": "blue", "metadata": "source: text confidence: 0.4"}, "camera": {"value": "yes", "metadata": "source: text confidence: 0.7"}}}], "relationships": []}`,
	}
	client := &aiClientMock{
		generateCompletion: func(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
			reply, ok := replies[prompt]
			if !ok {
				return "", fmt.Errorf("unexpected prompt: %q", prompt)
			}
			return reply, nil
		},
	}
	extractor, err := NewExtractor(NewExtractorParams{AI: client, ChunkSize: len(first) + 1})
	if err != nil {
		t.Fatalf("expected an extractor, got error: %v", err)
	}

	result, err := extractor.FromDocument(context.Background(), first+"\n\n"+second)
	if err != nil {
		t.Fatalf("expected a result, got error: %v", err)
	}

	if len(result.Entities) != 1 {
		t.Fatalf("expected 1 merged entity, got %d", len(result.Entities))
	}
	properties := result.Entities[0].Properties
	if properties["chassis"].Value != "red" {
		t.Fatalf("expected the first chunk's chassis value to win, got %q", properties["chassis"].Value)
	}
	if properties["camera"].Value != "yes" {
		t.Fatalf("expected the camera property to be merged, got %v", properties)
	}
	if result.FAQEntries == nil {
		t.Fatalf("expected document extraction to always carry faq entries")
	}
}

func TestFromDocument_RetriesFailedChunks(t *testing.T) {
	attempts := 0
	client := &aiClientMock{
		generateCompletion: func(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
			attempts++
			if attempts == 1 {
				return "", fmt.Errorf("model overloaded")
			}
			return `{"entities": [], "relationships": []}`, nil
		},
	}
	extractor := newTestExtractor(t, client)

	if _, err := extractor.FromDocument(context.Background(), "single paragraph"); err != nil {
		t.Fatalf("expected the retry to succeed, got error: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestFromDocument_FailsWhenRetriesExhausted(t *testing.T) {
	client := &aiClientMock{
		generateCompletion: func(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
			return "", fmt.Errorf("model unavailable")
		},
	}
	extractor := newTestExtractor(t, client)

	if _, err := extractor.FromDocument(context.Background(), "single paragraph"); err == nil {
		t.Fatalf("expected an error after exhausting retries")
	}
}

func TestFromDocument_EmptyTextYieldsEmptyResult(t *testing.T) {
	extractor := newTestExtractor(t, &aiClientMock{})

	result, err := extractor.FromDocument(context.Background(), "")
	if err != nil {
		t.Fatalf("expected an empty result, got error: %v", err)
	}

	if len(result.Entities) != 0 || len(result.Relationships) != 0 || len(result.FAQEntries) != 0 {
		t.Fatalf("expected an empty result, got %+v", result)
	}
}

func newTestExtractor(t *testing.T, client ai.Client) *Extractor {
	t.Helper()
	extractor, err := NewExtractor(NewExtractorParams{AI: client})
	if err != nil {
		t.Fatalf("expected an extractor, got error: %v", err)
	}
	return extractor
}

type aiClientMock struct {
	generateCompletion func(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error)
	generateVision     func(ctx context.Context, prompt string, images []ai.Image, opts ...ai.GenerateOption) (string, error)
}

func (m *aiClientMock) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	if m.generateCompletion == nil {
		return "", fmt.Errorf("unexpected completion call")
	}
	return m.generateCompletion(ctx, prompt, opts...)
}

func (m *aiClientMock) GenerateChat(ctx context.Context, messages []ai.ChatMessage, opts ...ai.GenerateOption) (string, error) {
	return "", fmt.Errorf("unexpected chat call")
}

func (m *aiClientMock) GenerateVision(ctx context.Context, prompt string, images []ai.Image, opts ...ai.GenerateOption) (string, error) {
	if m.generateVision == nil {
		return "", fmt.Errorf("unexpected vision call")
	}
	return m.generateVision(ctx, prompt, images, opts...)
}

func (m *aiClientMock) GenerateEmbedding(ctx context.Context, input string) ([]float32, error) {
	return nil, fmt.Errorf("unexpected embedding call")
}

func (m *aiClientMock) ResetMetrics() {}

func (m *aiClientMock) GetMetrics() ai.ModelMetrics {
	return ai.ModelMetrics{}
}
