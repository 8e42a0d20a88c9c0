package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mynah-ai/mynah/internal/util"
	"github.com/mynah-ai/mynah/pkg/ai"
	"github.com/mynah-ai/mynah/pkg/common"
)

const (
	defaultChunkSize      = 8000
	defaultParallelChunks = 4
	defaultMaxRetries     = 2
	defaultImageMimeType  = "image/jpeg"
)

// Extractor turns unstructured text, documents and images into structured
// knowledge: entities with typed properties, relationships between entities
// and FAQ entries.
//
// An Extractor should be created using NewExtractor.
type Extractor struct {
	ai             ai.Client
	chunkSize      int
	parallelChunks int
	maxRetries     int
	textPrompt     string
	imagePrompt    string
}

// NewExtractorParams defines the configuration parameters for creating a
// new Extractor.
//
// AI is the model client used for extraction calls.
// ChunkSize bounds the chunk length for document extraction in characters.
// ParallelChunks controls how many chunk extractions run concurrently.
// MaxRetries is the number of attempts for a failing chunk extraction.
type NewExtractorParams struct {
	AI             ai.Client
	ChunkSize      int
	ParallelChunks int
	MaxRetries     int
}

// NewExtractor creates and returns a new Extractor configured with the
// provided parameters. Zero values fall back to the defaults of 8000
// character chunks, 4 parallel chunks and 2 attempts per chunk.
func NewExtractor(params NewExtractorParams) (*Extractor, error) {
	if params.AI == nil {
		return nil, fmt.Errorf("missing AI client")
	}

	chunkSize := params.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	parallelChunks := params.ParallelChunks
	if parallelChunks <= 0 {
		parallelChunks = defaultParallelChunks
	}
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	textSchema, err := schemaJSON(extractTextResponse{})
	if err != nil {
		return nil, err
	}
	imageSchema, err := schemaJSON(extractImageResponse{})
	if err != nil {
		return nil, err
	}

	return &Extractor{
		ai:             params.AI,
		chunkSize:      chunkSize,
		parallelChunks: parallelChunks,
		maxRetries:     maxRetries,
		textPrompt:     fmt.Sprintf(ai.ExtractPromptText, textSchema),
		imagePrompt:    fmt.Sprintf(ai.ExtractPromptImage, imageSchema),
	}, nil
}

// FromText extracts entities, relationships and FAQ entries from a single
// piece of text. Model and transport errors are returned as-is; replies
// without usable JSON degrade to an empty result.
func (e *Extractor) FromText(ctx context.Context, text string) (common.ExtractionResult, error) {
	response, err := e.ai.GenerateCompletion(
		ctx,
		text,
		ai.WithSystemPrompts(e.textPrompt),
		ai.WithJSONResponse(),
	)
	if err != nil {
		return common.ExtractionResult{}, err
	}

	return parseResponse(response), nil
}

// FromImage extracts entities and relationships from an image. The mime
// type defaults to image/jpeg when empty. Images are not treated as FAQ
// sources, so the result never carries FAQ entries.
func (e *Extractor) FromImage(ctx context.Context, data []byte, mimeType string) (common.ExtractionResult, error) {
	if mimeType == "" {
		mimeType = defaultImageMimeType
	}

	response, err := e.ai.GenerateVision(
		ctx,
		e.imagePrompt,
		[]ai.Image{{Data: data, MimeType: mimeType}},
		ai.WithJSONResponse(),
	)
	if err != nil {
		return common.ExtractionResult{}, err
	}

	return parseResponse(response), nil
}

// FromDocument extracts from long-form text by splitting it into chunks,
// extracting per chunk and aggregating the results. Chunks are processed
// concurrently; aggregation iterates results in chunk order so first-seen
// dedup stays deterministic.
func (e *Extractor) FromDocument(ctx context.Context, text string) (common.ExtractionResult, error) {
	chunks := splitIntoChunks(text, e.chunkSize)

	results := make([]common.ExtractionResult, len(chunks))
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelChunks)

	for i, chunk := range chunks {
		g.Go(func() error {
			return util.RetryErrWithContext(groupCtx, e.maxRetries, func(ctx context.Context) error {
				result, err := e.FromText(ctx, chunk)
				if err != nil {
					return err
				}
				results[i] = result
				return nil
			})
		})
	}

	if err := g.Wait(); err != nil {
		return common.ExtractionResult{}, err
	}

	return aggregateResults(results), nil
}

func schemaJSON(value any) (string, error) {
	schema, err := json.MarshalIndent(ai.GenerateSchema(value), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal extraction schema: %w", err)
	}
	return string(schema), nil
}
