package gemini

import (
	"context"
	"strings"
	"time"

	"github.com/mynah-ai/mynah/internal/util"
	"github.com/mynah-ai/mynah/pkg/ai"

	"github.com/google/generative-ai-go/genai"
)

const defaultDimensions = 4096

// GenerateEmbedding creates a vector embedding for the given input text
// using the configured embedding model.
//
// Blank input returns a zero vector of the configured dimensionality so that
// callers can always store a well-formed vector. The result is truncated or
// zero-padded to AI_EMBED_DIM entries.
func (c *GeminiClient) GenerateEmbedding(
	ctx context.Context,
	input string,
) ([]float32, error) {
	dim := int(util.GetEnvNumeric("AI_EMBED_DIM", defaultDimensions))
	if len(strings.TrimSpace(input)) == 0 {
		return make([]float32, dim), nil
	}

	rCtx, cancel := context.WithTimeout(ctx, time.Minute*time.Duration(c.timeoutMin))
	defer cancel()

	if err := c.reqLock.Acquire(rCtx, 1); err != nil {
		return nil, err
	}
	defer c.reqLock.Release(1)

	model := c.Client.EmbeddingModel(c.embeddingModel)

	start := time.Now()
	res, err := model.EmbedContent(rCtx, genai.Text(input))
	if err != nil {
		return nil, err
	}
	duration := time.Since(start).Milliseconds()

	c.modifyMetrics(ai.ModelMetrics{DurationMs: duration})

	if res.Embedding == nil {
		return make([]float32, dim), nil
	}

	vec := make([]float32, 0, dim)
	for _, v := range res.Embedding.Values {
		if len(vec) >= dim {
			break
		}
		vec = append(vec, v)
	}
	if len(vec) < dim {
		padded := make([]float32, dim)
		copy(padded, vec)
		vec = padded
	}
	return vec, nil
}
