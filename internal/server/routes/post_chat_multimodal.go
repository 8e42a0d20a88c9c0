package routes

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mynah-ai/mynah/internal/server/middleware"
	"github.com/mynah-ai/mynah/pkg/ai"
	"github.com/mynah-ai/mynah/pkg/common"
	"github.com/mynah-ai/mynah/pkg/logger"
	"github.com/mynah-ai/mynah/pkg/rag"
)

// MultimodalChatHandler answers a question with attached images. Entities
// recognized on the images sharpen the retrieval query and are merged into
// the returned context, and the full extraction results are queued for the
// knowledge graph.
func MultimodalChatHandler(c echo.Context) error {
	type multimodalRequest struct {
		Text    string `form:"text" validate:"required"`
		History string `form:"history"`
	}

	type multimodalResponse struct {
		Text              string            `json:"text"`
		Context           []rag.ContextItem `json:"context"`
		History           []common.Exchange `json:"history"`
		ExtractedEntities []common.Entity   `json:"extracted_entities"`
	}

	data := new(multimodalRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	history := []common.Exchange{}
	if data.History != "" {
		if err := json.Unmarshal([]byte(data.History), &history); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		}
	}

	var uploads []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		uploads = form.File["files"]
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	images := []ai.Image{}
	extracted := []common.Entity{}
	results := []common.ExtractionResult{}

	for _, file := range uploads {
		mimeType := file.Header.Get("Content-Type")
		if !strings.HasPrefix(mimeType, "image/") {
			continue
		}

		src, err := file.Open()
		if err != nil {
			logger.Warn("[Server] Failed to open upload", "file", file.Filename, "error", err)
			continue
		}
		content, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			logger.Warn("[Server] Failed to read upload", "file", file.Filename, "error", err)
			continue
		}

		images = append(images, ai.Image{Data: content, MimeType: mimeType})

		// Extraction failures only cost the enrichment, the chat still works.
		result, err := app.Extractor.FromImage(ctx, content, mimeType)
		if err != nil {
			logger.Warn("[Server] Image extraction failed", "file", file.Filename, "error", err)
			continue
		}

		extracted = append(extracted, result.Entities...)
		results = append(results, result)
	}

	enhanced := data.Text
	names := []string{}
	for _, entity := range extracted {
		if entity.Name != "" {
			names = append(names, entity.Name)
		}
	}
	if len(names) > 0 {
		enhanced = fmt.Sprintf("%s (Considering these entities: %s)", data.Text, strings.Join(names, ", "))
	}

	items := app.Engine.QueryContext(ctx, enhanced)

	for _, entity := range extracted {
		if entity.Name == "" || inContext(items, entity.Name) {
			continue
		}
		item := entity
		items = append(items, rag.ContextItem{
			Entity: &item,
			Score:  0.9,
			Source: rag.SourceImageExtraction,
		})
	}

	for _, result := range results {
		if err := enqueueIngest(app.Queue, "chat-image", result); err != nil {
			logger.Error("[Server] Failed to queue extracted facts", "error", err)
		}
	}

	response, err := app.Answerer.Answer(ctx, enhanced, items, history, images)
	if err != nil {
		logger.Error("[Server] Failed to generate answer", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	history = append(history, common.Exchange{
		User:      data.Text,
		Assistant: response,
	})

	return c.JSON(http.StatusOK, multimodalResponse{
		Text:              response,
		Context:           items,
		History:           history,
		ExtractedEntities: extracted,
	})
}

func inContext(items []rag.ContextItem, name string) bool {
	for _, item := range items {
		if item.Entity != nil && item.Entity.Name == name {
			return true
		}
	}
	return false
}
