package routes

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rabbitmq/amqp091-go"

	"github.com/mynah-ai/mynah/internal/queue"
	"github.com/mynah-ai/mynah/internal/server/middleware"
	"github.com/mynah-ai/mynah/internal/storage"
	"github.com/mynah-ai/mynah/pkg/common"
	"github.com/mynah-ai/mynah/pkg/logger"
)

// extractCounts summarizes an extraction result for API responses.
type extractCounts struct {
	Entities      int `json:"entities"`
	Relationships int `json:"relationships"`
	FAQEntries    int `json:"faq_entries"`
}

func countFacts(result common.ExtractionResult) *extractCounts {
	return &extractCounts{
		Entities:      len(result.Entities),
		Relationships: len(result.Relationships),
		FAQEntries:    len(result.FAQEntries),
	}
}

// ExtractTextHandler extracts knowledge from a short text. The extracted
// facts are returned immediately and queued for the graph worker.
func ExtractTextHandler(c echo.Context) error {
	type extractTextRequest struct {
		Text       string `json:"text" validate:"required"`
		SourceName string `json:"source_name"`
	}

	type extractTextResponse struct {
		Message       string                   `json:"message"`
		ExtractedData *common.ExtractionResult `json:"extracted_data,omitempty"`
		Counts        *extractCounts           `json:"counts,omitempty"`
	}

	data := new(extractTextRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, extractTextResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, extractTextResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App

	result, err := app.Extractor.FromText(c.Request().Context(), data.Text)
	if err != nil {
		logger.Error("[Server] Text extraction failed", "error", err)
		return c.JSON(http.StatusInternalServerError, extractTextResponse{Message: "Internal server error"})
	}

	sourceName := data.SourceName
	if sourceName == "" {
		sourceName = "text.txt"
	}
	persistAndQueue(c, sourceName, []byte(data.Text), result)

	return c.JSON(http.StatusOK, extractTextResponse{
		Message:       "Extraction started. Data will be added to the knowledge graph.",
		ExtractedData: &result,
		Counts:        countFacts(result),
	})
}

// ExtractDocumentHandler extracts knowledge from a long document. The text
// is chunked and each chunk extracted separately, so large documents work
// within model context limits.
func ExtractDocumentHandler(c echo.Context) error {
	type extractDocumentRequest struct {
		Text       string `json:"text" validate:"required"`
		SourceName string `json:"source_name"`
	}

	type extractDocumentResponse struct {
		Message       string                   `json:"message"`
		ExtractedData *common.ExtractionResult `json:"extracted_data,omitempty"`
		Counts        *extractCounts           `json:"counts,omitempty"`
	}

	data := new(extractDocumentRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, extractDocumentResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, extractDocumentResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App

	result, err := app.Extractor.FromDocument(c.Request().Context(), data.Text)
	if err != nil {
		logger.Error("[Server] Document extraction failed", "error", err)
		return c.JSON(http.StatusInternalServerError, extractDocumentResponse{Message: "Internal server error"})
	}

	sourceName := data.SourceName
	if sourceName == "" {
		sourceName = "document.txt"
	}
	persistAndQueue(c, sourceName, []byte(data.Text), result)

	return c.JSON(http.StatusOK, extractDocumentResponse{
		Message:       "Extraction started. Data will be added to the knowledge graph.",
		ExtractedData: &result,
		Counts:        countFacts(result),
	})
}

// ExtractImageHandler extracts entities and relationships from an uploaded
// image using the vision model.
func ExtractImageHandler(c echo.Context) error {
	type extractImageResponse struct {
		Message       string                   `json:"message"`
		ExtractedData *common.ExtractionResult `json:"extracted_data,omitempty"`
		Counts        *extractCounts           `json:"counts,omitempty"`
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, extractImageResponse{Message: "Invalid request body"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, extractImageResponse{Message: "Invalid request body"})
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, extractImageResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App

	result, err := app.Extractor.FromImage(c.Request().Context(), content, file.Header.Get("Content-Type"))
	if err != nil {
		logger.Error("[Server] Image extraction failed", "file", file.Filename, "error", err)
		return c.JSON(http.StatusInternalServerError, extractImageResponse{Message: "Internal server error"})
	}

	persistAndQueue(c, file.Filename, content, result)

	return c.JSON(http.StatusOK, extractImageResponse{
		Message:       "Extraction completed. Data will be added to the knowledge graph.",
		ExtractedData: &result,
		Counts:        countFacts(result),
	})
}

// ExtractURLHandler fetches a web page, reduces it to its readable article
// text and extracts knowledge from it like a document.
func ExtractURLHandler(c echo.Context) error {
	type extractURLRequest struct {
		URL string `json:"url" validate:"required,url"`
	}

	type extractURLResponse struct {
		Message       string                   `json:"message"`
		ExtractedData *common.ExtractionResult `json:"extracted_data,omitempty"`
		Counts        *extractCounts           `json:"counts,omitempty"`
	}

	data := new(extractURLRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, extractURLResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, extractURLResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	article, err := app.Web.ArticleText(ctx, data.URL)
	if err != nil {
		logger.Error("[Server] Failed to fetch url", "url", data.URL, "error", err)
		return c.JSON(http.StatusInternalServerError, extractURLResponse{Message: "Failed to fetch URL"})
	}

	result, err := app.Extractor.FromDocument(ctx, article)
	if err != nil {
		logger.Error("[Server] URL extraction failed", "url", data.URL, "error", err)
		return c.JSON(http.StatusInternalServerError, extractURLResponse{Message: "Internal server error"})
	}

	persistAndQueue(c, data.URL, []byte(article), result)

	return c.JSON(http.StatusOK, extractURLResponse{
		Message:       "Extraction started. Data will be added to the knowledge graph.",
		ExtractedData: &result,
		Counts:        countFacts(result),
	})
}

// persistAndQueue archives the raw source and queues the extracted facts for
// the graph worker. Both steps are best effort, a failure loses provenance
// or delays facts but never fails the request.
func persistAndQueue(c echo.Context, sourceName string, raw []byte, result common.ExtractionResult) {
	app := c.(*middleware.AppContext).App

	source := sourceName
	if key, err := storage.ArchiveSource(c.Request().Context(), app.S3, sourceName, raw); err != nil {
		logger.Warn("[Server] Failed to archive source", "source", sourceName, "error", err)
	} else {
		source = key
	}

	if err := enqueueIngest(app.Queue, source, result); err != nil {
		logger.Error("[Server] Failed to queue extracted facts", "source", source, "error", err)
	}
}

func enqueueIngest(ch *amqp091.Channel, source string, result common.ExtractionResult) error {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to create job id: %w", err)
	}

	return queue.PublishIngestJob(ch, queue.IngestJob{
		ID:     id,
		Source: source,
		Result: result,
	})
}
