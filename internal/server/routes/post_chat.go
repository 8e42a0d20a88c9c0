package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mynah-ai/mynah/internal/server/middleware"
	"github.com/mynah-ai/mynah/pkg/common"
	"github.com/mynah-ai/mynah/pkg/logger"
	"github.com/mynah-ai/mynah/pkg/rag"
)

// ChatHandler answers a question from knowledge graph context.
func ChatHandler(c echo.Context) error {
	type chatRequest struct {
		Text    string            `json:"text" validate:"required"`
		History []common.Exchange `json:"history"`
	}

	type chatResponse struct {
		Text    string            `json:"text"`
		Context []rag.ContextItem `json:"context"`
	}

	data := new(chatRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	items := app.Engine.QueryContext(ctx, data.Text)

	response, err := app.Answerer.Answer(ctx, data.Text, items, data.History, nil)
	if err != nil {
		logger.Error("[Server] Failed to generate answer", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, chatResponse{
		Text:    response,
		Context: items,
	})
}
