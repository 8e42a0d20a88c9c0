package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mynah-ai/mynah/internal/server/middleware"
	"github.com/mynah-ai/mynah/pkg/common"
	"github.com/mynah-ai/mynah/pkg/logger"
)

// CreateFAQHandler adds one FAQ entry to the knowledge graph. Concepts are
// passed as a whitespace separated list of terms.
func CreateFAQHandler(c echo.Context) error {
	type createFAQRequest struct {
		Question string `json:"question" validate:"required"`
		Answer   string `json:"answer" validate:"required"`
		Category string `json:"category" validate:"required"`
		Concepts string `json:"concepts"`
	}

	type createFAQResponse struct {
		Message string `json:"message"`
	}

	data := new(createFAQRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createFAQResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createFAQResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App

	faq := common.FAQ{
		Question: data.Question,
		Answer:   data.Answer,
		Category: data.Category,
		Concepts: strings.Fields(data.Concepts),
	}
	if err := app.Store.AssertFAQ(c.Request().Context(), faq); err != nil {
		logger.Error("[Server] Failed to assert FAQ", "error", err)
		return c.JSON(http.StatusInternalServerError, createFAQResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, createFAQResponse{Message: "FAQ added successfully"})
}
