package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mynah-ai/mynah/internal/server/middleware"
	"github.com/mynah-ai/mynah/pkg/common"
	"github.com/mynah-ai/mynah/pkg/logger"
)

// CreateRelationshipHandler adds one relationship between two entities to
// the knowledge graph.
func CreateRelationshipHandler(c echo.Context) error {
	type createRelationshipRequest struct {
		FromEntity       string `json:"from_entity" validate:"required"`
		RelationshipType string `json:"relationship_type" validate:"required"`
		ToEntity         string `json:"to_entity" validate:"required"`
		Context          string `json:"context"`
	}

	type createRelationshipResponse struct {
		Message string `json:"message"`
	}

	data := new(createRelationshipRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createRelationshipResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createRelationshipResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App

	relationship := common.Relationship{
		From:    data.FromEntity,
		Type:    data.RelationshipType,
		To:      data.ToEntity,
		Context: data.Context,
	}
	if err := app.Store.AssertRelationship(c.Request().Context(), relationship); err != nil {
		logger.Error("[Server] Failed to assert relationship", "error", err)
		return c.JSON(http.StatusInternalServerError, createRelationshipResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, createRelationshipResponse{Message: "Relationship added successfully"})
}
