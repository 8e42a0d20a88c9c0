package routes

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mynah-ai/mynah/internal/server/middleware"
	"github.com/mynah-ai/mynah/pkg/common"
	"github.com/mynah-ai/mynah/pkg/logger"
)

// CreateEntityHandler adds one entity and its properties to the knowledge
// graph. Property values may be of any JSON type and are stored as strings.
func CreateEntityHandler(c echo.Context) error {
	type createEntityRequest struct {
		Name       string         `json:"name" validate:"required"`
		EntityType string         `json:"entity_type" validate:"required"`
		Properties map[string]any `json:"properties"`
	}

	type createEntityResponse struct {
		Message string `json:"message"`
	}

	data := new(createEntityRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createEntityResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createEntityResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App

	properties := map[string]common.PropertyValue{}
	for name, value := range data.Properties {
		properties[name] = common.PropertyValue{Value: fmt.Sprintf("%v", value)}
	}

	entity := common.Entity{
		Name:       data.Name,
		Type:       data.EntityType,
		Properties: properties,
	}
	if err := app.Store.AssertEntity(c.Request().Context(), entity); err != nil {
		logger.Error("[Server] Failed to assert entity", "error", err)
		return c.JSON(http.StatusInternalServerError, createEntityResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, createEntityResponse{Message: "Entity added successfully"})
}
