package server

import (
	"github.com/labstack/echo/v4"

	"github.com/mynah-ai/mynah/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	// Chat routes
	e.POST("/chat", routes.ChatHandler)
	e.POST("/chat/multimodal", routes.MultimodalChatHandler)

	// Knowledge graph fact routes
	e.POST("/faq", routes.CreateFAQHandler)
	e.POST("/entity", routes.CreateEntityHandler)
	e.POST("/relationship", routes.CreateRelationshipHandler)

	// Extraction routes
	e.POST("/extract/text", routes.ExtractTextHandler)
	e.POST("/extract/document", routes.ExtractDocumentHandler)
	e.POST("/extract/image", routes.ExtractImageHandler)
	e.POST("/extract/url", routes.ExtractURLHandler)
}
