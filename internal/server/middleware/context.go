package middleware

import (
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/mynah-ai/mynah/pkg/ai"
	"github.com/mynah-ai/mynah/pkg/answer"
	"github.com/mynah-ai/mynah/pkg/extract"
	"github.com/mynah-ai/mynah/pkg/loader/web"
	"github.com/mynah-ai/mynah/pkg/rag"
	"github.com/mynah-ai/mynah/pkg/store"
)

// App bundles the dependencies handlers work with. Everything is constructed
// once at process start and injected, handlers never build clients.
type App struct {
	Store     store.KnowledgeStore
	AI        ai.Client
	Engine    *rag.Engine
	Extractor *extract.Extractor
	Answerer  *answer.Generator
	Web       *web.Loader
	Queue     *amqp091.Channel
	S3        *s3.Client
}

// AppContext decorates the echo context with the application dependencies.
type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware wraps every request in an AppContext carrying app.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
