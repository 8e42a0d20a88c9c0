package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mynah-ai/mynah/internal/queue"
	mid "github.com/mynah-ai/mynah/internal/server/middleware"
	"github.com/mynah-ai/mynah/internal/storage"
	"github.com/mynah-ai/mynah/internal/util"
	"github.com/mynah-ai/mynah/pkg/ai"
	"github.com/mynah-ai/mynah/pkg/ai/gemini"
	"github.com/mynah-ai/mynah/pkg/ai/ollama"
	"github.com/mynah-ai/mynah/pkg/ai/openai"
	"github.com/mynah-ai/mynah/pkg/answer"
	"github.com/mynah-ai/mynah/pkg/extract"
	"github.com/mynah-ai/mynah/pkg/loader/web"
	"github.com/mynah-ai/mynah/pkg/logger"
	"github.com/mynah-ai/mynah/pkg/rag"
	"github.com/mynah-ai/mynah/pkg/store"
	"github.com/mynah-ai/mynah/pkg/store/neo4j"
	"github.com/mynah-ai/mynah/pkg/store/pg"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	aiClient := NewAIClient(ctx)

	kb := NewKnowledgeStore(ctx, aiClient)
	defer kb.Close()

	schemaRef, dataRef := KnowledgeBaseRefs()
	if err := kb.LoadKnowledgeBase(ctx, schemaRef, dataRef); err != nil {
		logger.Fatal("Failed to load knowledge base", "error", err)
	}

	engine, err := rag.NewEngine(rag.NewEngineParams{Store: kb})
	if err != nil {
		logger.Fatal("Failed to create retrieval engine", "error", err)
	}

	extractor, err := extract.NewExtractor(extract.NewExtractorParams{
		AI:             aiClient,
		ChunkSize:      int(util.GetEnvNumeric("EXTRACT_CHUNK_SIZE", 0)),
		ParallelChunks: int(util.GetEnvNumeric("EXTRACT_PARALLEL_CHUNKS", 0)),
		MaxRetries:     int(util.GetEnvNumeric("EXTRACT_MAX_RETRIES", 0)),
	})
	if err != nil {
		logger.Fatal("Failed to create extractor", "error", err)
	}

	answerer, err := answer.NewGenerator(answer.NewGeneratorParams{
		AI:               aiClient,
		MaxContextTokens: int(util.GetEnvNumeric("ANSWER_MAX_CONTEXT_TOKENS", 0)),
		Encoding:         util.GetEnv("ANSWER_ENCODING"),
	})
	if err != nil {
		logger.Fatal("Failed to create answer generator", "error", err)
	}

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "error", err)
	}
	if err := queue.SetupQueues(ch, []string{queue.IngestQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "error", err)
	}

	s3 := storage.NewS3Client(ctx)

	app := &mid.App{
		Store:     kb,
		AI:        aiClient,
		Engine:    engine,
		Extractor: extractor,
		Answerer:  answerer,
		Web:       web.NewLoader(),
		Queue:     ch,
		S3:        s3,
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("100M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "error", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "error", err)
	}
}

// NewAIClient builds the model client selected by AI_ADAPTER. The process
// cannot run without one, so configuration errors are fatal.
func NewAIClient(ctx context.Context) ai.Client {
	parallel := int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 4))

	switch util.GetEnv("AI_ADAPTER") {
	case "ollama":
		client, err := ollama.NewOllamaClient(ollama.NewOllamaClientParams{
			ChatModel:       util.GetEnv("AI_CHAT_MODEL"),
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),
			ImageModel:      util.GetEnv("AI_IMAGE_MODEL"),
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: parallel,
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "error", err)
		}
		return client
	case "gemini":
		client, err := gemini.NewGeminiClient(ctx, gemini.NewGeminiClientParams{
			ChatModel:       util.GetEnv("AI_CHAT_MODEL"),
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),
			ImageModel:      util.GetEnv("AI_IMAGE_MODEL"),
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),

			ApiKey: util.GetEnv("GEMINI_API_KEY"),

			MaxConcurrentRequests: parallel,
		})
		if err != nil {
			logger.Fatal("Failed to create Gemini client", "error", err)
		}
		return client
	default:
		return openai.NewOpenAIClient(openai.NewOpenAIClientParams{
			ChatModel:       util.GetEnv("AI_CHAT_MODEL"),
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),
			ImageModel:      util.GetEnv("AI_IMAGE_MODEL"),
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),

			ChatURL:      util.GetEnv("AI_CHAT_URL"),
			ChatKey:      util.GetEnv("AI_CHAT_KEY"),
			ImageURL:     util.GetEnv("AI_IMAGE_URL"),
			ImageKey:     util.GetEnv("AI_IMAGE_KEY"),
			EmbeddingURL: util.GetEnv("AI_EMBED_URL"),
			EmbeddingKey: util.GetEnv("AI_EMBED_KEY"),

			MaxConcurrentRequests: parallel,
		})
	}
}

// NewKnowledgeStore connects to the backend selected by STORE_BACKEND,
// postgres unless configured otherwise. The postgres store only embeds terms
// when an embedding model is configured.
func NewKnowledgeStore(ctx context.Context, aiClient ai.Client) store.KnowledgeStore {
	switch util.GetEnvString("STORE_BACKEND", "postgres") {
	case "neo4j":
		kb, err := neo4j.New(ctx,
			util.GetEnv("NEO4J_URI"),
			util.GetEnv("NEO4J_USER"),
			util.GetEnv("NEO4J_PASSWORD"))
		if err != nil {
			logger.Fatal("Failed to connect to neo4j", "error", err)
		}
		return kb
	default:
		opts := []pg.KnowledgeDBStorageOption{}
		if util.GetEnv("AI_EMBED_MODEL") != "" {
			opts = append(opts, pg.WithEmbedder(aiClient))
		}
		kb, err := pg.New(ctx, util.GetEnv("DATABASE_URL"), opts...)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		return kb
	}
}

// KnowledgeBaseRefs returns the schema and seed data references for the
// configured store backend.
func KnowledgeBaseRefs() (string, string) {
	if util.GetEnvString("STORE_BACKEND", "postgres") == "neo4j" {
		return util.GetEnvString("KB_SCHEMA", "db/neo4j/schema.cypher"),
			util.GetEnvString("KB_DATA", "db/neo4j/data.cypher")
	}
	return util.GetEnvString("KB_SCHEMA", "file://db/migrations"),
		util.GetEnvString("KB_DATA", "db/seed.sql")
}
