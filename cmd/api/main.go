package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/meeting-summarizer/pkg/validator"

	"github.com/johnquangdev/meeting-summarizer/internal/adapter/handler"
	"github.com/johnquangdev/meeting-summarizer/internal/adapter/repository"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/analyze"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/extract"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/pipeline"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/transcribe"
	pkgai "github.com/johnquangdev/meeting-summarizer/pkg/ai"
	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-OpenAI-Key", "X-Dataset-Token"},
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run AutoMigrate only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
	} else {
		log.Println("🔄 Skipping AutoMigrate; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize analysis cache: Redis when configured, in-memory otherwise
	var cacheStore cache.Store
	if cfg.Redis.Host != "" {
		log.Println("📦 Connecting to Redis...")
		redisStore, err := cache.NewRedisStore(&cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		cacheStore = redisStore
	} else {
		log.Println("📦 Redis not configured, using in-memory analysis cache")
		cacheStore = cache.NewMemoryStore()
	}
	analysisCache := cache.NewAnalysisCache(cacheStore, cfg.Pipeline.AnalysisCacheTTL, logger)

	// Initialize dataset store
	log.Println("📦 Connecting to object storage...")
	dataset, err := storage.NewDatasetStore(&cfg.Storage)
	if err != nil {
		log.Printf("⚠️  Object storage unavailable, dataset publication disabled: %v", err)
		dataset = nil
	}

	// Initialize pipeline stages
	log.Println("🤖 Initializing pipeline...")
	recordRepo := repository.NewMeetingRecordRepository(db)
	extractor := extract.NewExtractor(logger)
	sttClient := pkgai.NewAssemblyAIClient(&cfg.Assembly)
	transcriber := transcribe.NewTranscriber(sttClient, &cfg.Pipeline, logger)
	llmClient := pkgai.NewOpenAIClient(&cfg.OpenAI)
	analyzer := analyze.NewAnalyzer(llmClient, logger)

	var datasetStore pipeline.DatasetStore
	if dataset != nil {
		datasetStore = dataset
	}
	service := pipeline.NewService(extractor, transcriber, analyzer, recordRepo, datasetStore, analysisCache, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	meetingHandler := handler.NewMeeting(service, recordRepo, dataset, logger)
	router := handler.NewRouter(cfg, meetingHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
