// Package startup prepares the application server
package startup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/pagebuilder-go/internal/application/container"
	schema "github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/database"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/caching/cleanup"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/storage"
	"github.com/AtRiskMedia/pagebuilder-go/internal/presentation/http/server"
	"github.com/AtRiskMedia/pagebuilder-go/pkg/config"
)

// Initialize performs the complete startup sequence and blocks until a shutdown
// signal arrives.
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("\033[32m" + `
  ┌─┐┌─┐┌─┐┌─┐  ┌┐ ┬ ┬┬┬  ┌┬┐┌─┐┬─┐
  ├─┘├─┤│ ┬├┤   ├┴┐│ │││   ││├┤ ├┬┘
  ┴  ┴ ┴└─┘└─┘  └─┘└─┘┴┴─┘─┴┘└─┘┴└─
` + "\033[0m")

	// Step 1: Channeled logger
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()
	logger.Startup().Info("Channeled logging initialized", "level", config.LogLevel, "json", config.LogJSON)

	// Step 2: Database connection
	phaseStart := time.Now()
	db, err := database.NewConnectionWithLogger(ctx, database.OptionsFromConfig(), logger)
	if err != nil {
		logger.LogStartupPhase("database", time.Since(phaseStart), false, map[string]any{"driver": config.DBDriver})
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.LogStartupPhase("database", time.Since(phaseStart), true, map[string]any{"driver": db.Driver})

	// Step 3: Schema and seed content
	phaseStart = time.Now()
	tableCreator := schema.NewTableCreator()
	if err := tableCreator.CreateSchema(db.DB); err != nil {
		db.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := tableCreator.SeedInitialContent(db.DB); err != nil {
		db.Close()
		return fmt.Errorf("failed to seed initial content: %w", err)
	}
	logger.LogStartupPhase("schema", time.Since(phaseStart), true, nil)

	// Step 4: Publish storage
	phaseStart = time.Now()
	publisher := newPublisher(ctx, logger)
	logger.LogStartupPhase("storage", time.Since(phaseStart), true, map[string]any{"bucket": config.S3Bucket})

	// Step 5: Dependency injection container
	appContainer, err := container.NewContainer(db, publisher, logger)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create container: %w", err)
	}
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 6: Background cleanup worker
	cleanupWorker := cleanup.NewWorker(appContainer.RenderCache, appContainer.EditorService, cleanup.NewConfig(), logger)
	go cleanupWorker.Start(ctx)
	logger.Startup().Info("Background cleanup worker started", "interval", config.CleanupInterval)

	// Step 7: HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		serverErr <- httpServer.Start()
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	// Wait for shutdown signal
	var runErr error
	select {
	case <-gracefulShutdown:
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	case runErr = <-serverErr:
		if runErr != nil {
			logger.System().Error("HTTP server failed", "error", runErr.Error())
		}
	}

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	}

	logger.Shutdown().Info("Flushing editor sessions...", "open", appContainer.EditorService.OpenCount())
	appContainer.EditorService.CloseAll(shutdownCtx)

	if err := appContainer.Close(); err != nil {
		logger.Shutdown().Error("Error closing database", "error", err.Error())
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return runErr
}

func newLogger() (*logging.ChanneledLogger, error) {
	cfg := logging.DefaultLoggerConfig()
	cfg.JSONFormat = config.LogJSON
	cfg.OutputToFile = config.LogToFile
	cfg.LogDirectory = config.LogDirectory
	cfg.DefaultLevel = logging.ParseLevel(config.LogLevel)
	return logging.NewChanneledLogger(cfg)
}

// newPublisher returns the S3 publisher when a bucket is configured and reachable
// enough to build a client; otherwise publishing is disabled.
func newPublisher(ctx context.Context, logger *logging.ChanneledLogger) storage.Publisher {
	pub, err := storage.NewS3Publisher(ctx, storage.S3Config{
		Endpoint:        config.S3Endpoint,
		Region:          config.S3Region,
		Bucket:          config.S3Bucket,
		AccessKeyID:     config.S3AccessKey,
		SecretAccessKey: config.S3SecretKey,
		Prefix:          config.S3Prefix,
		UsePathStyle:    config.S3UsePathStyle,
	})
	switch {
	case errors.Is(err, storage.ErrStorageNotConfigured):
		logger.Startup().Warn("S3_BUCKET not set, publishing disabled")
		return storage.NewNoopPublisher(config.S3Prefix)
	case err != nil:
		logger.LogError(logging.ChannelPublish, "newPublisher", err, "", nil)
		return storage.NewNoopPublisher(config.S3Prefix)
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pub.CheckConnection(checkCtx); err != nil {
		logger.Publish().Warn("Bucket check failed; uploads may fail", "bucket", config.S3Bucket, "error", err.Error())
	}
	return pub
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
