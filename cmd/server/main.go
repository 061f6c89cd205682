package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"movie-analyzer/internal/config"
	"movie-analyzer/internal/handlers"
	"movie-analyzer/internal/repository"
	"movie-analyzer/internal/services"
	"movie-analyzer/pkg/database"
	"movie-analyzer/pkg/logging"
	"movie-analyzer/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger("movie-api", "1.0.0", logging.ParseLevel(cfg.Logging.Level))
	defer logger.Sync()

	ctx := context.Background()
	logger.Info(ctx, "[STARTUP] Starting movie analyzer API server", logging.Fields{
		"version":         "1.0.0",
		"server_host":     cfg.Server.Host,
		"server_port":     cfg.Server.Port,
		"snapshot_source": cfg.Server.SnapshotSource,
		"snapshot_path":   cfg.Pipeline.OutputPath,
	})

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("movie_analyzer", prometheus.DefaultRegisterer)

	// Initialize repository
	var repo repository.MovieRepository
	if cfg.Server.SnapshotSource == config.SnapshotPostgres {
		db, err := database.NewPostgresDB(cfg.Database.Postgres(), logger, metricsCollector)
		if err != nil {
			logger.Fatal(ctx, "[STARTUP_ERROR] Failed to connect to database", logging.Fields{}, err)
		}
		defer db.Close()
		repo = repository.NewPostgresRepository(db, logger)
	} else {
		repo = repository.NewSnapshotRepository(logger)
	}

	// Initialize services
	pipelineService := services.NewPipelineService(repo, logger, metricsCollector, cfg.Pipeline.HitQuantile)
	movieService := services.NewMovieService(repo, logger, metricsCollector, cfg.Pipeline.ROICapQuantile)
	statsService := services.NewStatisticsService(repo, logger, metricsCollector, cfg.Pipeline.HitQuantile)

	// The CSV store starts empty; a missing file leaves it that way until a reload.
	if cfg.Server.SnapshotSource == config.SnapshotCSV {
		if _, err := pipelineService.LoadSnapshot(ctx, cfg.Pipeline.OutputPath); err != nil {
			logger.Warn(ctx, "[STARTUP] Snapshot not loaded, serving an empty dataset", logging.Fields{
				"path":  cfg.Pipeline.OutputPath,
				"error": err.Error(),
			})
		}
	}

	// Initialize handlers
	movieHandler := handlers.NewMovieHandler(
		movieService,
		statsService,
		pipelineService,
		repo,
		cfg.Pipeline.OutputPath,
		logger,
		metricsCollector,
	)

	// Setup router
	router := mux.NewRouter()
	router.Use(handlers.RequestID, handlers.AccessLog(logger))

	// Register routes
	movieHandler.RegisterRoutes(router)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info(ctx, "[SERVER_START] HTTP server listening", logging.Fields{
			"address": server.Addr,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "[SERVER_ERROR] Server failed", logging.Fields{}, err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "[SHUTDOWN] Shutting down server...", logging.Fields{})

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "[SHUTDOWN_ERROR] Server forced to shutdown", logging.Fields{}, err)
	}

	logger.Info(ctx, "[SHUTDOWN_COMPLETE] Server stopped", logging.Fields{})
}
