package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"movie-analyzer/internal/config"
	"movie-analyzer/internal/repository"
	"movie-analyzer/internal/services"
	"movie-analyzer/pkg/logging"
	"movie-analyzer/pkg/metrics"
)

var (
	cfg          *config.Config
	logger       *logging.StructuredLogger
	snapshotPath string
	app          *lookupApp
)

// lookupApp holds the services backing every subcommand
type lookupApp struct {
	movies *services.MovieService
	stats  *services.StatisticsService
}

var rootCmd = &cobra.Command{
	Use:          "movie-lookup",
	Short:        "Check movies against the hit rule",
	Long:         "Loads the annotated movie CSV and reports whether a dataset or custom movie counts as a hit (ROI > 1 and rating > 7).",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		logger = logging.NewStructuredLogger("movie-lookup", "1.0.0", logging.ParseLevel(cfg.Logging.Level))
		logger.SetOutput(cmd.ErrOrStderr())

		path := snapshotPath
		if path == "" {
			path = cfg.Pipeline.OutputPath
		}

		a, err := newLookupApp(cmd.Context(), path, cfg.Pipeline, logger)
		if err != nil {
			return err
		}
		app = a
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "", "annotated movie CSV (default: pipeline.output_path)")
	rootCmd.AddCommand(titleCmd, checkCmd, summaryCmd)
}

// newLookupApp publishes the CSV at path into an in-memory store.
func newLookupApp(ctx context.Context, path string, pc config.PipelineConfig, logger *logging.StructuredLogger) (*lookupApp, error) {
	repo := repository.NewSnapshotRepository(logger)
	m := metrics.NewCollector("movie_lookup", prometheus.NewRegistry())

	pipeline := services.NewPipelineService(repo, logger, m, pc.HitQuantile)
	if _, err := pipeline.LoadSnapshot(ctx, path); err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", path, err)
	}

	return &lookupApp{
		movies: services.NewMovieService(repo, logger, m, pc.ROICapQuantile),
		stats:  services.NewStatisticsService(repo, logger, m, pc.HitQuantile),
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
