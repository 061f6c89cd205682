package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"movie-analyzer/internal/config"
	"movie-analyzer/internal/repository"
	"movie-analyzer/internal/services"
	"movie-analyzer/pkg/database"
	"movie-analyzer/pkg/logging"
	"movie-analyzer/pkg/metrics"
)

func main() {
	// Parse command-line flags; empty values fall back to the configuration
	input := flag.String("input", "", "Raw movie CSV (default: pipeline.input_path)")
	output := flag.String("output", "", "Annotated CSV to write (default: pipeline.output_path)")
	cleanOut := flag.String("clean-output", "", "Cleaned CSV to write before metrics (default: pipeline.clean_path)")
	persist := flag.Bool("persist", false, "Replace the Postgres snapshot after the run")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *input != "" {
		cfg.Pipeline.InputPath = *input
	}
	if *output != "" {
		cfg.Pipeline.OutputPath = *output
	}
	if *cleanOut != "" {
		cfg.Pipeline.CleanPath = *cleanOut
	}
	if *persist {
		cfg.Pipeline.PersistToDB = true
		cfg.Database.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger("movie-pipeline", "1.0.0", logging.ParseLevel(cfg.Logging.Level))
	defer logger.Sync()

	ctx := context.Background()
	logger.Info(ctx, "[PIPELINE_CLI_START] Starting movie pipeline", logging.Fields{
		"version":      "1.0.0",
		"input_path":   cfg.Pipeline.InputPath,
		"output_path":  cfg.Pipeline.OutputPath,
		"hit_quantile": cfg.Pipeline.HitQuantile,
		"persist":      cfg.Pipeline.PersistToDB,
	})

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("movie_pipeline", prometheus.DefaultRegisterer)

	var store repository.MovieRepository
	if cfg.Pipeline.PersistToDB {
		db, err := database.NewPostgresDB(cfg.Database.Postgres(), logger, metricsCollector)
		if err != nil {
			logger.Fatal(ctx, "[PIPELINE_CLI_ERROR] Failed to connect to database", logging.Fields{}, err)
		}
		defer db.Close()
		store = repository.NewPostgresRepository(db, logger)
	}

	pipeline := services.NewPipelineService(store, logger, metricsCollector, cfg.Pipeline.HitQuantile)

	result, err := pipeline.Run(ctx, services.PipelineOptions{
		InputPath:  cfg.Pipeline.InputPath,
		CleanPath:  cfg.Pipeline.CleanPath,
		OutputPath: cfg.Pipeline.OutputPath,
		Persist:    cfg.Pipeline.PersistToDB,
	})
	if err != nil {
		logger.Fatal(ctx, "[PIPELINE_CLI_ERROR] Pipeline failed", logging.Fields{
			"run_id": result.RunID,
		}, err)
	}

	printResult(result, cfg.Pipeline.OutputPath)
}

func printResult(result *services.PipelineResult, outputPath string) {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("PIPELINE COMPLETE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Run ID:             %s\n", result.RunID)
	fmt.Printf("Outcome:            %s\n", result.Outcome)
	fmt.Printf("Rows In:            %d\n", result.Report.RowsIn)
	fmt.Printf("Rows Kept:          %d\n", result.Report.RowsOut)
	fmt.Printf("Duplicates Dropped: %d\n", result.Report.DuplicatesDropped)
	fmt.Printf("Columns:            %d\n", len(result.Columns))
	fmt.Printf("Hits:               %d\n", result.Hits)
	fmt.Printf("Persisted:          %t\n", result.Persisted)
	fmt.Printf("Duration:           %v\n", result.Duration)

	if result.LoadError != nil {
		fmt.Printf("\nSource not loaded: %v\n", result.LoadError)
	} else if len(result.Columns) > 0 {
		fmt.Printf("Output:             %s\n", outputPath)
	}

	if len(result.Report.ParseMisses) > 0 {
		cols := make([]string, 0, len(result.Report.ParseMisses))
		for col := range result.Report.ParseMisses {
			cols = append(cols, col)
		}
		sort.Strings(cols)

		fmt.Println("\nUnparseable cells:")
		for _, col := range cols {
			fmt.Printf("  - %-12s %d\n", col, result.Report.ParseMisses[col])
		}
	}

	th := result.Thresholds
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Printf("HIT THRESHOLDS (q=%.2f)\n", th.Quantile)
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Rating cut:         %s\n", formatCut(th.RatingCut))
	fmt.Printf("ROI cut:            %s\n", formatCut(th.ROICut))
	if s := result.Summary; s != nil {
		fmt.Printf("Hit share:          %.1f%%\n", s.HitSharePercent)
	}
}

func formatCut(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", *v)
}
