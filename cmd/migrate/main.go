package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"movie-analyzer/internal/config"
	"movie-analyzer/pkg/database"
	"movie-analyzer/pkg/logging"
	"movie-analyzer/pkg/metrics"
)

func main() {
	direction := flag.String("direction", database.MigrateUp, "Migration direction: up or down")
	dir := flag.String("dir", "", "Migrations directory (default: database.migrations_dir)")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *dir != "" {
		cfg.Database.MigrationsDir = *dir
	}

	migrations, err := database.LoadMigrations(cfg.Database.MigrationsDir, *direction)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read migrations: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger("movie-migrate", "1.0.0", logging.ParseLevel(cfg.Logging.Level))
	defer logger.Sync()

	// Connect to database
	db, err := database.NewPostgresDB(cfg.Database.Postgres(), logger, metrics.NewCollector("movie_migrate", prometheus.NewRegistry()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Println("Connected to database successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	for _, m := range migrations {
		fmt.Printf("Running migration: %s.%s\n", m.Name, *direction)

		if _, err := db.ExecContext(ctx, "migrate", m.SQL); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to execute migration %s: %v\n", m.Name, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Migration completed successfully (%d files)\n", len(migrations))
}
