package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"movie-analyzer/internal/models"
	"movie-analyzer/pkg/database"
	"movie-analyzer/pkg/logging"
)

const movieColumns = `id, snapshot_id, title, year, decade, month_num,
		       runtime_min, votes_num, gross_usd, rating,
		       budget_num, income_num, genre_main, profit, roi, hit,
		       created_at`

// postgresRepository implements MovieRepository on the movies table
type postgresRepository struct {
	db     *database.PostgresDB
	logger *logging.StructuredLogger
}

// NewPostgresRepository creates a movie repository backed by PostgreSQL
func NewPostgresRepository(db *database.PostgresDB, logger *logging.StructuredLogger) MovieRepository {
	return &postgresRepository{
		db:     db,
		logger: logger,
	}
}

// ReplaceSnapshot deletes the previous snapshot and inserts records in one transaction
func (r *postgresRepository) ReplaceSnapshot(ctx context.Context, snapshotID string, records []*models.MovieRecord) error {
	start := time.Now()
	now := start.UTC()

	err := r.db.WithTx(ctx, "replace_snapshot", func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM movies`); err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}

		stmt, err := tx.PreparexContext(ctx, `
			INSERT INTO movies (
				snapshot_id, title, year, decade, month_num,
				runtime_min, votes_num, gross_usd, rating,
				budget_num, income_num, genre_main, profit, roi, hit,
				created_at, title_key
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, rec := range records {
			if rec == nil {
				continue
			}
			_, err := stmt.ExecContext(ctx,
				snapshotID,
				rec.Title,
				rec.Year,
				rec.Decade,
				rec.MonthNum,
				rec.RuntimeMin,
				rec.VotesNum,
				rec.GrossUSD,
				rec.Rating,
				rec.BudgetNum,
				rec.IncomeNum,
				rec.GenreMain,
				rec.Profit,
				rec.ROI,
				rec.Hit,
				now,
				foldTitle(rec.Title),
			)
			if err != nil {
				return fmt.Errorf("failed to insert movie %q: %w", rec.Title, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info(ctx, "[REPO_SNAPSHOT] Snapshot persisted", logging.Fields{
		"snapshot_id": snapshotID,
		"movies":      len(records),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

// SnapshotID returns the id stored with the current rows, empty when the table is empty
func (r *postgresRepository) SnapshotID(ctx context.Context) (string, error) {
	var id string
	err := r.db.GetContext(ctx, "snapshot_id", &id, `SELECT snapshot_id FROM movies LIMIT 1`)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get snapshot id: %w", err)
	}
	return id, nil
}

// AllMovies returns every row in insertion order
func (r *postgresRepository) AllMovies(ctx context.Context) ([]*models.MovieRecord, error) {
	query := `SELECT ` + movieColumns + ` FROM movies ORDER BY id`

	var movies []*models.MovieRecord
	if err := r.db.SelectContext(ctx, "all_movies", &movies, query); err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}

// FindByTitle returns the first row whose title matches case-insensitively.
// title_key holds the same folded form the in-memory store indexes on.
func (r *postgresRepository) FindByTitle(ctx context.Context, title string) (*models.MovieRecord, error) {
	query := `SELECT ` + movieColumns + `
		FROM movies
		WHERE title_key = $1
		ORDER BY id
		LIMIT 1`

	var movie models.MovieRecord
	err := r.db.GetContext(ctx, "find_by_title", &movie, query, foldTitle(title))

	if err == sql.ErrNoRows {
		return nil, &NotFoundError{
			Resource: "movie",
			ID:       title,
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find movie: %w", err)
	}

	return &movie, nil
}

// ListMovies retrieves movies with filtering and pagination
func (r *postgresRepository) ListMovies(ctx context.Context, filter MovieFilter) ([]*models.MovieRecord, int, error) {
	query := `SELECT ` + movieColumns + `
		FROM movies
		WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.Genre != nil {
		query += fmt.Sprintf(" AND genre_main = $%d", argNum)
		args = append(args, *filter.Genre)
		argNum++
	}

	if filter.HitsOnly {
		query += " AND hit"
	}

	countQuery := "SELECT COUNT(*) FROM (" + query + ") AS count_query"
	var totalCount int
	if err := r.db.GetContext(ctx, "count_movies", &totalCount, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}

	query += " ORDER BY id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filter.Limit)
		argNum++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filter.Offset)
	}

	movies := []*models.MovieRecord{}
	if err := r.db.SelectContext(ctx, "list_movies", &movies, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list movies: %w", err)
	}

	return movies, totalCount, nil
}

// HealthCheck performs a repository health check
func (r *postgresRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}
