package repository

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"movie-analyzer/internal/models"
)

// MovieRepository provides read access to the annotated movie snapshot and
// wholesale replacement of it.
type MovieRepository interface {
	// Snapshot operations
	ReplaceSnapshot(ctx context.Context, snapshotID string, records []*models.MovieRecord) error
	SnapshotID(ctx context.Context) (string, error)

	// Movie operations
	AllMovies(ctx context.Context) ([]*models.MovieRecord, error)
	FindByTitle(ctx context.Context, title string) (*models.MovieRecord, error)
	ListMovies(ctx context.Context, filter MovieFilter) ([]*models.MovieRecord, int, error)

	// Utility operations
	HealthCheck(ctx context.Context) error
}

// MovieFilter defines filters for listing movies. A Limit of zero or less
// returns every matching row.
type MovieFilter struct {
	Genre    *string
	HitsOnly bool
	Limit    int
	Offset   int
}

func (f MovieFilter) matches(r *models.MovieRecord) bool {
	if f.HitsOnly && !r.Hit {
		return false
	}
	if f.Genre != nil {
		if r.GenreMain == nil || *r.GenreMain != *f.Genre {
			return false
		}
	}
	return true
}

// foldTitle is the key title lookups compare on. Callers must not share a
// Caser across goroutines, so one is built per call.
func foldTitle(title string) string {
	return cases.Fold().String(strings.TrimSpace(title))
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) IsTransient() bool {
	return false
}
