package repository

import (
	"context"
	"sync"
	"time"

	"movie-analyzer/internal/models"
	"movie-analyzer/pkg/logging"
)

// snapshot is never mutated after it is published.
type snapshot struct {
	id      string
	records []*models.MovieRecord
	byTitle map[string]int
}

// SnapshotRepository serves an in-memory movie snapshot. ReplaceSnapshot
// swaps the whole table at once so readers never observe a partial one.
type SnapshotRepository struct {
	mu      sync.RWMutex
	current *snapshot
	logger  *logging.StructuredLogger
}

// NewSnapshotRepository creates an empty snapshot repository
func NewSnapshotRepository(logger *logging.StructuredLogger) *SnapshotRepository {
	return &SnapshotRepository{
		current: &snapshot{byTitle: map[string]int{}},
		logger:  logger,
	}
}

// ReplaceSnapshot publishes records as the new snapshot. The slice is copied
// and the records must not be modified afterwards.
func (r *SnapshotRepository) ReplaceSnapshot(ctx context.Context, snapshotID string, records []*models.MovieRecord) error {
	next := &snapshot{
		id:      snapshotID,
		records: make([]*models.MovieRecord, 0, len(records)),
		byTitle: make(map[string]int, len(records)),
	}

	now := time.Now().UTC()
	for _, rec := range records {
		if rec == nil {
			continue
		}
		rec.SnapshotID = snapshotID
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}

		key := foldTitle(rec.Title)
		if _, seen := next.byTitle[key]; !seen {
			next.byTitle[key] = len(next.records)
		}
		next.records = append(next.records, rec)
	}

	r.mu.Lock()
	r.current = next
	r.mu.Unlock()

	r.logger.Info(ctx, "[REPO_SNAPSHOT] Snapshot replaced", logging.Fields{
		"snapshot_id": snapshotID,
		"movies":      len(next.records),
	})

	return nil
}

func (r *SnapshotRepository) load() *snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// SnapshotID returns the id of the served snapshot, empty before the first load
func (r *SnapshotRepository) SnapshotID(ctx context.Context) (string, error) {
	return r.load().id, nil
}

// AllMovies returns every record in table order
func (r *SnapshotRepository) AllMovies(ctx context.Context) ([]*models.MovieRecord, error) {
	s := r.load()
	out := make([]*models.MovieRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// FindByTitle returns the first record whose title matches case-insensitively
func (r *SnapshotRepository) FindByTitle(ctx context.Context, title string) (*models.MovieRecord, error) {
	s := r.load()
	idx, ok := s.byTitle[foldTitle(title)]
	if !ok {
		return nil, &NotFoundError{Resource: "movie", ID: title}
	}
	return s.records[idx], nil
}

// ListMovies returns one page of matching records and the total match count
func (r *SnapshotRepository) ListMovies(ctx context.Context, filter MovieFilter) ([]*models.MovieRecord, int, error) {
	s := r.load()

	var matched []*models.MovieRecord
	for _, rec := range s.records {
		if filter.matches(rec) {
			matched = append(matched, rec)
		}
	}
	total := len(matched)

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []*models.MovieRecord{}, total, nil
	}
	end := total
	if filter.Limit > 0 && offset+filter.Limit < end {
		end = offset + filter.Limit
	}

	return matched[offset:end], total, nil
}

// HealthCheck always succeeds; an empty snapshot is a valid state
func (r *SnapshotRepository) HealthCheck(ctx context.Context) error {
	return nil
}
