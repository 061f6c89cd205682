package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"movie-analyzer/internal/models"
	"movie-analyzer/internal/processing"
	"movie-analyzer/internal/repository"
	"movie-analyzer/pkg/logging"
	"movie-analyzer/pkg/metrics"
)

// DefaultCustomTitle names a custom movie submitted without a title.
const DefaultCustomTitle = "My Movie"

// Hit check sources, also used as the metrics label.
const (
	SourceDataset = "dataset"
	SourceCustom  = "custom"
)

// MovieService handles single-movie lookups, custom checks and listing
type MovieService struct {
	repo           repository.MovieRepository
	logger         *logging.StructuredLogger
	metrics        *metrics.Collector
	roiCapQuantile float64
}

// CustomMovie is a user-supplied movie that need not be in the dataset
type CustomMovie struct {
	Title  string  `json:"title"`
	Budget float64 `json:"budget"`
	Income float64 `json:"income"`
	Rating float64 `json:"rating"`
}

// ListQuery selects a page of the snapshot. Genre is matched against the
// canonical genre list case-insensitively.
type ListQuery struct {
	Genre    string
	HitsOnly bool
	Limit    int
	Offset   int
}

// NewMovieService creates a new movie service
func NewMovieService(repo repository.MovieRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector, roiCapQuantile float64) *MovieService {
	if roiCapQuantile <= 0 || roiCapQuantile > 1 {
		roiCapQuantile = 0.99
	}
	return &MovieService{
		repo:           repo,
		logger:         logger,
		metrics:        metricsCollector,
		roiCapQuantile: roiCapQuantile,
	}
}

// Lookup finds a dataset movie by title (case-insensitive) and classifies it
// with the fixed-threshold rule.
func (s *MovieService) Lookup(ctx context.Context, title string) (*models.MovieReport, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &models.ValidationError{Field: "title", Message: "title is required"}
	}

	rec, err := s.repo.FindByTitle(ctx, title)
	if err != nil {
		return nil, err
	}

	movie, err := models.MovieFromRecord(rec)
	if err != nil {
		return nil, err
	}

	return s.report(ctx, movie, SourceDataset)
}

// CheckCustom validates the input, builds a movie and classifies it
func (s *MovieService) CheckCustom(ctx context.Context, in CustomMovie) (*models.MovieReport, error) {
	if err := ValidateCustomMovie(in); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = DefaultCustomTitle
	}

	return s.report(ctx, models.NewMovie(title, in.Budget, in.Income, in.Rating), SourceCustom)
}

// ValidateCustomMovie checks rating in [0, 10] and non-negative money
func ValidateCustomMovie(in CustomMovie) error {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

	switch {
	case !finite(in.Budget) || in.Budget < 0:
		return &models.ValidationError{Field: "budget", Value: fmt.Sprint(in.Budget), Message: "budget must be a non-negative number"}
	case !finite(in.Income) || in.Income < 0:
		return &models.ValidationError{Field: "income", Value: fmt.Sprint(in.Income), Message: "income must be a non-negative number"}
	case !finite(in.Rating) || in.Rating < 0 || in.Rating > 10:
		return &models.ValidationError{Field: "rating", Value: fmt.Sprint(in.Rating), Message: "rating must be between 0 and 10"}
	}
	return nil
}

// List returns a filtered page of the snapshot and the total match count.
// The hit flag is the one stored with the snapshot.
func (s *MovieService) List(ctx context.Context, q ListQuery) ([]*models.MovieRecord, int, error) {
	filter := repository.MovieFilter{
		HitsOnly: q.HitsOnly,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}

	if g := strings.TrimSpace(q.Genre); g != "" {
		canonical, ok := processing.IsCanonicalGenre(g)
		if !ok {
			return nil, 0, &models.ValidationError{Field: "genre", Value: g, Message: "unknown genre"}
		}
		filter.Genre = &canonical
	}

	if filter.Offset < 0 {
		return nil, 0, &models.ValidationError{Field: "offset", Value: fmt.Sprint(q.Offset), Message: "offset must be non-negative"}
	}

	return s.repo.ListMovies(ctx, filter)
}

// ROICap returns the display ceiling for ROI: the configured quantile of
// the snapshot's ROI values, never below 1.
func (s *MovieService) ROICap(ctx context.Context) (float64, error) {
	records, err := s.repo.AllMovies(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load movies: %w", err)
	}

	rois := make([]float64, 0, len(records))
	for _, r := range records {
		if r.ROI != nil {
			rois = append(rois, *r.ROI)
		}
	}

	limit := 1.0
	if v, ok := processing.Quantile(rois, s.roiCapQuantile); ok && v > limit {
		limit = v
	}
	return limit, nil
}

func (s *MovieService) report(ctx context.Context, movie *models.Movie, source string) (*models.MovieReport, error) {
	roiCap, err := s.ROICap(ctx)
	if err != nil {
		return nil, err
	}
	if movie.ROI != nil && *movie.ROI > roiCap {
		roiCap = *movie.ROI
	}

	hit := movie.IsHit()
	badge := models.NotHitBadge
	if hit {
		badge = models.HitBadge
	}

	s.metrics.RecordHitCheck(source, hit)
	s.logger.Debug(ctx, "[MOVIE_CHECK] Movie classified", logging.Fields{
		"title":  movie.Title,
		"source": source,
		"hit":    hit,
	})

	return &models.MovieReport{
		Movie:  movie,
		IsHit:  hit,
		Badge:  badge,
		Rule:   models.RuleFixedThreshold,
		ROICap: roiCap,
	}, nil
}
