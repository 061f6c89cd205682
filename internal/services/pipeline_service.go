package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"movie-analyzer/internal/models"
	"movie-analyzer/internal/processing"
	"movie-analyzer/internal/repository"
	"movie-analyzer/pkg/logging"
	"movie-analyzer/pkg/metrics"
)

// Pipeline run outcomes, also used as the metrics label.
const (
	OutcomeOK     = "ok"
	OutcomeEmpty  = "empty"
	OutcomeFailed = "failed"
)

// PipelineService runs load, clean, metrics and save over the movie CSV and
// publishes the annotated snapshot.
type PipelineService struct {
	store    repository.MovieRepository
	logger   *logging.StructuredLogger
	metrics  *metrics.Collector
	quantile float64
}

// PipelineOptions configures one run
type PipelineOptions struct {
	InputPath string
	// CleanPath, when set, also receives the cleaned table before metrics.
	CleanPath  string
	OutputPath string
	Persist    bool
}

// PipelineResult contains run statistics
type PipelineResult struct {
	RunID      string
	Outcome    string
	Report     *processing.CleanReport
	Thresholds models.Thresholds
	Summary    *models.DatasetSummary
	Records    []*models.MovieRecord
	Columns    []string
	Hits       int
	Persisted  bool
	Duration   time.Duration
	// LoadError is the source failure the run continued past, if any.
	LoadError error
}

// SnapshotResult describes a snapshot published by LoadSnapshot
type SnapshotResult struct {
	SnapshotID string `json:"snapshot_id"`
	Movies     int    `json:"movies"`
	Hits       int    `json:"hits"`
	Recomputed bool   `json:"recomputed"`
}

// NewPipelineService creates a pipeline service. store may be nil when no
// snapshot is published.
func NewPipelineService(store repository.MovieRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector, hitQuantile float64) *PipelineService {
	if hitQuantile <= 0 || hitQuantile > 1 {
		hitQuantile = processing.DefaultHitQuantile
	}
	return &PipelineService{
		store:    store,
		logger:   logger,
		metrics:  metricsCollector,
		quantile: hitQuantile,
	}
}

// Run executes the full pipeline. A source that cannot be loaded is logged
// and treated as an empty table; only write failures fail the run.
func (s *PipelineService) Run(ctx context.Context, opts PipelineOptions) (*PipelineResult, error) {
	timer := s.metrics.NewTimer(s.metrics.PipelineDuration)
	result := &PipelineResult{RunID: uuid.NewString()}
	ctx = logging.WithRequestID(ctx, result.RunID)

	s.logger.Info(ctx, "[PIPELINE_START] Starting movie pipeline", logging.Fields{
		"input_path":   opts.InputPath,
		"output_path":  opts.OutputPath,
		"hit_quantile": s.quantile,
		"persist":      opts.Persist,
		"stage":        "INITIALIZATION",
	})

	raw, err := processing.LoadTable(opts.InputPath)
	if err != nil {
		result.LoadError = err
		kind := string(processing.LoadIO)
		var le *processing.LoadError
		if errors.As(err, &le) {
			kind = string(le.Kind)
		}
		s.metrics.RecordLoadError(kind)
		s.logger.Error(ctx, "[PIPELINE_LOAD_ERROR] Source could not be loaded, continuing with an empty table", logging.Fields{
			"input_path": opts.InputPath,
			"kind":       kind,
			"stage":      "LOAD",
		}, err)
		raw = processing.NewTable()
	}

	clean, report := processing.Clean(raw)
	result.Report = report

	s.logger.Info(ctx, "[PIPELINE_CLEAN] Table cleaned", logging.Fields{
		"rows_in":            report.RowsIn,
		"rows_out":           report.RowsOut,
		"duplicates_dropped": report.DuplicatesDropped,
		"parse_misses":       report.ParseMisses,
		"genre_unmatched":    report.GenreUnmatched,
		"stage":              "CLEAN",
	})

	if opts.CleanPath != "" && len(clean.Columns) > 0 {
		if err := processing.SaveTable(opts.CleanPath, clean); err != nil {
			return s.fail(ctx, result, timer, fmt.Errorf("failed to save clean table: %w", err))
		}
	}

	records := processing.BuildRecords(clean)
	result.Thresholds = processing.AddMetrics(records, s.quantile)
	processing.AnnotateTable(clean, records)
	result.Records = records
	result.Columns = clean.Columns
	result.Hits = countHits(records)
	result.Summary = Summarize(records, len(clean.Columns), s.quantile)

	if !result.Thresholds.Valid() {
		s.logger.Warn(ctx, "[PIPELINE_THRESHOLDS] Hit thresholds unavailable, no movie is flagged", logging.Fields{
			"rating_values": result.Thresholds.RatingCount,
			"roi_values":    result.Thresholds.ROICount,
			"stage":         "METRICS",
		})
	}

	if len(clean.Columns) > 0 {
		if err := processing.SaveTable(opts.OutputPath, clean); err != nil {
			return s.fail(ctx, result, timer, fmt.Errorf("failed to save metrics table: %w", err))
		}
	} else {
		s.logger.Warn(ctx, "[PIPELINE_SAVE_SKIPPED] Nothing to write", logging.Fields{
			"output_path": opts.OutputPath,
			"stage":       "SAVE",
		})
	}

	if opts.Persist && s.store != nil {
		if err := s.store.ReplaceSnapshot(ctx, result.RunID, records); err != nil {
			return s.fail(ctx, result, timer, fmt.Errorf("failed to persist snapshot: %w", err))
		}
		result.Persisted = true
	}

	result.Outcome = OutcomeOK
	if len(records) == 0 {
		result.Outcome = OutcomeEmpty
	}
	result.Duration = timer.ObserveDuration()

	s.metrics.RecordPipelineRun(result.Outcome, report.RowsIn, report.RowsOut, report.DuplicatesDropped, report.ParseMisses)
	s.metrics.SetThresholds(result.Thresholds.RatingCut, result.Thresholds.ROICut)

	s.logger.Info(ctx, "[PIPELINE_COMPLETE] Movie pipeline completed", logging.Fields{
		"outcome":          result.Outcome,
		"movies":           len(records),
		"hits":             result.Hits,
		"persisted":        result.Persisted,
		"duration_seconds": result.Duration.Seconds(),
		"stage":            "COMPLETE",
	})

	return result, nil
}

func (s *PipelineService) fail(ctx context.Context, result *PipelineResult, timer *metrics.Timer, err error) (*PipelineResult, error) {
	result.Outcome = OutcomeFailed
	result.Duration = timer.ObserveDuration()
	s.metrics.PipelineRunsTotal.WithLabelValues(OutcomeFailed).Inc()
	s.logger.Error(ctx, "[PIPELINE_FAILED] Movie pipeline failed", logging.Fields{
		"duration_seconds": result.Duration.Seconds(),
		"stage":            "FAILED",
	}, err)
	return result, err
}

// LoadSnapshot reads an annotated CSV and publishes it to the store. A table
// without a hit column is cleaned and classified first.
func (s *PipelineService) LoadSnapshot(ctx context.Context, path string) (*SnapshotResult, error) {
	if s.store == nil {
		return nil, errors.New("no snapshot store configured")
	}

	t, err := processing.LoadTable(path)
	if err != nil {
		var le *processing.LoadError
		if errors.As(err, &le) {
			s.metrics.RecordLoadError(string(le.Kind))
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	result := &SnapshotResult{SnapshotID: uuid.NewString()}

	var records []*models.MovieRecord
	var th models.Thresholds
	if t.Has(processing.ColHit) {
		records = processing.BuildRecords(t)
		th = processing.ComputeThresholds(records, s.quantile)
	} else {
		clean, _ := processing.Clean(t)
		records = processing.BuildRecords(clean)
		th = processing.AddMetrics(records, s.quantile)
		result.Recomputed = true
	}

	if err := s.store.ReplaceSnapshot(ctx, result.SnapshotID, records); err != nil {
		return nil, fmt.Errorf("failed to publish snapshot: %w", err)
	}

	result.Movies = len(records)
	result.Hits = countHits(records)
	s.metrics.SetSnapshot(result.Movies, result.Hits)
	s.metrics.SetThresholds(th.RatingCut, th.ROICut)

	s.logger.Info(ctx, "[SNAPSHOT_LOADED] Movie snapshot published", logging.Fields{
		"path":        path,
		"snapshot_id": result.SnapshotID,
		"movies":      result.Movies,
		"hits":        result.Hits,
		"recomputed":  result.Recomputed,
	})

	return result, nil
}

func countHits(records []*models.MovieRecord) int {
	n := 0
	for _, r := range records {
		if r.Hit {
			n++
		}
	}
	return n
}
