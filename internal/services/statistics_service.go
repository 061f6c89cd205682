package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"movie-analyzer/internal/models"
	"movie-analyzer/internal/processing"
	"movie-analyzer/internal/repository"
	"movie-analyzer/pkg/logging"
	"movie-analyzer/pkg/metrics"
)

// runtimeBucket is a half-open [lo, hi) range of minutes.
type runtimeBucket struct {
	label  string
	lo, hi float64
}

var runtimeBuckets = []runtimeBucket{
	{"<90", 0, 90},
	{"90–110", 90, 110},
	{"110–130", 110, 130},
	{"130–150", 130, 150},
	{"≥150", 150, math.Inf(1)},
}

// Metrics accepted by MetricByYear.
const (
	MetricROI    = "roi"
	MetricRating = "rating"
	MetricProfit = "profit"
)

// Per-year aggregates.
const (
	AggregateMedian = "median"
	AggregateMean   = "mean"
)

// yearMetrics maps a metric to its per-year aggregate: medians for the
// skewed money figures, the mean for rating.
var yearMetrics = map[string]struct {
	aggregate string
	value     func(*models.MovieRecord) *float64
}{
	MetricROI:    {AggregateMedian, func(r *models.MovieRecord) *float64 { return r.ROI }},
	MetricRating: {AggregateMean, func(r *models.MovieRecord) *float64 { return r.Rating }},
	MetricProfit: {AggregateMedian, func(r *models.MovieRecord) *float64 { return r.Profit }},
}

// CorrelationColumns are the numeric columns of the correlation matrix, in order.
var CorrelationColumns = []string{
	processing.ColBudgetNum, processing.ColIncomeNum, processing.ColProfit,
	processing.ColROI, processing.ColRating, processing.ColRuntimeMin,
}

func correlationValues(r *models.MovieRecord) []*float64 {
	return []*float64{r.BudgetNum, r.IncomeNum, r.Profit, r.ROI, r.Rating, r.RuntimeMin}
}

// StatisticsService computes dataset-wide aggregates over the served snapshot
type StatisticsService struct {
	repo     repository.MovieRepository
	logger   *logging.StructuredLogger
	metrics  *metrics.Collector
	quantile float64
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(repo repository.MovieRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector, hitQuantile float64) *StatisticsService {
	if hitQuantile <= 0 || hitQuantile > 1 {
		hitQuantile = processing.DefaultHitQuantile
	}
	return &StatisticsService{
		repo:     repo,
		logger:   logger,
		metrics:  metricsCollector,
		quantile: hitQuantile,
	}
}

// Summary returns the headline statistics of the snapshot
func (s *StatisticsService) Summary(ctx context.Context) (*models.DatasetSummary, error) {
	records, err := s.repo.AllMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}

	summary := Summarize(records, 0, s.quantile)

	s.logger.Debug(ctx, "[STATS_SUMMARY] Summary computed", logging.Fields{
		"rows": summary.Rows,
		"hits": summary.HitSharePercent,
	})

	return summary, nil
}

// HitShareByYear returns the share of hits per release year, oldest first.
// Movies without a year are left out.
func (s *StatisticsService) HitShareByYear(ctx context.Context) ([]models.HitShare, error) {
	records, err := s.repo.AllMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}

	byYear := make(map[int]*models.HitShare)
	for _, r := range records {
		if r.Year == nil {
			continue
		}
		hs, ok := byYear[*r.Year]
		if !ok {
			hs = &models.HitShare{Group: strconv.Itoa(*r.Year)}
			byYear[*r.Year] = hs
		}
		hs.Movies++
		if r.Hit {
			hs.Hits++
		}
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	shares := make([]models.HitShare, 0, len(years))
	for _, y := range years {
		shares = append(shares, withShare(*byYear[y]))
	}
	return shares, nil
}

// HitShareByRuntime returns the share of hits per runtime bucket in bucket
// order. Every bucket is reported, empty ones with zero movies.
func (s *StatisticsService) HitShareByRuntime(ctx context.Context) ([]models.HitShare, error) {
	records, err := s.repo.AllMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}

	shares := make([]models.HitShare, len(runtimeBuckets))
	for i, b := range runtimeBuckets {
		shares[i].Group = b.label
	}

	for _, r := range records {
		if r.RuntimeMin == nil {
			continue
		}
		i := bucketIndex(*r.RuntimeMin)
		if i < 0 {
			continue
		}
		shares[i].Movies++
		if r.Hit {
			shares[i].Hits++
		}
	}

	for i := range shares {
		shares[i] = withShare(shares[i])
	}
	return shares, nil
}

// MetricByYear aggregates metric (roi, rating or profit; roi when empty)
// per release year. Movies missing the year or the metric are left out.
func (s *StatisticsService) MetricByYear(ctx context.Context, metric string) (*models.YearSeries, error) {
	name := strings.ToLower(strings.TrimSpace(metric))
	if name == "" {
		name = MetricROI
	}
	spec, ok := yearMetrics[name]
	if !ok {
		return nil, &models.ValidationError{
			Field:   "metric",
			Value:   metric,
			Message: "metric must be one of roi, rating, profit",
		}
	}

	records, err := s.repo.AllMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}

	byYear := make(map[int][]float64)
	for _, r := range records {
		v := spec.value(r)
		if r.Year == nil || v == nil {
			continue
		}
		byYear[*r.Year] = append(byYear[*r.Year], *v)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	series := &models.YearSeries{
		Metric:    name,
		Aggregate: spec.aggregate,
		Points:    make([]models.YearMetric, 0, len(years)),
	}
	for _, y := range years {
		values := byYear[y]
		var agg float64
		if spec.aggregate == AggregateMedian {
			agg, ok = processing.Quantile(values, 0.5)
		} else {
			agg, ok = processing.Mean(values)
		}
		if !ok {
			continue
		}
		series.Points = append(series.Points, models.YearMetric{Year: y, Value: agg, Movies: len(values)})
	}

	return series, nil
}

// Correlations returns the correlation matrix of CorrelationColumns
func (s *StatisticsService) Correlations(ctx context.Context) (*models.CorrelationMatrix, error) {
	records, err := s.repo.AllMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}
	return Correlate(records), nil
}

// Correlate computes Pearson coefficients over the records that carry a
// finite value in every correlation column.
func Correlate(records []*models.MovieRecord) *models.CorrelationMatrix {
	n := len(CorrelationColumns)
	cols := make([][]float64, n)

rows:
	for _, r := range records {
		vals := correlationValues(r)
		for _, v := range vals {
			if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
				continue rows
			}
		}
		for i, v := range vals {
			cols[i] = append(cols[i], *v)
		}
	}

	m := &models.CorrelationMatrix{
		Columns: CorrelationColumns,
		Rows:    len(cols[0]),
		Values:  make([][]*float64, n),
	}
	for i := range m.Values {
		m.Values[i] = make([]*float64, n)
		if m.Rows < 2 {
			continue
		}
		for j := range m.Values[i] {
			c := stat.Correlation(cols[i], cols[j], nil)
			if math.IsNaN(c) || math.IsInf(c, 0) {
				continue
			}
			if i == j {
				c = 1
			}
			m.Values[i][j] = &c
		}
	}
	return m
}

// GenreCounts returns the number of movies per main genre
func (s *StatisticsService) GenreCounts(ctx context.Context) ([]models.GenreCount, error) {
	records, err := s.repo.AllMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}
	return countGenres(records), nil
}

// Summarize computes the dataset summary over records. columns is the width
// of the table the records came from.
func Summarize(records []*models.MovieRecord, columns int, q float64) *models.DatasetSummary {
	summary := &models.DatasetSummary{
		Rows:        len(records),
		Columns:     columns,
		GenreCounts: countGenres(records),
		GeneratedAt: time.Now().UTC(),
	}

	ratings := make([]float64, 0, len(records))
	rois := make([]float64, 0, len(records))
	profits := make([]float64, 0, len(records))
	hits := 0
	for _, r := range records {
		if r.Rating != nil {
			ratings = append(ratings, *r.Rating)
		}
		if r.ROI != nil {
			rois = append(rois, *r.ROI)
		}
		if r.Profit != nil {
			profits = append(profits, *r.Profit)
		}
		if r.Hit {
			hits++
		}
	}

	if v, ok := processing.Mean(ratings); ok {
		summary.MeanRating = &v
	}
	if v, ok := processing.Quantile(rois, 0.5); ok {
		summary.MedianROI = &v
	}
	if v, ok := processing.Mean(profits); ok {
		m := v / 1e6
		summary.MeanProfitMillis = &m
	}
	if len(records) > 0 {
		summary.HitSharePercent = 100 * float64(hits) / float64(len(records))
	}

	if v, ok := processing.Quantile(ratings, q); ok {
		summary.RatingThreshold = &v
	}
	if v, ok := processing.Quantile(rois, q); ok {
		summary.ROIThreshold = &v
	}
	if v, ok := processing.Quantile(profits, q); ok {
		m := v / 1e6
		summary.ProfitThreshold = &m
	}

	return summary
}

// countGenres orders genres by count, most common first, ties by name
func countGenres(records []*models.MovieRecord) []models.GenreCount {
	counts := make(map[string]int)
	for _, r := range records {
		if r.GenreMain != nil {
			counts[*r.GenreMain]++
		}
	}

	out := make([]models.GenreCount, 0, len(counts))
	for g, n := range counts {
		out = append(out, models.GenreCount{Genre: g, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Genre < out[j].Genre
	})
	return out
}

func bucketIndex(minutes float64) int {
	for i, b := range runtimeBuckets {
		if minutes >= b.lo && minutes < b.hi {
			return i
		}
	}
	return -1
}

func withShare(hs models.HitShare) models.HitShare {
	if hs.Movies > 0 {
		hs.SharePercent = 100 * float64(hs.Hits) / float64(hs.Movies)
	}
	return hs
}
