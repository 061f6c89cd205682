package services

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-analyzer/internal/models"
	"movie-analyzer/internal/processing"
	"movie-analyzer/internal/repository"
	"movie-analyzer/pkg/logging"
	"movie-analyzer/pkg/metrics"
)

func fp(v float64) *float64 { return &v }

func sp(s string) *string { return &s }

func movieRecord(title string, budget, income, rating *float64, genre string) *models.MovieRecord {
	r := &models.MovieRecord{
		Title:     title,
		BudgetNum: budget,
		IncomeNum: income,
		Rating:    rating,
		Profit:    processing.Profit(income, budget),
		ROI:       processing.ROI(income, budget),
	}
	if genre != "" {
		r.GenreMain = &genre
	}
	return r
}

func newMovieService(t *testing.T) (*MovieService, *metrics.Collector) {
	t.Helper()
	store := repository.NewSnapshotRepository(logging.NewNopLogger())
	records := []*models.MovieRecord{
		movieRecord("Inception", fp(160), fp(830), fp(8.8), "Action"),
		movieRecord("Cats", fp(95), fp(75), fp(2.8), "Comedy"),
		movieRecord("Heat", fp(60), fp(187), fp(8.3), "Crime"),
		movieRecord("No Budget", nil, fp(100), fp(7), "Drama"),
	}
	records[0].Hit = true
	require.NoError(t, store.ReplaceSnapshot(context.Background(), "snap", records))

	m := metrics.NewTestCollector()
	return NewMovieService(store, logging.NewNopLogger(), m, 0.99), m
}

func datasetROICap() float64 {
	v, _ := processing.Quantile([]float64{75.0 / 95, 187.0 / 60, 830.0 / 160}, 0.99)
	return v
}

func TestMovieService_Lookup(t *testing.T) {
	svc, m := newMovieService(t)
	ctx := context.Background()

	report, err := svc.Lookup(ctx, "inception")
	require.NoError(t, err)
	assert.Equal(t, "Inception", report.Movie.Title)
	assert.True(t, report.IsHit)
	assert.Equal(t, models.HitBadge, report.Badge)
	assert.Equal(t, models.RuleFixedThreshold, report.Rule)
	require.NotNil(t, report.Movie.ROI)
	assert.Equal(t, *report.Movie.ROI, report.ROICap, "cap stretches to the movie's own roi")
	assert.Equal(t, 670.0, report.Movie.Profit)

	report, err = svc.Lookup(ctx, "CATS")
	require.NoError(t, err)
	assert.False(t, report.IsHit)
	assert.Equal(t, models.NotHitBadge, report.Badge)
	assert.InDelta(t, datasetROICap(), report.ROICap, 1e-9)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HitChecksTotal.WithLabelValues(SourceDataset, "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HitChecksTotal.WithLabelValues(SourceDataset, "miss")))
}

func TestMovieService_LookupErrors(t *testing.T) {
	svc, _ := newMovieService(t)
	ctx := context.Background()

	_, err := svc.Lookup(ctx, "Nope")
	var nf *repository.NotFoundError
	assert.ErrorAs(t, err, &nf)

	_, err = svc.Lookup(ctx, "  ")
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Field)

	_, err = svc.Lookup(ctx, "no budget")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "budget_num", ve.Field)
}

func TestMovieService_CheckCustom(t *testing.T) {
	svc, m := newMovieService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		in        CustomMovie
		wantHit   bool
		wantTitle string
		wantField string
	}{
		{"hit", CustomMovie{Budget: 100, Income: 250, Rating: 7.5}, true, DefaultCustomTitle, ""},
		{"rating on the cutoff", CustomMovie{Title: "Edge", Budget: 100, Income: 250, Rating: 7}, false, "Edge", ""},
		{"roi on the cutoff", CustomMovie{Title: "Even", Budget: 100, Income: 100, Rating: 9}, false, "Even", ""},
		{"zero budget", CustomMovie{Title: "Free", Budget: 0, Income: 100, Rating: 9}, false, "Free", ""},
		{"rating too high", CustomMovie{Budget: 1, Income: 1, Rating: 11}, false, "", "rating"},
		{"negative budget", CustomMovie{Budget: -1, Income: 1, Rating: 5}, false, "", "budget"},
		{"negative income", CustomMovie{Budget: 1, Income: -1, Rating: 5}, false, "", "income"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := svc.CheckCustom(ctx, tt.in)
			if tt.wantField != "" {
				var ve *models.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.wantField, ve.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, report.Movie.Title)
			assert.Equal(t, tt.wantHit, report.IsHit)
			assert.GreaterOrEqual(t, report.ROICap, 1.0)
		})
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HitChecksTotal.WithLabelValues(SourceCustom, "hit")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.HitChecksTotal.WithLabelValues(SourceCustom, "miss")))
}

func TestMovieService_ROICapEmptySnapshot(t *testing.T) {
	store := repository.NewSnapshotRepository(logging.NewNopLogger())
	svc := NewMovieService(store, logging.NewNopLogger(), metrics.NewTestCollector(), 0)

	limit, err := svc.ROICap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, limit)

	report, err := svc.CheckCustom(context.Background(), CustomMovie{Budget: 10, Income: 35, Rating: 8})
	require.NoError(t, err)
	assert.Equal(t, 3.5, report.ROICap)
}

func TestMovieService_List(t *testing.T) {
	svc, _ := newMovieService(t)
	ctx := context.Background()

	movies, total, err := svc.List(ctx, ListQuery{Genre: "comedy"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, movies, 1)
	assert.Equal(t, "Cats", movies[0].Title)

	movies, total, err = svc.List(ctx, ListQuery{HitsOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Inception", movies[0].Title)

	_, total, err = svc.List(ctx, ListQuery{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	_, _, err = svc.List(ctx, ListQuery{Genre: "Western"})
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "genre", ve.Field)

	_, _, err = svc.List(ctx, ListQuery{Offset: -1})
	assert.ErrorAs(t, err, &ve)
}
