package models

import "time"

// DatasetSummary represents headline statistics over the annotated table.
// Columns is the width of the source table. Only a pipeline run knows it;
// summaries of a served snapshot leave it zero and omit it.
type DatasetSummary struct {
	Rows             int          `json:"rows"`
	Columns          int          `json:"columns,omitempty"`
	MeanRating       *float64     `json:"mean_rating,omitempty"`
	MedianROI        *float64     `json:"median_roi,omitempty"`
	MeanProfitMillis *float64     `json:"mean_profit_millions,omitempty"`
	HitSharePercent  float64      `json:"hit_share_percent"`
	RatingThreshold  *float64     `json:"rating_threshold,omitempty"`
	ROIThreshold     *float64     `json:"roi_threshold,omitempty"`
	ProfitThreshold  *float64     `json:"profit_threshold_millions,omitempty"`
	GenreCounts      []GenreCount `json:"genre_counts"`
	GeneratedAt      time.Time    `json:"generated_at"`
}

// GenreCount is the number of movies per main genre
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// HitShare is the share of hits within one group (a year or a runtime bucket)
type HitShare struct {
	Group        string  `json:"group"`
	Movies       int     `json:"movies"`
	Hits         int     `json:"hits"`
	SharePercent float64 `json:"share_percent"`
}

// YearMetric is one point of a per-year series
type YearMetric struct {
	Year   int     `json:"year"`
	Value  float64 `json:"value"`
	Movies int     `json:"movies"`
}

// YearSeries is a metric aggregated per release year, oldest first
type YearSeries struct {
	Metric    string       `json:"metric"`
	Aggregate string       `json:"aggregate"`
	Points    []YearMetric `json:"points"`
}

// CorrelationMatrix holds pairwise Pearson coefficients over the rows where
// every listed column is present. Values[i][j] is nil when undefined (fewer
// than two rows or a constant column).
type CorrelationMatrix struct {
	Columns []string     `json:"columns"`
	Rows    int          `json:"rows"`
	Values  [][]*float64 `json:"values"`
}

// MovieReport carries what a renderer needs for the single-movie chart.
// ROICap is the display ceiling for the ROI bar.
type MovieReport struct {
	Movie  *Movie  `json:"movie"`
	IsHit  bool    `json:"is_hit"`
	Badge  string  `json:"badge"`
	Rule   string  `json:"rule"`
	ROICap float64 `json:"roi_cap"`
}

// Badge texts shown next to a movie title.
const (
	HitBadge    = "HIT!"
	NotHitBadge = "Not a HIT..."
)

// Rule names reported alongside a classification.
const (
	RuleFixedThreshold  = "fixed_threshold"
	RuleDatasetRelative = "dataset_relative"
)
