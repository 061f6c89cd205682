package models

import (
	"fmt"
	"time"
)

// MovieRecord represents one row of the cleaned, metric-annotated movie table.
// Missing values are nil pointers, never zero.
type MovieRecord struct {
	ID         int64     `json:"-" db:"id"`
	SnapshotID string    `json:"-" db:"snapshot_id"`
	Title      string    `json:"title" db:"title"`
	Year       *int      `json:"year,omitempty" db:"year"`
	Decade     *int      `json:"decade,omitempty" db:"decade"`
	MonthNum   *int      `json:"month_num,omitempty" db:"month_num"`
	RuntimeMin *float64  `json:"runtime_min,omitempty" db:"runtime_min"`
	VotesNum   *float64  `json:"votes_num,omitempty" db:"votes_num"`
	GrossUSD   *float64  `json:"gross_usd,omitempty" db:"gross_usd"`
	Rating     *float64  `json:"rating,omitempty" db:"rating"`
	BudgetNum  *float64  `json:"budget_num,omitempty" db:"budget_num"`
	IncomeNum  *float64  `json:"income_num,omitempty" db:"income_num"`
	GenreMain  *string   `json:"genre_main,omitempty" db:"genre_main"`
	Profit     *float64  `json:"profit,omitempty" db:"profit"`
	ROI        *float64  `json:"roi,omitempty" db:"roi"`
	Hit        bool      `json:"hit" db:"hit"`
	CreatedAt  time.Time `json:"-" db:"created_at"`
}

// Movie is a single movie built from a table row or from user-supplied values.
// Profit and ROI are computed eagerly at construction.
type Movie struct {
	Title  string   `json:"title"`
	Budget float64  `json:"budget"`
	Income float64  `json:"income"`
	Rating float64  `json:"rating"`
	Profit float64  `json:"profit"`
	ROI    *float64 `json:"roi"`
}

// NewMovie creates a movie and derives profit and ROI.
// ROI is nil unless budget is strictly positive.
func NewMovie(title string, budget, income, rating float64) *Movie {
	m := &Movie{
		Title:  title,
		Budget: budget,
		Income: income,
		Rating: rating,
		Profit: income - budget,
	}

	if budget > 0 {
		roi := income / budget
		m.ROI = &roi
	}

	return m
}

// MovieFromRecord creates a movie from a table row (budget_num, income_num, rating).
// A row missing any of the three cannot form a movie and yields a ValidationError.
func MovieFromRecord(r *MovieRecord) (*Movie, error) {
	if r == nil {
		return nil, &ValidationError{Field: "record", Message: "record is nil"}
	}

	switch {
	case r.BudgetNum == nil:
		return nil, &ValidationError{Field: "budget_num", Value: r.Title, Message: "budget is missing"}
	case r.IncomeNum == nil:
		return nil, &ValidationError{Field: "income_num", Value: r.Title, Message: "income is missing"}
	case r.Rating == nil:
		return nil, &ValidationError{Field: "rating", Value: r.Title, Message: "rating is missing"}
	}

	return NewMovie(r.Title, *r.BudgetNum, *r.IncomeNum, *r.Rating), nil
}

// IsHit applies the fixed-threshold rule (roi > 1 and rating > 7).
func (m *Movie) IsHit() bool {
	return FixedThresholdHit(m.ROI, m.Rating)
}

// String renders the one-line description used by the lookup tool.
func (m *Movie) String() string {
	roi := "n/a"
	if m.ROI != nil {
		roi = fmt.Sprintf("%.2f", *m.ROI)
	}
	return fmt.Sprintf("%s → ROI: %s, Rating: %g", m.Title, roi, m.Rating)
}

// ValidationError represents a data validation error
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsTransient returns false as validation errors are permanent
func (e *ValidationError) IsTransient() bool {
	return false
}
