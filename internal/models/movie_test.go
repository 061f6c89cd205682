package models

import (
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

// TestNewMovie covers profit, ROI and the fixed-threshold hit rule
func TestNewMovie(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		budget     float64
		income     float64
		rating     float64
		wantProfit float64
		wantROI    *float64
		wantHit    bool
	}{
		{
			name:       "clear hit",
			title:      "T",
			budget:     100,
			income:     250,
			rating:     8.0,
			wantProfit: 150,
			wantROI:    floatPtr(2.5),
			wantHit:    true,
		},
		{
			name:       "modest roi still a hit",
			title:      "U",
			budget:     100,
			income:     150,
			rating:     8.0,
			wantProfit: 50,
			wantROI:    floatPtr(1.5),
			wantHit:    true,
		},
		{
			name:       "roi exactly one is not a hit",
			title:      "V",
			budget:     100,
			income:     100,
			rating:     9,
			wantProfit: 0,
			wantROI:    floatPtr(1.0),
			wantHit:    false,
		},
		{
			name:       "rating exactly seven is not a hit",
			title:      "W",
			budget:     100,
			income:     400,
			rating:     7,
			wantProfit: 300,
			wantROI:    floatPtr(4),
			wantHit:    false,
		},
		{
			name:       "zero budget has no roi",
			title:      "X",
			budget:     0,
			income:     400,
			rating:     9,
			wantProfit: 400,
			wantROI:    nil,
			wantHit:    false,
		},
		{
			name:       "loss making",
			title:      "Y",
			budget:     300,
			income:     100,
			rating:     8.5,
			wantProfit: -200,
			wantROI:    floatPtr(100.0 / 300.0),
			wantHit:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMovie(tt.title, tt.budget, tt.income, tt.rating)

			if m.Title != tt.title {
				t.Errorf("Title = %v, want %v", m.Title, tt.title)
			}
			if m.Profit != tt.wantProfit {
				t.Errorf("Profit = %v, want %v", m.Profit, tt.wantProfit)
			}

			switch {
			case tt.wantROI == nil && m.ROI != nil:
				t.Errorf("ROI = %v, want nil", *m.ROI)
			case tt.wantROI != nil && m.ROI == nil:
				t.Errorf("ROI = nil, want %v", *tt.wantROI)
			case tt.wantROI != nil && *m.ROI != *tt.wantROI:
				t.Errorf("ROI = %v, want %v", *m.ROI, *tt.wantROI)
			}

			if got := m.IsHit(); got != tt.wantHit {
				t.Errorf("IsHit() = %v, want %v", got, tt.wantHit)
			}
		})
	}
}

func TestMovieFromRecord(t *testing.T) {
	rec := &MovieRecord{
		Title:     "Heat",
		BudgetNum: floatPtr(60e6),
		IncomeNum: floatPtr(187e6),
		Rating:    floatPtr(8.3),
	}

	m, err := MovieFromRecord(rec)
	if err != nil {
		t.Fatalf("MovieFromRecord() error = %v", err)
	}
	if m.Title != "Heat" || m.Budget != 60e6 || m.Income != 187e6 || m.Rating != 8.3 {
		t.Errorf("MovieFromRecord() = %+v", m)
	}
	if !m.IsHit() {
		t.Error("expected Heat to be a hit under the fixed rule")
	}

	missing := []*MovieRecord{
		nil,
		{Title: "no budget", IncomeNum: floatPtr(1), Rating: floatPtr(1)},
		{Title: "no income", BudgetNum: floatPtr(1), Rating: floatPtr(1)},
		{Title: "no rating", BudgetNum: floatPtr(1), IncomeNum: floatPtr(1)},
	}
	for _, r := range missing {
		_, err := MovieFromRecord(r)
		if err == nil {
			t.Errorf("MovieFromRecord(%+v) expected error", r)
			continue
		}
		if _, ok := err.(*ValidationError); !ok {
			t.Errorf("error type = %T, want *ValidationError", err)
		}
	}
}

func TestMovieString(t *testing.T) {
	m := NewMovie("T", 100, 250, 8)
	if got, want := m.String(), "T → ROI: 2.50, Rating: 8"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	free := NewMovie("F", 0, 10, 6.5)
	if got, want := free.String(), "F → ROI: n/a, Rating: 6.5"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDatasetRelativeHit(t *testing.T) {
	th := Thresholds{Quantile: 0.75, RatingCut: floatPtr(7.5), ROICut: floatPtr(3)}

	tests := []struct {
		name   string
		rating *float64
		roi    *float64
		th     Thresholds
		want   bool
	}{
		{"both at cut", floatPtr(7.5), floatPtr(3), th, true},
		{"both above", floatPtr(9), floatPtr(10), th, true},
		{"rating below", floatPtr(7.4), floatPtr(10), th, false},
		{"roi below", floatPtr(9), floatPtr(2.9), th, false},
		{"missing rating", nil, floatPtr(10), th, false},
		{"missing roi", floatPtr(9), nil, th, false},
		{"no roi cut", floatPtr(9), floatPtr(10), Thresholds{RatingCut: floatPtr(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DatasetRelativeHit(tt.rating, tt.roi, tt.th); got != tt.want {
				t.Errorf("DatasetRelativeHit() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestValidationError tests error handling
func TestValidationError(t *testing.T) {
	err := &ValidationError{
		Field:   "rating",
		Value:   "Heat",
		Message: "rating is missing",
	}

	if err.Error() != "rating is missing" {
		t.Errorf("Error() = %v, want %v", err.Error(), "rating is missing")
	}

	if err.IsTransient() {
		t.Error("ValidationError should not be transient")
	}
}
