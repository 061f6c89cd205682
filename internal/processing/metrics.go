package processing

import (
	"math"

	"movie-analyzer/internal/models"
)

// DefaultHitQuantile is the percentile both rating and ROI must reach for a
// dataset-relative hit.
const DefaultHitQuantile = 0.75

// Profit is income - budget; a missing operand gives a missing result.
func Profit(income, budget *float64) *float64 {
	if income == nil || budget == nil {
		return nil
	}
	p := *income - *budget
	return &p
}

// ROI is income / budget; zero or missing budget, missing income and any
// non-finite quotient give a missing result.
func ROI(income, budget *float64) *float64 {
	if income == nil || budget == nil || *budget == 0 {
		return nil
	}
	r := *income / *budget
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil
	}
	return &r
}

// ComputeThresholds computes the rating and ROI cuts over every record.
// Records without a value are skipped. An empty slice yields nil cuts.
func ComputeThresholds(records []*models.MovieRecord, q float64) models.Thresholds {
	ratings := make([]*float64, len(records))
	rois := make([]*float64, len(records))
	for i, r := range records {
		ratings[i] = r.Rating
		rois[i] = r.ROI
	}

	th := models.Thresholds{Quantile: q}

	rv := present(ratings)
	th.RatingCount = len(rv)
	if cut, ok := Quantile(rv, q); ok {
		th.RatingCut = &cut
	}

	ov := present(rois)
	th.ROICount = len(ov)
	if cut, ok := Quantile(ov, q); ok {
		th.ROICut = &cut
	}

	return th
}

// AddMetrics sets Profit, ROI and Hit on every record. Thresholds are computed
// once over the whole slice; pass the full table to get a global hit flag.
func AddMetrics(records []*models.MovieRecord, q float64) models.Thresholds {
	for _, r := range records {
		r.Profit = Profit(r.IncomeNum, r.BudgetNum)
		r.ROI = ROI(r.IncomeNum, r.BudgetNum)
	}

	th := ComputeThresholds(records, q)

	for _, r := range records {
		r.Hit = models.DatasetRelativeHit(r.Rating, r.ROI, th)
	}

	return th
}
