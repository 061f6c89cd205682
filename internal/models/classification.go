package models

// Fixed cutoffs used by FixedThresholdHit.
const (
	FixedROICutoff    = 1.0
	FixedRatingCutoff = 7.0
)

// Thresholds holds the dataset-relative cutoffs computed once over a full table.
// A nil cut means no usable values existed for that column.
type Thresholds struct {
	Quantile    float64  `json:"quantile"`
	RatingCut   *float64 `json:"rating_cut,omitempty"`
	ROICut      *float64 `json:"roi_cut,omitempty"`
	RatingCount int      `json:"rating_count"`
	ROICount    int      `json:"roi_count"`
}

// Valid reports whether both cuts could be computed.
func (t Thresholds) Valid() bool {
	return t.RatingCut != nil && t.ROICut != nil
}

// DatasetRelativeHit is the table-level rule: rating and roi both at or above
// their percentile cuts. Missing rating, roi or cut is never a hit.
func DatasetRelativeHit(rating, roi *float64, th Thresholds) bool {
	if rating == nil || roi == nil || !th.Valid() {
		return false
	}
	return *rating >= *th.RatingCut && *roi >= *th.ROICut
}

// FixedThresholdHit is the single-movie rule: roi present, roi > 1 and rating > 7.
func FixedThresholdHit(roi *float64, rating float64) bool {
	if roi == nil {
		return false
	}
	return *roi > FixedROICutoff && rating > FixedRatingCutoff
}
