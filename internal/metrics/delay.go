// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import "time"

// Indexing-delay factors. Citations of very recent works are under-indexed
// upstream; dividing a raw count by the factor inflates it back toward the
// eventual value.
const (
	adjustmentUnder3Months  = 0.3
	adjustmentUnder6Months  = 0.6
	adjustmentUnder12Months = 0.85
)

// Adjustment returns the indexing-delay factor in (0, 1] for a work
// published at the given date, as seen from today. The factor is a
// non-decreasing step function of age: under 3 months 0.3, under 6 months
// 0.6, under 12 months 0.85, otherwise 1.0. A missing publication date (or
// a date in the future, which indicates bad upstream data) yields the
// neutral factor 1.0.
func Adjustment(published, today time.Time) float64 {
	if published.IsZero() || published.After(today) {
		return 1.0
	}
	switch {
	case published.After(today.AddDate(0, -3, 0)):
		return adjustmentUnder3Months
	case published.After(today.AddDate(0, -6, 0)):
		return adjustmentUnder6Months
	case published.After(today.AddDate(0, -12, 0)):
		return adjustmentUnder12Months
	default:
		return 1.0
	}
}
