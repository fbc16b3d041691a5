// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package seasonal

import (
	"time"

	"github.com/pdiddy/journal-metrics/pkg/types"
)

// Posture elapsed-term perturbations. Conservative inflates the elapsed
// fraction by 10%, shrinking the extrapolation; optimistic deflates it.
const (
	conservativeElapsedScale = 1.1
	optimisticElapsedScale   = 0.9
)

// Multiplier extrapolates a partial-year observation to a full-year
// estimate. It weights each elapsed day by its month's activity weight:
// full months contribute weight x calendar length, the current month
// contributes weight x days already passed (zero on the 1st). The raw
// multiplier is the full-year weighted total over the elapsed weighted
// total, perturbed by posture.
//
// At the exact start of the year the elapsed total is zero and the neutral
// multiplier 1.0 is returned for every posture.
func Multiplier(today time.Time, table Table, posture types.Posture) float64 {
	elapsed := elapsedWeight(today, table)
	if elapsed == 0 {
		return 1.0
	}

	switch posture {
	case types.PostureConservative:
		elapsed *= conservativeElapsedScale
	case types.PostureOptimistic:
		elapsed *= optimisticElapsedScale
	}
	return fullYearWeight(today.Year(), table) / elapsed
}

// Multipliers computes the multiplier at all three postures.
func Multipliers(today time.Time, table Table) types.MultiplierSet {
	return types.MultiplierSet{
		Conservative: Multiplier(today, table, types.PostureConservative),
		Balanced:     Multiplier(today, table, types.PostureBalanced),
		Optimistic:   Multiplier(today, table, types.PostureOptimistic),
	}
}

// elapsedWeight sums weight x days for the year up to today: full calendar
// lengths for past months, days already passed for the current month.
func elapsedWeight(today time.Time, table Table) float64 {
	year, month, day := today.Year(), int(today.Month()), today.Day()
	total := 0.0
	for m := 1; m < month; m++ {
		total += table[m] * float64(daysInMonth(year, m))
	}
	total += table[month] * float64(day-1)
	return total
}

// fullYearWeight sums weight x calendar length over all twelve months.
func fullYearWeight(year int, table Table) float64 {
	total := 0.0
	for m := 1; m <= 12; m++ {
		total += table[m] * float64(daysInMonth(year, m))
	}
	return total
}

// daysInMonth returns the calendar length of a month in a given year.
func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
