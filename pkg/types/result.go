// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Posture selects how aggressively the temporal multiplier extrapolates a
// partial-year value to year end.
type Posture string

const (
	PostureConservative Posture = "conservative"
	PostureBalanced     Posture = "balanced"
	PostureOptimistic   Posture = "optimistic"
)

// MultiplierSet holds the year-end extrapolation factor at each posture.
// Invariant: Conservative <= Balanced <= Optimistic, all positive.
type MultiplierSet struct {
	Conservative float64 `json:"conservative" yaml:"conservative"`
	Balanced     float64 `json:"balanced" yaml:"balanced"`
	Optimistic   float64 `json:"optimistic" yaml:"optimistic"`
}

// At returns the multiplier for the given posture, defaulting to balanced.
func (m MultiplierSet) At(p Posture) float64 {
	switch p {
	case PostureConservative:
		return m.Conservative
	case PostureOptimistic:
		return m.Optimistic
	default:
		return m.Balanced
	}
}

// IntervalMethod identifies how a confidence interval was produced.
type IntervalMethod string

const (
	// IntervalBootstrap marks a real resampling interval (enhanced mode).
	IntervalBootstrap IntervalMethod = "bootstrap"

	// IntervalSynthetic marks the fast-mode stand-in: a fixed spread
	// around the balanced forecast. It is an approximation, not a
	// statistical interval, and stays labeled as such in results.
	IntervalSynthetic IntervalMethod = "synthetic"
)

// ConfidenceInterval is a two-sided interval around a point estimate.
type ConfidenceInterval struct {
	Mean   float64        `json:"mean" yaml:"mean"`
	Lower  float64        `json:"lower_95" yaml:"lower_95"`
	Upper  float64        `json:"upper_95" yaml:"upper_95"`
	Method IntervalMethod `json:"method" yaml:"method"`
}

// MetricEstimate is one indicator's current value, its three-posture
// year-end forecasts, and its confidence bounds. Read-only after the
// orchestrator assembles it.
type MetricEstimate struct {
	Current    float64            `json:"current" yaml:"current"`
	Forecasts  MultiplierSet      `json:"forecasts" yaml:"forecasts"`
	Confidence ConfidenceInterval `json:"confidence" yaml:"confidence"`
}

// SelfCitationStats summarizes the self-citation estimate for a run.
type SelfCitationStats struct {
	// Rate is the estimated fraction of citations originating from the
	// analyzed journal itself, in [0, 1].
	Rate float64 `json:"rate" yaml:"rate"`

	// Sampled reports whether Rate came from sampling citing works.
	// False means the fixed fallback rate was used.
	Sampled bool `json:"sampled" yaml:"sampled"`

	// SampledWorks is the number of works whose citing works were inspected.
	SampledWorks int `json:"sampled_works" yaml:"sampled_works"`

	// EstimatedSelfCitations and ObservedCitations aggregate the per-work
	// estimates across the sample.
	EstimatedSelfCitations int `json:"estimated_self_citations" yaml:"estimated_self_citations"`
	ObservedCitations      int `json:"observed_citations" yaml:"observed_citations"`
}

// Period is an inclusive calendar date range.
type Period struct {
	From  time.Time `json:"from" yaml:"from"`
	Until time.Time `json:"until" yaml:"until"`
}

// AnalysisResult is the single immutable record produced by a successful
// analysis run. It is created atomically by the orchestrator: either a full
// result is returned or the run fails with no result.
type AnalysisResult struct {
	ISSN        string       `json:"issn" yaml:"issn"`
	JournalName string       `json:"journal_name" yaml:"journal_name"`
	Field       string       `json:"field" yaml:"field"`
	Mode        AnalysisMode `json:"mode" yaml:"mode"`
	AnalyzedAt  time.Time    `json:"analyzed_at" yaml:"analyzed_at"`

	// ImpactFactorPeriod is the publication window for the impact-factor-like
	// ratio; CiteScorePeriod is the four-year window for the CiteScore-like
	// ratio (its final year is the current, partial, year).
	ImpactFactorPeriod Period `json:"impact_factor_period" yaml:"impact_factor_period"`
	CiteScorePeriod    Period `json:"citescore_period" yaml:"citescore_period"`

	ImpactFactor MetricEstimate `json:"impact_factor" yaml:"impact_factor"`
	CiteScore    MetricEstimate `json:"citescore" yaml:"citescore"`

	SelfCitation SelfCitationStats `json:"self_citation" yaml:"self_citation"`

	// ImpactFactorWorks and CiteScoreWorks are the corpus sizes (the metric
	// denominators).
	ImpactFactorWorks int `json:"impact_factor_works" yaml:"impact_factor_works"`
	CiteScoreWorks    int `json:"citescore_works" yaml:"citescore_works"`

	// PartialData reports whether either corpus fetch ended partial, so a
	// short corpus is not mistaken for the journal's full output.
	PartialData bool `json:"partial_data" yaml:"partial_data"`
}
