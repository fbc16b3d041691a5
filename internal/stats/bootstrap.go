// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stats provides the resampling-based interval estimation used for
// enhanced-mode confidence bounds.
// Implements: prd004-metrics-engine R5 (bootstrap intervals).
package stats

import (
	"math"
	"math/rand"
	"sort"
)

// DefaultIterations is the enhanced-mode resample count. Fast mode skips
// bootstrapping entirely.
const DefaultIterations = 500

// Bootstrap computes a point estimate and a two-sided confidence interval
// for the mean of samples by resampling with replacement. It returns the
// true mean of the input alongside the (1-confidence)/2 and
// 1-(1-confidence)/2 percentiles of the resample-mean distribution.
//
// An empty input returns all zeros; that is a defined edge case, not an
// error. rng is injected so runs are reproducible under a fixed seed.
func Bootstrap(samples []float64, iterations int, confidence float64, rng *rand.Rand) (mean, lower, upper float64) {
	if len(samples) == 0 {
		return 0, 0, 0
	}
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}

	sum := 0.0
	for _, v := range samples {
		sum += v
	}
	mean = sum / float64(len(samples))

	resampleMeans := make([]float64, iterations)
	for i := 0; i < iterations; i++ {
		total := 0.0
		for j := 0; j < len(samples); j++ {
			total += samples[rng.Intn(len(samples))]
		}
		resampleMeans[i] = total / float64(len(samples))
	}
	sort.Float64s(resampleMeans)

	alpha := (1 - confidence) / 2
	lower = percentile(resampleMeans, alpha)
	upper = percentile(resampleMeans, 1-alpha)
	return mean, lower, upper
}

// percentile returns the p-quantile of sorted values via nearest-rank.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
