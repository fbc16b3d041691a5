// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selfcite estimates the fraction of a journal's citations that
// originate from the journal itself, by sampling works and inspecting the
// ISSNs of the works citing them.
// Implements: prd003-self-citation (R1-R4);
//
//	docs/ARCHITECTURE § Self-Citation Sampling.
package selfcite

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/pdiddy/journal-metrics/internal/openalex"
	"github.com/pdiddy/journal-metrics/pkg/types"
)

// DefaultSampleSize caps how many works one estimate inspects.
const DefaultSampleSize = 10

// DefaultFallbackRate is reported when sampling is skipped or impossible.
const DefaultFallbackRate = 0.05

// CitationSource looks up a work's citation count and the ISSN lists of its
// citing works. *openalex.Client satisfies it; tests substitute fakes.
type CitationSource interface {
	WorkCitations(ctx context.Context, workID string) (openalex.CitationSample, error)
}

// Estimator samples works and aggregates per-work self-citation rates.
type Estimator struct {
	source       CitationSource
	rng          *rand.Rand
	sampleSize   int
	fallbackRate float64
	warn         io.Writer
}

// New creates an Estimator. rng is injected so sampling is reproducible
// under a fixed seed; a nil rng panics early rather than silently seeding.
func New(source CitationSource, cfg types.AnalysisConfig, rng *rand.Rand, warn io.Writer) *Estimator {
	if rng == nil {
		panic("selfcite: nil rng")
	}
	sampleSize := cfg.SelfCitationSampleSize
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	fallback := cfg.FallbackSelfCitationRate
	if fallback <= 0 {
		fallback = DefaultFallbackRate
	}
	if warn == nil {
		warn = io.Discard
	}
	return &Estimator{
		source:       source,
		rng:          rng,
		sampleSize:   sampleSize,
		fallbackRate: fallback,
		warn:         warn,
	}
}

// Fallback returns the fixed-rate stats used when sampling is skipped
// (fast mode) or no works are available.
func (e *Estimator) Fallback() types.SelfCitationStats {
	return types.SelfCitationStats{Rate: e.fallbackRate, Sampled: false}
}

// Estimate samples min(sampleSize, len(works)) works at random and returns
// the aggregated self-citation statistics. Per work, the observed rate is
// matching citing works over examined citing works and the estimated
// self-citation count is round(total citations x rate). A lookup failure
// degrades that one work to a zero contribution; it never aborts the batch.
// The aggregate rate averages the nonzero observed rates; an empty work
// list yields the fallback rate.
func (e *Estimator) Estimate(ctx context.Context, works []types.Work, issn string) types.SelfCitationStats {
	if len(works) == 0 {
		return e.Fallback()
	}

	n := e.sampleSize
	if n > len(works) {
		n = len(works)
	}
	order := e.rng.Perm(len(works))

	stats := types.SelfCitationStats{Sampled: true}
	var nonzeroRates []float64
	for _, idx := range order[:n] {
		work := works[idx]
		stats.SampledWorks++

		sample, err := e.source.WorkCitations(ctx, work.ID)
		if err != nil {
			fmt.Fprintf(e.warn, "warning: self-citation lookup for %s failed: %v\n", work.ID, err)
			continue
		}
		if sample.Total == 0 || sample.Examined() == 0 {
			continue
		}

		matches := 0
		for _, issns := range sample.CitingISSNs {
			if containsISSN(issns, issn) {
				matches++
			}
		}

		rate := float64(matches) / float64(sample.Examined())
		stats.ObservedCitations += sample.Total
		stats.EstimatedSelfCitations += int(math.Round(float64(sample.Total) * rate))
		if rate > 0 {
			nonzeroRates = append(nonzeroRates, rate)
		}
	}

	if len(nonzeroRates) > 0 {
		sum := 0.0
		for _, r := range nonzeroRates {
			sum += r
		}
		stats.Rate = clampRate(sum / float64(len(nonzeroRates)))
	}
	return stats
}

// containsISSN reports whether the list declares the target ISSN.
func containsISSN(issns []string, target string) bool {
	for _, s := range issns {
		if s == target {
			return true
		}
	}
	return false
}

// clampRate keeps an estimated rate inside [0, 1].
func clampRate(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
