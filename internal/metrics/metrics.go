// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics orchestrates the estimation pipeline: it fetches the two
// metric corpora, corrects for indexing delay and self-citation, extrapolates
// partial-year values with the seasonal multiplier, and assembles one
// immutable AnalysisResult. A run either yields a complete result or fails
// with ErrInsufficientData; partial results are never returned silently.
// Implements: prd004-metrics-engine (R1-R6);
//
//	docs/ARCHITECTURE § Metrics Engine.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/pdiddy/journal-metrics/internal/seasonal"
	"github.com/pdiddy/journal-metrics/internal/stats"
	"github.com/pdiddy/journal-metrics/pkg/types"
)

// ErrInsufficientData signals that a metric window holds no citable works.
// A ratio with a zero denominator is undefined and must not be reported as
// zero; this is the one condition that aborts a whole analysis.
var ErrInsufficientData = errors.New("insufficient data: no citable works in a metric window")

// syntheticSpread is the fast-mode stand-in interval half-width.
const syntheticSpread = 0.20

// CorpusFetcher retrieves a journal's citable works for a date range.
// *openalex.Client satisfies it.
type CorpusFetcher interface {
	Works(ctx context.Context, issn string, from, until time.Time, mode types.AnalysisMode) (types.Corpus, error)
}

// SelfCitationEstimator produces self-citation statistics for a corpus.
// *selfcite.Estimator satisfies it.
type SelfCitationEstimator interface {
	Estimate(ctx context.Context, works []types.Work, issn string) types.SelfCitationStats
	Fallback() types.SelfCitationStats
}

// Engine composes the fetcher, the estimators, and the seasonal model into
// the two analysis modes.
type Engine struct {
	fetcher   CorpusFetcher
	selfCites SelfCitationEstimator
	cfg       types.AnalysisConfig
	rng       *rand.Rand
	now       func() time.Time
	warn      io.Writer
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock substitutes the wall clock (for testing).
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithWarnWriter redirects analysis warnings (default: discarded).
func WithWarnWriter(w io.Writer) EngineOption {
	return func(e *Engine) { e.warn = w }
}

// NewEngine creates an analysis engine. The source of randomness is seeded
// from cfg.Seed when set, so enhanced runs are reproducible.
func NewEngine(fetcher CorpusFetcher, selfCites SelfCitationEstimator, cfg types.AnalysisConfig, opts ...EngineOption) *Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		fetcher:   fetcher,
		selfCites: selfCites,
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(seed)),
		now:       time.Now,
		warn:      io.Discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ImpactFactorPeriod is the publication window for the impact-factor-like
// ratio: the two full calendar years immediately preceding the current one.
func ImpactFactorPeriod(today time.Time) types.Period {
	y := today.Year()
	return types.Period{
		From:  time.Date(y-2, 1, 1, 0, 0, 0, 0, time.UTC),
		Until: time.Date(y-1, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

// CiteScorePeriod is the four-year window for the CiteScore-like ratio,
// ending with the current, partial, year.
func CiteScorePeriod(today time.Time) types.Period {
	y := today.Year()
	return types.Period{
		From:  time.Date(y-3, 1, 1, 0, 0, 0, 0, time.UTC),
		Until: time.Date(y, today.Month(), today.Day(), 0, 0, 0, 0, time.UTC),
	}
}

// Analyze runs one full analysis and returns its immutable result. Fast
// mode uses unadjusted citation sums, the fallback self-citation rate, and
// a synthetic interval; enhanced mode applies per-work indexing-delay
// correction, a sampled self-citation rate, and bootstrap bounds.
//
// The sampled rate comes from the CiteScore corpus but is applied to both
// metrics; that coupling is a deliberate approximation inherited from the
// methodology, not an oversight.
func (e *Engine) Analyze(ctx context.Context, issn, journalName string, mode types.AnalysisMode) (*types.AnalysisResult, error) {
	today := e.now().UTC()
	ifPeriod := ImpactFactorPeriod(today)
	csPeriod := CiteScorePeriod(today)

	ifCorpus, err := e.fetcher.Works(ctx, issn, ifPeriod.From, ifPeriod.Until, mode)
	if err != nil {
		return nil, fmt.Errorf("fetching impact-factor corpus: %w", err)
	}
	csCorpus, err := e.fetcher.Works(ctx, issn, csPeriod.From, csPeriod.Until, mode)
	if err != nil {
		return nil, fmt.Errorf("fetching citescore corpus: %w", err)
	}

	if len(ifCorpus.Works) == 0 || len(csCorpus.Works) == 0 {
		if !ifCorpus.Complete() || !csCorpus.Complete() {
			fmt.Fprintf(e.warn, "warning: empty corpus after a partial fetch; the journal may not actually be empty\n")
		}
		return nil, fmt.Errorf("%w for %s", ErrInsufficientData, issn)
	}

	field := seasonal.Classify(journalName)
	multipliers := seasonal.Multipliers(today, seasonal.Weights(field))

	var selfStats types.SelfCitationStats
	var impactFactor, citeScore types.MetricEstimate
	if mode == types.ModeEnhanced {
		selfStats = e.selfCites.Estimate(ctx, csCorpus.Works, issn)
		impactFactor = e.preciseEstimate(ifCorpus.Works, today, multipliers, selfStats.Rate)
		citeScore = e.preciseEstimate(csCorpus.Works, today, multipliers, selfStats.Rate)
	} else {
		selfStats = e.selfCites.Fallback()
		impactFactor = fastEstimate(ifCorpus, multipliers)
		citeScore = fastEstimate(csCorpus, multipliers)
	}

	return &types.AnalysisResult{
		ISSN:               issn,
		JournalName:        journalName,
		Field:              string(field),
		Mode:               mode,
		AnalyzedAt:         today,
		ImpactFactorPeriod: ifPeriod,
		CiteScorePeriod:    csPeriod,
		ImpactFactor:       impactFactor,
		CiteScore:          citeScore,
		SelfCitation:       selfStats,
		ImpactFactorWorks:  len(ifCorpus.Works),
		CiteScoreWorks:     len(csCorpus.Works),
		PartialData:        !ifCorpus.Complete() || !csCorpus.Complete(),
	}, nil
}

// fastEstimate builds a metric from unadjusted citation sums with the
// synthetic stand-in interval around the balanced forecast.
func fastEstimate(corpus types.Corpus, multipliers types.MultiplierSet) types.MetricEstimate {
	current := float64(corpus.TotalCitations()) / float64(len(corpus.Works))
	forecasts := scaleSet(multipliers, current)
	return types.MetricEstimate{
		Current:   current,
		Forecasts: forecasts,
		Confidence: types.ConfidenceInterval{
			Mean:   forecasts.Balanced,
			Lower:  forecasts.Balanced * (1 - syntheticSpread),
			Upper:  forecasts.Balanced * (1 + syntheticSpread),
			Method: types.IntervalSynthetic,
		},
	}
}

// preciseEstimate builds a metric from indexing-delay-adjusted per-work
// counts, scaled down by the self-citation rate, with bootstrap bounds
// rescaled onto the balanced forecast.
func (e *Engine) preciseEstimate(works []types.Work, today time.Time, multipliers types.MultiplierSet, selfRate float64) types.MetricEstimate {
	adjusted := make([]float64, len(works))
	total := 0.0
	for i, w := range works {
		adjusted[i] = float64(w.Citations) / Adjustment(w.Published, today)
		total += adjusted[i]
	}

	keep := 1 - selfRate
	current := total * keep / float64(len(works))
	forecasts := scaleSet(multipliers, current)

	mean, lower, upper := stats.Bootstrap(adjusted, e.cfg.BootstrapIterations, e.cfg.Confidence, e.rng)
	scale := keep * multipliers.Balanced
	return types.MetricEstimate{
		Current:   current,
		Forecasts: forecasts,
		Confidence: types.ConfidenceInterval{
			Mean:   mean * scale,
			Lower:  lower * scale,
			Upper:  upper * scale,
			Method: types.IntervalBootstrap,
		},
	}
}

// scaleSet applies a base value to every posture multiplier.
func scaleSet(m types.MultiplierSet, base float64) types.MultiplierSet {
	return types.MultiplierSet{
		Conservative: m.Conservative * base,
		Balanced:     m.Balanced * base,
		Optimistic:   m.Optimistic * base,
	}
}
