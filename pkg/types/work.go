// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the journal-metrics engine:
// the work records fetched from the bibliographic API, the fetch corpus with
// its completeness status, and the analysis result returned to the CLI.
// Implements: prd001-corpus-fetch (Work, Corpus);
//
//	prd004-metrics-engine (AnalysisResult, MetricEstimate, R1.1-R1.4).
package types

import "time"

// AnalysisMode selects the speed/precision trade-off of an analysis run.
type AnalysisMode string

const (
	// ModeFast fetches a single bounded page per corpus, skips sampling
	// and bootstrapping, and reports synthetic confidence bounds.
	ModeFast AnalysisMode = "fast"

	// ModeEnhanced paginates corpora to exhaustion, samples self-citations,
	// applies indexing-delay correction, and bootstraps real bounds.
	ModeEnhanced AnalysisMode = "enhanced"
)

// Work is one citable work as returned by the bibliographic API, snapshotted
// at fetch time. Records are immutable within an analysis run.
type Work struct {
	// ID is the provider's native work identifier (e.g. "W2741809807").
	// The citing-works lookup requires it; the DOI cannot be used there.
	ID string `json:"id" yaml:"id"`

	// DOI is the bare DOI when the provider knows one.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Type is the provider's document type (e.g. "article", "editorial").
	Type string `json:"type" yaml:"type"`

	// Published is the publication date at UTC midnight. A year-only date
	// from the provider is normalized to January 1 of that year; a missing
	// date is the zero time.
	Published time.Time `json:"published" yaml:"published"`

	// Citations is the work's total citation count at fetch time.
	Citations int `json:"citations" yaml:"citations"`
}

// FetchStatus tags a Corpus with how its fetch concluded, so callers can
// distinguish "empty because the journal published nothing" from "empty or
// short because a request failed mid-pagination".
type FetchStatus string

const (
	// FetchComplete means every page was retrieved.
	FetchComplete FetchStatus = "complete"

	// FetchPartial means a request failed and the corpus holds only the
	// works accumulated before the failure.
	FetchPartial FetchStatus = "partial"
)

// Corpus is the outcome of one corpus fetch: the filtered works plus the
// completeness status and, for partial fetches, the failure that stopped
// pagination.
type Corpus struct {
	Works  []Work      `json:"works" yaml:"works"`
	Status FetchStatus `json:"status" yaml:"status"`

	// FailureReason describes the request failure for partial fetches.
	FailureReason string `json:"failure_reason,omitempty" yaml:"failure_reason,omitempty"`
}

// Complete reports whether the fetch retrieved every page.
func (c Corpus) Complete() bool { return c.Status == FetchComplete }

// TotalCitations sums the citation counts of all works in the corpus.
func (c Corpus) TotalCitations() int {
	total := 0
	for _, w := range c.Works {
		total += w.Citations
	}
	return total
}
