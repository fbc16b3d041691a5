// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selfcite

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/pdiddy/journal-metrics/internal/openalex"
	"github.com/pdiddy/journal-metrics/pkg/types"
)

const testISSN = "1234-5678"

// fakeSource serves canned citation samples keyed by work ID.
type fakeSource struct {
	samples map[string]openalex.CitationSample
	fail    map[string]bool
	calls   int
}

func (f *fakeSource) WorkCitations(_ context.Context, workID string) (openalex.CitationSample, error) {
	f.calls++
	if f.fail[workID] {
		return openalex.CitationSample{}, fmt.Errorf("lookup failed for %s", workID)
	}
	return f.samples[workID], nil
}

func testWorks(n int) []types.Work {
	works := make([]types.Work, n)
	for i := range works {
		works[i] = types.Work{ID: fmt.Sprintf("W%d", i+1), Type: "article"}
	}
	return works
}

func newEstimator(src CitationSource, sampleSize int) *Estimator {
	cfg := types.AnalysisConfig{SelfCitationSampleSize: sampleSize}
	return New(src, cfg, rand.New(rand.NewSource(1)), nil)
}

// selfSample builds a sample where matching of examined citing works carry
// the target ISSN.
func selfSample(total, matching, examined int) openalex.CitationSample {
	s := openalex.CitationSample{Total: total}
	for i := 0; i < examined; i++ {
		if i < matching {
			s.CitingISSNs = append(s.CitingISSNs, []string{testISSN})
		} else {
			s.CitingISSNs = append(s.CitingISSNs, []string{"9999-0000"})
		}
	}
	return s
}

func TestEstimateEmptyWorksYieldsFallback(t *testing.T) {
	e := newEstimator(&fakeSource{}, 10)
	stats := e.Estimate(context.Background(), nil, testISSN)
	if stats.Sampled {
		t.Error("empty sample must not be marked as sampled")
	}
	if stats.Rate != DefaultFallbackRate {
		t.Errorf("Rate = %f, want fallback %f", stats.Rate, DefaultFallbackRate)
	}
}

func TestEstimateSingleWorkRate(t *testing.T) {
	src := &fakeSource{samples: map[string]openalex.CitationSample{
		// 40 total citations, 10 of 50 examined are self-citations.
		"W1": selfSample(40, 10, 50),
	}}
	e := newEstimator(src, 10)

	stats := e.Estimate(context.Background(), testWorks(1), testISSN)
	if !stats.Sampled {
		t.Error("stats should be marked sampled")
	}
	if stats.Rate != 0.2 {
		t.Errorf("Rate = %f, want 0.2", stats.Rate)
	}
	if stats.EstimatedSelfCitations != 8 {
		t.Errorf("EstimatedSelfCitations = %d, want round(40*0.2) = 8", stats.EstimatedSelfCitations)
	}
	if stats.ObservedCitations != 40 {
		t.Errorf("ObservedCitations = %d, want 40", stats.ObservedCitations)
	}
}

func TestEstimateAveragesNonzeroRates(t *testing.T) {
	src := &fakeSource{samples: map[string]openalex.CitationSample{
		"W1": selfSample(10, 2, 10), // rate 0.2
		"W2": selfSample(10, 4, 10), // rate 0.4
		"W3": selfSample(10, 0, 10), // rate 0, excluded from the average
	}}
	e := newEstimator(src, 10)

	stats := e.Estimate(context.Background(), testWorks(3), testISSN)
	if stats.Rate != 0.3 {
		t.Errorf("Rate = %f, want mean of nonzero rates 0.3", stats.Rate)
	}
	if stats.SampledWorks != 3 {
		t.Errorf("SampledWorks = %d, want 3", stats.SampledWorks)
	}
}

func TestEstimateCapsSampleSize(t *testing.T) {
	src := &fakeSource{samples: map[string]openalex.CitationSample{}}
	e := newEstimator(src, 10)

	stats := e.Estimate(context.Background(), testWorks(25), testISSN)
	if stats.SampledWorks != 10 {
		t.Errorf("SampledWorks = %d, want sample capped at 10", stats.SampledWorks)
	}
	if src.calls != 10 {
		t.Errorf("source saw %d calls, want 10", src.calls)
	}
}

func TestEstimateLookupFailureDegradesOneWork(t *testing.T) {
	src := &fakeSource{
		samples: map[string]openalex.CitationSample{
			"W1": selfSample(20, 5, 10), // rate 0.5
		},
		fail: map[string]bool{"W2": true},
	}
	e := newEstimator(src, 10)

	stats := e.Estimate(context.Background(), testWorks(2), testISSN)
	if stats.Rate != 0.5 {
		t.Errorf("Rate = %f, want 0.5 (failed work contributes zero, not abort)", stats.Rate)
	}
	if stats.SampledWorks != 2 {
		t.Errorf("SampledWorks = %d, want 2", stats.SampledWorks)
	}
	if stats.ObservedCitations != 20 {
		t.Errorf("ObservedCitations = %d, want 20", stats.ObservedCitations)
	}
}

func TestEstimateZeroCitationsAndZeroExamined(t *testing.T) {
	src := &fakeSource{samples: map[string]openalex.CitationSample{
		"W1": {Total: 0},                 // uncited work
		"W2": {Total: 5, CitingISSNs: nil}, // examined == 0 must not divide by zero
	}}
	e := newEstimator(src, 10)

	stats := e.Estimate(context.Background(), testWorks(2), testISSN)
	if stats.Rate != 0 {
		t.Errorf("Rate = %f, want 0", stats.Rate)
	}
	if stats.EstimatedSelfCitations != 0 {
		t.Errorf("EstimatedSelfCitations = %d, want 0", stats.EstimatedSelfCitations)
	}
}

func TestEstimateRateWithinUnitInterval(t *testing.T) {
	src := &fakeSource{samples: map[string]openalex.CitationSample{
		"W1": selfSample(100, 50, 50), // every examined citation is a self-citation
	}}
	e := newEstimator(src, 10)

	stats := e.Estimate(context.Background(), testWorks(1), testISSN)
	if stats.Rate < 0 || stats.Rate > 1 {
		t.Errorf("Rate = %f, want within [0, 1]", stats.Rate)
	}
	if stats.Rate != 1.0 {
		t.Errorf("Rate = %f, want 1.0", stats.Rate)
	}
}

func TestEstimateDeterministicUnderSeed(t *testing.T) {
	samples := map[string]openalex.CitationSample{}
	for i := 1; i <= 30; i++ {
		samples[fmt.Sprintf("W%d", i)] = selfSample(10, i%3, 10)
	}
	works := testWorks(30)
	cfg := types.AnalysisConfig{SelfCitationSampleSize: 5}

	e1 := New(&fakeSource{samples: samples}, cfg, rand.New(rand.NewSource(9)), nil)
	e2 := New(&fakeSource{samples: samples}, cfg, rand.New(rand.NewSource(9)), nil)

	s1 := e1.Estimate(context.Background(), works, testISSN)
	s2 := e2.Estimate(context.Background(), works, testISSN)
	if s1 != s2 {
		t.Errorf("same seed produced different stats: %+v vs %+v", s1, s2)
	}
}
