// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/journal-metrics/pkg/types"
)

// FormatTable writes an analysis result as a human-readable report to w.
func FormatTable(r *types.AnalysisResult, w io.Writer) {
	fmt.Fprintf(w, "Journal:  %s (%s)\n", nonEmpty(r.JournalName, "unknown"), r.ISSN)
	fmt.Fprintf(w, "Field:    %s\n", r.Field)
	fmt.Fprintf(w, "Mode:     %s, analyzed %s\n", r.Mode, r.AnalyzedAt.Format("2006-01-02"))
	if r.PartialData {
		fmt.Fprintln(w, "Warning:  a corpus fetch ended early; counts may be incomplete")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-22s  %-8s  %-26s  %s\n", "Metric", "Current", "Forecast (cons/bal/opt)", "95% interval")
	fmt.Fprintln(w, strings.Repeat("-", 88))
	writeMetricRow(w, fmt.Sprintf("Impact factor %d-%d", r.ImpactFactorPeriod.From.Year(), r.ImpactFactorPeriod.Until.Year()), r.ImpactFactor)
	writeMetricRow(w, fmt.Sprintf("CiteScore %d-%d", r.CiteScorePeriod.From.Year(), r.CiteScorePeriod.Until.Year()), r.CiteScore)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Works counted: %d (impact factor), %d (citescore)\n", r.ImpactFactorWorks, r.CiteScoreWorks)
	if r.SelfCitation.Sampled {
		fmt.Fprintf(w, "Self-citation rate: %.1f%% (sampled from %d works, %d of %d citations estimated self)\n",
			r.SelfCitation.Rate*100, r.SelfCitation.SampledWorks,
			r.SelfCitation.EstimatedSelfCitations, r.SelfCitation.ObservedCitations)
	} else {
		fmt.Fprintf(w, "Self-citation rate: %.1f%% (fixed fallback, not sampled)\n", r.SelfCitation.Rate*100)
	}
	if r.ImpactFactor.Confidence.Method == types.IntervalSynthetic {
		fmt.Fprintln(w, "Note: intervals are a fixed-spread approximation, not bootstrap bounds.")
	}
}

func writeMetricRow(w io.Writer, label string, m types.MetricEstimate) {
	fmt.Fprintf(w, "%-22s  %-8.2f  %6.2f / %6.2f / %6.2f    [%.2f, %.2f]\n",
		label, m.Current,
		m.Forecasts.Conservative, m.Forecasts.Balanced, m.Forecasts.Optimistic,
		m.Confidence.Lower, m.Confidence.Upper)
}

// FormatJSON writes the result as indented JSON to w.
func FormatJSON(r *types.AnalysisResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// FormatYAML writes the result as YAML to w.
func FormatYAML(r *types.AnalysisResult, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(r)
}

// FormatHistoryTable writes stored results as a compact table, newest first.
func FormatHistoryTable(results []types.AnalysisResult, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No stored analyses.")
		return
	}
	fmt.Fprintf(w, "%-12s  %-9s  %-8s  %-10s  %-10s  %s\n",
		"Date", "Mode", "IF", "CiteScore", "Self-cite", "Partial")
	fmt.Fprintln(w, strings.Repeat("-", 66))
	for _, r := range results {
		partial := ""
		if r.PartialData {
			partial = "yes"
		}
		fmt.Fprintf(w, "%-12s  %-9s  %-8.2f  %-10.2f  %9.1f%%  %s\n",
			r.AnalyzedAt.Format("2006-01-02"), r.Mode,
			r.ImpactFactor.Current, r.CiteScore.Current,
			r.SelfCitation.Rate*100, partial)
	}
	fmt.Fprintf(w, "\n%d stored analyses\n", len(results))
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
