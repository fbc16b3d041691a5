// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/journal-metrics/internal/cache"
	"github.com/pdiddy/journal-metrics/internal/history"
	"github.com/pdiddy/journal-metrics/internal/metrics"
	"github.com/pdiddy/journal-metrics/internal/openalex"
	"github.com/pdiddy/journal-metrics/internal/selfcite"
	"github.com/pdiddy/journal-metrics/pkg/types"
)

const (
	defaultCacheDir   = "cache"
	defaultHistoryDir = "history"
	defaultUserAgent  = "journal-metrics/0.1"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [issn]",
	Short: "Estimate and forecast a journal's citation metrics",
	Long: `Analyze fetches a journal's citable works from OpenAlex, computes the
current impact-factor-like and CiteScore-like ratios, and extrapolates them
to year end at three postures (conservative, balanced, optimistic).

The default fast mode fetches one bounded page per window and reports a
synthetic interval. --enhanced paginates each window to exhaustion, samples
self-citations, corrects for indexing delay, and bootstraps real bounds.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("name", "", "journal name, used for field classification")
	analyzeCmd.Flags().Bool("enhanced", false, "run the slower, precise analysis")
	analyzeCmd.Flags().String("format", "table", "output format: table, json, or yaml")
	analyzeCmd.Flags().Duration("timeout", 0, "HTTP request timeout per corpus page (default 30s)")
	analyzeCmd.Flags().Duration("page-delay", 0, "delay between pagination requests (default 500ms)")
	analyzeCmd.Flags().String("cache-dir", defaultCacheDir, "response cache directory")
	analyzeCmd.Flags().Bool("no-cache", false, "bypass the response cache")
	analyzeCmd.Flags().Int64("seed", 0, "seed for sampling and bootstrapping (0 = from the clock)")
	analyzeCmd.Flags().Bool("save", false, "record the result in the analysis history")
	analyzeCmd.Flags().String("history-dir", defaultHistoryDir, "analysis history directory")
	analyzeCmd.Flags().String("email", "", "contact email for the OpenAlex polite pool")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	issn := args[0]
	name, _ := cmd.Flags().GetString("name")
	enhanced, _ := cmd.Flags().GetBool("enhanced")
	format, _ := cmd.Flags().GetString("format")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	pageDelay, _ := cmd.Flags().GetDuration("page-delay")
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	seed, _ := cmd.Flags().GetInt64("seed")
	save, _ := cmd.Flags().GetBool("save")
	historyDir, _ := cmd.Flags().GetString("history-dir")
	email, _ := cmd.Flags().GetString("email")

	mode := types.ModeFast
	if enhanced {
		mode = types.ModeEnhanced
	}
	if email == "" {
		email = viper.GetString("fetch.email")
	}
	if seed == 0 {
		seed = viper.GetInt64("analysis.seed")
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cfg := types.EngineConfig{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: defaultUserAgent,
			},
			Email:     secretDefault("openalex-email", email),
			APIKey:    secretDefault("openalex-api-key", ""),
			PageDelay: pageDelay,
		},
		Cache:    types.CacheConfig{Dir: cacheDir, Disabled: noCache},
		Analysis: types.AnalysisConfig{Seed: seed},
		History:  types.HistoryConfig{Dir: historyDir},
	}

	opts := []openalex.Option{openalex.WithWarnWriter(os.Stderr)}
	if !cfg.Cache.Disabled {
		store, err := cache.Open(cfg.Cache)
		if err != nil {
			return err
		}
		opts = append(opts, openalex.WithCache(store))
	}
	client := openalex.NewClient(cfg.Fetch, opts...)

	rng := rand.New(rand.NewSource(cfg.Analysis.Seed))
	estimator := selfcite.New(client, cfg.Analysis, rng, os.Stderr)
	engine := metrics.NewEngine(client, estimator, cfg.Analysis, metrics.WithWarnWriter(os.Stderr))

	result, err := engine.Analyze(context.Background(), issn, name, mode)
	if errors.Is(err, metrics.ErrInsufficientData) {
		fmt.Fprintf(os.Stderr, "not enough data: no citable works found for %s in one of the metric windows\n", issn)
		return err
	}
	if err != nil {
		return err
	}

	if save {
		store, err := history.Open(cfg.History)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(context.Background(), result); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Saved to analysis history.")
	}

	switch format {
	case "json":
		return FormatJSON(result, os.Stdout)
	case "yaml":
		return FormatYAML(result, os.Stdout)
	case "table":
		FormatTable(result, os.Stdout)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json, or yaml)", format)
	}
}
