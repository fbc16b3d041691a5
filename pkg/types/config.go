// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout for corpus page fetches.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// LookupTimeout is the shorter timeout for single-record lookups
	// (citing-works inspection).
	LookupTimeout time.Duration `json:"lookup_timeout" yaml:"lookup_timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "journal-metrics/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the corpus fetcher.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email is sent as the mailto parameter for polite pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// APIKey is an optional provider API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// PageDelay is the fixed courtesy delay between pagination requests
	// during a full (enhanced) fetch (default 500ms).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`

	// RequestsPerSecond caps the overall request rate (default 8).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// CacheConfig holds settings for the expiring response cache.
type CacheConfig struct {
	// Dir is the cache directory (one file per key).
	Dir string `json:"dir" yaml:"dir"`

	// TTL is the entry lifetime; older entries are treated as absent and
	// purged on lookup (default 24h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`

	// Disabled bypasses the cache entirely when true.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// AnalysisConfig holds settings for the metrics orchestrator.
type AnalysisConfig struct {
	// BootstrapIterations is the number of resamples for enhanced-mode
	// confidence bounds (default 500).
	BootstrapIterations int `json:"bootstrap_iterations" yaml:"bootstrap_iterations"`

	// Confidence is the two-sided interval level (default 0.95).
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// SelfCitationSampleSize is the maximum number of works sampled for
	// self-citation estimation (default 10).
	SelfCitationSampleSize int `json:"self_citation_sample_size" yaml:"self_citation_sample_size"`

	// FallbackSelfCitationRate is used when sampling is skipped or the
	// sample is empty (default 0.05).
	FallbackSelfCitationRate float64 `json:"fallback_self_citation_rate" yaml:"fallback_self_citation_rate"`

	// Seed fixes the source of randomness for sampling and bootstrapping.
	// Zero means seed from the clock.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// HistoryConfig holds settings for the analysis-history store.
type HistoryConfig struct {
	// Dir is the directory holding the history SQLite database.
	Dir string `json:"dir" yaml:"dir"`
}

// EngineConfig groups all component configurations for one engine instance.
type EngineConfig struct {
	Fetch    FetchConfig    `json:"fetch" yaml:"fetch"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
	History  HistoryConfig  `json:"history" yaml:"history"`
}
