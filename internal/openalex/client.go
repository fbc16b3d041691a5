// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openalex queries the OpenAlex Works API for a journal's citable
// output and for the works citing an individual work. It is the engine's
// only view of the bibliographic provider: the rest of the codebase depends
// on the narrow shape returned here, not on the provider's full schema.
// Implements: prd001-corpus-fetch (R1-R4);
//
//	docs/ARCHITECTURE § Corpus Fetcher.
package openalex

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/journal-metrics/internal/cache"
	"github.com/pdiddy/journal-metrics/pkg/types"
)

const (
	// DefaultBaseURL is the OpenAlex Works endpoint.
	DefaultBaseURL = "https://api.openalex.org/works"

	// DefaultTimeout bounds one corpus page request.
	DefaultTimeout = 30 * time.Second

	// DefaultLookupTimeout bounds a single-record citation lookup.
	DefaultLookupTimeout = 10 * time.Second

	// DefaultPageDelay is the courtesy pause between pagination requests.
	DefaultPageDelay = 500 * time.Millisecond

	// DefaultRequestsPerSecond is well under the documented 10 req/s limit.
	DefaultRequestsPerSecond = 8.0

	// fastPageSize caps the single best-effort page fetched in fast mode.
	fastPageSize = 100

	// fullPageSize is the page size for exhaustive cursor pagination.
	fullPageSize = 200

	// citingPageSize caps how many citing works one lookup examines.
	citingPageSize = 50

	defaultUserAgent = "journal-metrics/0.1"
)

// excludedTypes lists document types that are not substantive research
// output. Works of these types are dropped before counting or returning,
// since metric denominators must only count citable items.
var excludedTypes = map[string]bool{
	"editorial":    true,
	"letter":       true,
	"erratum":      true, // the provider's name for corrections
	"correction":   true,
	"retraction":   true,
	"book-review":  true,
	"news":         true,
	"announcement": true,
	"abstract":     true,
	"paratext":     true,
}

var issnPattern = regexp.MustCompile(`^\d{4}-\d{3}[\dXx]$`)

// Client is a rate-limited HTTP client for the OpenAlex Works API.
type Client struct {
	httpClient    *http.Client
	limiter       *rate.Limiter
	baseURL       string
	email         string
	apiKey        string
	userAgent     string
	pageDelay     time.Duration
	lookupTimeout time.Duration
	store         *cache.Store
	warn          io.Writer
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom endpoint (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(url, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCache enables consulting and populating the given store.
func WithCache(s *cache.Store) Option {
	return func(c *Client) { c.store = s }
}

// WithWarnWriter redirects fetch warnings (default: discarded).
func WithWarnWriter(w io.Writer) Option {
	return func(c *Client) { c.warn = w }
}

// NewClient creates an OpenAlex client from cfg.
func NewClient(cfg types.FetchConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	lookupTimeout := cfg.LookupTimeout
	if lookupTimeout <= 0 {
		lookupTimeout = DefaultLookupTimeout
	}
	pageDelay := cfg.PageDelay
	if pageDelay <= 0 {
		pageDelay = DefaultPageDelay
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	c := &Client{
		httpClient:    &http.Client{Timeout: timeout},
		limiter:       rate.NewLimiter(rate.Limit(rps), 1),
		baseURL:       DefaultBaseURL,
		email:         cfg.Email,
		apiKey:        cfg.APIKey,
		userAgent:     userAgent,
		pageDelay:     pageDelay,
		lookupTimeout: lookupTimeout,
		warn:          io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OpenAlex API JSON structures.
type worksResponse struct {
	Meta    worksMeta  `json:"meta"`
	Results []workJSON `json:"results"`
}

type worksMeta struct {
	Count      int    `json:"count"`
	PerPage    int    `json:"per_page"`
	NextCursor string `json:"next_cursor"`
}

type workJSON struct {
	ID              string         `json:"id"`
	DOI             string         `json:"doi"`
	Type            string         `json:"type"`
	PublicationDate string         `json:"publication_date"`
	PublicationYear int            `json:"publication_year"`
	CitedByCount    int            `json:"cited_by_count"`
	Locations       []locationJSON `json:"locations"`
}

type locationJSON struct {
	Source *sourceJSON `json:"source"`
}

type sourceJSON struct {
	ISSN  []string `json:"issn"`
	ISSNL string   `json:"issn_l"`
}

// toWork converts a provider record to the engine's work shape.
func (w workJSON) toWork() types.Work {
	work := types.Work{
		ID:        strings.TrimPrefix(w.ID, "https://openalex.org/"),
		DOI:       strings.TrimPrefix(w.DOI, "https://doi.org/"),
		Type:      w.Type,
		Citations: w.CitedByCount,
	}
	if w.PublicationDate != "" {
		if t, err := time.Parse("2006-01-02", w.PublicationDate); err == nil {
			work.Published = t
		}
	}
	if work.Published.IsZero() && w.PublicationYear > 0 {
		work.Published = time.Date(w.PublicationYear, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return work
}

// issns collects every ISSN the record's locations declare.
func (w workJSON) issns() []string {
	var out []string
	for _, loc := range w.Locations {
		if loc.Source == nil {
			continue
		}
		out = append(out, loc.Source.ISSN...)
		if loc.Source.ISSNL != "" {
			out = append(out, loc.Source.ISSNL)
		}
	}
	return out
}

// validISSN reports whether s looks like a well-formed ISSN (NNNN-NNNC).
func validISSN(s string) bool {
	return issnPattern.MatchString(s)
}

// decodeWorks parses a works-list response body.
func decodeWorks(body io.Reader) (worksResponse, error) {
	var wr worksResponse
	if err := json.NewDecoder(body).Decode(&wr); err != nil {
		return worksResponse{}, fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	return wr, nil
}
