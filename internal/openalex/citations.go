// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/journal-metrics/internal/httputil"
)

// CitationSample is the citing-works view of one work: its total citation
// count and, for up to citingPageSize citing works, the ISSN lists those
// works declare. Only the self-citation estimator consumes this shape.
type CitationSample struct {
	// Total is the work's citation count at lookup time.
	Total int

	// CitingISSNs holds one ISSN list per examined citing work.
	CitingISSNs [][]string
}

// Examined returns how many citing works were inspected.
func (s CitationSample) Examined() int { return len(s.CitingISSNs) }

// WorkCitations looks up a work's citation count and the ISSNs of the
// journals citing it. Both requests run under the short single-record
// timeout; a failure is returned as an error and the caller decides how to
// degrade (the estimator zeroes that one sample).
func (c *Client) WorkCitations(ctx context.Context, workID string) (CitationSample, error) {
	if workID == "" {
		return CitationSample{}, fmt.Errorf("empty work identifier")
	}
	ctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	total, err := c.citationCount(ctx, workID)
	if err != nil {
		return CitationSample{}, err
	}
	if total == 0 {
		return CitationSample{}, nil
	}

	params := url.Values{
		"filter":   {"cites:" + workID},
		"per-page": {strconv.Itoa(citingPageSize)},
		"select":   {"id,locations"},
	}
	wr, err := c.getWorksPage(ctx, params)
	if err != nil {
		return CitationSample{}, fmt.Errorf("fetching citing works for %s: %w", workID, err)
	}

	sample := CitationSample{Total: total}
	for _, rec := range wr.Results {
		sample.CitingISSNs = append(sample.CitingISSNs, rec.issns())
	}
	return sample, nil
}

// citationCount fetches a single work record and returns its citation count.
func (c *Client) citationCount(ctx context.Context, workID string) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	params := url.Values{"select": {"id,cited_by_count"}}
	c.decorate(params)

	reqURL := c.baseURL + "/" + url.PathEscape(workID) + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return 0, fmt.Errorf("fetching work %s: %w", workID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("OpenAlex API returned HTTP %d for work %s", resp.StatusCode, workID)
	}

	var rec workJSON
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return 0, fmt.Errorf("parsing work record: %w", err)
	}
	return rec.CitedByCount, nil
}
