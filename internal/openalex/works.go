// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pdiddy/journal-metrics/internal/cache"
	"github.com/pdiddy/journal-metrics/internal/httputil"
	"github.com/pdiddy/journal-metrics/pkg/types"
)

const dateFormat = "2006-01-02"

// selectFields trims the response to the fields the engine reads.
const selectFields = "id,doi,type,publication_date,publication_year,cited_by_count"

// Works fetches the journal's citable works published in the inclusive date
// range. Fast mode fetches one bounded page best-effort; enhanced mode
// paginates with a cursor until the provider reports no more pages, pausing
// pageDelay between requests.
//
// A request failure mid-fetch does not produce an error: the corpus
// accumulated so far is returned with FetchPartial status so the caller can
// tell "the journal published nothing" apart from "a request failed".
// Errors are reserved for malformed input. Complete non-empty corpora are
// written to the cache, which is consulted first when configured.
func (c *Client) Works(ctx context.Context, issn string, from, until time.Time, mode types.AnalysisMode) (types.Corpus, error) {
	if !validISSN(issn) {
		return types.Corpus{}, fmt.Errorf("malformed ISSN %q", issn)
	}
	if until.Before(from) {
		return types.Corpus{}, fmt.Errorf("date range ends before it starts: %s > %s",
			from.Format(dateFormat), until.Format(dateFormat))
	}

	// The operation name carries the mode so a bounded fast page is never
	// replayed as an exhaustive corpus.
	op := "works_fast"
	if mode == types.ModeEnhanced {
		op = "works_full"
	}
	key := cache.Key(op, issn, from.Format(dateFormat), until.Format(dateFormat))

	if c.store != nil {
		if raw, ok := c.store.Get(key); ok {
			var works []types.Work
			if err := json.Unmarshal(raw, &works); err == nil {
				return types.Corpus{Works: works, Status: types.FetchComplete}, nil
			}
		}
	}

	filter := fmt.Sprintf("locations.source.issn:%s,from_publication_date:%s,to_publication_date:%s",
		issn, from.Format(dateFormat), until.Format(dateFormat))

	var works []types.Work
	cursor := "*"
	pages := 0
	for {
		if pages > 0 {
			time.Sleep(c.pageDelay)
		}

		params := url.Values{
			"filter": {filter},
			"select": {selectFields},
		}
		if mode == types.ModeEnhanced {
			params.Set("per-page", strconv.Itoa(fullPageSize))
			params.Set("cursor", cursor)
		} else {
			params.Set("per-page", strconv.Itoa(fastPageSize))
			params.Set("page", "1")
		}

		wr, err := c.getWorksPage(ctx, params)
		if err != nil {
			fmt.Fprintf(c.warn, "warning: corpus fetch for %s stopped after %d page(s): %v\n", issn, pages, err)
			return types.Corpus{Works: works, Status: types.FetchPartial, FailureReason: err.Error()}, nil
		}
		pages++

		for _, rec := range wr.Results {
			if excludedTypes[rec.Type] {
				continue
			}
			works = append(works, rec.toWork())
		}

		if mode != types.ModeEnhanced || len(wr.Results) == 0 || wr.Meta.NextCursor == "" {
			break
		}
		cursor = wr.Meta.NextCursor
	}

	if c.store != nil && len(works) > 0 {
		if err := c.store.Put(key, works); err != nil {
			fmt.Fprintf(c.warn, "warning: caching corpus for %s: %v\n", issn, err)
		}
	}
	return types.Corpus{Works: works, Status: types.FetchComplete}, nil
}

// getWorksPage performs one rate-limited list request.
func (c *Client) getWorksPage(ctx context.Context, params url.Values) (worksResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return worksResponse{}, err
	}
	c.decorate(params)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return worksResponse{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return worksResponse{}, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return worksResponse{}, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}
	return decodeWorks(resp.Body)
}

// decorate adds the polite-pool and authentication parameters.
func (c *Client) decorate(params url.Values) {
	if c.email != "" {
		params.Set("mailto", c.email)
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
}
