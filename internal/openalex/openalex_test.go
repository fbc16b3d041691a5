// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pdiddy/journal-metrics/internal/cache"
	"github.com/pdiddy/journal-metrics/pkg/types"
)

// testConfig returns a FetchConfig with delays collapsed for tests.
func testConfig() types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:       5 * time.Second,
			LookupTimeout: 5 * time.Second,
		},
		PageDelay:         time.Millisecond,
		RequestsPerSecond: 10000,
	}
}

func workJSONFragment(id, docType, date string, year, cited int) string {
	return fmt.Sprintf(`{
		"id": "https://openalex.org/%s",
		"doi": "https://doi.org/10.1000/%s",
		"type": %q,
		"publication_date": %q,
		"publication_year": %d,
		"cited_by_count": %d
	}`, id, id, docType, date, year, cited)
}

func pageJSON(nextCursor string, works ...string) string {
	body := `{"meta": {"count": 100, "per_page": 200, "next_cursor": "` + nextCursor + `"}, "results": [`
	for i, w := range works {
		if i > 0 {
			body += ","
		}
		body += w
	}
	return body + "]}"
}

var (
	testFrom  = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	testUntil = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
)

func TestValidISSN(t *testing.T) {
	tests := []struct {
		issn string
		want bool
	}{
		{"1234-5678", true},
		{"0000-0000", true},
		{"2049-363X", true},
		{"2049-363x", true},
		{"12345678", false},
		{"1234-567", false},
		{"abcd-efgh", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validISSN(tt.issn); got != tt.want {
			t.Errorf("validISSN(%q) = %v, want %v", tt.issn, got, tt.want)
		}
	}
}

func TestWorksRejectsMalformedInput(t *testing.T) {
	c := NewClient(testConfig())

	if _, err := c.Works(context.Background(), "not-an-issn", testFrom, testUntil, types.ModeFast); err == nil {
		t.Error("expected error for malformed ISSN")
	}
	if _, err := c.Works(context.Background(), "1234-5678", testUntil, testFrom, types.ModeFast); err == nil {
		t.Error("expected error for inverted date range")
	}
}

func TestWorksFiltersExcludedTypes(t *testing.T) {
	page := pageJSON("",
		workJSONFragment("W1", "article", "2024-03-01", 2024, 5),
		workJSONFragment("W2", "editorial", "2024-03-02", 2024, 3),
		workJSONFragment("W3", "letter", "2024-03-03", 2024, 1),
		workJSONFragment("W4", "article", "2024-03-04", 2024, 0),
		workJSONFragment("W5", "retraction", "2024-03-05", 2024, 9),
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer ts.Close()

	c := NewClient(testConfig(), WithBaseURL(ts.URL))
	corpus, err := c.Works(context.Background(), "1234-5678", testFrom, testUntil, types.ModeFast)
	if err != nil {
		t.Fatalf("Works() error: %v", err)
	}
	if !corpus.Complete() {
		t.Errorf("Works() status = %s, want complete", corpus.Status)
	}
	if len(corpus.Works) != 2 {
		t.Fatalf("Works() returned %d works, want 2 (non-articles filtered)", len(corpus.Works))
	}
	for _, w := range corpus.Works {
		if excludedTypes[w.Type] {
			t.Errorf("work %s has excluded type %q", w.ID, w.Type)
		}
	}
	if corpus.Works[0].ID != "W1" || corpus.Works[0].DOI != "10.1000/W1" {
		t.Errorf("unexpected first work: %+v", corpus.Works[0])
	}
}

func TestWorksEnhancedFollowsCursor(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&calls, 1) {
		case 1:
			if got := r.URL.Query().Get("cursor"); got != "*" {
				t.Errorf("first page cursor = %q, want *", got)
			}
			fmt.Fprint(w, pageJSON("page2cursor", workJSONFragment("W1", "article", "2024-03-01", 2024, 5)))
		case 2:
			if got := r.URL.Query().Get("cursor"); got != "page2cursor" {
				t.Errorf("second page cursor = %q, want page2cursor", got)
			}
			fmt.Fprint(w, pageJSON("", workJSONFragment("W2", "article", "2024-06-01", 2024, 2)))
		default:
			t.Error("unexpected third page request")
			fmt.Fprint(w, pageJSON(""))
		}
	}))
	defer ts.Close()

	c := NewClient(testConfig(), WithBaseURL(ts.URL))
	corpus, err := c.Works(context.Background(), "1234-5678", testFrom, testUntil, types.ModeEnhanced)
	if err != nil {
		t.Fatalf("Works() error: %v", err)
	}
	if len(corpus.Works) != 2 {
		t.Errorf("Works() returned %d works, want 2", len(corpus.Works))
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("server saw %d calls, want 2", calls)
	}
}

func TestWorksFastStopsAfterOnePage(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		// A next cursor is present but fast mode must not follow it.
		fmt.Fprint(w, pageJSON("more", workJSONFragment("W1", "article", "2024-03-01", 2024, 5)))
	}))
	defer ts.Close()

	c := NewClient(testConfig(), WithBaseURL(ts.URL))
	corpus, err := c.Works(context.Background(), "1234-5678", testFrom, testUntil, types.ModeFast)
	if err != nil {
		t.Fatalf("Works() error: %v", err)
	}
	if len(corpus.Works) != 1 {
		t.Errorf("Works() returned %d works, want 1", len(corpus.Works))
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("server saw %d calls, want 1", calls)
	}
}

func TestWorksPartialOnMidPaginationFailure(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			fmt.Fprint(w, pageJSON("page2cursor", workJSONFragment("W1", "article", "2024-03-01", 2024, 5)))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewClient(testConfig(), WithBaseURL(ts.URL))
	corpus, err := c.Works(context.Background(), "1234-5678", testFrom, testUntil, types.ModeEnhanced)
	if err != nil {
		t.Fatalf("Works() must not error on transient failure, got: %v", err)
	}
	if corpus.Status != types.FetchPartial {
		t.Errorf("Works() status = %s, want partial", corpus.Status)
	}
	if corpus.FailureReason == "" {
		t.Error("partial corpus should carry a failure reason")
	}
	if len(corpus.Works) != 1 {
		t.Errorf("Works() returned %d works, want the 1 accumulated before the failure", len(corpus.Works))
	}
}

func TestWorksServesFromCache(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, pageJSON("", workJSONFragment("W1", "article", "2024-03-01", 2024, 5)))
	}))
	defer ts.Close()

	store, err := cache.Open(types.CacheConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(testConfig(), WithBaseURL(ts.URL), WithCache(store))

	first, err := c.Works(context.Background(), "1234-5678", testFrom, testUntil, types.ModeFast)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Works(context.Background(), "1234-5678", testFrom, testUntil, types.ModeFast)
	if err != nil {
		t.Fatal(err)
	}

	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("server saw %d calls, want 1 (second fetch should hit the cache)", calls)
	}
	if len(first.Works) != len(second.Works) || second.Works[0].ID != "W1" {
		t.Errorf("cached corpus differs: first=%v second=%v", first.Works, second.Works)
	}

	// Different mode must not reuse the fast-mode entry.
	if _, err := c.Works(context.Background(), "1234-5678", testFrom, testUntil, types.ModeEnhanced); err != nil {
		t.Fatal(err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("server saw %d calls, want 2 (enhanced fetch must bypass the fast entry)", calls)
	}
}

func TestToWorkDateFallsBackToYear(t *testing.T) {
	rec := workJSON{ID: "https://openalex.org/W9", Type: "article", PublicationYear: 2023}
	w := rec.toWork()
	want := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	if !w.Published.Equal(want) {
		t.Errorf("Published = %v, want %v", w.Published, want)
	}

	none := workJSON{ID: "W10", Type: "article"}
	if !none.toWork().Published.IsZero() {
		t.Error("missing date should stay zero")
	}
}

func TestWorkCitations(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/W1" {
			fmt.Fprint(w, `{"id": "https://openalex.org/W1", "cited_by_count": 12}`)
			return
		}
		if got := r.URL.Query().Get("filter"); got != "cites:W1" {
			t.Errorf("citing filter = %q, want cites:W1", got)
		}
		fmt.Fprint(w, `{"meta": {"count": 2}, "results": [
			{"id": "https://openalex.org/W7", "locations": [{"source": {"issn": ["1234-5678"], "issn_l": "1234-5678"}}]},
			{"id": "https://openalex.org/W8", "locations": [{"source": {"issn": ["9999-0000"]}}, {"source": null}]}
		]}`)
	}))
	defer ts.Close()

	c := NewClient(testConfig(), WithBaseURL(ts.URL))
	sample, err := c.WorkCitations(context.Background(), "W1")
	if err != nil {
		t.Fatalf("WorkCitations() error: %v", err)
	}
	if sample.Total != 12 {
		t.Errorf("Total = %d, want 12", sample.Total)
	}
	if sample.Examined() != 2 {
		t.Fatalf("Examined() = %d, want 2", sample.Examined())
	}
	if sample.CitingISSNs[0][0] != "1234-5678" {
		t.Errorf("first citing ISSN = %q, want 1234-5678", sample.CitingISSNs[0][0])
	}
}

func TestWorkCitationsZeroShortCircuits(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"id": "https://openalex.org/W1", "cited_by_count": 0}`)
	}))
	defer ts.Close()

	c := NewClient(testConfig(), WithBaseURL(ts.URL))
	sample, err := c.WorkCitations(context.Background(), "W1")
	if err != nil {
		t.Fatalf("WorkCitations() error: %v", err)
	}
	if sample.Total != 0 || sample.Examined() != 0 {
		t.Errorf("zero-citation work should return an empty sample, got %+v", sample)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("server saw %d calls, want 1 (no citing-works request for zero citations)", calls)
	}
}

func TestWorkCitationsErrorPropagates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := NewClient(testConfig(), WithBaseURL(ts.URL))
	if _, err := c.WorkCitations(context.Background(), "W404"); err == nil {
		t.Error("expected error for HTTP 404")
	}
}
