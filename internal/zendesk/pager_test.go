package zendesk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"testing"
)

// pagedHandler serves len(sizes) pages; page N links to page N+1 until the last.
func pagedHandler(t *testing.T, baseURL *string, sizes []int, requests *atomic.Int32, rawQueries *[]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		*rawQueries = append(*rawQueries, r.URL.RawQuery)

		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			page, _ = strconv.Atoi(p)
		}
		if page < 1 || page > len(sizes) {
			t.Errorf("unexpected page %d", page)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		from := 1
		for i := 0; i < page-1; i++ {
			from += sizes[i]
		}
		var next any
		if page < len(sizes) {
			next = fmt.Sprintf("%s/api/v2/search.json?page=%d", *baseURL, page+1)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"results":   records(from, sizes[page-1]),
			"count":     100,
			"next_page": next,
		})
	}
}

func TestPagerDrainsAllPages(t *testing.T) {
	sizes := []int{3, 2, 4}
	var baseURL string
	var requests atomic.Int32
	var rawQueries []string
	client, srv := newTestClient(t, pagedHandler(t, &baseURL, sizes, &requests, &rawQueries))
	baseURL = srv.URL

	pager := client.Walk(`type:ticket "refund"`, "created_at", "desc")
	var ids []int64
	for pager.Next(context.Background()) {
		ticket, err := NormalizeSummary(pager.Record(), "acme")
		if err != nil {
			t.Fatalf("normalize: %v", err)
		}
		ids = append(ids, ticket.ID)
	}
	if err := pager.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}

	if len(ids) != 9 {
		t.Fatalf("yielded %d records, want 9", len(ids))
	}
	for i, id := range ids {
		if id != int64(i+1) {
			t.Fatalf("record %d has id %d; pages out of order or dropped", i, id)
		}
	}
	if got := requests.Load(); got != 3 {
		t.Errorf("requests = %d, want 3", got)
	}
	if pager.Pages() != 3 || !pager.Done() {
		t.Errorf("pages = %d done = %v", pager.Pages(), pager.Done())
	}
	if pager.Next(context.Background()) {
		t.Error("Next after done should be false")
	}
	if requests.Load() != 3 {
		t.Error("no requests may be issued after done")
	}

	if len(rawQueries) != 3 {
		t.Fatalf("raw queries = %v", rawQueries)
	}
	if rawQueries[0] != "query=type%3Aticket+%22refund%22&sort_by=created_at&sort_order=desc" {
		t.Errorf("first page query = %q", rawQueries[0])
	}
	if rawQueries[1] != "page=2" || rawQueries[2] != "page=3" {
		t.Errorf("following pages must use next_page verbatim, got %v", rawQueries[1:])
	}
}

func TestPagerLazyFetch(t *testing.T) {
	sizes := []int{2, 2}
	var baseURL string
	var requests atomic.Int32
	var rawQueries []string
	client, srv := newTestClient(t, pagedHandler(t, &baseURL, sizes, &requests, &rawQueries))
	baseURL = srv.URL

	pager := client.Walk("type:ticket", "created_at", "desc")
	ctx := context.Background()
	pager.Next(ctx)
	pager.Next(ctx)
	if got := requests.Load(); got != 1 {
		t.Fatalf("requests after first page consumed = %d, want 1", got)
	}
	pager.Next(ctx)
	if got := requests.Load(); got != 2 {
		t.Fatalf("requests after crossing page boundary = %d, want 2", got)
	}
}

func TestPagerStopsOnEmptyPageWithNextLink(t *testing.T) {
	var requests atomic.Int32
	var baseURL string
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := requests.Add(1)
		if n > 5 {
			t.Error("walker is looping")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		results := records(1, 2)
		if r.URL.Query().Get("page") != "" {
			results = nil
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"results":   results,
			"count":     2,
			"next_page": baseURL + "/api/v2/search.json?page=" + strconv.Itoa(int(n)+1),
		})
	}))
	baseURL = srv.URL

	pager := client.Walk("type:ticket", "created_at", "desc")
	count := 0
	for pager.Next(context.Background()) {
		count++
	}
	if count != 2 {
		t.Errorf("records = %d, want 2", count)
	}
	if got := requests.Load(); got != 2 {
		t.Errorf("requests = %d, want 2", got)
	}
	if pager.Err() != nil {
		t.Errorf("Err = %v", pager.Err())
	}
}

func TestPagerStopsOnSelfReferencingLink(t *testing.T) {
	var requests atomic.Int32
	var baseURL string
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"results":   records(1, 1),
			"next_page": baseURL + "/api/v2/search.json?page=2",
		})
	}))
	baseURL = srv.URL

	pager := client.Walk("type:ticket", "created_at", "desc")
	count := 0
	for pager.Next(context.Background()) && count < 10 {
		count++
	}
	if count != 2 || requests.Load() != 2 {
		t.Errorf("records = %d requests = %d, want 2 and 2", count, requests.Load())
	}
}

func TestPagerTransportFailureKeepsEarlierPages(t *testing.T) {
	var baseURL string
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"results":   records(1, 3),
			"next_page": baseURL + "/api/v2/search.json?page=2",
		})
	}))
	baseURL = srv.URL

	pager := client.Walk("type:ticket", "created_at", "desc")
	count := 0
	for pager.Next(context.Background()) {
		count++
	}
	if count != 3 {
		t.Errorf("records = %d, want 3 from the first page", count)
	}
	var statusErr *StatusError
	if !errors.As(pager.Err(), &statusErr) || statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Err = %v, want StatusError 503", pager.Err())
	}
	if !pager.Done() {
		t.Error("pager should be done after failure")
	}
}

func TestPagerCancellation(t *testing.T) {
	sizes := []int{2, 2, 2}
	var baseURL string
	var requests atomic.Int32
	var rawQueries []string
	client, srv := newTestClient(t, pagedHandler(t, &baseURL, sizes, &requests, &rawQueries))
	baseURL = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pager := client.Walk("type:ticket", "created_at", "desc")
	count := 0
	for pager.Next(ctx) {
		count++
		if count == 2 {
			cancel()
		}
	}
	if count != 2 {
		t.Errorf("records = %d, want 2", count)
	}
	if !errors.Is(pager.Err(), context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", pager.Err())
	}
	if requests.Load() != 1 {
		t.Errorf("requests = %d, want 1", requests.Load())
	}
}

func TestPagerCancellationMidPage(t *testing.T) {
	sizes := []int{5, 5}
	var baseURL string
	var requests atomic.Int32
	var rawQueries []string
	client, srv := newTestClient(t, pagedHandler(t, &baseURL, sizes, &requests, &rawQueries))
	baseURL = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pager := client.Walk("type:ticket", "created_at", "desc")
	count := 0
	for pager.Next(ctx) {
		count++
		if count == 2 {
			cancel()
		}
	}
	if count != 2 {
		t.Errorf("records = %d, want 2; buffered records must not be yielded after cancel", count)
	}
	if !errors.Is(pager.Err(), context.Canceled) || !pager.Done() {
		t.Errorf("Err = %v done = %v", pager.Err(), pager.Done())
	}
	if requests.Load() != 1 {
		t.Errorf("requests = %d, want 1", requests.Load())
	}
}

func TestWalkRestartsFromFirstPage(t *testing.T) {
	sizes := []int{1, 1}
	var baseURL string
	var requests atomic.Int32
	var rawQueries []string
	client, srv := newTestClient(t, pagedHandler(t, &baseURL, sizes, &requests, &rawQueries))
	baseURL = srv.URL

	first := client.Walk("type:ticket", "created_at", "desc")
	first.Next(context.Background())

	second := client.Walk("type:ticket", "created_at", "desc")
	second.Next(context.Background())
	id, err := recordID(second.Record())
	if err != nil || id != 1 {
		t.Errorf("restarted walk first id = %d (%v), want 1", id, err)
	}
}
