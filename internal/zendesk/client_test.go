package zendesk

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/spec-kit/ticket-search/internal/domain"
)

func TestSearchSinglePage(t *testing.T) {
	var gotQuery, gotSortBy, gotSortOrder, gotUser, gotPass string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/search.json" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query().Get("query")
		gotSortBy = r.URL.Query().Get("sort_by")
		gotSortOrder = r.URL.Query().Get("sort_order")
		gotUser, gotPass, _ = r.BasicAuth()

		results := records(1, 2)
		results = append(results, map[string]any{"subject": "no id"})
		writeJSON(t, w, http.StatusOK, map[string]any{
			"results":       results,
			"count":         57,
			"next_page":     "https://acme.zendesk.com/api/v2/search.json?page=2",
			"previous_page": nil,
		})
	}))

	resp, err := client.Search(context.Background(), domain.SearchParams{Keyword: "refund", Status: "open"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotQuery != `type:ticket subject:"refund" status:open` {
		t.Errorf("query = %q", gotQuery)
	}
	if gotSortBy != "created_at" || gotSortOrder != "desc" {
		t.Errorf("sort = %q %q", gotSortBy, gotSortOrder)
	}
	if gotUser != "agent@acme.test/token" || gotPass != "tok" {
		t.Errorf("basic auth = %q:%q", gotUser, gotPass)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("results = %d, want 2 (record without id skipped)", len(resp.Results))
	}
	if resp.Count != 57 {
		t.Errorf("count = %d, want remote total", resp.Count)
	}
	if resp.NextPage == nil || *resp.NextPage != "https://acme.zendesk.com/api/v2/search.json?page=2" {
		t.Errorf("next_page = %v", resp.NextPage)
	}
	if resp.PreviousPage != nil {
		t.Errorf("previous_page = %v", *resp.PreviousPage)
	}
	if resp.Results[0].URL != "https://acme.zendesk.com/agent/tickets/1" {
		t.Errorf("url = %q", resp.Results[0].URL)
	}
}

func TestSearchUpstreamStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.Search(context.Background(), domain.SearchParams{Keyword: "refund"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("err = %v, want StatusError 500", err)
	}
	if !IsUpstream(err) {
		t.Error("IsUpstream should be true")
	}
}

func TestSearchTransportFailure(t *testing.T) {
	client, srv := newTestClient(t, http.NotFoundHandler())
	srv.Close()

	_, err := client.Search(context.Background(), domain.SearchParams{Keyword: "refund"})
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("err = %v, want TransportError", err)
	}
}

func TestGetDetail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/tickets/42.json":
			writeJSON(t, w, http.StatusOK, map[string]any{"ticket": map[string]any{
				"id":          42,
				"subject":     "Broken",
				"description": "Full text",
				"status":      "pending",
				"tags":        []string{"a", "b"},
				"priority":    "low",
			}})
		case "/api/v2/tickets/999.json":
			writeJSON(t, w, http.StatusNotFound, map[string]any{"error": "RecordNotFound"})
		case "/api/v2/tickets/500.json":
			w.WriteHeader(http.StatusBadGateway)
		case "/api/v2/tickets/7.json":
			writeJSON(t, w, http.StatusOK, map[string]any{})
		default:
			http.NotFound(w, r)
		}
	}))

	detail, err := client.GetDetail(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if detail.ID != 42 || len(detail.Tags) != 2 || detail.Type != nil {
		t.Errorf("detail = %+v", detail)
	}
	if detail.URL != "https://acme.zendesk.com/agent/tickets/42" {
		t.Errorf("url = %q", detail.URL)
	}

	_, err = client.GetDetail(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("999: err = %v, want ErrNotFound", err)
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Error("999: not-found must not be a StatusError")
	}

	_, err = client.GetDetail(context.Background(), 500)
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadGateway {
		t.Errorf("500: err = %v, want StatusError 502", err)
	}

	_, err = client.GetDetail(context.Background(), 7)
	var mappingErr *MappingError
	if !errors.As(err, &mappingErr) {
		t.Errorf("7: err = %v, want MappingError", err)
	}
}
