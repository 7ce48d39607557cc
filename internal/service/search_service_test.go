package service

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/spec-kit/ticket-search/internal/domain"
	"github.com/spec-kit/ticket-search/internal/events"
	"github.com/spec-kit/ticket-search/internal/repository"
	"github.com/spec-kit/ticket-search/internal/zendesk"
	apperrors "github.com/spec-kit/ticket-search/pkg/util"
)

type fakeSource struct {
	searchParams []domain.SearchParams
	searchResp   *domain.SearchResponse
	searchErr    error
	detail       *domain.TicketDetail
	detailErr    error
}

func (f *fakeSource) Search(_ context.Context, params domain.SearchParams) (*domain.SearchResponse, error) {
	f.searchParams = append(f.searchParams, params)
	return f.searchResp, f.searchErr
}

func (f *fakeSource) GetDetail(_ context.Context, id int64) (*domain.TicketDetail, error) {
	return f.detail, f.detailErr
}

func newServices(src *fakeSource) (*SearchService, *HistoryService) {
	dispatcher := events.NewInMemoryDispatcher()
	history := NewHistoryService(repository.NewMemoryRecentSearchRepository(5), nil)
	history.RegisterHandlers(dispatcher)
	NewNotificationService(nil).RegisterHandlers(dispatcher)
	search := NewSearchService(SearchDependencies{Source: src, Dispatcher: dispatcher})
	return search, history
}

func TestSearchAppliesDefaultsAndRecordsHistory(t *testing.T) {
	src := &fakeSource{searchResp: &domain.SearchResponse{Count: 3}}
	search, history := newServices(src)

	resp, err := search.Search(context.Background(), domain.SearchParams{Keyword: "  refund  "})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Count != 3 {
		t.Errorf("count = %d", resp.Count)
	}

	want := domain.SearchParams{Keyword: "refund", SortBy: "created_at", SortOrder: "desc"}
	if len(src.searchParams) != 1 || !reflect.DeepEqual(src.searchParams[0], want) {
		t.Errorf("source params = %+v, want %+v", src.searchParams, want)
	}

	recent, err := history.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if !reflect.DeepEqual(recent, []string{"refund"}) {
		t.Errorf("recent = %v", recent)
	}
}

func TestSearchValidation(t *testing.T) {
	src := &fakeSource{}
	search, _ := newServices(src)

	tests := []domain.SearchParams{
		{Keyword: "   "},
		{Keyword: "refund", SortOrder: "random"},
	}
	for _, params := range tests {
		_, err := search.Search(context.Background(), params)
		de := apperrors.ToDomainError(err)
		if de == nil || de.HTTPStatus != http.StatusBadRequest {
			t.Errorf("Search(%+v) err = %v, want 400", params, err)
		}
	}
	if len(src.searchParams) != 0 {
		t.Error("invalid params must not reach the remote service")
	}
}

func TestSearchUpstreamFailure(t *testing.T) {
	cause := &zendesk.StatusError{URL: "https://acme.zendesk.com/api/v2/search.json", StatusCode: 500}
	src := &fakeSource{searchErr: cause}
	search, history := newServices(src)

	_, err := search.Search(context.Background(), domain.SearchParams{Keyword: "refund"})
	de := apperrors.ToDomainError(err)
	if de.HTTPStatus != http.StatusBadGateway || de.Code != "UPSTREAM_UNAVAILABLE" {
		t.Errorf("err = %+v", de)
	}
	if !errors.Is(err, error(cause)) {
		t.Error("cause should be wrapped")
	}

	recent, _ := history.Recent(context.Background(), 0)
	if len(recent) != 0 {
		t.Errorf("failed searches must not be recorded, got %v", recent)
	}
}

func TestGetTicketErrors(t *testing.T) {
	tests := []struct {
		name       string
		id         int64
		err        error
		wantStatus int
	}{
		{name: "not found", id: 999, err: zendesk.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "transport", id: 1, err: &zendesk.TransportError{URL: "x", Err: errors.New("refused")}, wantStatus: http.StatusBadGateway},
		{name: "mapping", id: 1, err: &zendesk.MappingError{Field: "id", Reason: "is missing"}, wantStatus: http.StatusBadGateway},
		{name: "invalid id", id: 0, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			search, _ := newServices(&fakeSource{detailErr: tt.err})
			_, err := search.GetTicket(context.Background(), tt.id)
			de := apperrors.ToDomainError(err)
			if de == nil || de.HTTPStatus != tt.wantStatus {
				t.Errorf("err = %v, want status %d", err, tt.wantStatus)
			}
		})
	}
}

func TestGetTicketSuccess(t *testing.T) {
	detail := &domain.TicketDetail{Ticket: domain.Ticket{ID: 42}, Tags: []string{}}
	search, _ := newServices(&fakeSource{detail: detail})

	got, err := search.GetTicket(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if got.ID != 42 {
		t.Errorf("id = %d", got.ID)
	}
}
