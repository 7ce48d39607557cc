package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-search/internal/domain"
	"github.com/spec-kit/ticket-search/internal/events"
	"github.com/spec-kit/ticket-search/internal/zendesk"
	apperrors "github.com/spec-kit/ticket-search/pkg/util"
)

// TicketSource is the remote lookup backing the API.
type TicketSource interface {
	Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResponse, error)
	GetDetail(ctx context.Context, id int64) (*domain.TicketDetail, error)
}

// SearchService coordinates single-page searches and detail lookups.
type SearchService struct {
	source     TicketSource
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// SearchDependencies bundles collaborators for the search service.
type SearchDependencies struct {
	Source     TicketSource
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewSearchService constructs the service.
func NewSearchService(deps SearchDependencies) *SearchService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{
		source:     deps.Source,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Search returns one page of tickets matching params.
func (s *SearchService) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResponse, error) {
	params = params.WithDefaults()
	if err := params.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	resp, err := s.source.Search(ctx, params)
	if err != nil {
		return nil, upstreamError("failed to fetch tickets", err)
	}

	s.publishEvent(ctx, events.Event{
		Type: events.EventSearchPerformed,
		Payload: events.SearchPerformedPayload{
			Keyword:       params.Keyword,
			SearchContent: params.SearchContent,
			Status:        params.Status,
			Query:         zendesk.BuildQuery(params),
			Count:         resp.Count,
		},
	})
	return resp, nil
}

// GetTicket returns the detail projection for id.
func (s *SearchService) GetTicket(ctx context.Context, id int64) (*domain.TicketDetail, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("ticket id must be a positive integer", nil)
	}

	detail, err := s.source.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, zendesk.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, upstreamError("failed to fetch ticket details", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketViewed,
		Payload: events.TicketViewedPayload{TicketID: id},
	})
	return detail, nil
}

func (s *SearchService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func upstreamError(message string, err error) error {
	return apperrors.NewUpstreamError(message, err)
}
