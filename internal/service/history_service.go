package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-search/internal/events"
	"github.com/spec-kit/ticket-search/internal/repository"
	apperrors "github.com/spec-kit/ticket-search/pkg/util"
)

// HistoryService records and serves recent search keywords.
type HistoryService struct {
	repo   repository.RecentSearchRepository
	logger *zap.Logger
}

// NewHistoryService creates the service.
func NewHistoryService(repo repository.RecentSearchRepository, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{repo: repo, logger: logger}
}

// RegisterHandlers subscribes to events.
func (h *HistoryService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventSearchPerformed, h.handleSearchPerformed)
}

// Recent lists up to limit keywords, newest first.
func (h *HistoryService) Recent(ctx context.Context, limit int) ([]string, error) {
	entries, err := h.repo.List(ctx, limit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if entries == nil {
		entries = []string{}
	}
	return entries, nil
}

// Clear removes every recorded keyword.
func (h *HistoryService) Clear(ctx context.Context) error {
	if err := h.repo.Clear(ctx); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// Ping reports whether the backing store is reachable.
func (h *HistoryService) Ping(ctx context.Context) error {
	return h.repo.Ping(ctx)
}

func (h *HistoryService) handleSearchPerformed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SearchPerformedPayload)
	if !ok || payload.Keyword == "" {
		return nil
	}
	if err := h.repo.Push(ctx, payload.Keyword); err != nil {
		h.logger.Warn("record recent search", zap.String("keyword", payload.Keyword), zap.Error(err))
		return err
	}
	return nil
}
