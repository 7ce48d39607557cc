package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-search/internal/events"
)

// NotificationService writes an activity trail for domain events.
type NotificationService struct {
	logger *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{logger: logger.Named("activity")}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventSearchPerformed, n.handleSearchPerformed)
	dispatcher.Subscribe(events.EventTicketViewed, n.handleTicketViewed)
	dispatcher.Subscribe(events.EventExportCompleted, n.handleExportCompleted)
}

func (n *NotificationService) handleSearchPerformed(_ context.Context, event events.Event) error {
	n.logger.Info("SearchPerformed", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketViewed(_ context.Context, event events.Event) error {
	n.logger.Debug("TicketViewed", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleExportCompleted(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ExportCompletedPayload)
	if ok && payload.Incomplete {
		n.logger.Warn("ExportCompleted", zap.String("event_id", event.ID), zap.Any("payload", payload))
		return nil
	}
	n.logger.Info("ExportCompleted", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return nil
}
