package worker

import (
	"github.com/spec-kit/ticket-search/internal/events"
	"github.com/spec-kit/ticket-search/internal/service"
)

// StartEventWorkers registers the event subscribers on dispatcher.
func StartEventWorkers(dispatcher events.Dispatcher, history *service.HistoryService, notifications *service.NotificationService) {
	if dispatcher == nil {
		return
	}
	if history != nil {
		history.RegisterHandlers(dispatcher)
	}
	if notifications != nil {
		notifications.RegisterHandlers(dispatcher)
	}
}
