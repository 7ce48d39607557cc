package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSearchPerformed EventType = "search_performed"
	EventTicketViewed    EventType = "ticket_viewed"
	EventExportCompleted EventType = "export_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SearchPerformedPayload payload.
type SearchPerformedPayload struct {
	Keyword       string `json:"keyword"`
	SearchContent bool   `json:"search_content"`
	Status        string `json:"status,omitempty"`
	Query         string `json:"query"`
	Count         int    `json:"count"`
}

// TicketViewedPayload payload.
type TicketViewedPayload struct {
	TicketID int64 `json:"ticket_id"`
}

// ExportCompletedPayload payload.
type ExportCompletedPayload struct {
	Keyword    string `json:"keyword"`
	Path       string `json:"path"`
	Rows       int    `json:"rows"`
	Skipped    int    `json:"skipped"`
	Incomplete bool   `json:"incomplete"`
}
