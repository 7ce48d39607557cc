package domain

import (
	"fmt"
	"time"
)

// Ticket is the summary projection of a remote ticket.
type Ticket struct {
	ID          int64
	Subject     string
	Description *string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	URL         string
}

// TicketDetail extends the summary with fields only the ticket endpoint returns.
type TicketDetail struct {
	Ticket
	Tags     []string
	Priority *string
	Type     *string
}

// SearchResponse is one page of search results as reported by the remote service.
type SearchResponse struct {
	Results      []Ticket
	Count        int
	NextPage     *string
	PreviousPage *string
}

// AgentURL returns the agent UI link for a ticket.
func AgentURL(subdomain string, id int64) string {
	return fmt.Sprintf("https://%s.zendesk.com/agent/tickets/%d", subdomain, id)
}
