package dto

import (
	"time"

	"github.com/spec-kit/ticket-search/internal/domain"
)

// TicketSummary response.
type TicketSummary struct {
	ID          int64     `json:"id"`
	Subject     string    `json:"subject"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	URL         string    `json:"url"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	TicketSummary
	Tags     []string `json:"tags"`
	Priority *string  `json:"priority"`
	Type     *string  `json:"type"`
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Results      []TicketSummary `json:"results"`
	Count        int             `json:"count"`
	NextPage     *string         `json:"next_page"`
	PreviousPage *string         `json:"previous_page"`
}

// RecentSearchesResponse lists recent keywords, newest first.
type RecentSearchesResponse struct {
	Data []string `json:"data"`
}

// NewTicketSummary maps a domain ticket to its response shape.
func NewTicketSummary(t domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:          t.ID,
		Subject:     t.Subject,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		URL:         t.URL,
	}
}

// NewTicketDetail maps a domain ticket detail to its response shape.
func NewTicketDetail(t *domain.TicketDetail) TicketDetailResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TicketDetailResponse{
		TicketSummary: NewTicketSummary(t.Ticket),
		Tags:          tags,
		Priority:      t.Priority,
		Type:          t.Type,
	}
}

// NewSearchResponse maps a domain search page to its response shape.
func NewSearchResponse(resp *domain.SearchResponse) SearchResponse {
	items := make([]TicketSummary, 0, len(resp.Results))
	for _, t := range resp.Results {
		items = append(items, NewTicketSummary(t))
	}
	return SearchResponse{
		Results:      items,
		Count:        resp.Count,
		NextPage:     resp.NextPage,
		PreviousPage: resp.PreviousPage,
	}
}
