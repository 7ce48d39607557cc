package zendesk

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/araddon/dateparse"

	"github.com/spec-kit/ticket-search/internal/domain"
)

// RawRecord is a ticket object as decoded from the remote JSON.
type RawRecord map[string]any

// NormalizeSummary maps a raw search result onto the summary projection.
func NormalizeSummary(raw RawRecord, subdomain string) (domain.Ticket, error) {
	id, err := recordID(raw)
	if err != nil {
		return domain.Ticket{}, err
	}
	return domain.Ticket{
		ID:          id,
		Subject:     stringField(raw, "subject"),
		Description: optionalString(raw, "description"),
		Status:      stringField(raw, "status"),
		CreatedAt:   timeField(raw, "created_at"),
		UpdatedAt:   timeField(raw, "updated_at"),
		URL:         domain.AgentURL(subdomain, id),
	}, nil
}

// NormalizeDetail maps a raw ticket object onto the detail projection.
func NormalizeDetail(raw RawRecord, subdomain string) (domain.TicketDetail, error) {
	summary, err := NormalizeSummary(raw, subdomain)
	if err != nil {
		return domain.TicketDetail{}, err
	}
	return domain.TicketDetail{
		Ticket:   summary,
		Tags:     stringSlice(raw, "tags"),
		Priority: optionalString(raw, "priority"),
		Type:     optionalString(raw, "type"),
	}, nil
}

func recordID(raw RawRecord) (int64, error) {
	val, ok := raw["id"]
	if !ok || val == nil {
		return 0, &MappingError{Field: "id", Reason: "is missing"}
	}

	var id int64
	switch v := val.(type) {
	case json.Number:
		parsed, err := strconv.ParseInt(v.String(), 10, 64)
		if err != nil {
			return 0, &MappingError{Field: "id", Reason: "is not an integer"}
		}
		id = parsed
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt64 {
			return 0, &MappingError{Field: "id", Reason: "is not an integer"}
		}
		id = int64(v)
	case int:
		id = int64(v)
	case int64:
		id = v
	default:
		return 0, &MappingError{Field: "id", Reason: "is not an integer"}
	}

	if id <= 0 {
		return 0, &MappingError{Field: "id", Reason: "is not positive"}
	}
	return id, nil
}

func stringField(raw RawRecord, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

func optionalString(raw RawRecord, key string) *string {
	s, ok := raw[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func stringSlice(raw RawRecord, key string) []string {
	out := []string{}
	switch v := raw[key].(type) {
	case []string:
		out = append(out, v...)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// timeField accepts RFC3339 strings, other common layouts and unix seconds.
// Unparseable or absent values yield the zero time.
func timeField(raw RawRecord, key string) time.Time {
	switch v := raw[key].(type) {
	case string:
		if v == "" {
			return time.Time{}
		}
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t.UTC()
		}
		if t, err := dateparse.ParseIn(v, time.UTC); err == nil {
			return t.UTC()
		}
	case json.Number:
		if secs, err := v.Int64(); err == nil {
			return time.Unix(secs, 0).UTC()
		}
	case float64:
		return time.Unix(int64(v), 0).UTC()
	}
	return time.Time{}
}
