package zendesk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-search/internal/config"
)

// newTestClient starts a fake Zendesk API and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.ZendeskConfig{
		Subdomain:      "acme",
		Email:          "agent@acme.test",
		APIToken:       "tok",
		BaseURL:        srv.URL + "/api/v2",
		TimeoutSeconds: 5,
	}
	return NewClient(cfg, zap.NewNop()), srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func records(from, n int) []map[string]any {
	out := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		id := from + i
		out = append(out, map[string]any{
			"id":         id,
			"subject":    fmt.Sprintf("ticket %d", id),
			"status":     "open",
			"created_at": "2024-03-01T10:00:00Z",
			"updated_at": "2024-03-01T10:00:00Z",
		})
	}
	return out
}
