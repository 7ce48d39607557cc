package zendesk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-search/internal/config"
	"github.com/spec-kit/ticket-search/internal/domain"
)

// Client talks to the Zendesk REST API.
type Client struct {
	baseURL    string
	subdomain  string
	email      string
	apiToken   string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient builds a client from explicit configuration.
func NewClient(cfg config.ZendeskConfig, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL:    cfg.APIBaseURL(),
		subdomain:  cfg.Subdomain,
		email:      cfg.Email,
		apiToken:   cfg.APIToken,
		timeout:    cfg.Timeout(),
		httpClient: &http.Client{},
		logger:     logger.Named("zendesk"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subdomain returns the account subdomain used for agent links.
func (c *Client) Subdomain() string {
	return c.subdomain
}

type searchPage struct {
	Results      []RawRecord `json:"results"`
	Count        int         `json:"count"`
	NextPage     *string     `json:"next_page"`
	PreviousPage *string     `json:"previous_page"`
}

type ticketEnvelope struct {
	Ticket RawRecord `json:"ticket"`
}

// Search fetches a single page of results. Records that fail to map are skipped.
func (c *Client) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResponse, error) {
	params = params.WithDefaults()
	query := BuildQuery(params)

	page, err := c.fetchPage(ctx, c.searchURL(query, params.SortBy, params.SortOrder))
	if err != nil {
		return nil, err
	}

	results := make([]domain.Ticket, 0, len(page.Results))
	for _, raw := range page.Results {
		ticket, err := NormalizeSummary(raw, c.subdomain)
		if err != nil {
			c.logger.Warn("skipping search result", zap.String("query", query), zap.Error(err))
			continue
		}
		results = append(results, ticket)
	}

	return &domain.SearchResponse{
		Results:      results,
		Count:        page.Count,
		NextPage:     page.NextPage,
		PreviousPage: page.PreviousPage,
	}, nil
}

// GetDetail fetches a single ticket by id.
func (c *Client) GetDetail(ctx context.Context, id int64) (*domain.TicketDetail, error) {
	target := fmt.Sprintf("%s/tickets/%d.json", c.baseURL, id)

	var env ticketEnvelope
	if err := c.getJSON(ctx, target, &env); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if env.Ticket == nil {
		return nil, &MappingError{Field: "ticket", Reason: "is missing"}
	}

	detail, err := NormalizeDetail(env.Ticket, c.subdomain)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// Walk starts a fresh traversal of every result page for query.
func (c *Client) Walk(query, sortBy, sortOrder string) *Pager {
	return &Pager{
		client: c,
		target: c.searchURL(query, sortBy, sortOrder),
		state:  stateFirstPage,
	}
}

func (c *Client) searchURL(query, sortBy, sortOrder string) string {
	params := url.Values{}
	params.Set("query", query)
	params.Set("sort_by", sortBy)
	params.Set("sort_order", sortOrder)
	return c.baseURL + "/search.json?" + params.Encode()
}

func (c *Client) fetchPage(ctx context.Context, target string) (*searchPage, error) {
	var page searchPage
	if err := c.getJSON(ctx, target, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) getJSON(ctx context.Context, target string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &TransportError{URL: target, Err: err}
	}
	req.SetBasicAuth(c.email+"/token", c.apiToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("zendesk request",
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &StatusError{URL: target, StatusCode: resp.StatusCode}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return &TransportError{URL: target, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
