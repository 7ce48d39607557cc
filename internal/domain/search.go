package domain

import (
	"errors"
	"strings"
)

// Sort defaults applied when the caller leaves them blank.
const (
	DefaultSortBy    = "created_at"
	DefaultSortOrder = SortOrderDesc
)

// Sort orders accepted by the remote search endpoint.
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

var (
	ErrKeywordRequired  = errors.New("keyword required")
	ErrInvalidSortOrder = errors.New("sort_order must be asc or desc")
)

// SearchParams describes a user-facing ticket search.
type SearchParams struct {
	Keyword       string
	SearchContent bool
	Status        string
	SortBy        string
	SortOrder     string
}

// WithDefaults returns a copy with whitespace trimmed and sort fields filled in.
func (p SearchParams) WithDefaults() SearchParams {
	p.Keyword = strings.TrimSpace(p.Keyword)
	p.Status = strings.TrimSpace(p.Status)
	p.SortBy = strings.TrimSpace(p.SortBy)
	p.SortOrder = strings.ToLower(strings.TrimSpace(p.SortOrder))
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
	if p.SortOrder == "" {
		p.SortOrder = DefaultSortOrder
	}
	return p
}

// Validate checks the params after defaults have been applied.
func (p SearchParams) Validate() error {
	if strings.TrimSpace(p.Keyword) == "" {
		return ErrKeywordRequired
	}
	switch p.SortOrder {
	case SortOrderAsc, SortOrderDesc:
		return nil
	default:
		return ErrInvalidSortOrder
	}
}
