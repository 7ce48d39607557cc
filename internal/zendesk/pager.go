package zendesk

import (
	"context"

	"go.uber.org/zap"
)

type pagerState int

const (
	stateFirstPage pagerState = iota
	stateFollowing
	stateDone
)

// Pager iterates every search result across pages, following next_page links verbatim.
// A page is requested only after the previous one has been fully consumed.
// Pagers are single-use; call Client.Walk again to restart from the first page.
//
//	p := client.Walk(query, "created_at", "desc")
//	for p.Next(ctx) {
//		use(p.Record())
//	}
//	if err := p.Err(); err != nil { ... }
type Pager struct {
	client  *Client
	target  string
	state   pagerState
	buf     []RawRecord
	current RawRecord
	err     error
	pages   int
	total   int
}

// Next advances to the next record, fetching the following page when needed.
// It returns false once the walk is done, has failed or ctx is cancelled; buffered
// records are dropped on cancellation.
func (p *Pager) Next(ctx context.Context) bool {
	if p.state != stateDone || len(p.buf) > 0 {
		if err := ctx.Err(); err != nil {
			p.fail(err)
		}
	}
	for len(p.buf) == 0 {
		if p.state == stateDone {
			p.current = nil
			return false
		}
		p.fetch(ctx)
	}
	p.current = p.buf[0]
	p.buf = p.buf[1:]
	return true
}

// Record returns the record loaded by the last successful Next.
func (p *Pager) Record() RawRecord {
	return p.current
}

// Err returns the failure that ended the walk, if any.
func (p *Pager) Err() error {
	return p.err
}

// Done reports whether no further requests will be issued.
func (p *Pager) Done() bool {
	return p.state == stateDone && len(p.buf) == 0
}

// Pages returns the number of pages fetched so far.
func (p *Pager) Pages() int {
	return p.pages
}

// Total returns the match count reported by the most recent page.
func (p *Pager) Total() int {
	return p.total
}

func (p *Pager) fetch(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		p.fail(err)
		return
	}

	target := p.target
	page, err := p.client.fetchPage(ctx, target)
	if err != nil {
		p.fail(err)
		return
	}

	p.pages++
	p.total = page.Count
	p.buf = page.Results

	next := ""
	if page.NextPage != nil {
		next = *page.NextPage
	}

	// An empty page or a link back to the same page would loop forever.
	if next == "" || len(page.Results) == 0 || next == target {
		p.state = stateDone
		return
	}
	p.state = stateFollowing
	p.target = next
}

func (p *Pager) fail(err error) {
	p.state = stateDone
	p.buf = nil
	p.err = err
	p.client.logger.Warn("search walk stopped",
		zap.Int("pages", p.pages),
		zap.Error(err))
}
