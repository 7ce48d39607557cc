// Package export drains every result page of a ticket search into a CSV file.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-search/internal/domain"
	"github.com/spec-kit/ticket-search/internal/events"
	"github.com/spec-kit/ticket-search/internal/zendesk"
)

const progressEvery = 20

var header = []string{"id", "created_at", "status", "subject", "url"}

// Request describes what to export.
type Request struct {
	Keyword       string
	SearchContent bool
	Status        string
	SortBy        string
	SortOrder     string
}

// Result summarizes an export run. Incomplete is set when the walk stopped early;
// rows written before the failure remain in the file.
type Result struct {
	Path       string
	Query      string
	Rows       int
	Skipped    int
	Pages      int
	Incomplete bool
	WalkErr    error
}

// Exporter writes search results to CSV files.
type Exporter struct {
	client     *zendesk.Client
	outDir     string
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// Dependencies bundles collaborators for the exporter.
type Dependencies struct {
	Client     *zendesk.Client
	OutDir     string
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewExporter constructs an Exporter.
func NewExporter(deps Dependencies) *Exporter {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	outDir := deps.OutDir
	if outDir == "" {
		outDir = "."
	}
	return &Exporter{
		client:     deps.Client,
		outDir:     outDir,
		dispatcher: deps.Dispatcher,
		logger:     logger.Named("export"),
		now:        now,
	}
}

// Export walks all result pages for req and writes one row per ticket.
// Walk failures and cancellation yield a partial Result, not an error; the returned
// error covers file-level failures only.
func (e *Exporter) Export(ctx context.Context, req Request) (*Result, error) {
	params := domain.SearchParams{
		Keyword:       req.Keyword,
		SearchContent: req.SearchContent,
		Status:        req.Status,
		SortBy:        req.SortBy,
		SortOrder:     req.SortOrder,
	}.WithDefaults()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Path:  filepath.Join(e.outDir, Filename(params.Keyword, e.now())),
		Query: zendesk.BuildQuery(params),
	}

	f, err := os.Create(result.Path)
	if err != nil {
		return nil, fmt.Errorf("create export file: %w", err)
	}

	e.logger.Info("export started", zap.String("query", result.Query), zap.String("path", result.Path))

	writeErr := e.writeRows(ctx, f, params, result)
	if closeErr := f.Close(); writeErr == nil && closeErr != nil {
		writeErr = fmt.Errorf("close export file: %w", closeErr)
	}
	if writeErr != nil {
		return result, writeErr
	}

	fields := []zap.Field{
		zap.String("path", result.Path),
		zap.Int("rows", result.Rows),
		zap.Int("skipped", result.Skipped),
		zap.Int("pages", result.Pages),
	}
	if result.Incomplete {
		e.logger.Warn("export incomplete", append(fields, zap.Error(result.WalkErr))...)
	} else {
		e.logger.Info("export completed", fields...)
	}

	e.publishEvent(ctx, params.Keyword, result)
	return result, nil
}

func (e *Exporter) writeRows(ctx context.Context, f *os.File, params domain.SearchParams, result *Result) error {
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	subdomain := e.client.Subdomain()
	pager := e.client.Walk(result.Query, params.SortBy, params.SortOrder)
	for pager.Next(ctx) {
		raw := pager.Record()
		ticket, err := zendesk.NormalizeSummary(raw, subdomain)
		if err != nil {
			result.Skipped++
			e.logger.Warn("skipping record", zap.Error(err))
			continue
		}
		if err := w.Write(row(ticket, raw)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
		result.Rows++
		if result.Rows%progressEvery == 0 {
			w.Flush()
			e.logger.Info("export progress", zap.Int("rows", result.Rows), zap.Int("total", pager.Total()))
		}
	}
	result.Pages = pager.Pages()
	if err := pager.Err(); err != nil {
		result.Incomplete = true
		result.WalkErr = err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush export file: %w", err)
	}
	return nil
}

func (e *Exporter) publishEvent(ctx context.Context, keyword string, result *Result) {
	if e.dispatcher == nil {
		return
	}
	// The walk context may already be cancelled; the activity trail should still be written.
	err := e.dispatcher.Publish(context.WithoutCancel(ctx), events.Event{
		Type: events.EventExportCompleted,
		Payload: events.ExportCompletedPayload{
			Keyword:    keyword,
			Path:       result.Path,
			Rows:       result.Rows,
			Skipped:    result.Skipped,
			Incomplete: result.Incomplete,
		},
	})
	if err != nil {
		e.logger.Warn("event handler failed", zap.Error(err))
	}
}

// row renders one CSV line. An unparseable created_at is written as received.
func row(t domain.Ticket, raw zendesk.RawRecord) []string {
	created := ""
	if !t.CreatedAt.IsZero() {
		created = t.CreatedAt.Format(time.RFC3339)
	} else if s, ok := raw["created_at"].(string); ok {
		created = s
	}
	return []string{strconv.FormatInt(t.ID, 10), created, t.Status, t.Subject, t.URL}
}

// Filename derives a collision-resistant export file name from the keyword.
func Filename(keyword string, ts time.Time) string {
	return fmt.Sprintf("tickets_%s_%s.csv", SanitizeKeyword(keyword), ts.Format("20060102_150405"))
}

// SanitizeKeyword keeps letters, digits, spaces, '_' and '-', then replaces spaces with '_'.
func SanitizeKeyword(keyword string) string {
	var b strings.Builder
	for _, r := range keyword {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	safe := strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
	if safe == "" {
		return "query"
	}
	return safe
}
