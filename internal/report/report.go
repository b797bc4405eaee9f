package report

import (
	"context"
	"fmt"
	"time"

	"github.com/crucial707/printdesk/internal/audit"
	"github.com/crucial707/printdesk/internal/metrics"
	"github.com/crucial707/printdesk/internal/models"
)

const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"

	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Lister returns every audit record, newest first.
type Lister interface {
	List(ctx context.Context) ([]models.AuditRecord, error)
}

// Entry is an audit record as shown in the list view.
type Entry struct {
	models.AuditRecord
	Summary string `json:"summary"`
}

// Service reads the audit log and renders it for people.
// Nothing is cached: each call re-reads the store.
type Service struct {
	store Lister
	loc   *time.Location
}

// NewService returns a Service formatting timestamps in loc (UTC when nil).
func NewService(store Lister, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, loc: loc}
}

// List returns every record with its summary line.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, Entry{AuditRecord: rec, Summary: audit.Summary(rec)})
	}
	return entries, nil
}

// PDF renders the whole log as a PDF document.
func (s *Service) PDF(ctx context.Context) ([]byte, error) {
	return s.render(ctx, FormatPDF, RenderPDF)
}

// XLSX renders the whole log as a spreadsheet workbook.
func (s *Service) XLSX(ctx context.Context) ([]byte, error) {
	return s.render(ctx, FormatXLSX, RenderXLSX)
}

// Render dispatches on format ("pdf" or "xlsx").
func (s *Service) Render(ctx context.Context, format string) ([]byte, error) {
	switch format {
	case FormatPDF:
		return s.PDF(ctx)
	case FormatXLSX:
		return s.XLSX(ctx)
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

// Filename is the download name for a report rendered at now, e.g. audit_logs_2026-10-18.pdf.
func (s *Service) Filename(format string, now time.Time) string {
	return fmt.Sprintf("audit_logs_%s.%s", now.In(s.loc).Format("2006-01-02"), format)
}

func (s *Service) render(ctx context.Context, format string, fn func([]models.AuditRecord, *time.Location) ([]byte, error)) ([]byte, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		metrics.IncReport(format, "error")
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	out, err := fn(records, s.loc)
	if err != nil {
		metrics.IncReport(format, "error")
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	metrics.IncReport(format, "ok")
	return out, nil
}
