package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/crucial707/printdesk/internal/audit"
	"github.com/crucial707/printdesk/internal/report"
	"github.com/crucial707/printdesk/internal/repo"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// AuditHandler serves the read side of the audit log: list, field comparison and exports.
type AuditHandler struct {
	Repo    *repo.AuditRepo
	Reports *report.Service
	// Now is the clock used for export filenames; time.Now when nil.
	Now func() time.Time
}

// ListAudit returns every audit entry, newest first, each with a summary line.
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Reports.List(r.Context())
	if err != nil {
		slog.Error("list audit logs", "request_id", chimw.GetReqID(r.Context()), "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Changes returns one entry with its old/new values side by side.
func (h *AuditHandler) Changes(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		JSONError(w, "invalid audit log id", http.StatusBadRequest)
		return
	}

	rec, err := h.Repo.GetByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "audit log not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("get audit log", "id", id, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":          rec.ID,
		"action":      rec.Action,
		"resource":    rec.Resource,
		"resource_id": rec.ResourceID,
		"summary":     audit.Summary(*rec),
		"changes":     audit.Changes(*rec),
	})
}

// ExportPDF streams the whole log as a PDF attachment.
func (h *AuditHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, report.FormatPDF, report.ContentTypePDF)
}

// ExportExcel streams the whole log as an XLSX attachment.
func (h *AuditHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, report.FormatXLSX, report.ContentTypeXLSX)
}

// export renders fully before writing anything, so a failure never leaves a partial file.
func (h *AuditHandler) export(w http.ResponseWriter, r *http.Request, format, contentType string) {
	out, err := h.Reports.Render(r.Context(), format)
	if err != nil {
		slog.Error("export audit logs", "request_id", chimw.GetReqID(r.Context()), "format", format, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.Reports.Filename(format, now())))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}
