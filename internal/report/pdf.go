package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/crucial707/printdesk/internal/audit"
	"github.com/crucial707/printdesk/internal/models"
	"github.com/go-pdf/fpdf"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"ID", 15},
	{"Usuario", 45},
	{"Rol", 35},
	{"Acción", 70},
	{"Recurso", 30},
	{"ID Recurso", 25},
	{"Fecha", 57},
}

const (
	pdfRowHeight = 7.0
	pdfMargin    = 10.0
)

// RenderPDF lays records out as an A4 landscape table. The title and column
// header repeat on every page and each page carries a "Página N" footer.
func RenderPDF(records []models.AuditRecord, loc *time.Location) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, tr("Registro de auditoría"), "", 1, "C", false, 0, "")
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(220, 220, 220)
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, pdfRowHeight, tr(c.title), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("Página %d", pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 9)

	if len(records) == 0 {
		pdf.CellFormat(tableWidth(), pdfRowHeight, tr("Sin registros"), "1", 1, "C", false, 0, "")
	}
	for _, rec := range records {
		cells := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.UserName,
			rec.UserRole,
			audit.ActionPhrase(rec.Action, rec.Resource),
			audit.ResourceLabel(rec.Resource),
			strconv.Itoa(rec.ResourceID),
			audit.FormatTimestamp(rec.Timestamp, loc),
		}
		for i, c := range pdfColumns {
			pdf.CellFormat(c.width, pdfRowHeight, fit(pdf, tr, cells[i], c.width), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func tableWidth() float64 {
	var w float64
	for _, c := range pdfColumns {
		w += c.width
	}
	return w
}

// fit translates s for the core font and trims it with an ellipsis so it stays
// inside a cell of width w. Widths are measured on the translated text, which is what gets drawn.
func fit(pdf *fpdf.Fpdf, tr func(string) string, s string, w float64) string {
	limit := w - 2*pdf.GetCellMargin()
	if out := tr(s); pdf.GetStringWidth(out) <= limit {
		return out
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(tr(string(r)+"...")) > limit {
		r = r[:len(r)-1]
	}
	return tr(string(r) + "...")
}
