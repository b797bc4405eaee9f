package report

import (
	"time"

	"github.com/crucial707/printdesk/internal/audit"
	"github.com/crucial707/printdesk/internal/models"
	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet of the audit workbook.
const SheetName = "Auditoria"

var xlsxHeader = []any{"ID", "Usuario", "Rol", "Acción", "Detalles", "Fecha"}

var xlsxWidths = map[string]float64{"A": 8, "B": 20, "C": 16, "D": 28, "E": 80, "F": 22}

// RenderXLSX writes one header row plus one row per record to the "Auditoria" sheet.
func RenderXLSX(records []models.AuditRecord, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(SheetName, "A1", &xlsxHeader); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", "F1", bold); err != nil {
		return nil, err
	}
	for col, w := range xlsxWidths {
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return nil, err
		}
	}
	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, err
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			rec.ID,
			rec.UserName,
			rec.UserRole,
			audit.ActionPhrase(rec.Action, rec.Resource),
			audit.DetailText(rec),
			audit.FormatTimestamp(rec.Timestamp, loc),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, err
		}
	}
	if len(records) > 0 {
		last, _ := excelize.CoordinatesToCellName(5, len(records)+1)
		if err := f.SetCellStyle(SheetName, "E2", last, wrap); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
