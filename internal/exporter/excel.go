package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"crimelens/internal/config"
	apperrors "crimelens/internal/errors"
)

// Sheet is one worksheet of the summary workbook.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// WorkbookWriter writes all summary tables into a single Excel workbook,
// one sheet per summary.
type WorkbookWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer.
func NewWorkbookWriter(paths *config.Paths, logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{paths: paths, logger: logger}
}

// Write renders the sheets into the summary workbook artifact.
func (w *WorkbookWriter) Write(ctx context.Context, sheets []Sheet) error {
	if len(sheets) == 0 {
		return apperrors.NewValidationError("workbook requires at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			// Repurpose the default sheet.
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return apperrors.NewStorageError(fmt.Sprintf("failed to name sheet %s", sheet.Name), err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return apperrors.NewStorageError(fmt.Sprintf("failed to create sheet %s", sheet.Name), err)
			}
		}

		header := make([]interface{}, len(sheet.Headers))
		for j, h := range sheet.Headers {
			header[j] = h
		}
		if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write header of sheet %s", sheet.Name), err)
		}

		for r, row := range sheet.Rows {
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = v
			}
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return apperrors.NewStorageError(fmt.Sprintf("invalid cell coordinates in sheet %s", sheet.Name), err)
			}
			if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
				return apperrors.NewStorageError(fmt.Sprintf("failed to write row %d of sheet %s", r, sheet.Name), err)
			}
		}
	}

	path := w.paths.GetTablePath(config.SummaryWorkbook)
	w.logger.InfoContext(ctx, "writing summary workbook",
		slog.String("path", path),
		slog.Int("sheet_count", len(sheets)))

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to save workbook %s", path), err)
	}
	return nil
}
