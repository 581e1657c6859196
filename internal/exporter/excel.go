package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// ExcelWriter exports tabular data to xlsx workbooks for stakeholders who
// consume the executive summary outside the pipeline.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates a new Excel writer instance. A nil logger falls back
// to slog.Default.
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger}
}

// WriteSheet writes one sheet of headers plus records to filePath, replacing
// any existing workbook.
func (w *ExcelWriter) WriteSheet(filePath, sheetName string, headers []string, records [][]string) error {
	w.logger.Debug("writing Excel file",
		slog.String("file_path", filePath),
		slog.String("sheet", sheetName),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetName, err)
	}
	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to remove default sheet: %w", err)
		}
	}

	writeRow := func(rowIdx int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return fmt.Errorf("invalid row %d: %w", rowIdx, err)
		}
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
		}
		return f.SetSheetRow(sheetName, cell, &row)
	}

	if err := writeRow(1, headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range records {
		if err := writeRow(i+2, record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
