package spreadsheet

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/muni-rrhh/dashboard/internal/application/port"
)

const (
	maxSheetNameRunes = 31
	minColumnWidth    = 12
	maxColumnWidth    = 60
)

// Writer implements port.SpreadsheetWriter with excelize
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a new xlsx writer
func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{logger: logger}
}

// Write renders headers and rows into a single-sheet workbook
func (wr *Writer) Write(w io.Writer, sheetName string, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	name := SheetName(sheetName)
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := wr.setRow(f, name, 1, headers); err != nil {
		return err
	}
	if len(headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
			wr.logger.Warn("Failed to style header row", zap.Error(err))
		}
	}

	for i, row := range rows {
		if err := wr.setRow(f, name, i+2, row); err != nil {
			return err
		}
	}

	wr.fitColumns(f, name, headers, rows)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	wr.logger.Debug("Workbook written",
		zap.String("sheet", name),
		zap.Int("rows", len(rows)))
	return nil
}

func (wr *Writer) setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", rowNum, err)
	}

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}

// fitColumns sizes each column to its widest value, within bounds
func (wr *Writer) fitColumns(f *excelize.File, sheet string, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	measure := func(values []string) {
		for i, v := range values {
			if i >= len(widths) {
				return
			}
			if n := utf8.RuneCountInString(v) + 2; n > widths[i] {
				widths[i] = n
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	for i, width := range widths {
		width = max(minColumnWidth, min(width, maxColumnWidth))
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			continue
		}
		if err := f.SetColWidth(sheet, col, col, float64(width)); err != nil {
			wr.logger.Warn("Failed to set column width", zap.String("column", col), zap.Error(err))
		}
	}
}

// SheetName makes label usable as a worksheet name
func SheetName(label string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.TrimSpace(label))
	name = strings.Trim(name, "'")

	if name == "" {
		return "Hoja1"
	}
	if utf8.RuneCountInString(name) > maxSheetNameRunes {
		name = string([]rune(name)[:maxSheetNameRunes])
	}
	return name
}

// Verify interface compliance
var _ port.SpreadsheetWriter = (*Writer)(nil)
