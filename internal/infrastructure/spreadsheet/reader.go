// Package spreadsheet reads uploaded workbooks and renders xlsx exports.
package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/muni-rrhh/dashboard/internal/application/port"
	"github.com/muni-rrhh/dashboard/internal/domain"
)

// maxXLSRows caps how many rows are pulled out of a legacy .xls sheet
const maxXLSRows = 100000

// Reader implements port.SpreadsheetReader for .xlsx and .xls files
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a new spreadsheet reader
func NewReader(logger *zap.Logger) *Reader {
	return &Reader{logger: logger}
}

// ReadFirstSheet returns every row of the first worksheet with cells as
// strings. Rows keep their original width, so callers must bounds-check.
// Any parse failure wraps domain.ErrSpreadsheetUnreadable.
func (r *Reader) ReadFirstSheet(src io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSpreadsheetUnreadable, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrSpreadsheetUnreadable)
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		rows, err = readXLS(data)
	default:
		rows, err = readXLSX(data)
	}
	if err != nil {
		r.logger.Warn("Failed to read spreadsheet",
			zap.String("filename", filename),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrSpreadsheetUnreadable, err)
	}

	r.logger.Debug("Spreadsheet read",
		zap.String("filename", filename),
		zap.Int("rows", len(rows)))
	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no worksheet found")
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = [][]string{}
	}
	return rows, nil
}

func readXLS(data []byte) (rows [][]string, err error) {
	// the xls decoder panics on some malformed files
	defer func() {
		if p := recover(); p != nil {
			rows, err = nil, fmt.Errorf("malformed xls: %v", p)
		}
	}()

	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}

	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("no worksheet found")
	}

	rows = [][]string{}
	for i := 0; i <= int(sheet.MaxRow) && i < maxXLSRows; i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, []string{})
			continue
		}
		cells := make([]string, 0, row.LastCol()+1)
		for c := 0; c <= row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// Verify interface compliance
var _ port.SpreadsheetReader = (*Reader)(nil)
