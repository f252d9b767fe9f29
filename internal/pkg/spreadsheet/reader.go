// Package spreadsheet turns the first sheet of a workbook into header-keyed rows that keep the
// position they had in the file.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheet is returned when the workbook has no worksheet at all
var ErrNoSheet = errors.New("workbook has no sheets")

// Row is one data row keyed by header label. Index is the 0-based position among the data
// rows of the sheet (the header row excluded), counted before blank rows are dropped.
type Row struct {
	Index int
	Cells map[string]string
}

// Get returns the cell under header, or "" when the column is absent
func (r Row) Get(header string) string {
	return r.Cells[header]
}

// ReadRows parses the first sheet of an xlsx workbook. The first row holds the headers.
// Completely blank rows are dropped but do not shift the Index of later rows.
func ReadRows(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(grid) == 0 {
		return nil, nil
	}

	headers := grid[0]
	rows := make([]Row, 0, len(grid)-1)
	for i, cells := range grid[1:] {
		row := Row{Index: i, Cells: make(map[string]string, len(headers))}
		blank := true
		for col, header := range headers {
			if header == "" || col >= len(cells) {
				continue
			}
			row.Cells[header] = cells[col]
			if strings.TrimSpace(cells[col]) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}
