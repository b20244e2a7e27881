// Package tabular decodes batch source files (delimited text or spreadsheet
// workbooks) into raw rows: flat maps from header name to cell value. Files
// without a recoverable header row are decoded with positional col_<index>
// keys; recovering column roles from such rows is the column resolver's job.
package tabular

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/talus-io/talus/pkg/textnorm"
)

// Row is the raw-row shape shared by every decoder: header (or positional
// key) to cell text. Rows are ephemeral, produced per parse.
type Row map[string]string

var (
	// ErrNoRows indicates the file decoded but contained no data rows.
	ErrNoRows = errors.New("source file contains no rows")
	// ErrNoSheet indicates a workbook with no sheets.
	ErrNoSheet = errors.New("workbook contains no sheet")
)

// PositionalKey returns the key under which a headerless column is stored.
func PositionalKey(index int) string {
	return fmt.Sprintf("col_%d", index)
}

// IsHeader reports whether a record looks like a header row: at least one
// cell matches a known header name after normalization, and no cell parses
// as a number or date.
func IsHeader(record []string, knownHeaders []string) bool {
	known := make(map[string]bool, len(knownHeaders))
	for _, h := range knownHeaders {
		known[textnorm.Key(h)] = true
	}

	matched := false
	for _, cell := range record {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		if looksNumeric(cell) || looksDate(cell) {
			return false
		}
		if known[textnorm.Key(cell)] {
			matched = true
		}
	}
	return matched
}

func buildRows(records [][]string, knownHeaders []string) ([]Row, error) {
	records = dropEmpty(records)
	if len(records) == 0 {
		return nil, ErrNoRows
	}

	var headers []string
	if IsHeader(records[0], knownHeaders) {
		headers = records[0]
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, ErrNoRows
	}

	rows := make([]Row, 0, len(records))
	for _, record := range records {
		row := make(Row, len(record))
		for i, cell := range record {
			key := PositionalKey(i)
			if headers != nil && i < len(headers) && strings.TrimSpace(headers[i]) != "" {
				key = strings.TrimSpace(headers[i])
			}
			row[key] = strings.TrimSpace(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func dropEmpty(records [][]string) [][]string {
	out := records[:0]
	for _, record := range records {
		empty := true
		for _, cell := range record {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if !empty {
			out = append(out, record)
		}
	}
	return out
}

func looksNumeric(s string) bool {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	s = strings.ReplaceAll(s, " ", "")
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func looksDate(s string) bool {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"02/01/2006", "2006-01-02", "02/01/06", "02-01-2006"} {
		if len(s) == len(layout) {
			if _, err := parseDate(s, layout); err == nil {
				return true
			}
		}
	}
	return false
}
