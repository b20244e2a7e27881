package tabular

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// Decode reads a source file of either supported shape into raw rows,
// sniffing the container format: workbooks are zip archives, anything else
// is treated as delimited text.
func Decode(r io.Reader, knownHeaders []string) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	if bytes.HasPrefix(data, zipMagic) {
		return DecodeWorkbook(bytes.NewReader(data), knownHeaders)
	}
	return DecodeDelimited(bytes.NewReader(data), knownHeaders)
}

// DecodeWorkbook reads the first sheet of a spreadsheet workbook row-by-row
// into the same raw-row shape as delimited input.
func DecodeWorkbook(r io.Reader, knownHeaders []string) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	return buildRows(records, knownHeaders)
}
