package columns

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{"02/01/2006", "2006-01-02", "02-01-2006", "02/01/06"}

// excelEpoch is day zero of the 1900 date system used by spreadsheet serial
// dates (accounting for the historical leap-year bug).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const (
	excelSerialMin = 20000 // 1954
	excelSerialMax = 80000 // 2119
)

// ParseQuantity parses a cell into a quantity, accepting the French decimal
// comma and grouping spaces.
func ParseQuantity(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}
	s = strings.NewReplacer(",", ".", " ", "", " ", "", " ", "").Replace(s)
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse quantity %q: %w", s, err)
	}
	return value, nil
}

// ParseDate parses a cell into an operation date. Accepts the common
// day-first and ISO layouts plus spreadsheet serial numbers, which surface
// when a workbook cell was never formatted as a date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		if serial >= excelSerialMin && serial <= excelSerialMax {
			days := int(serial)
			return excelEpoch.AddDate(0, 0, days), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
