package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

var delimiterCandidates = []rune{';', ',', '\t', '|'}

const delimiterSampleLines = 10

// DetectDelimiter picks the candidate delimiter occurring most often across
// the first few lines of the sample. Defaults to ';' (the dominant export
// convention for the source systems) when nothing stands out.
func DetectDelimiter(sample string) rune {
	counts := make(map[rune]int)

	scanner := bufio.NewScanner(strings.NewReader(sample))
	for lines := 0; lines < delimiterSampleLines && scanner.Scan(); {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines++
		for _, d := range delimiterCandidates {
			counts[d] += strings.Count(line, string(d))
		}
	}

	best := ';'
	bestCount := 0
	for _, d := range delimiterCandidates {
		if counts[d] > bestCount {
			best = d
			bestCount = counts[d]
		}
	}
	return best
}

// DecodeDelimited reads a delimited text file into raw rows, detecting the
// delimiter and header presence. knownHeaders drives header detection.
func DecodeDelimited(r io.Reader, knownHeaders []string) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = DetectDelimiter(string(data))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse delimited file: %w", err)
	}

	return buildRows(records, knownHeaders)
}

func parseDate(s, layout string) (time.Time, error) {
	return time.Parse(layout, s)
}
