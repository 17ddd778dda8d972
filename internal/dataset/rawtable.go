package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// RawTable is an ordered sequence of rows of untyped cells, exactly as an
// extractor produced them. No column identity is attached yet.
type RawTable [][]string

// numericJunk matches whitespace, embedded line breaks and thousands
// separators inside a numeric cell.
var numericJunk = regexp.MustCompile(`[\s\n,]`)

// CoerceNumeric strips formatting artifacts from a cell and parses it as a
// decimal number. A hyphen, an empty cell or any other non-numeric content
// yields ok=false; callers record such cells as missing, never as zero.
func CoerceNumeric(cell string) (float64, bool) {
	cleaned := numericJunk.ReplaceAllString(cell, "")
	if cleaned == "" || cleaned == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// isBlankRow reports whether every cell of the row is empty after trimming
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ReadRecords reads a CSV file into raw records. Ragged rows are allowed
// since extracted tables rarely have a uniform field count.
func ReadRecords(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

// WriteRecords writes records to a CSV file, creating the directory first
func WriteRecords(path string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for i, record := range records {
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return w.Error()
}

// PadRows extends every row to the table's widest row so positional access
// is safe on ragged extractor output.
func PadRows(table RawTable) RawTable {
	width := 0
	for _, row := range table {
		if len(row) > width {
			width = len(row)
		}
	}
	out := make(RawTable, len(table))
	for i, row := range table {
		padded := make([]string, width)
		copy(padded, row)
		out[i] = padded
	}
	return out
}
