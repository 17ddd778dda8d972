package dataset

import (
	"fmt"
	"log/slog"
	"strconv"
)

// NormalizedTable is a typed table with canonical column names. Missing
// values are explicit empty cells; the category column is never missing
// after forward-fill.
type NormalizedTable struct {
	Header  []string
	Records [][]string
}

// NormalizeOptions configures how a raw extracted table is cleaned up
type NormalizeOptions struct {
	// HeaderRow is the raw row index holding the (garbled) header cells
	HeaderRow int
	// DataStart is the first raw row index holding data
	DataStart int
	// DropLeading is the number of unlabeled leading columns to discard
	DropLeading int
	// CategoryColumn names the forward-filled category column that
	// replaces the first kept raw column
	CategoryColumn string
	// TypeColumn names the second kept raw column
	TypeColumn string
	// HeaderRules is the ordered garbled-to-canonical reconstruction map
	HeaderRules []HeaderRule
}

// DefaultRateTableOptions matches the layout of the weekly interest-rate
// PDF extraction: header cells on row 3, data from row 6, two junk
// columns on the left.
func DefaultRateTableOptions() NormalizeOptions {
	return NormalizeOptions{
		HeaderRow:      3,
		DataStart:      6,
		DropLeading:    2,
		CategoryColumn: "Sector",
		TypeColumn:     "Rate_Type",
		HeaderRules:    RateHeaderRules,
	}
}

// Normalizer cleans one specific source's raw extracted table
type Normalizer struct {
	opts   NormalizeOptions
	logger *slog.Logger
}

// NewNormalizer creates a normalizer with the given options
func NewNormalizer(opts NormalizeOptions, logger *slog.Logger) *Normalizer {
	return &Normalizer{opts: opts, logger: logger}
}

// Normalize turns a raw table into a normalized one:
//
//  1. recover canonical headers from the static reconstruction map,
//     dropping header cells the map does not know (irregular upstream
//     formatting, not an error);
//  2. drop rows that are blank across all columns (separator artifacts);
//  3. forward-fill the sparse category column;
//  4. coerce every data cell to a number, recording non-numeric cells as
//     explicit missing values.
func (n *Normalizer) Normalize(raw RawTable) (*NormalizedTable, error) {
	opts := n.opts
	if len(raw) <= opts.DataStart || len(raw) <= opts.HeaderRow {
		return nil, fmt.Errorf("raw table too short: %d rows, need data from row %d", len(raw), opts.DataStart)
	}

	raw = PadRows(raw)
	headerCells := raw[opts.HeaderRow]
	dataRows := raw[opts.DataStart:]

	// Resolve kept columns. The first two columns after the dropped
	// leading ones are positional (category and rate type); the rest are
	// matched against the reconstruction map. Duplicate canonical names
	// keep the last matching raw column.
	type keptColumn struct {
		name string
		src  int
	}
	kept := []keptColumn{
		{opts.CategoryColumn, opts.DropLeading},
		{opts.TypeColumn, opts.DropLeading + 1},
	}
	position := map[string]int{
		opts.CategoryColumn: 0,
		opts.TypeColumn:     1,
	}

	dropped := 0
	for col := opts.DropLeading + 2; col < len(headerCells); col++ {
		canonical, ok := CanonicalFor(opts.HeaderRules, headerCells[col])
		if !ok {
			dropped++
			continue
		}
		if at, seen := position[canonical]; seen {
			kept[at].src = col
			continue
		}
		position[canonical] = len(kept)
		kept = append(kept, keptColumn{canonical, col})
	}

	if dropped > 0 {
		n.logger.Info("dropped unmatched header cells",
			slog.Int("count", dropped),
			slog.Int("kept", len(kept)))
	}

	header := make([]string, len(kept))
	for i, k := range kept {
		header[i] = k.name
	}

	records := make([][]string, 0, len(dataRows))
	category := ""
	for _, row := range dataRows {
		if isBlankRow(row) {
			continue
		}

		record := make([]string, len(kept))
		for i, k := range kept {
			cell := row[k.src]
			switch i {
			case 0:
				if cell != "" {
					category = cell
				}
				record[i] = category
			case 1:
				record[i] = cell
			default:
				if v, ok := CoerceNumeric(cell); ok {
					record[i] = strconv.FormatFloat(v, 'f', -1, 64)
				} else {
					record[i] = ""
				}
			}
		}
		records = append(records, record)
	}

	return &NormalizedTable{Header: header, Records: records}, nil
}

// CSVRecords returns the table as CSV records with the header first
func (t *NormalizedTable) CSVRecords() [][]string {
	out := make([][]string, 0, len(t.Records)+1)
	out = append(out, t.Header)
	out = append(out, t.Records...)
	return out
}
