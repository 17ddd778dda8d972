package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ledongthuc/pdf"

	"policysim/internal/dataset"
)

// Text fragments closer than rowTolerance on the Y axis belong to one
// visual row; an X gap wider than cellGap starts a new cell.
const (
	rowTolerance = 2.0
	cellGap      = 6.0
)

// RateAcquirer downloads the weekly deposit-and-lending-rate PDF and
// extracts its lattice table into raw CSV records. Header reconstruction
// happens downstream; here cells are kept exactly as extracted.
type RateAcquirer struct {
	client  *Client
	url     string
	pdfPath string
	csvPath string
	logger  *slog.Logger
}

// NewRateAcquirer creates the rate PDF acquirer
func NewRateAcquirer(client *Client, url, pdfPath, csvPath string, logger *slog.Logger) *RateAcquirer {
	return &RateAcquirer{client: client, url: url, pdfPath: pdfPath, csvPath: csvPath, logger: logger}
}

func (a *RateAcquirer) Name() string { return "rates" }

// Acquire downloads the PDF and writes the extracted raw table
func (a *RateAcquirer) Acquire(ctx context.Context) error {
	if _, err := a.client.Download(ctx, a.url, a.pdfPath); err != nil {
		return err
	}

	table, err := ExtractPDFTable(a.pdfPath)
	if err != nil {
		return fmt.Errorf("rate pdf extraction: %w", err)
	}
	if len(table) == 0 {
		return fmt.Errorf("rate pdf %s contains no text", a.pdfPath)
	}

	a.logger.Info("extracted rate table",
		slog.Int("rows", len(table)),
		slog.String("path", a.csvPath))
	return dataset.WriteRecords(a.csvPath, table)
}

// ExtractPDFTable reads every page of a PDF and reassembles its text
// fragments into a positional table. Vertically stacked fragments inside
// one cell are joined with line breaks, preserving the rotated-header
// artifacts downstream cleaning expects.
func ExtractPDFTable(path string) (dataset.RawTable, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var table dataset.RawTable
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		table = append(table, groupRows(page.Content().Text)...)
	}
	return table, nil
}

// groupRows clusters text fragments into rows by Y position and into
// cells by X gaps.
func groupRows(texts []pdf.Text) [][]string {
	if len(texts) == 0 {
		return nil
	}

	// PDF Y grows upward, so descending Y is top-to-bottom reading order
	sorted := append([]pdf.Text(nil), texts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines [][]pdf.Text
	for _, t := range sorted {
		if t.S == "" {
			continue
		}
		if n := len(lines); n > 0 && lines[n-1][0].Y-t.Y <= rowTolerance {
			lines[n-1] = append(lines[n-1], t)
			continue
		}
		lines = append(lines, []pdf.Text{t})
	}

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		sort.Slice(line, func(i, j int) bool { return line[i].X < line[j].X })

		var row []string
		cell := line[0].S
		end := line[0].X + line[0].W
		prevY := line[0].Y
		for _, t := range line[1:] {
			switch {
			case t.X-end > cellGap:
				row = append(row, cell)
				cell = t.S
			case t.Y != prevY:
				cell += "\n" + t.S
			default:
				cell += t.S
			}
			end = t.X + t.W
			prevY = t.Y
		}
		rows = append(rows, append(row, cell))
	}
	return rows
}
