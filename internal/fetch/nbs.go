package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"policysim/internal/dataset"
)

// cpiSheetName is the sheet the statistics office publishes the monthly
// observations on. When absent the first sheet is used.
const cpiSheetName = "Table1"

// CPIAcquirer downloads the monthly CPI archive, a zip holding one
// workbook, and flattens the observation sheet to raw CSV records.
type CPIAcquirer struct {
	client  *Client
	url     string
	csvPath string
	logger  *slog.Logger
}

// NewCPIAcquirer creates the CPI archive acquirer
func NewCPIAcquirer(client *Client, url, csvPath string, logger *slog.Logger) *CPIAcquirer {
	return &CPIAcquirer{client: client, url: url, csvPath: csvPath, logger: logger}
}

func (a *CPIAcquirer) Name() string { return "cpi" }

// Acquire downloads the archive and writes the sheet as CSV
func (a *CPIAcquirer) Acquire(ctx context.Context) error {
	data, err := a.client.GetBytes(ctx, a.url)
	if err != nil {
		return err
	}

	workbook, name, err := extractWorkbook(data)
	if err != nil {
		return fmt.Errorf("cpi archive: %w", err)
	}

	rows, err := workbookRows(workbook, cpiSheetName)
	if err != nil {
		return fmt.Errorf("cpi workbook %s: %w", name, err)
	}

	a.logger.Info("extracted cpi table",
		slog.String("workbook", name),
		slog.Int("rows", len(rows)),
		slog.String("path", a.csvPath))
	return dataset.WriteRecords(a.csvPath, rows)
}

// extractWorkbook returns the first spreadsheet inside the zip
func extractWorkbook(data []byte) ([]byte, string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, "", fmt.Errorf("not a zip archive: %w", err)
	}

	for _, f := range zr.File {
		name := strings.ToLower(f.Name)
		if !strings.HasSuffix(name, ".xlsx") && !strings.HasSuffix(name, ".xls") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		return content, f.Name, nil
	}
	return nil, "", fmt.Errorf("archive contains no spreadsheet")
}

// workbookRows reads the first sheet whose name contains the given one,
// falling back to the first sheet.
func workbookRows(workbook []byte, sheet string) ([][]string, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(workbook))
	if err != nil {
		return nil, fmt.Errorf("failed to parse workbook: %w", err)
	}
	defer wb.Close()

	name := wb.GetSheetName(0)
	for _, candidate := range wb.GetSheetList() {
		if strings.Contains(candidate, sheet) {
			name = candidate
			break
		}
	}
	sheet = name
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheet)
	}
	return rows, nil
}
