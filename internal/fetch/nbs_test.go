package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"policysim/internal/dataset"
)

// cpiArchive builds a zip wrapping a workbook with the given sheet rows
func cpiArchive(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()
	if sheet != "Sheet1" {
		_, err := wb.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cell, &row))
	}

	var workbook bytes.Buffer
	require.NoError(t, wb.Write(&workbook))

	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	f, err := zw.Create("cpi_report.xlsx")
	require.NoError(t, err)
	_, err = f.Write(workbook.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return archive.Bytes()
}

func TestCPIAcquirer(t *testing.T) {
	t.Run("zip to workbook to csv", func(t *testing.T) {
		archive := cpiArchive(t, "Table1", [][]interface{}{
			{"Consumer Price Index"},
			{"Month", "All Items", "YoY"},
			{"Jan-25", 110.2, 24.5},
		})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(archive)
		}))
		defer server.Close()

		csvPath := filepath.Join(t.TempDir(), "cpi.csv")
		a := NewCPIAcquirer(NewClient(testLogger()), server.URL, csvPath, testLogger())
		require.NoError(t, a.Acquire(context.Background()))

		records, err := dataset.ReadRecords(csvPath)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, []string{"Consumer Price Index"}, records[0])
		assert.Equal(t, "Jan-25", records[2][0])
	})

	t.Run("missing sheet falls back to first", func(t *testing.T) {
		archive := cpiArchive(t, "Sheet1", [][]interface{}{
			{"Month", "All Items"},
			{"Feb-25", 111.0},
		})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(archive)
		}))
		defer server.Close()

		csvPath := filepath.Join(t.TempDir(), "cpi.csv")
		a := NewCPIAcquirer(NewClient(testLogger()), server.URL, csvPath, testLogger())
		require.NoError(t, a.Acquire(context.Background()))

		records, err := dataset.ReadRecords(csvPath)
		require.NoError(t, err)
		assert.Equal(t, "Feb-25", records[1][0])
	})

	t.Run("not a zip", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not an archive"))
		}))
		defer server.Close()

		a := NewCPIAcquirer(NewClient(testLogger()), server.URL, filepath.Join(t.TempDir(), "cpi.csv"), testLogger())
		assert.Error(t, a.Acquire(context.Background()))
	})

	t.Run("zip without spreadsheet", func(t *testing.T) {
		var archive bytes.Buffer
		zw := zip.NewWriter(&archive)
		f, err := zw.Create("readme.txt")
		require.NoError(t, err)
		_, err = f.Write([]byte("nothing here"))
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(archive.Bytes())
		}))
		defer server.Close()

		a := NewCPIAcquirer(NewClient(testLogger()), server.URL, filepath.Join(t.TempDir(), "cpi.csv"), testLogger())
		err = a.Acquire(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no spreadsheet")
	})
}
