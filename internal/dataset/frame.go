package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// nanMarkers are cell values read back as missing. The merger writes NaN
// for missing cells; the normalizer writes empty cells; the PDF extraction
// uses hyphens.
var nanMarkers = []string{"", "-", "NA", "NaN", "nan"}

// ReadFrame loads a CSV file with a header row into a typed frame
func ReadFrame(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.Float),
		dataframe.NaNValues(nanMarkers),
	)
	if df.Err != nil {
		return df, fmt.Errorf("failed to parse %s: %w", path, df.Err)
	}
	return df, nil
}

// LoadFrameRecords builds a typed frame from in-memory CSV records
// (header row first).
func LoadFrameRecords(records [][]string) dataframe.DataFrame {
	return dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.Float),
		dataframe.NaNValues(nanMarkers),
	)
}

// WriteFrame writes a frame to a CSV file with its header row
func WriteFrame(path string, df dataframe.DataFrame) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := df.WriteCSV(f, dataframe.WriteHeader(true)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LowercaseColumns trims and lowercases every column name so tables from
// different sources agree on key spelling.
func LowercaseColumns(df dataframe.DataFrame) dataframe.DataFrame {
	for _, name := range df.Names() {
		clean := strings.ToLower(strings.TrimSpace(name))
		if clean != name {
			df = df.Rename(clean, name)
			if df.Err != nil {
				return df
			}
		}
	}
	return df
}
