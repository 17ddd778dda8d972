package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for ALL file paths in the application.
type Paths struct {
	BaseDir      string
	DataDir      string
	RawDir       string
	ProcessedDir string
	ModelsDir    string
	LogsDir      string
	WebDir       string

	// Raw per-source artifacts
	RatePDF    string
	RateRawCSV string

	// Processed per-source artifacts
	RateCleanCSV      string
	CPICSV            string
	UnemploymentCSV   string
	WorldBankCSV      string

	// The unified dataset consumed by the trainer and the web server
	MasterCSV string
}

// GetPaths returns the application paths rooted at the working directory,
// or at POLICYSIM_BASE_DIR when set. The pipeline commands all run from the
// project root, so the base defaults to the current directory rather than
// the executable location.
func GetPaths() (*Paths, error) {
	base := os.Getenv("POLICYSIM_BASE_DIR")
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	return PathsAt(base), nil
}

// PathsAt builds the path set rooted at the given base directory.
//
// Directory structure:
//
//	base/
//	  ├── data/
//	  │   ├── raw/         (source documents and extracted raw tables)
//	  │   ├── processed/   (normalized per-source CSVs and the master CSV)
//	  │   └── models/      (persisted regression pipelines)
//	  ├── logs/
//	  └── web/             (simulator front end)
func PathsAt(base string) *Paths {
	dataDir := filepath.Join(base, "data")
	rawDir := filepath.Join(dataDir, "raw")
	processedDir := filepath.Join(dataDir, "processed")
	modelsDir := filepath.Join(dataDir, "models")

	return &Paths{
		BaseDir:      base,
		DataDir:      dataDir,
		RawDir:       rawDir,
		ProcessedDir: processedDir,
		ModelsDir:    modelsDir,
		LogsDir:      filepath.Join(base, "logs"),
		WebDir:       filepath.Join(base, "web"),

		RatePDF:    filepath.Join(rawDir, "cbn_interest_rates.pdf"),
		RateRawCSV: filepath.Join(rawDir, "cbn_interest_rates.csv"),

		RateCleanCSV:    filepath.Join(processedDir, "cleaned_cbn_interest_rates.csv"),
		CPICSV:          filepath.Join(processedDir, "nbs_cpi_data.csv"),
		UnemploymentCSV: filepath.Join(processedDir, "nbs_unemployment_data.csv"),
		WorldBankCSV:    filepath.Join(processedDir, "world_bank_data.csv"),

		MasterCSV: filepath.Join(processedDir, "master_economic_data.csv"),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.RawDir,
		p.ProcessedDir,
		p.ModelsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetModelPath returns the artifact path for a trained pipeline target
func (p *Paths) GetModelPath(target string) string {
	return filepath.Join(p.ModelsDir, target+"_ridge_model.json")
}

// GetLogPath returns the path of a log file inside the logs directory
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}
