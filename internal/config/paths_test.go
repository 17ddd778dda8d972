package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathsAt(t *testing.T) {
	p := PathsAt("/opt/policysim")

	assert.Equal(t, "/opt/policysim/data/raw", p.RawDir)
	assert.Equal(t, "/opt/policysim/data/processed", p.ProcessedDir)
	assert.Equal(t, filepath.Join(p.ProcessedDir, "master_economic_data.csv"), p.MasterCSV)
	assert.Equal(t, filepath.Join(p.RawDir, "cbn_interest_rates.csv"), p.RateRawCSV)
}

func TestGetPaths_BaseDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("POLICYSIM_BASE_DIR", dir)

	p, err := GetPaths()
	require.NoError(t, err)
	assert.Equal(t, dir, p.BaseDir)
}

func TestEnsureDirectories(t *testing.T) {
	p := PathsAt(t.TempDir())
	require.NoError(t, p.EnsureDirectories())

	for _, dir := range []string{p.RawDir, p.ProcessedDir, p.ModelsDir, p.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestGetModelPath(t *testing.T) {
	p := PathsAt("/base")
	assert.Equal(t, "/base/data/models/inflation_annual_ridge_model.json", p.GetModelPath("inflation_annual"))
}
