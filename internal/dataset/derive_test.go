package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policysim/pkg/contracts/domain"
)

func TestDeriveIndicators(t *testing.T) {
	t.Run("growth and lags by calendar year", func(t *testing.T) {
		df := LoadFrameRecords([][]string{
			{"year", "gdp_current_usd", "inflation_annual", "unemployment_rate"},
			{"2020", "100", "13.2", "9.0"},
			{"2021", "110", "17.0", "9.8"},
			{"2022", "121", "18.8", "10.5"},
		})

		out, err := DeriveIndicators(df)
		require.NoError(t, err)

		growth := out.Col(domain.ColumnGDPGrowth).Float()
		assert.True(t, math.IsNaN(growth[0]))
		assert.InDelta(t, 10.0, growth[1], 1e-9)
		assert.InDelta(t, 10.0, growth[2], 1e-9)

		infLag := out.Col(domain.ColumnInflationLag1).Float()
		assert.True(t, math.IsNaN(infLag[0]))
		assert.InDelta(t, 13.2, infLag[1], 1e-9)
		assert.InDelta(t, 17.0, infLag[2], 1e-9)

		unLag := out.Col(domain.ColumnUnemploymentLag1).Float()
		assert.InDelta(t, 9.8, unLag[2], 1e-9)

		gLag := out.Col(domain.ColumnGDPGrowthLag1).Float()
		assert.True(t, math.IsNaN(gLag[1]))
		assert.InDelta(t, 10.0, gLag[2], 1e-9)
	})

	t.Run("gap in years breaks the lag", func(t *testing.T) {
		df := LoadFrameRecords([][]string{
			{"year", "gdp_current_usd", "inflation_annual", "unemployment_rate"},
			{"2019", "100", "11.4", "8.5"},
			{"2022", "130", "18.8", "10.5"},
		})

		out, err := DeriveIndicators(df)
		require.NoError(t, err)

		growth := out.Col(domain.ColumnGDPGrowth).Float()
		assert.True(t, math.IsNaN(growth[1]), "growth must not use a non-adjacent year")

		infLag := out.Col(domain.ColumnInflationLag1).Float()
		assert.True(t, math.IsNaN(infLag[1]))
	})

	t.Run("unsorted input is sorted", func(t *testing.T) {
		df := LoadFrameRecords([][]string{
			{"year", "gdp_current_usd"},
			{"2022", "121"},
			{"2020", "100"},
			{"2021", "110"},
		})

		out, err := DeriveIndicators(df)
		require.NoError(t, err)

		years := out.Col(domain.ColumnYear).Float()
		assert.Equal(t, []float64{2020, 2021, 2022}, years)
	})

	t.Run("missing year column", func(t *testing.T) {
		df := LoadFrameRecords([][]string{
			{"gdp_current_usd"},
			{"100"},
		})
		_, err := DeriveIndicators(df)
		assert.Error(t, err)
	})

	t.Run("zero gdp yields missing growth", func(t *testing.T) {
		df := LoadFrameRecords([][]string{
			{"year", "gdp_current_usd"},
			{"2020", "0"},
			{"2021", "110"},
		})
		out, err := DeriveIndicators(df)
		require.NoError(t, err)

		growth := out.Col(domain.ColumnGDPGrowth).Float()
		assert.True(t, math.IsNaN(growth[1]))
	})
}

func TestLatestLagFeatures(t *testing.T) {
	t.Run("picks most recent complete row", func(t *testing.T) {
		df := LoadFrameRecords([][]string{
			{"year", "gdp_current_usd", "inflation_annual", "unemployment_rate"},
			{"2020", "100", "13.2", "9.0"},
			{"2021", "110", "17.0", "9.8"},
			{"2022", "121", "18.8", "10.5"},
			{"2023", "NaN", "24.7", "NaN"},
		})

		lags, err := LatestLagFeatures(df)
		require.NoError(t, err)

		// 2023's lags all come from the complete 2022 row
		assert.InDelta(t, 18.8, lags.InflationLag1, 1e-9)
		assert.InDelta(t, 10.5, lags.UnemploymentLag1, 1e-9)
		assert.InDelta(t, 10.0, lags.GDPGrowthLag1, 1e-9)
		assert.Equal(t, "dataset", lags.Source)
	})

	t.Run("no complete row", func(t *testing.T) {
		df := LoadFrameRecords([][]string{
			{"year", "inflation_annual"},
			{"2020", "13.2"},
		})
		_, err := LatestLagFeatures(df)
		assert.Error(t, err)
	})
}
