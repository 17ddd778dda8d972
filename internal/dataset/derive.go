package dataset

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"policysim/pkg/contracts/domain"
)

// DeriveIndicators appends the year-over-year GDP growth column and the
// three one-year lag columns to a year-keyed frame. Lags are defined by
// calendar adjacency, not row position: the lag for year Y is the value at
// year Y-1, missing when Y-1 is absent from the frame. The frame is
// returned sorted by year ascending.
func DeriveIndicators(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return df, df.Err
	}
	if !HasColumn(df, domain.ColumnYear) {
		return df, fmt.Errorf("frame has no %q column", domain.ColumnYear)
	}

	df = df.Arrange(dataframe.Sort(domain.ColumnYear))
	if df.Err != nil {
		return df, df.Err
	}

	years := toInts(df.Col(domain.ColumnYear).Float())

	gdp := columnOrNaN(df, domain.ColumnGDP, df.Nrow())
	growth := growthByYear(years, gdp)
	df = df.Mutate(series.New(growth, series.Float, domain.ColumnGDPGrowth))

	lags := []struct {
		src, dst string
		values   []float64
	}{
		{domain.ColumnInflation, domain.ColumnInflationLag1, columnOrNaN(df, domain.ColumnInflation, df.Nrow())},
		{domain.ColumnUnemployment, domain.ColumnUnemploymentLag1, columnOrNaN(df, domain.ColumnUnemployment, df.Nrow())},
		{domain.ColumnGDPGrowth, domain.ColumnGDPGrowthLag1, growth},
	}
	for _, lag := range lags {
		df = df.Mutate(series.New(lagByYear(years, lag.values), series.Float, lag.dst))
	}

	return df, df.Err
}

// growthByYear computes (gdp[Y]/gdp[Y-1] - 1) * 100, missing for the
// first year or when either value is missing.
func growthByYear(years []int, gdp []float64) []float64 {
	byYear := valueByYear(years, gdp)
	out := make([]float64, len(years))
	for i, y := range years {
		prev, ok := byYear[y-1]
		if !ok || math.IsNaN(prev) || math.IsNaN(gdp[i]) || prev == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (gdp[i]/prev - 1) * 100
	}
	return out
}

// lagByYear shifts values by one calendar year
func lagByYear(years []int, values []float64) []float64 {
	byYear := valueByYear(years, values)
	out := make([]float64, len(years))
	for i, y := range years {
		prev, ok := byYear[y-1]
		if !ok {
			out[i] = math.NaN()
			continue
		}
		out[i] = prev
	}
	return out
}

// valueByYear indexes values by year; the first occurrence of a year wins
func valueByYear(years []int, values []float64) map[int]float64 {
	byYear := make(map[int]float64, len(years))
	for i, y := range years {
		if _, seen := byYear[y]; !seen {
			byYear[y] = values[i]
		}
	}
	return byYear
}

// HasColumn reports whether the frame has a column with the given name
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// columnOrNaN returns the named column as floats, or all-NaN when absent
func columnOrNaN(df dataframe.DataFrame, name string, n int) []float64 {
	if HasColumn(df, name) {
		return df.Col(name).Float()
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// toInts truncates float years to ints
func toInts(vals []float64) []int {
	out := make([]int, len(vals))
	for i, v := range vals {
		out[i] = int(v)
	}
	return out
}

// LatestLagFeatures walks the derived frame from the most recent year
// backwards and returns the lag values of the last row where none of the
// three is missing.
func LatestLagFeatures(df dataframe.DataFrame) (domain.LagFeatureSet, error) {
	derived, err := DeriveIndicators(df)
	if err != nil {
		return domain.LagFeatureSet{}, err
	}

	inflation := derived.Col(domain.ColumnInflationLag1).Float()
	unemployment := derived.Col(domain.ColumnUnemploymentLag1).Float()
	growth := derived.Col(domain.ColumnGDPGrowthLag1).Float()

	for i := derived.Nrow() - 1; i >= 0; i-- {
		if math.IsNaN(inflation[i]) || math.IsNaN(unemployment[i]) || math.IsNaN(growth[i]) {
			continue
		}
		return domain.LagFeatureSet{
			InflationLag1:    inflation[i],
			UnemploymentLag1: unemployment[i],
			GDPGrowthLag1:    growth[i],
			Source:           "dataset",
		}, nil
	}
	return domain.LagFeatureSet{}, fmt.Errorf("no row with complete lag values")
}
