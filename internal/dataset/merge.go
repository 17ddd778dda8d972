package dataset

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"policysim/pkg/contracts/domain"
)

// Year-key resolution policies, reported in diagnostics. The assumed-year
// policy silently attributes every row to a single year and therefore must
// stand out in logs.
const (
	YearKeyExisting = "existing"
	YearKeyRenamed  = "renamed"
	YearKeyAssumed  = "assumed"
)

// yearKeyCandidates are alternate temporal column names tried in order
var yearKeyCandidates = []string{"period", "date", "time"}

// MergeInputs carries the independently normalized per-source tables.
// A zero-row frame or nil records mean the source's acquisition failed and
// it is skipped.
type MergeInputs struct {
	// WorldBank is the anchor table with the broadest year coverage
	WorldBank dataframe.DataFrame
	// Rates is the normalized interest-rate table
	Rates dataframe.DataFrame
	// CPI holds the raw monthly CPI records (no usable header row)
	CPI [][]string
	// Unemployment holds the scraped indicator table records, header first
	Unemployment [][]string
}

// Merger aligns the normalized tables on a shared year key and produces
// the master dataset.
type Merger struct {
	logger *slog.Logger
	// forecastYear is assigned to the synthetic row aggregated from
	// sub-year CPI observations
	forecastYear int
}

// NewMerger creates a merger
func NewMerger(forecastYear int, logger *slog.Logger) *Merger {
	return &Merger{logger: logger, forecastYear: forecastYear}
}

// Merge builds the master dataset: anchor left-joins the yearly tables,
// overlapping semantic columns are reconciled by priority, the synthetic
// recent-period rows are appended, and the derived growth and lag columns
// are computed. Output is deterministic for identical inputs.
func (m *Merger) Merge(in MergeInputs) (dataframe.DataFrame, error) {
	master := LowercaseColumns(in.WorldBank)
	if master.Err != nil {
		return master, fmt.Errorf("anchor table unusable: %w", master.Err)
	}
	if !HasColumn(master, domain.ColumnYear) {
		return master, fmt.Errorf("anchor table has no %q column", domain.ColumnYear)
	}

	master, _, err := resolveYearKey(master, 0, m.logger)
	if err != nil {
		return master, fmt.Errorf("anchor year key: %w", err)
	}
	latestYear := maxYear(master)

	// Interest-rate table join
	if in.Rates.Err == nil && in.Rates.Nrow() > 0 {
		rates := LowercaseColumns(in.Rates)
		rates, policy, err := resolveYearKey(rates, latestYear, m.logger)
		if err != nil {
			m.logger.Warn("skipping rate table, no usable year key", slog.String("error", err.Error()))
		} else {
			if policy == YearKeyAssumed {
				m.logger.Warn("rate table has no temporal column, assuming single-year coverage",
					slog.Int("assumed_year", latestYear),
					slog.String("policy", policy))
			}
			rates = dropColumns(rates, "sector", "rate_type")
			rates = dropGarbledColumns(rates)
			master = master.LeftJoin(rates, domain.ColumnYear)
			if master.Err != nil {
				return master, fmt.Errorf("rate table join: %w", master.Err)
			}
		}
	}

	// Unemployment observations: historical years join the master by
	// year; the latest full-year observation feeds the synthetic row.
	observations, err := ExtractUnemployment(in.Unemployment)
	if err != nil {
		m.logger.Warn("unemployment table unusable", slog.String("error", err.Error()))
		observations = nil
	}
	var recent *YearValue
	if len(observations) > 0 {
		recentYear := observations[len(observations)-1].Year
		var hist []YearValue
		for _, obs := range observations {
			if obs.Year < recentYear {
				hist = append(hist, obs)
			} else {
				o := obs
				recent = &o
			}
		}
		if len(hist) > 0 {
			master = master.LeftJoin(yearValueFrame(hist, domain.ColumnUnemployment), domain.ColumnYear)
			if master.Err != nil {
				return master, fmt.Errorf("unemployment join: %w", master.Err)
			}
		}
	}

	// Reconcile the scraped unemployment series (primary) with the
	// anchor's own column (secondary); the secondary is dropped.
	master = reconcile(master, domain.ColumnUnemployment, "unemployment")
	if master.Err != nil {
		return master, fmt.Errorf("unemployment reconciliation: %w", master.Err)
	}

	// Synthetic recent-period rows
	forecast, err := SummarizeCPI(in.CPI, m.forecastYear)
	if err != nil {
		m.logger.Warn("cpi table unusable, no forecast row", slog.String("error", err.Error()))
		forecast = nil
	}
	master = m.appendSynthetic(master, forecast, recent)
	if master.Err != nil {
		return master, fmt.Errorf("synthetic row append: %w", master.Err)
	}

	master, err = DeriveIndicators(master)
	if err != nil {
		return master, fmt.Errorf("derive indicators: %w", err)
	}

	m.logger.Info("master dataset built",
		slog.Int("rows", master.Nrow()),
		slog.Int("columns", master.Ncol()))

	return master, nil
}

// appendSynthetic builds the best-available-estimate rows for the periods
// not yet covered by the authoritative annual sources, reindexed to the
// master column set: columns the synthetic sources do not provide stay
// missing. A synthetic year the master already carries only fills that
// row's missing cells, keeping the year set unique; it never overwrites
// an annual figure.
func (m *Merger) appendSynthetic(master dataframe.DataFrame, forecast *CPIForecast, recent *YearValue) dataframe.DataFrame {
	type syntheticRow struct {
		year         int
		unemployment *float64
		inflation    *float64
	}
	var rows []syntheticRow
	if recent != nil {
		rows = append(rows, syntheticRow{year: recent.Year, unemployment: &recent.Value})
	}
	if forecast != nil {
		rows = append(rows, syntheticRow{year: forecast.Year, inflation: &forecast.YearOnYear})
	}
	if len(rows) == 0 {
		return master
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].year < rows[j].year })

	rowByYear := make(map[int]int)
	for i, y := range master.Col(domain.ColumnYear).Float() {
		rowByYear[int(y)] = i
	}
	var appended []syntheticRow
	for _, row := range rows {
		idx, covered := rowByYear[row.year]
		if !covered {
			appended = append(appended, row)
			continue
		}
		master = fillMissing(master, idx, domain.ColumnUnemployment, row.unemployment)
		master = fillMissing(master, idx, domain.ColumnInflation, row.inflation)
		if master.Err != nil {
			return master
		}
	}
	if len(appended) == 0 {
		return master
	}

	names := master.Names()
	records := [][]string{names}
	for _, row := range appended {
		record := make([]string, len(names))
		for i, name := range names {
			switch {
			case name == domain.ColumnYear:
				record[i] = strconv.Itoa(row.year)
			case name == domain.ColumnUnemployment && row.unemployment != nil:
				record[i] = strconv.FormatFloat(*row.unemployment, 'f', -1, 64)
			case name == domain.ColumnInflation && row.inflation != nil:
				record[i] = strconv.FormatFloat(*row.inflation, 'f', -1, 64)
			default:
				record[i] = "NaN"
			}
		}
		records = append(records, record)
	}

	return master.RBind(LoadFrameRecords(records))
}

// fillMissing sets one cell when the column exists, a value is available
// and the cell is missing.
func fillMissing(df dataframe.DataFrame, row int, column string, value *float64) dataframe.DataFrame {
	if value == nil || !HasColumn(df, column) {
		return df
	}
	vals := df.Col(column).Float()
	if !math.IsNaN(vals[row]) {
		return df
	}
	vals[row] = *value
	return df.Mutate(series.New(vals, series.Float, column))
}

// resolveYearKey makes sure the frame carries a usable integer year
// column. Priority: an existing year column; an alternate temporal column
// renamed and coerced; finally every row is assigned fallbackYear. Rows
// whose key fails integer coercion are dropped, and duplicate years keep
// the first row so downstream joins stay one-to-one.
func resolveYearKey(df dataframe.DataFrame, fallbackYear int, logger *slog.Logger) (dataframe.DataFrame, string, error) {
	if HasColumn(df, domain.ColumnYear) {
		out := coerceYearColumn(df)
		return out, YearKeyExisting, out.Err
	}

	for _, candidate := range yearKeyCandidates {
		if !HasColumn(df, candidate) {
			continue
		}
		df = df.Rename(domain.ColumnYear, candidate)
		if df.Err != nil {
			return df, YearKeyRenamed, df.Err
		}
		logger.Info("renamed temporal column to year", slog.String("from", candidate))
		out := coerceYearColumn(df)
		return out, YearKeyRenamed, out.Err
	}

	if fallbackYear <= 0 {
		return df, "", fmt.Errorf("no temporal column and no fallback year")
	}

	// Last resort: assume single-year coverage. Ties collapse to the
	// first row.
	records := df.Records()
	if len(records) > 1 {
		records = records[:2]
	}
	records[0] = append([]string{domain.ColumnYear}, records[0]...)
	for i := 1; i < len(records); i++ {
		records[i] = append([]string{strconv.Itoa(fallbackYear)}, records[i]...)
	}
	return LoadFrameRecords(records), YearKeyAssumed, nil
}

// coerceYearColumn rebuilds the frame keeping only rows whose year parses
// as an integer, first occurrence winning on duplicates.
func coerceYearColumn(df dataframe.DataFrame) dataframe.DataFrame {
	records := df.Records()
	yearIdx := -1
	for i, name := range records[0] {
		if name == domain.ColumnYear {
			yearIdx = i
			break
		}
	}

	out := [][]string{records[0]}
	seen := make(map[int]bool)
	for _, row := range records[1:] {
		y, ok := parseYear(row[yearIdx])
		if !ok || seen[y] {
			continue
		}
		seen[y] = true
		row[yearIdx] = strconv.Itoa(y)
		out = append(out, row)
	}
	return LoadFrameRecords(out)
}

// parseYear accepts integer years, possibly serialized as floats
func parseYear(cell string) (int, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	if y, err := strconv.Atoi(cell); err == nil {
		return y, true
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return int(f), true
}

// reconcile fills the primary column's missing values from the secondary
// column for the same row, then drops the secondary. When only one of the
// two exists it becomes the primary.
func reconcile(df dataframe.DataFrame, primary, secondary string) dataframe.DataFrame {
	hasPrimary := HasColumn(df, primary)
	hasSecondary := HasColumn(df, secondary)

	switch {
	case hasPrimary && hasSecondary:
		p := df.Col(primary).Float()
		s := df.Col(secondary).Float()
		for i := range p {
			if math.IsNaN(p[i]) {
				p[i] = s[i]
			}
		}
		df = df.Mutate(series.New(p, series.Float, primary))
		if df.Err != nil {
			return df
		}
		return df.Drop(secondary)
	case hasSecondary:
		return df.Rename(primary, secondary)
	default:
		return df
	}
}

// dropColumns drops the named columns when present
func dropColumns(df dataframe.DataFrame, names ...string) dataframe.DataFrame {
	for _, name := range names {
		if HasColumn(df, name) {
			df = df.Drop(name)
			if df.Err != nil {
				return df
			}
		}
	}
	return df
}

// dropGarbledColumns removes columns whose names still carry extraction
// artifacts (embedded line breaks) that survived upstream cleaning.
func dropGarbledColumns(df dataframe.DataFrame) dataframe.DataFrame {
	for _, name := range df.Names() {
		if strings.Contains(name, "\n") {
			df = df.Drop(name)
			if df.Err != nil {
				return df
			}
		}
	}
	return df
}

// maxYear returns the largest year present in the frame
func maxYear(df dataframe.DataFrame) int {
	years := df.Col(domain.ColumnYear).Float()
	max := 0
	for _, y := range years {
		if int(y) > max {
			max = int(y)
		}
	}
	return max
}

// yearValueFrame builds a two-column year-keyed frame
func yearValueFrame(values []YearValue, name string) dataframe.DataFrame {
	years := make([]int, len(values))
	vals := make([]float64, len(values))
	for i, v := range values {
		years[i] = v.Year
		vals[i] = v.Value
	}
	return dataframe.New(
		series.New(years, series.Int, domain.ColumnYear),
		series.New(vals, series.Float, name),
	)
}
