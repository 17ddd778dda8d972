package dataset

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// CPI archive layout: metadata rows above, observations from row 5.
// Column 1 is the month label, column 2 the all-items index level and
// column 5 the twelve-month inflation rate.
const (
	cpiDataStart      = 5
	cpiColIndex       = 2
	cpiColYearOnYear  = 5
	cpiMinColumns     = 6
	unemploymentLabel = "Unemployment Rate"
	observationLayout = "Jan 2006"
)

// CPIForecast is the mean of the sub-year CPI observations, standing in
// for the not-yet-published annual figure.
type CPIForecast struct {
	Year int
	// Index is the mean all-items index level
	Index float64
	// YearOnYear is the mean twelve-month inflation rate
	YearOnYear float64
}

// YearValue is a single annual observation
type YearValue struct {
	Year  int
	Value float64
}

// SummarizeCPI reduces the monthly CPI archive records to one forecast
// row: the mean of each column of interest over every month that parses.
// Cells that fail numeric coercion are skipped, not zeroed.
func SummarizeCPI(records [][]string, forecastYear int) (*CPIForecast, error) {
	if len(records) <= cpiDataStart {
		return nil, fmt.Errorf("cpi archive too short: %d rows", len(records))
	}

	sums := [2]float64{}
	counts := [2]int{}
	cols := [2]int{cpiColIndex, cpiColYearOnYear}

	for _, row := range records[cpiDataStart:] {
		if len(row) < cpiMinColumns {
			continue
		}
		for i, col := range cols {
			if v, ok := CoerceNumeric(row[col]); ok {
				sums[i] += v
				counts[i]++
			}
		}
	}

	if counts[1] == 0 {
		return nil, fmt.Errorf("no parsable cpi observations")
	}

	mean := func(i int) float64 {
		if counts[i] == 0 {
			return math.NaN()
		}
		return sums[i] / float64(counts[i])
	}
	return &CPIForecast{
		Year:       forecastYear,
		Index:      mean(0),
		YearOnYear: mean(1),
	}, nil
}

// ExtractUnemployment filters the scraped indicator records down to the
// unemployment-rate series, keyed by year. Observation dates carry month
// granularity; the first observation of a year wins. The returned slice is
// sorted by year ascending and the last element is the most recent period.
func ExtractUnemployment(records [][]string) ([]YearValue, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("indicator table too short: %d rows", len(records))
	}

	header := records[0]
	metricIdx, dateIdx, valueIdx := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "metric", "indicator":
			metricIdx = i
		case "date", "period", "reference":
			dateIdx = i
		case "value", "last", "rate":
			valueIdx = i
		}
	}
	if metricIdx < 0 || dateIdx < 0 || valueIdx < 0 {
		return nil, fmt.Errorf("indicator table missing metric/date/value columns: %v", header)
	}

	seen := make(map[int]bool)
	var out []YearValue
	for _, row := range records[1:] {
		if len(row) <= metricIdx || len(row) <= dateIdx || len(row) <= valueIdx {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(row[metricIdx]), unemploymentLabel) {
			continue
		}
		t, err := time.Parse(observationLayout, strings.TrimSpace(row[dateIdx]))
		if err != nil {
			continue
		}
		v, ok := CoerceNumeric(row[valueIdx])
		if !ok {
			continue
		}
		year := t.Year()
		if seen[year] {
			continue
		}
		seen[year] = true
		out = append(out, YearValue{Year: year, Value: v})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no unemployment observations found")
	}
	sortYearValues(out)
	return out, nil
}

func sortYearValues(values []YearValue) {
	for i := 1; i < len(values); i++ {
		for j := i; j > 0 && values[j].Year < values[j-1].Year; j-- {
			values[j], values[j-1] = values[j-1], values[j]
		}
	}
}
