package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"policysim/internal/dataset"
	"policysim/pkg/contracts/domain"
)

// worldBankIndicators maps development-indicator codes to the canonical
// column each one feeds. The iteration order of the pivot is fixed by
// worldBankColumns, not by this map.
var worldBankIndicators = map[string]string{
	"NY.GDP.MKTP.CD": domain.ColumnGDP,
	"FP.CPI.TOTL.ZG": domain.ColumnInflation,
	"SL.UEM.TOTL.ZS": "unemployment",
	"FR.INR.LEND":    domain.ColumnLendingRate,
	"SP.POP.TOTL":    domain.ColumnPopulation,
}

// worldBankColumns is the column order of the pivoted table
var worldBankColumns = []string{
	domain.ColumnGDP,
	domain.ColumnInflation,
	"unemployment",
	domain.ColumnLendingRate,
	domain.ColumnPopulation,
}

// worldBankObservation is one data point of the indicator API response
type worldBankObservation struct {
	Indicator struct {
		ID string `json:"id"`
	} `json:"indicator"`
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// WorldBankAcquirer pulls annual indicator series from the development
// indicators API and pivots them into one wide year-keyed table.
type WorldBankAcquirer struct {
	client   *Client
	baseURL  string
	country  string
	yearFrom int
	yearTo   int
	csvPath  string
	logger   *slog.Logger
}

// NewWorldBankAcquirer creates the indicator API acquirer
func NewWorldBankAcquirer(client *Client, baseURL, country string, yearFrom, yearTo int, csvPath string, logger *slog.Logger) *WorldBankAcquirer {
	return &WorldBankAcquirer{
		client:   client,
		baseURL:  baseURL,
		country:  country,
		yearFrom: yearFrom,
		yearTo:   yearTo,
		csvPath:  csvPath,
		logger:   logger,
	}
}

func (a *WorldBankAcquirer) Name() string { return "worldbank" }

// Acquire fetches every indicator series and writes the pivoted table
func (a *WorldBankAcquirer) Acquire(ctx context.Context) error {
	byYear := make(map[int]map[string]float64)

	for code, column := range worldBankIndicators {
		observations, err := a.fetchIndicator(ctx, code)
		if err != nil {
			return fmt.Errorf("indicator %s: %w", code, err)
		}
		for _, obs := range observations {
			if obs.Value == nil {
				continue
			}
			year, err := strconv.Atoi(obs.Date)
			if err != nil {
				continue
			}
			if byYear[year] == nil {
				byYear[year] = make(map[string]float64)
			}
			byYear[year][column] = *obs.Value
		}
		a.logger.Info("fetched indicator series",
			slog.String("indicator", code),
			slog.String("column", column),
			slog.Int("observations", len(observations)))
	}

	if len(byYear) == 0 {
		return fmt.Errorf("indicator API returned no observations for %s", a.country)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	records := [][]string{append([]string{domain.ColumnYear}, worldBankColumns...)}
	for _, year := range years {
		record := []string{strconv.Itoa(year)}
		for _, column := range worldBankColumns {
			if v, ok := byYear[year][column]; ok {
				record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				record = append(record, "")
			}
		}
		records = append(records, record)
	}

	return dataset.WriteRecords(a.csvPath, records)
}

// fetchIndicator pages through one indicator series. The API caps pages
// well above the year span requested here, so one page suffices, but the
// pagination metadata is honored anyway.
func (a *WorldBankAcquirer) fetchIndicator(ctx context.Context, code string) ([]worldBankObservation, error) {
	var all []worldBankObservation
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/country/%s/indicator/%s?format=json&per_page=200&date=%d:%d&page=%d",
			a.baseURL, a.country, code, a.yearFrom, a.yearTo, page)

		data, err := a.client.GetBytes(ctx, url)
		if err != nil {
			return nil, err
		}

		var envelope []json.RawMessage
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, fmt.Errorf("unexpected response shape: %w", err)
		}
		if len(envelope) < 2 {
			return nil, fmt.Errorf("response carries no data block")
		}

		var meta struct {
			Pages int `json:"pages"`
		}
		if err := json.Unmarshal(envelope[0], &meta); err != nil {
			return nil, fmt.Errorf("unexpected metadata shape: %w", err)
		}

		var observations []worldBankObservation
		if err := json.Unmarshal(envelope[1], &observations); err != nil {
			return nil, fmt.Errorf("unexpected observation shape: %w", err)
		}
		all = append(all, observations...)

		if page >= meta.Pages {
			return all, nil
		}
	}
}
