package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policysim/internal/dataset"
)

// indicatorResponse fakes the two-element API envelope for one series
func indicatorResponse(code string, values map[string]string) string {
	body := ""
	for date, value := range values {
		if body != "" {
			body += ","
		}
		body += fmt.Sprintf(`{"indicator":{"id":%q},"date":%q,"value":%s}`, code, date, value)
	}
	return fmt.Sprintf(`[{"page":1,"pages":1,"per_page":200},[%s]]`, body)
}

func TestWorldBankAcquirer(t *testing.T) {
	t.Run("pivots series into a wide year table", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch code := filepath.Base(r.URL.Path); code {
			case "NY.GDP.MKTP.CD":
				fmt.Fprint(w, indicatorResponse(code, map[string]string{"2020": "100.5", "2021": "110.25"}))
			case "FP.CPI.TOTL.ZG":
				fmt.Fprint(w, indicatorResponse(code, map[string]string{"2020": "13.2", "2021": "null"}))
			default:
				fmt.Fprint(w, indicatorResponse(code, nil))
			}
		}))
		defer server.Close()

		csvPath := filepath.Join(t.TempDir(), "worldbank.csv")
		a := NewWorldBankAcquirer(NewClient(testLogger()), server.URL, "NGA", 2020, 2021, csvPath, testLogger())
		require.NoError(t, a.Acquire(context.Background()))

		records, err := dataset.ReadRecords(csvPath)
		require.NoError(t, err)
		require.Len(t, records, 3)

		assert.Equal(t, []string{"year", "gdp_current_usd", "inflation_annual", "unemployment", "lending_interest_rate", "population"}, records[0])
		assert.Equal(t, "2020", records[1][0])
		assert.Equal(t, "100.5", records[1][1])
		assert.Equal(t, "13.2", records[1][2])

		// null observation stays a missing cell
		assert.Equal(t, "2021", records[2][0])
		assert.Equal(t, "", records[2][2])
	})

	t.Run("empty response is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"page":1,"pages":1},[]]`)
		}))
		defer server.Close()

		a := NewWorldBankAcquirer(NewClient(testLogger()), server.URL, "NGA", 2020, 2021,
			filepath.Join(t.TempDir(), "wb.csv"), testLogger())
		assert.Error(t, a.Acquire(context.Background()))
	})

	t.Run("pagination is followed", func(t *testing.T) {
		pages := map[string]string{
			"1": `[{"page":1,"pages":2},[{"indicator":{"id":"X"},"date":"2020","value":1}]]`,
			"2": `[{"page":2,"pages":2},[{"indicator":{"id":"X"},"date":"2021","value":2}]]`,
		}
		var requested []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			page := r.URL.Query().Get("page")
			requested = append(requested, page)
			fmt.Fprint(w, pages[page])
		}))
		defer server.Close()

		a := NewWorldBankAcquirer(NewClient(testLogger()), server.URL, "NGA", 2020, 2021, "", testLogger())
		observations, err := a.fetchIndicator(context.Background(), "X")
		require.NoError(t, err)
		assert.Len(t, observations, 2)
		assert.Equal(t, []string{"1", "2"}, requested)
	})
}
