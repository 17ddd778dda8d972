package fetch

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"policysim/internal/dataset"
)

// indicatorTableSelector matches the indicator summary table on the
// rendered page. The table is filled in by scripts, so a plain GET sees
// an empty shell and a headless browser is required.
const indicatorTableSelector = "table.table-hover"

var (
	rowPattern  = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	cellPattern = regexp.MustCompile(`(?is)<t[dh][^>]*>(.*?)</t[dh]>`)
	tagPattern  = regexp.MustCompile(`(?s)<[^>]+>`)
	wsPattern   = regexp.MustCompile(`\s+`)
)

// UnemploymentAcquirer renders the labour-statistics page in a headless
// browser and persists the indicator table as raw CSV records.
type UnemploymentAcquirer struct {
	url      string
	csvPath  string
	headless bool
	timeout  time.Duration
	logger   *slog.Logger
}

// NewUnemploymentAcquirer creates the indicator page acquirer
func NewUnemploymentAcquirer(url, csvPath string, headless bool, logger *slog.Logger) *UnemploymentAcquirer {
	return &UnemploymentAcquirer{
		url:      url,
		csvPath:  csvPath,
		headless: headless,
		timeout:  90 * time.Second,
		logger:   logger,
	}
}

func (a *UnemploymentAcquirer) Name() string { return "unemployment" }

// Acquire renders the page, captures the indicator table and writes it
func (a *UnemploymentAcquirer) Acquire(ctx context.Context) error {
	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts, chromedp.Flag("headless", a.headless))

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()
	runCtx, cancelRun := context.WithTimeout(browserCtx, a.timeout)
	defer cancelRun()

	var tableHTML string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(a.url),
		chromedp.WaitVisible(indicatorTableSelector, chromedp.ByQuery),
		chromedp.OuterHTML(indicatorTableSelector, &tableHTML, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", a.url, err)
	}

	records, err := ParseIndicatorTable(tableHTML)
	if err != nil {
		return err
	}

	a.logger.Info("extracted indicator table",
		slog.Int("rows", len(records)-1),
		slog.String("path", a.csvPath))
	return dataset.WriteRecords(a.csvPath, records)
}

// ParseIndicatorTable flattens the rendered table markup into records
// with a fixed Metric/Value/Date header: the metric name is the first
// cell of a row, the current value the second, the reference period the
// last. Rows with fewer than three cells are skipped.
func ParseIndicatorTable(tableHTML string) ([][]string, error) {
	records := [][]string{{"Metric", "Value", "Date"}}

	for _, row := range rowPattern.FindAllStringSubmatch(tableHTML, -1) {
		cells := cellPattern.FindAllStringSubmatch(row[1], -1)
		if len(cells) < 3 {
			continue
		}

		texts := make([]string, len(cells))
		for i, cell := range cells {
			texts[i] = cleanCellText(cell[1])
		}
		if texts[0] == "" || strings.EqualFold(texts[0], "Metric") {
			continue
		}
		records = append(records, []string{texts[0], texts[1], texts[len(texts)-1]})
	}

	if len(records) == 1 {
		return nil, fmt.Errorf("indicator table markup contains no data rows")
	}
	return records, nil
}

func cleanCellText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(wsPattern.ReplaceAllString(s, " "))
}
