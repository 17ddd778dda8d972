package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"
)

// Acquirer pulls one upstream source and persists its raw artifact under
// the data directory. Acquirers are independent; one source failing never
// blocks the others.
type Acquirer interface {
	// Name identifies the source in logs and stage metrics
	Name() string
	// Acquire downloads and persists the raw artifact
	Acquire(ctx context.Context) error
}

// Client is the shared HTTP client for the acquirers, with a conservative
// request pacing so upstream portals never see a burst.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a paced client
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		logger:  logger,
	}
}

// Get performs a paced GET and returns the body. The caller closes it.
func (c *Client) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "policysim/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("request to %s returned status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}

// GetBytes performs a paced GET and reads the whole body
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

// Download streams a URL to a file, creating the directory first
func (c *Client) Download(ctx context.Context, url, path string) (int64, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer out.Close()

	written, err := io.Copy(out, body)
	if err != nil {
		return written, fmt.Errorf("failed to write %s: %w", path, err)
	}

	c.logger.Info("downloaded artifact",
		slog.String("url", url),
		slog.String("path", path),
		slog.Int64("bytes", written))
	return written, nil
}

// RunAll executes every acquirer, collecting per-source failures instead
// of stopping at the first one. The returned error reports how many
// sources failed, nil when all succeeded.
func RunAll(ctx context.Context, logger *slog.Logger, acquirers ...Acquirer) error {
	failed := 0
	for _, a := range acquirers {
		start := time.Now()
		if err := a.Acquire(ctx); err != nil {
			failed++
			logger.Error("source acquisition failed",
				slog.String("source", a.Name()),
				slog.String("error", err.Error()),
				slog.Duration("elapsed", time.Since(start)))
			continue
		}
		logger.Info("source acquired",
			slog.String("source", a.Name()),
			slog.Duration("elapsed", time.Since(start)))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed", failed, len(acquirers))
	}
	return nil
}
