package report

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"gitlab.com/meshopt-cloud.net/internal/core/ports/secondary"
)

// report URLs are pre-signed by the automation service, so no auth is attached
const maxReportBytes = 1 << 20

var _ secondary.ReportFetcher = (*Fetcher)(nil)

// Fetcher retrieves execution reports from the URLs the automation service
// hands out in completion callbacks
type Fetcher struct {
	httpClient *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch downloads the report body as text
func (f *Fetcher) Fetch(ctx context.Context, reportURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reportURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build report request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("report fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("report fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReportBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read report body: %w", err)
	}
	return string(body), nil
}
