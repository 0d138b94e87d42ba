package secondary

import "context"

// ReportFetcher retrieves the human-readable execution report the automation
// service links in its completion callback
type ReportFetcher interface {
	Fetch(ctx context.Context, reportURL string) (string, error)
}
