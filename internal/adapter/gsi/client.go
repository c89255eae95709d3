// Package gsi loads raw earthquake datasets: the GSI last-30-days CSV feed
// over HTTP, or a local CSV/GeoJSON file. It only materializes raw rows;
// normalization stays in the domain package.
package gsi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/seismoview/quake-catalog/internal/domain"
)

// DefaultFeedURL is the GSI rolling 30-day CSV endpoint.
const DefaultFeedURL = "https://eq.gsi.gov.il/en/earthquake/files/last30_event.csv"

// Client fetches the GSI CSV feed over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a feed client. An empty url selects the default GSI feed.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	if url == "" {
		url = DefaultFeedURL
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch downloads and parses the feed into raw rows. Implements the ingest
// Source contract: the dataset comes back fully materialized, never streamed.
func (c *Client) Fetch(ctx context.Context) (domain.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Dataset{}, fmt.Errorf("feed error: status %d: %s", resp.StatusCode, body)
	}

	rows, err := ReadRows(resp.Body)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("parse feed: %w", err)
	}

	c.logger.Debug("fetched dataset", "url", c.url, "rows", len(rows))
	return domain.Dataset{Rows: rows}, nil
}
