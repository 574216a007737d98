package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/divisaodecontratos2-code/v0-contratos-uenp/importer"
)

// CSVFetcher retrieves a spreadsheet export from a remote URL (typically a
// sheet published as CSV) for the URL import entry point.
type CSVFetcher struct {
	httpClient *http.Client
	maxBytes   int64
}

func NewCSVFetcher(timeout time.Duration, maxBytes int64) *CSVFetcher {
	return &CSVFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxBytes: maxBytes,
	}
}

// Fetch downloads the resource as text. The body is capped at maxBytes and
// transcoded from legacy charsets the same way file uploads are.
func (f *CSVFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return "", fmt.Errorf("response larger than %d bytes", f.maxBytes)
	}

	return importer.DecodeText(body), nil
}
