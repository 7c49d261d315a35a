package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout      = 8 * time.Second
	defaultMaxRedirects = 3

	// maxBodySize caps how much of a page we read; metadata lives in <head>.
	maxBodySize = 2 << 20 // 2 MiB

	userAgent = "ShopScan/1.0 (+https://github.com/shopscan/backend)"
)

// Fetcher retrieves page bodies for image resolution, implementing
// domain.PageFetcher. Every request is bounded by a timeout and a redirect
// cap so one slow host cannot stall a whole search.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a page fetcher. Zero values select the defaults.
func NewFetcher(timeout time.Duration, maxRedirects int) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxRedirects <= 0 {
		maxRedirects = defaultMaxRedirects
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
}

// Fetch retrieves the body of a page as text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}

	return string(body), nil
}
