package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// AllowedDomain is the only host outbound requests may target.
const AllowedDomain = "cervezafortuna.com"

const (
	userAgent = "Mozilla/5.0 (compatible; BeerTastingAgent/1.0)"

	// maxBodyBytes caps the response body size (5 MB).
	maxBodyBytes int64 = 5 * 1024 * 1024
)

// ErrDomainNotAllowed is returned for URLs outside the allow-listed domain.
var ErrDomainNotAllowed = errors.New("domain not allowed")

// Page holds the result of a successful fetch.
type Page struct {
	URL        string
	StatusCode int
	HTML       string
}

// Fetcher performs allow-listed GET requests with bounded retries.
type Fetcher struct {
	client     *http.Client
	maxRetries int
}

// NewFetcher creates a fetcher with the given request timeout and retry count.
func NewFetcher(timeout time.Duration, maxRetries int) *Fetcher {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

// ResolveURL normalizes a raw URL against the allowed domain and checks the
// allow-list. Relative paths ("/inicio/cervezas/") resolve to the brand site.
func ResolveURL(rawURL string) (string, error) {
	if strings.HasPrefix(rawURL, "/") {
		rawURL = "https://" + AllowedDomain + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	host := parsed.Hostname()
	if host != AllowedDomain && host != "www."+AllowedDomain {
		return "", fmt.Errorf("%w: %q (only %s is permitted)", ErrDomainNotAllowed, host, AllowedDomain)
	}

	return parsed.String(), nil
}

// Fetch performs a GET against the allow-listed domain. Network failures and
// 5xx responses are retried up to the configured count with exponential
// backoff. The returned error wraps ErrDomainNotAllowed for rejected URLs.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	resolved, err := ResolveURL(rawURL)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s, ...
			delay := time.Duration(1<<(attempt-1)) * time.Second
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		page, retryable, err := f.fetchOnce(ctx, resolved)
		if err == nil {
			return page, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, fmt.Errorf("fetch %s failed after %d attempt(s): %w", resolved, f.maxRetries, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, fetchURL string) (*Page, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.7")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return nil, true, fmt.Errorf("server error: HTTP %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return nil, false, fmt.Errorf("request failed: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	return &Page{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		HTML:       string(body),
	}, false, nil
}
