package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout bounds the whole GET, redirects and body included.
const DefaultFetchTimeout = 10 * time.Second

// MaxBodyBytes caps how much of a page is read. Larger bodies fail the fetch.
const MaxBodyBytes = 5 << 20

const DefaultUserAgent = "seoaudit/1.0 (+https://github.com/hamed0406/seoaudit)"

// FetchError is returned for any transport, timeout or status failure.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	return e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

type Fetcher struct {
	Client    *http.Client
	UserAgent string
}

func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Fetcher{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

// Fetch performs a single GET and returns the body decoded to UTF-8.
// Redirects are followed; the final status must be 2xx.
func (f *Fetcher) Fetch(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", &FetchError{URL: target, Err: err}
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", &FetchError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s for url: %s", resp.Status, resp.Request.URL),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return "", &FetchError{URL: target, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(raw) > MaxBodyBytes {
		return "", &FetchError{URL: target, StatusCode: resp.StatusCode, Err: fmt.Errorf("response body exceeds %d bytes for url: %s", MaxBodyBytes, resp.Request.URL)}
	}

	body, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", &FetchError{URL: target, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", &FetchError{URL: target, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}
	return string(b), nil
}
