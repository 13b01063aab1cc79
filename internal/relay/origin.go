package relay

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// DefaultFetchTimeout bounds connecting to the origin and waiting for its
// response headers. The body transfer itself is not bounded.
const DefaultFetchTimeout = 10 * time.Second

// Fetcher performs GET requests against the origin.
type Fetcher interface {
	// Fetch issues a GET for target. On success the caller owns resp.Body.
	// Network failures and non-success statuses are returned as errors and
	// leave no body to close.
	Fetch(ctx context.Context, target string) (*http.Response, error)
}

// StatusError reports an origin response whose status is not 2xx or 3xx.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s for url: %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// HTTPFetcher is the net/http implementation of Fetcher.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns a Fetcher whose dial, TLS handshake and response
// header phases are each bounded by timeout. If timeout <= 0,
// DefaultFetchTimeout is used.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = timeout
	transport.ResponseHeaderTimeout = timeout

	return &HTTPFetcher{client: &http.Client{Transport: transport}}
}

// Fetch implements Fetcher.Fetch.
func (f *HTTPFetcher) Fetch(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode}
	}
	return resp, nil
}
