package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vonderheiden/bannerforge/pkg/observability"
)

// maxAssetBytes caps remote asset downloads. Anything larger than this is
// not a banner image.
const maxAssetBytes = 32 << 20

// FetchBytes downloads url and returns the response body. The request is
// bounded by both ctx and timeout (when timeout > 0). Server errors (5xx)
// are retried with backoff; client errors (4xx) fail immediately.
func FetchBytes(ctx context.Context, client *http.Client, rawURL string, timeout time.Duration) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var host, path string
	if u, err := url.Parse(rawURL); err == nil {
		host, path = u.Host, u.Path
	}

	var body []byte
	err := Retry(ctx, 3, 500*time.Millisecond, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}
		observability.HTTP().OnRequest(ctx, http.MethodGet, host, path)
		start := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			observability.HTTP().OnError(ctx, http.MethodGet, host, path, err)
			// Network failures are worth one more try unless the
			// deadline already expired.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &RetryableError{Err: err}
		}
		defer resp.Body.Close()
		observability.HTTP().OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

		if resp.StatusCode >= 500 {
			return &RetryableError{Err: fmt.Errorf("GET %s: %s", rawURL, resp.Status)}
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("GET %s: %s", rawURL, resp.Status)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
		return err
	})
	return body, err
}
