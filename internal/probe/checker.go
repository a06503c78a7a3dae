// Package probe checks batches of URLs for reachability.
package probe

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultTimeout is the per-probe timeout used when none is configured.
const DefaultTimeout = 5 * time.Second

// Result reports reachability for one probed URL.
type Result struct {
	URL          string `json:"url"`
	IsAccessible bool   `json:"isAccessible"`
}

// Checker fans out reachability probes.
type Checker struct {
	client  *http.Client
	timeout time.Duration
}

// NewChecker creates a checker with the given per-probe timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{
		client: &http.Client{
			// Redirect statuses already count as accessible; don't chase them.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		timeout: timeout,
	}
}

// CheckBatch probes every URL concurrently, each with an independent
// timeout, and returns one result per input in the same order. Duplicates
// are probed independently. Probe failures of any kind become
// IsAccessible=false; the batch itself never fails.
func (c *Checker) CheckBatch(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		g.Go(func() error {
			results[i] = Result{URL: u, IsAccessible: c.probe(ctx, u)}
			return nil
		})
	}
	_ = g.Wait() // probes report through results, never through errors
	return results
}

// probe issues a single GET and reports whether the response status falls
// in [200, 400).
func (c *Checker) probe(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}
