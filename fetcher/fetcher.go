// Package fetcher retrieves page bodies over HTTP with bounded retries and
// exponential backoff.
package fetcher

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultUserAgent = "prodscrape/1.0 (product list scraper)"

// Error reports a failed fetch. It carries the URL and either the last HTTP
// status observed or the underlying transport error.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to fetch %s: received status %d", e.URL, e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Options configures HTTP behaviour for a Fetcher. Zero values fall back to
// defaults: a 10 second timeout, 3 attempts, no backoff delay, and a 2.0
// backoff multiplier.
type Options struct {
	Timeout           time.Duration
	MaxRetries        int
	UserAgent         string
	RetryBackoff      time.Duration
	BackoffMultiplier float64
	RetryJitterMax    time.Duration
}

// Fetcher performs GET requests with retry-on-transient-failure. A single
// resty client is reused across calls for connection reuse; retry state is
// local to each Get call.
type Fetcher struct {
	client            *resty.Client
	maxRetries        int
	retryBackoff      time.Duration
	backoffMultiplier float64
	retryJitterMax    time.Duration
}

// New creates a Fetcher with the given options.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 3
	}
	if opts.BackoffMultiplier <= 0 {
		opts.BackoffMultiplier = 2.0
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent)

	return &Fetcher{
		client:            client,
		maxRetries:        opts.MaxRetries,
		retryBackoff:      opts.RetryBackoff,
		backoffMultiplier: opts.BackoffMultiplier,
		retryJitterMax:    opts.RetryJitterMax,
	}
}

// retryableStatus reports whether a status code is a transient failure.
func retryableStatus(status int) bool {
	return status == 429 || (status >= 500 && status < 600)
}

// Get fetches the body of url. Transport errors and transient statuses
// (429, 5xx) are retried up to MaxRetries total attempts with backoff
// between attempts; any other 4xx fails immediately. On failure the
// returned error is an *Error.
func (f *Fetcher) Get(ctx context.Context, url string) (string, error) {
	lastStatus := 0

	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		resp, err := f.client.R().SetContext(ctx).Get(url)
		if err != nil {
			if attempt == f.maxRetries {
				return "", &Error{URL: url, Err: err}
			}
			f.sleepBackoff(ctx, attempt)
			continue
		}

		status := resp.StatusCode()
		lastStatus = status

		if retryableStatus(status) {
			if attempt == f.maxRetries {
				return "", &Error{URL: url, StatusCode: status}
			}
			f.sleepBackoff(ctx, attempt)
			continue
		}

		if status >= 400 && status < 500 {
			return "", &Error{URL: url, StatusCode: status}
		}

		return resp.String(), nil
	}

	return "", &Error{URL: url, StatusCode: lastStatus}
}

// backoff computes the delay before the retry following the given attempt:
// base * multiplier^(attempt-1) plus a uniform jitter in [0, jitterMax).
func (f *Fetcher) backoff(attempt int) time.Duration {
	delay := time.Duration(float64(f.retryBackoff) * math.Pow(f.backoffMultiplier, float64(attempt-1)))
	if f.retryJitterMax > 0 {
		delay += time.Duration(rand.Int63n(int64(f.retryJitterMax)))
	}
	return delay
}

// sleepBackoff blocks for the computed backoff, returning early if the
// context is cancelled. No delay is applied when no backoff is configured.
func (f *Fetcher) sleepBackoff(ctx context.Context, attempt int) {
	if f.retryBackoff <= 0 {
		return
	}

	timer := time.NewTimer(f.backoff(attempt))
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
