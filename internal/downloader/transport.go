package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxBackoff     = 3 * time.Second
)

// TransportConfig controls how often opening a media URL is retried.
// Retries only happen before the first byte is written; MaxRetries
// defaults to zero.
type TransportConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// RetryStatusCodes replaces the default 429/5xx set.
	RetryStatusCodes []int
}

// StatusError reports a media response other than 200 or 206.
type StatusError struct {
	URL        string
	StatusCode int
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("media request failed: status=%d", e.StatusCode)
}

func (c TransportConfig) withDefaults() TransportConfig {
	c.MaxRetries = max(c.MaxRetries, 0)
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = defaultInitialBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = defaultMaxBackoff
	}
	if len(c.RetryStatusCodes) == 0 {
		c.RetryStatusCodes = []int{
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		}
	}
	return c
}

// delay doubles InitialBackoff per attempt, capped at MaxBackoff. A longer
// server hint wins.
func (c TransportConfig) delay(attempt int, hint time.Duration) time.Duration {
	d := c.InitialBackoff
	for ; attempt > 0 && d < c.MaxBackoff; attempt-- {
		d *= 2
	}
	d = min(d, c.MaxBackoff)
	return max(d, hint)
}

func (c TransportConfig) retries(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var status *StatusError
	if errors.As(err, &status) {
		return slices.Contains(c.RetryStatusCodes, status.StatusCode)
	}
	return true
}

// open returns a successful response whose body the caller must close.
func (w *Writer) open(ctx context.Context, remoteURL string) (*http.Response, error) {
	cfg := w.cfg.withDefaults()
	for attempt := 0; ; attempt++ {
		resp, err := w.openOnce(ctx, remoteURL)
		if err == nil {
			return resp, nil
		}
		if attempt >= cfg.MaxRetries || !cfg.retries(err) {
			return nil, err
		}
		var hint time.Duration
		var status *StatusError
		if errors.As(err, &status) {
			hint = status.RetryAfter
		}
		if err := sleep(ctx, cfg.delay(attempt, hint)); err != nil {
			return nil, err
		}
	}
}

func (w *Writer) openOnce(ctx context.Context, remoteURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header = w.headers.Clone()
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusOK, http.StatusPartialContent:
		return resp, nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil, &StatusError{
		URL:        remoteURL,
		StatusCode: resp.StatusCode,
		RetryAfter: retryAfter(resp.Header.Get("Retry-After"), time.Now()),
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retryAfter reads a Retry-After value given in seconds or as an HTTP date.
func retryAfter(raw string, now time.Time) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return max(time.Duration(secs)*time.Second, 0)
	}
	if at, err := http.ParseTime(raw); err == nil {
		return max(at.Sub(now), 0)
	}
	return 0
}
