package notes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/akhdanfadh/notekeep/internal/logger"
)

const (
	defaultMaxAttempts = 3
	defaultRetryWait   = time.Second
	maxBackoff         = 30 * time.Second
)

// RetryDoer wraps a Doer and retries network errors, 429 and 5xx responses
// with exponential backoff. 4xx responses and context cancellation return
// immediately.
//
// When every attempt ends in a retryable status, the last response is handed
// back unchanged so the caller can still turn it into an *APIError.
type RetryDoer struct {
	next        Doer
	maxAttempts int
	retryWait   time.Duration
	logger      logger.Logger
}

// RetryOption configures a RetryDoer.
type RetryOption func(*RetryDoer)

// NewRetryDoer wraps next with retries.
func NewRetryDoer(next Doer, opts ...RetryOption) *RetryDoer {
	d := &RetryDoer{
		next:        next,
		maxAttempts: defaultMaxAttempts,
		retryWait:   defaultRetryWait,
		logger:      logger.Noop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithMaxAttempts sets the total number of attempts, the first one included.
func WithMaxAttempts(n int) RetryOption {
	return func(d *RetryDoer) {
		d.maxAttempts = n
	}
}

// WithRetryWait sets the base wait duration between attempts.
func WithRetryWait(wait time.Duration) RetryOption {
	return func(d *RetryDoer) {
		d.retryWait = wait
	}
}

// WithRetryLogger sets the logger for retry visibility.
func WithRetryLogger(l logger.Logger) RetryOption {
	return func(d *RetryDoer) {
		d.logger = l
	}
}

// waitWithContext waits for the specified duration or until context is cancelled.
func waitWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryableStatus reports whether a response status is worth another attempt.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// backoff returns the wait after the given attempt: retryWait doubled per
// attempt and capped at maxBackoff. Doubling stops at the cap, so large
// attempt counts never overflow into a negative duration.
func (d *RetryDoer) backoff(attempt int) time.Duration {
	wait := d.retryWait
	for i := 0; i < attempt; i++ {
		if wait <= 0 || wait >= maxBackoff {
			break
		}
		wait *= 2
	}
	return min(max(wait, 0), maxBackoff)
}

// Do implements Doer.
func (d *RetryDoer) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	attempts := max(d.maxAttempts, 1)

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		// check for cancellation before each attempt
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		attemptReq, err := rewind(req, attempt)
		if err != nil {
			return nil, err
		}

		resp, err := d.next.Do(attemptReq)
		if err == nil && !retryableStatus(resp.StatusCode) {
			return resp, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if attempt == attempts-1 {
			if err == nil {
				return resp, nil // let the caller read the final status and body
			}
			lastErr = err
			break
		}

		backoff := d.backoff(attempt)
		if err == nil {
			// drain so the connection can be reused
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests {
				d.logger.Warn("rate limited, retrying in %s...", backoff)
			} else {
				d.logger.Warn("%s %s returned HTTP %d (attempt %d/%d), retrying in %s...",
					req.Method, req.URL.Redacted(), resp.StatusCode, attempt+1, attempts, backoff)
			}
		} else {
			d.logger.Warn("request failed (attempt %d/%d): %v, retrying in %s...", attempt+1, attempts, err, backoff)
		}

		if err := waitWithContext(ctx, backoff); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

// rewind returns the request to send on the given attempt. The first attempt
// uses req as is; later ones need a fresh body from GetBody.
func rewind(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 0 || req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}
	if req.GetBody == nil {
		return nil, errors.New("request body cannot be replayed")
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("replaying request body: %w", err)
	}
	r := req.Clone(req.Context())
	r.Body = body
	return r, nil
}
