// Package retry implements bounded exponential backoff for upstream
// module reads.
package retry

import (
	"context"
	"math/rand"
	"strings"
	"time"
)

// Config bounds a retry loop.
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	JitterFactor float64 // 0-1 fraction of the delay applied as random +/- jitter
}

// DefaultConfig returns the standard backoff for module reads: three
// retries starting at 100ms, doubling up to 5s, with 10% jitter.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:   3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
}

// backoff sleeps for the jittered delay, honoring context cancellation,
// and returns the next delay in the schedule.
func backoff(ctx context.Context, cfg *Config, delay time.Duration) (time.Duration, error) {
	jittered := delay
	if cfg.JitterFactor > 0 {
		jitter := float64(delay) * cfg.JitterFactor * (rand.Float64()*2 - 1)
		jittered = time.Duration(float64(delay) + jitter)
	}

	select {
	case <-time.After(jittered):
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	next := time.Duration(float64(delay) * cfg.Multiplier)
	if next > cfg.MaxDelay {
		next = cfg.MaxDelay
	}
	return next, nil
}

// Do runs fn until it succeeds or the retry budget is spent, backing
// off between attempts. The last error is returned when the budget runs
// out; context cancellation cuts the wait short.
func Do(ctx context.Context, cfg *Config, fn func() error) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt < cfg.MaxRetries {
			next, err := backoff(ctx, cfg, delay)
			if err != nil {
				return err
			}
			delay = next
		}
	}

	return lastErr
}

// DoIfRetryable runs fn like Do but gives up immediately on errors that
// are not transient, so permanent failures (missing users, malformed
// payloads) never burn the retry budget.
func DoIfRetryable(ctx context.Context, cfg *Config, fn func() error) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		lastErr = err

		if attempt < cfg.MaxRetries {
			next, err := backoff(ctx, cfg, delay)
			if err != nil {
				return err
			}
			delay = next
		}
	}

	return lastErr
}

// retryablePatterns are substrings of errors worth retrying: transport
// faults and HTTP statuses a later attempt might clear.
var retryablePatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"timeout",
	"timed out",
	"temporary failure",
	"network is unreachable",
	"429",
	"500",
	"502",
	"503",
	"504",
	"rate limit",
	"service unavailable",
	"too many requests",
}

// IsRetryable reports whether an error looks transient.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range retryablePatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
