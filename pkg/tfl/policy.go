package tfl

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds a crowding lookup: every attempt gets Timeout, and at most MaxRetries
// attempts follow the first one.
type RetryPolicy struct {
	Timeout    time.Duration
	MaxRetries uint64

	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

var DefaultRetryPolicy = RetryPolicy{
	Timeout:        5 * time.Second,
	MaxRetries:     2,
	InitialBackoff: 200 * time.Millisecond,
	MaxBackoff:     time.Second,
}

// WorstCaseLatency is the longest a lookup can block for, including the backoff sleeps
func (p RetryPolicy) WorstCaseLatency() time.Duration {
	return p.Timeout*time.Duration(1+p.MaxRetries) + p.MaxBackoff*time.Duration(p.MaxRetries)
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	exponential := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(p.InitialBackoff),
		backoff.WithMaxInterval(p.MaxBackoff),
		backoff.WithMaxElapsedTime(0),
	)

	return backoff.WithContext(backoff.WithMaxRetries(exponential, p.MaxRetries), ctx)
}
