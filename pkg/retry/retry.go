// Package retry provides an opt-in retry wrapper around dispatch calls. The
// dispatcher itself guarantees exactly one round trip per call; callers that
// want retries wrap the call here, keeping retry policy out of the dispatch
// path.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/lakeport-io/lakeport-go/pkg/api"
)

// Func is a single dispatch attempt, typically a closure over Client.Call.
type Func func(ctx context.Context) (api.Envelope, error)

// Option adjusts the backoff schedule.
type Option func(*backoff.ExponentialBackOff)

// WithInitialInterval sets the delay before the first retry.
func WithInitialInterval(d time.Duration) Option {
	return func(b *backoff.ExponentialBackOff) { b.InitialInterval = d }
}

// WithMaxInterval caps the delay between retries.
func WithMaxInterval(d time.Duration) Option {
	return func(b *backoff.ExponentialBackOff) { b.MaxInterval = d }
}

// WithMaxElapsedTime bounds the total time spent retrying. Zero retries
// forever (until ctx is done).
func WithMaxElapsedTime(d time.Duration) Option {
	return func(b *backoff.ExponentialBackOff) { b.MaxElapsedTime = d }
}

// Do invokes op with exponential backoff until it succeeds, returns a
// non-retryable error, or ctx is done. Only transport failures and throttling
// or server-side API statuses (429, 5xx) are retried; everything else is
// permanent. Callers are responsible for only retrying operations the API
// treats as idempotent.
func Do(ctx context.Context, op Func, opts ...Option) (api.Envelope, error) {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 2 * time.Minute
	for _, opt := range opts {
		opt(policy)
	}

	var envelope api.Envelope
	err := backoff.Retry(func() error {
		var err error
		envelope, err = op(ctx)
		if err == nil {
			return nil
		}
		if !api.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		return nil, err
	}
	return envelope, nil
}
