// Package retry wraps an opaque operation in a bounded
// retry-with-backoff policy. The policy is decoupled from what is
// retried: the lock arbiter's poll loop and external package
// operations run through the same executor.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/arthur-debert/aptdedup/pkg/logging"
)

// Schedule selects how the sleep between attempts grows.
type Schedule int

const (
	// Linear sleeps attempt * base after the n-th failure.
	Linear Schedule = iota
	// Constant sleeps the base duration every time (poll loops).
	Constant
)

// Policy bounds the retries of one operation.
type Policy struct {
	MaxAttempts int
	BaseBackoff time.Duration
	Schedule    Schedule
}

// Operation is an opaque zero-argument capability: nil error is
// success, anything else schedules a retry.
type Operation func() error

// Timer abstracts the wait between attempts so tests can run on a
// fake clock. A nil timer uses real time.
type Timer = backoff.Timer

// Permanent marks an operation error as non-retryable: Execute stops
// immediately and propagates it.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Execute runs op until it succeeds or the policy is exhausted, then
// propagates the final failure. The context stops the wait between
// attempts, never a running attempt.
func Execute(ctx context.Context, op Operation, p Policy) error {
	return ExecuteWithTimer(ctx, op, p, nil)
}

// ExecuteWithTimer is Execute with an injected wait timer.
func ExecuteWithTimer(ctx context.Context, op Operation, p Policy, timer Timer) error {
	logger := logging.GetLogger("retry")

	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	var sched backoff.BackOff
	switch p.Schedule {
	case Constant:
		sched = backoff.NewConstantBackOff(p.BaseBackoff)
	default:
		sched = &linearBackOff{base: p.BaseBackoff}
	}

	attempt := 0
	wrapped := func() error {
		attempt++
		err := op()
		if err != nil && attempt < p.MaxAttempts {
			logger.Debug().Int("attempt", attempt).Err(err).Msg("Attempt failed, will retry")
		}
		return err
	}

	bounded := backoff.WithContext(backoff.WithMaxRetries(sched, uint64(p.MaxAttempts-1)), ctx)
	return backoff.RetryNotifyWithTimer(wrapped, bounded, nil, timer)
}

// linearBackOff sleeps attempt * base: 1*base after the first failure,
// 2*base after the second, and so on.
type linearBackOff struct {
	base    time.Duration
	attempt int
}

func (l *linearBackOff) NextBackOff() time.Duration {
	l.attempt++
	return time.Duration(l.attempt) * l.base
}

func (l *linearBackOff) Reset() {
	l.attempt = 0
}
