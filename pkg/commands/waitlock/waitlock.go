// Package waitlock waits for the external package database lock to
// become free, escalating to user-mediated forced release on timeout.
package waitlock

import (
	"context"
	"time"

	"github.com/arthur-debert/aptdedup/pkg/config"
	"github.com/arthur-debert/aptdedup/pkg/lock"
	"github.com/arthur-debert/aptdedup/pkg/logging"
	"github.com/arthur-debert/aptdedup/pkg/types"
)

// Options holds options for the wait-lock command
type Options struct {
	Config config.Config
	// Timeout and PollInterval override the configured values when
	// positive.
	Timeout      time.Duration
	PollInterval time.Duration
	Confirmer    types.Confirmer
	// Prober overrides the flock prober, for testing.
	Prober lock.Prober
}

// Result is the outcome of one lock wait.
type Result struct {
	Handle *lock.Handle
}

// Wait blocks until the package database lock is free or arbitration
// fails with a LOCK_TIMEOUT error.
func Wait(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.waitlock")

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = opts.Config.LockTimeout
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = opts.Config.PollInterval
	}

	prober := opts.Prober
	if prober == nil {
		prober = lock.NewFlockProber(opts.Config.LockPaths)
	}

	arbiter := lock.New(lock.Options{
		Resource:  "package database lock",
		Prober:    prober,
		Confirmer: opts.Confirmer,
		KillGrace: opts.Config.KillGrace,
	})

	handle, err := arbiter.Wait(ctx, timeout, interval)
	if err != nil {
		logger.Error().Err(err).Str("state", handle.State.String()).Msg("Lock arbitration failed")
		return &Result{Handle: handle}, err
	}

	logger.Info().Str("state", handle.State.String()).Msg("Lock available")
	return &Result{Handle: handle}, nil
}
