package lock

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/aptdedup/pkg/errors"
	"github.com/arthur-debert/aptdedup/pkg/logging"
	"github.com/arthur-debert/aptdedup/pkg/retry"
	"github.com/arthur-debert/aptdedup/pkg/types"
)

// State is the arbiter's view of the lock. Transitions only ever move
// forward: Free -> HeldByOther -> Escalated -> Killed or Abandoned.
type State int

const (
	StateFree State = iota
	StateHeldByOther
	StateEscalated
	StateKilled
	StateAbandoned
)

func (s State) String() string {
	switch s {
	case StateFree:
		return "free"
	case StateHeldByOther:
		return "held-by-other"
	case StateEscalated:
		return "escalated"
	case StateKilled:
		return "killed"
	case StateAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Handle describes the arbitration outcome.
type Handle struct {
	Resource string
	Holders  []int32
	State    State
}

// Prober answers "is the resource held right now, and by whom". It is
// re-queried on every poll, never cached.
type Prober interface {
	Probe() (held bool, holders []int32, err error)
}

// Terminator sends signals to lock holders during an authorized kill.
type Terminator interface {
	Terminate(pid int32) error
	Kill(pid int32) error
	Running(pid int32) bool
}

// Clock abstracts time for the poll loop.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Options configures an Arbiter. Prober is required; a nil Confirmer
// means escalation always abandons (kills are impossible without a
// consent channel).
type Options struct {
	Resource   string
	Prober     Prober
	Confirmer  types.Confirmer
	Terminator Terminator
	Clock      Clock
	Timer      retry.Timer
	KillGrace  time.Duration
}

// Arbiter waits for the external lock to become free.
type Arbiter struct {
	resource   string
	prober     Prober
	confirmer  types.Confirmer
	terminator Terminator
	clock      Clock
	timer      retry.Timer
	killGrace  time.Duration
	logger     zerolog.Logger
}

// New creates an Arbiter from options, filling in real-world defaults.
func New(opts Options) *Arbiter {
	a := &Arbiter{
		resource:   opts.Resource,
		prober:     opts.Prober,
		confirmer:  opts.Confirmer,
		terminator: opts.Terminator,
		clock:      opts.Clock,
		timer:      opts.Timer,
		killGrace:  opts.KillGrace,
		logger:     logging.GetLogger("lock"),
	}
	if a.resource == "" {
		a.resource = "package database lock"
	}
	if a.clock == nil {
		a.clock = realClock{}
	}
	if a.terminator == nil {
		a.terminator = GopsTerminator{}
	}
	if a.killGrace <= 0 {
		a.killGrace = 2 * time.Second
	}
	return a
}

var errStillHeld = stderrors.New("lock still held")

// Wait polls until the lock is free or the timeout elapses. Polls run
// at the fixed interval starting immediately: timeout 10s with
// interval 3s probes at t=0, 3, 6 and 9, then escalates at t=10.
// On timeout the holder PIDs are surfaced to the Confirmer; only an
// explicit yes authorizes termination, followed by exactly one
// re-check. Otherwise the result is a LOCK_TIMEOUT error.
func (a *Arbiter) Wait(ctx context.Context, timeout, pollInterval time.Duration) (*Handle, error) {
	handle := &Handle{Resource: a.resource, State: StateFree}
	if timeout <= 0 || pollInterval <= 0 {
		return handle, errors.Newf(errors.ErrInvalidInput,
			"lock wait needs a positive timeout and poll interval, got %s and %s", timeout, pollInterval)
	}
	start := a.clock.Now()

	attempts := int(timeout / pollInterval)
	if timeout%pollInterval != 0 {
		attempts++
	}
	if attempts < 1 {
		attempts = 1
	}

	var probeErr error
	poll := func() error {
		held, holders, err := a.prober.Probe()
		if err != nil {
			probeErr = err
			return retry.Permanent(err)
		}
		if !held {
			return nil
		}
		handle.State = StateHeldByOther
		handle.Holders = holders
		a.logger.Debug().Ints32("holders", holders).Msg("Lock held, waiting")
		return errStillHeld
	}

	err := retry.ExecuteWithTimer(ctx, poll,
		retry.Policy{MaxAttempts: attempts, BaseBackoff: pollInterval, Schedule: retry.Constant},
		a.timer)
	if err == nil {
		handle.State = StateFree
		a.logger.Info().Str("resource", a.resource).Msg("Lock is free")
		return handle, nil
	}
	if probeErr != nil {
		return handle, errors.Wrapf(probeErr, errors.ErrLockProbe, "failed to probe %s", a.resource)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return handle, errors.Wrap(ctxErr, errors.ErrLockTimeout, "lock wait canceled")
	}

	// Exhaust the remainder of the timeout window before escalating.
	if elapsed := a.clock.Now().Sub(start); elapsed < timeout {
		a.clock.Sleep(timeout - elapsed)
	}

	handle.State = StateEscalated
	a.logger.Warn().
		Str("resource", a.resource).
		Dur("timeout", timeout).
		Ints32("holders", handle.Holders).
		Msg("Lock wait timed out, escalating")

	return a.escalate(handle, timeout)
}

func (a *Arbiter) escalate(handle *Handle, timeout time.Duration) (*Handle, error) {
	timeoutErr := func() error {
		return errors.Newf(errors.ErrLockTimeout, "%s still held after %s", a.resource, timeout).
			WithDetail("holders", handle.Holders)
	}

	if a.confirmer == nil || len(handle.Holders) == 0 || !a.confirmer.ConfirmKill(a.resource, handle.Holders) {
		handle.State = StateAbandoned
		a.logger.Error().Str("resource", a.resource).Msg("Lock wait abandoned")
		return handle, timeoutErr()
	}

	for _, pid := range handle.Holders {
		if err := a.terminator.Terminate(pid); err != nil {
			a.logger.Warn().Err(err).Int32("pid", pid).Msg("Failed to send terminate signal")
		}
	}
	a.clock.Sleep(a.killGrace)

	for _, pid := range handle.Holders {
		if !a.terminator.Running(pid) {
			continue
		}
		if err := a.terminator.Kill(pid); err != nil {
			a.logger.Warn().Err(err).Int32("pid", pid).Msg("Failed to send kill signal")
		}
	}
	a.clock.Sleep(a.killGrace)

	// Exactly one re-check after the authorized kill.
	held, holders, err := a.prober.Probe()
	if err != nil {
		handle.State = StateAbandoned
		return handle, errors.Wrapf(err, errors.ErrLockProbe, "failed to re-check %s", a.resource)
	}
	if held {
		handle.State = StateAbandoned
		handle.Holders = holders
		return handle, timeoutErr()
	}

	handle.State = StateKilled
	a.logger.Info().Str("resource", a.resource).Msg("Lock released after authorized kill")
	return handle, nil
}
