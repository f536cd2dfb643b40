package mygo

import (
	"context"
	"time"
)

// retryState tracks one logical call through the transport.
//
//	idle -> attempting -> succeeded
//	                   -> retrying -> attempting -> ...
//	                   -> failed
type retryState int

const (
	retryIdle retryState = iota
	retryAttempting
	retryRetrying
	retrySucceeded
	retryFailed
)

// RetryPolicy tunes the transport retry loop. The zero value is not usable;
// call defaultRetryPolicy or fill every field.
type RetryPolicy struct {
	// MaxAttempts is the total attempt budget including the first try.
	MaxAttempts int
	// Backoffs holds the delay before retry n; the last entry repeats.
	Backoffs []time.Duration
	// MaxBackoff caps every delay.
	MaxBackoff time.Duration
}

func defaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoffs:    []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
		MaxBackoff:  5 * time.Second,
	}
}

// delay returns the capped backoff before the given retry, where attempt is
// the 1-based number of the attempt that just failed.
func (p RetryPolicy) delay(attempt int) time.Duration {
	if len(p.Backoffs) == 0 {
		return 0
	}
	idx := attempt - 1
	if idx >= len(p.Backoffs) {
		idx = len(p.Backoffs) - 1
	}
	d := p.Backoffs[idx]
	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		d = p.MaxBackoff
	}
	return d
}

// retrier is the per-call retry state machine. Attempt count and the next
// backoff are explicit fields so the termination condition is testable
// without a network. Never shared between calls.
type retrier struct {
	policy      RetryPolicy
	state       retryState
	attempt     int
	nextBackoff time.Duration
}

func newRetrier(policy RetryPolicy) *retrier {
	return &retrier{policy: policy, state: retryIdle}
}

// start opens the next attempt, reporting false once the budget is spent.
func (r *retrier) start() bool {
	if r.state == retrySucceeded || r.state == retryFailed {
		return false
	}
	if r.attempt >= r.policy.MaxAttempts {
		r.state = retryFailed
		return false
	}
	r.attempt++
	r.state = retryAttempting
	return true
}

func (r *retrier) succeed() {
	r.state = retrySucceeded
}

// fail records an attempt failure. It returns true when another attempt may
// follow; retryable=false (timeouts, terminal statuses) ends the call
// immediately regardless of remaining budget.
func (r *retrier) fail(retryable bool) bool {
	if !retryable || r.attempt >= r.policy.MaxAttempts {
		r.state = retryFailed
		return false
	}
	r.state = retryRetrying
	r.nextBackoff = r.policy.delay(r.attempt)
	return true
}

// wait sleeps for the pending backoff without holding any shared resource.
func (r *retrier) wait(ctx context.Context) error {
	if r.nextBackoff <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(r.nextBackoff)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *retrier) exhausted() bool {
	return r.state == retryFailed
}
