package retry

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"runtime/debug"
	"strings"
	"time"

	"github.com/sot/ska-helpers/errors"
)

// sleepFn waits for d or until ctx is done. Tests substitute it to make
// backoff arithmetic observable without real sleeping.
var sleepFn = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do runs fn under the policy until it succeeds, exhausts its attempt
// budget, or returns an error the policy does not match.
//
// A matched failure is recorded, a warning is emitted if a logger is
// configured, and the executor sleeps the current delay before the next
// attempt. The delay then grows as delay = min(delay*Backoff + jitter,
// MaxDelay). An unmatched or NonRetryable error propagates immediately
// from the failing attempt with no logging and no history.
//
// On exhaustion, if every recorded failure has the same error type and the
// same message, the final error is returned unchanged; otherwise a *Error
// carrying the ordered failure history is returned.
func Do(ctx context.Context, policy Policy, fn func() error) error {
	_, err := DoWithResult(ctx, policy, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult is Do for callables that produce a value.
func DoWithResult[T any](ctx context.Context, policy Policy, fn func() (T, error)) (T, error) {
	var zero T

	if err := policy.validate(); err != nil {
		return zero, err
	}

	match := policy.Match
	if match == nil {
		match = func(error) bool { return true }
	}
	backoff := policy.Backoff
	if backoff == 0 {
		backoff = 1
	}

	limit, bounded := policy.Tries.Bounded()
	delay := policy.Delay
	var failures []Failure

	for attempt := 1; ; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		if !match(err) || IsNonRetryable(err) {
			return zero, err
		}

		failures = append(failures, Failure{
			Attempt: attempt,
			Type:    fmt.Sprintf("%T", err),
			Err:     err,
			Stack:   debug.Stack(),
		})

		if bounded && attempt >= limit {
			return zero, exhausted(policy.Op, failures)
		}

		policy.warn(err, delay)

		if sleepErr := sleepFn(ctx, delay); sleepErr != nil {
			return zero, fmt.Errorf("%w before attempt %d: %w",
				errors.ErrRetryAborted, attempt+1, sleepErr)
		}

		delay = nextDelay(delay, backoff, policy.Jitter.draw(), policy.MaxDelay)
	}
}

// Wrap binds a policy to fn at decoration time. Each invocation of the
// returned function runs a fresh retry session.
func Wrap[T any](policy Policy, fn func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		return DoWithResult(ctx, policy, func() (T, error) {
			return fn(ctx)
		})
	}
}

// On returns a matcher satisfied when the error matches any target per
// errors.Is.
func On(targets ...error) func(error) bool {
	return func(err error) bool {
		for _, target := range targets {
			if stderrors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

// OnType returns a matcher satisfied when the error chain contains an
// error of type E, per errors.As.
func OnType[E error]() func(error) bool {
	return func(err error) bool {
		var target E
		return stderrors.As(err, &target)
	}
}

// exhausted picks the exhaustion error: homogeneous failure histories
// re-surface the original error, heterogeneous ones aggregate.
func exhausted(op string, failures []Failure) error {
	if homogeneous(failures) {
		return failures[len(failures)-1].Err
	}
	return &Error{Op: op, Failures: failures}
}

// homogeneous reports whether every failure shares one error type and one
// message across the whole session, not just consecutive attempts.
func homogeneous(failures []Failure) bool {
	first := failures[0]
	for _, f := range failures[1:] {
		if f.Type != first.Type || f.Err.Error() != first.Err.Error() {
			return false
		}
	}
	return true
}

// nextDelay applies the growth rule. Jitter is added before the cap.
func nextDelay(delay time.Duration, backoff float64, jitter, maxDelay time.Duration) time.Duration {
	next := float64(delay)*backoff + float64(jitter)
	if maxDelay > 0 && next > float64(maxDelay) {
		return maxDelay
	}
	if next > float64(math.MaxInt64) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(next)
}

// warn renders and emits the per-retry warning. The error value itself is
// never altered; mangling applies to the rendered text only.
func (p Policy) warn(err error, delay time.Duration) {
	if p.Logger == nil {
		return
	}
	op := p.Op
	if op == "" {
		op = "call"
	}
	msg := fmt.Sprintf("WARNING: %s(%s) exception: %v, retrying in %s...",
		op, renderArgs(p.CallArgs), err, delay)
	if p.MangleAlertWords {
		msg = MangleAlertWords(msg)
	}
	p.Logger.Warn(msg)
}

// KV renders as "name=value" inside warning text, for keyword-style
// call arguments.
func KV(name string, value any) any {
	return kv{name: name, value: value}
}

type kv struct {
	name  string
	value any
}

func (a kv) String() string {
	return fmt.Sprintf("%s=%v", a.name, a.value)
}

func renderArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprintf("%v", arg)
	}
	return strings.Join(parts, ", ")
}
