// Package retry executes fallible operations under a configurable retry
// policy: bounded or unbounded attempt budgets, exponential backoff with
// optional jitter and a delay cap, and selective matching of which errors
// are worth retrying.
//
// The policy is a plain struct bound per call (Do, DoWithResult) or once at
// decoration time (Wrap). Failures are recorded per attempt; on exhaustion
// the caller gets either the original error back unchanged (when every
// attempt failed the same way) or a *Error aggregating the full history.
//
//	policy := retry.Policy{
//		Tries:   retry.Attempts(5),
//		Delay:   time.Second,
//		Backoff: 2,
//		Match:   errors.IsTransient,
//		Logger:  slog.Default(),
//	}
//	result, err := retry.DoWithResult(ctx, policy, fetch)
package retry
