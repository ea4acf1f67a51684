package retry

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sot/ska-helpers/errors"
)

var (
	// Thread-safe random source for jitter
	randMu     sync.Mutex
	randSource = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// Logger is the warning sink consumed by the executor. It is structurally
// typed so that *slog.Logger satisfies it directly; a nil Logger disables
// warning emission without changing retry behavior.
type Logger interface {
	Warn(msg string, args ...any)
}

// Tries is the total attempt budget for a retry session. The zero value is
// unbounded: the session only terminates via success or an unmatched error.
// Bounded budgets count total attempts, not retries after the first, so
// Attempts(5) means at most 5 invocations with 4 sleeps between them.
type Tries struct {
	bounded bool
	n       int
}

// Attempts returns a bounded budget of n total attempts.
func Attempts(n int) Tries {
	return Tries{bounded: true, n: n}
}

// Unbounded returns a budget that never exhausts.
func Unbounded() Tries {
	return Tries{}
}

// Bounded reports the attempt limit and whether one is set.
func (t Tries) Bounded() (int, bool) {
	return t.n, t.bounded
}

func (t Tries) String() string {
	if !t.bounded {
		return "unbounded"
	}
	return fmt.Sprintf("%d", t.n)
}

// Jitter is the additive term applied when the delay is updated between
// attempts. The zero value adds nothing. A fixed jitter adds the same
// amount every time; a range jitter draws uniformly from [min, max).
type Jitter struct {
	min, max time.Duration
}

// FixedJitter adds exactly d on every delay update.
func FixedJitter(d time.Duration) Jitter {
	return Jitter{min: d, max: d}
}

// RangeJitter draws uniformly from [min, max) on every delay update.
func RangeJitter(min, max time.Duration) Jitter {
	return Jitter{min: min, max: max}
}

// draw returns the jitter term for one delay update.
func (j Jitter) draw() time.Duration {
	if j.max <= j.min {
		return j.min
	}
	randMu.Lock()
	defer randMu.Unlock()
	return j.min + time.Duration(randSource.Int63n(int64(j.max-j.min)))
}

// Policy configures a retry session. A Policy is immutable for the duration
// of a session: Do and DoWithResult never modify it.
type Policy struct {
	// Tries is the total attempt budget. Zero value = unbounded.
	Tries Tries

	// Delay is the sleep before the second attempt. Subsequent sleeps grow
	// as delay = min(delay*Backoff + jitter, MaxDelay).
	Delay time.Duration

	// Backoff is the delay multiplier. Zero means 1 (constant delay).
	Backoff float64

	// MaxDelay caps the updated delay. Zero means uncapped.
	MaxDelay time.Duration

	// Jitter is added on each delay update, before the MaxDelay cap.
	Jitter Jitter

	// Match decides whether an error is retried. A nil Match retries every
	// error. An unmatched error propagates immediately from the failing
	// attempt, bypassing history and logging.
	Match func(error) bool

	// Logger receives one warning per retried failure. Nil disables
	// warnings entirely.
	Logger Logger

	// MangleAlertWords applies the alert-word transform to warning text
	// before it reaches the Logger. Error values are never mangled.
	MangleAlertWords bool

	// Op names the operation in warning text. Empty renders as "call".
	Op string

	// CallArgs are rendered inside the parentheses of the warning text.
	// Use KV for keyword-style arguments.
	CallArgs []any
}

// validate rejects configurations the executor cannot honor.
func (p Policy) validate() error {
	if n, bounded := p.Tries.Bounded(); bounded && n < 1 {
		return errors.WrapInvalid(
			fmt.Errorf("bounded tries must be at least 1, got %d", n),
			"Policy", "validate", "invalid attempt budget")
	}
	if p.Delay < 0 {
		return errors.WrapInvalid(
			fmt.Errorf("delay cannot be negative, got %s", p.Delay),
			"Policy", "validate", "invalid delay")
	}
	if p.MaxDelay < 0 {
		return errors.WrapInvalid(
			fmt.Errorf("max delay cannot be negative, got %s", p.MaxDelay),
			"Policy", "validate", "invalid max delay")
	}
	if p.Backoff < 0 {
		return errors.WrapInvalid(
			fmt.Errorf("backoff cannot be negative, got %v", p.Backoff),
			"Policy", "validate", "invalid backoff")
	}
	if p.MaxDelay > 0 && p.Delay > p.MaxDelay {
		return errors.WrapInvalid(
			fmt.Errorf("delay %s exceeds max delay %s", p.Delay, p.MaxDelay),
			"Policy", "validate", "invalid delay bounds")
	}
	return nil
}

// DefaultPolicy returns the historical defaults: retry every error forever
// with no delay between attempts.
func DefaultPolicy() Policy {
	return Policy{
		Tries:   Unbounded(),
		Backoff: 1,
	}
}

// Transient returns a production-oriented policy for transient faults:
// a bounded budget with exponential backoff and a little jitter, retrying
// only errors the shared taxonomy classifies as transient.
func Transient() Policy {
	return Policy{
		Tries:    Attempts(5),
		Delay:    100 * time.Millisecond,
		Backoff:  2,
		MaxDelay: 5 * time.Second,
		Jitter:   RangeJitter(0, 50*time.Millisecond),
		Match:    errors.IsTransient,
	}
}
