// Package pacing provides the randomized delay policies that keep the request cadence irregular.
// Policies only compute durations; blocking is done by a Sleeper chosen by the caller.
package pacing

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// Rand is the subset of math/rand/v2 used for jitter. *rand.Rand satisfies it.
type Rand interface {
	Int64N(n int64) int64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Int64N(n int64) int64 { return rand.Int64N(n) }
func (globalRand) IntN(n int) int       { return rand.IntN(n) }

// DefaultRand returns a Rand backed by the auto-seeded global generator.
func DefaultRand() Rand {
	return globalRand{}
}

// Range is a uniform delay window [Base, Base+Spread].
type Range struct {
	Base   time.Duration
	Spread time.Duration
}

// Between builds a Range from inclusive bounds.
func Between(lo, hi time.Duration) Range {
	if hi < lo {
		lo, hi = hi, lo
	}
	return Range{Base: lo, Spread: hi - lo}
}

// Min returns the lower bound.
func (r Range) Min() time.Duration { return r.Base }

// Max returns the upper bound.
func (r Range) Max() time.Duration { return r.Base + r.Spread }

// Validate rejects negative windows.
func (r Range) Validate() error {
	if r.Base < 0 || r.Spread < 0 {
		return fmt.Errorf("invalid delay range base=%s spread=%s", r.Base, r.Spread)
	}
	return nil
}

// String renders the window as "min~max".
func (r Range) String() string {
	return fmt.Sprintf("%s~%s", r.Min(), r.Max())
}

// Draw picks a duration uniformly from r.
func Draw(rnd Rand, r Range) time.Duration {
	if r.Spread <= 0 {
		return r.Base
	}
	return r.Base + time.Duration(rnd.Int64N(int64(r.Spread)+1))
}

// Sleeper blocks for a duration unless the context ends first.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleepFunc adapts a function to Sleeper.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep calls f(ctx, d).
func (f SleepFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// TimerSleeper waits on a real timer.
type TimerSleeper struct{}

// Sleep blocks for d or until ctx is done.
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoSleep returns immediately. Useful for dry runs and tests.
var NoSleep = SleepFunc(func(ctx context.Context, _ time.Duration) error { return ctx.Err() })
