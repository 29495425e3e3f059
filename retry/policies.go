// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"fmt"
	"math/rand"
	"time"
)

// MaxExponentialRetries is the largest number of retries an exponential
// backoff policy will actually do, whatever its configured MaxRetries.
const MaxExponentialRetries = 29

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

type exponential struct {
	baseSleepTimeMs int
	maxSleepTimeMs  int
	maxRetries      int
	waiter          *expWaiter
}

func newExponential(baseSleepTimeMs, maxSleepTimeMs, maxRetries int) exponential {
	return exponential{
		baseSleepTimeMs: baseSleepTimeMs,
		maxSleepTimeMs:  maxSleepTimeMs,
		maxRetries:      maxRetries,
		waiter:          newExpWaiter(ms(baseSleepTimeMs), ms(maxSleepTimeMs), rand.New(rand.NewSource(time.Now().UnixNano()))),
	}
}

// BaseSleepTimeMs returns the configured initial sleep in milliseconds.
func (p *exponential) BaseSleepTimeMs() int { return p.baseSleepTimeMs }

// MaxSleepTimeMs returns the configured sleep ceiling in milliseconds.
func (p *exponential) MaxSleepTimeMs() int { return p.maxSleepTimeMs }

// MaxRetries returns the configured maximum number of retries. The
// number of retries actually done never exceeds MaxExponentialRetries.
func (p *exponential) MaxRetries() int { return p.maxRetries }

func (p *exponential) Decide(a *Attempt) bool {
	n := p.maxRetries
	if n > MaxExponentialRetries {
		n = MaxExponentialRetries
	}
	return a.Count < n
}

func (p *exponential) Wait(a *Attempt) time.Duration {
	return p.waiter.Wait(a)
}

// BoundedExponentialBackoff retries up to MaxRetries times, sleeping an
// exponentially growing, randomized amount of time between retries,
// never more than MaxSleepTimeMs.
type BoundedExponentialBackoff struct {
	exponential
}

// NewBoundedExponentialBackoff constructs a BoundedExponentialBackoff
// policy.
func NewBoundedExponentialBackoff(baseSleepTimeMs, maxSleepTimeMs, maxRetries int) *BoundedExponentialBackoff {
	return &BoundedExponentialBackoff{newExponential(baseSleepTimeMs, maxSleepTimeMs, maxRetries)}
}

// Type returns TypeBoundedExponentialBackoff.
func (p *BoundedExponentialBackoff) Type() string { return TypeBoundedExponentialBackoff }

func (p *BoundedExponentialBackoff) String() string {
	return fmt.Sprintf("%s(baseSleepTimeMs=%d, maxSleepTimeMs=%d, maxRetries=%d)",
		p.Type(), p.baseSleepTimeMs, p.maxSleepTimeMs, p.maxRetries)
}

// ExponentialBackoff retries up to MaxRetries times, sleeping an
// exponentially growing, randomized amount of time between retries.
//
// It behaves exactly like BoundedExponentialBackoff; the two differ only
// in the order of their constructor parameters.
type ExponentialBackoff struct {
	exponential
}

// NewExponentialBackoff constructs an ExponentialBackoff policy.
func NewExponentialBackoff(baseSleepTimeMs, maxRetries, maxSleepTimeMs int) *ExponentialBackoff {
	return &ExponentialBackoff{newExponential(baseSleepTimeMs, maxSleepTimeMs, maxRetries)}
}

// Type returns TypeExponentialBackoff.
func (p *ExponentialBackoff) Type() string { return TypeExponentialBackoff }

func (p *ExponentialBackoff) String() string {
	return fmt.Sprintf("%s(baseSleepTimeMs=%d, maxRetries=%d, maxSleepTimeMs=%d)",
		p.Type(), p.baseSleepTimeMs, p.maxRetries, p.maxSleepTimeMs)
}

// NTimes retries up to MaxRetries times with a fixed sleep between
// retries.
type NTimes struct {
	maxRetries            int
	sleepBetweenRetriesMs int
}

// NewNTimes constructs an NTimes policy.
func NewNTimes(maxRetries, sleepBetweenRetriesMs int) *NTimes {
	return &NTimes{maxRetries: maxRetries, sleepBetweenRetriesMs: sleepBetweenRetriesMs}
}

// MaxRetries returns the configured maximum number of retries.
func (p *NTimes) MaxRetries() int { return p.maxRetries }

// SleepBetweenRetriesMs returns the configured sleep in milliseconds.
func (p *NTimes) SleepBetweenRetriesMs() int { return p.sleepBetweenRetriesMs }

// Type returns TypeNTimes.
func (p *NTimes) Type() string { return TypeNTimes }

func (p *NTimes) Decide(a *Attempt) bool {
	return a.Count < p.maxRetries
}

func (p *NTimes) Wait(_ *Attempt) time.Duration {
	return ms(p.sleepBetweenRetriesMs)
}

func (p *NTimes) String() string {
	return fmt.Sprintf("%s(maxRetries=%d, sleepBetweenRetriesMs=%d)",
		p.Type(), p.maxRetries, p.sleepBetweenRetriesMs)
}

// OneTime retries exactly once, after a fixed sleep.
type OneTime struct {
	sleepBetweenRetriesMs int
}

// NewOneTime constructs a OneTime policy.
func NewOneTime(sleepBetweenRetriesMs int) *OneTime {
	return &OneTime{sleepBetweenRetriesMs: sleepBetweenRetriesMs}
}

// SleepBetweenRetriesMs returns the configured sleep in milliseconds.
func (p *OneTime) SleepBetweenRetriesMs() int { return p.sleepBetweenRetriesMs }

// Type returns TypeOneTime.
func (p *OneTime) Type() string { return TypeOneTime }

func (p *OneTime) Decide(a *Attempt) bool {
	return a.Count < 1
}

func (p *OneTime) Wait(_ *Attempt) time.Duration {
	return ms(p.sleepBetweenRetriesMs)
}

func (p *OneTime) String() string {
	return fmt.Sprintf("%s(sleepBetweenRetriesMs=%d)", p.Type(), p.sleepBetweenRetriesMs)
}

// UntilElapsed retries with a fixed sleep until MaxElapsedTimeMs has
// passed since the operation started.
type UntilElapsed struct {
	maxElapsedTimeMs      int
	sleepBetweenRetriesMs int
}

// NewUntilElapsed constructs an UntilElapsed policy.
func NewUntilElapsed(maxElapsedTimeMs, sleepBetweenRetriesMs int) *UntilElapsed {
	return &UntilElapsed{maxElapsedTimeMs: maxElapsedTimeMs, sleepBetweenRetriesMs: sleepBetweenRetriesMs}
}

// MaxElapsedTimeMs returns the configured time budget in milliseconds.
func (p *UntilElapsed) MaxElapsedTimeMs() int { return p.maxElapsedTimeMs }

// SleepBetweenRetriesMs returns the configured sleep in milliseconds.
func (p *UntilElapsed) SleepBetweenRetriesMs() int { return p.sleepBetweenRetriesMs }

// Type returns TypeUntilElapsed.
func (p *UntilElapsed) Type() string { return TypeUntilElapsed }

func (p *UntilElapsed) Decide(a *Attempt) bool {
	return a.Elapsed() < ms(p.maxElapsedTimeMs)
}

func (p *UntilElapsed) Wait(_ *Attempt) time.Duration {
	return ms(p.sleepBetweenRetriesMs)
}

func (p *UntilElapsed) String() string {
	return fmt.Sprintf("%s(maxElapsedTimeMs=%d, sleepBetweenRetriesMs=%d)",
		p.Type(), p.maxElapsedTimeMs, p.sleepBetweenRetriesMs)
}
