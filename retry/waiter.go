// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"sync"
	"time"
)

// A Waiter specifies how long to wait before retrying a failed attempt.
//
// Implementations of Waiter must be safe for concurrent use by multiple
// goroutines.
//
// The retry loop will not call the Waiter on a retry policy if the
// policy Decider returned false.
type Waiter interface {
	Wait(a *Attempt) time.Duration
}

// maxShift bounds the exponent used by the exponential waiter so that
// 1<<(shift+1) never overflows an int64.
const maxShift = 61

// NewFixedWaiter constructs a Waiter that always returns the given
// duration.
//
// Use NewFixedWaiter to obtain a constant retry backoff.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *Attempt) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter constructs a Waiter implementing an exponential backoff
// formula with optional jitter.
//
// With jitter, the wait before retry number n (zero-based attempt
// count n) is:
//
//	base * max(1, random(0, 2**(n+1)))
//
// capped at max. Without jitter, the wait is base * 2**n, capped at
// max.
//
// Base and max must be positive values, and max must be at least equal
// to base.
//
// Parameter jitter is used to generate the random multiplier. To make a
// waiter that does not jitter, pass nil for jitter. Otherwise you may
// specify either a random number generator seed value (as a time.Time,
// int, or int64) or a random number generator (as a rand.Source or a
// *rand.Rand).
func NewExpWaiter(base, max time.Duration, jitter interface{}) Waiter {
	if base < 1 {
		panic("zkx/retry: base must be positive")
	}
	if max < base {
		panic("zkx/retry: max must be at least base")
	}
	return newExpWaiter(base, max, jitterToRand(jitter))
}

func newExpWaiter(base, max time.Duration, r *rand.Rand) *expWaiter {
	return &expWaiter{
		base: base,
		max:  max,
		rand: r,
	}
}

type expWaiter struct {
	base time.Duration
	max  time.Duration
	rand *rand.Rand
	lock sync.Mutex
}

func (w *expWaiter) Wait(a *Attempt) time.Duration {
	shift := a.Count
	if shift < 0 {
		shift = 0
	} else if shift > maxShift {
		shift = maxShift
	}

	var mult int64
	if w.rand == nil {
		mult = int64(1) << shift
	} else {
		w.lock.Lock()
		mult = w.rand.Int63n(int64(1) << (shift + 1))
		w.lock.Unlock()
		if mult < 1 {
			mult = 1
		}
	}

	base := int64(w.base)
	d := base * mult
	if d/mult != base || d < 0 || d > int64(w.max) {
		d = int64(w.max)
	}

	return time.Duration(d)
}

func jitterToRand(jitter interface{}) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("zkx/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("zkx/retry: invalid jitter type")
	}
	return rand.New(s)
}
