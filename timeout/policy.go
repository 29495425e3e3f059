// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/zkx/retry"
)

// A Policy defines a timeout policy which may be plugged into the
// ZooKeeper client (zkx.Client) to direct how long to wait for a
// connected session on the initial attempt of an operation, as well as
// on any subsequent retries.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the session wait timeout for the next attempt of
	// the operation.
	//
	// Parameter a contains the current state of the retried operation.
	Timeout(a *retry.Attempt) time.Duration
}

// DefaultPolicy is the default timeout policy. It sets a fixed timeout
// of 15 seconds on each attempt, matching the default connection
// timeout.
var DefaultPolicy Policy = Fixed(15 * time.Second)

// Infinite is a built-in timeout policy which never times out.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed constructs a timeout policy that uses the same value for every
// attempt. The return value is a timeout policy that always returns the
// value d.
func Fixed(d time.Duration) Policy {
	return policy([]time.Duration{d})
}

// Adaptive constructs a timeout policy that varies the next timeout
// value if the previous attempt timed out.
//
// Use Adaptive if the ensemble usually recovers from a connection loss
// quickly, so that a short wait followed by a retry is best, but you
// also need to ride out a longer leader election without exhausting
// the retry policy.
//
// Parameter usual represents the timeout value the policy will return
// for an initial attempt and for any retry where the immediately
// preceding attempt did not time out.
//
// Parameter after contains timeout values the policy will return if
// the previous attempt timed out. If this was the first timeout of the
// operation, after[0] is returned; if the second, after[1], and so on.
// If more attempts have timed out than after has elements, then the
// last element of after is returned.
//
// Consider the following timeout policy:
//
// 	p := Adaptive(2*time.Second, 5*time.Second, 30*time.Second)
//
// The policy p will use 2 seconds as the usual timeout but if the
// preceding attempt timed out and was the first timeout of the
// operation, it will use 5 seconds; and if the previous attempt timed
// out and was not the first timeout, it will use 30 seconds.
func Adaptive(usual time.Duration, after ...time.Duration) Policy {
	p := make([]time.Duration, 1, 1+len(after))
	p[0] = usual
	return policy(append(p, after...))
}

type policy []time.Duration

func (p policy) Timeout(a *retry.Attempt) time.Duration {
	if !a.Timeout() {
		return p[0]
	}

	i := a.Timeouts
	if i > len(p)-1 {
		i = len(p) - 1
	}

	return p[i]
}
