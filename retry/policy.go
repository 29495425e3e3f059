// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import "time"

// A Policy controls if and how a failed ZooKeeper operation is retried.
// After every failed attempt, a Policy decides whether a retry should
// be done and, if so, how long the wait period should be before
// retrying.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
//
// A Policy is composed of the Decider and Waiter interfaces. While you
// can implement Policy yourself, it is usually simpler to use one of the
// built-in policies, obtained from Resolve or their constructors, or to
// construct your policy using the NewPolicy constructor.
type Policy interface {
	Decider
	Waiter
}

// Never is a policy that never retries.
var Never Policy = &policy{Times(0), NewFixedWaiter(0)}

type policy struct {
	decider Decider
	waiter  Waiter
}

// NewPolicy composes a Decider and a Waiter into a retry Policy.
func NewPolicy(d Decider, w Waiter) Policy {
	if d == nil {
		panic("zkx/retry: nil decider")
	}
	if w == nil {
		panic("zkx/retry: nil waiter")
	}
	return policy{decider: d, waiter: w}
}

func (p policy) Decide(a *Attempt) bool {
	return p.decider.Decide(a)
}

func (p policy) Wait(a *Attempt) time.Duration {
	return p.waiter.Wait(a)
}
