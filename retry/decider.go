// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/zkx/transient"
)

// A Decider decides if a retry should be done.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
//
// Use the built-in constructors Times and Before, and the built-in
// decider TransientErr; or implement your Decider. Use DeciderFunc to
// convert an ordinary function into a Decider, and to compose deciders
// logically using DeciderFunc.And and DeciderFunc.Or.
type Decider interface {
	Decide(a *Attempt) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It implements the Decider interface, and
// also provides the logical composition methods And and Or.
//
// Every DeciderFunc must be safe for concurrent use by multiple
// goroutines.
type DeciderFunc func(a *Attempt) bool

// TransientErr is a decider that indicates a retry if the current
// error is transient according to transient.Categorize.
var TransientErr DeciderFunc = transientErr

// Decide returns true if a retry should be done, and false otherwise,
// after examining the current attempt state.
func (f DeciderFunc) Decide(a *Attempt) bool {
	return f(a)
}

// And composes two retry deciders into a new decider which returns true
// if both sub-deciders return true, and false otherwise.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(a *Attempt) bool {
		return f(a) && g(a)
	}
}

// Or composes two retry deciders into a new decider which returns
// true if either of the two sub-deciders returns true, but false if
// they both return false.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(a *Attempt) bool {
		return f(a) || g(a)
	}
}

// Times constructs a retry decider which allows up to n retries. The
// returned decider returns true while the attempt count a.Count is less
// than n, and false otherwise.
func Times(n int) DeciderFunc {
	return func(a *Attempt) bool {
		return a.Count < n
	}
}

// Before constructs a retry decider allowing retries until a certain
// amount of time has elapsed since the operation started. The returned
// decider returns true while the elapsed time is less than d, and false
// afterward.
func Before(d time.Duration) DeciderFunc {
	return func(a *Attempt) bool {
		return a.Elapsed() < d
	}
}

func transientErr(a *Attempt) bool {
	return transient.Categorize(a.Err) != transient.Not
}
