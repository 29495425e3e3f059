// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/zkx/transient"
)

// An Attempt represents the state of a single retried operation.
//
// Retry and timeout policies, as well as event handlers, should treat
// the exported field values as immutable.
type Attempt struct {
	// Count is the zero-based number of the current attempt. It is zero
	// on the initial attempt, one on the first retry, and so on.
	Count int

	// Start is the time the operation, not the individual attempt,
	// started.
	Start time.Time

	// Err is the error returned by the most recently completed attempt.
	// While an attempt is underway it still holds the error of the
	// previous attempt, if any.
	Err error

	// Timeouts is the number of attempts which ended in a timeout.
	Timeouts int
}

// Elapsed returns the time elapsed since the operation started. It
// returns zero if Start is not set.
func (a *Attempt) Elapsed() time.Duration {
	if a.Start.IsZero() {
		return 0
	}
	return time.Since(a.Start)
}

// Timeout reports whether the most recent attempt ended in a timeout.
func (a *Attempt) Timeout() bool {
	return transient.Categorize(a.Err) == transient.Timeout
}
