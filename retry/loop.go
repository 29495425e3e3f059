// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"time"

	"github.com/gogama/zkx/transient"
)

// Do runs op under retry policy p.
//
// The operation is retried only when it fails with a transient error
// and p decides a retry should be done. Between attempts Do sleeps for
// the duration returned by p.Wait, or until ctx is done.
//
// The Attempt passed to op is owned by Do. On return it reflects the
// final attempt. The error returned is the error of the final attempt,
// unwrapped, or ctx.Err() if ctx ended a wait between attempts.
func Do(ctx context.Context, p Policy, op func(a *Attempt) error) error {
	a := Attempt{Start: time.Now()}
	for {
		a.Err = op(&a)
		if a.Err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return a.Err
		}
		if a.Timeout() {
			a.Timeouts++
		}
		if transient.Categorize(a.Err) == transient.Not || !p.Decide(&a) {
			return a.Err
		}
		if err := sleep(ctx, p.Wait(&a)); err != nil {
			return err
		}
		a.Count++
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
