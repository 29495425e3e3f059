// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides the retry policies governing how a ZooKeeper
// client retries operations that fail because of connection loss, and
// how long it waits before retrying.
//
// The interface Policy defines a retry Policy. Five built-in policies
// cover the common backoff strategies, and each is identified by a
// type identifier string for use in declarative configuration:
//
//     bounded-exponential-backoff   BoundedExponentialBackoff
//     exponential-backoff           ExponentialBackoff
//     retry-n-times                 NTimes
//     retry-one-time                OneTime
//     retry-until-elapsed           UntilElapsed
//
// Use Resolve to select and construct a built-in policy from its type
// identifier and a Spec holding its parameters:
//
//     maxRetries, sleep := 3, 500
//     policy, err := retry.Resolve("retry-n-times", retry.Spec{
//         MaxRetries:            &maxRetries,
//         SleepBetweenRetriesMs: &sleep,
//     })
//
// All numeric parameters are plain integers: times are milliseconds and
// retry limits are counts. No unit conversion is done. A parameter the
// policy type requires must be set; Resolve does not default it.
//
// If the built-in policies are insufficient, a custom Policy can be
// assembled with NewPolicy from a decision-maker, Decider, and a wait
// time calculator, Waiter:
//
//     decider := retry.Times(3).And(retry.Before(5 * time.Second))
//     waiter := retry.NewExpWaiter(100*time.Millisecond, 2*time.Second, time.Now())
//     policy := retry.NewPolicy(decider, waiter)
//
// Function Do runs an operation under a Policy. It only consults the
// policy when the operation fails with a transient error, as classified
// by package transient.
package retry
