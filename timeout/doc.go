// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines policies for how long a ZooKeeper client
// waits for a usable session before giving up on an operation attempt,
// including on retries. A generic interface for timeout policies is
// provided, Policy, along with several useful policy generating
// functions and built-in policies.
package timeout
