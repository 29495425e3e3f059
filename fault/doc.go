// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package fault defines the configuration error taxonomy shared by the
// client builder, the retry policy selector, and the configuration
// front-end.
//
// Every configuration problem is reported as a *ConfigurationError
// carrying a Kind and the offending Value. Test for a particular kind
// using errors.Is and the sentinel errors in this package:
//
//     if errors.Is(err, fault.ErrUnknownRetryPolicy) {
//         ...
//     }
//
// Errors which are not configuration errors, for example the network
// errors surfaced when the client cannot reach the ensemble, are never
// converted into a ConfigurationError.
package fault
