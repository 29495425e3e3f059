// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"fmt"

	"github.com/gogama/zkx/fault"
)

// Type identifiers of the built-in retry policies.
const (
	TypeBoundedExponentialBackoff = "bounded-exponential-backoff"
	TypeExponentialBackoff        = "exponential-backoff"
	TypeNTimes                    = "retry-n-times"
	TypeOneTime                   = "retry-one-time"
	TypeUntilElapsed              = "retry-until-elapsed"
)

// Types returns the type identifiers of the built-in retry policies in
// canonical order.
func Types() []string {
	return []string{
		TypeBoundedExponentialBackoff,
		TypeExponentialBackoff,
		TypeNTimes,
		TypeOneTime,
		TypeUntilElapsed,
	}
}

// Spec holds the parameters of a built-in retry policy. Times are in
// milliseconds. A nil field is unset.
//
// Each policy type requires the parameters it uses and ignores the
// rest:
//
//	bounded-exponential-backoff  BaseSleepTimeMs, MaxSleepTimeMs, MaxRetries
//	exponential-backoff          BaseSleepTimeMs, MaxRetries, MaxSleepTimeMs
//	retry-n-times                MaxRetries, SleepBetweenRetriesMs
//	retry-one-time               SleepBetweenRetriesMs
//	retry-until-elapsed          MaxElapsedTimeMs, SleepBetweenRetriesMs
type Spec struct {
	Type                  string
	BaseSleepTimeMs       *int
	MaxSleepTimeMs        *int
	MaxRetries            *int
	SleepBetweenRetriesMs *int
	MaxElapsedTimeMs      *int
}

// Parameter names, as used in configuration documents and in the Value
// of the errors Resolve returns for missing parameters.
const (
	ParamBaseSleepTime       = "base-sleep-time"
	ParamMaxSleepTime        = "max-sleep-time"
	ParamMaxRetries          = "max-retries"
	ParamSleepBetweenRetries = "sleep-between-retries"
	ParamMaxElapsedTime      = "max-elapsed-time"
)

type param struct {
	name  string
	value *int
}

// Resolve constructs the built-in retry policy identified by typeID,
// using the parameters from s that the policy type requires. The lookup
// is case-sensitive.
//
// If typeID does not identify a built-in policy, Resolve returns a
// *fault.ConfigurationError of kind fault.UnknownRetryPolicy whose Value
// is typeID. If a parameter the policy type requires is nil, Resolve
// returns a *fault.ConfigurationError of kind fault.InvalidAttribute
// whose Value is the parameter name, for example "max-sleep-time".
func Resolve(typeID string, s Spec) (Policy, error) {
	var params []param
	switch typeID {
	case TypeBoundedExponentialBackoff, TypeExponentialBackoff:
		params = []param{
			{ParamBaseSleepTime, s.BaseSleepTimeMs},
			{ParamMaxSleepTime, s.MaxSleepTimeMs},
			{ParamMaxRetries, s.MaxRetries},
		}
	case TypeNTimes:
		params = []param{{ParamMaxRetries, s.MaxRetries}, {ParamSleepBetweenRetries, s.SleepBetweenRetriesMs}}
	case TypeOneTime:
		params = []param{{ParamSleepBetweenRetries, s.SleepBetweenRetriesMs}}
	case TypeUntilElapsed:
		params = []param{{ParamMaxElapsedTime, s.MaxElapsedTimeMs}, {ParamSleepBetweenRetries, s.SleepBetweenRetriesMs}}
	default:
		return nil, fault.New(fault.UnknownRetryPolicy, typeID)
	}

	for _, p := range params {
		if p.value == nil {
			return nil, &fault.ConfigurationError{
				Kind:  fault.InvalidAttribute,
				Value: p.name,
				Err:   fmt.Errorf("required by retry policy %q", typeID),
			}
		}
	}

	switch typeID {
	case TypeBoundedExponentialBackoff:
		return NewBoundedExponentialBackoff(*s.BaseSleepTimeMs, *s.MaxSleepTimeMs, *s.MaxRetries), nil
	case TypeExponentialBackoff:
		return NewExponentialBackoff(*s.BaseSleepTimeMs, *s.MaxRetries, *s.MaxSleepTimeMs), nil
	case TypeNTimes:
		return NewNTimes(*s.MaxRetries, *s.SleepBetweenRetriesMs), nil
	case TypeOneTime:
		return NewOneTime(*s.SleepBetweenRetriesMs), nil
	default:
		return NewUntilElapsed(*s.MaxElapsedTimeMs, *s.SleepBetweenRetriesMs), nil
	}
}

// Resolve is shorthand for Resolve(s.Type, s).
func (s Spec) Resolve() (Policy, error) {
	return Resolve(s.Type, s)
}
