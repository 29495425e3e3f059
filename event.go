// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package zkx

import (
	"github.com/go-zookeeper/zk"
	"github.com/gogama/zkx/retry"
)

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Builder, or in a Client using
// WithHandlers, to observe the client lifecycle.
type Event int

const (
	// BeforeStart identifies the event that occurs before the client
	// connects to the ensemble.
	//
	// When Client fires BeforeStart, the notice carries only the client.
	BeforeStart Event = iota
	// AfterStart identifies the event that occurs after the client has
	// created its connection and registered any authorization. It does
	// not imply that a session has been established.
	AfterStart
	// StateChange identifies the event that occurs whenever the
	// underlying connection reports a new session state.
	//
	// When Client fires StateChange, the notice's State field is set to
	// the new state. StateChange handlers run on the client's event
	// loop goroutine and should return quickly.
	StateChange
	// AfterAttempt identifies the event that occurs after every attempt
	// of every client operation, successful or not, before the retry
	// policy is consulted.
	//
	// When Client fires AfterAttempt, the notice's Op, Path and Attempt
	// fields are set, and Err is set if the attempt failed.
	AfterAttempt
	// AfterProbe identifies the event that occurs after the Builder's
	// liveness probe of the ensemble root completes. The notice's Err
	// field is set if the probe failed.
	AfterProbe
	// BeforeClose identifies the event that occurs before the Builder
	// closes its client.
	BeforeClose
	// AfterClose identifies the event that occurs after the Builder
	// has closed its client, whether or not closing failed.
	AfterClose
	// CloseFailure identifies the event that occurs when closing the
	// client failed. The notice's Err field is set to the failure,
	// which is never returned to the caller of Builder.Close.
	CloseFailure
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeStart",
	"AfterStart",
	"StateChange",
	"AfterAttempt",
	"AfterProbe",
	"BeforeClose",
	"AfterClose",
	"CloseFailure",
}

// Events returns a slice containing all events which can occur during
// the lifecycle of a client, in the order in which they would
// typically occur.
func Events() []Event {
	return []Event{
		BeforeStart,
		AfterStart,
		StateChange,
		AfterAttempt,
		AfterProbe,
		BeforeClose,
		AfterClose,
		CloseFailure,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}

// A Notice describes the circumstances of an event. Which fields are
// set depends on the event; see the Event constants.
//
// Handlers should treat a Notice as read-only.
type Notice struct {
	// Client is the client the event concerns. It is nil for Builder
	// events that occur when no client exists.
	Client *Client
	// Op names the client operation, for example "exists" or "create".
	Op string
	// Path is the full path of the operation, including namespace.
	Path string
	// Attempt is the state of the retried operation.
	Attempt *retry.Attempt
	// State is the session state reported by the connection.
	State zk.State
	// Err is the error associated with the event, if any.
	Err error
}
