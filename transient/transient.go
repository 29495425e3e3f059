// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"syscall"

	"github.com/go-zookeeper/zk"
)

// A Category is the transience category of a particular error, as
// reported by function Categorize().
//
// The category Not means the error is not transient from the perspective
// of completing a ZooKeeper operation successfully, or in other words
// that a retry after encountering this error is very unlikely to succeed.
//
// All other categories indicate the error is transient, or in other
// words that a retry after encountering this error has some prospect of
// success.
type Category int

const (
	// Not indicates any non-transient error.
	Not Category = iota
	// Timeout indicates a client-side timeout, for example because no
	// session was established within the attempt timeout.
	//
	// Function Categorize() will return Timeout if the error or any of
	// its wrapped causes has a Timeout() function that reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection, and
	// corresponds to the POSIX error code ECONNREFUSED.
	//
	// Connection refusal is classified as transient because it happens
	// while an ensemble member is starting or restarting.
	ConnRefused
	// ConnReset indicates the remote host reset a previously active TCP
	// connection, and corresponds to the POSIX error code ECONNRESET.
	ConnReset
	// ConnectionLoss indicates the client lost, or never obtained, its
	// connection to the ensemble. It corresponds to zk.ErrConnectionClosed
	// and zk.ErrNoServer.
	ConnectionLoss
	// SessionMoved indicates the session was moved to another server
	// while the operation was in flight (zk.ErrSessionMoved).
	SessionMoved
	// SessionExpired indicates the server expired the session
	// (zk.ErrSessionExpired). The client establishes a new session
	// automatically, so a retry may succeed.
	SessionExpired
)

// Categorize returns the transience category of the given error. All
// non-nil transient errors result in a transience category other than
// Not. A nil error, and an error that is not transient, both produce
// the return value Not.
//
// In assessing transience, Categorize looks at wrapped cause errors
// contained within err, not just err itself. However, Categorize never
// checks if an error has a Temporary() function that returns true, as
// the semantics of Temporary() aren't entirely clear.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	switch {
	case errors.Is(err, zk.ErrConnectionClosed), errors.Is(err, zk.ErrNoServer):
		return ConnectionLoss
	case errors.Is(err, zk.ErrSessionMoved):
		return SessionMoved
	case errors.Is(err, zk.ErrSessionExpired):
		return SessionExpired
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
