// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package zkx

import (
	"github.com/gogama/zkx/ensemble"
	"github.com/gogama/zkx/retry"
)

// Config is the declarative configuration of a Builder.
//
// Every optional field distinguishes "unset" from "set": pointers and
// slices are unset when nil, interfaces when nil. An unset field leaves
// the corresponding client default in effect. Use the String, Int and
// Bool helpers to set pointer fields inline.
//
// Exactly one of ConnectString and EnsembleProvider must be set. A
// blank ConnectString counts as unset. RetryPolicy is required.
type Config struct {
	// ConnectString is a comma-separated list of host:port pairs.
	ConnectString *string
	// EnsembleProvider supplies the server list dynamically.
	EnsembleProvider ensemble.Provider
	// Namespace is prepended to every path used through the client.
	Namespace *string
	// DefaultData is stored by Create when no data is given.
	DefaultData []byte
	// ConnectionTimeoutMs bounds how long an operation attempt waits
	// for a connected session.
	ConnectionTimeoutMs *int
	// SessionTimeoutMs is the requested ZooKeeper session timeout.
	SessionTimeoutMs *int
	// CanBeReadOnly requests that the client may use a read-only
	// server during a partition.
	CanBeReadOnly *bool
	// AuthScheme is the authorization scheme, for example "digest".
	AuthScheme *string
	// AuthCredentials are the authorization credentials. They are only
	// used when AuthScheme is set.
	AuthCredentials []byte
	// ACLProvider chooses the ACL of created nodes.
	ACLProvider ACLProvider
	// CompressionProvider compresses data for operations given the
	// Compressed option.
	CompressionProvider CompressionProvider
	// Launcher launches the client's background goroutines.
	Launcher Launcher
	// ConnFactory constructs the underlying ZooKeeper connection.
	ConnFactory ConnFactory
	// RetryPolicy selects and parameterizes one of the built-in retry
	// policies.
	RetryPolicy retry.Spec
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

// Int returns a pointer to i.
func Int(i int) *int {
	return &i
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}
