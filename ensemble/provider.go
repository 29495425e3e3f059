// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ensemble

import (
	"context"
	"strings"
)

// A Provider supplies the connection string of a ZooKeeper ensemble.
//
// Implementations of Provider must be safe for concurrent use by
// multiple goroutines.
type Provider interface {
	// Start prepares the provider. It is called once, before the first
	// call to ConnectionString.
	Start(ctx context.Context) error
	// ConnectionString returns the current comma-separated list of
	// host:port pairs.
	ConnectionString() string
	// Close releases any resources held by the provider.
	Close() error
}

// FixedProvider is a Provider whose connection string never changes.
type FixedProvider struct {
	connectString string
}

// Fixed returns a Provider which always returns connectString.
func Fixed(connectString string) *FixedProvider {
	return &FixedProvider{connectString: connectString}
}

func (p *FixedProvider) Start(_ context.Context) error {
	return nil
}

func (p *FixedProvider) ConnectionString() string {
	return p.connectString
}

func (p *FixedProvider) Close() error {
	return nil
}

// Servers splits a connection string into its host:port pairs,
// dropping blank entries.
func Servers(connectString string) []string {
	parts := strings.Split(connectString, ",")
	servers := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			servers = append(servers, part)
		}
	}
	return servers
}
