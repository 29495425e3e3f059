// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package ensemble provides sources for the list of servers making up a
// ZooKeeper ensemble.
//
// A Provider supplies a connection string, a comma-separated list of
// host:port pairs. Use Fixed when the server list is known up front, or
// NewExhibitor to poll the list from an Exhibitor REST endpoint so that
// servers can be added to or removed from the ensemble without
// reconfiguring clients.
//
// HostProvider adapts a Provider to the zk.HostProvider interface so
// that the underlying ZooKeeper connection picks up a changed server
// list whenever it has tried every known server.
package ensemble
