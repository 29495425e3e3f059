// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package zkx

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/go-zookeeper/zk"
	"golang.org/x/net/proxy"
)

// A Conn is a connection to a ZooKeeper ensemble. It is the subset of
// the methods of *zk.Conn which Client uses.
type Conn interface {
	AddAuth(scheme string, auth []byte) error
	Exists(path string) (bool, *zk.Stat, error)
	Get(path string) ([]byte, *zk.Stat, error)
	Set(path string, data []byte, version int32) (*zk.Stat, error)
	Create(path string, data []byte, flags int32, acl []zk.ACL) (string, error)
	Delete(path string, version int32) error
	Children(path string) ([]string, *zk.Stat, error)
	State() zk.State
	SessionID() int64
	Close()
}

// ConnParams holds everything a ConnFactory needs to connect.
type ConnParams struct {
	// Servers is the initial server list.
	Servers []string
	// HostProvider supplies servers to the connection, including after
	// the ensemble membership changes.
	HostProvider zk.HostProvider
	// SessionTimeout is the requested session timeout.
	SessionTimeout time.Duration
	// ConnectionTimeout is the network dial timeout.
	ConnectionTimeout time.Duration
	// CanBeReadOnly reports whether a read-only server may be used.
	CanBeReadOnly bool
	// Logger receives the connection's log output.
	Logger *slog.Logger
}

// A ConnFactory creates connections to a ZooKeeper ensemble.
//
// NewConn returns the connection and the channel on which it delivers
// session events. The channel must be closed once the connection is
// closed.
type ConnFactory interface {
	NewConn(p ConnParams) (Conn, <-chan zk.Event, error)
}

// The ConnFactoryFunc type is an adapter to allow the use of ordinary
// functions as connection factories.
type ConnFactoryFunc func(p ConnParams) (Conn, <-chan zk.Event, error)

// NewConn calls f(p).
func (f ConnFactoryFunc) NewConn(p ConnParams) (Conn, <-chan zk.Event, error) {
	return f(p)
}

// DefaultConnFactory connects using github.com/go-zookeeper/zk.
//
// Connections are dialed through the proxy named by the ALL_PROXY and
// NO_PROXY environment variables, if any. The read-only mode is not
// supported by the underlying library and is ignored with a warning.
var DefaultConnFactory ConnFactory = ConnFactoryFunc(connectZK)

func connectZK(p ConnParams) (Conn, <-chan zk.Event, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if p.CanBeReadOnly {
		logger.Warn("read-only mode requested but not supported by the connection library; ignoring")
	}

	hostProvider := p.HostProvider
	if hostProvider == nil {
		hostProvider = zk.NewDNSHostProvider()
	}

	conn, events, err := zk.Connect(p.Servers, p.SessionTimeout,
		zk.WithDialer(proxyDialer(p.ConnectionTimeout)),
		zk.WithHostProvider(hostProvider),
		zk.WithLogger(zkLogger{logger}),
		zk.WithLogInfo(logger.Enabled(context.Background(), slog.LevelDebug)))
	if err != nil {
		return nil, nil, err
	}
	return conn, events, nil
}

// proxyDialer dials through the environment's proxy, if any, using
// timeout in place of the library's fixed one second dial timeout.
func proxyDialer(timeout time.Duration) zk.Dialer {
	return func(network, address string, libTimeout time.Duration) (net.Conn, error) {
		d := timeout
		if d <= 0 {
			d = libTimeout
		}
		dialer := proxy.FromEnvironmentUsing(&net.Dialer{Timeout: d})
		return dialer.Dial(network, address)
	}
}

// zkLogger adapts the connection library's Printf logging to slog.
type zkLogger struct {
	logger *slog.Logger
}

func (l zkLogger) Printf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "zk")
}
