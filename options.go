// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package zkx

import (
	"log/slog"
	"time"

	"github.com/gogama/zkx/ensemble"
	"github.com/gogama/zkx/retry"
	"github.com/gogama/zkx/timeout"
)

// Default client settings.
const (
	DefaultSessionTimeout    = 60 * time.Second
	DefaultConnectionTimeout = 15 * time.Second
)

// An Option configures a Client.
type Option func(*options)

type options struct {
	connectString       string
	ensembleProvider    ensemble.Provider
	namespace           string
	defaultData         []byte
	sessionTimeout      time.Duration
	connectionTimeout   time.Duration
	canBeReadOnly       bool
	authScheme          string
	authCredentials     []byte
	aclProvider         ACLProvider
	compressionProvider CompressionProvider
	launcher            Launcher
	connFactory         ConnFactory
	retryPolicy         retry.Policy
	timeoutPolicy       timeout.Policy
	logger              *slog.Logger
	handlers            *HandlerGroup
}

func newOptions() *options {
	return &options{
		defaultData:         localAddress(),
		sessionTimeout:      DefaultSessionTimeout,
		connectionTimeout:   DefaultConnectionTimeout,
		aclProvider:         OpenACLProvider,
		compressionProvider: GzipCompressionProvider,
		launcher:            GoLauncher,
		connFactory:         DefaultConnFactory,
		logger:              slog.Default(),
	}
}

// WithConnectString sets the ensemble's comma-separated host:port list.
func WithConnectString(connectString string) Option {
	return func(o *options) {
		o.connectString = connectString
	}
}

// WithEnsembleProvider sets a dynamic source for the ensemble's server
// list.
func WithEnsembleProvider(p ensemble.Provider) Option {
	return func(o *options) {
		o.ensembleProvider = p
	}
}

// WithNamespace sets a namespace which is prepended to every path used
// through the client. Leading and trailing slashes are ignored.
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.namespace = namespace
	}
}

// WithDefaultData sets the data Create stores when none is given. The
// default is the local host's IP address.
func WithDefaultData(data []byte) Option {
	return func(o *options) {
		if data != nil {
			o.defaultData = data
		}
	}
}

// WithSessionTimeout sets the requested session timeout.
func WithSessionTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.sessionTimeout = d
		}
	}
}

// WithConnectionTimeout sets how long an operation attempt waits for a
// connected session, and the network dial timeout.
func WithConnectionTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.connectionTimeout = d
		}
	}
}

// WithCanBeReadOnly allows the client to use a read-only server.
func WithCanBeReadOnly(canBeReadOnly bool) Option {
	return func(o *options) {
		o.canBeReadOnly = canBeReadOnly
	}
}

// WithAuthorization registers authorization info with the session. A
// nil credentials slice is sent as empty credentials.
func WithAuthorization(scheme string, credentials []byte) Option {
	return func(o *options) {
		if credentials == nil {
			credentials = []byte{}
		}
		o.authScheme = scheme
		o.authCredentials = credentials
	}
}

// WithACLProvider sets the ACL provider used by Create.
func WithACLProvider(p ACLProvider) Option {
	return func(o *options) {
		if p != nil {
			o.aclProvider = p
		}
	}
}

// WithCompressionProvider sets the compression provider used by
// operations given the Compressed option.
func WithCompressionProvider(p CompressionProvider) Option {
	return func(o *options) {
		if p != nil {
			o.compressionProvider = p
		}
	}
}

// WithLauncher sets the launcher for the client's background
// goroutines.
func WithLauncher(l Launcher) Option {
	return func(o *options) {
		if l != nil {
			o.launcher = l
		}
	}
}

// WithConnFactory sets the factory of the underlying connection.
func WithConnFactory(f ConnFactory) Option {
	return func(o *options) {
		if f != nil {
			o.connFactory = f
		}
	}
}

// WithRetryPolicy sets the retry policy. A retry policy is required.
func WithRetryPolicy(p retry.Policy) Option {
	return func(o *options) {
		o.retryPolicy = p
	}
}

// WithTimeoutPolicy sets the policy for how long each operation attempt
// waits for a connected session. The default is a fixed timeout equal
// to the connection timeout.
func WithTimeoutPolicy(p timeout.Policy) Option {
	return func(o *options) {
		o.timeoutPolicy = p
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHandlers installs event handlers.
func WithHandlers(h *HandlerGroup) Option {
	return func(o *options) {
		o.handlers = h
	}
}
