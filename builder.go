// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package zkx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gogama/zkx/fault"
	"github.com/gogama/zkx/retry"
)

// ErrClosed is returned by Builder.Build and Builder.Client after the
// builder's client has been closed.
var ErrClosed = errors.New("zkx: builder closed")

// A State is the lifecycle state of a Builder.
type State int

const (
	// Unbuilt is the initial state. A Build which fails validation
	// leaves the builder Unbuilt.
	Unbuilt State = iota
	// Building is the state while Build constructs, starts and probes
	// the client.
	Building
	// Started is the state after a successful Build.
	Started
	// Failed is the terminal state after Build failed to construct,
	// start or probe the client.
	Failed
	// Closed is the terminal state after Close closed the client.
	Closed
)

var stateNames = []string{
	"Unbuilt",
	"Building",
	"Started",
	"Failed",
	"Closed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// A Builder builds, validates and owns a single shared Client from a
// declarative Config. Its zero value is an Unbuilt builder with an
// empty Config.
//
// Build validates the Config, constructs and starts the client, and
// verifies that the ensemble is reachable before handing the client
// out. The client is a singleton: every later Build and Client call
// returns the same instance until Close.
//
// Builder methods are safe for concurrent use; they are serialized.
// Config, Logger and Handlers must not be changed once Build has been
// called.
type Builder struct {
	// Config is the declarative configuration of the client.
	Config Config
	// Logger receives the builder's and the client's log output.
	//
	// If Logger is nil, slog.Default() is used.
	Logger *slog.Logger
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during the client lifecycle.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup

	lock   sync.Mutex
	state  State
	client *Client
	err    error
}

// NewBuilder returns an Unbuilt builder for cfg.
func NewBuilder(cfg Config) *Builder {
	return &Builder{Config: cfg}
}

// Build returns the builder's client, building it first if necessary.
//
// Building validates the configuration, resolves the retry policy,
// constructs and starts the client, and probes the existence of the
// ensemble root. Validation errors are returned as
// *fault.ConfigurationError before any network I/O and leave the
// builder Unbuilt. Failure to construct, start or probe the client is
// returned unwrapped and moves the builder to the terminal Failed
// state; every later Build returns the same error. To try again, use a
// new Builder.
//
// After a successful Build, further calls return the same client.
// After Close, Build returns ErrClosed.
func (b *Builder) Build(ctx context.Context) (*Client, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	switch b.state {
	case Started:
		return b.client, nil
	case Failed:
		return nil, b.err
	case Closed:
		return nil, ErrClosed
	}

	b.state = Building
	opts, err := assemble(b.Config)
	if err != nil {
		b.state = Unbuilt
		return nil, err
	}

	policy, err := retry.Resolve(b.Config.RetryPolicy.Type, b.Config.RetryPolicy)
	if err != nil {
		b.state = Unbuilt
		return nil, err
	}

	logger := b.logger()
	opts = append(opts,
		WithRetryPolicy(policy),
		WithLogger(logger),
		WithHandlers(b.Handlers))

	client, err := NewClient(opts...)
	var configErr *fault.ConfigurationError
	if errors.As(err, &configErr) {
		b.state = Unbuilt
		return nil, err
	} else if err != nil {
		return nil, b.fail(err)
	}

	if err = client.Start(ctx); err == nil {
		err = client.CheckRoot(ctx)
		b.Handlers.run(AfterProbe, &Notice{Client: client, Op: "exists", Path: "/", Err: err})
	}
	if err != nil {
		logger.Error("zookeeper client failed to start", "error", err)
		b.closeClient(client)
		return nil, b.fail(err)
	}

	b.client = client
	b.state = Started
	logger.Info("zookeeper client built",
		"connectString", client.ConnectionString(),
		"retryPolicy", fmt.Sprint(policy),
		"sessionID", client.SessionID())
	return client, nil
}

func (b *Builder) fail(err error) error {
	b.state = Failed
	b.err = err
	return err
}

// Client returns the client built by a successful Build. It returns a
// *fault.ConfigurationError of kind fault.NotBuilt if Build has not
// succeeded, and ErrClosed after Close.
func (b *Builder) Client() (*Client, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	switch b.state {
	case Started:
		return b.client, nil
	case Closed:
		return nil, ErrClosed
	default:
		return nil, fault.New(fault.NotBuilt, "")
	}
}

// Close closes the builder's client if it was built and not yet
// closed, moving the builder to the Closed state. In any other state
// Close does nothing.
//
// Close never fails. Any error or panic raised while closing the client
// is logged and reported to CloseFailure handlers.
func (b *Builder) Close() {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.state != Started {
		return
	}

	b.state = Closed
	b.closeClient(b.client)
}

// State returns the builder's lifecycle state.
func (b *Builder) State() State {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.state
}

func (b *Builder) closeClient(c *Client) {
	b.Handlers.run(BeforeClose, &Notice{Client: c})
	err := safeClose(c)
	if err != nil {
		b.logger().Error("error closing zookeeper client", "error", err)
		b.Handlers.run(CloseFailure, &Notice{Client: c, Err: err})
	}
	b.Handlers.run(AfterClose, &Notice{Client: c, Err: err})
}

func safeClose(c *Client) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("zkx: panic while closing client: %v", r)
		}
	}()
	return c.Close()
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

// assemble validates the ensemble target and converts every explicitly
// set optional field of cfg into exactly one Option. Unset fields
// produce no Option, leaving the client default in effect. Explicit
// timeouts must be positive.
func assemble(cfg Config) ([]Option, error) {
	hasConnectString := cfg.ConnectString != nil && strings.TrimSpace(*cfg.ConnectString) != ""
	hasProvider := cfg.EnsembleProvider != nil
	if !hasConnectString && !hasProvider {
		return nil, fault.New(fault.MissingTarget, "")
	} else if hasConnectString && hasProvider {
		return nil, fault.New(fault.ConflictingTarget, "")
	}

	var opts []Option
	if hasConnectString {
		opts = append(opts, WithConnectString(*cfg.ConnectString))
	} else {
		opts = append(opts, WithEnsembleProvider(cfg.EnsembleProvider))
	}

	if cfg.Namespace != nil {
		opts = append(opts, WithNamespace(*cfg.Namespace))
	}
	if cfg.DefaultData != nil {
		opts = append(opts, WithDefaultData(cfg.DefaultData))
	}
	if cfg.ConnectionTimeoutMs != nil {
		d, err := positiveMs("connection-timeout", *cfg.ConnectionTimeoutMs)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithConnectionTimeout(d))
	}
	if cfg.SessionTimeoutMs != nil {
		d, err := positiveMs("session-timeout", *cfg.SessionTimeoutMs)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithSessionTimeout(d))
	}
	if cfg.CanBeReadOnly != nil {
		opts = append(opts, WithCanBeReadOnly(*cfg.CanBeReadOnly))
	}
	if cfg.AuthScheme != nil && strings.TrimSpace(*cfg.AuthScheme) != "" {
		credentials := cfg.AuthCredentials
		if credentials == nil {
			credentials = []byte{}
		}
		opts = append(opts, WithAuthorization(*cfg.AuthScheme, credentials))
	}
	if cfg.ACLProvider != nil {
		opts = append(opts, WithACLProvider(cfg.ACLProvider))
	}
	if cfg.CompressionProvider != nil {
		opts = append(opts, WithCompressionProvider(cfg.CompressionProvider))
	}
	if cfg.Launcher != nil {
		opts = append(opts, WithLauncher(cfg.Launcher))
	}
	if cfg.ConnFactory != nil {
		opts = append(opts, WithConnFactory(cfg.ConnFactory))
	}

	return opts, nil
}

func positiveMs(name string, ms int) (time.Duration, error) {
	if ms <= 0 {
		return 0, &fault.ConfigurationError{
			Kind:  fault.InvalidAttribute,
			Value: name,
			Err:   fmt.Errorf("%d ms is not positive", ms),
		}
	}
	return time.Duration(ms) * time.Millisecond, nil
}
