// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package zkx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-zookeeper/zk"
	"github.com/gogama/zkx/ensemble"
	"github.com/gogama/zkx/fault"
	"github.com/gogama/zkx/retry"
	"github.com/gogama/zkx/timeout"
)

var (
	// ErrNoRetryPolicy is returned by NewClient when no retry policy
	// was given.
	ErrNoRetryPolicy = errors.New("zkx: retry policy required")
	// ErrClientStarted is returned by Start when called more than once.
	ErrClientStarted = errors.New("zkx: client already started")
	// ErrClientNotStarted is returned by operations on a client which
	// has not been started.
	ErrClientNotStarted = errors.New("zkx: client not started")
	// ErrClientClosed is returned by operations on a closed client.
	ErrClientClosed = errors.New("zkx: client closed")
)

// A Client is a ZooKeeper client with retry support.
//
// Construct a Client with NewClient, or declaratively with a Builder.
// A Client must be started before use and closed when no longer
// needed. Client is safe for concurrent use by multiple goroutines.
//
// On top of the underlying connection, Client adds the following
// features:
//
// • every operation is retried on connection loss according to a
// retry policy, and each attempt waits for a connected session
// according to a timeout policy;
//
// • every path is prefixed with the client's namespace, which is
// created on first use;
//
// • Create stores default data when none is given and sets the ACL
// chosen by the client's ACLProvider; and
//
// • Client invokes user-provided handler functions when designated
// events occur.
type Client struct {
	opts      *options
	namespace string
	provider  ensemble.Provider

	lock            sync.Mutex
	conn            Conn
	started         bool
	providerStarted bool
	closed          bool
	changed         chan struct{}

	namespaceReady atomic.Bool
}

// NewClient constructs an unstarted Client.
//
// Exactly one of WithConnectString and WithEnsembleProvider must be
// given, as must WithRetryPolicy. Every other option has a default:
// DefaultSessionTimeout, DefaultConnectionTimeout, no namespace, the
// local IP address as default data, OpenACLProvider,
// GzipCompressionProvider, GoLauncher, DefaultConnFactory, a fixed
// timeout policy equal to the connection timeout, and slog.Default().
//
// A connect string with a chroot suffix, such as "zk1:2181/app", is
// rejected. Use WithNamespace instead.
func NewClient(opts ...Option) (*Client, error) {
	o := newOptions()
	for _, opt := range opts {
		opt(o)
	}

	hasConnectString := strings.TrimSpace(o.connectString) != ""
	if !hasConnectString && o.ensembleProvider == nil {
		return nil, fault.New(fault.MissingTarget, "")
	} else if hasConnectString && o.ensembleProvider != nil {
		return nil, fault.New(fault.ConflictingTarget, "")
	}

	if i := strings.IndexByte(o.connectString, '/'); hasConnectString && i >= 0 {
		return nil, &fault.ConfigurationError{
			Kind:  fault.InvalidAttribute,
			Value: "connection-string",
			Err:   fmt.Errorf("chroot suffix %q is not supported, use a namespace", o.connectString[i:]),
		}
	}

	if o.retryPolicy == nil {
		return nil, ErrNoRetryPolicy
	}

	namespace, err := normalizeNamespace(o.namespace)
	if err != nil {
		return nil, err
	}

	if o.timeoutPolicy == nil {
		o.timeoutPolicy = timeout.Fixed(o.connectionTimeout)
	}

	provider := o.ensembleProvider
	if provider == nil {
		provider = ensemble.Fixed(o.connectString)
	}

	return &Client{
		opts:      o,
		namespace: namespace,
		provider:  provider,
		changed:   make(chan struct{}),
	}, nil
}

func normalizeNamespace(namespace string) (string, error) {
	namespace = strings.Trim(namespace, "/")
	if namespace == "" {
		return "", nil
	}

	for _, part := range strings.Split(namespace, "/") {
		if part == "" || part == "." || part == ".." {
			return "", &fault.ConfigurationError{
				Kind:  fault.InvalidAttribute,
				Value: "namespace",
				Err:   fmt.Errorf("invalid path element %q in %q", part, namespace),
			}
		}
	}

	return namespace, nil
}

// Start starts the ensemble provider, creates the connection and
// launches the event loop. If an authorization scheme is configured,
// Start registers the authorization with the session, which requires a
// connected session.
//
// Start does not otherwise wait for a session. Use CheckRoot to verify
// that the ensemble is reachable.
func (c *Client) Start(ctx context.Context) error {
	c.lock.Lock()
	if c.closed {
		c.lock.Unlock()
		return ErrClientClosed
	} else if c.started {
		c.lock.Unlock()
		return ErrClientStarted
	}
	c.started = true
	c.lock.Unlock()

	c.opts.handlers.run(BeforeStart, &Notice{Client: c})

	if err := c.provider.Start(ctx); err != nil {
		return err
	}

	c.lock.Lock()
	if c.closed {
		c.lock.Unlock()
		_ = c.provider.Close()
		return ErrClientClosed
	}
	c.providerStarted = true
	c.lock.Unlock()

	conn, events, err := c.opts.connFactory.NewConn(ConnParams{
		Servers:           ensemble.Servers(c.provider.ConnectionString()),
		HostProvider:      ensemble.HostProvider(c.provider),
		SessionTimeout:    c.opts.sessionTimeout,
		ConnectionTimeout: c.opts.connectionTimeout,
		CanBeReadOnly:     c.opts.canBeReadOnly,
		Logger:            c.opts.logger,
	})
	if err != nil {
		c.stopProvider()
		return err
	}

	c.lock.Lock()
	if c.closed {
		c.lock.Unlock()
		conn.Close()
		return ErrClientClosed
	}
	c.conn = conn
	c.lock.Unlock()

	c.opts.launcher.Launch(func() {
		c.watch(events)
	})

	if c.opts.authScheme != "" {
		scheme, credentials := c.opts.authScheme, c.opts.authCredentials
		err = c.run(ctx, "addAuth", "", func(conn Conn) error {
			return conn.AddAuth(scheme, credentials)
		})
		if err != nil {
			return err
		}
	}

	c.opts.logger.Info("zookeeper client started",
		"connectString", c.provider.ConnectionString(),
		"namespace", c.namespace,
		"sessionTimeout", c.opts.sessionTimeout,
		"connectionTimeout", c.opts.connectionTimeout)
	c.opts.handlers.run(AfterStart, &Notice{Client: c})
	return nil
}

func (c *Client) watch(events <-chan zk.Event) {
	if events == nil {
		return
	}
	for evt := range events {
		if evt.Type != zk.EventSession {
			continue
		}
		c.opts.logger.Debug("session state changed", "state", evt.State.String(), "server", evt.Server)
		c.signal()
		c.opts.handlers.run(StateChange, &Notice{Client: c, State: evt.State, Err: evt.Err})
	}
}

func (c *Client) signal() {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.closed {
		return
	}
	close(c.changed)
	c.changed = make(chan struct{})
}

type sessionTimeoutError struct {
	d time.Duration
}

func (e *sessionTimeoutError) Error() string {
	return fmt.Sprintf("zkx: no session established within %s", e.d)
}

func (e *sessionTimeoutError) Timeout() bool {
	return true
}

func (c *Client) awaitSession(ctx context.Context, conn Conn, d time.Duration) error {
	var expired <-chan time.Time
	for {
		c.lock.Lock()
		closed, changed := c.closed, c.changed
		c.lock.Unlock()

		if closed {
			return ErrClientClosed
		} else if conn.State() == zk.StateHasSession {
			return nil
		}

		if expired == nil {
			timer := time.NewTimer(d)
			defer timer.Stop()
			expired = timer.C
		}

		select {
		case <-changed:
		case <-expired:
			return &sessionTimeoutError{d}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Client) connection() (Conn, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.closed {
		return nil, ErrClientClosed
	} else if c.conn == nil {
		return nil, ErrClientNotStarted
	}
	return c.conn, nil
}

func (c *Client) run(ctx context.Context, op, path string, fn func(conn Conn) error) error {
	conn, err := c.connection()
	if err != nil {
		return err
	}

	return retry.Do(ctx, c.opts.retryPolicy, func(a *retry.Attempt) error {
		err := c.awaitSession(ctx, conn, c.opts.timeoutPolicy.Timeout(a))
		if err == nil {
			err = fn(conn)
		}
		if err != nil {
			c.opts.logger.Debug("attempt failed", "op", op, "path", path, "attempt", a.Count, "error", err)
		}
		c.opts.handlers.run(AfterAttempt, &Notice{Client: c, Op: op, Path: path, Attempt: a, Err: err})
		return err
	})
}

// An OpOption modifies a single client operation.
type OpOption func(*opOptions)

type opOptions struct {
	compressed bool
	ephemeral  bool
	sequential bool
}

// Compressed compresses data written by Create and Set, and
// decompresses data read by Get, using the client's
// CompressionProvider.
func Compressed() OpOption {
	return func(o *opOptions) {
		o.compressed = true
	}
}

// Ephemeral makes Create create an ephemeral node, which is deleted
// when the session ends.
func Ephemeral() OpOption {
	return func(o *opOptions) {
		o.ephemeral = true
	}
}

// Sequential makes Create append a monotonically increasing counter to
// the node name.
func Sequential() OpOption {
	return func(o *opOptions) {
		o.sequential = true
	}
}

func newOpOptions(opts []OpOption) opOptions {
	var o opOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (c *Client) fullPath(path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		return "", zk.ErrInvalidPath
	} else if c.namespace == "" {
		return path, nil
	} else if path == "/" {
		return "/" + c.namespace, nil
	}
	return "/" + c.namespace + path, nil
}

func (c *Client) relativePath(fullPath string) string {
	if c.namespace == "" {
		return fullPath
	}
	prefix := "/" + c.namespace
	if fullPath == prefix {
		return "/"
	}
	return strings.TrimPrefix(fullPath, prefix)
}

func (c *Client) aclFor(fullPath string) []zk.ACL {
	acl := c.opts.aclProvider.ACLForPath(fullPath)
	if len(acl) == 0 {
		acl = c.opts.aclProvider.DefaultACL()
	}
	return acl
}

func (c *Client) ensureNamespace(conn Conn) error {
	if c.namespace == "" || c.namespaceReady.Load() {
		return nil
	}

	path := ""
	for _, part := range strings.Split(c.namespace, "/") {
		path += "/" + part
		exists, _, err := conn.Exists(path)
		if err != nil {
			return err
		} else if exists {
			continue
		}
		_, err = conn.Create(path, []byte{}, zk.FlagPersistent, c.aclFor(path))
		if err != nil && !errors.Is(err, zk.ErrNodeExists) {
			return err
		}
	}

	c.namespaceReady.Store(true)
	return nil
}

// CheckRoot verifies that the ensemble is reachable by checking the
// existence of its root node, "/", outside the client's namespace.
func (c *Client) CheckRoot(ctx context.Context) error {
	return c.run(ctx, "exists", "/", func(conn Conn) error {
		_, _, err := conn.Exists("/")
		return err
	})
}

// Exists reports whether the node at path exists.
func (c *Client) Exists(ctx context.Context, path string) (bool, *zk.Stat, error) {
	full, err := c.fullPath(path)
	if err != nil {
		return false, nil, err
	}

	var exists bool
	var stat *zk.Stat
	err = c.run(ctx, "exists", full, func(conn Conn) (err error) {
		exists, stat, err = conn.Exists(full)
		return
	})
	if err != nil {
		return false, nil, err
	}
	return exists, stat, nil
}

// Get returns the data of the node at path. With the Compressed option,
// the data is decompressed.
func (c *Client) Get(ctx context.Context, path string, opts ...OpOption) ([]byte, *zk.Stat, error) {
	full, err := c.fullPath(path)
	if err != nil {
		return nil, nil, err
	}

	var data []byte
	var stat *zk.Stat
	err = c.run(ctx, "get", full, func(conn Conn) (err error) {
		data, stat, err = conn.Get(full)
		return
	})
	if err != nil {
		return nil, nil, err
	}

	if newOpOptions(opts).compressed {
		data, err = c.opts.compressionProvider.Decompress(full, data)
		if err != nil {
			return nil, nil, err
		}
	}
	return data, stat, nil
}

// Set sets the data of the node at path if its version matches version.
// A version of -1 matches any version. With the Compressed option, the
// data is compressed.
func (c *Client) Set(ctx context.Context, path string, data []byte, version int32, opts ...OpOption) (*zk.Stat, error) {
	full, err := c.fullPath(path)
	if err != nil {
		return nil, err
	}

	if newOpOptions(opts).compressed {
		data, err = c.opts.compressionProvider.Compress(full, data)
		if err != nil {
			return nil, err
		}
	}

	var stat *zk.Stat
	err = c.run(ctx, "set", full, func(conn Conn) (err error) {
		stat, err = conn.Set(full, data, version)
		return
	})
	if err != nil {
		return nil, err
	}
	return stat, nil
}

// Create creates a node at path and returns its path, which differs
// from path for sequential nodes. If data is nil, the client's default
// data is stored.
//
// The first Create through a client with a namespace also creates the
// namespace node and its ancestors if they do not exist.
func (c *Client) Create(ctx context.Context, path string, data []byte, opts ...OpOption) (string, error) {
	full, err := c.fullPath(path)
	if err != nil {
		return "", err
	}

	o := newOpOptions(opts)
	if data == nil {
		data = c.opts.defaultData
	}
	if o.compressed {
		data, err = c.opts.compressionProvider.Compress(full, data)
		if err != nil {
			return "", err
		}
	}

	var flags int32 = zk.FlagPersistent
	if o.ephemeral {
		flags |= zk.FlagEphemeral
	}
	if o.sequential {
		flags |= zk.FlagSequence
	}

	acl := c.aclFor(full)
	var created string
	err = c.run(ctx, "create", full, func(conn Conn) (err error) {
		if err = c.ensureNamespace(conn); err != nil {
			return
		}
		created, err = conn.Create(full, data, flags, acl)
		return
	})
	if err != nil {
		return "", err
	}
	return c.relativePath(created), nil
}

// Delete deletes the node at path if its version matches version. A
// version of -1 matches any version.
func (c *Client) Delete(ctx context.Context, path string, version int32) error {
	full, err := c.fullPath(path)
	if err != nil {
		return err
	}

	return c.run(ctx, "delete", full, func(conn Conn) error {
		return conn.Delete(full, version)
	})
}

// Children returns the names of the children of the node at path.
func (c *Client) Children(ctx context.Context, path string) ([]string, *zk.Stat, error) {
	full, err := c.fullPath(path)
	if err != nil {
		return nil, nil, err
	}

	var children []string
	var stat *zk.Stat
	err = c.run(ctx, "children", full, func(conn Conn) (err error) {
		children, stat, err = conn.Children(full)
		return
	})
	if err != nil {
		return nil, nil, err
	}
	return children, stat, nil
}

// Close closes the connection and the ensemble provider. Only the first
// call has any effect; later calls return nil.
func (c *Client) Close() error {
	c.lock.Lock()
	if c.closed {
		c.lock.Unlock()
		return nil
	}
	c.closed = true
	close(c.changed)
	conn, providerStarted := c.conn, c.providerStarted
	c.providerStarted = false
	c.lock.Unlock()

	if conn != nil {
		conn.Close()
	}

	var err error
	if providerStarted {
		err = c.provider.Close()
	}
	c.opts.logger.Info("zookeeper client closed", "namespace", c.namespace)
	return err
}

// stopProvider closes the ensemble provider unless Close has already
// taken responsibility for it.
func (c *Client) stopProvider() {
	c.lock.Lock()
	providerStarted := c.providerStarted
	c.providerStarted = false
	c.lock.Unlock()

	if providerStarted {
		_ = c.provider.Close()
	}
}

// Namespace returns the client's namespace without leading or trailing
// slashes. It is empty if the client has no namespace.
func (c *Client) Namespace() string {
	return c.namespace
}

// ConnectionString returns the ensemble provider's current connection
// string.
func (c *Client) ConnectionString() string {
	return c.provider.ConnectionString()
}

// SessionTimeout returns the requested session timeout.
func (c *Client) SessionTimeout() time.Duration {
	return c.opts.sessionTimeout
}

// ConnectionTimeout returns the connection timeout.
func (c *Client) ConnectionTimeout() time.Duration {
	return c.opts.connectionTimeout
}

// CanBeReadOnly reports whether the client was configured to allow
// read-only servers.
func (c *Client) CanBeReadOnly() bool {
	return c.opts.canBeReadOnly
}

// DefaultData returns the data Create stores when none is given.
func (c *Client) DefaultData() []byte {
	return c.opts.defaultData
}

// RetryPolicy returns the client's retry policy.
func (c *Client) RetryPolicy() retry.Policy {
	return c.opts.retryPolicy
}

// State returns the session state of the underlying connection, or
// zk.StateDisconnected if the client is not started.
func (c *Client) State() zk.State {
	c.lock.Lock()
	conn := c.conn
	c.lock.Unlock()
	if conn == nil {
		return zk.StateDisconnected
	}
	return conn.State()
}

// SessionID returns the current session ID, or zero if there is none.
func (c *Client) SessionID() int64 {
	c.lock.Lock()
	conn := c.conn
	c.lock.Unlock()
	if conn == nil {
		return 0
	}
	return conn.SessionID()
}
