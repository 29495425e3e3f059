// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ensemble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultRestPath is the path of the Exhibitor cluster list resource.
const DefaultRestPath = "/exhibitor/v1/cluster/list"

// ErrNoExhibitors is returned by NewExhibitor's Start method when no
// Exhibitor base URL was configured.
var ErrNoExhibitors = errors.New("zkx/ensemble: no exhibitor URLs")

// An ExhibitorOption configures an Exhibitor provider.
type ExhibitorOption func(*exhibitorOptions)

type exhibitorOptions struct {
	restPath     string
	pollInterval time.Duration
	backup       string
	retryCount   int
	timeout      time.Duration
	logger       *slog.Logger
}

func newExhibitorOptions() *exhibitorOptions {
	return &exhibitorOptions{
		restPath:     DefaultRestPath,
		pollInterval: 10 * time.Second,
		retryCount:   2,
		timeout:      5 * time.Second,
		logger:       slog.Default(),
	}
}

// WithRestPath overrides DefaultRestPath.
func WithRestPath(path string) ExhibitorOption {
	return func(o *exhibitorOptions) {
		if path != "" {
			o.restPath = path
		}
	}
}

// WithPollInterval sets how often the server list is refreshed. The
// default is 10 seconds.
func WithPollInterval(d time.Duration) ExhibitorOption {
	return func(o *exhibitorOptions) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithBackup sets a connection string used until the first successful
// poll. Without a backup, Start fails if the first poll fails.
func WithBackup(connectString string) ExhibitorOption {
	return func(o *exhibitorOptions) {
		o.backup = connectString
	}
}

// WithRetryCount sets how many times each REST request is retried.
func WithRetryCount(n int) ExhibitorOption {
	return func(o *exhibitorOptions) {
		if n >= 0 {
			o.retryCount = n
		}
	}
}

// WithRequestTimeout sets the timeout of each REST request.
func WithRequestTimeout(d time.Duration) ExhibitorOption {
	return func(o *exhibitorOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ExhibitorOption {
	return func(o *exhibitorOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Exhibitor is a Provider which polls the server list of the ensemble
// from one or more Exhibitor instances.
type Exhibitor struct {
	urls []string
	opts *exhibitorOptions
	rest *resty.Client

	lock          sync.RWMutex
	connectString string
	stop          chan struct{}
	done          chan struct{}
}

type clusterList struct {
	Servers []string `json:"servers"`
	Port    int      `json:"port"`
}

// NewExhibitor constructs a Provider polling the Exhibitor instances at
// the given base URLs, for example "http://exhibitor-1:8080".
func NewExhibitor(urls []string, opts ...ExhibitorOption) *Exhibitor {
	o := newExhibitorOptions()
	for _, opt := range opts {
		opt(o)
	}

	rest := resty.New().
		SetTimeout(o.timeout).
		SetRetryCount(o.retryCount).
		SetHeader("Accept", "application/json")

	return &Exhibitor{
		urls:          urls,
		opts:          o,
		rest:          rest,
		connectString: o.backup,
	}
}

// Start polls the server list once and then keeps polling in the
// background until Close is called.
func (e *Exhibitor) Start(ctx context.Context) error {
	if len(e.urls) == 0 {
		return ErrNoExhibitors
	}

	e.lock.Lock()
	if e.stop != nil {
		e.lock.Unlock()
		return errors.New("zkx/ensemble: exhibitor provider already started")
	}
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	e.lock.Unlock()

	if err := e.poll(ctx); err != nil {
		if e.opts.backup == "" {
			e.lock.Lock()
			e.stop, e.done = nil, nil
			e.lock.Unlock()
			return err
		}
		e.opts.logger.Warn("exhibitor poll failed, using backup connection string",
			"backup", e.opts.backup, "error", err)
	}

	go e.loop()
	return nil
}

func (e *Exhibitor) loop() {
	defer close(e.done)
	ticker := time.NewTicker(e.opts.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), e.opts.pollInterval)
			if err := e.poll(ctx); err != nil {
				e.opts.logger.Warn("exhibitor poll failed, keeping last server list",
					"connectString", e.ConnectionString(), "error", err)
			}
			cancel()
		}
	}
}

func (e *Exhibitor) poll(ctx context.Context) error {
	var errs []error
	for _, base := range e.urls {
		connectString, err := e.fetch(ctx, base)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		e.lock.Lock()
		changed := connectString != e.connectString
		e.connectString = connectString
		e.lock.Unlock()
		if changed {
			e.opts.logger.Info("ensemble server list changed", "connectString", connectString, "exhibitor", base)
		}
		return nil
	}

	return errors.Join(errs...)
}

func (e *Exhibitor) fetch(ctx context.Context, base string) (string, error) {
	url := strings.TrimSuffix(base, "/") + e.opts.restPath
	resp, err := e.rest.R().
		SetContext(ctx).
		SetResult(&clusterList{}).
		Get(url)
	if err != nil {
		return "", fmt.Errorf("zkx/ensemble: GET %s: %w", url, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("zkx/ensemble: GET %s: status %d", url, resp.StatusCode())
	}

	list := resp.Result().(*clusterList)
	if len(list.Servers) == 0 {
		return "", fmt.Errorf("zkx/ensemble: GET %s: empty server list", url)
	}

	port := strconv.Itoa(list.Port)
	hosts := make([]string, len(list.Servers))
	for i, server := range list.Servers {
		hosts[i] = strings.TrimSpace(server) + ":" + port
	}
	return strings.Join(hosts, ","), nil
}

// ConnectionString returns the most recently polled server list, or the
// backup connection string if no poll has succeeded yet.
func (e *Exhibitor) ConnectionString() string {
	e.lock.RLock()
	defer e.lock.RUnlock()
	return e.connectString
}

// Close stops background polling. It is safe to call more than once.
func (e *Exhibitor) Close() error {
	e.lock.Lock()
	stop, done := e.stop, e.done
	if stop == nil {
		e.lock.Unlock()
		return nil
	}
	select {
	case <-stop:
		e.lock.Unlock()
		return nil
	default:
		close(stop)
	}
	e.lock.Unlock()

	<-done
	return nil
}
