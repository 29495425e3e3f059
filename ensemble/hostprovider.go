// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ensemble

import (
	"errors"
	"slices"
	"sync"

	"github.com/go-zookeeper/zk"
)

// HostProvider adapts p to the zk.HostProvider interface.
//
// The returned host provider hands out servers round-robin. Each time it
// has handed out every server without a successful connection, it
// re-reads the connection string from p and switches to the new server
// list if it changed.
func HostProvider(p Provider) zk.HostProvider {
	return &hostProvider{provider: p, curr: -1, last: -1}
}

type hostProvider struct {
	provider Provider

	lock    sync.Mutex
	servers []string
	curr    int
	last    int
}

func (hp *hostProvider) Init(servers []string) error {
	if len(servers) == 0 {
		return errors.New("zkx/ensemble: no servers")
	}

	hp.lock.Lock()
	defer hp.lock.Unlock()
	hp.servers = slices.Clone(servers)
	hp.curr = -1
	hp.last = -1
	return nil
}

func (hp *hostProvider) Len() int {
	hp.lock.Lock()
	defer hp.lock.Unlock()
	return len(hp.servers)
}

func (hp *hostProvider) Next() (server string, retryStart bool) {
	hp.lock.Lock()
	defer hp.lock.Unlock()

	hp.curr = (hp.curr + 1) % len(hp.servers)
	retryStart = hp.curr == hp.last
	if retryStart {
		hp.refresh()
	}
	if hp.last == -1 {
		hp.last = 0
	}

	return hp.servers[hp.curr], retryStart
}

func (hp *hostProvider) Connected() {
	hp.lock.Lock()
	defer hp.lock.Unlock()
	hp.last = hp.curr
}

func (hp *hostProvider) refresh() {
	servers := zk.FormatServers(Servers(hp.provider.ConnectionString()))
	if len(servers) == 0 || slices.Equal(servers, hp.servers) {
		return
	}

	hp.servers = servers
	hp.curr = 0
	hp.last = 0
}
