// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package zkx builds, validates and manages a shared ZooKeeper client from
declarative configuration.

Describe the client with a Config and hand it to a Builder. Build
validates the configuration, resolves the retry policy, starts the
client and checks that the ensemble root is reachable before returning
the client.

	b := zkx.NewBuilder(zkx.Config{
		ConnectString: zkx.String("zk1:2181,zk2:2181,zk3:2181"),
		Namespace:     zkx.String("myapp"),
		RetryPolicy: retry.Spec{
			Type:                  retry.TypeNTimes,
			MaxRetries:            zkx.Int(3),
			SleepBetweenRetriesMs: zkx.Int(1000),
		},
	})
	client, err := b.Build(ctx)
	...
	defer b.Close()

Every later call to Build, or to Client, returns the same client. Close
closes it exactly once and never fails; errors raised while closing are
logged and reported to CloseFailure handlers.

Optional Config fields are pointers, slices or interfaces. A nil field
is unset, and leaves the client default in effect. The String, Int and
Bool helpers set pointer fields inline.

A Client can also be constructed directly with NewClient and functional
options:

	client, err := zkx.NewClient(
		zkx.WithConnectString("localhost:2181"),
		zkx.WithRetryPolicy(retry.NewExponentialBackoff(100, 5, 2000)),
		zkx.WithTimeoutPolicy(timeout.Adaptive(2*time.Second, 10*time.Second)),
	)
	...
	err = client.Start(ctx)

Every client operation is retried on connection loss according to the
retry policy. To observe the client, install a handler into the
appropriate handler chain:

	handlers := &zkx.HandlerGroup{}
	handlers.PushBack(zkx.StateChange, zkx.HandlerFunc(
		func(_ zkx.Event, n *zkx.Notice) {
			log.Printf("session state is now %s", n.State)
		}))
	b.Handlers = handlers

Package zkx provides basic interfaces for each operation of the client
(Exister, Getter, Setter, Creator, Deleter and ChildLister); a combined
interface that composes all of them (Executor); and utility functions
for working with them (CreateAll and Walk).

Package config loads a Config from XML, YAML or TOML documents.
*/
package zkx
