// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies errors from ZooKeeper operations as
// transient or non-transient. The retry loop only consults the retry
// policy for transient errors, so that, for example, a missing node or
// a version conflict is reported immediately instead of being retried.
//
// Package transient depends only on the standard library and on the
// error values exported by github.com/go-zookeeper/zk.
package transient
