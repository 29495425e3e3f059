// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package zkx

import (
	"context"
	"errors"
	"path"
	"sort"
	"strings"

	"github.com/go-zookeeper/zk"
)

// Exister is the interface that wraps the basic Exists method.
//
// Exists reports whether the node at a path exists. Client implements
// the Exister interface.
type Exister interface {
	Exists(ctx context.Context, path string) (bool, *zk.Stat, error)
}

// Getter is the interface that wraps the basic Get method.
//
// Get returns the data of the node at a path. Client implements the
// Getter interface.
type Getter interface {
	Get(ctx context.Context, path string, opts ...OpOption) ([]byte, *zk.Stat, error)
}

// Setter is the interface that wraps the basic Set method.
//
// Set sets the data of the node at a path. Client implements the Setter
// interface.
type Setter interface {
	Set(ctx context.Context, path string, data []byte, version int32, opts ...OpOption) (*zk.Stat, error)
}

// Creator is the interface that wraps the basic Create method.
//
// Create creates a node at a path. Client implements the Creator
// interface.
type Creator interface {
	Create(ctx context.Context, path string, data []byte, opts ...OpOption) (string, error)
}

// Deleter is the interface that wraps the basic Delete method.
//
// Delete deletes the node at a path. Client implements the Deleter
// interface.
type Deleter interface {
	Delete(ctx context.Context, path string, version int32) error
}

// ChildLister is the interface that wraps the basic Children method.
//
// Children returns the names of the children of the node at a path.
// Client implements the ChildLister interface.
type ChildLister interface {
	Children(ctx context.Context, path string) ([]string, *zk.Stat, error)
}

// Executor is the interface that groups all basic client operations.
type Executor interface {
	Exister
	Getter
	Setter
	Creator
	Deleter
	ChildLister
}

// A CreatorExister can both create nodes and check their existence.
type CreatorExister interface {
	Creator
	Exister
}

// CreateAll creates the node at p, first creating any missing ancestor
// with empty data. The node itself is created with data and opts, and
// its path is returned.
func CreateAll(ctx context.Context, c CreatorExister, p string, data []byte, opts ...OpOption) (string, error) {
	if !strings.HasPrefix(p, "/") || p == "/" {
		return "", zk.ErrInvalidPath
	}

	parts := strings.Split(strings.Trim(p, "/"), "/")
	ancestor := ""
	for _, part := range parts[:len(parts)-1] {
		ancestor += "/" + part
		exists, _, err := c.Exists(ctx, ancestor)
		if err != nil {
			return "", err
		} else if exists {
			continue
		}
		_, err = c.Create(ctx, ancestor, []byte{})
		if err != nil && !errors.Is(err, zk.ErrNodeExists) {
			return "", err
		}
	}

	return c.Create(ctx, p, data, opts...)
}

// WalkFunc is called by Walk for each node visited. Depth is zero for
// the root of the walk.
type WalkFunc func(p string, depth int) error

// SkipChildren may be returned by a WalkFunc to skip the children of
// the node just visited.
var SkipChildren = errors.New("zkx: skip children")

// Walk visits the node at root and all of its descendants depth-first,
// in lexical order of child names. Nodes deleted during the walk are
// skipped.
func Walk(ctx context.Context, l ChildLister, root string, fn WalkFunc) error {
	return walk(ctx, l, root, 0, fn)
}

func walk(ctx context.Context, l ChildLister, p string, depth int, fn WalkFunc) error {
	if err := fn(p, depth); errors.Is(err, SkipChildren) {
		return nil
	} else if err != nil {
		return err
	}

	children, _, err := l.Children(ctx, p)
	if errors.Is(err, zk.ErrNoNode) {
		return nil
	} else if err != nil {
		return err
	}

	sort.Strings(children)
	for _, child := range children {
		if err = walk(ctx, l, path.Join(p, child), depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}
