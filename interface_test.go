// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package zkx

import (
	"context"
	"errors"
	"path"
	"strings"
	"testing"

	"github.com/go-zookeeper/zk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Executor = (*Client)(nil)

func TestCreateAll(t *testing.T) {
	t.Run("invalid path", func(t *testing.T) {
		tree := newMemTree()
		for _, p := range []string{"", "/", "a/b"} {
			_, err := CreateAll(context.Background(), tree, p, nil)
			assert.Same(t, zk.ErrInvalidPath, err, p)
		}
	})
	t.Run("creates ancestors", func(t *testing.T) {
		tree := newMemTree()
		tree.nodes["/a"] = []byte("keep")
		p, err := CreateAll(context.Background(), tree, "/a/b/c", []byte("leaf"))
		require.NoError(t, err)
		assert.Equal(t, "/a/b/c", p)
		assert.Equal(t, []byte("keep"), tree.nodes["/a"])
		assert.Equal(t, []byte{}, tree.nodes["/a/b"])
		assert.Equal(t, []byte("leaf"), tree.nodes["/a/b/c"])
	})
	t.Run("ancestor created concurrently", func(t *testing.T) {
		tree := newMemTree()
		tree.racy = "/x"
		_, err := CreateAll(context.Background(), tree, "/x/y", nil)
		assert.NoError(t, err)
		assert.Contains(t, tree.nodes, "/x/y")
	})
	t.Run("leaf exists", func(t *testing.T) {
		tree := newMemTree()
		tree.nodes["/a"] = nil
		_, err := CreateAll(context.Background(), tree, "/a", nil)
		assert.Same(t, zk.ErrNodeExists, err)
	})
	t.Run("exists error", func(t *testing.T) {
		tree := newMemTree()
		tree.err = zk.ErrNoAuth
		_, err := CreateAll(context.Background(), tree, "/a/b", nil)
		assert.Same(t, zk.ErrNoAuth, err)
	})
}

func TestWalk(t *testing.T) {
	tree := newMemTree()
	for _, p := range []string{"/b", "/a", "/a/z", "/a/y", "/a/y/1", "/c"} {
		tree.nodes[p] = nil
	}

	t.Run("all", func(t *testing.T) {
		var visited []string
		err := Walk(context.Background(), tree, "/", func(p string, depth int) error {
			visited = append(visited, strings.Repeat(" ", depth)+p)
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, []string{"/", " /a", "  /a/y", "   /a/y/1", "  /a/z", " /b", " /c"}, visited)
	})
	t.Run("skip children", func(t *testing.T) {
		var visited []string
		err := Walk(context.Background(), tree, "/", func(p string, _ int) error {
			visited = append(visited, p)
			if p == "/a" {
				return SkipChildren
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, []string{"/", "/a", "/b", "/c"}, visited)
	})
	t.Run("stop", func(t *testing.T) {
		stop := errors.New("stop")
		var visited []string
		err := Walk(context.Background(), tree, "/a", func(p string, _ int) error {
			visited = append(visited, p)
			if p == "/a/y" {
				return stop
			}
			return nil
		})
		assert.Same(t, stop, err)
		assert.Equal(t, []string{"/a", "/a/y"}, visited)
	})
	t.Run("missing root", func(t *testing.T) {
		var visited []string
		err := Walk(context.Background(), tree, "/gone", func(p string, _ int) error {
			visited = append(visited, p)
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, []string{"/gone"}, visited)
	})
}

type memTree struct {
	nodes map[string][]byte
	racy  string
	err   error
}

func newMemTree() *memTree {
	return &memTree{nodes: map[string][]byte{"/": nil}}
}

func (m *memTree) Exists(_ context.Context, p string) (bool, *zk.Stat, error) {
	if m.err != nil {
		return false, nil, m.err
	}
	if p == m.racy {
		m.nodes[p] = nil
		return false, nil, nil
	}
	_, ok := m.nodes[p]
	return ok, &zk.Stat{}, nil
}

func (m *memTree) Create(_ context.Context, p string, data []byte, _ ...OpOption) (string, error) {
	if _, ok := m.nodes[p]; ok {
		return "", zk.ErrNodeExists
	}
	if _, ok := m.nodes[path.Dir(p)]; !ok {
		return "", zk.ErrNoNode
	}
	m.nodes[p] = data
	return p, nil
}

func (m *memTree) Children(_ context.Context, p string) ([]string, *zk.Stat, error) {
	if _, ok := m.nodes[p]; !ok {
		return nil, nil, zk.ErrNoNode
	}
	var children []string
	for n := range m.nodes {
		if n != "/" && path.Dir(n) == p {
			children = append(children, path.Base(n))
		}
	}
	return children, &zk.Stat{}, nil
}
