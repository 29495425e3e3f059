// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-zookeeper/zk"
	"github.com/gogama/zkx"
	"github.com/gogama/zkx/retry"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(args ...string) (string, string, error) {
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestPolicies(t *testing.T) {
	stdout, _, err := execute("policies")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, len(retry.Types()))
	for i, typ := range retry.Types() {
		assert.True(t, strings.HasPrefix(lines[i], typ+" "), lines[i])
	}
	assert.Contains(t, stdout, "sleep-between-retries")
}

func TestRootErrors(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "client.yaml")
	require.NoError(t, os.WriteFile(doc, []byte("client:\n  connection-string: 127.0.0.1:1\n"), 0o600))

	testCases := []struct {
		name string
		args []string
		msg  string
	}{
		{"no config", []string{"check"}, "--config is required"},
		{"bad log level", []string{"check", "-c", doc, "--log-level", "loud"}, `invalid --log-level "loud"`},
		{"bad log format", []string{"check", "-c", doc, "--log-format", "xml"}, `invalid --log-format "xml"`},
		{"unsupported document", []string{"check", "-c", filepath.Join(dir, "client.ini")}, "unsupported document type"},
		{"no retry policy", []string{"check", "-c", doc}, "retry policy"},
		{"ls needs path", []string{"ls"}, "accepts 1 arg(s)"},
		{"get needs path", []string{"get", "-c", doc}, "accepts 1 arg(s)"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, _, err := execute(testCase.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.msg)
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	g := &globals{logLevel: "debug", logFormat: "JSON"}
	logger, err := g.logger(&buf)
	require.NoError(t, err)
	logger.Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	g = &globals{logLevel: "warn", logFormat: "text"}
	logger, err = g.logger(&buf)
	require.NoError(t, err)
	logger.Info("hidden")
	assert.Empty(t, buf.String())
}

func TestList(t *testing.T) {
	tree := fakeTree{
		"/":    {"b", "a"},
		"/a":   {"x"},
		"/a/x": nil,
		"/b":   nil,
	}

	t.Run("children", func(t *testing.T) {
		cmd, out := outputCmd()
		require.NoError(t, list(context.Background(), cmd, tree, "/", false))
		assert.Equal(t, "a\nb\n", out.String())
	})
	t.Run("recursive", func(t *testing.T) {
		cmd, out := outputCmd()
		require.NoError(t, list(context.Background(), cmd, tree, "/", true))
		assert.Equal(t, "/\n  a\n    x\n  b\n", out.String())
	})
	t.Run("missing", func(t *testing.T) {
		cmd, _ := outputCmd()
		assert.Same(t, zk.ErrNoNode, list(context.Background(), cmd, tree, "/nope", false))
	})
}

func TestGet(t *testing.T) {
	getter := fakeGetter{data: []byte("hello"), stat: &zk.Stat{Version: 4, DataLength: 5}}

	t.Run("data", func(t *testing.T) {
		cmd, out := outputCmd()
		require.NoError(t, get(context.Background(), cmd, getter, "/n", false))
		assert.Equal(t, "hello\n", out.String())
	})
	t.Run("stat", func(t *testing.T) {
		cmd, out := outputCmd()
		require.NoError(t, get(context.Background(), cmd, getter, "/n", true))
		assert.Contains(t, out.String(), "version:        4\n")
		assert.Contains(t, out.String(), "dataLength:     5\n")
	})
	t.Run("error", func(t *testing.T) {
		cmd, _ := outputCmd()
		err := get(context.Background(), cmd, fakeGetter{err: zk.ErrNoNode}, "/n", false)
		assert.Same(t, zk.ErrNoNode, err)
	})
}

func outputCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	return cmd, &out
}

type fakeTree map[string][]string

func (f fakeTree) Children(_ context.Context, p string) ([]string, *zk.Stat, error) {
	children, ok := f[p]
	if !ok {
		return nil, nil, zk.ErrNoNode
	}
	return append([]string(nil), children...), &zk.Stat{}, nil
}

type fakeGetter struct {
	data []byte
	stat *zk.Stat
	err  error
}

func (f fakeGetter) Get(_ context.Context, _ string, _ ...zkx.OpOption) ([]byte, *zk.Stat, error) {
	return f.data, f.stat, f.err
}
