// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gogama/zkx"
	"github.com/gogama/zkx/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoder(t *testing.T) {
	for _, ext := range []string{".xml", ".XML", ".yaml", ".yml", ".toml"} {
		d, err := Decoder(ext)
		assert.NoError(t, err, ext)
		assert.NotNil(t, d, ext)
	}
	_, err := Decoder(".json")
	assert.ErrorContains(t, err, `unsupported document type ".json"`)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
		return p
	}

	t.Run("each format", func(t *testing.T) {
		t.Setenv("ZK_AUTH", "user:secret")
		for _, p := range []string{write("c.xml", xmlDoc), write("c.yaml", yamlDoc), write("c.toml", tomlDoc)} {
			cfg, err := LoadFile(p)
			require.NoError(t, err, p)
			expected := expectedDocConfig()
			expected.AuthCredentials = []byte("user:secret")
			assert.Equal(t, expected, cfg, p)
		}
	})
	t.Run("env files", func(t *testing.T) {
		t.Setenv("ZKX_TEST_NAMESPACE", "from-process")
		env1 := write("one.env", "ZKX_TEST_NAMESPACE=from-file\nZKX_TEST_HOSTS=zk1:2181\nZKX_TEST_TIMEOUT=100\n")
		env2 := write("two.env", "ZKX_TEST_TIMEOUT=250\n")
		p := write("env.yaml", "client:\n"+
			"  connection-string: ${ZKX_TEST_HOSTS}\n"+
			"  namespace: ${ZKX_TEST_NAMESPACE}\n"+
			"  connection-timeout: ${ZKX_TEST_TIMEOUT}\n"+
			"  default-data: ${ZKX_TEST_UNSET}\n")

		cfg, err := LoadFile(p, WithEnvFiles(env1, env2))
		require.NoError(t, err)
		assert.Equal(t, zkx.String("zk1:2181"), cfg.ConnectString)
		assert.Equal(t, zkx.String("from-process"), cfg.Namespace)
		assert.Equal(t, zkx.Int(250), cfg.ConnectionTimeoutMs)
		assert.Nil(t, cfg.DefaultData)
	})
	t.Run("refs", func(t *testing.T) {
		p := write("refs.xml", `<client connection-string="zk1:2181" acl-provider-ref="acls"/>`)
		cfg, err := LoadFile(p, WithRefs(Refs{"acls": zkx.OpenACLProvider}))
		require.NoError(t, err)
		assert.Equal(t, zkx.OpenACLProvider, cfg.ACLProvider)

		_, err = LoadFile(p)
		assert.ErrorIs(t, err, fault.ErrUnresolvedReference)
	})
	t.Run("invalid attribute", func(t *testing.T) {
		p := write("bad.toml", "[client]\nsession-timeout = \"soon\"\n")
		_, err := LoadFile(p)
		assert.ErrorIs(t, err, fault.ErrInvalidAttribute)
	})
	t.Run("decode error", func(t *testing.T) {
		p := write("broken.yaml", "client: [\n")
		_, err := LoadFile(p)
		assert.ErrorContains(t, err, "broken.yaml")
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "absent.xml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("missing env file", func(t *testing.T) {
		p := write("plain.xml", `<client connection-string="zk1:2181"/>`)
		_, err := LoadFile(p, WithEnvFiles(filepath.Join(dir, "absent.env")))
		assert.Error(t, err)
	})
	t.Run("unsupported extension", func(t *testing.T) {
		p := write("c.ini", "")
		_, err := LoadFile(p)
		assert.ErrorContains(t, err, "unsupported document type")
	})
}
