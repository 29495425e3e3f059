// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"io"
	"strings"
	"testing"

	"github.com/gogama/zkx"
	"github.com/gogama/zkx/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const xmlDoc = `<?xml version="1.0" encoding="UTF-8"?>
<zk:client xmlns:zk="http://www.example.com/schema/zk"
           connection-string="zk1:2181,zk2:2181"
           namespace="app"
           session-timeout="30000"
           read-only="true">
    <!-- credentials come from the environment -->
    <zk:authorization scheme="digest" credentials="${ZK_AUTH}"/>
    <zk:retry-policy>
        <zk:bounded-exponential-backoff base-sleep-time="100" max-sleep-time="2000" max-retries="5"/>
    </zk:retry-policy>
</zk:client>
`

const yamlDoc = `client:
  connection-string: zk1:2181,zk2:2181
  namespace: app
  session-timeout: 30000
  read-only: true
  authorization:
    scheme: digest
    credentials: ${ZK_AUTH}
  retry-policy:
    bounded-exponential-backoff:
      base-sleep-time: 100
      max-sleep-time: 2000
      max-retries: 5
`

const tomlDoc = `[client]
connection-string = "zk1:2181,zk2:2181"
namespace = "app"
session-timeout = 30000
read-only = true

[client.authorization]
scheme = "digest"
credentials = "${ZK_AUTH}"

[client.retry-policy.bounded-exponential-backoff]
base-sleep-time = 100
max-sleep-time = 2000
max-retries = 5
`

func expectedDocConfig() *zkx.Config {
	return &zkx.Config{
		ConnectString:    zkx.String("zk1:2181,zk2:2181"),
		Namespace:        zkx.String("app"),
		SessionTimeoutMs: zkx.Int(30000),
		CanBeReadOnly:    zkx.Bool(true),
		AuthScheme:       zkx.String("digest"),
		AuthCredentials:  []byte("${ZK_AUTH}"),
		RetryPolicy: retry.Spec{
			Type:            retry.TypeBoundedExponentialBackoff,
			BaseSleepTimeMs: zkx.Int(100),
			MaxSleepTimeMs:  zkx.Int(2000),
			MaxRetries:      zkx.Int(5),
		},
	}
}

func TestDecode(t *testing.T) {
	testCases := []struct {
		name   string
		decode func(io.Reader) (Element, error)
		doc    string
	}{
		{"xml", DecodeXML, xmlDoc},
		{"yaml", DecodeYAML, yamlDoc},
		{"toml", DecodeTOML, tomlDoc},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			el, err := testCase.decode(strings.NewReader(testCase.doc))
			require.NoError(t, err)
			assert.Equal(t, "client", el.LocalName())
			require.Len(t, el.Children, 2)

			cfg, err := Parse(el, nil)
			require.NoError(t, err)
			assert.Equal(t, expectedDocConfig(), cfg)
		})
	}
}

func TestDecodeXML(t *testing.T) {
	t.Run("namespace declarations dropped", func(t *testing.T) {
		el, err := DecodeXML(strings.NewReader(`<client xmlns="urn:x" xmlns:zk="urn:zk" zk:namespace="a"/>`))
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"namespace": "a"}, el.Attrs)
		assert.Empty(t, el.Children)
	})
	t.Run("empty", func(t *testing.T) {
		_, err := DecodeXML(strings.NewReader(""))
		assert.Same(t, ErrNoRoot, err)
	})
	t.Run("malformed", func(t *testing.T) {
		_, err := DecodeXML(strings.NewReader("<client>"))
		assert.Error(t, err)
	})
}

func TestDecodeYAML(t *testing.T) {
	t.Run("empty element", func(t *testing.T) {
		el, err := DecodeYAML(strings.NewReader("client:\n  retry-policy:\n    retry-one-time:\n"))
		require.NoError(t, err)
		require.Len(t, el.Children, 1)
		require.Len(t, el.Children[0].Children, 1)
		assert.Equal(t, retry.TypeOneTime, el.Children[0].Children[0].Name)
	})
	t.Run("sequence", func(t *testing.T) {
		el, err := DecodeYAML(strings.NewReader("client:\n  authorization:\n    - scheme: a\n    - scheme: b\n"))
		require.NoError(t, err)
		require.Len(t, el.Children, 2)
		assert.Equal(t, "a", el.Children[0].Attrs["scheme"])
		assert.Equal(t, "b", el.Children[1].Attrs["scheme"])
	})
	t.Run("alias", func(t *testing.T) {
		doc := "client:\n  authorization: &auth\n    scheme: digest\n  retry-policy:\n    retry-one-time: *auth\n"
		el, err := DecodeYAML(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, el.Children, 2)
		assert.Equal(t, "digest", el.Children[1].Children[0].Attrs["scheme"])
	})
	t.Run("no root", func(t *testing.T) {
		for _, doc := range []string{"", "- a\n- b\n", "a: 1\nb: 2\n"} {
			_, err := DecodeYAML(strings.NewReader(doc))
			assert.Same(t, ErrNoRoot, err, doc)
		}
	})
	t.Run("scalar root", func(t *testing.T) {
		_, err := DecodeYAML(strings.NewReader("client: zk1:2181\n"))
		assert.ErrorContains(t, err, `element "client" must be a mapping`)
	})
}

func TestDecodeTOML(t *testing.T) {
	t.Run("array of tables", func(t *testing.T) {
		el, err := DecodeTOML(strings.NewReader("[[client.authorization]]\nscheme = \"a\"\n[[client.authorization]]\nscheme = \"b\"\n"))
		require.NoError(t, err)
		require.Len(t, el.Children, 2)
		assert.Equal(t, "a", el.Children[0].Attrs["scheme"])
		assert.Equal(t, "b", el.Children[1].Attrs["scheme"])
	})
	t.Run("no root", func(t *testing.T) {
		for _, doc := range []string{"", "a = 1\nb = 2\n", "client = 1\n"} {
			_, err := DecodeTOML(strings.NewReader(doc))
			assert.Same(t, ErrNoRoot, err, doc)
		}
	})
	t.Run("scalar array", func(t *testing.T) {
		_, err := DecodeTOML(strings.NewReader("[client]\nservers = [\"a\", \"b\"]\n"))
		assert.ErrorContains(t, err, `key "servers"`)
	})
	t.Run("malformed", func(t *testing.T) {
		_, err := DecodeTOML(strings.NewReader("[client\n"))
		assert.Error(t, err)
	})
}
