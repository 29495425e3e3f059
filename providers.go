// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package zkx

import (
	"bytes"
	"io"
	"net"

	"github.com/go-zookeeper/zk"
	"github.com/klauspost/compress/gzip"
)

// An ACLProvider chooses the ACL of nodes created through a Client.
type ACLProvider interface {
	// DefaultACL returns the ACL used when ACLForPath returns none.
	DefaultACL() []zk.ACL
	// ACLForPath returns the ACL for the node at the full path.
	ACLForPath(path string) []zk.ACL
}

// OpenACLProvider gives every node the open unsafe ACL, which grants
// all permissions to anyone.
var OpenACLProvider ACLProvider = openACLProvider{}

type openACLProvider struct{}

func (openACLProvider) DefaultACL() []zk.ACL {
	return zk.WorldACL(zk.PermAll)
}

func (p openACLProvider) ACLForPath(_ string) []zk.ACL {
	return p.DefaultACL()
}

// A CompressionProvider compresses node data for operations given the
// Compressed option.
type CompressionProvider interface {
	Compress(path string, data []byte) ([]byte, error)
	Decompress(path string, data []byte) ([]byte, error)
}

// GzipCompressionProvider compresses node data with gzip.
var GzipCompressionProvider CompressionProvider = gzipProvider{}

type gzipProvider struct{}

func (gzipProvider) Compress(_ string, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gzipProvider) Decompress(_ string, data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// A Launcher runs a function on a new goroutine. Supply a Launcher to
// control how a Client's background goroutines are started, for
// example to label or count them.
type Launcher interface {
	Launch(f func())
}

// The LauncherFunc type is an adapter to allow the use of ordinary
// functions as launchers.
type LauncherFunc func(f func())

// Launch calls l(f).
func (l LauncherFunc) Launch(f func()) {
	l(f)
}

// GoLauncher runs each function with a go statement.
var GoLauncher Launcher = LauncherFunc(func(f func()) { go f() })

// localAddress returns the textual IP address of the local host, or the
// IPv4 loopback address if none can be found.
func localAddress() []byte {
	addrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if ok && !ipNet.IP.IsLoopback() && ipNet.IP.To4() != nil {
				return []byte(ipNet.IP.String())
			}
		}
	}
	return []byte("127.0.0.1")
}
