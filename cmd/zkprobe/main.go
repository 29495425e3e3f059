// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command zkprobe builds a ZooKeeper client from a declarative
// configuration document and uses it to probe the ensemble.
package main

import (
	"os"

	"github.com/gogama/zkx/cmd/zkprobe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
