// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/go-zookeeper/zk"
	"github.com/gogama/zkx"
	"github.com/spf13/cobra"
)

func newGetCmd(g *globals) *cobra.Command {
	var compressed, stat bool
	cmd := &cobra.Command{
		Use:   "get PATH",
		Short: "Print the data of a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := args[0]
			var opts []zkx.OpOption
			if compressed {
				opts = append(opts, zkx.Compressed())
			}
			return g.connect(cmd, func(ctx context.Context, c *zkx.Client) error {
				return get(ctx, cmd, c, p, stat, opts...)
			})
		},
	}
	cmd.Flags().BoolVar(&compressed, "compressed", false, "decompress the data with the configured compression provider")
	cmd.Flags().BoolVarP(&stat, "stat", "s", false, "also print the node's metadata")
	return cmd
}

func get(ctx context.Context, cmd *cobra.Command, getter zkx.Getter, p string, stat bool, opts ...zkx.OpOption) error {
	data, s, err := getter.Get(ctx, p, opts...)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if _, err = w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(w)
	}
	if stat && s != nil {
		printStat(cmd, s)
	}
	return nil
}

func printStat(cmd *cobra.Command, s *zk.Stat) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "czxid:          0x%x\n", s.Czxid)
	fmt.Fprintf(w, "mzxid:          0x%x\n", s.Mzxid)
	fmt.Fprintf(w, "ctime:          %s\n", time.UnixMilli(s.Ctime).UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "mtime:          %s\n", time.UnixMilli(s.Mtime).UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "version:        %d\n", s.Version)
	fmt.Fprintf(w, "cversion:       %d\n", s.Cversion)
	fmt.Fprintf(w, "aversion:       %d\n", s.Aversion)
	fmt.Fprintf(w, "ephemeralOwner: 0x%x\n", s.EphemeralOwner)
	fmt.Fprintf(w, "dataLength:     %d\n", s.DataLength)
	fmt.Fprintf(w, "numChildren:    %d\n", s.NumChildren)
}
