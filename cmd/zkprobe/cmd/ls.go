// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/gogama/zkx"
	"github.com/spf13/cobra"
)

func newLsCmd(g *globals) *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "ls PATH",
		Short: "List the children of a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]
			return g.connect(cmd, func(ctx context.Context, c *zkx.Client) error {
				return list(ctx, cmd, c, root, recursive)
			})
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "R", false, "list all descendants")
	return cmd
}

func list(ctx context.Context, cmd *cobra.Command, l zkx.ChildLister, root string, recursive bool) error {
	w := cmd.OutOrStdout()
	if !recursive {
		children, _, err := l.Children(ctx, root)
		if err != nil {
			return err
		}
		sort.Strings(children)
		for _, child := range children {
			fmt.Fprintln(w, child)
		}
		return nil
	}

	return zkx.Walk(ctx, l, root, func(p string, depth int) error {
		if depth == 0 {
			fmt.Fprintln(w, p)
		} else {
			fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), path.Base(p))
		}
		return nil
	})
}
