// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"

	"github.com/gogama/zkx"
	"github.com/spf13/cobra"
)

func newCheckCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Build the client and verify that the ensemble is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.connect(cmd, func(_ context.Context, c *zkx.Client) error {
				printSummary(cmd, c)
				return nil
			})
		},
	}
}

func printSummary(cmd *cobra.Command, c *zkx.Client) {
	w := cmd.OutOrStdout()
	namespace := c.Namespace()
	if namespace == "" {
		namespace = "(none)"
	}
	fmt.Fprintf(w, "ensemble:        %s\n", c.ConnectionString())
	fmt.Fprintf(w, "namespace:       %s\n", namespace)
	fmt.Fprintf(w, "state:           %s\n", c.State())
	fmt.Fprintf(w, "session:         0x%x\n", c.SessionID())
	fmt.Fprintf(w, "session timeout: %s\n", c.SessionTimeout())
	fmt.Fprintf(w, "retry policy:    %v\n", c.RetryPolicy())
}
