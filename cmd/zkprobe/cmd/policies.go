// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/gogama/zkx/retry"
	"github.com/spf13/cobra"
)

var policyParams = map[string]string{
	retry.TypeBoundedExponentialBackoff: "base-sleep-time, max-sleep-time, max-retries",
	retry.TypeExponentialBackoff:        "base-sleep-time, max-retries, max-sleep-time",
	retry.TypeNTimes:                    "max-retries, sleep-between-retries",
	retry.TypeOneTime:                   "sleep-between-retries",
	retry.TypeUntilElapsed:              "max-elapsed-time, sleep-between-retries",
}

func newPoliciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List the retry policy identifiers a client document may use",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, t := range retry.Types() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", t, policyParams[t])
			}
		},
	}
}
