// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/curioloop/optimizer/internal/testfunc"
)

var funcsCmd = &cobra.Command{
	Use:   "funcs",
	Short: "List benchmark objectives",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, f := range testfunc.All() {
			dim := "n"
			if f.Dim > 0 {
				dim = fmt.Sprint(f.Dim)
			}
			fmt.Fprintf(out, "%-12s dim=%-2s min=%-6g at %s  %s\n", f.Name, dim, f.Min, formatVector(f.ArgMin), f.Doc)
		}
	},
}

func init() {
	rootCmd.AddCommand(funcsCmd)
}
