// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	xtract "github.com/sassoftware/viya-vsd-xtract"
)

func NewInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "print a JSON summary of the document structure",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := mustLoadConfig(cmd)
			p, err := xtract.NewProcessor(cfg)
			if err != nil {
				cmdFailedf(cmd, "create processor failed: %s", err)
			}
			if err := p.Metadata(context.Background(), args[0], os.Stdout); err != nil {
				cmdFailedf(cmd, "summarize %s failed: %s", args[0], err)
			}
			flushTrace()
		},
	}
	return cmd
}
