// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	xtract "github.com/sassoftware/viya-vsd-xtract"
)

type dirRow struct {
	Tag        string `json:"tag"`
	TagID      uint32 `json:"tagId"`
	Depth      int    `json:"depth"`
	Offset     uint32 `json:"offset"`
	Length     uint32 `json:"length"`
	Compressed bool   `json:"compressed"`
	Handled    bool   `json:"handled"`
}

func NewDirCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dir <file>",
		Short: "list the stream directory, page collections expanded",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := mustLoadConfig(cmd)
			p, err := xtract.NewProcessor(cfg)
			if err != nil {
				cmdFailedf(cmd, "create processor failed: %s", err)
			}
			entries, err := p.Directory(context.Background(), args[0])
			if err != nil && len(entries) == 0 {
				cmdFailedf(cmd, "read directory of %s failed: %s", args[0], err)
			}

			rows := make([]dirRow, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, dirRow{
					Tag:        e.Tag.String(),
					TagID:      uint32(e.Tag),
					Depth:      e.Depth,
					Offset:     e.Offset,
					Length:     e.Length,
					Compressed: e.Compressed(),
					Handled:    e.Handled,
				})
			}
			if IsFormatJSON() {
				printJSON(rows)
			} else {
				t := newTable(table.Row{"Stream", "Tag", "Offset", "Length", "Compressed", "Handled"})
				for _, r := range rows {
					t.AppendRow(table.Row{
						strings.Repeat("  ", r.Depth) + r.Tag,
						fmt.Sprintf("%#02x", r.TagID),
						fmt.Sprintf("%#x", r.Offset),
						r.Length,
						r.Compressed,
						r.Handled,
					})
				}
				t.Render()
			}
			if err != nil {
				cmdFailedf(cmd, "directory incomplete: %s", err)
			}
			flushTrace()
		},
	}
	return cmd
}
