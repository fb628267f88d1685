// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sassoftware/viya-vsd-xtract/theme"
)

func NewThemeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme <file.xml>",
		Short: "dump the colour scheme, fonts and fill styles of a theme part",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			f, err := os.Open(args[0])
			if err != nil {
				cmdFailedf(cmd, "open %s failed: %s", args[0], err)
			}
			defer f.Close()

			th := theme.New()
			if err := th.Parse(f); err != nil {
				cmdFailedf(cmd, "parse theme failed: %s", err)
			}
			if IsFormatJSON() {
				printJSON(th)
				return
			}

			t := newTable(table.Row{"Index", "Name", "Colour"})
			names := []string{"dk1", "lt1", "accent1", "accent2", "accent3", "accent4", "accent5", "accent6", "bkgnd"}
			for i, name := range names {
				t.AppendRow(table.Row{i, name, colourCell(th.ThemeColour(uint(i), 0))})
			}
			for v := range th.Colours.Variations {
				t.AppendSeparator()
				for i := uint(0); i < 7; i++ {
					t.AppendRow(table.Row{100 + i, fmt.Sprintf("variation %d colour %d", v, i+1), colourCell(th.ThemeColour(100+i, uint(v)))})
				}
			}
			for i := range th.FillStyles {
				t.AppendRow(table.Row{fmt.Sprintf("fill %d", i+1), "fill style", colourCell(th.FillStyleColour(uint(i + 1)))})
			}
			t.Render()

			fonts := newTable(table.Row{"Font", "Latin", "East Asian", "Complex Script", "Scripts"})
			fonts.AppendRow(table.Row{"major", th.Fonts.Major.Latin, th.Fonts.Major.EA, th.Fonts.Major.CS, len(th.Fonts.Major.TypeFaces)})
			fonts.AppendRow(table.Row{"minor", th.Fonts.Minor.Latin, th.Fonts.Minor.EA, th.Fonts.Minor.CS, len(th.Fonts.Minor.TypeFaces)})
			fonts.Render()
		},
	}
	return cmd
}

func colourCell(c theme.Colour, ok bool) string {
	if !ok {
		return "-"
	}
	return c.String()
}
