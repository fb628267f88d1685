// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	xtract "github.com/sassoftware/viya-vsd-xtract"
)

var (
	metricsFile  string
	parseTimeout time.Duration
)

func NewParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "decode the page streams and print the paint events",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := mustLoadConfig(cmd)
			reg := prometheus.NewRegistry()
			if metricsFile != "" {
				cfg.Metrics = xtract.NewMetrics(reg)
			}
			p, err := xtract.NewProcessor(cfg)
			if err != nil {
				cmdFailedf(cmd, "create processor failed: %s", err)
			}

			ctx := context.Background()
			if parseTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, parseTimeout)
				defer cancel()
			}

			rec := &xtract.RecordingSink{}
			decodeErr := p.Decode(ctx, args[0], rec)

			if IsFormatJSON() {
				printJSON(rec.Events)
			} else {
				printEvents(rec.Events)
			}
			if metricsFile != "" {
				if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
					color.Yellow("write metrics to %s failed: %s", metricsFile, err)
				}
			}
			if decodeErr != nil {
				cmdFailedf(cmd, "decode %s failed: %s", args[0], decodeErr)
			}
			flushTrace()
		},
	}
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write decoder counters to this file in Prometheus text format")
	cmd.Flags().DurationVar(&parseTimeout, "timeout", 0, "give up decoding after this long")
	return cmd
}

func printEvents(events []xtract.Event) {
	t := newTable(table.Row{"#", "Event", "X", "Y", "Width", "Height", "Media", "Bytes"})
	page := 0
	for i, e := range events {
		switch e.Kind {
		case xtract.EventStartPage:
			page++
			t.AppendRow(table.Row{i + 1, fmt.Sprintf("start page %d", page), "", "", num(e.Page.Width), num(e.Page.Height), "", ""})
		case xtract.EventEndPage:
			t.AppendRow(table.Row{i + 1, fmt.Sprintf("end page %d", page), "", "", "", "", "", ""})
		case xtract.EventDrawImage:
			im := e.Image
			t.AppendRow(table.Row{i + 1, "image", num(im.X), num(im.Y), num(im.Width), num(im.Height), im.MediaType, len(e.Payload)})
		}
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d pages", page)})
	t.Render()
}

func num(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
