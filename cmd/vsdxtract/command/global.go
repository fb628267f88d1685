// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	xtract "github.com/sassoftware/viya-vsd-xtract"
	"github.com/sassoftware/viya-vsd-xtract/logger"
	"github.com/sassoftware/viya-vsd-xtract/tracer"
)

type GlobalFlags struct {
	ConfigFile string
	Trace      bool
	Debug      bool
	Mode       string
	Workers    int
	JSON       bool
}

var globalFlags GlobalFlags

// AddGlobalFlags registers the flags shared by every sub-command.
func AddGlobalFlags(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.StringVar(&globalFlags.ConfigFile, "config", "", "YAML config file; defaults are used when empty")
	pf.BoolVar(&globalFlags.Trace, "trace", false, "print the decoder trace to stderr when done")
	pf.BoolVar(&globalFlags.Debug, "debug", false, "log decoder diagnostics to stderr")
	pf.StringVar(&globalFlags.Mode, "mode", "", "parsing mode: strict or best-effort (overrides the config)")
	pf.IntVar(&globalFlags.Workers, "workers", 0, "page streams decoded in parallel (overrides the config)")
	pf.BoolVar(&globalFlags.JSON, "json", false, "print results as JSON")
}

func IsFormatJSON() bool {
	return globalFlags.JSON
}

// mustLoadConfig builds the decoder config from --config and the override
// flags.
func mustLoadConfig(cmd *cobra.Command) *xtract.Config {
	cfg := xtract.NewDefaultConfig()
	if globalFlags.ConfigFile != "" {
		loaded, err := xtract.LoadConfig(globalFlags.ConfigFile)
		if err != nil {
			cmdFailedf(cmd, "load config %s failed: %s", globalFlags.ConfigFile, err)
		}
		cfg = loaded
	}
	if globalFlags.Mode != "" {
		cfg.ParsingMode = xtract.ParsingMode(globalFlags.Mode)
	}
	if globalFlags.Workers > 0 {
		cfg.MaxWorkersPerDoc = globalFlags.Workers
	}
	if globalFlags.Debug || cfg.DebugOn {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		cfg.Logger = logger.FromSlog(slog.New(h))
	}
	if err := cfg.Validate(); err != nil {
		cmdFailedf(cmd, "invalid config: %s", err)
	}
	return cfg
}

func flushTrace() {
	if globalFlags.Trace {
		tracer.Flush(os.Stderr)
	}
}
