// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// vsdxtract is a command line tool that inspects and decodes legacy VSD files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sassoftware/viya-vsd-xtract/cmd/vsdxtract/command"
)

const (
	cliName        = "vsdxtract"
	cliDescription = "inspect and decode legacy VSD drawings"
)

var rootCmd = &cobra.Command{
	Use:          cliName,
	Short:        cliDescription,
	SilenceUsage: true,
}

func init() {
	cobra.EnablePrefixMatching = true

	command.AddGlobalFlags(rootCmd)
	rootCmd.AddCommand(
		command.NewDirCommand(),
		command.NewInfoCommand(),
		command.NewParseCommand(),
		command.NewExtractCommand(),
		command.NewThemeCommand(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s error: %s\n", cliName, err)
		os.Exit(1)
	}
}
