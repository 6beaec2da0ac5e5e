// Copyright (c) 2025 Apply Task
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the apply-task bridge.
// It implements subcommands for invoking task intents, switching backend
// storage modes, and managing the backend token using the Cobra CLI
// framework. The package handles command parsing, execution, and provides a
// terminal UI with spinners and progress indicators.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
// It serves as the entry point for the taskbridge CLI application.
var rootCmd = &cobra.Command{
	Use:           "taskbridge",
	Short:         "Apply Task CLI bridging task intents to the MCP backend",
	Long:          `taskbridge is a command-line tool that launches the Apply Task backend process and routes task intents to it over an MCP stdio session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("taskbridge %s\n", Version)

			// Backend version requires a live session; degrade quietly
			// when the backend cannot be launched.
			br, _, cleanup, err := openBackend(cmd.Context())
			if err != nil {
				fmt.Println("backend unknown (not reachable)")
				return nil
			}
			defer cleanup()

			info := br.ServerInfo()
			if info.Name == "" {
				fmt.Println("backend unknown")
				return nil
			}
			fmt.Printf("backend %s %s\n", info.Name, info.Version)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and backend version information")
}
