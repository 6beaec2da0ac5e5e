// Copyright (c) 2025 Apply Task
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/AmirTlinov/apply-task/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// toolsCmd represents the tools command for listing backend operations.
// It connects to the backend and prints every tool the MCP session exposes,
// which is useful for discovering which intents the installed backend accepts.
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List operations exposed by the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		br, _, cleanup, err := openBackend(ctx)
		if err != nil {
			logging.PresentBridgeError(err.Error())
			return err
		}
		defer cleanup()

		tools, err := br.ListTools(ctx)
		if err != nil {
			logging.PresentBridgeError(err.Error())
			return err
		}

		if len(tools) == 0 {
			pterm.Println("The backend exposes no operations.")
			return nil
		}

		items := make([]pterm.BulletListItem, 0, len(tools))
		for _, t := range tools {
			text := pterm.FgCyan.Sprint(t.Name)
			if t.Description != "" {
				text += ": " + t.Description
			}
			items = append(items, pterm.BulletListItem{Level: 0, Text: text})
		}
		return pterm.DefaultBulletList.WithItems(items).Render()
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
