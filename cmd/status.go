// Copyright (c) 2025 Apply Task
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/AmirTlinov/apply-task/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// statusCmd represents the status command for checking backend health.
// It invokes the ai_status intent and summarizes the response, falling back
// to the raw JSON when the payload shape is unexpected.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend and AI provider status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		br, d, cleanup, err := openBackend(ctx)
		if err != nil {
			logging.PresentBridgeError(err.Error())
			return err
		}
		defer cleanup()

		stopSpin := startInlineSpinner(os.Stderr, "Checking status", []string{"|", "/", "-", "\\"}, 120*time.Millisecond)
		result, err := d.Dispatch(ctx, "ai_status", nil)
		stopSpin()
		if err != nil {
			logging.PresentBridgeError(err.Error())
			return err
		}

		info := br.ServerInfo()
		if info.Name != "" {
			pterm.Printf("Backend: %s %s\n", pterm.FgCyan.Sprint(info.Name), info.Version)
		}

		if ok, has := result["success"].(bool); has && !ok {
			pterm.Println("❌ Backend reported an error:")
			if errObj, ok := result["error"].(map[string]any); ok {
				if msg, ok := errObj["message"].(string); ok {
					pterm.Println("   " + logging.Mask(msg))
				}
			}
			return nil
		}

		// Summarize known fields; otherwise show the payload as-is.
		if provider, ok := result["provider"].(string); ok && provider != "" {
			pterm.Printf("AI provider: %s\n", provider)
			if available, ok := result["available"].(bool); ok {
				if available {
					pterm.Println("✅ AI features available")
				} else {
					pterm.Println("⚠️  AI features unavailable")
				}
			}
			return nil
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
