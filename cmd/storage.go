// Copyright (c) 2025 Apply Task
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/AmirTlinov/apply-task/internal/config"
	"github.com/AmirTlinov/apply-task/internal/logging"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// storageCmd represents the storage command for inspecting and switching the
// backend task store. Without arguments it prints the active mode; with a
// mode argument it switches the backend, restarting it when the mode changes.
var storageCmd = &cobra.Command{
	Use:   "storage [mode]",
	Short: "Show or switch the backend storage mode",
	Long: `The storage command shows the active backend storage mode, or switches it
when a mode is given. Recognized modes are "memory" (tasks are lost when the
backend exits) and "file" (tasks persist on disk); the synonyms "mem",
"in-memory", "persistent" and "disk" are accepted.

Switching to a different mode restarts the backend process, which drops any
in-memory tasks. Switching to the mode already in use is a no-op.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, d, cleanup, err := openBackend(ctx)
		if err != nil {
			logging.PresentBridgeError(err.Error())
			return err
		}
		defer cleanup()

		if len(args) == 0 {
			mode, err := d.StorageMode(ctx)
			if err != nil {
				return err
			}
			pterm.Printf("Storage mode: %s\n", pterm.FgCyan.Sprint(mode))
			return nil
		}

		cursor.Hide()
		stopSpin := startInlineSpinner(os.Stderr, "Switching storage mode", []string{"|", "/", "-", "\\"}, 120*time.Millisecond)
		resp, err := d.SetStorageMode(ctx, args[0])
		stopSpin()
		cursor.Show()
		if err != nil {
			logging.PresentBridgeError(err.Error())
			return err
		}

		if !resp.Success {
			pterm.Printf("❌ Could not switch storage mode to %q\n", resp.Mode)
			if resp.Error != "" {
				pterm.Println("   " + resp.Error)
			}
			return fmt.Errorf("storage mode switch failed")
		}

		if resp.Restarted {
			pterm.Printf("✅ Storage mode is now %s (backend restarted)\n", pterm.FgCyan.Sprint(resp.Mode))
		} else {
			pterm.Printf("✅ Storage mode already %s\n", pterm.FgCyan.Sprint(resp.Mode))
		}

		// Persist so the next CLI invocation launches the backend in the
		// same mode.
		cfg, err := config.Load()
		if err == nil && cfg.Backend.StorageMode != resp.Mode {
			cfg.Backend.StorageMode = resp.Mode
			if err := config.Save(cfg); err != nil {
				pterm.Println(pterm.FgYellow.Sprintf("⚠️  Mode switched but not saved to config: %v", err))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(storageCmd)
}
