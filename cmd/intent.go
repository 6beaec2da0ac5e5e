// Copyright (c) 2025 Apply Task
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AmirTlinov/apply-task/internal/dispatch"
	"github.com/AmirTlinov/apply-task/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	intentParams  string
	intentKV      []string
	verboseIntent bool
)

// intentCmd represents the intent command for invoking a single task intent.
// The intent name is normalized and routed to the matching backend tasks
// operation; the backend response is printed verbatim as JSON.
var intentCmd = &cobra.Command{
	Use:   "intent <name>",
	Short: "Invoke a task intent on the backend",
	Long: `The intent command routes a task intent to the backend. Intent names are
matched case-insensitively and surrounding whitespace is ignored, so "Create",
" create " and "CREATE" all reach the same backend operation.

Parameters are passed as a JSON object via --params, or individually as
--param key=value pairs, and forwarded to the backend unchanged. On backend
failure a structured error envelope is printed instead of a result; the
command still exits 0 so callers can inspect the envelope.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if verboseIntent {
			os.Setenv("APPLY_TASK_VERBOSE", "1")
		}

		params := map[string]any{}
		if intentParams != "" {
			if err := json.Unmarshal([]byte(intentParams), &params); err != nil {
				return fmt.Errorf("invalid --params JSON: %w", err)
			}
		}
		for _, kv := range intentKV {
			key, value, ok := strings.Cut(kv, "=")
			if !ok || key == "" {
				return fmt.Errorf("invalid --param %q, expected key=value", kv)
			}
			params[key] = value
		}

		ctx := cmd.Context()
		_, d, cleanup, err := openBackend(ctx)
		if err != nil {
			logging.PresentBridgeError(err.Error())
			return err
		}
		defer cleanup()

		op := dispatch.OperationName(args[0])
		stopSpin := startInlineSpinner(os.Stderr, op, []string{"|", "/", "-", "\\"}, 120*time.Millisecond)
		result, err := d.Dispatch(ctx, args[0], params)
		stopSpin()
		if err != nil {
			// Hard failure: the backend handle itself was unavailable.
			logging.PresentBridgeError(err.Error())
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

		if ok, has := result["success"].(bool); has && !ok {
			if errObj, ok := result["error"].(map[string]any); ok {
				if msg, ok := errObj["message"].(string); ok && msg != "" {
					pterm.Println()
					pterm.Println(logging.FormatBridgeError(msg))
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(intentCmd)
	intentCmd.Flags().StringVarP(&intentParams, "params", "p", "", "Intent parameters as a JSON object")
	intentCmd.Flags().StringArrayVar(&intentKV, "param", nil, "Single intent parameter as key=value (repeatable)")
	intentCmd.Flags().BoolVarP(&verboseIntent, "verbose", "v", false, "Enable verbose debug output")
}
