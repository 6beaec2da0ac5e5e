// Copyright (c) 2025 Apply Task
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AmirTlinov/apply-task/internal/keychain"
	"github.com/AmirTlinov/apply-task/internal/logging"
	"github.com/AmirTlinov/apply-task/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// tokenCmd groups subcommands for managing the backend API token.
// The token is stored in the OS keychain and forwarded to the backend
// process environment at launch; it never touches the config file.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the backend API token",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the backend API token in the OS keychain",
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.GetManager()
		if err != nil {
			pterm.Println("❌ Secure storage is not available on this system")
			pterm.Println("   Keychain is only supported on macOS and Windows")
			return err
		}

		reader := bufio.NewReader(os.Stdin)
		promptText := "Enter API token: "
		fmt.Print(promptText)
		raw, _ := reader.ReadString('\n')
		token := strings.TrimSpace(raw)

		// Clear the prompt and token from the terminal
		terminal.ClearPreviousLines(len(promptText) + len(raw))

		if token == "" {
			return errors.New("token is required")
		}

		if err := km.SaveUserToken(token); err != nil {
			pterm.Println("❌ Failed to store token in keychain")
			pterm.Println(logging.PresentError("keychain", err))
			return err
		}

		pterm.Println("✅ Token saved to OS keychain")
		return nil
	},
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show whether a token is stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.GetManager()
		if err != nil {
			pterm.Println("❌ Secure storage is not available on this system")
			return err
		}

		token, err := km.LoadUserToken()
		if err != nil || strings.TrimSpace(token) == "" {
			pterm.Println("⚠️  No token configured")
			pterm.Println("   Please run: taskbridge token set")
			return nil
		}

		// Never print the full token
		suffix := token
		if len(suffix) > 4 {
			suffix = suffix[len(suffix)-4:]
		}
		pterm.Printf("✅ Token configured (ends with %s)\n", suffix)
		return nil
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored token from the OS keychain",
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.GetManager()
		if err != nil {
			pterm.Println("❌ Secure storage is not available on this system")
			return err
		}

		if err := km.ClearUserToken(); err != nil {
			return err
		}
		pterm.Println("✅ Token removed from OS keychain")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenShowCmd)
	tokenCmd.AddCommand(tokenClearCmd)
}
