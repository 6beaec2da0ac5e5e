// Copyright (c) 2025 Apply Task
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// BridgeErrorType represents the category of a backend bridge error
type BridgeErrorType int

const (
	BridgeErrorUnknown BridgeErrorType = iota
	BridgeErrorNotRunning
	BridgeErrorStartup
	BridgeErrorProtocol
	BridgeErrorTimeout
	BridgeErrorInternal
)

// ParseBridgeError categorizes a backend bridge error message
func ParseBridgeError(errMsg string) BridgeErrorType {
	lower := strings.ToLower(errMsg)

	// Check for specific error patterns
	if strings.Contains(lower, "executable file not found") || strings.Contains(lower, "no such file") {
		return BridgeErrorStartup
	}
	if strings.Contains(lower, "broken pipe") || strings.Contains(lower, "process exited") ||
		strings.Contains(lower, "connection closed") || strings.Contains(lower, "eof") {
		return BridgeErrorNotRunning
	}
	if strings.Contains(lower, "deadline") || strings.Contains(lower, "timeout") {
		return BridgeErrorTimeout
	}
	if strings.Contains(lower, "decode_failed") || strings.Contains(lower, "invalid character") ||
		strings.Contains(lower, "unexpected end of json") {
		return BridgeErrorProtocol
	}
	if strings.Contains(lower, "internal error") {
		return BridgeErrorInternal
	}

	return BridgeErrorUnknown
}

// FormatBridgeError formats a backend bridge error in a user-friendly way
func FormatBridgeError(errMsg string) string {
	errType := ParseBridgeError(errMsg)

	var builder strings.Builder

	// Title
	builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Backend Unreachable"))
	builder.WriteString("\n\n")

	// User-friendly description
	switch errType {
	case BridgeErrorStartup:
		builder.WriteString("The task backend could not be launched.\n")
		builder.WriteString("This usually happens when:\n")
		builder.WriteString("  • The backend command is not installed or not on PATH\n")
		builder.WriteString("  • The configured backend command or working directory is wrong\n")

	case BridgeErrorNotRunning:
		builder.WriteString("The task backend process stopped responding.\n")
		builder.WriteString("This could mean:\n")
		builder.WriteString("  • The backend crashed or was killed\n")
		builder.WriteString("  • The backend exited while a call was in flight\n")

	case BridgeErrorTimeout:
		builder.WriteString("The call to the task backend timed out.\n")
		builder.WriteString("This could be due to:\n")
		builder.WriteString("  • The backend being stuck on a long operation\n")
		builder.WriteString("  • A very large task store being loaded\n")

	case BridgeErrorProtocol:
		builder.WriteString("The task backend returned a malformed response.\n")
		builder.WriteString("This could mean:\n")
		builder.WriteString("  • The backend version does not match this CLI\n")
		builder.WriteString("  • The backend printed non-protocol output on stdout\n")

	case BridgeErrorInternal:
		builder.WriteString("The task backend reported an internal error.\n")
		builder.WriteString("This could mean:\n")
		builder.WriteString("  • The backend hit an unexpected issue handling the request\n")
		builder.WriteString("  • The task store is in an inconsistent state\n")

	default:
		builder.WriteString("The call to the task backend failed.\n")
		builder.WriteString("This could mean:\n")
		builder.WriteString("  • The backend rejected the request\n")
		builder.WriteString("  • The backend is restarting\n")
	}

	builder.WriteString("\n")

	// Action to take
	if errType == BridgeErrorStartup {
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Check the backend settings in the apply-task config file"))
	} else {
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Please try the command again"))
	}

	builder.WriteString("\n")

	// Technical details (optional, for debugging)
	if strings.TrimSpace(errMsg) != "" {
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + Mask(errMsg)))
	}

	return builder.String()
}

// PresentBridgeError displays a formatted bridge error
func PresentBridgeError(errMsg string) {
	fmt.Println()
	fmt.Println(FormatBridgeError(errMsg))
	fmt.Println()
}
