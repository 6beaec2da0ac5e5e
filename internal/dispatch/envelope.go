// Copyright (c) 2025 Apply Task
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dispatch

// ErrorCode is the fixed code carried by every error envelope. Callers branch
// on success and read error.message; cause detail lives only in the message.
const ErrorCode = "BRIDGE_ERROR"

// ErrorEnvelope builds the fixed-shape error envelope returned for any failed
// intent dispatch. The shape is identical across all failure causes, so
// front-end code never needs cause-specific branching. The intent field
// echoes the normalized intent so callers can see what was actually routed;
// the remaining fields are empty placeholders matching the success envelope
// produced by richer backends. Timestamping is left to the caller.
func ErrorEnvelope(intent, message string) map[string]any {
	return map[string]any{
		"success":     false,
		"intent":      intent,
		"result":      map[string]any{},
		"warnings":    []any{},
		"context":     map[string]any{},
		"suggestions": []any{},
		"meta":        map[string]any{},
		"error":       map[string]any{"code": ErrorCode, "message": message},
		"timestamp":   "",
	}
}

// StorageModeResponse reports the outcome of a storage mode switch.
// Restarted is meaningful only when Success is true; on failure it is
// always false.
type StorageModeResponse struct {
	Success   bool   `json:"success"`
	Mode      string `json:"mode"`
	Restarted bool   `json:"restarted"`
	Error     string `json:"error,omitempty"`
}
