// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. This enables better error categorization, logging,
// and user experience by providing context-aware error information.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately.
package errors

import "fmt"

// Kind is a machine-readable error category.
type Kind string

const (
	// BackendStartFailed indicates the backend process failed to launch.
	BackendStartFailed Kind = "backend_start_failed"
	// HandshakeFailed indicates MCP initialize handshake failure.
	HandshakeFailed Kind = "handshake_failed"
	// InvokeFailed indicates a backend tool invocation failure.
	InvokeFailed Kind = "invoke_failed"
	// DecodeFailed indicates a malformed backend response payload.
	DecodeFailed Kind = "decode_failed"
	// StorageSwitchFailed indicates a storage mode change failure.
	StorageSwitchFailed Kind = "storage_switch_failed"
	// BridgeUnavailable indicates the backend handle could not be acquired.
	BridgeUnavailable Kind = "bridge_unavailable"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }
