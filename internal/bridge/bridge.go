// Copyright (c) 2025 Apply Task
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package bridge defines interfaces and implementations for bridging between the
// front-end and the task-management backend process. It provides abstractions for
// different transport mechanisms (MCP stdio today) while maintaining a consistent
// interface for named-operation invocation and storage mode management.
//
// The package enables pluggable transport implementations while providing a
// unified API for the CLI to interact with the backend service.
package bridge

import (
	"context"

	"github.com/AmirTlinov/apply-task/internal/bridge/mcpclient"
	"github.com/AmirTlinov/apply-task/internal/bridge/model"
)

// Bridge represents a connection to the task backend process.
//
// Callers must serialize access: the backend is a single stateful session and
// a storage mode switch may tear down and recreate the underlying process.
// The dispatch layer guarantees at most one in-flight call per bridge.
type Bridge interface {
	// Connect launches the backend process described by spec and performs
	// the protocol handshake.
	Connect(ctx context.Context, spec model.BackendSpec) error
	Close(ctx context.Context) error
	// Invoke calls a named backend operation with the given parameters and
	// returns the decoded structured result.
	Invoke(ctx context.Context, operation string, params map[string]any) (map[string]any, error)
	// SetStorageMode switches the backend's persistent-storage mode.
	// It reports whether the backend process was recreated to apply the mode.
	SetStorageMode(ctx context.Context, mode string) (restarted bool, err error)
	// StorageMode returns the backend's canonical current storage mode.
	StorageMode() string
	// ListTools returns the backend's operation catalog.
	ListTools(ctx context.Context) ([]model.Tool, error)
	// ServerInfo identifies the connected backend implementation.
	ServerInfo() model.ServerInfo
}

// New creates a new bridge instance.
// It returns an MCP stdio client bridge.
func New() Bridge {
	return &mcpclient.Client{}
}
