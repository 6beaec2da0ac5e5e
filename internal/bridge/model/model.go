// Copyright (c) 2025 Apply Task
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package model defines shared data structures for bridge communication.
// It provides type definitions for backend launch specs, tool descriptors,
// and other data structures that are exchanged between the CLI and the task
// backend through bridge implementations.
//
// The types in this package are designed to be transport-agnostic and
// provide a stable interface for different communication protocols.
package model

// BackendSpec describes how to launch and configure the task backend process.
type BackendSpec struct {
	// Command is the backend executable.
	Command string
	// Args are passed to the command verbatim.
	Args []string
	// Dir is the working directory for the process; empty means inherit.
	Dir string
	// Env holds extra KEY=VALUE pairs appended to the inherited environment.
	Env []string
	// StorageMode selects the task store at launch; empty means the
	// bridge default ("file").
	StorageMode string
}

// Tool describes one named operation exposed by the backend.
type Tool struct {
	Name        string
	Description string
}

// ServerInfo identifies the connected backend implementation.
type ServerInfo struct {
	Name    string
	Version string
}
